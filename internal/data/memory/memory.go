// Package memory provides in-memory implementations of the domain
// repositories behind the same contracts as the PostgreSQL ones. They back
// service-level scenario tests and keep a per-account index for transaction
// listings so lookups never scan the primary store.
//
// WithTx returns the repository itself: the in-memory stores have no
// transaction isolation, which is sufficient for the single-goroutine test
// scenarios they serve.
package memory

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TxRunner satisfies the service layer's transaction boundary without a
// database. The callback receives a nil pgx.Tx, which the in-memory
// repositories ignore.
type TxRunner struct{}

// NewTxRunner creates a pass-through transaction runner
func NewTxRunner() *TxRunner {
	return &TxRunner{}
}

// ExecuteTx invokes fn directly. There is no rollback; failing steps in tests
// must fail before mutating state.
func (r *TxRunner) ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}
