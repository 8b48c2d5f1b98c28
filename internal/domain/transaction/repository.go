package transaction

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines transaction persistence operations.
//
// UpdateStateByGroupID is a compare-and-swap: it moves every record of the
// group from `from` to `to` and reports how many rows changed. Callers use the
// count to detect concurrent duplicate confirm/reject calls. ListByAccountID
// returns most-recent first and must be served by an account-id index, not a
// scan over the primary store.
type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Transaction, error)
	CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error)
	ListByGroupID(ctx context.Context, groupID uuid.UUID) ([]*Transaction, error)
	UpdateStateByGroupID(ctx context.Context, groupID uuid.UUID, from, to State) (int64, error)
	WithTx(tx pgx.Tx) Repository
}

// ErrTransactionNotFound indicates a missing transaction record
type ErrTransactionNotFound struct {
	TransactionID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found: " + e.TransactionID.String()
}

// Is implements the errors.Is interface for ErrTransactionNotFound
func (e ErrTransactionNotFound) Is(target error) bool {
	t, ok := target.(ErrTransactionNotFound)
	if !ok {
		return false
	}
	if t.TransactionID == uuid.Nil {
		return true
	}
	return e.TransactionID == t.TransactionID
}

// ErrConcurrentStateChange indicates a group state CAS that moved fewer rows
// than expected because another writer got there first
type ErrConcurrentStateChange struct {
	GroupID uuid.UUID
}

func (e ErrConcurrentStateChange) Error() string {
	return "concurrent state change on transaction group: " + e.GroupID.String()
}

// Is implements the errors.Is interface for ErrConcurrentStateChange
func (e ErrConcurrentStateChange) Is(target error) bool {
	t, ok := target.(ErrConcurrentStateChange)
	if !ok {
		return false
	}
	if t.GroupID == uuid.Nil {
		return true
	}
	return e.GroupID == t.GroupID
}
