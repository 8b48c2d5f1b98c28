package balance

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines balance persistence operations.
//
// GetMany returns balances in the order of the requested ids; accounts without
// a balance row are silently omitted. LockForUpdate acquires a row lock so
// concurrent movements against the same account serialize; it must run inside
// a transaction.
type Repository interface {
	Create(ctx context.Context, b *Balance) error
	Get(ctx context.Context, accountID uuid.UUID) (*Balance, error)
	GetMany(ctx context.Context, accountIDs []uuid.UUID) ([]*Balance, error)
	LockForUpdate(ctx context.Context, accountID uuid.UUID) (*Balance, error)
	Update(ctx context.Context, b *Balance) error
	WithTx(tx pgx.Tx) Repository
}

// ErrBalanceNotFound indicates a missing balance row
type ErrBalanceNotFound struct {
	AccountID uuid.UUID
}

func (e ErrBalanceNotFound) Error() string {
	return "balance not found for account: " + e.AccountID.String()
}

// Is implements the errors.Is interface for ErrBalanceNotFound
func (e ErrBalanceNotFound) Is(target error) bool {
	t, ok := target.(ErrBalanceNotFound)
	if !ok {
		return false
	}
	if t.AccountID == uuid.Nil {
		return true
	}
	return e.AccountID == t.AccountID
}

// ErrBalanceAlreadyExists indicates a duplicate balance creation
type ErrBalanceAlreadyExists struct {
	AccountID uuid.UUID
}

func (e ErrBalanceAlreadyExists) Error() string {
	return "balance already exists for account: " + e.AccountID.String()
}

// Is implements the errors.Is interface for ErrBalanceAlreadyExists
func (e ErrBalanceAlreadyExists) Is(target error) bool {
	t, ok := target.(ErrBalanceAlreadyExists)
	if !ok {
		return false
	}
	if t.AccountID == uuid.Nil {
		return true
	}
	return e.AccountID == t.AccountID
}
