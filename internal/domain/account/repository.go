package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines account persistence operations
type Repository interface {
	Create(ctx context.Context, acc *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	UpdateState(ctx context.Context, id uuid.UUID, state State) error
	WithTx(tx pgx.Tx) Repository
}

// ErrAccountNotFound indicates missing account
type ErrAccountNotFound struct {
	AccountID uuid.UUID
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.AccountID.String()
}

// Is implements the errors.Is interface for ErrAccountNotFound
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	if t.AccountID == uuid.Nil {
		return true
	}
	return e.AccountID == t.AccountID
}

// ErrAccountNotOpen indicates an account that may not take part in movements
type ErrAccountNotOpen struct {
	AccountID uuid.UUID
	State     State
}

func (e ErrAccountNotOpen) Error() string {
	return "account " + e.AccountID.String() + " is not open: " + string(e.State)
}

// Is implements the errors.Is interface for ErrAccountNotOpen
func (e ErrAccountNotOpen) Is(target error) bool {
	t, ok := target.(ErrAccountNotOpen)
	if !ok {
		return false
	}
	if t.AccountID == uuid.Nil {
		return true
	}
	return e.AccountID == t.AccountID
}
