package access

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines access-record persistence operations
type Repository interface {
	Create(ctx context.Context, a *AccountAccess) error
	Find(ctx context.Context, accountID, userID uuid.UUID) (*AccountAccess, error)
	Update(ctx context.Context, a *AccountAccess) error
	WithTx(tx pgx.Tx) Repository
}

// ErrAccessNotFound indicates a missing access record for an (account, user) pair
type ErrAccessNotFound struct {
	AccountID uuid.UUID
	UserID    uuid.UUID
}

func (e ErrAccessNotFound) Error() string {
	return "access record not found for account " + e.AccountID.String() + " and user " + e.UserID.String()
}

// Is implements the errors.Is interface for ErrAccessNotFound
func (e ErrAccessNotFound) Is(target error) bool {
	t, ok := target.(ErrAccessNotFound)
	if !ok {
		return false
	}
	if t.AccountID == uuid.Nil && t.UserID == uuid.Nil {
		return true
	}
	return e.AccountID == t.AccountID && e.UserID == t.UserID
}

// ErrAccessDenied indicates the user holds no effective operating grant
type ErrAccessDenied struct {
	AccountID uuid.UUID
	UserID    uuid.UUID
}

func (e ErrAccessDenied) Error() string {
	return "user " + e.UserID.String() + " may not operate on account " + e.AccountID.String()
}

// Is implements the errors.Is interface for ErrAccessDenied
func (e ErrAccessDenied) Is(target error) bool {
	t, ok := target.(ErrAccessDenied)
	if !ok {
		return false
	}
	if t.AccountID == uuid.Nil && t.UserID == uuid.Nil {
		return true
	}
	return e.AccountID == t.AccountID && e.UserID == t.UserID
}
