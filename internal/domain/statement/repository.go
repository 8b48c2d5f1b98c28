package statement

import (
	"context"

	"github.com/google/uuid"
)

// Repository manages archive entry persistence with pagination support.
// Upsert must be idempotent on (transaction_id, account_id) so re-delivered
// outbox events overwrite instead of duplicating.
type Repository interface {
	Upsert(ctx context.Context, entry *Entry) error
	GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Entry, error)
	CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error)
	GetByGroupID(ctx context.Context, groupID uuid.UUID) ([]*Entry, error)
}

// ErrEntryNotFound indicates a missing archive entry
type ErrEntryNotFound struct {
	TransactionID uuid.UUID
}

func (e ErrEntryNotFound) Error() string {
	return "statement entry not found: " + e.TransactionID.String()
}

// Is implements the errors.Is interface for ErrEntryNotFound
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	if t.TransactionID == uuid.Nil {
		return true
	}
	return e.TransactionID == t.TransactionID
}
