// Package statement holds the archive projection of committed movements. The
// archive is a read model fed asynchronously from the transactional outbox; it
// is never consulted for balances or confirmation state.
package statement

import (
	"time"

	"github.com/google/uuid"

	"github.com/atlas-banking-core/internal/domain/transaction"
)

// Entry is one archived movement record for an account
type Entry struct {
	TransactionID uuid.UUID             `json:"transaction_id" bson:"transaction_id"`
	GroupID       uuid.UUID             `json:"group_id" bson:"group_id"`
	AccountID     uuid.UUID             `json:"account_id" bson:"account_id"`
	UserID        uuid.UUID             `json:"user_id" bson:"user_id"`
	Type          transaction.Type      `json:"type" bson:"type"`
	Direction     transaction.Direction `json:"direction" bson:"direction"`
	Amount        int64                 `json:"amount" bson:"amount"`
	Currency      string                `json:"currency" bson:"currency"`
	State         transaction.State     `json:"state" bson:"state"`
	Concept       string                `json:"concept,omitempty" bson:"concept,omitempty"`
	CreatedAt     time.Time             `json:"created_at" bson:"created_at"`
	RecordedAt    time.Time             `json:"recorded_at" bson:"recorded_at"`
}

// FromTransaction builds the archive entry for a transaction's current state
func FromTransaction(t *transaction.Transaction) *Entry {
	return &Entry{
		TransactionID: t.ID,
		GroupID:       t.GroupID,
		AccountID:     t.AccountID,
		UserID:        t.UserID,
		Type:          t.Type,
		Direction:     t.Direction,
		Amount:        t.Amount.Amount,
		Currency:      t.Amount.Currency,
		State:         t.State,
		Concept:       t.Concept,
		CreatedAt:     t.CreatedAt,
		RecordedAt:    time.Now(),
	}
}
