// Package outbox implements the transactional outbox: every committed
// movement writes one message per touched transaction record in the same ACID
// unit, and a poller later publishes those messages to the statement pipeline.
package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/atlas-banking-core/internal/domain/statement"
	"github.com/atlas-banking-core/internal/domain/transaction"
)

// Status defines message publishing states
type Status string

const (
	StatusPending         Status = "PENDING"
	StatusProcessed       Status = "PROCESSED"
	StatusFailedToPublish Status = "FAILED_TO_PUBLISH"
)

// Message stores one movement event for reliable publishing
type Message struct {
	ID            int64           `json:"id"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	GroupID       uuid.UUID       `json:"group_id"`
	AccountID     uuid.UUID       `json:"account_id"`
	Payload       json.RawMessage `json:"payload"`
	Status        Status          `json:"status"`
	Attempts      int             `json:"attempts"`
	CreatedAt     time.Time       `json:"created_at"`
	LastAttemptAt *time.Time      `json:"last_attempt_at,omitempty"`
}

// NewMessage wraps a transaction's current state as a pending outbox message
func NewMessage(t *transaction.Transaction) (*Message, error) {
	payload, err := json.Marshal(statement.FromTransaction(t))
	if err != nil {
		return nil, err
	}

	return &Message{
		TransactionID: t.ID,
		GroupID:       t.GroupID,
		AccountID:     t.AccountID,
		Payload:       payload,
		Status:        StatusPending,
		Attempts:      0,
		CreatedAt:     time.Now(),
	}, nil
}

// IncrementAttempts records one more failed publish attempt
func (m *Message) IncrementAttempts() {
	m.Attempts++
	now := time.Now()
	m.LastAttemptAt = &now
}

// MarkAsProcessed flags the message as successfully published
func (m *Message) MarkAsProcessed() {
	m.Status = StatusProcessed
	now := time.Now()
	m.LastAttemptAt = &now
}

// MarkAsFailed parks the message as undeliverable after exhausting retries
func (m *Message) MarkAsFailed() {
	m.Status = StatusFailedToPublish
	now := time.Now()
	m.LastAttemptAt = &now
}

// StatementEntry extracts the archived movement from the payload
func (m *Message) StatementEntry() (*statement.Entry, error) {
	var entry statement.Entry
	if err := json.Unmarshal(m.Payload, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
