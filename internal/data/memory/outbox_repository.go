package memory

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/atlas-banking-core/internal/domain/outbox"
)

// OutboxRepository is an in-memory outbox.Repository
type OutboxRepository struct {
	mu       sync.Mutex
	nextID   int64
	messages []outbox.Message // insertion order
}

// NewOutboxRepository creates an empty in-memory outbox repository
func NewOutboxRepository() *OutboxRepository {
	return &OutboxRepository{nextID: 1}
}

// WithTx returns the repository itself; see package doc
func (r *OutboxRepository) WithTx(tx pgx.Tx) outbox.Repository {
	return r
}

// Create assigns an id and stores a copy of the message
func (r *OutboxRepository) Create(ctx context.Context, message *outbox.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	message.ID = r.nextID
	r.nextID++
	r.messages = append(r.messages, *message)
	return nil
}

// GetPending returns pending messages in FIFO order
func (r *OutboxRepository) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var pending []*outbox.Message
	for i := range r.messages {
		if len(pending) >= limit {
			break
		}
		if r.messages[i].Status == outbox.StatusPending {
			copied := r.messages[i]
			pending = append(pending, &copied)
		}
	}
	return pending, nil
}

// UpdateStatus updates one message's status
func (r *OutboxRepository) UpdateStatus(ctx context.Context, id int64, status outbox.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.messages {
		if r.messages[i].ID == id {
			r.messages[i].Status = status
			return nil
		}
	}
	return outbox.ErrMessageNotFound{ID: id}
}

// IncrementAttempts records one more failed publish attempt
func (r *OutboxRepository) IncrementAttempts(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.messages {
		if r.messages[i].ID == id {
			r.messages[i].IncrementAttempts()
			return nil
		}
	}
	return outbox.ErrMessageNotFound{ID: id}
}

// All returns a snapshot of every stored message, for test assertions
func (r *OutboxRepository) All() []outbox.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := make([]outbox.Message, len(r.messages))
	copy(snapshot, r.messages)
	return snapshot
}
