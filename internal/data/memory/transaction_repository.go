package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/atlas-banking-core/internal/domain/transaction"
)

// TransactionRepository is an in-memory transaction.Repository. Alongside the
// primary map it maintains insertion-ordered indexes by account and by group,
// so listings never scan the whole store.
type TransactionRepository struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]transaction.Transaction
	byAccount    map[uuid.UUID][]uuid.UUID // insertion order
	byGroup      map[uuid.UUID][]uuid.UUID
}

// NewTransactionRepository creates an empty in-memory transaction repository
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{
		transactions: make(map[uuid.UUID]transaction.Transaction),
		byAccount:    make(map[uuid.UUID][]uuid.UUID),
		byGroup:      make(map[uuid.UUID][]uuid.UUID),
	}
}

// WithTx returns the repository itself; see package doc
func (r *TransactionRepository) WithTx(tx pgx.Tx) transaction.Repository {
	return r
}

// Create stores a copy of the record and maintains the indexes
func (r *TransactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions[t.ID] = *t
	r.byAccount[t.AccountID] = append(r.byAccount[t.AccountID], t.ID)
	r.byGroup[t.GroupID] = append(r.byGroup[t.GroupID], t.ID)
	return nil
}

// GetByID retrieves a record by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.transactions[id]
	if !ok {
		return nil, transaction.ErrTransactionNotFound{TransactionID: id}
	}
	return &t, nil
}

// ListByAccountID returns records touching an account, newest first
func (r *TransactionRepository) ListByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*transaction.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byAccount[accountID]
	var result []*transaction.Transaction
	// Walk the index backwards: insertion order is creation order.
	skipped := 0
	for i := len(ids) - 1; i >= 0; i-- {
		if skipped < offset {
			skipped++
			continue
		}
		if limit > 0 && len(result) >= limit {
			break
		}
		t := r.transactions[ids[i]]
		result = append(result, &t)
	}
	return result, nil
}

// CountByAccountID returns the number of records touching an account
func (r *TransactionRepository) CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byAccount[accountID])), nil
}

// ListByGroupID returns the legs sharing a group id
func (r *TransactionRepository) ListByGroupID(ctx context.Context, groupID uuid.UUID) ([]*transaction.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byGroup[groupID]
	result := make([]*transaction.Transaction, 0, len(ids))
	for _, id := range ids {
		t := r.transactions[id]
		result = append(result, &t)
	}
	return result, nil
}

// UpdateStateByGroupID compare-and-swaps the state of every record in the
// group, reporting how many changed
func (r *TransactionRepository) UpdateStateByGroupID(ctx context.Context, groupID uuid.UUID, from, to transaction.State) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var changed int64
	for _, id := range r.byGroup[groupID] {
		t := r.transactions[id]
		if t.State != from {
			continue
		}
		t.State = to
		r.transactions[id] = t
		changed++
	}
	return changed, nil
}
