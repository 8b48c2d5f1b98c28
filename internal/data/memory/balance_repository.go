package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/atlas-banking-core/internal/domain/balance"
)

// BalanceRepository is an in-memory balance.Repository
type BalanceRepository struct {
	mu       sync.RWMutex
	balances map[uuid.UUID]balance.Balance
}

// NewBalanceRepository creates an empty in-memory balance repository
func NewBalanceRepository() *BalanceRepository {
	return &BalanceRepository{
		balances: make(map[uuid.UUID]balance.Balance),
	}
}

// WithTx returns the repository itself; see package doc
func (r *BalanceRepository) WithTx(tx pgx.Tx) balance.Repository {
	return r
}

// Create stores the zero balance, rejecting duplicates
func (r *BalanceRepository) Create(ctx context.Context, b *balance.Balance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.balances[b.AccountID]; ok {
		return balance.ErrBalanceAlreadyExists{AccountID: b.AccountID}
	}
	r.balances[b.AccountID] = *b
	return nil
}

// Get retrieves the balance of one account
func (r *BalanceRepository) Get(ctx context.Context, accountID uuid.UUID) (*balance.Balance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.balances[accountID]
	if !ok {
		return nil, balance.ErrBalanceNotFound{AccountID: accountID}
	}
	return &b, nil
}

// GetMany retrieves balances preserving the requested order; accounts without
// a balance are silently omitted
func (r *BalanceRepository) GetMany(ctx context.Context, accountIDs []uuid.UUID) ([]*balance.Balance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	balances := make([]*balance.Balance, 0, len(accountIDs))
	for _, id := range accountIDs {
		if b, ok := r.balances[id]; ok {
			copied := b
			balances = append(balances, &copied)
		}
	}
	return balances, nil
}

// LockForUpdate returns the current balance. The in-memory store has no row
// locks; scenario tests run movements sequentially.
func (r *BalanceRepository) LockForUpdate(ctx context.Context, accountID uuid.UUID) (*balance.Balance, error) {
	return r.Get(ctx, accountID)
}

// Update persists a mutated balance
func (r *BalanceRepository) Update(ctx context.Context, b *balance.Balance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.balances[b.AccountID]; !ok {
		return balance.ErrBalanceNotFound{AccountID: b.AccountID}
	}
	r.balances[b.AccountID] = *b
	return nil
}
