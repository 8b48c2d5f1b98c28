package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/atlas-banking-core/internal/domain/account"
)

// AccountRepository is an in-memory account.Repository
type AccountRepository struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]account.Account
}

// NewAccountRepository creates an empty in-memory account repository
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		accounts: make(map[uuid.UUID]account.Account),
	}
}

// WithTx returns the repository itself; see package doc
func (r *AccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return r
}

// Create stores a copy of the account
func (r *AccountRepository) Create(ctx context.Context, acc *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[acc.ID] = *acc
	return nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, ok := r.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound{AccountID: id}
	}
	return &acc, nil
}

// Exists reports whether an account exists
func (r *AccountRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.accounts[id]
	return ok, nil
}

// UpdateState applies a lifecycle transition
func (r *AccountRepository) UpdateState(ctx context.Context, id uuid.UUID, state account.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	acc, ok := r.accounts[id]
	if !ok {
		return account.ErrAccountNotFound{AccountID: id}
	}
	acc.State = state
	r.accounts[id] = acc
	return nil
}
