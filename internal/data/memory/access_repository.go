package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/atlas-banking-core/internal/domain/access"
)

type accessKey struct {
	accountID uuid.UUID
	userID    uuid.UUID
}

// AccessRepository is an in-memory access.Repository
type AccessRepository struct {
	mu      sync.RWMutex
	records map[accessKey]access.AccountAccess
}

// NewAccessRepository creates an empty in-memory access repository
func NewAccessRepository() *AccessRepository {
	return &AccessRepository{
		records: make(map[accessKey]access.AccountAccess),
	}
}

// WithTx returns the repository itself; see package doc
func (r *AccessRepository) WithTx(tx pgx.Tx) access.Repository {
	return r
}

// Create stores a copy of the access record
func (r *AccessRepository) Create(ctx context.Context, a *access.AccountAccess) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[accessKey{a.AccountID, a.UserID}] = *a
	return nil
}

// Find retrieves the record for an (account, user) pair
func (r *AccessRepository) Find(ctx context.Context, accountID, userID uuid.UUID) (*access.AccountAccess, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.records[accessKey{accountID, userID}]
	if !ok {
		return nil, access.ErrAccessNotFound{AccountID: accountID, UserID: userID}
	}
	return &a, nil
}

// Update mutates an existing record in place
func (r *AccessRepository) Update(ctx context.Context, a *access.AccountAccess) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := accessKey{a.AccountID, a.UserID}
	if _, ok := r.records[key]; !ok {
		return access.ErrAccessNotFound{AccountID: a.AccountID, UserID: a.UserID}
	}
	r.records[key] = *a
	return nil
}
