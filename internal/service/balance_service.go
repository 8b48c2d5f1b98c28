package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/atlas-banking-core/internal/domain/balance"
)

// BalanceServiceImpl implements the BalanceService interface
type BalanceServiceImpl struct {
	balanceRepo balance.Repository
}

// NewBalanceService creates a new balance service
func NewBalanceService(balanceRepo balance.Repository) BalanceService {
	return &BalanceServiceImpl{
		balanceRepo: balanceRepo,
	}
}

// GetBalance retrieves one account's balance
func (s *BalanceServiceImpl) GetBalance(ctx context.Context, accountID uuid.UUID) (*balance.Balance, error) {
	return s.balanceRepo.Get(ctx, accountID)
}

// GetBalances retrieves balances in the order of the requested ids; accounts
// without a balance row are silently omitted
func (s *BalanceServiceImpl) GetBalances(ctx context.Context, accountIDs []uuid.UUID) ([]*balance.Balance, error) {
	return s.balanceRepo.GetMany(ctx, accountIDs)
}
