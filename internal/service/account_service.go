package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/atlas-banking-core/internal/domain/access"
	"github.com/atlas-banking-core/internal/domain/account"
	"github.com/atlas-banking-core/internal/domain/balance"
)

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	txRunner    TxRunner
	accountRepo account.Repository
	balanceRepo balance.Repository
	accessRepo  access.Repository
	logger      *slog.Logger
}

// NewAccountService creates a new account service
func NewAccountService(
	txRunner TxRunner,
	accountRepo account.Repository,
	balanceRepo balance.Repository,
	accessRepo access.Repository,
	logger *slog.Logger,
) AccountService {
	return &AccountServiceImpl{
		txRunner:    txRunner,
		accountRepo: accountRepo,
		balanceRepo: balanceRepo,
		accessRepo:  accessRepo,
		logger:      logger,
	}
}

// OpenAccount creates the account, its zero balance and the owner's OWNER
// grant in one transaction. If balance creation fails the account row is
// rolled back with it.
func (s *AccountServiceImpl) OpenAccount(ctx context.Context, ownerUserID uuid.UUID, currency string) (*account.Account, error) {
	acc, err := account.New(ownerUserID)
	if err != nil {
		return nil, err
	}

	zero, err := balance.NewZero(acc.ID, currency)
	if err != nil {
		return nil, err
	}

	grant, err := access.NewGrant(acc.ID, ownerUserID, access.TypeOwner)
	if err != nil {
		return nil, err
	}

	err = s.txRunner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.accountRepo.WithTx(tx).Create(ctx, acc); err != nil {
			return err
		}
		if err := s.balanceRepo.WithTx(tx).Create(ctx, zero); err != nil {
			return err
		}
		return s.accessRepo.WithTx(tx).Create(ctx, grant)
	})
	if err != nil {
		s.logger.Error("Failed to open account", "owner_user_id", ownerUserID.String(), "error", err)
		return nil, err
	}

	s.logger.Info("Account opened", "account_id", acc.ID.String(), "owner_user_id", ownerUserID.String(), "currency", currency)
	return acc, nil
}

// GetAccount retrieves an account by id
func (s *AccountServiceImpl) GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}

// Block marks the account BLOCKED
func (s *AccountServiceImpl) Block(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return s.transition(ctx, id, func(acc *account.Account) error { return acc.Block() })
}

// Reopen returns a blocked account to OPEN
func (s *AccountServiceImpl) Reopen(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return s.transition(ctx, id, func(acc *account.Account) error { return acc.Reopen() })
}

// Close marks the account CLOSED
func (s *AccountServiceImpl) Close(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	return s.transition(ctx, id, func(acc *account.Account) error { acc.Close(); return nil })
}

func (s *AccountServiceImpl) transition(ctx context.Context, id uuid.UUID, apply func(*account.Account) error) (*account.Account, error) {
	acc, err := s.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := apply(acc); err != nil {
		return nil, err
	}

	if err := s.accountRepo.UpdateState(ctx, acc.ID, acc.State); err != nil {
		return nil, err
	}

	s.logger.Info("Account state changed", "account_id", acc.ID.String(), "state", string(acc.State))
	return acc, nil
}
