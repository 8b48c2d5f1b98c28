// Package service hosts the application services: account lifecycle, access
// control, balance queries and the transaction orchestration engine. Services
// coordinate the domain repositories inside transaction boundaries provided
// by a TxRunner; all business rules live here or in the domain packages.
package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/atlas-banking-core/internal/domain/access"
	"github.com/atlas-banking-core/internal/domain/account"
	"github.com/atlas-banking-core/internal/domain/balance"
	"github.com/atlas-banking-core/internal/domain/money"
	"github.com/atlas-banking-core/internal/domain/statement"
	"github.com/atlas-banking-core/internal/domain/transaction"
)

// TxRunner provides the atomic multi-write unit every movement runs in.
// persistence.PostgresDB satisfies it in production; the in-memory stores
// provide a pass-through for tests.
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// AccountService manages account lifecycle
type AccountService interface {
	// OpenAccount creates an OPEN account, its zero balance and the owner's
	// OWNER access grant in one atomic unit. A failure at any step leaves no
	// orphan account behind.
	OpenAccount(ctx context.Context, ownerUserID uuid.UUID, currency string) (*account.Account, error)

	// GetAccount retrieves an account by id
	// Returns ErrAccountNotFound if the account doesn't exist
	GetAccount(ctx context.Context, id uuid.UUID) (*account.Account, error)

	// Block, Reopen and Close are administrative transitions. They gate new
	// movements only; in-flight transfers are unaffected.
	Block(ctx context.Context, id uuid.UUID) (*account.Account, error)
	Reopen(ctx context.Context, id uuid.UUID) (*account.Account, error)
	Close(ctx context.Context, id uuid.UUID) (*account.Account, error)
}

// AccessService manages per-(account, user) permission records
type AccessService interface {
	// Grant creates a GRANTED record, or updates type and restores GRANTED on
	// an existing one. Repeated grants never error.
	Grant(ctx context.Context, accountID, userID uuid.UUID, accessType access.Type) (*access.AccountAccess, error)

	// Revoke marks the record REVOKED.
	// Returns ErrAccessNotFound if no record exists for the pair; revoking an
	// already revoked record is allowed.
	Revoke(ctx context.Context, accountID, userID uuid.UUID) (*access.AccountAccess, error)

	// FindAccess looks up the record for the pair, no side effects
	FindAccess(ctx context.Context, accountID, userID uuid.UUID) (*access.AccountAccess, error)
}

// BalanceService provides read access to account balances
type BalanceService interface {
	// GetBalance retrieves one balance
	// Returns ErrBalanceNotFound if no balance row exists
	GetBalance(ctx context.Context, accountID uuid.UUID) (*balance.Balance, error)

	// GetBalances retrieves balances in the order of the requested ids,
	// silently omitting accounts without a balance row
	GetBalances(ctx context.Context, accountIDs []uuid.UUID) ([]*balance.Balance, error)
}

// MovementRequest describes a deposit or withdrawal
type MovementRequest struct {
	UserID    uuid.UUID
	AccountID uuid.UUID
	Amount    money.Money
	Concept   string
}

// TransferRequest describes a transfer between two accounts
type TransferRequest struct {
	UserID        uuid.UUID
	OriginID      uuid.UUID
	DestinationID uuid.UUID
	Amount        money.Money
	Concept       string
}

// TransactionService is the transaction orchestration engine. Every movement
// is validated against access control and account lifecycle, applied to the
// balance store and recorded as transaction rows inside one atomic unit.
type TransactionService interface {
	// Deposit credits the account and records one immediately CONFIRMED
	// DEPOSIT transaction
	Deposit(ctx context.Context, req MovementRequest) (*transaction.Transaction, error)

	// Withdraw debits the account and records one immediately CONFIRMED
	// WITHDRAW transaction
	Withdraw(ctx context.Context, req MovementRequest) (*transaction.Transaction, error)

	// Transfer debits the origin immediately and records two PENDING legs
	// sharing a group id. The destination is not credited until Confirm.
	// Returns the outgoing leg first.
	Transfer(ctx context.Context, req TransferRequest) (*transaction.Transaction, *transaction.Transaction, error)

	// Confirm credits the destination and moves both legs to CONFIRMED.
	// Confirming an already confirmed transfer is a no-op; confirming a
	// declined one returns ErrIllegalStateTransition.
	Confirm(ctx context.Context, transactionID uuid.UUID) error

	// Reject credits the origin back and moves both legs to DECLINED.
	// Rejecting an already declined transfer is a no-op; rejecting a
	// confirmed one returns ErrIllegalStateTransition.
	Reject(ctx context.Context, transactionID uuid.UUID) error

	// GetByID retrieves one transaction record
	GetByID(ctx context.Context, transactionID uuid.UUID) (*transaction.Transaction, error)

	// ListByAccountID retrieves a page of records touching the account,
	// newest first, plus the total count
	ListByAccountID(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]*transaction.Transaction, int64, error)

	// ListByGroupID retrieves the paired legs of a transfer
	ListByGroupID(ctx context.Context, groupID uuid.UUID) ([]*transaction.Transaction, error)
}

// StatementService provides read access to the archived statement entries.
// The archive is eventually consistent with the transactional core.
type StatementService interface {
	// GetStatement retrieves a page of archive entries for the account,
	// newest first, plus the total count
	GetStatement(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]*statement.Entry, int64, error)

	// GetGroup retrieves the archive entries sharing a transfer group id
	GetGroup(ctx context.Context, groupID uuid.UUID) ([]*statement.Entry, error)
}
