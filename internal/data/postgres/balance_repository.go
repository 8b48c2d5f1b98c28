package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/atlas-banking-core/internal/domain/balance"
	"github.com/atlas-banking-core/internal/domain/money"
	"github.com/atlas-banking-core/internal/platform/persistence"
)

// uniqueViolation is the PostgreSQL error code for duplicate keys
const uniqueViolation = "23505"

// BalanceRepository implements the balance.Repository interface for PostgreSQL
type BalanceRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewBalanceRepository creates a new PostgreSQL balance repository
func NewBalanceRepository(logger *slog.Logger, db *persistence.PostgresDB) balance.Repository {
	return &BalanceRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction for atomic operations
func (r *BalanceRepository) WithTx(tx pgx.Tx) balance.Repository {
	return &BalanceRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores the zero balance for a freshly opened account.
// Returns ErrBalanceAlreadyExists on duplicate creation.
func (r *BalanceRepository) Create(ctx context.Context, b *balance.Balance) error {
	query := `
		INSERT INTO balances (account_id, amount, currency, updated_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.querier.Exec(ctx, query,
		b.AccountID,
		b.Amount.Amount,
		b.Amount.Currency,
		b.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return balance.ErrBalanceAlreadyExists{AccountID: b.AccountID}
		}
		r.logger.Error("Failed to create balance", "account_id", b.AccountID.String(), "error", err)
		return fmt.Errorf("failed to create balance: %w", err)
	}

	return nil
}

// Get retrieves the balance of one account
func (r *BalanceRepository) Get(ctx context.Context, accountID uuid.UUID) (*balance.Balance, error) {
	query := `
		SELECT account_id, amount, currency, updated_at
		FROM balances
		WHERE account_id = $1
	`

	return r.scanOne(r.querier.QueryRow(ctx, query, accountID), accountID)
}

// GetMany retrieves balances for the given accounts, preserving the input
// order. Accounts without a balance row are silently omitted.
func (r *BalanceRepository) GetMany(ctx context.Context, accountIDs []uuid.UUID) ([]*balance.Balance, error) {
	query := `
		SELECT account_id, amount, currency, updated_at
		FROM balances
		WHERE account_id = ANY($1)
	`

	rows, err := r.querier.Query(ctx, query, accountIDs)
	if err != nil {
		r.logger.Error("Failed to get balances", "error", err)
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}
	defer rows.Close()

	found := make(map[uuid.UUID]*balance.Balance, len(accountIDs))
	for rows.Next() {
		var b balance.Balance
		var amount int64
		var currency string
		if err := rows.Scan(&b.AccountID, &amount, &currency, &b.UpdatedAt); err != nil {
			r.logger.Error("Failed to scan balance", "error", err)
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		b.Amount = money.Money{Amount: amount, Currency: currency}
		found[b.AccountID] = &b
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over balances: %w", err)
	}

	balances := make([]*balance.Balance, 0, len(found))
	for _, id := range accountIDs {
		if b, ok := found[id]; ok {
			balances = append(balances, b)
		}
	}

	return balances, nil
}

// LockForUpdate obtains a row lock on the balance and returns its current
// state. Serializes concurrent movements against the same account; must run
// inside a transaction.
func (r *BalanceRepository) LockForUpdate(ctx context.Context, accountID uuid.UUID) (*balance.Balance, error) {
	query := `
		SELECT account_id, amount, currency, updated_at
		FROM balances
		WHERE account_id = $1
		FOR UPDATE
	`

	return r.scanOne(r.querier.QueryRow(ctx, query, accountID), accountID)
}

// Update persists a mutated balance
func (r *BalanceRepository) Update(ctx context.Context, b *balance.Balance) error {
	query := `
		UPDATE balances
		SET amount = $1, updated_at = $2
		WHERE account_id = $3
	`

	result, err := r.querier.Exec(ctx, query, b.Amount.Amount, b.UpdatedAt, b.AccountID)
	if err != nil {
		r.logger.Error("Failed to update balance", "account_id", b.AccountID.String(), "error", err)
		return fmt.Errorf("failed to update balance: %w", err)
	}

	if result.RowsAffected() == 0 {
		return balance.ErrBalanceNotFound{AccountID: b.AccountID}
	}

	return nil
}

func (r *BalanceRepository) scanOne(row pgx.Row, accountID uuid.UUID) (*balance.Balance, error) {
	var b balance.Balance
	var amount int64
	var currency string
	err := row.Scan(&b.AccountID, &amount, &currency, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, balance.ErrBalanceNotFound{AccountID: accountID}
		}
		r.logger.Error("Failed to get balance", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	b.Amount = money.Money{Amount: amount, Currency: currency}
	return &b, nil
}
