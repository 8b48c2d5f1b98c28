package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/atlas-banking-core/internal/domain/money"
	"github.com/atlas-banking-core/internal/domain/transaction"
	"github.com/atlas-banking-core/internal/platform/persistence"
)

// TransactionRepository implements the transaction.Repository interface for
// PostgreSQL. Listing by account is served by the idx_transactions_account
// index; state transitions go through a compare-and-swap on the group.
type TransactionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewTransactionRepository creates a new PostgreSQL transaction repository
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) transaction.Repository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction for atomic operations
func (r *TransactionRepository) WithTx(tx pgx.Tx) transaction.Repository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new transaction record
func (r *TransactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (id, group_id, user_id, account_id, amount, currency, type, direction, state, concept, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.querier.Exec(ctx, query,
		t.ID,
		t.GroupID,
		t.UserID,
		t.AccountID,
		t.Amount.Amount,
		t.Amount.Currency,
		t.Type,
		t.Direction,
		t.State,
		t.Concept,
		t.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create transaction", "id", t.ID.String(), "error", err)
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := selectColumns + ` WHERE id = $1`

	t, err := scanTransaction(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrTransactionNotFound{TransactionID: id}
		}
		r.logger.Error("Failed to get transaction", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return t, nil
}

// ListByAccountID retrieves transactions touching an account, newest first
func (r *TransactionRepository) ListByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*transaction.Transaction, error) {
	query := selectColumns + `
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list transactions by account", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to list transactions by account: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// CountByAccountID returns the total number of transactions touching an account
func (r *TransactionRepository) CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE account_id = $1`

	var count int64
	if err := r.querier.QueryRow(ctx, query, accountID).Scan(&count); err != nil {
		r.logger.Error("Failed to count transactions by account", "account_id", accountID.String(), "error", err)
		return 0, fmt.Errorf("failed to count transactions by account: %w", err)
	}

	return count, nil
}

// ListByGroupID retrieves the legs sharing a group id
func (r *TransactionRepository) ListByGroupID(ctx context.Context, groupID uuid.UUID) ([]*transaction.Transaction, error) {
	query := selectColumns + `
		WHERE group_id = $1
		ORDER BY direction DESC
	`

	rows, err := r.querier.Query(ctx, query, groupID)
	if err != nil {
		r.logger.Error("Failed to list transactions by group", "group_id", groupID.String(), "error", err)
		return nil, fmt.Errorf("failed to list transactions by group: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// UpdateStateByGroupID moves every record of the group from one state to
// another and reports how many rows changed. The state predicate makes the
// update a compare-and-swap, so duplicate concurrent confirm/reject calls
// move zero rows instead of double-applying.
func (r *TransactionRepository) UpdateStateByGroupID(ctx context.Context, groupID uuid.UUID, from, to transaction.State) (int64, error) {
	query := `
		UPDATE transactions
		SET state = $1
		WHERE group_id = $2 AND state = $3
	`

	result, err := r.querier.Exec(ctx, query, to, groupID, from)
	if err != nil {
		r.logger.Error("Failed to update transaction group state", "group_id", groupID.String(), "error", err)
		return 0, fmt.Errorf("failed to update transaction group state: %w", err)
	}

	return result.RowsAffected(), nil
}

const selectColumns = `
		SELECT id, group_id, user_id, account_id, amount, currency, type, direction, state, concept, created_at
		FROM transactions`

func scanTransaction(row pgx.Row) (*transaction.Transaction, error) {
	var t transaction.Transaction
	var amount int64
	var currency string
	err := row.Scan(
		&t.ID,
		&t.GroupID,
		&t.UserID,
		&t.AccountID,
		&amount,
		&currency,
		&t.Type,
		&t.Direction,
		&t.State,
		&t.Concept,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Amount = money.Money{Amount: amount, Currency: currency}
	return &t, nil
}

func collectTransactions(rows pgx.Rows) ([]*transaction.Transaction, error) {
	var transactions []*transaction.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over transactions: %w", err)
	}
	return transactions, nil
}
