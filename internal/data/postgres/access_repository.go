package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/atlas-banking-core/internal/domain/access"
	"github.com/atlas-banking-core/internal/platform/persistence"
)

// AccessRepository implements the access.Repository interface for PostgreSQL.
// Records are unique per (account_id, user_id) and never deleted.
type AccessRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewAccessRepository creates a new PostgreSQL access repository
func NewAccessRepository(logger *slog.Logger, db *persistence.PostgresDB) access.Repository {
	return &AccessRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction for atomic operations
func (r *AccessRepository) WithTx(tx pgx.Tx) access.Repository {
	return &AccessRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new access record
func (r *AccessRepository) Create(ctx context.Context, a *access.AccountAccess) error {
	query := `
		INSERT INTO account_accesses (account_id, user_id, type, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.querier.Exec(ctx, query,
		a.AccountID,
		a.UserID,
		a.Type,
		a.State,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create access record", "account_id", a.AccountID.String(), "user_id", a.UserID.String(), "error", err)
		return fmt.Errorf("failed to create access record: %w", err)
	}

	return nil
}

// Find retrieves the access record for an (account, user) pair
func (r *AccessRepository) Find(ctx context.Context, accountID, userID uuid.UUID) (*access.AccountAccess, error) {
	query := `
		SELECT account_id, user_id, type, state, created_at, updated_at
		FROM account_accesses
		WHERE account_id = $1 AND user_id = $2
	`

	var a access.AccountAccess
	err := r.querier.QueryRow(ctx, query, accountID, userID).Scan(
		&a.AccountID,
		&a.UserID,
		&a.Type,
		&a.State,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, access.ErrAccessNotFound{AccountID: accountID, UserID: userID}
		}
		r.logger.Error("Failed to find access record", "account_id", accountID.String(), "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to find access record: %w", err)
	}

	return &a, nil
}

// Update mutates an existing record in place (re-grant or revoke)
func (r *AccessRepository) Update(ctx context.Context, a *access.AccountAccess) error {
	query := `
		UPDATE account_accesses
		SET type = $1, state = $2, updated_at = $3
		WHERE account_id = $4 AND user_id = $5
	`

	result, err := r.querier.Exec(ctx, query,
		a.Type,
		a.State,
		a.UpdatedAt,
		a.AccountID,
		a.UserID,
	)
	if err != nil {
		r.logger.Error("Failed to update access record", "account_id", a.AccountID.String(), "user_id", a.UserID.String(), "error", err)
		return fmt.Errorf("failed to update access record: %w", err)
	}

	if result.RowsAffected() == 0 {
		return access.ErrAccessNotFound{AccountID: a.AccountID, UserID: a.UserID}
	}

	return nil
}
