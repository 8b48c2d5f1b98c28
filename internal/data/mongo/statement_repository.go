// Package mongo provides the MongoDB implementation of the statement archive
// repository. The archive is a read model; the transactional core never
// depends on it.
package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/atlas-banking-core/internal/domain/statement"
)

// StatementCollectionName is the name of the archive collection in MongoDB
const StatementCollectionName = "statement_entries"

// StatementRepository implements the statement.Repository interface for MongoDB
type StatementRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewStatementRepository creates a new MongoDB statement repository
func NewStatementRepository(logger *slog.Logger, db *mongo.Database) statement.Repository {
	return &StatementRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert stores or replaces the archive entry for a transaction leg. Keyed on
// (transaction_id, account_id) so re-delivered outbox events and state
// transitions overwrite the previous record instead of duplicating it.
func (r *StatementRepository) Upsert(ctx context.Context, entry *statement.Entry) error {
	collection := r.db.Collection(StatementCollectionName)

	filter := bson.M{
		"transaction_id": entry.TransactionID,
		"account_id":     entry.AccountID,
	}
	opts := options.Replace().SetUpsert(true)

	_, err := collection.ReplaceOne(ctx, filter, entry, opts)
	if err != nil {
		r.logger.Error("Failed to upsert statement entry",
			"transaction_id", entry.TransactionID.String(),
			"error", err)
		return fmt.Errorf("failed to upsert statement entry: %w", err)
	}

	return nil
}

// GetByAccountID retrieves paginated archive entries for an account,
// newest first
func (r *StatementRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*statement.Entry, error) {
	collection := r.db.Collection(StatementCollectionName)

	filter := bson.M{"account_id": accountID}
	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(int64(limit)).
		SetSkip(int64(offset))

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Failed to get statement entries", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to get statement entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*statement.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		r.logger.Error("Failed to decode statement entries", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to decode statement entries: %w", err)
	}

	return entries, nil
}

// CountByAccountID returns the total number of archive entries for an account
func (r *StatementRepository) CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error) {
	collection := r.db.Collection(StatementCollectionName)

	count, err := collection.CountDocuments(ctx, bson.M{"account_id": accountID})
	if err != nil {
		r.logger.Error("Failed to count statement entries", "account_id", accountID.String(), "error", err)
		return 0, fmt.Errorf("failed to count statement entries: %w", err)
	}

	return count, nil
}

// GetByGroupID retrieves both archived legs of a transfer
func (r *StatementRepository) GetByGroupID(ctx context.Context, groupID uuid.UUID) ([]*statement.Entry, error) {
	collection := r.db.Collection(StatementCollectionName)

	cursor, err := collection.Find(ctx, bson.M{"group_id": groupID})
	if err != nil {
		r.logger.Error("Failed to get statement entries by group", "group_id", groupID.String(), "error", err)
		return nil, fmt.Errorf("failed to get statement entries by group: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*statement.Entry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode statement entries: %w", err)
	}

	return entries, nil
}
