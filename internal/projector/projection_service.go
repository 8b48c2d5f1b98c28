package projector

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atlas-banking-core/internal/domain/statement"
)

// ProjectionService applies a movement event to the statement archive
type ProjectionService interface {
	ProjectEntry(ctx context.Context, entry *statement.Entry) error
}

// StatementProjectionService implements ProjectionService over the archive
// repository. Upsert keys on (transaction_id, account_id) so redelivered
// events and state updates land on the same document.
type StatementProjectionService struct {
	statementRepo statement.Repository
	logger        *slog.Logger
}

func NewStatementProjectionService(logger *slog.Logger, statementRepo statement.Repository) *StatementProjectionService {
	return &StatementProjectionService{
		statementRepo: statementRepo,
		logger:        logger,
	}
}

func (s *StatementProjectionService) ProjectEntry(ctx context.Context, entry *statement.Entry) error {
	if err := s.statementRepo.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("failed to upsert statement entry %s: %w", entry.TransactionID, err)
	}

	s.logger.Debug("Projected statement entry",
		"transaction_id", entry.TransactionID.String(),
		"account_id", entry.AccountID.String(),
		"state", string(entry.State),
	)
	return nil
}
