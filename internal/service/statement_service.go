package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/atlas-banking-core/internal/domain/statement"
)

// StatementServiceImpl implements the StatementService interface
type StatementServiceImpl struct {
	statementRepo statement.Repository
}

// NewStatementService creates a new statement service instance
func NewStatementService(statementRepo statement.Repository) *StatementServiceImpl {
	return &StatementServiceImpl{statementRepo: statementRepo}
}

func (s *StatementServiceImpl) GetStatement(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]*statement.Entry, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	total, err := s.statementRepo.CountByAccountID(ctx, accountID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count statement entries: %w", err)
	}

	entries, err := s.statementRepo.GetByAccountID(ctx, accountID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get statement entries: %w", err)
	}

	return entries, total, nil
}

func (s *StatementServiceImpl) GetGroup(ctx context.Context, groupID uuid.UUID) ([]*statement.Entry, error) {
	entries, err := s.statementRepo.GetByGroupID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to get statement group: %w", err)
	}
	return entries, nil
}
