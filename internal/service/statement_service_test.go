package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/atlas-banking-core/internal/domain/statement"
	"github.com/atlas-banking-core/internal/domain/transaction"
)

type mockStatementRepo struct {
	mock.Mock
}

func (m *mockStatementRepo) Upsert(ctx context.Context, entry *statement.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockStatementRepo) GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*statement.Entry, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*statement.Entry), args.Error(1)
}

func (m *mockStatementRepo) CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStatementRepo) GetByGroupID(ctx context.Context, groupID uuid.UUID) ([]*statement.Entry, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*statement.Entry), args.Error(1)
}

func archivedEntry(accountID uuid.UUID) *statement.Entry {
	return &statement.Entry{
		TransactionID: uuid.New(),
		GroupID:       uuid.New(),
		AccountID:     accountID,
		UserID:        uuid.New(),
		Type:          transaction.TypeDeposit,
		Direction:     transaction.DirectionIncoming,
		Amount:        1700,
		Currency:      "EUR",
		State:         transaction.StateConfirmed,
		CreatedAt:     time.Now(),
		RecordedAt:    time.Now(),
	}
}

func TestStatementService_GetStatement(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()

	t.Run("ReturnsPageAndTotal", func(t *testing.T) {
		repo := new(mockStatementRepo)
		svc := NewStatementService(repo)

		entries := []*statement.Entry{archivedEntry(accountID), archivedEntry(accountID)}
		repo.On("CountByAccountID", ctx, accountID).Return(int64(5), nil).Once()
		repo.On("GetByAccountID", ctx, accountID, 2, 2).Return(entries, nil).Once()

		got, total, err := svc.GetStatement(ctx, accountID, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Len(t, got, 2)
		repo.AssertExpectations(t)
	})

	t.Run("NormalizesPagination", func(t *testing.T) {
		repo := new(mockStatementRepo)
		svc := NewStatementService(repo)

		repo.On("CountByAccountID", ctx, accountID).Return(int64(0), nil).Once()
		repo.On("GetByAccountID", ctx, accountID, 10, 0).Return([]*statement.Entry{}, nil).Once()

		got, total, err := svc.GetStatement(ctx, accountID, 0, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Empty(t, got)
		repo.AssertExpectations(t)
	})

	t.Run("CountFailure", func(t *testing.T) {
		repo := new(mockStatementRepo)
		svc := NewStatementService(repo)

		repo.On("CountByAccountID", ctx, accountID).Return(int64(0), errors.New("mongo down")).Once()

		_, _, err := svc.GetStatement(ctx, accountID, 1, 10)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to count statement entries")
	})

	t.Run("FetchFailure", func(t *testing.T) {
		repo := new(mockStatementRepo)
		svc := NewStatementService(repo)

		repo.On("CountByAccountID", ctx, accountID).Return(int64(3), nil).Once()
		repo.On("GetByAccountID", ctx, accountID, 10, 0).Return(nil, errors.New("mongo down")).Once()

		_, _, err := svc.GetStatement(ctx, accountID, 1, 10)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get statement entries")
	})
}

func TestStatementService_GetGroup(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnsBothLegs", func(t *testing.T) {
		repo := new(mockStatementRepo)
		svc := NewStatementService(repo)

		groupID := uuid.New()
		outgoing := archivedEntry(uuid.New())
		incoming := archivedEntry(uuid.New())
		outgoing.GroupID = groupID
		incoming.GroupID = groupID
		outgoing.Direction = transaction.DirectionOutgoing

		repo.On("GetByGroupID", ctx, groupID).Return([]*statement.Entry{outgoing, incoming}, nil).Once()

		got, err := svc.GetGroup(ctx, groupID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		repo.AssertExpectations(t)
	})

	t.Run("PropagatesError", func(t *testing.T) {
		repo := new(mockStatementRepo)
		svc := NewStatementService(repo)

		groupID := uuid.New()
		repo.On("GetByGroupID", ctx, groupID).Return(nil, errors.New("mongo down")).Once()

		_, err := svc.GetGroup(ctx, groupID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get statement group")
	})
}
