package mongo

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/atlas-banking-core/internal/domain/statement"
	"github.com/atlas-banking-core/internal/domain/transaction"
)

// MockStatementRepository exercises the statement.Repository contract used by
// the projection and statement services
type MockStatementRepository struct {
	mock.Mock
}

func (m *MockStatementRepository) Upsert(ctx context.Context, entry *statement.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockStatementRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*statement.Entry, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*statement.Entry), args.Error(1)
}

func (m *MockStatementRepository) CountByAccountID(ctx context.Context, accountID uuid.UUID) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStatementRepository) GetByGroupID(ctx context.Context, groupID uuid.UUID) ([]*statement.Entry, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*statement.Entry), args.Error(1)
}

func sampleEntry() *statement.Entry {
	return &statement.Entry{
		TransactionID: uuid.New(),
		GroupID:       uuid.New(),
		AccountID:     uuid.New(),
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

func TestNewStatementRepository(t *testing.T) {
	db := &mongo.Database{}
	logger := slog.Default()

	repo := NewStatementRepository(logger, db)

	assert.NotNil(t, repo)
	assert.IsType(t, &StatementRepository{}, repo)
}

func TestStatementRepository_Upsert(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		setupMocks    func(repo *MockStatementRepository, entry *statement.Entry)
		expectedError error
	}{
		{
			name: "Success",
			setupMocks: func(repo *MockStatementRepository, entry *statement.Entry) {
				repo.On("Upsert", ctx, entry).Return(nil).Once()
			},
		},
		{
			name: "RedeliveredEntryOverwrites",
			setupMocks: func(repo *MockStatementRepository, entry *statement.Entry) {
				repo.On("Upsert", ctx, entry).Return(nil).Twice()
			},
		},
		{
			name: "DatabaseError",
			setupMocks: func(repo *MockStatementRepository, entry *statement.Entry) {
				repo.On("Upsert", ctx, entry).Return(errors.New("write failed")).Once()
			},
			expectedError: errors.New("write failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockStatementRepository)
			entry := sampleEntry()
			tt.setupMocks(repo, entry)

			err := repo.Upsert(ctx, entry)
			if tt.name == "RedeliveredEntryOverwrites" {
				require.NoError(t, err)
				err = repo.Upsert(ctx, entry)
			}

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				require.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestStatementRepository_GetByAccountID(t *testing.T) {
	ctx := context.Background()
	accountID := uuid.New()

	t.Run("ReturnsEntries", func(t *testing.T) {
		repo := new(MockStatementRepository)
		first := sampleEntry()
		second := sampleEntry()
		first.AccountID = accountID
		second.AccountID = accountID

		repo.On("GetByAccountID", ctx, accountID, 10, 0).Return([]*statement.Entry{first, second}, nil).Once()

		entries, err := repo.GetByAccountID(ctx, accountID, 10, 0)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, accountID, entries[0].AccountID)
		repo.AssertExpectations(t)
	})

	t.Run("PropagatesError", func(t *testing.T) {
		repo := new(MockStatementRepository)
		repo.On("GetByAccountID", ctx, accountID, 10, 0).Return(nil, errors.New("find failed")).Once()

		entries, err := repo.GetByAccountID(ctx, accountID, 10, 0)
		require.Error(t, err)
		assert.Nil(t, entries)
	})
}

func TestStatementRepository_GetByGroupID(t *testing.T) {
	ctx := context.Background()
	groupID := uuid.New()

	repo := new(MockStatementRepository)
	outgoing := sampleEntry()
	incoming := sampleEntry()
	outgoing.GroupID = groupID
	incoming.GroupID = groupID
	outgoing.Direction = transaction.DirectionOutgoing

	repo.On("GetByGroupID", ctx, groupID).Return([]*statement.Entry{outgoing, incoming}, nil).Once()

	entries, err := repo.GetByGroupID(ctx, groupID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, groupID, entries[0].GroupID)
	assert.Equal(t, groupID, entries[1].GroupID)
	repo.AssertExpectations(t)
}
