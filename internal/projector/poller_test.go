package projector

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/atlas-banking-core/internal/config"
	"github.com/atlas-banking-core/internal/domain/outbox"
)

// MockOutboxRepo is shared across package test files
type MockOutboxRepo struct {
	mock.Mock
}

func (m *MockOutboxRepo) Create(ctx context.Context, message *outbox.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockOutboxRepo) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepo) UpdateStatus(ctx context.Context, id int64, status outbox.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOutboxRepo) IncrementAttempts(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepo) WithTx(tx pgx.Tx) outbox.Repository {
	args := m.Called(tx)
	return args.Get(0).(outbox.Repository)
}

// MockPublisher is shared across package test files
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

func pendingMessage(id int64, attempts int) *outbox.Message {
	return &outbox.Message{
		ID:            id,
		TransactionID: uuid.New(),
		GroupID:       uuid.New(),
		AccountID:     uuid.New(),
		Payload:       []byte(`{"amount":170,"currency":"EUR"}`),
		Status:        outbox.StatusPending,
		Attempts:      attempts,
	}
}

func TestPoller_ProcessPendingMessages(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.OutboxConfig{BatchSize: 10, MaxRetryAttempts: 3}
	ctx := context.Background()

	tests := []struct {
		name       string
		setupMocks func(repo *MockOutboxRepo, pub *MockPublisher)
		wantErr    bool
	}{
		{
			name: "NoPendingMessages",
			setupMocks: func(repo *MockOutboxRepo, pub *MockPublisher) {
				repo.On("GetPending", ctx, 10).Return([]*outbox.Message{}, nil).Once()
			},
		},
		{
			name: "GetPendingFails",
			setupMocks: func(repo *MockOutboxRepo, pub *MockPublisher) {
				repo.On("GetPending", ctx, 10).Return(nil, errors.New("db down")).Once()
			},
			wantErr: true,
		},
		{
			name: "PublishSuccessMarksProcessed",
			setupMocks: func(repo *MockOutboxRepo, pub *MockPublisher) {
				msg := pendingMessage(1, 0)
				repo.On("GetPending", ctx, 10).Return([]*outbox.Message{msg}, nil).Once()
				pub.On("Publish", ctx, msg.TransactionID.String(), []byte(msg.Payload)).Return(nil).Once()
				repo.On("UpdateStatus", ctx, int64(1), outbox.StatusProcessed).Return(nil).Once()
			},
		},
		{
			name: "PublishFailureIncrementsAttempts",
			setupMocks: func(repo *MockOutboxRepo, pub *MockPublisher) {
				msg := pendingMessage(2, 0)
				repo.On("GetPending", ctx, 10).Return([]*outbox.Message{msg}, nil).Once()
				pub.On("Publish", ctx, msg.TransactionID.String(), []byte(msg.Payload)).Return(errors.New("broker down")).Once()
				repo.On("IncrementAttempts", ctx, int64(2)).Return(nil).Once()
				// Attempts go from 0 to 1, below the max of 3: no status change
			},
		},
		{
			name: "PublishFailureAtMaxAttemptsMarksFailed",
			setupMocks: func(repo *MockOutboxRepo, pub *MockPublisher) {
				msg := pendingMessage(3, 2)
				repo.On("GetPending", ctx, 10).Return([]*outbox.Message{msg}, nil).Once()
				pub.On("Publish", ctx, msg.TransactionID.String(), []byte(msg.Payload)).Return(errors.New("broker down")).Once()
				repo.On("IncrementAttempts", ctx, int64(3)).Return(nil).Once()
				repo.On("UpdateStatus", ctx, int64(3), outbox.StatusFailedToPublish).Return(nil).Once()
			},
		},
		{
			name: "MarkProcessedFailureLeavesRowPending",
			setupMocks: func(repo *MockOutboxRepo, pub *MockPublisher) {
				msg := pendingMessage(4, 0)
				repo.On("GetPending", ctx, 10).Return([]*outbox.Message{msg}, nil).Once()
				pub.On("Publish", ctx, msg.TransactionID.String(), []byte(msg.Payload)).Return(nil).Once()
				repo.On("UpdateStatus", ctx, int64(4), outbox.StatusProcessed).Return(errors.New("db down")).Once()
				// Row stays PENDING; the duplicate publish is absorbed by the
				// consumer upsert
			},
		},
		{
			name: "OneFailureDoesNotBlockTheBatch",
			setupMocks: func(repo *MockOutboxRepo, pub *MockPublisher) {
				failing := pendingMessage(5, 0)
				healthy := pendingMessage(6, 0)
				repo.On("GetPending", ctx, 10).Return([]*outbox.Message{failing, healthy}, nil).Once()
				pub.On("Publish", ctx, failing.TransactionID.String(), []byte(failing.Payload)).Return(errors.New("broker down")).Once()
				repo.On("IncrementAttempts", ctx, int64(5)).Return(nil).Once()
				pub.On("Publish", ctx, healthy.TransactionID.String(), []byte(healthy.Payload)).Return(nil).Once()
				repo.On("UpdateStatus", ctx, int64(6), outbox.StatusProcessed).Return(nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockOutboxRepo)
			pub := new(MockPublisher)
			tt.setupMocks(repo, pub)

			poller := NewPoller(cfg, repo, pub, logger)
			err := poller.processPendingMessages(ctx)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			repo.AssertExpectations(t)
			pub.AssertExpectations(t)
		})
	}
}
