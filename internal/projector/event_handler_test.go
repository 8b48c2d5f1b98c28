package projector

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/atlas-banking-core/internal/domain/statement"
	"github.com/atlas-banking-core/internal/domain/transaction"
)

// MockProjectionService is shared across package test files
type MockProjectionService struct {
	mock.Mock
}

func (m *MockProjectionService) ProjectEntry(ctx context.Context, entry *statement.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type MockDLQPublisher struct {
	mock.Mock
}

func (m *MockDLQPublisher) PublishToDLQ(ctx context.Context, key string, originalMessageValue []byte, reason string) error {
	args := m.Called(ctx, key, originalMessageValue, reason)
	return args.Error(0)
}

func (m *MockDLQPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

func sampleEntryPayload(t *testing.T) (*statement.Entry, []byte) {
	t.Helper()
	entry := &statement.Entry{
		TransactionID: uuid.New(),
		GroupID:       uuid.New(),
		AccountID:     uuid.New(),
		UserID:        uuid.New(),
		Type:          transaction.TypeDeposit,
		Direction:     transaction.DirectionIncoming,
		Amount:        170,
		Currency:      "EUR",
		State:         transaction.StateConfirmed,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
		RecordedAt:    time.Now().UTC().Truncate(time.Second),
	}
	payload, err := json.Marshal(entry)
	require.NoError(t, err)
	return entry, payload
}

func TestMovementEventHandler_HandleMessage(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	t.Run("ProjectsValidEntry", func(t *testing.T) {
		projection := new(MockProjectionService)
		dlq := new(MockDLQPublisher)
		handler := NewMovementEventHandler(logger, projection, dlq)

		entry, payload := sampleEntryPayload(t)
		projection.On("ProjectEntry", ctx, mock.MatchedBy(func(e *statement.Entry) bool {
			return e.TransactionID == entry.TransactionID &&
				e.AccountID == entry.AccountID &&
				e.Amount == entry.Amount &&
				e.State == entry.State
		})).Return(nil).Once()

		err := handler.HandleMessage(ctx, []byte(entry.TransactionID.String()), payload)
		require.NoError(t, err)
		projection.AssertExpectations(t)
		dlq.AssertNotCalled(t, "PublishToDLQ", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnparseablePayloadGoesToDLQAndCommits", func(t *testing.T) {
		projection := new(MockProjectionService)
		dlq := new(MockDLQPublisher)
		handler := NewMovementEventHandler(logger, projection, dlq)

		key := []byte("bad-message-key")
		payload := []byte(`{"not valid json`)
		dlq.On("PublishToDLQ", ctx, string(key), payload, mock.AnythingOfType("string")).Return(nil).Once()

		err := handler.HandleMessage(ctx, key, payload)
		require.NoError(t, err)
		dlq.AssertExpectations(t)
		projection.AssertNotCalled(t, "ProjectEntry", mock.Anything, mock.Anything)
	})

	t.Run("DLQFailureReturnsErrorSoOffsetIsNotCommitted", func(t *testing.T) {
		projection := new(MockProjectionService)
		dlq := new(MockDLQPublisher)
		handler := NewMovementEventHandler(logger, projection, dlq)

		payload := []byte(`{"not valid json`)
		dlq.On("PublishToDLQ", ctx, mock.AnythingOfType("string"), payload, mock.AnythingOfType("string")).
			Return(errors.New("dlq broker down")).Once()

		err := handler.HandleMessage(ctx, []byte("key"), payload)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to unmarshal")
		dlq.AssertExpectations(t)
	})

	t.Run("UnparseablePayloadWithoutDLQReturnsError", func(t *testing.T) {
		projection := new(MockProjectionService)
		handler := NewMovementEventHandler(logger, projection, nil)

		err := handler.HandleMessage(ctx, []byte("key"), []byte(`{"not valid json`))
		require.Error(t, err)
	})

	t.Run("ProjectionFailureReturnsError", func(t *testing.T) {
		projection := new(MockProjectionService)
		dlq := new(MockDLQPublisher)
		handler := NewMovementEventHandler(logger, projection, dlq)

		_, payload := sampleEntryPayload(t)
		projection.On("ProjectEntry", ctx, mock.Anything).Return(errors.New("mongo down")).Once()

		err := handler.HandleMessage(ctx, []byte("key"), payload)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "projecting movement")
		projection.AssertExpectations(t)
	})
}
