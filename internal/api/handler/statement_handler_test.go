package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/atlas-banking-core/internal/domain/statement"
	"github.com/atlas-banking-core/internal/domain/transaction"
)

type MockStatementService struct {
	mock.Mock
}

func (m *MockStatementService) GetStatement(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]*statement.Entry, int64, error) {
	args := m.Called(ctx, accountID, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*statement.Entry), args.Get(1).(int64), args.Error(2)
}

func (m *MockStatementService) GetGroup(ctx context.Context, groupID uuid.UUID) ([]*statement.Entry, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*statement.Entry), args.Error(1)
}

func testEntry(accountID uuid.UUID) *statement.Entry {
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

func TestStatementHandler_GetByAccountID(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("ReturnsPaginatedEntries", func(t *testing.T) {
		mockService := new(MockStatementService)
		handler := NewStatementHandler(logger, mockService)

		accountID := uuid.New()
		entries := []*statement.Entry{testEntry(accountID), testEntry(accountID)}
		mockService.On("GetStatement", mock.Anything, accountID, 1, 10).Return(entries, int64(2), nil)

		router := setupTestRouter()
		router.GET("/accounts/:id/statement", handler.GetByAccountID)

		req, _ := http.NewRequest(http.MethodGet, "/accounts/"+accountID.String()+"/statement", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var topLevel Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &topLevel))
		require.NotNil(t, topLevel.Meta)
		assert.Equal(t, 2, topLevel.Meta.TotalItems)

		responseBody := decodeData[[]StatementEntryResponse](t, rr.Body.Bytes())
		require.Len(t, responseBody, 2)
		assert.Equal(t, accountID.String(), responseBody[0].AccountID)
		assert.Equal(t, "CONFIRMED", responseBody[0].State)

		mockService.AssertExpectations(t)
	})

	t.Run("ServiceErrorMapsTo500", func(t *testing.T) {
		mockService := new(MockStatementService)
		handler := NewStatementHandler(logger, mockService)

		accountID := uuid.New()
		mockService.On("GetStatement", mock.Anything, accountID, 1, 10).Return(nil, int64(0), errors.New("archive unavailable"))

		router := setupTestRouter()
		router.GET("/accounts/:id/statement", handler.GetByAccountID)

		req, _ := http.NewRequest(http.MethodGet, "/accounts/"+accountID.String()+"/statement", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestStatementHandler_GetByGroupID(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	t.Run("ReturnsGroupEntries", func(t *testing.T) {
		mockService := new(MockStatementService)
		handler := NewStatementHandler(logger, mockService)

		groupID := uuid.New()
		outgoing := testEntry(uuid.New())
		incoming := testEntry(uuid.New())
		outgoing.GroupID = groupID
		incoming.GroupID = groupID
		outgoing.Direction = transaction.DirectionOutgoing
		outgoing.Type = transaction.TypeTransfer
		incoming.Type = transaction.TypeTransfer

		mockService.On("GetGroup", mock.Anything, groupID).Return([]*statement.Entry{outgoing, incoming}, nil)

		router := setupTestRouter()
		router.GET("/statements/:group_id", handler.GetByGroupID)

		req, _ := http.NewRequest(http.MethodGet, "/statements/"+groupID.String(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		responseBody := decodeData[[]StatementEntryResponse](t, rr.Body.Bytes())
		require.Len(t, responseBody, 2)
		assert.Equal(t, groupID.String(), responseBody[0].GroupID)

		mockService.AssertExpectations(t)
	})

	t.Run("InvalidGroupID", func(t *testing.T) {
		mockService := new(MockStatementService)
		handler := NewStatementHandler(logger, mockService)

		router := setupTestRouter()
		router.GET("/statements/:group_id", handler.GetByGroupID)

		req, _ := http.NewRequest(http.MethodGet, "/statements/not-a-uuid", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertExpectations(t)
	})
}
