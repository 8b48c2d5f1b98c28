package handler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/atlas-banking-core/internal/domain/access"
	"github.com/atlas-banking-core/internal/domain/account"
	"github.com/atlas-banking-core/internal/domain/money"
	"github.com/atlas-banking-core/internal/domain/transaction"
	"github.com/atlas-banking-core/internal/service"
)

// TransactionHandler handles HTTP requests for movements and the
// confirm/reject workflow
type TransactionHandler struct {
	transactionService service.TransactionService
	logger             *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// Deposit handles a deposit movement
func (h *TransactionHandler) Deposit(c *gin.Context) {
	h.movement(c, h.transactionService.Deposit)
}

// Withdraw handles a withdrawal movement
func (h *TransactionHandler) Withdraw(c *gin.Context) {
	h.movement(c, h.transactionService.Withdraw)
}

// Transfer handles transfer creation: the origin is debited immediately and
// the two PENDING legs are returned
func (h *TransactionHandler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		RespondBadRequest(c, "Invalid user ID")
		return
	}
	originID, err := uuid.Parse(req.OriginID)
	if err != nil {
		RespondBadRequest(c, "Invalid origin account ID")
		return
	}
	destinationID, err := uuid.Parse(req.DestinationID)
	if err != nil {
		RespondBadRequest(c, "Invalid destination account ID")
		return
	}

	amount, err := money.NewPositive(req.Amount, req.Currency)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	outgoing, incoming, err := h.transactionService.Transfer(c.Request.Context(), service.TransferRequest{
		UserID:        userID,
		OriginID:      originID,
		DestinationID: destinationID,
		Amount:        amount,
		Concept:       req.Concept,
	})
	if err != nil {
		h.respondMovementError(c, err)
		return
	}

	RespondCreated(c, TransferResponse{
		GroupID:  outgoing.GroupID.String(),
		Outgoing: mapTransactionToResponse(outgoing),
		Incoming: mapTransactionToResponse(incoming),
	})
}

// Confirm settles a pending transfer: the destination is credited and both
// legs become CONFIRMED. Confirming twice is a swallowed no-op.
func (h *TransactionHandler) Confirm(c *gin.Context) {
	h.settle(c, h.transactionService.Confirm)
}

// Reject cancels a pending transfer: the origin is credited back and both
// legs become DECLINED. Rejecting twice is a swallowed no-op.
func (h *TransactionHandler) Reject(c *gin.Context) {
	h.settle(c, h.transactionService.Reject)
}

// GetByID retrieves one transaction record
func (h *TransactionHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Invalid transaction ID")
	if !ok {
		return
	}

	t, err := h.transactionService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, transaction.ErrTransactionNotFound{}) {
			RespondNotFound(c, "Transaction not found")
			return
		}
		h.logger.Error("Failed to get transaction", "id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapTransactionToResponse(t))
}

// GetByAccountID retrieves a page of transactions touching an account,
// newest first
func (h *TransactionHandler) GetByAccountID(c *gin.Context) {
	accountID, ok := parseIDParam(c, "id", "Invalid account ID")
	if !ok {
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	transactions, total, err := h.transactionService.ListByAccountID(c.Request.Context(), accountID, pagination.Page, pagination.PerPage)
	if err != nil {
		h.logger.Error("Failed to list transactions", "account_id", accountID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		responses = append(responses, mapTransactionToResponse(t))
	}

	RespondWithPaginatedData(c, 200, responses, pagination.Page, pagination.PerPage, int(total))
}

// GetByGroupID retrieves the paired legs of a transfer
func (h *TransactionHandler) GetByGroupID(c *gin.Context) {
	groupID, ok := parseIDParam(c, "group_id", "Invalid group ID")
	if !ok {
		return
	}

	legs, err := h.transactionService.ListByGroupID(c.Request.Context(), groupID)
	if err != nil {
		h.logger.Error("Failed to list transaction group", "group_id", groupID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]TransactionResponse, 0, len(legs))
	for _, t := range legs {
		responses = append(responses, mapTransactionToResponse(t))
	}
	RespondOK(c, responses)
}

func (h *TransactionHandler) movement(c *gin.Context, apply func(ctx context.Context, req service.MovementRequest) (*transaction.Transaction, error)) {
	var req MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		RespondBadRequest(c, "Invalid user ID")
		return
	}
	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	amount, err := money.NewPositive(req.Amount, req.Currency)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	t, err := apply(c.Request.Context(), service.MovementRequest{
		UserID:    userID,
		AccountID: accountID,
		Amount:    amount,
		Concept:   req.Concept,
	})
	if err != nil {
		h.respondMovementError(c, err)
		return
	}

	RespondCreated(c, mapTransactionToResponse(t))
}

func (h *TransactionHandler) settle(c *gin.Context, apply func(ctx context.Context, id uuid.UUID) error) {
	id, ok := parseIDParam(c, "id", "Invalid transaction ID")
	if !ok {
		return
	}

	if err := apply(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, transaction.ErrTransactionNotFound{}):
			RespondNotFound(c, "Transaction not found")
		case errors.Is(err, transaction.ErrIllegalStateTransition{}):
			RespondConflict(c, "ILLEGAL_STATE", err.Error())
		case errors.Is(err, transaction.ErrConcurrentStateChange{}):
			RespondConflict(c, "CONCURRENT_STATE_CHANGE", err.Error())
		default:
			h.logger.Error("Failed to settle transaction", "id", id.String(), "error", err)
			RespondInternalError(c)
		}
		return
	}

	t, err := h.transactionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to reload settled transaction", "id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapTransactionToResponse(t))
}

// respondMovementError maps orchestration failures onto HTTP statuses:
// missing grants to 403, lifecycle rejections to 409, bad amounts to 400
func (h *TransactionHandler) respondMovementError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, access.ErrAccessDenied{}):
		RespondForbidden(c, "User may not operate on this account")
	case errors.Is(err, account.ErrAccountNotFound{}):
		RespondNotFound(c, "Account not found")
	case errors.Is(err, account.ErrAccountNotOpen{}):
		RespondConflict(c, "TRANSACTION_NOT_ALLOWED", "Account is not open for movements")
	case errors.Is(err, money.ErrInvalidAmount), errors.Is(err, money.ErrCurrencyMismatch{}):
		RespondBadRequest(c, err.Error())
	default:
		h.logger.Error("Movement failed", "error", err)
		RespondInternalError(c)
	}
}

func mapTransactionToResponse(t *transaction.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:        t.ID.String(),
		GroupID:   t.GroupID.String(),
		UserID:    t.UserID.String(),
		AccountID: t.AccountID.String(),
		Amount:    t.Amount.Amount,
		Currency:  t.Amount.Currency,
		Type:      string(t.Type),
		Direction: string(t.Direction),
		State:     string(t.State),
		Concept:   t.Concept,
		CreatedAt: t.CreatedAt.Format(time.RFC3339),
	}
}
