package handler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/atlas-banking-core/internal/domain/account"
	"github.com/atlas-banking-core/internal/domain/balance"
	"github.com/atlas-banking-core/internal/service"
)

// AccountHandler handles HTTP requests for account lifecycle and balances
type AccountHandler struct {
	accountService service.AccountService
	balanceService service.BalanceService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService, balanceService service.BalanceService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		balanceService: balanceService,
		logger:         logger,
	}
}

// Open handles account opening: the account, its zero balance and the
// owner grant are created together
func (h *AccountHandler) Open(c *gin.Context) {
	var req OpenAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ownerUserID, err := uuid.Parse(req.OwnerUserID)
	if err != nil {
		RespondBadRequest(c, "Invalid owner user ID")
		return
	}

	acc, err := h.accountService.OpenAccount(c.Request.Context(), ownerUserID, req.Currency)
	if err != nil {
		h.logger.Error("Failed to open account", "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

// GetByID retrieves an account by its ID, returning 404 if not found
func (h *AccountHandler) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Invalid account ID")
	if !ok {
		return
	}

	acc, err := h.accountService.GetAccount(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound{}) {
			RespondNotFound(c, "Account not found")
			return
		}
		h.logger.Error("Failed to get account", "id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// Block handles the administrative BLOCKED transition
func (h *AccountHandler) Block(c *gin.Context) {
	h.applyTransition(c, h.accountService.Block)
}

// Reopen handles the administrative transition back to OPEN
func (h *AccountHandler) Reopen(c *gin.Context) {
	h.applyTransition(c, h.accountService.Reopen)
}

// Close handles the administrative, terminal CLOSED transition
func (h *AccountHandler) Close(c *gin.Context) {
	h.applyTransition(c, h.accountService.Close)
}

// GetBalance retrieves the current balance of one account
func (h *AccountHandler) GetBalance(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "Invalid account ID")
	if !ok {
		return
	}

	b, err := h.balanceService.GetBalance(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, balance.ErrBalanceNotFound{}) {
			RespondNotFound(c, "Balance not found")
			return
		}
		h.logger.Error("Failed to get balance", "account_id", id.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapBalanceToResponse(b))
}

// GetBalances retrieves balances for a comma-separated list of account ids.
// Accounts without a balance record are omitted from the result.
func (h *AccountHandler) GetBalances(c *gin.Context) {
	raw, ok := c.GetQuery("account_ids")
	if !ok || raw == "" {
		RespondBadRequest(c, "account_ids query parameter is required")
		return
	}

	ids, err := parseIDList(raw)
	if err != nil {
		RespondBadRequest(c, "Invalid account ID in account_ids")
		return
	}

	balances, err := h.balanceService.GetBalances(c.Request.Context(), ids)
	if err != nil {
		h.logger.Error("Failed to get balances", "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]BalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, mapBalanceToResponse(b))
	}
	RespondOK(c, responses)
}

func (h *AccountHandler) applyTransition(c *gin.Context, transition func(ctx context.Context, id uuid.UUID) (*account.Account, error)) {
	id, ok := parseIDParam(c, "id", "Invalid account ID")
	if !ok {
		return
	}

	acc, err := transition(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, account.ErrAccountNotFound{}):
			RespondNotFound(c, "Account not found")
		case errors.Is(err, account.ErrAccountClosed):
			RespondConflict(c, "ACCOUNT_CLOSED", "Closed accounts cannot change state")
		default:
			h.logger.Error("Failed to change account state", "id", id.String(), "error", err)
			RespondInternalError(c)
		}
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

func mapAccountToResponse(acc *account.Account) AccountResponse {
	return AccountResponse{
		ID:          acc.ID.String(),
		OwnerUserID: acc.OwnerUserID.String(),
		State:       string(acc.State),
		CreatedAt:   acc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   acc.UpdatedAt.Format(time.RFC3339),
	}
}

func mapBalanceToResponse(b *balance.Balance) BalanceResponse {
	return BalanceResponse{
		AccountID: b.AccountID.String(),
		Amount:    b.Amount.Amount,
		Currency:  b.Amount.Currency,
		UpdatedAt: b.UpdatedAt.Format(time.RFC3339),
	}
}
