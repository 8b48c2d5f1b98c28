package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atlas-banking-core/internal/domain/statement"
	"github.com/atlas-banking-core/internal/service"
)

// StatementHandler serves the archived statement read model. Entries arrive
// asynchronously from the outbox pipeline, so a freshly created movement may
// not be visible here yet.
type StatementHandler struct {
	statementService service.StatementService
	logger           *slog.Logger
}

// NewStatementHandler creates a new statement handler
func NewStatementHandler(logger *slog.Logger, statementService service.StatementService) *StatementHandler {
	return &StatementHandler{
		statementService: statementService,
		logger:           logger,
	}
}

// GetByAccountID retrieves a page of archived entries for an account,
// newest first
func (h *StatementHandler) GetByAccountID(c *gin.Context) {
	accountID, ok := parseIDParam(c, "id", "Invalid account ID")
	if !ok {
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	entries, total, err := h.statementService.GetStatement(c.Request.Context(), accountID, pagination.Page, pagination.PerPage)
	if err != nil {
		h.logger.Error("Failed to get statement", "account_id", accountID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]StatementEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, mapEntryToResponse(entry))
	}

	RespondWithPaginatedData(c, 200, responses, pagination.Page, pagination.PerPage, int(total))
}

// GetByGroupID retrieves the archived entries sharing a transfer group id
func (h *StatementHandler) GetByGroupID(c *gin.Context) {
	groupID, ok := parseIDParam(c, "group_id", "Invalid group ID")
	if !ok {
		return
	}

	entries, err := h.statementService.GetGroup(c.Request.Context(), groupID)
	if err != nil {
		h.logger.Error("Failed to get statement group", "group_id", groupID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]StatementEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, mapEntryToResponse(entry))
	}
	RespondOK(c, responses)
}

func mapEntryToResponse(entry *statement.Entry) StatementEntryResponse {
	return StatementEntryResponse{
		TransactionID: entry.TransactionID.String(),
		GroupID:       entry.GroupID.String(),
		AccountID:     entry.AccountID.String(),
		Type:          string(entry.Type),
		Direction:     string(entry.Direction),
		Amount:        entry.Amount,
		Currency:      entry.Currency,
		State:         string(entry.State),
		Concept:       entry.Concept,
		CreatedAt:     entry.CreatedAt.Format(time.RFC3339),
	}
}
