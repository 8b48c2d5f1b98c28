package handler

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/atlas-banking-core/internal/domain/access"
	"github.com/atlas-banking-core/internal/service"
)

// AccessHandler handles HTTP requests for access-control records
type AccessHandler struct {
	accessService service.AccessService
	logger        *slog.Logger
}

// NewAccessHandler creates a new access handler
func NewAccessHandler(logger *slog.Logger, accessService service.AccessService) *AccessHandler {
	return &AccessHandler{
		accessService: accessService,
		logger:        logger,
	}
}

// Grant creates or updates the access record for an (account, user) pair.
// Repeated grants are allowed and update the permission level in place.
func (h *AccessHandler) Grant(c *gin.Context) {
	accountID, ok := parseIDParam(c, "id", "Invalid account ID")
	if !ok {
		return
	}

	var req GrantAccessRequest
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

	a, err := h.accessService.Grant(c.Request.Context(), accountID, userID, access.Type(req.Type))
	if err != nil {
		if errors.Is(err, access.ErrInvalidAccessType) {
			RespondBadRequest(c, "Invalid access type")
			return
		}
		h.logger.Error("Failed to grant access", "account_id", accountID.String(), "user_id", userID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapAccessToResponse(a))
}

// Revoke marks the access record REVOKED, returning 404 if none exists
func (h *AccessHandler) Revoke(c *gin.Context) {
	accountID, ok := parseIDParam(c, "id", "Invalid account ID")
	if !ok {
		return
	}

	var req RevokeAccessRequest
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

	a, err := h.accessService.Revoke(c.Request.Context(), accountID, userID)
	if err != nil {
		if errors.Is(err, access.ErrAccessNotFound{}) {
			RespondNotFound(c, "Access record not found")
			return
		}
		h.logger.Error("Failed to revoke access", "account_id", accountID.String(), "user_id", userID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapAccessToResponse(a))
}

// Find retrieves the access record for an (account, user) pair
func (h *AccessHandler) Find(c *gin.Context) {
	accountID, ok := parseIDParam(c, "id", "Invalid account ID")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "user_id", "Invalid user ID")
	if !ok {
		return
	}

	a, err := h.accessService.FindAccess(c.Request.Context(), accountID, userID)
	if err != nil {
		if errors.Is(err, access.ErrAccessNotFound{}) {
			RespondNotFound(c, "Access record not found")
			return
		}
		h.logger.Error("Failed to find access", "account_id", accountID.String(), "user_id", userID.String(), "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapAccessToResponse(a))
}

func mapAccessToResponse(a *access.AccountAccess) AccessResponse {
	return AccessResponse{
		AccountID: a.AccountID.String(),
		UserID:    a.UserID.String(),
		Type:      string(a.Type),
		State:     string(a.State),
		CreatedAt: a.CreatedAt.Format(time.RFC3339),
		UpdatedAt: a.UpdatedAt.Format(time.RFC3339),
	}
}
