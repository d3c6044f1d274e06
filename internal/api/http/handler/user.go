package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/convo-server/internal/logger"
	"github.com/dtroode/convo-server/internal/model"
)

// AccountService reads and removes the caller's account.
type AccountService interface {
	GetUser(ctx context.Context, id uuid.UUID) (model.User, error)
	DeleteAccount(ctx context.Context, id uuid.UUID) (bool, error)
}

type User struct {
	accountService AccountService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewUser(accountService AccountService, contextManager model.ContextManager, logger *logger.Logger) *User {
	return &User{
		accountService: accountService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Get handles GET /user.
func (h *User) Get(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		handleError(c, h.logger, model.ErrUnauthenticated)
		return
	}

	user, err := h.accountService.GetUser(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

// Delete handles DELETE /delete_account.
func (h *User) Delete(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		handleError(c, h.logger, model.ErrUnauthenticated)
		return
	}

	deleted, err := h.accountService.DeleteAccount(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, statusResponse{Success: true, Message: "User deleted successfully"})
}
