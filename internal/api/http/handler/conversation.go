package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/convo-server/internal/logger"
	"github.com/dtroode/convo-server/internal/model"
)

// ConversationService is the conversation orchestrator as seen by the API.
type ConversationService interface {
	Respond(ctx context.Context, userID uuid.UUID, message string, historyID *int64) (model.Reply, error)
	List(ctx context.Context, userID uuid.UUID) ([]model.ConversationSummary, error)
	Get(ctx context.Context, userID uuid.UUID, id int64) (model.Conversation, error)
	Delete(ctx context.Context, userID uuid.UUID, id int64) (bool, error)
}

type Conversation struct {
	conversationService ConversationService
	contextManager      model.ContextManager
	logger              *logger.Logger
}

func NewConversation(conversationService ConversationService, contextManager model.ContextManager, logger *logger.Logger) *Conversation {
	return &Conversation{
		conversationService: conversationService,
		contextManager:      contextManager,
		logger:              logger,
	}
}

// Respond handles POST /get_response.
func (h *Conversation) Respond(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		handleError(c, h.logger, model.ErrUnauthenticated)
		return
	}

	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, h.logger, model.NewValidationError("body", "must be a JSON object with a message"))
		return
	}
	if req.HistoryID != nil && *req.HistoryID <= 0 {
		handleError(c, h.logger, model.NewValidationError("history_id", "must be a positive integer"))
		return
	}

	reply, err := h.conversationService.Respond(c.Request.Context(), userID, req.Message, req.HistoryID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, respondResponse{Response: reply.Response, HistoryID: reply.HistoryID})
}

// List handles GET /history.
func (h *Conversation) List(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		handleError(c, h.logger, model.ErrUnauthenticated)
		return
	}

	summaries, err := h.conversationService.List(c.Request.Context(), userID)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, newHistoryList(summaries))
}

// Get handles GET /history/:id.
func (h *Conversation) Get(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		handleError(c, h.logger, model.ErrUnauthenticated)
		return
	}

	id, err := historyIDParam(c)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	conv, err := h.conversationService.Get(c.Request.Context(), userID, id)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, newChatResponse(conv))
}

// Delete handles DELETE /delete_chat/:id.
func (h *Conversation) Delete(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		handleError(c, h.logger, model.ErrUnauthenticated)
		return
	}

	id, err := historyIDParam(c)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	deleted, err := h.conversationService.Delete(c.Request.Context(), userID, id)
	if err != nil {
		handleError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, deleteChatResponse{Success: deleted})
}

func historyIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}
