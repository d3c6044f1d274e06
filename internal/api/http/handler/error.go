package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/convo-server/internal/api/http/middleware"
	"github.com/dtroode/convo-server/internal/logger"
	"github.com/dtroode/convo-server/internal/model"
)

// StatusClientClosedRequest is reported when the client goes away before
// the response is written. Nothing reads the body.
const StatusClientClosedRequest = 499

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors onto HTTP status codes and client-safe messages.
func statusFor(err error) (int, string) {
	var verr *model.ValidationError
	switch {
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "client closed request"
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, model.ErrUnauthenticated), errors.Is(err, model.ErrInvalidCredential):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden, "access denied"
	case errors.Is(err, model.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, model.ErrConversationNotFound), errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "conversation not found"
	case errors.Is(err, model.ErrDuplicateIdentity):
		return http.StatusBadRequest, "Username or email already exists"
	case errors.Is(err, model.ErrEngineUnavailable):
		return http.StatusBadGateway, "answering engine unavailable"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// handleError writes the JSON error body for err. Unexpected errors are
// logged with the request id and never echoed to the client.
func handleError(c *gin.Context, log *logger.Logger, err error) {
	status, message := statusFor(err)
	_ = c.Error(err)

	reqLog := log.With("path", c.FullPath(), "request_id", middleware.RequestIDFromContext(c))
	switch status {
	case StatusClientClosedRequest:
		reqLog.Info("HTTP handler: client went away")
		c.AbortWithStatus(status)
		return
	case http.StatusInternalServerError:
		reqLog.Error("HTTP handler: request failed", "error", err.Error())
	}

	c.AbortWithStatusJSON(status, errorResponse{Error: message})
}
