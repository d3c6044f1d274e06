package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dtroode/convo-server/internal/logger"
	"github.com/dtroode/convo-server/internal/model"
)

const bearerScheme = "bearer"

// TokenService resolves user ID from bearer tokens.
type TokenService interface {
	GetUserID(ctx context.Context, token string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens and injects user ID into the request context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// Handle rejects the request with 401 unless it carries a valid bearer token.
func (m *Authenticate) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			m.reject(c, "missing authorization token")
			return
		}

		userID, err := m.tokenService.GetUserID(c.Request.Context(), token)
		if err != nil || userID == uuid.Nil {
			m.reject(c, "invalid authorization token")
			return
		}

		ctx := m.contextManager.SetUserIDToContext(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (m *Authenticate) reject(c *gin.Context, reason string) {
	m.logger.Debug("Authenticate middleware: request rejected",
		"path", c.FullPath(),
		"reason", reason,
		"request_id", RequestIDFromContext(c))
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": reason})
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
