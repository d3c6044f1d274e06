package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/convo-server/internal/logger"
	"github.com/dtroode/convo-server/internal/model"
	"github.com/dtroode/convo-server/internal/service"
)

// RegisterService creates accounts.
type RegisterService interface {
	Register(ctx context.Context, username, email, password string) (model.User, error)
}

// LoginService exchanges credentials for an access token.
type LoginService interface {
	Login(ctx context.Context, email, password string) (service.Session, error)
}

// Auth handles registration, login and the /protected token check.
type Auth struct {
	registerService RegisterService
	loginService    LoginService
	contextManager  model.ContextManager
	logger          *logger.Logger
}

func NewAuth(
	registerService RegisterService,
	loginService LoginService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		registerService: registerService,
		loginService:    loginService,
		contextManager:  contextManager,
		logger:          logger,
	}
}

// Register handles POST /register.
func (h *Auth) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, statusResponse{Success: false, Message: "Missing required fields"})
		return
	}

	_, err := h.registerService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		var verr *model.ValidationError
		switch {
		case errors.Is(err, model.ErrMissingField):
			c.JSON(http.StatusBadRequest, statusResponse{Success: false, Message: "Missing required fields"})
		case errors.Is(err, model.ErrDuplicateIdentity):
			c.JSON(http.StatusBadRequest, statusResponse{Success: false, Message: "Username or email already exists"})
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, statusResponse{Success: false, Message: "Invalid " + verr.Field})
		default:
			handleError(c, h.logger, err)
		}
		return
	}

	c.JSON(http.StatusCreated, statusResponse{Success: true, Message: "User registered successfully"})
}

// Login handles POST /login.
func (h *Auth) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, statusResponse{Success: false, Message: "Missing email or password"})
		return
	}

	session, err := h.loginService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrInvalidCredential):
			c.JSON(http.StatusUnauthorized, statusResponse{Success: false, Message: "Invalid email or password"})
		case errors.Is(err, model.ErrValidation):
			c.JSON(http.StatusBadRequest, statusResponse{Success: false, Message: "Missing email or password"})
		default:
			handleError(c, h.logger, err)
		}
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Success:     true,
		AccessToken: session.AccessToken,
		UserID:      session.User.ID.String(),
		Username:    session.User.Username,
	})
}

// Protected handles GET /protected and echoes the authenticated user id.
func (h *Auth) Protected(c *gin.Context) {
	userID, ok := h.contextManager.GetUserIDFromContext(c.Request.Context())
	if !ok {
		handleError(c, h.logger, model.ErrUnauthenticated)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logged_in_as": userID.String()})
}
