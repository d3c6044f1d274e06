package service

import (
	"context"

	"github.com/dtroode/convo-server/internal/logger"
	"github.com/dtroode/convo-server/internal/model"
)

// Session is what a successful login hands back to the client.
type Session struct {
	AccessToken string
	User        model.User
}

type Auth struct {
	identity     *Identity
	tokenService *TokenService
	logger       *logger.Logger
}

func NewAuth(identity *Identity, tokenManager model.TokenManager, logger *logger.Logger) *Auth {
	return &Auth{
		identity:     identity,
		tokenService: NewTokenService(tokenManager, logger),
		logger:       logger,
	}
}

// Login verifies credentials and issues an access token for the user.
func (a *Auth) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := a.identity.Authenticate(ctx, email, password)
	if err != nil {
		return Session{}, err
	}

	token, err := a.tokenService.IssueToken(user.ID)
	if err != nil {
		return Session{}, err
	}

	a.logger.Info("Auth service: user logged in",
		"user_id", user.ID)

	return Session{AccessToken: token, User: user}, nil
}

// Tokens exposes the token service the authentication middleware relies on.
func (a *Auth) Tokens() *TokenService {
	return a.tokenService
}
