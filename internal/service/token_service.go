package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/convo-server/internal/logger"
	"github.com/dtroode/convo-server/internal/model"
)

// TokenService issues access tokens and resolves them back to a user id.
// Tokens are stateless: nothing is persisted and nothing is revoked.
type TokenService struct {
	manager model.TokenManager
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, logger: logger}
}

func (s *TokenService) IssueToken(userID uuid.UUID) (string, error) {
	token, err := s.manager.GenerateAccessToken(userID)
	if err != nil {
		s.logger.Error("Token service: failed to issue access token",
			"user_id", userID,
			"error", err.Error())
		return "", fmt.Errorf("issue access: %w", err)
	}

	return token, nil
}

// GetUserID validates token and returns its subject. Every validation failure
// is reported as model.ErrUnauthenticated.
func (s *TokenService) GetUserID(_ context.Context, token string) (uuid.UUID, error) {
	userID, err := s.manager.ParseAccessToken(token)
	if err != nil {
		s.logger.Debug("Token service: rejected access token",
			"error", err.Error())
		return uuid.Nil, fmt.Errorf("%w: %w", model.ErrUnauthenticated, err)
	}

	return userID, nil
}
