package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/convo-server/internal/logger"
	"github.com/dtroode/convo-server/internal/model"
)

// ownerCleaner removes everything a user owns ahead of the account itself.
type ownerCleaner interface {
	DeleteAllForOwner(ctx context.Context, ownerID uuid.UUID) error
}

// Identity manages accounts: registration, credential checks, lookup and deletion.
type Identity struct {
	userStore model.UserStore
	hasher    model.PasswordHasher
	cleaner   ownerCleaner
	logger    *logger.Logger
	now       func() time.Time
}

func NewIdentity(
	userStore model.UserStore,
	hasher model.PasswordHasher,
	cleaner ownerCleaner,
	logger *logger.Logger,
) *Identity {
	return &Identity{
		userStore: userStore,
		hasher:    hasher,
		cleaner:   cleaner,
		logger:    logger,
		now:       time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Identity) Register(ctx context.Context, username, email, password string) (model.User, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)

	switch {
	case username == "":
		return model.User{}, model.NewMissingFieldError("username")
	case email == "":
		return model.User{}, model.NewMissingFieldError("email")
	case strings.TrimSpace(password) == "":
		return model.User{}, model.NewMissingFieldError("password")
	case !strings.Contains(email, "@"):
		return model.User{}, model.NewValidationError("email", "is malformed")
	}

	s.logger.Debug("Identity service: registering user",
		"username", username,
		"email", email)

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error("Identity service: failed to hash password",
			"username", username,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user, err := s.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrDuplicateIdentity) {
		s.logger.Info("Identity service: username or email already taken",
			"username", username)
		return model.User{}, model.ErrDuplicateIdentity
	}
	if err != nil {
		s.logger.Error("Identity service: failed to create user",
			"username", username,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("Identity service: user registered",
		"user_id", user.ID)

	return user, nil
}

// Authenticate checks email and password. An unknown email and a wrong
// password are indistinguishable to the caller, in result and in timing.
func (s *Identity) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return model.User{}, model.NewValidationError("credentials", "email and password are required")
	}

	user, err := s.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		s.hasher.CompareDummy(password)
		s.logger.Info("Identity service: login failed")
		return model.User{}, model.ErrInvalidCredential
	}
	if err != nil {
		s.logger.Error("Identity service: failed to get user by email",
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		s.logger.Info("Identity service: login failed",
			"user_id", user.ID)
		return model.User{}, model.ErrInvalidCredential
	}

	return user, nil
}

func (s *Identity) GetUser(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := s.userStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// DeleteAccount removes the user's conversations and then the user. It
// reports false when the user was already gone.
func (s *Identity) DeleteAccount(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, err := s.GetUser(ctx, id); err != nil {
		return false, err
	}

	if s.cleaner != nil {
		if err := s.cleaner.DeleteAllForOwner(ctx, id); err != nil {
			s.logger.Error("Identity service: failed to remove user conversations",
				"user_id", id,
				"error", err.Error())
			return false, fmt.Errorf("failed to remove conversations: %w", err)
		}
	}

	deleted, err := s.userStore.Delete(ctx, id)
	if err != nil {
		s.logger.Error("Identity service: failed to delete user",
			"user_id", id,
			"error", err.Error())
		return false, fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("Identity service: account deleted",
		"user_id", id,
		"deleted", deleted)

	return deleted, nil
}
