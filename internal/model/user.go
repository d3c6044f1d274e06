package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// User represents a registered account. PasswordHash never leaves the server.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash []byte `json:"-"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PasswordHasher hashes and verifies user credentials.
type PasswordHasher interface {
	Hash(password string) ([]byte, error)
	Compare(hash []byte, password string) error
	// CompareDummy burns the same time as Compare for lookups that found no user.
	CompareDummy(password string)
}
