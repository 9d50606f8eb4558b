package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/splashpad/lesson-api/internal/domain"
)

// UserStore manages the admin identities that authenticate against the API.
type UserStore interface {
	// Create persists a new user, hashing the plaintext password before
	// storage. Returns ErrEmailExists if the email is already registered.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
