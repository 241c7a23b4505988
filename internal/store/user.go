package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// It handles domain validation and password hashing internally; the
	// plaintext Password field is consumed and never persisted.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user's profile fields. If a new plaintext
	// Password is set on the user, it is hashed exactly once and the stored
	// hash replaced; an unchanged HashedPassword is never re-hashed.
	// Returns ErrUserNotFound if the user does not exist.
	// Returns ErrEmailExists if updating to an email that already exists.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user from the store by their ID. Owned tasks and
	// session tokens are removed with it.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// UpdateAvatar replaces the user's stored avatar blob. A nil avatar
	// clears it. Returns ErrUserNotFound if the user does not exist.
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatar []byte) error

	// GetAvatar retrieves the raw avatar blob for a user.
	// Returns ErrUserNotFound if the user does not exist and
	// ErrAvatarNotFound if the user has no avatar set.
	GetAvatar(ctx context.Context, id uuid.UUID) ([]byte, error)
}
