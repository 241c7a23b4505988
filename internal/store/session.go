package store

import (
	"context"

	"github.com/google/uuid"
)

// SessionStore persists the per-user list of currently honored session
// tokens. The list is the revocation mechanism: a signed token that is no
// longer present here is treated as invalid regardless of its signature.
type SessionStore interface {
	// Add appends a token to the user's valid-token list.
	Add(ctx context.Context, userID uuid.UUID, token string) error

	// Contains reports whether the exact token is present in the user's
	// valid-token list.
	Contains(ctx context.Context, userID uuid.UUID, token string) (bool, error)

	// Remove deletes one matching token from the user's list (logout).
	// Removing a token that is not present is not an error.
	Remove(ctx context.Context, userID uuid.UUID, token string) error

	// RemoveAll clears the user's valid-token list (logout everywhere).
	// Clearing an empty list is not an error.
	RemoveAll(ctx context.Context, userID uuid.UUID) error
}
