package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenService defines operations for managing session bearer tokens.
//
// A token is valid iff it is cryptographically well-formed (signed by the
// trusted key, identifying an existing user) AND still present in that user's
// valid-token list. The list is the revocation mechanism: signed tokens are
// self-contained and cannot be "un-signed", so removing an entry invalidates
// the token immediately, at the cost of a store lookup per request.
type TokenService interface {
	// Issue creates a signed token for the user, appends it to the user's
	// valid-token list, and returns the token string.
	Issue(ctx context.Context, userID uuid.UUID) (string, error)

	// Validate verifies the token's signature and structure, then checks that
	// it is still present in the claimed user's valid-token list.
	// Returns ErrInvalidToken if malformed, unsigned, or signed by an
	// untrusted key, and ErrTokenRevoked if structurally valid but absent
	// from the list.
	Validate(ctx context.Context, tokenString string) (*Claims, error)

	// Revoke removes one matching token from the user's valid-token list
	// (single-session logout). Revoking an absent token is a no-op.
	Revoke(ctx context.Context, userID uuid.UUID, tokenString string) error

	// RevokeAll clears the user's valid-token list (logout everywhere).
	RevokeAll(ctx context.Context, userID uuid.UUID) error
}

// Claims represents the verified content of a session token. Only the user's
// identifier is embedded; no other sensitive claim is carried on the wire.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// Standard registered JWT claims
	Subject  string    `json:"sub,omitempty"`
	IssuedAt time.Time `json:"iat,omitempty"`
	ID       string    `json:"jti,omitempty"`
}
