package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/platform/logger"
	"github.com/taskhive/taskhive/internal/store"
)

// hmacTokenService is an implementation of TokenService using HMAC-SHA
// signing and a SessionStore as the source of truth for token liveness.
type hmacTokenService struct {
	signingKey []byte
	sessions   store.SessionStore
	timeFunc   func() time.Time // Injectable for testing
}

// sessionClaims defines the structure of the JWT claims we sign. Tokens carry
// no exp claim: liveness is governed entirely by membership in the user's
// valid-token list.
type sessionClaims struct {
	UserID uuid.UUID `json:"uid"`
	jwt.RegisteredClaims
}

// Ensure hmacTokenService implements TokenService interface
var _ TokenService = (*hmacTokenService)(nil)

// NewTokenService creates a new TokenService using HMAC-SHA256 signing.
// The session store tracks which issued tokens are currently honored.
func NewTokenService(secret string, sessions store.SessionStore) (TokenService, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session store is required")
	}

	return &hmacTokenService{
		signingKey: []byte(secret),
		sessions:   sessions,
		timeFunc:   time.Now,
	}, nil
}

// Issue creates a signed session token and records it in the user's
// valid-token list. The token is only usable once the list update persists.
func (s *hmacTokenService) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	log := logger.FromContextOrDefault(ctx, nil)
	now := s.timeFunc()

	claims := sessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID.String(),
			IssuedAt: jwt.NewNumericDate(now),
			ID:       uuid.New().String(), // Unique token ID
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign session token",
			"error", err,
			"user_id", userID,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", fmt.Errorf("failed to sign session token with HMAC-SHA256: %w", err)
	}

	if err := s.sessions.Add(ctx, userID, signedToken); err != nil {
		log.Error("failed to record issued token in session store",
			"error", err,
			"user_id", userID)
		return "", fmt.Errorf("failed to record session token: %w", err)
	}

	return signedToken, nil
}

// Validate verifies the token signature and structure, then requires the
// exact token string to still be present in the claimed user's valid-token
// list.
func (s *hmacTokenService) Validate(ctx context.Context, tokenString string) (*Claims, error) {
	log := logger.FromContextOrDefault(ctx, nil)

	token, err := jwt.ParseWithClaims(
		tokenString,
		&sessionClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil {
		log.Debug("token validation failed", "error", err)
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		log.Debug("token validation failed: invalid claims")
		return nil, ErrInvalidToken
	}

	if claims.UserID == uuid.Nil {
		log.Debug("token validation failed: missing user ID claim")
		return nil, ErrInvalidToken
	}

	// Signature alone is not sufficient: the token must still be in the
	// user's valid-token list, which is how logout revokes it.
	present, err := s.sessions.Contains(ctx, claims.UserID, tokenString)
	if err != nil {
		return nil, fmt.Errorf("failed to check session token liveness: %w", err)
	}
	if !present {
		log.Debug("token validation failed: token revoked",
			"user_id", claims.UserID,
			"token_id", claims.ID)
		return nil, ErrTokenRevoked
	}

	out := &Claims{
		UserID:  claims.UserID,
		Subject: claims.Subject,
		ID:      claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

// Revoke removes one matching token from the user's valid-token list.
func (s *hmacTokenService) Revoke(ctx context.Context, userID uuid.UUID, tokenString string) error {
	return s.sessions.Remove(ctx, userID, tokenString)
}

// RevokeAll clears the user's valid-token list.
func (s *hmacTokenService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	return s.sessions.RemoveAll(ctx, userID)
}
