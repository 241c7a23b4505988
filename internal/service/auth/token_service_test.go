package auth_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/taskhive/internal/mocks"
	"github.com/taskhive/taskhive/internal/service/auth"
)

const testSecret = "test-signing-secret-0123456789abcdef"

func newTestTokenService(t *testing.T) (auth.TokenService, *mocks.MockSessionStore) {
	t.Helper()

	sessions := mocks.NewMockSessionStore()
	svc, err := auth.NewTokenService(testSecret, sessions)
	require.NoError(t, err)
	return svc, sessions
}

func TestNewTokenService(t *testing.T) {
	t.Parallel()

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()

		_, err := auth.NewTokenService("too-short", mocks.NewMockSessionStore())
		assert.Error(t, err)
	})

	t.Run("rejects nil session store", func(t *testing.T) {
		t.Parallel()

		_, err := auth.NewTokenService(testSecret, nil)
		assert.Error(t, err)
	})
}

func TestTokenServiceIssueAndValidate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, sessions := newTestTokenService(t)
	userID := uuid.New()

	token, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, 1, sessions.Count(userID), "issuing must record the token")

	claims, err := svc.Validate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.False(t, claims.IssuedAt.IsZero())
}

func TestTokenServiceValidateFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("garbage token", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestTokenService(t)
		_, err := svc.Validate(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("token signed with a different key", func(t *testing.T) {
		t.Parallel()

		svc, _ := newTestTokenService(t)

		otherSvc, err := auth.NewTokenService("another-signing-secret-0123456789abcdef", mocks.NewMockSessionStore())
		require.NoError(t, err)

		token, err := otherSvc.Issue(ctx, uuid.New())
		require.NoError(t, err)

		_, err = svc.Validate(ctx, token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("well signed token not in the session list", func(t *testing.T) {
		t.Parallel()

		svc, sessions := newTestTokenService(t)
		userID := uuid.New()

		token, err := svc.Issue(ctx, userID)
		require.NoError(t, err)

		require.NoError(t, sessions.Remove(ctx, userID, token))

		_, err = svc.Validate(ctx, token)
		assert.ErrorIs(t, err, auth.ErrTokenRevoked)
	})
}

func TestTokenServiceRevoke(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, sessions := newTestTokenService(t)
	userID := uuid.New()

	first, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	second, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	require.NotEqual(t, first, second, "each issue carries a unique token ID")

	// Revoking one session leaves the other alive.
	require.NoError(t, svc.Revoke(ctx, userID, first))

	_, err = svc.Validate(ctx, first)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)

	_, err = svc.Validate(ctx, second)
	assert.NoError(t, err)

	// RevokeAll clears everything.
	require.NoError(t, svc.RevokeAll(ctx, userID))
	assert.Equal(t, 0, sessions.Count(userID))

	_, err = svc.Validate(ctx, second)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)
}
