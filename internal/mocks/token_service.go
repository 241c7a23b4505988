package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/service/auth"
)

// MockTokenService implements auth.TokenService for handler tests that do
// not need real JWT machinery. The default behavior issues an opaque token
// and tracks it in an in-memory session store.
type MockTokenService struct {
	IssueFn     func(ctx context.Context, userID uuid.UUID) (string, error)
	ValidateFn  func(ctx context.Context, token string) (*auth.Claims, error)
	RevokeFn    func(ctx context.Context, userID uuid.UUID, token string) error
	RevokeAllFn func(ctx context.Context, userID uuid.UUID) error

	Sessions *MockSessionStore
}

var _ auth.TokenService = (*MockTokenService)(nil)

// NewMockTokenService creates a mock token service backed by a fresh
// in-memory session store.
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{Sessions: NewMockSessionStore()}
}

func (m *MockTokenService) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.IssueFn != nil {
		return m.IssueFn(ctx, userID)
	}
	token := "token-" + uuid.NewString()
	if err := m.Sessions.Add(ctx, userID, token); err != nil {
		return "", err
	}
	return token, nil
}

func (m *MockTokenService) Validate(ctx context.Context, token string) (*auth.Claims, error) {
	if m.ValidateFn != nil {
		return m.ValidateFn(ctx, token)
	}
	return nil, auth.ErrInvalidToken
}

func (m *MockTokenService) Revoke(ctx context.Context, userID uuid.UUID, token string) error {
	if m.RevokeFn != nil {
		return m.RevokeFn(ctx, userID, token)
	}
	return m.Sessions.Remove(ctx, userID, token)
}

func (m *MockTokenService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	if m.RevokeAllFn != nil {
		return m.RevokeAllFn(ctx, userID)
	}
	return m.Sessions.RemoveAll(ctx, userID)
}
