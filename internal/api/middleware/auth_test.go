package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/taskhive/internal/api/middleware"
	"github.com/taskhive/taskhive/internal/mocks"
	"github.com/taskhive/taskhive/internal/service/auth"
)

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	validatingService := func(t *testing.T, wantToken string) *mocks.MockTokenService {
		t.Helper()
		svc := mocks.NewMockTokenService()
		svc.ValidateFn = func(ctx context.Context, token string) (*auth.Claims, error) {
			require.Equal(t, wantToken, token)
			return &auth.Claims{UserID: userID, Subject: userID.String()}, nil
		}
		return svc
	}

	t.Run("valid token reaches handler with identity in context", func(t *testing.T) {
		t.Parallel()

		svc := validatingService(t, "good-token")
		mw := middleware.NewAuthMiddleware(svc)

		var handlerCalled bool
		handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true

			gotID, ok := middleware.GetUserID(r)
			assert.True(t, ok)
			assert.Equal(t, userID, gotID)

			gotToken, ok := middleware.GetToken(r)
			assert.True(t, ok)
			assert.Equal(t, "good-token", gotToken)
		}))

		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.True(t, handlerCalled)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	tests := []struct {
		name       string
		header     string
		validateFn func(ctx context.Context, token string) (*auth.Claims, error)
		wantStatus int
	}{
		{
			name:       "missing header",
			header:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed header",
			header:     "NotBearer abc",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "invalid token",
			header: "Bearer bad-token",
			validateFn: func(ctx context.Context, token string) (*auth.Claims, error) {
				return nil, auth.ErrInvalidToken
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "revoked token",
			header: "Bearer revoked-token",
			validateFn: func(ctx context.Context, token string) (*auth.Claims, error) {
				return nil, auth.ErrTokenRevoked
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "session store failure",
			header: "Bearer some-token",
			validateFn: func(ctx context.Context, token string) (*auth.Claims, error) {
				return nil, errors.New("database down")
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewMockTokenService()
			svc.ValidateFn = tc.validateFn
			mw := middleware.NewAuthMiddleware(svc)

			handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler should not be reached")
			}))

			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}
