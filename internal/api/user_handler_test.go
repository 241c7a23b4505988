package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/taskhive/internal/api"
	"github.com/taskhive/taskhive/internal/api/shared"
	"github.com/taskhive/taskhive/internal/avatar"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/events"
	"github.com/taskhive/taskhive/internal/mocks"
	"github.com/taskhive/taskhive/internal/service/auth"
)

type userFixture struct {
	handler *api.UserHandler
	users   *mocks.MockUserStore
	tokens  *mocks.MockTokenService
	emitter *mocks.MockEventEmitter
}

// fakeHasher avoids bcrypt cost in handler tests.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return auth.ErrInvalidCredentials
	}
	return nil
}

func newUserFixture() *userFixture {
	users := mocks.NewMockUserStore()
	tokens := mocks.NewMockTokenService()
	emitter := mocks.NewMockEventEmitter()
	return &userFixture{
		handler: api.NewUserHandler(users, tokens, fakeHasher{}, emitter, nil),
		users:   users,
		tokens:  tokens,
		emitter: emitter,
	}
}

func (f *userFixture) seedUser(t *testing.T) *domain.User {
	t.Helper()

	user, err := domain.NewUser("Alice", "alice@example.com", "sturdy-passphrase", 30)
	require.NoError(t, err)
	user.HashedPassword = "hashed:sturdy-passphrase"
	user.Password = ""
	f.users.Seed(user)
	return user
}

func authed(req *http.Request, userID uuid.UUID, token string) *http.Request {
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
	if token != "" {
		ctx = context.WithValue(ctx, shared.TokenContextKey, token)
	}
	return req.WithContext(ctx)
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func TestUserHandlerSignup(t *testing.T) {
	t.Parallel()

	t.Run("successful signup", func(t *testing.T) {
		t.Parallel()

		f := newUserFixture()
		body := jsonBody(t, map[string]any{
			"name":     "Alice",
			"email":    "Alice@Example.com",
			"password": "sturdy-passphrase",
			"age":      30,
		})
		req := httptest.NewRequest(http.MethodPost, "/users", body)
		rec := httptest.NewRecorder()

		f.handler.Signup(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp api.AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "alice@example.com", resp.User.Email, "email stored lowercased")
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, 1, f.tokens.Sessions.Count(resp.User.ID), "signup starts a session")

		assert.NotContains(t, rec.Body.String(), "sturdy-passphrase")
		assert.NotContains(t, rec.Body.String(), "hashed:")

		emitted := f.emitter.Emitted()
		require.Len(t, emitted, 1)
		assert.Equal(t, events.NotificationWelcome, emitted[0].Type)
		assert.Equal(t, "alice@example.com", emitted[0].Email)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()

		f := newUserFixture()
		f.seedUser(t)

		body := jsonBody(t, map[string]any{
			"name":     "Other Alice",
			"email":    "alice@example.com",
			"password": "sturdy-passphrase",
		})
		req := httptest.NewRequest(http.MethodPost, "/users", body)
		rec := httptest.NewRecorder()

		f.handler.Signup(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Email is already in use")
		assert.Empty(t, f.emitter.Emitted(), "no welcome email for a failed signup")
	})

	t.Run("password too short", func(t *testing.T) {
		t.Parallel()

		f := newUserFixture()
		body := jsonBody(t, map[string]any{
			"name":     "Alice",
			"email":    "alice@example.com",
			"password": "short1",
		})
		req := httptest.NewRequest(http.MethodPost, "/users", body)
		rec := httptest.NewRecorder()

		f.handler.Signup(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("obvious password rejected", func(t *testing.T) {
		t.Parallel()

		f := newUserFixture()
		body := jsonBody(t, map[string]any{
			"name":     "Alice",
			"email":    "alice@example.com",
			"password": "myPassword1",
		})
		req := httptest.NewRequest(http.MethodPost, "/users", body)
		rec := httptest.NewRecorder()

		f.handler.Signup(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		f := newUserFixture()
		req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()

		f.handler.Signup(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUserHandlerLogin(t *testing.T) {
	t.Parallel()

	t.Run("successful login", func(t *testing.T) {
		t.Parallel()

		f := newUserFixture()
		user := f.seedUser(t)

		body := jsonBody(t, map[string]any{
			"email":    "alice@example.com",
			"password": "sturdy-passphrase",
		})
		req := httptest.NewRequest(http.MethodPost, "/users/login", body)
		rec := httptest.NewRecorder()

		f.handler.Login(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.AuthResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, user.ID, resp.User.ID)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("wrong password and unknown email answer identically", func(t *testing.T) {
		t.Parallel()

		f := newUserFixture()
		f.seedUser(t)

		cases := []map[string]any{
			{"email": "alice@example.com", "password": "wrong-passphrase"},
			{"email": "nobody@example.com", "password": "sturdy-passphrase"},
		}

		var bodies []string
		for _, c := range cases {
			req := httptest.NewRequest(http.MethodPost, "/users/login", jsonBody(t, c))
			rec := httptest.NewRecorder()

			f.handler.Login(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "Unable to login")
			bodies = append(bodies, rec.Body.String())
		}

		assert.Equal(t, bodies[0], bodies[1], "responses must not reveal which credential failed")
	})
}

func TestUserHandlerLogout(t *testing.T) {
	t.Parallel()

	t.Run("logout revokes only the presented token", func(t *testing.T) {
		t.Parallel()

		f := newUserFixture()
		user := f.seedUser(t)

		ctx := context.Background()
		first, err := f.tokens.Issue(ctx, user.ID)
		require.NoError(t, err)
		_, err = f.tokens.Issue(ctx, user.ID)
		require.NoError(t, err)

		req := authed(httptest.NewRequest(http.MethodPost, "/users/logout", nil), user.ID, first)
		rec := httptest.NewRecorder()

		f.handler.Logout(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, f.tokens.Sessions.Count(user.ID), "the other session survives")
	})

	t.Run("logoutAll clears every session", func(t *testing.T) {
		t.Parallel()

		f := newUserFixture()
		user := f.seedUser(t)

		ctx := context.Background()
		token, err := f.tokens.Issue(ctx, user.ID)
		require.NoError(t, err)
		_, err = f.tokens.Issue(ctx, user.ID)
		require.NoError(t, err)

		req := authed(httptest.NewRequest(http.MethodPost, "/users/logoutAll", nil), user.ID, token)
		rec := httptest.NewRecorder()

		f.handler.LogoutAll(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 0, f.tokens.Sessions.Count(user.ID))
	})
}

func TestUserHandlerMe(t *testing.T) {
	t.Parallel()

	f := newUserFixture()
	user := f.seedUser(t)

	req := authed(httptest.NewRequest(http.MethodGet, "/users/me", nil), user.ID, "tok")
	rec := httptest.NewRecorder()

	f.handler.Me(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, user.ID, resp.ID)
	assert.Equal(t, "alice@example.com", resp.Email)
	assert.NotContains(t, rec.Body.String(), "hashed:")
}

func TestUserHandlerUpdateMe(t *testing.T) {
	t.Parallel()

	t.Run("allowed fields update", func(t *testing.T) {
		t.Parallel()

		f := newUserFixture()
		user := f.seedUser(t)

		body := jsonBody(t, map[string]any{"name": "Alicia", "age": 31})
		req := authed(httptest.NewRequest(http.MethodPatch, "/users/me", body), user.ID, "tok")
		rec := httptest.NewRecorder()

		f.handler.UpdateMe(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp api.UserResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Alicia", resp.Name)
		assert.Equal(t, 31, resp.Age)

		stored, err := f.users.GetByID(req.Context(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alicia", stored.Name)
	})

	t.Run("password update is re-hashed", func(t *testing.T) {
		t.Parallel()

		f := newUserFixture()
		user := f.seedUser(t)

		body := jsonBody(t, map[string]any{"password": "brand-new-secret"})
		req := authed(httptest.NewRequest(http.MethodPatch, "/users/me", body), user.ID, "tok")
		rec := httptest.NewRecorder()

		f.handler.UpdateMe(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		stored, err := f.users.GetByID(req.Context(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, "hashed:brand-new-secret", stored.HashedPassword)
		assert.Empty(t, stored.Password)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		t.Parallel()

		f := newUserFixture()
		user := f.seedUser(t)

		body := jsonBody(t, map[string]any{"name": "Alicia", "role": "admin"})
		req := authed(httptest.NewRequest(http.MethodPatch, "/users/me", body), user.ID, "tok")
		rec := httptest.NewRecorder()

		f.handler.UpdateMe(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Invalid operation")

		stored, err := f.users.GetByID(req.Context(), user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", stored.Name, "a rejected update must not partially apply")
	})

	t.Run("empty update rejected", func(t *testing.T) {
		t.Parallel()

		f := newUserFixture()
		user := f.seedUser(t)

		body := jsonBody(t, map[string]any{})
		req := authed(httptest.NewRequest(http.MethodPatch, "/users/me", body), user.ID, "tok")
		rec := httptest.NewRecorder()

		f.handler.UpdateMe(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid new password rejected", func(t *testing.T) {
		t.Parallel()

		f := newUserFixture()
		user := f.seedUser(t)

		body := jsonBody(t, map[string]any{"password": "short"})
		req := authed(httptest.NewRequest(http.MethodPatch, "/users/me", body), user.ID, "tok")
		rec := httptest.NewRecorder()

		f.handler.UpdateMe(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUserHandlerDeleteMe(t *testing.T) {
	t.Parallel()

	f := newUserFixture()
	user := f.seedUser(t)

	req := authed(httptest.NewRequest(http.MethodDelete, "/users/me", nil), user.ID, "tok")
	rec := httptest.NewRecorder()

	f.handler.DeleteMe(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, user.ID, resp.ID, "response echoes the deleted account")

	_, err := f.users.GetByID(req.Context(), user.ID)
	assert.Error(t, err)

	emitted := f.emitter.Emitted()
	require.Len(t, emitted, 1)
	assert.Equal(t, events.NotificationCancellation, emitted[0].Type)
	assert.Equal(t, "alice@example.com", emitted[0].Email)
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("avatar", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func TestUserHandlerAvatar(t *testing.T) {
	t.Parallel()

	t.Run("upload fetch delete round trip", func(t *testing.T) {
		t.Parallel()

		f := newUserFixture()
		user := f.seedUser(t)

		body, contentType := multipartUpload(t, "me.png", pngBytes(t, 300, 300))
		req := authed(httptest.NewRequest(http.MethodPost, "/users/me/avatar", body), user.ID, "tok")
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		f.handler.UploadAvatar(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		// Fetch through the public endpoint.
		router := chi.NewRouter()
		router.Get("/users/{id}/avatar", f.handler.GetAvatar)

		getReq := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/users/%s/avatar", user.ID), nil)
		getRec := httptest.NewRecorder()
		router.ServeHTTP(getRec, getReq)

		require.Equal(t, http.StatusOK, getRec.Code)
		assert.Equal(t, "image/png", getRec.Header().Get("Content-Type"))

		decoded, _, err := image.Decode(bytes.NewReader(getRec.Body.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, avatar.Width, decoded.Bounds().Dx())
		assert.Equal(t, avatar.Height, decoded.Bounds().Dy())

		// Delete and confirm the fetch now misses.
		delReq := authed(httptest.NewRequest(http.MethodDelete, "/users/me/avatar", nil), user.ID, "tok")
		delRec := httptest.NewRecorder()
		f.handler.DeleteAvatar(delRec, delReq)
		require.Equal(t, http.StatusOK, delRec.Code)

		missRec := httptest.NewRecorder()
		router.ServeHTTP(missRec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/users/%s/avatar", user.ID), nil))
		assert.Equal(t, http.StatusNotFound, missRec.Code)
	})

	t.Run("unsupported extension rejected before decoding", func(t *testing.T) {
		t.Parallel()

		f := newUserFixture()
		user := f.seedUser(t)

		body, contentType := multipartUpload(t, "me.gif", pngBytes(t, 10, 10))
		req := authed(httptest.NewRequest(http.MethodPost, "/users/me/avatar", body), user.ID, "tok")
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		f.handler.UploadAvatar(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "only jpg, jpeg and png")
	})

	t.Run("non-image content rejected", func(t *testing.T) {
		t.Parallel()

		f := newUserFixture()
		user := f.seedUser(t)

		body, contentType := multipartUpload(t, "me.png", []byte("not an image at all"))
		req := authed(httptest.NewRequest(http.MethodPost, "/users/me/avatar", body), user.ID, "tok")
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		f.handler.UploadAvatar(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("fetch for unknown user is 404", func(t *testing.T) {
		t.Parallel()

		f := newUserFixture()

		router := chi.NewRouter()
		router.Get("/users/{id}/avatar", f.handler.GetAvatar)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/users/%s/avatar", uuid.New()), nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed user id is 404", func(t *testing.T) {
		t.Parallel()

		f := newUserFixture()

		router := chi.NewRouter()
		router.Get("/users/{id}/avatar", f.handler.GetAvatar)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/not-a-uuid/avatar", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
