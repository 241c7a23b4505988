package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/taskhive/taskhive/internal/api/shared"
	"github.com/taskhive/taskhive/internal/avatar"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/events"
	"github.com/taskhive/taskhive/internal/platform/logger"
	"github.com/taskhive/taskhive/internal/redact"
	"github.com/taskhive/taskhive/internal/service/auth"
	"github.com/taskhive/taskhive/internal/store"
)

// userUpdatableFields is the allow-list for PATCH /users/me. An update naming
// any other field, or naming no fields at all, is rejected outright.
var userUpdatableFields = map[string]bool{
	"name":     true,
	"email":    true,
	"password": true,
	"age":      true,
}

// UserHandler handles account lifecycle API requests.
type UserHandler struct {
	userStore    store.UserStore
	tokenService auth.TokenService
	hasher       auth.PasswordHasher
	emitter      events.EventEmitter
	logger       *slog.Logger
}

// NewUserHandler creates a new UserHandler with the given dependencies.
// If logger is nil, the default logger is used.
func NewUserHandler(
	userStore store.UserStore,
	tokenService auth.TokenService,
	hasher auth.PasswordHasher,
	emitter events.EventEmitter,
	logger *slog.Logger,
) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		userStore:    userStore,
		tokenService: tokenService,
		hasher:       hasher,
		emitter:      emitter,
		logger:       logger.With(slog.String("component", "user_handler")),
	}
}

// Signup handles POST /users.
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req SignupRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := domain.NewUser(req.Name, req.Email, req.Password, req.Age)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user data: "+err.Error())
		return
	}

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			HandleAPIError(w, r, err, "")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to create user", err)
		return
	}

	token, err := h.tokenService.Issue(r.Context(), user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	// Best-effort: a failed welcome email must never fail the signup.
	h.notify(r, events.NotificationWelcome, user)

	log.Info("user signed up", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		User:  userToResponse(user),
		Token: token,
	})
}

// Login handles POST /users/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Same response as a wrong password; never reveal which.
			HandleAPIError(w, r, auth.ErrInvalidCredentials, "")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to authenticate user", err)
		return
	}

	if err := h.hasher.Compare(user.HashedPassword, req.Password); err != nil {
		HandleAPIError(w, r, auth.ErrInvalidCredentials, "")
		return
	}

	token, err := h.tokenService.Issue(r.Context(), user.ID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	log.Debug("user logged in", slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		User:  userToResponse(user),
		Token: token,
	})
}

// Logout handles POST /users/logout. It revokes exactly the session token
// the request authenticated with.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate")
		return
	}
	token, ok := getTokenFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate")
		return
	}

	if err := h.tokenService.Revoke(r.Context(), userID, token); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to log out", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"message": "Logged out successfully.",
	})
}

// LogoutAll handles POST /users/logoutAll. It clears the user's entire
// valid-token list.
func (h *UserHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate")
		return
	}

	if err := h.tokenService.RevokeAll(r.Context(), userID); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to log out", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"message": "Logged out successfully from all sessions.",
	})
}

// Me handles GET /users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate")
		return
	}

	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// UpdateMe handles PATCH /users/me. Only fields on the allow-list may be
// changed; an empty update is explicitly invalid rather than a no-op.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate")
		return
	}

	var updates map[string]json.RawMessage
	if err := shared.DecodeJSON(r, &updates); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := checkAllowedFields(updates, userUpdatableFields); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := applyUserUpdates(user, updates); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user data: "+err.Error())
		return
	}

	if err := h.userStore.Update(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) || errors.Is(err, store.ErrInvalidEntity) {
			HandleAPIError(w, r, err, "")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to update user", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// DeleteMe handles DELETE /users/me. Owned tasks and session tokens are
// removed along with the account.
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate")
		return
	}

	// Fetch first: the response echoes the deleted account and the
	// cancellation email needs the address.
	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.userStore.Delete(r.Context(), userID); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to delete user", err)
		return
	}

	h.notify(r, events.NotificationCancellation, user)

	log.Info("user deleted account", slog.String("user_id", userID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, userToResponse(user))
}

// UploadAvatar handles POST /users/me/avatar.
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate")
		return
	}

	// Cap the whole request body; the form overhead on top of the image is
	// small so a single generous bound covers both.
	r.Body = http.MaxBytesReader(w, r.Body, avatar.MaxBytes+4096)

	file, header, err := r.FormFile("avatar")
	if err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: missing avatar file", avatar.ErrInvalidUpload), "")
		return
	}
	defer func() { _ = file.Close() }()

	if err := avatar.ValidateFilename(header.Filename); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, avatar.MaxBytes+1))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Failed to read upload", err)
		return
	}
	if len(data) > avatar.MaxBytes {
		HandleAPIError(w, r, avatar.ErrTooLarge, "")
		return
	}

	normalized, err := avatar.Process(data)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.userStore.UpdateAvatar(r.Context(), userID, normalized); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to store avatar", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"message": "Avatar uploaded successfully.",
	})
}

// DeleteAvatar handles DELETE /users/me/avatar.
func (h *UserHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Please authenticate")
		return
	}

	if err := h.userStore.UpdateAvatar(r.Context(), userID, nil); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to delete avatar", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{
		"message": "Avatar deleted successfully.",
	})
}

// GetAvatar handles GET /users/{id}/avatar. This endpoint is public; an
// unknown user and a user without an avatar answer identically.
func (h *UserHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		// Malformed IDs read as "no such avatar" on this public endpoint.
		shared.RespondWithError(w, r, http.StatusNotFound, "Avatar not found")
		return
	}

	data, err := h.userStore.GetAvatar(r.Context(), id)
	if err != nil {
		if store.IsNotFoundError(err) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Avatar not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to load avatar", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write avatar response", "error", redact.Error(err))
	}
}

// notify emits an account notification event. Failures are logged and
// swallowed: notifications must never fail the primary operation.
func (h *UserHandler) notify(r *http.Request, kind events.NotificationType, user *domain.User) {
	if h.emitter == nil {
		return
	}
	event := events.NewNotificationEvent(kind, user.Email, user.Name)
	if err := h.emitter.EmitEvent(r.Context(), event); err != nil {
		logger.FromContextOrDefault(r.Context(), h.logger).Warn("failed to emit notification event",
			slog.String("event_type", string(kind)),
			slog.String("error", redact.Error(err)))
	}
}
