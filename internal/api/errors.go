package api

import (
	"errors"
	"net/http"

	"github.com/taskhive/taskhive/internal/api/shared"
	"github.com/taskhive/taskhive/internal/avatar"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/service/auth"
	"github.com/taskhive/taskhive/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenRevoked),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Not found errors (a not-owned resource reports as not found too)
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidOperation),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrDuplicate),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, avatar.ErrInvalidUpload),
		errors.Is(err, avatar.ErrUnsupportedFormat),
		errors.Is(err, avatar.ErrTooLarge):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenRevoked),
		errors.Is(err, auth.ErrMissingToken):
		return "Please authenticate"

	case errors.Is(err, auth.ErrInvalidCredentials):
		// Deliberately identical for unknown email and wrong password.
		return "Unable to login"

	case errors.Is(err, domain.ErrInvalidOperation):
		return "Invalid operation"

	case errors.Is(err, store.ErrEmailExists):
		return "Email is already in use"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrAvatarNotFound), errors.Is(err, store.ErrUserNotFound):
		return "Not found"

	case errors.Is(err, avatar.ErrUnsupportedFormat):
		return avatar.ErrUnsupportedFormat.Error()

	case errors.Is(err, avatar.ErrTooLarge):
		return avatar.ErrTooLarge.Error()

	case errors.Is(err, avatar.ErrInvalidUpload):
		return avatar.ErrInvalidUpload.Error()

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes an error response using the status and message
// derived from the error. When userMessage is non-empty it overrides the
// derived message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, userMessage string) {
	status := MapErrorToStatusCode(err)
	message := userMessage
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
