package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token is malformed, unsigned, or its
	// signature doesn't match the trusted key.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrTokenRevoked indicates a structurally valid token that is no longer
	// present in the user's valid-token list (logged out individually or via
	// logout-all).
	ErrTokenRevoked = errors.New("authentication token has been revoked")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrInvalidCredentials indicates a failed login. It deliberately does
	// not distinguish an unknown email from a wrong password.
	ErrInvalidCredentials = errors.New("unable to login")
)
