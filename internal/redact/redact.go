// Package redact scrubs sensitive information from strings before they are
// logged. Errors bubbling up from the store or mailer can embed connection
// strings, bearer tokens, or account emails; nothing in this service should
// ever write those to a log line.
package redact

import "regexp"

// Redaction placeholders
const (
	RedactedCredential = "[REDACTED_CREDENTIAL]"
	RedactedToken      = "[REDACTED_TOKEN]"
	RedactedEmail      = "[REDACTED_EMAIL]"
)

var (
	// Connection strings of the user:password@host form.
	connStringRegex = regexp.MustCompile(`(?i)(postgres|postgresql|smtp)://[^@\s]+@`)

	// password=... / password: ... fragments.
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]['"]?)[^'"&\s]{3,}`)

	// Three-part base64url JWTs.
	jwtRegex = regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`)

	// Email addresses.
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
)

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := connStringRegex.ReplaceAllString(input, RedactedCredential)
	result = passwordRegex.ReplaceAllString(result, "$1$2"+RedactedCredential)
	result = jwtRegex.ReplaceAllString(result, RedactedToken)
	result = emailRegex.ReplaceAllString(result, RedactedEmail)

	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
