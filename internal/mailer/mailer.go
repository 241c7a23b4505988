// Package mailer sends account lifecycle emails. Delivery is best-effort:
// callers hand messages to the background job runner and never fail a request
// because an email could not be sent.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
)

// Mailer defines the outbound account notification operations.
type Mailer interface {
	// SendWelcome sends the signup welcome email.
	SendWelcome(ctx context.Context, email, name string) error

	// SendCancellation sends the account cancellation email.
	SendCancellation(ctx context.Context, email, name string) error
}

// LogMailer is a no-op Mailer that only logs the would-be delivery. It is
// used when no SMTP relay is configured, keeping local development working.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer. If logger is nil, the default logger is used.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger.With(slog.String("component", "log_mailer"))}
}

var _ Mailer = (*LogMailer)(nil)

// SendWelcome implements Mailer.SendWelcome by logging only.
func (m *LogMailer) SendWelcome(ctx context.Context, email, name string) error {
	m.logger.Info("smtp not configured, skipping welcome email", "name", name)
	return nil
}

// SendCancellation implements Mailer.SendCancellation by logging only.
func (m *LogMailer) SendCancellation(ctx context.Context, email, name string) error {
	m.logger.Info("smtp not configured, skipping cancellation email", "name", name)
	return nil
}

func welcomeBody(name string) string {
	return fmt.Sprintf("Welcome to the app, %s. Let me know how you get along with it.", name)
}

func cancellationBody(name string) string {
	return fmt.Sprintf("Goodbye, %s. Is there anything we could have done to keep you on board?", name)
}
