package mailer

import (
	"context"
	"fmt"

	"github.com/taskhive/taskhive/internal/config"
	"github.com/wneessen/go-mail"
)

// SMTPMailer implements Mailer over an SMTP relay using go-mail.
type SMTPMailer struct {
	client *mail.Client
	from   string
}

// NewSMTPMailer creates a Mailer that delivers through the configured SMTP
// relay.
func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTPMailer{client: client, from: cfg.From}, nil
}

var _ Mailer = (*SMTPMailer)(nil)

// SendWelcome implements Mailer.SendWelcome.
func (m *SMTPMailer) SendWelcome(ctx context.Context, email, name string) error {
	return m.send(ctx, email, "Thanks for joining in!", welcomeBody(name))
}

// SendCancellation implements Mailer.SendCancellation.
func (m *SMTPMailer) SendCancellation(ctx context.Context, email, name string) error {
	return m.send(ctx, email, "Sorry to see you go!", cancellationBody(name))
}

func (m *SMTPMailer) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
