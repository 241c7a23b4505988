package jobs

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/events"
	"github.com/taskhive/taskhive/internal/mailer"
)

// Email job type identifiers
const (
	JobTypeWelcomeEmail      = "welcome_email"
	JobTypeCancellationEmail = "cancellation_email"
)

// emailJob delivers a single account notification email through the mailer.
type emailJob struct {
	id    uuid.UUID
	kind  events.NotificationType
	email string
	name  string
	mail  mailer.Mailer
}

var _ Job = (*emailJob)(nil)

// NewEmailJob creates a job that sends the notification described by the
// event through the given mailer.
func NewEmailJob(event *events.NotificationEvent, mail mailer.Mailer) (Job, error) {
	switch event.Type {
	case events.NotificationWelcome, events.NotificationCancellation:
	default:
		return nil, fmt.Errorf("unknown notification type %q", event.Type)
	}

	return &emailJob{
		id:    event.ID,
		kind:  event.Type,
		email: event.Email,
		name:  event.Name,
		mail:  mail,
	}, nil
}

// ID implements Job.ID
func (j *emailJob) ID() uuid.UUID {
	return j.id
}

// Type implements Job.Type
func (j *emailJob) Type() string {
	if j.kind == events.NotificationCancellation {
		return JobTypeCancellationEmail
	}
	return JobTypeWelcomeEmail
}

// Execute implements Job.Execute
func (j *emailJob) Execute(ctx context.Context) error {
	switch j.kind {
	case events.NotificationCancellation:
		return j.mail.SendCancellation(ctx, j.email, j.name)
	default:
		return j.mail.SendWelcome(ctx, j.email, j.name)
	}
}
