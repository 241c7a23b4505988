package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taskhive/taskhive/internal/events"
	"github.com/taskhive/taskhive/internal/mailer"
)

// NotificationHandler bridges account events to the job runner: each
// NotificationEvent becomes an email job on the queue. It is the only
// registered consumer of the event emitter.
type NotificationHandler struct {
	runner *Runner
	mail   mailer.Mailer
	logger *slog.Logger
}

// NewNotificationHandler creates a NotificationHandler. If logger is nil,
// the default logger is used.
func NewNotificationHandler(runner *Runner, mail mailer.Mailer, logger *slog.Logger) *NotificationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationHandler{
		runner: runner,
		mail:   mail,
		logger: logger.With(slog.String("component", "notification_handler")),
	}
}

var _ events.EventHandler = (*NotificationHandler)(nil)

// HandleEvent implements events.EventHandler by enqueueing an email job.
// The returned error only surfaces to the emitter's log; notification
// delivery stays best-effort.
func (h *NotificationHandler) HandleEvent(ctx context.Context, event *events.NotificationEvent) error {
	job, err := NewEmailJob(event, h.mail)
	if err != nil {
		return fmt.Errorf("failed to build email job: %w", err)
	}

	if err := h.runner.Submit(job); err != nil {
		return fmt.Errorf("failed to enqueue email job: %w", err)
	}

	h.logger.Debug("enqueued notification job",
		"event_id", event.ID,
		"event_type", event.Type)
	return nil
}
