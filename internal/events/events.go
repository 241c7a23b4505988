package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// NotificationType identifies which account email a NotificationEvent asks for.
type NotificationType string

// Supported notification types
const (
	// NotificationWelcome is sent after a successful signup.
	NotificationWelcome NotificationType = "welcome"

	// NotificationCancellation is sent after an account deletion.
	NotificationCancellation NotificationType = "cancellation"
)

// NotificationEvent represents a request to send an account email. Handlers
// emit it fire-and-forget: failure to deliver the email never fails the
// operation that triggered it.
type NotificationEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type indicates which notification should be sent
	Type NotificationType `json:"type"`

	// Email is the recipient address
	Email string `json:"email"`

	// Name is the recipient's display name, used in the message body
	Name string `json:"name"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewNotificationEvent creates a new NotificationEvent for the given
// recipient.
func NewNotificationEvent(kind NotificationType, email, name string) *NotificationEvent {
	return &NotificationEvent{
		ID:        uuid.New(),
		Type:      kind,
		Email:     email,
		Name:      name,
		CreatedAt: time.Now(),
	}
}

// EventHandler defines an interface for components that can handle events.
// Handlers are responsible for processing events and taking appropriate actions.
type EventHandler interface {
	// HandleEvent processes a single event. Returning an error signals the
	// failure to the emitter; it does not retry.
	HandleEvent(ctx context.Context, event *NotificationEvent) error
}

// EventEmitter defines an interface for components that can emit events to
// registered handlers.
type EventEmitter interface {
	// EmitEvent publishes the event to all registered handlers.
	EmitEvent(ctx context.Context, event *NotificationEvent) error

	// RegisterHandler adds a handler that will receive future events.
	RegisterHandler(handler EventHandler)
}
