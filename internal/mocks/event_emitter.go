package mocks

import (
	"context"
	"sync"

	"github.com/taskhive/taskhive/internal/events"
)

// MockEventEmitter implements events.EventEmitter and records every emitted
// event instead of dispatching it.
type MockEventEmitter struct {
	EmitEventFn func(ctx context.Context, event *events.NotificationEvent) error

	mu      sync.Mutex
	emitted []*events.NotificationEvent
}

var _ events.EventEmitter = (*MockEventEmitter)(nil)

// NewMockEventEmitter creates a recording event emitter mock.
func NewMockEventEmitter() *MockEventEmitter {
	return &MockEventEmitter{}
}

func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.NotificationEvent) error {
	if m.EmitEventFn != nil {
		return m.EmitEventFn(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emitted = append(m.emitted, event)
	return nil
}

func (m *MockEventEmitter) RegisterHandler(handler events.EventHandler) {}

// Emitted returns a copy of all recorded events.
func (m *MockEventEmitter) Emitted() []*events.NotificationEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*events.NotificationEvent, len(m.emitted))
	copy(out, m.emitted)
	return out
}
