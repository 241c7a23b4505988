package mocks

import (
	"context"
	"sync"

	"github.com/taskhive/taskhive/internal/mailer"
)

// SentMail records a single send call made against the MockMailer.
type SentMail struct {
	Kind  string
	Email string
	Name  string
}

// MockMailer implements mailer.Mailer and records every send.
type MockMailer struct {
	SendWelcomeFn      func(ctx context.Context, email, name string) error
	SendCancellationFn func(ctx context.Context, email, name string) error

	mu   sync.Mutex
	sent []SentMail
}

var _ mailer.Mailer = (*MockMailer)(nil)

// NewMockMailer creates a recording mailer mock.
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) SendWelcome(ctx context.Context, email, name string) error {
	if m.SendWelcomeFn != nil {
		return m.SendWelcomeFn(ctx, email, name)
	}
	m.record("welcome", email, name)
	return nil
}

func (m *MockMailer) SendCancellation(ctx context.Context, email, name string) error {
	if m.SendCancellationFn != nil {
		return m.SendCancellationFn(ctx, email, name)
	}
	m.record("cancellation", email, name)
	return nil
}

func (m *MockMailer) record(kind, email, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentMail{Kind: kind, Email: email, Name: name})
}

// Sent returns a copy of all recorded sends.
func (m *MockMailer) Sent() []SentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMail, len(m.sent))
	copy(out, m.sent)
	return out
}
