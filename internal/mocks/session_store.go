package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/store"
)

// MockSessionStore implements store.SessionStore with an in-memory token
// list per user.
type MockSessionStore struct {
	AddFn       func(ctx context.Context, userID uuid.UUID, token string) error
	ContainsFn  func(ctx context.Context, userID uuid.UUID, token string) (bool, error)
	RemoveFn    func(ctx context.Context, userID uuid.UUID, token string) error
	RemoveAllFn func(ctx context.Context, userID uuid.UUID) error

	mu     sync.Mutex
	tokens map[uuid.UUID]map[string]bool
}

var _ store.SessionStore = (*MockSessionStore)(nil)

// NewMockSessionStore creates a mock session store with an empty token list.
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		tokens: make(map[uuid.UUID]map[string]bool),
	}
}

func (m *MockSessionStore) Add(ctx context.Context, userID uuid.UUID, token string) error {
	if m.AddFn != nil {
		return m.AddFn(ctx, userID, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tokens[userID] == nil {
		m.tokens[userID] = make(map[string]bool)
	}
	m.tokens[userID][token] = true
	return nil
}

func (m *MockSessionStore) Contains(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	if m.ContainsFn != nil {
		return m.ContainsFn(ctx, userID, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.tokens[userID][token], nil
}

func (m *MockSessionStore) Remove(ctx context.Context, userID uuid.UUID, token string) error {
	if m.RemoveFn != nil {
		return m.RemoveFn(ctx, userID, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tokens[userID], token)
	return nil
}

func (m *MockSessionStore) RemoveAll(ctx context.Context, userID uuid.UUID) error {
	if m.RemoveAllFn != nil {
		return m.RemoveAllFn(ctx, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tokens, userID)
	return nil
}

// Count returns how many tokens are currently stored for the user.
func (m *MockSessionStore) Count(userID uuid.UUID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tokens[userID])
}
