package postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/taskhive/taskhive/internal/store"
)

// SessionStore implements the store.SessionStore interface using a
// PostgreSQL database as the storage backend. Tokens are kept in a child
// table of users, ordered by issuance; deleting a row is what revokes the
// corresponding token.
type SessionStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewSessionStore creates a new PostgreSQL implementation of the
// SessionStore interface. If logger is nil, the default logger is used.
func NewSessionStore(db *sqlx.DB, logger *slog.Logger) *SessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &SessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure SessionStore implements store.SessionStore interface
var _ store.SessionStore = (*SessionStore)(nil)

// Add implements store.SessionStore.Add
func (s *SessionStore) Add(ctx context.Context, userID uuid.UUID, token string) error {
	const query = `
		INSERT INTO session_tokens (id, user_id, token, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := s.db.ExecContext(ctx, query, uuid.New(), userID, token, time.Now().UTC())
	if err != nil {
		return mapError(err)
	}

	return nil
}

// Contains implements store.SessionStore.Contains
func (s *SessionStore) Contains(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM session_tokens WHERE user_id = $1 AND token = $2
		)`

	var present bool
	if err := s.db.GetContext(ctx, &present, query, userID, token); err != nil {
		return false, mapError(err)
	}

	return present, nil
}

// Remove implements store.SessionStore.Remove. Removing an absent token is
// not an error; logout is idempotent.
func (s *SessionStore) Remove(ctx context.Context, userID uuid.UUID, token string) error {
	const query = `DELETE FROM session_tokens WHERE user_id = $1 AND token = $2`

	if _, err := s.db.ExecContext(ctx, query, userID, token); err != nil {
		return mapError(err)
	}

	return nil
}

// RemoveAll implements store.SessionStore.RemoveAll. Clearing an empty list
// is not an error.
func (s *SessionStore) RemoveAll(ctx context.Context, userID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM session_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return mapError(err)
	}

	if rows, err := result.RowsAffected(); err == nil {
		s.logger.Debug("revoked all session tokens",
			slog.String("user_id", userID.String()),
			slog.Int64("revoked", rows))
	}

	return nil
}
