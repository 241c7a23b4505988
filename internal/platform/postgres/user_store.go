package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/service/auth"
	"github.com/taskhive/taskhive/internal/store"
)

// UserStore implements the store.UserStore interface using a PostgreSQL
// database as the storage backend. Password hashing happens here, on the way
// into the database, so a plaintext password is hashed exactly once per
// create or password change and stored hashes are never re-hashed.
type UserStore struct {
	db     *sqlx.DB
	hasher auth.PasswordHasher
	logger *slog.Logger
}

// NewUserStore creates a new PostgreSQL implementation of the UserStore
// interface. The database handle should be initialized and managed by the
// caller. If logger is nil, the default logger is used.
func NewUserStore(db *sqlx.DB, hasher auth.PasswordHasher, logger *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if hasher == nil {
		panic("hasher cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserStore{
		db:     db,
		hasher: hasher,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure UserStore implements store.UserStore interface
var _ store.UserStore = (*UserStore)(nil)

// userRow is the sqlx scan target for the users table.
type userRow struct {
	ID             uuid.UUID `db:"id"`
	Name           string    `db:"name"`
	Email          string    `db:"email"`
	HashedPassword string    `db:"hashed_password"`
	Age            int       `db:"age"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r *userRow) toDomain() *domain.User {
	return &domain.User{
		ID:             r.ID,
		Name:           r.Name,
		Email:          r.Email,
		HashedPassword: r.HashedPassword,
		Age:            r.Age,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// Create implements store.UserStore.Create
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	if user.Password == "" {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, domain.ErrEmptyPassword)
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = "" // plaintext is never persisted

	const query = `
		INSERT INTO users (id, name, email, hashed_password, age, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = s.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.HashedPassword, user.Age,
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrEmailExists
		}
		return mapError(err)
	}

	s.logger.Debug("created user", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `
		SELECT id, name, email, hashed_password, age, created_at, updated_at
		FROM users
		WHERE id = $1`

	var row userRow
	if err := s.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, mapError(err)
	}

	return row.toDomain(), nil
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
		SELECT id, name, email, hashed_password, age, created_at, updated_at
		FROM users
		WHERE email = $1`

	var row userRow
	if err := s.db.GetContext(ctx, &row, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, mapError(err)
	}

	return row.toDomain(), nil
}

// Update implements store.UserStore.Update
func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	// Re-hash only when a new plaintext password was provided; an unchanged
	// HashedPassword passes through untouched.
	if user.Password != "" {
		if err := domain.ValidatePassword(user.Password); err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
		hashed, err := s.hasher.Hash(user.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		user.HashedPassword = hashed
		user.Password = ""
	}

	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	user.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE users
		SET name = $2, email = $3, hashed_password = $4, age = $5, updated_at = $6
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.HashedPassword, user.Age, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrEmailExists
		}
		return mapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if rows == 0 {
		return store.ErrUserNotFound
	}

	return nil
}

// Delete implements store.UserStore.Delete. Session tokens and owned tasks go
// with the user via ON DELETE CASCADE.
func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if rows == 0 {
		return store.ErrUserNotFound
	}

	s.logger.Debug("deleted user", slog.String("user_id", id.String()))
	return nil
}

// UpdateAvatar implements store.UserStore.UpdateAvatar
func (s *UserStore) UpdateAvatar(ctx context.Context, id uuid.UUID, avatar []byte) error {
	const query = `
		UPDATE users
		SET avatar = $2, updated_at = $3
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id, avatar, time.Now().UTC())
	if err != nil {
		return mapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if rows == 0 {
		return store.ErrUserNotFound
	}

	return nil
}

// GetAvatar implements store.UserStore.GetAvatar
func (s *UserStore) GetAvatar(ctx context.Context, id uuid.UUID) ([]byte, error) {
	var avatar []byte
	err := s.db.GetContext(ctx, &avatar, `SELECT avatar FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		return nil, mapError(err)
	}

	if len(avatar) == 0 {
		return nil, store.ErrAvatarNotFound
	}

	return avatar, nil
}
