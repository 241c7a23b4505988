package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/store"
)

// TaskStore implements the store.TaskStore interface using a PostgreSQL
// database as the storage backend. Every query carries an owner_id predicate
// so a task owned by someone else is indistinguishable from a missing one.
type TaskStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewTaskStore creates a new PostgreSQL implementation of the TaskStore
// interface. If logger is nil, the default logger is used.
func NewTaskStore(db *sqlx.DB, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// sortColumns maps the wire-level sort keys to table columns. Keys outside
// this map are rejected before they reach the query builder.
var sortColumns = map[string]string{
	store.TaskSortCreatedAt:   "created_at",
	store.TaskSortUpdatedAt:   "updated_at",
	store.TaskSortDescription: "description",
	store.TaskSortCompleted:   "completed",
}

// taskRow is the sqlx scan target for the tasks table.
type taskRow struct {
	ID          uuid.UUID `db:"id"`
	Description string    `db:"description"`
	Completed   bool      `db:"completed"`
	OwnerID     uuid.UUID `db:"owner_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *taskRow) toDomain() *domain.Task {
	return &domain.Task{
		ID:          r.ID,
		Description: r.Description,
		Completed:   r.Completed,
		OwnerID:     r.OwnerID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// Create implements store.TaskStore.Create
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	const query = `
		INSERT INTO tasks (id, description, completed, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.db.ExecContext(ctx, query,
		task.ID, task.Description, task.Completed, task.OwnerID,
		task.CreatedAt, task.UpdatedAt)
	if err != nil {
		return mapError(err)
	}

	s.logger.Debug("created task",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", task.OwnerID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *TaskStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	const query = `
		SELECT id, description, completed, owner_id, created_at, updated_at
		FROM tasks
		WHERE id = $1 AND owner_id = $2`

	var row taskRow
	if err := s.db.GetContext(ctx, &row, query, id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, mapError(err)
	}

	return row.toDomain(), nil
}

// List implements store.TaskStore.List. The dynamic combination of filter,
// sort, and pagination is assembled with squirrel; absent options impose no
// constraint, leaving the owner's tasks in insertion order.
func (s *TaskStore) List(ctx context.Context, ownerID uuid.UUID, opts store.ListOptions) ([]*domain.Task, error) {
	builder := sq.Select("id", "description", "completed", "owner_id", "created_at", "updated_at").
		From("tasks").
		Where(sq.Eq{"owner_id": ownerID}).
		PlaceholderFormat(sq.Dollar)

	if opts.Completed != nil {
		builder = builder.Where(sq.Eq{"completed": *opts.Completed})
	}

	if opts.SortBy != "" {
		column, ok := sortColumns[opts.SortBy]
		if !ok {
			return nil, fmt.Errorf("%w: unsupported sort key %q", store.ErrInvalidEntity, opts.SortBy)
		}
		direction := "ASC"
		if opts.SortDesc {
			direction = "DESC"
		}
		builder = builder.OrderBy(column+" "+direction, "id ASC")
	} else {
		// Insertion order; id breaks ties between equal timestamps.
		builder = builder.OrderBy("created_at ASC", "id ASC")
	}

	if opts.Limit > 0 {
		builder = builder.Limit(uint64(opts.Limit))
	}
	if opts.Skip > 0 {
		builder = builder.Offset(uint64(opts.Skip))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build task list query: %w", err)
	}

	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, mapError(err)
	}

	tasks := make([]*domain.Task, 0, len(rows))
	for i := range rows {
		tasks = append(tasks, rows[i].toDomain())
	}

	return tasks, nil
}

// Update implements store.TaskStore.Update
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	task.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE tasks
		SET description = $3, completed = $4, updated_at = $5
		WHERE id = $1 AND owner_id = $2`

	result, err := s.db.ExecContext(ctx, query,
		task.ID, task.OwnerID, task.Description, task.Completed, task.UpdatedAt)
	if err != nil {
		return mapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return mapError(err)
	}
	if rows == 0 {
		return store.ErrTaskNotFound
	}

	return nil
}

// Delete implements store.TaskStore.Delete
func (s *TaskStore) Delete(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	const query = `
		DELETE FROM tasks
		WHERE id = $1 AND owner_id = $2
		RETURNING id, description, completed, owner_id, created_at, updated_at`

	var row taskRow
	if err := s.db.GetContext(ctx, &row, query, id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, mapError(err)
	}

	s.logger.Debug("deleted task",
		slog.String("task_id", id.String()),
		slog.String("owner_id", ownerID.String()))
	return row.toDomain(), nil
}
