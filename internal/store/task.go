package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskhive/taskhive/internal/domain"
)

// Task sort keys accepted by ListOptions.SortBy. They mirror the JSON field
// names used on the wire.
const (
	TaskSortCreatedAt   = "createdAt"
	TaskSortUpdatedAt   = "updatedAt"
	TaskSortDescription = "description"
	TaskSortCompleted   = "completed"
)

// ListOptions narrows and orders a task listing. The zero value imposes no
// constraint: all of the owner's tasks are returned in insertion order.
type ListOptions struct {
	// Completed filters by completion state when non-nil.
	Completed *bool

	// SortBy selects the sort key; empty means insertion order.
	// Must be one of the TaskSort* constants.
	SortBy string

	// SortDesc reverses the sort direction when SortBy is set.
	SortDesc bool

	// Limit caps the number of returned tasks; zero means no cap.
	Limit int

	// Skip offsets into the result set; zero means from the start.
	Skip int
}

// TaskStore defines the interface for task data persistence. Every read and
// write is scoped to an owner: a task belonging to another user behaves
// exactly like a task that does not exist.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by ID, scoped to the given owner.
	// Returns ErrTaskNotFound if no matching owned task exists.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)

	// List retrieves the owner's tasks narrowed by opts.
	List(ctx context.Context, ownerID uuid.UUID, opts ListOptions) ([]*domain.Task, error)

	// Update modifies an existing task's mutable fields, scoped to its owner.
	// Returns ErrTaskNotFound if no matching owned task exists.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by ID, scoped to the given owner, and returns the
	// deleted task. Returns ErrTaskNotFound if no matching owned task exists.
	Delete(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)
}
