package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/platform/postgres"
	"github.com/taskhive/taskhive/internal/store"
)

func taskColumns() []string {
	return []string{"id", "description", "completed", "owner_id", "created_at", "updated_at"}
}

func newTestTask(t *testing.T, ownerID uuid.UUID) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(ownerID, "buy milk", false)
	require.NoError(t, err)
	return task
}

func TestTaskStoreCreate(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	s := postgres.NewTaskStore(db, nil)
	task := newTestTask(t, uuid.New())

	mock.ExpectExec("INSERT INTO tasks").
		WithArgs(task.ID, "buy milk", false, task.OwnerID, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Create(context.Background(), task))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskStoreGetByID(t *testing.T) {
	t.Parallel()

	t.Run("scopes the lookup to the owner", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		s := postgres.NewTaskStore(db, nil)
		ownerID := uuid.New()
		taskID := uuid.New()
		now := time.Now().UTC()

		mock.ExpectQuery("SELECT (.+) FROM tasks").
			WithArgs(taskID, ownerID).
			WillReturnRows(sqlmock.NewRows(taskColumns()).
				AddRow(taskID, "buy milk", false, ownerID, now, now))

		task, err := s.GetByID(context.Background(), ownerID, taskID)
		require.NoError(t, err)
		assert.Equal(t, taskID, task.ID)
		assert.Equal(t, ownerID, task.OwnerID)
	})

	t.Run("no row maps to ErrTaskNotFound", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		s := postgres.NewTaskStore(db, nil)

		mock.ExpectQuery("SELECT (.+) FROM tasks").
			WillReturnError(sql.ErrNoRows)

		_, err := s.GetByID(context.Background(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskStoreList(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	now := time.Now().UTC()

	rowsFor := func(descriptions ...string) *sqlmock.Rows {
		rows := sqlmock.NewRows(taskColumns())
		for _, d := range descriptions {
			rows.AddRow(uuid.New(), d, false, ownerID, now, now)
		}
		return rows
	}

	t.Run("no options uses insertion order", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		s := postgres.NewTaskStore(db, nil)

		mock.ExpectQuery(`SELECT (.+) FROM tasks WHERE owner_id = \$1 ORDER BY created_at ASC, id ASC`).
			WithArgs(ownerID).
			WillReturnRows(rowsFor("first", "second"))

		tasks, err := s.List(context.Background(), ownerID, store.ListOptions{})
		require.NoError(t, err)
		assert.Len(t, tasks, 2)
	})

	t.Run("completed filter adds a predicate", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		s := postgres.NewTaskStore(db, nil)
		completed := true

		mock.ExpectQuery(`SELECT (.+) FROM tasks WHERE owner_id = \$1 AND completed = \$2`).
			WithArgs(ownerID, true).
			WillReturnRows(rowsFor("done"))

		tasks, err := s.List(context.Background(), ownerID, store.ListOptions{Completed: &completed})
		require.NoError(t, err)
		assert.Len(t, tasks, 1)
	})

	t.Run("descending sort by wire key", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		s := postgres.NewTaskStore(db, nil)

		mock.ExpectQuery(`SELECT (.+) FROM tasks WHERE owner_id = \$1 ORDER BY created_at DESC, id ASC`).
			WithArgs(ownerID).
			WillReturnRows(rowsFor("newest", "oldest"))

		tasks, err := s.List(context.Background(), ownerID, store.ListOptions{
			SortBy:   store.TaskSortCreatedAt,
			SortDesc: true,
		})
		require.NoError(t, err)
		assert.Len(t, tasks, 2)
	})

	t.Run("limit and skip paginate", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		s := postgres.NewTaskStore(db, nil)

		mock.ExpectQuery(`SELECT (.+) FROM tasks WHERE owner_id = \$1 ORDER BY created_at ASC, id ASC LIMIT 2 OFFSET 4`).
			WithArgs(ownerID).
			WillReturnRows(rowsFor("page item"))

		tasks, err := s.List(context.Background(), ownerID, store.ListOptions{Limit: 2, Skip: 4})
		require.NoError(t, err)
		assert.Len(t, tasks, 1)
	})

	t.Run("unsupported sort key rejected before querying", func(t *testing.T) {
		t.Parallel()

		db, _ := newMockDB(t)
		s := postgres.NewTaskStore(db, nil)

		_, err := s.List(context.Background(), ownerID, store.ListOptions{SortBy: "owner_id"})
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})

	t.Run("empty result is an empty slice", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		s := postgres.NewTaskStore(db, nil)

		mock.ExpectQuery(`SELECT (.+) FROM tasks`).
			WillReturnRows(sqlmock.NewRows(taskColumns()))

		tasks, err := s.List(context.Background(), ownerID, store.ListOptions{})
		require.NoError(t, err)
		assert.NotNil(t, tasks)
		assert.Empty(t, tasks)
	})
}

func TestTaskStoreUpdate(t *testing.T) {
	t.Parallel()

	t.Run("updates within the owner scope", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		s := postgres.NewTaskStore(db, nil)
		task := newTestTask(t, uuid.New())
		task.Completed = true

		mock.ExpectExec("UPDATE tasks").
			WithArgs(task.ID, task.OwnerID, "buy milk", true, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.Update(context.Background(), task))
	})

	t.Run("no matching row maps to ErrTaskNotFound", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		s := postgres.NewTaskStore(db, nil)
		task := newTestTask(t, uuid.New())

		mock.ExpectExec("UPDATE tasks").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.Update(context.Background(), task)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskStoreDelete(t *testing.T) {
	t.Parallel()

	t.Run("returns the deleted task", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		s := postgres.NewTaskStore(db, nil)
		ownerID := uuid.New()
		taskID := uuid.New()
		now := time.Now().UTC()

		mock.ExpectQuery("DELETE FROM tasks").
			WithArgs(taskID, ownerID).
			WillReturnRows(sqlmock.NewRows(taskColumns()).
				AddRow(taskID, "buy milk", true, ownerID, now, now))

		task, err := s.Delete(context.Background(), ownerID, taskID)
		require.NoError(t, err)
		assert.Equal(t, taskID, task.ID)
		assert.Equal(t, "buy milk", task.Description)
	})

	t.Run("no row maps to ErrTaskNotFound", func(t *testing.T) {
		t.Parallel()

		db, mock := newMockDB(t)
		s := postgres.NewTaskStore(db, nil)

		mock.ExpectQuery("DELETE FROM tasks").
			WillReturnError(sql.ErrNoRows)

		_, err := s.Delete(context.Background(), uuid.New(), uuid.New())
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}
