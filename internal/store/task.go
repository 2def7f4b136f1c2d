package store

import (
	"context"

	"github.com/taskforge/task-api/internal/domain"
)

// TaskStore defines the persistence contract for Task entities.
// Implementations own identity assignment and both timestamps.
type TaskStore interface {
	// Insert persists a new task, assigning the next ID and setting both
	// timestamps. The passed task is filled in place with the stored values.
	// Fails only when the backend is unavailable.
	Insert(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if no live record with that ID exists.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// List returns up to limit tasks ordered by ascending ID, skipping the
	// first skip records. limit = 0 returns an empty slice (not "unlimited");
	// a skip beyond the end returns an empty slice. Out-of-range skip/limit
	// never produce an error.
	List(ctx context.Context, skip, limit int) ([]*domain.Task, error)

	// Update merges only the supplied patch fields into the existing record,
	// refreshes updated_at, and returns the updated task.
	// Returns ErrTaskNotFound if no such ID. A failed update changes nothing.
	Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error)

	// Delete permanently removes the task with the given ID.
	// Returns ErrTaskNotFound if no such ID; a second delete of the same ID
	// reports ErrTaskNotFound again, never a different error.
	Delete(ctx context.Context, id int64) error

	// Count returns the number of live tasks.
	Count(ctx context.Context) (int64, error)

	// Ping is a lightweight connectivity probe independent of task data.
	Ping(ctx context.Context) error
}
