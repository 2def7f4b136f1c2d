package domain

import (
	"errors"
	"strings"
	"time"
)

// Task-specific validation errors
var (
	ErrEmptyTitle       = errors.New("task title cannot be empty")
	ErrInvalidTaskID    = errors.New("task ID must be positive")
	ErrTimestampsSkewed = errors.New("task updated_at cannot precede created_at")
)

// Task represents a single unit of work tracked by the service.
// The ID is assigned by the store on creation and is immutable and
// monotonically increasing; IDs are never reused after deletion.
type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"` // nil means absent, distinct from ""
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a new Task with the given title and optional description.
// The ID and timestamps are zero; the store assigns them on insert.
// Returns an error if validation fails.
func NewTask(title string, description *string) (*Task, error) {
	task := &Task{
		Title:       title,
		Description: description,
		Completed:   false,
	}

	if strings.TrimSpace(task.Title) == "" {
		return nil, ErrEmptyTitle
	}

	return task, nil
}

// Validate checks the Task's invariants for a persisted task.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID <= 0 {
		return ErrInvalidTaskID
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}

	if !t.CreatedAt.IsZero() && !t.UpdatedAt.IsZero() && t.UpdatedAt.Before(t.CreatedAt) {
		return ErrTimestampsSkewed
	}

	return nil
}

// TaskPatch carries the fields of a partial update. A nil field means
// "leave unchanged"; there is no sentinel for clearing a value.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// IsEmpty reports whether the patch supplies no fields at all.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

// Validate checks the supplied fields of the patch.
// A supplied title must not be empty; unsupplied fields are not inspected.
func (p TaskPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return ErrEmptyTitle
	}
	return nil
}

// Apply merges the patch into the task, changing only supplied fields.
// The caller is responsible for refreshing UpdatedAt after a successful merge.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}
