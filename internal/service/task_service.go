// Package service implements the validation and policy layer between the
// API handlers and the task store.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taskforge/task-api/internal/domain"
	"github.com/taskforge/task-api/internal/platform/logger"
	"github.com/taskforge/task-api/internal/store"
)

// Pagination policy applied to list requests.
const (
	// DefaultListLimit is used when a list request supplies no limit.
	DefaultListLimit = 100

	// MaxListLimit caps the page size to keep result sets bounded.
	MaxListLimit = 1000
)

// TaskService provides task-related operations.
type TaskService interface {
	// CreateTask validates the title and persists a new task.
	// Returns a domain.ErrValidation-wrapped error when the title is empty.
	CreateTask(ctx context.Context, title string, description *string) (*domain.Task, error)

	// GetTask retrieves a task by ID; not-found surfaces unchanged.
	GetTask(ctx context.Context, id int64) (*domain.Task, error)

	// ListTasks returns a pagination window of tasks ordered by ascending ID.
	// skip is clamped to >= 0 and limit to [0, MaxListLimit].
	ListTasks(ctx context.Context, skip, limit int) ([]*domain.Task, error)

	// UpdateTask merges only the supplied patch fields into the task.
	// A supplied-but-empty title is a validation error; unsupplied fields
	// keep their prior values.
	UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error)

	// DeleteTask permanently removes the task.
	DeleteTask(ctx context.Context, id int64) error

	// CountTasks returns the number of live tasks, for the metrics endpoint.
	CountTasks(ctx context.Context) (int64, error)
}

// taskService is the concrete TaskService backed by a store.TaskStore.
// It holds no durable state; tasks only pass through per request.
type taskService struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewTaskService creates a TaskService backed by the given store.
// If logger is nil, a default logger will be used.
func NewTaskService(taskStore store.TaskStore, log *slog.Logger) TaskService {
	if taskStore == nil {
		panic("taskStore cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &taskService{
		taskStore: taskStore,
		logger:    log.With(slog.String("component", "task_service")),
	}
}

// CreateTask implements TaskService.CreateTask
func (s *taskService) CreateTask(ctx context.Context, title string, description *string) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if strings.TrimSpace(title) == "" {
		log.Debug("create rejected: empty title")
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrEmptyTitle)
	}

	task, err := domain.NewTask(title, description)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if err := s.taskStore.Insert(ctx, task); err != nil {
		return nil, NewTaskServiceError("create", "failed to insert task", err)
	}

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.String("title", task.Title))
	return task, nil
}

// GetTask implements TaskService.GetTask
func (s *taskService) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, NewTaskServiceError("get", "failed to load task", err)
	}
	return task, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskService) ListTasks(ctx context.Context, skip, limit int) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	clampedSkip, clampedLimit := clampWindow(skip, limit)
	if clampedSkip != skip || clampedLimit != limit {
		log.Debug("pagination window clamped",
			slog.Int("requested_skip", skip),
			slog.Int("requested_limit", limit),
			slog.Int("skip", clampedSkip),
			slog.Int("limit", clampedLimit))
	}

	tasks, err := s.taskStore.List(ctx, clampedSkip, clampedLimit)
	if err != nil {
		return nil, NewTaskServiceError("list", "failed to list tasks", err)
	}
	return tasks, nil
}

// UpdateTask implements TaskService.UpdateTask
func (s *taskService) UpdateTask(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := patch.Validate(); err != nil {
		log.Debug("update rejected", slog.Int64("task_id", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	task, err := s.taskStore.Update(ctx, id, patch)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		return nil, NewTaskServiceError("update", "failed to update task", err)
	}

	log.Info("task updated", slog.Int64("task_id", id))
	return task, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskService) DeleteTask(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.taskStore.Delete(ctx, id); err != nil {
		if store.IsNotFoundError(err) {
			return err
		}
		return NewTaskServiceError("delete", "failed to delete task", err)
	}

	log.Info("task deleted", slog.Int64("task_id", id))
	return nil
}

// CountTasks implements TaskService.CountTasks
func (s *taskService) CountTasks(ctx context.Context) (int64, error) {
	count, err := s.taskStore.Count(ctx)
	if err != nil {
		return 0, NewTaskServiceError("count", "failed to count tasks", err)
	}
	return count, nil
}

// clampWindow bounds a (skip, limit) pair to the pagination policy:
// skip >= 0 and 0 <= limit <= MaxListLimit. A limit of zero stays zero,
// meaning an empty window rather than "unlimited".
func clampWindow(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return skip, limit
}
