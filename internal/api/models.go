package api

import (
	"time"

	"github.com/taskforge/task-api/internal/domain"
	"github.com/taskforge/task-api/internal/metrics"
)

// Common request/response structures

// CreateTaskRequest defines the payload for the task creation endpoint.
type CreateTaskRequest struct {
	Title       string  `json:"title"       validate:"required,min=1"`
	Description *string `json:"description" validate:"omitempty"`
}

// UpdateTaskRequest defines the payload for the partial-update endpoint.
// Absent fields are left unchanged; there is no convention for clearing a
// field, so an explicit empty description sets the empty string.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// Patch converts the request into the domain's partial-update carrier.
func (r UpdateTaskRequest) Patch() domain.TaskPatch {
	return domain.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
	}
}

// TaskResponse represents the response data for a task.
type TaskResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// taskToResponse converts a domain.Task to a TaskResponse.
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// MetricsResponse is the payload of the metrics endpoint: the collector
// snapshot plus the current number of stored tasks.
type MetricsResponse struct {
	metrics.Snapshot

	TotalTasks    int64  `json:"total_tasks"`
	ServiceStatus string `json:"service_status"`
}
