package api

import (
	"errors"
	"net/http"

	"github.com/taskforge/task-api/internal/domain"
	"github.com/taskforge/task-api/internal/metrics"
	"github.com/taskforge/task-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Caller input violates a field constraint
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity

	// Referenced ID has no live record
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Persistence backend unreachable or timed out
	case store.IsStorageError(err):
		return http.StatusInternalServerError

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, domain.ErrEmptyTitle):
		return "Task title cannot be empty"

	case errors.Is(err, domain.ErrValidation):
		return "Invalid task data"

	case store.IsNotFoundError(err):
		return "Task not found"

	case store.IsStorageError(err):
		return "Storage backend unavailable"

	default:
		return "An unexpected error occurred"
	}
}

// OutcomeForStatus classifies a resolved response status for metrics
// accounting. Every request records exactly one outcome.
func OutcomeForStatus(status int) metrics.Outcome {
	switch {
	case status < http.StatusBadRequest:
		return metrics.OutcomeSuccess
	case status == http.StatusNotFound:
		return metrics.OutcomeNotFound
	case status == http.StatusUnprocessableEntity:
		return metrics.OutcomeValidation
	case status == http.StatusServiceUnavailable:
		return metrics.OutcomeStorage
	case status < http.StatusInternalServerError:
		return metrics.OutcomeValidation
	default:
		return metrics.OutcomeInternal
	}
}
