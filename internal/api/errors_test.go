package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/taskforge/task-api/internal/domain"
	"github.com/taskforge/task-api/internal/metrics"
	"github.com/taskforge/task-api/internal/service"
	"github.com/taskforge/task-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "validation_error",
			err:  fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrEmptyTitle),
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "task_not_found",
			err:  store.ErrTaskNotFound,
			want: http.StatusNotFound,
		},
		{
			name: "wrapped_not_found",
			err:  service.NewTaskServiceError("get", "lookup failed", store.ErrTaskNotFound),
			want: http.StatusNotFound,
		},
		{
			name: "storage_unavailable",
			err:  store.ErrStorageUnavailable,
			want: http.StatusInternalServerError,
		},
		{
			name: "wrapped_storage_unavailable",
			err:  service.NewTaskServiceError("create", "insert failed", store.ErrStorageUnavailable),
			want: http.StatusInternalServerError,
		},
		{
			name: "unknown_error",
			err:  errors.New("something odd"),
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Task title cannot be empty",
		GetSafeErrorMessage(fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrEmptyTitle)))
	assert.Equal(t, "Task not found", GetSafeErrorMessage(store.ErrTaskNotFound))
	assert.Equal(t, "Storage backend unavailable", GetSafeErrorMessage(store.ErrStorageUnavailable))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))

	// Internal detail never leaks into the safe message
	leaky := errors.New("pq: password authentication failed for user")
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(leaky))
}

func TestOutcomeForStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   metrics.Outcome
	}{
		{status: http.StatusOK, want: metrics.OutcomeSuccess},
		{status: http.StatusCreated, want: metrics.OutcomeSuccess},
		{status: http.StatusNoContent, want: metrics.OutcomeSuccess},
		{status: http.StatusBadRequest, want: metrics.OutcomeValidation},
		{status: http.StatusNotFound, want: metrics.OutcomeNotFound},
		{status: http.StatusUnprocessableEntity, want: metrics.OutcomeValidation},
		{status: http.StatusInternalServerError, want: metrics.OutcomeInternal},
		{status: http.StatusServiceUnavailable, want: metrics.OutcomeStorage},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, OutcomeForStatus(tt.status), "status %d", tt.status)
	}
}
