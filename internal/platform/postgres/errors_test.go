package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskforge/task-api/internal/store"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		target error
	}{
		{
			name:   "nil passes through",
			err:    nil,
			target: nil,
		},
		{
			name:   "no rows maps to task not found",
			err:    sql.ErrNoRows,
			target: store.ErrTaskNotFound,
		},
		{
			name:   "wrapped no rows maps to task not found",
			err:    fmt.Errorf("querying task: %w", sql.ErrNoRows),
			target: store.ErrTaskNotFound,
		},
		{
			name:   "deadline exceeded maps to storage unavailable",
			err:    context.DeadlineExceeded,
			target: store.ErrStorageUnavailable,
		},
		{
			name:   "connection class maps to storage unavailable",
			err:    &pgconn.PgError{Code: "08006", Message: "connection failure"},
			target: store.ErrStorageUnavailable,
		},
		{
			name:   "not null violation maps to storage unavailable",
			err:    &pgconn.PgError{Code: "23502", ColumnName: "title"},
			target: store.ErrStorageUnavailable,
		},
		{
			name:   "closed connection maps to storage unavailable",
			err:    sql.ErrConnDone,
			target: store.ErrStorageUnavailable,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mapped := MapError(tt.err)
			if tt.target == nil {
				assert.NoError(t, mapped)
				return
			}
			assert.ErrorIs(t, mapped, tt.target)
		})
	}
}

func TestMapErrorPreservesUnknownErrors(t *testing.T) {
	t.Parallel()

	original := errors.New("some unexpected failure")
	assert.Equal(t, original, MapError(original))
}

func TestMapErrorNotFoundIsAlsoGenericNotFound(t *testing.T) {
	t.Parallel()

	mapped := MapError(sql.ErrNoRows)
	assert.ErrorIs(t, mapped, store.ErrNotFound)
	assert.True(t, store.IsNotFoundError(mapped))
}

// fakeResult implements sql.Result for CheckRowsAffected tests.
type fakeResult struct {
	rows int64
	err  error
}

func (r fakeResult) LastInsertId() (int64, error) { return 0, nil }
func (r fakeResult) RowsAffected() (int64, error) { return r.rows, r.err }

func TestCheckRowsAffected(t *testing.T) {
	t.Parallel()

	t.Run("nil result", func(t *testing.T) {
		t.Parallel()
		require.Error(t, CheckRowsAffected(nil))
	})

	t.Run("zero rows is not found", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, CheckRowsAffected(fakeResult{rows: 0}), store.ErrTaskNotFound)
	})

	t.Run("one row is fine", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, CheckRowsAffected(fakeResult{rows: 1}))
	})

	t.Run("driver error is wrapped", func(t *testing.T) {
		t.Parallel()
		driverErr := errors.New("rows affected unsupported")
		err := CheckRowsAffected(fakeResult{err: driverErr})
		require.Error(t, err)
		assert.ErrorIs(t, err, driverErr)
	})
}
