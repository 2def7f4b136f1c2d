package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taskforge/task-api/internal/domain"
	"github.com/taskforge/task-api/internal/platform/logger"
	"github.com/taskforge/task-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db           *sql.DB
	logger       *slog.Logger
	queryTimeout time.Duration
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection that should be
// initialized and managed by the caller. Every operation runs under
// queryTimeout; an expired deadline surfaces as store.ErrStorageUnavailable.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db *sql.DB, log *slog.Logger, queryTimeout time.Duration) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	if queryTimeout <= 0 {
		queryTimeout = 5 * time.Second
	}

	return &PostgresTaskStore{
		db:           db,
		logger:       log.With(slog.String("component", "task_store")),
		queryTimeout: queryTimeout,
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// withTimeout bounds a store operation so no call can block indefinitely.
func (s *PostgresTaskStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.queryTimeout)
}

const taskColumns = "id, title, description, completed, created_at, updated_at"

// getTask reads a single task through q, which is either the pooled
// *sql.DB or the *sql.Tx of an in-flight update. forUpdate adds a row
// lock and is only valid inside a transaction.
func getTask(ctx context.Context, q store.DBTX, id int64, forUpdate bool) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var task domain.Task
	err := q.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, asStoreError(err)
	}

	return &task, nil
}

// asStoreError routes every database failure through MapError and folds
// anything that is neither "not found" nor already a storage error into
// store.ErrStorageUnavailable, keeping the taxonomy closed.
func asStoreError(err error) error {
	mapped := MapError(err)
	if mapped == nil || store.IsNotFoundError(mapped) || store.IsStorageError(mapped) {
		return mapped
	}
	return fmt.Errorf("%w: %v", store.ErrStorageUnavailable, mapped)
}

// Insert implements store.TaskStore.Insert
// The tasks table assigns the ID from a sequence and both timestamps from
// the transaction clock, so created_at equals updated_at on creation.
func (s *PostgresTaskStore) Insert(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO tasks (title, description, completed)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		task.Title,
		task.Description,
		task.Completed,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		log.Error("failed to insert task",
			slog.String("error", err.Error()),
			slog.String("title", task.Title))
		return store.NewStoreError("task", "insert", "insert failed", asStoreError(err))
	}

	log.Debug("task inserted",
		slog.Int64("task_id", task.ID))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound if no record with that ID exists.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	task, err := getTask(ctx, s.db, id, false)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, err
	}

	return task, nil
}

// List implements store.TaskStore.List
// Results are ordered by ascending ID so the window is a contiguous slice
// of the insertion order. A non-positive limit returns an empty slice
// without touching the database.
func (s *PostgresTaskStore) List(ctx context.Context, skip, limit int) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		return []*domain.Task{}, nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, title, description, completed, created_at, updated_at
		FROM tasks
		ORDER BY id ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := s.db.QueryContext(ctx, query, limit, skip)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.Int("skip", skip),
			slog.Int("limit", limit))
		return nil, asStoreError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	tasks := []*domain.Task{}
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Completed,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, asStoreError(err)
		}
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		log.Error("row iteration failed", slog.String("error", err.Error()))
		return nil, asStoreError(err)
	}

	return tasks, nil
}

// Update implements store.TaskStore.Update
// The read-merge-write runs inside a transaction with the row locked, so a
// failed update never applies a subset of fields. Concurrent updates on the
// same ID serialize on the row lock; the last commit wins.
func (s *PostgresTaskStore) Update(ctx context.Context, id int64, patch domain.TaskPatch) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var updated *domain.Task
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		current, err := getTask(ctx, tx, id, true)
		if err != nil {
			return err
		}

		updated = current
		patch.Apply(updated)

		updateQuery := `
			UPDATE tasks
			SET title = $1, description = $2, completed = $3, updated_at = NOW()
			WHERE id = $4
			RETURNING updated_at
		`
		if err := tx.QueryRowContext(ctx, updateQuery,
			updated.Title,
			updated.Description,
			updated.Completed,
			id,
		).Scan(&updated.UpdatedAt); err != nil {
			return asStoreError(err)
		}

		return nil
	})

	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("task not found for update", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, asStoreError(err)
	}

	log.Debug("task updated", slog.Int64("task_id", id))
	return updated, nil
}

// Delete implements store.TaskStore.Delete
// IDs come from a sequence that never rewinds, so a deleted ID stays
// permanently invalid; repeating the delete reports ErrTaskNotFound.
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return asStoreError(err)
	}

	if err := CheckRowsAffected(result); err != nil {
		log.Debug("task not found for delete", slog.Int64("task_id", id))
		return err
	}

	log.Debug("task deleted", slog.Int64("task_id", id))
	return nil
}

// Count implements store.TaskStore.Count
func (s *PostgresTaskStore) Count(ctx context.Context) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&count); err != nil {
		log.Error("failed to count tasks", slog.String("error", err.Error()))
		return 0, asStoreError(err)
	}

	return count, nil
}

// Ping implements store.TaskStore.Ping
// A lightweight connectivity probe that never touches task data.
func (s *PostgresTaskStore) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", store.ErrStorageUnavailable, err)
	}
	return nil
}
