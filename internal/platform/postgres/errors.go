package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/taskforge/task-api/internal/store"
)

// PostgreSQL error codes
const (
	// notNullViolationCode is the PostgreSQL error code for not null violations
	notNullViolationCode = "23502"

	// connectionFailureClass is the prefix of the PostgreSQL error class for
	// connection exceptions (08xxx)
	connectionFailureClass = "08"
)

// MapError maps a database error to an appropriate store error.
// It wraps the original error to preserve context for debugging.
// All database operations should route their errors through this function
// so callers see a consistent taxonomy.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrTaskNotFound, err)
	}

	// A context deadline on a query means the bounded storage timeout fired:
	// surface it as unavailability, never as a hang.
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: query timed out: %v", store.ErrStorageUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == notNullViolationCode:
			return fmt.Errorf(
				"%w: not null violation (%s): %v",
				store.ErrStorageUnavailable,
				pgErr.ColumnName,
				err,
			)
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == connectionFailureClass:
			return fmt.Errorf("%w: %v", store.ErrStorageUnavailable, err)
		}
	}

	// Driver-level failures without a PgError (broken pool, closed conn)
	// also read as backend unavailability.
	if errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %v", store.ErrStorageUnavailable, err)
	}

	return err
}

// CheckRowsAffected examines the number of rows affected by a database
// operation. If no rows were affected, it returns store.ErrTaskNotFound:
// for UPDATE and DELETE, an absent row is the only way to affect zero rows.
func CheckRowsAffected(result sql.Result) error {
	if result == nil {
		return fmt.Errorf("nil result provided to CheckRowsAffected")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return store.ErrTaskNotFound
	}

	return nil
}
