package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"faturas/internal/core/apperror"
)

// PostgreSQL error codes classified by MapError.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgQueryCanceled        = "57014"
)

// MapError converts driver errors into the platform taxonomy. Repos
// call it on every write so callers never see raw SQLSTATE codes: a
// unique violation becomes a conflict carrying the violated constraint
// name, a foreign key violation becomes an integrity error.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NewNotFound("record", nil)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &apperror.AppError{
			Code:       apperror.CodeTimeout,
			Message:    "database operation timed out",
			HTTPStatus: 504,
			Err:        err,
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperror.NewConflict("record violates a uniqueness constraint").
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		case pgForeignKeyViolation:
			return apperror.NewIntegrity("operation blocked by dependent rows").
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		case pgSerializationFailure, pgDeadlockDetected:
			return apperror.NewConflict("concurrent modification, retry the operation").
				WithCause(err)
		case pgQueryCanceled:
			return &apperror.AppError{
				Code:       apperror.CodeTimeout,
				Message:    "query canceled by statement timeout",
				HTTPStatus: 504,
				Err:        err,
			}
		}
	}

	return &apperror.AppError{
		Code:       apperror.CodeDatabase,
		Message:    "database error",
		HTTPStatus: 500,
		Err:        err,
	}
}

// IsUniqueViolation reports whether err is a unique constraint failure,
// optionally on a specific constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
