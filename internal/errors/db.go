package errors

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// MapDBError maps database errors from the local storage tables to AppError instances.
// - sql.ErrNoRows → NotFound
// - Context timeouts/cancellations → Timeout/Canceled
// - Missing schema → Storage (migrations not applied)
// - Oversized values → Validation
// - Connection failures and anything else from Postgres → Storage
//
// If the error is not a recognized database error, it returns the original error.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{Code: ErrCodeTimeout, Message: "Request timed out. Please try again.", Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{Code: ErrCodeCanceled, Message: "Request was canceled.", Cause: err}
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &AppError{Code: ErrCodeNotFound, Message: "Item not found", Cause: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return mapPgError(pgErr)
	}

	return err
}

func mapPgError(pgErr *pgconn.PgError) error {
	switch {
	case pgErr.Code == pgerrcode.UndefinedTable:
		return &AppError{
			Code:    ErrCodeStorage,
			Message: "Local storage table is missing. Run migrations.",
			Cause:   pgErr,
		}
	case pgErr.Code == pgerrcode.StringDataRightTruncationDataException,
		pgErr.Code == pgerrcode.ProgramLimitExceeded:
		return &AppError{
			Code:    ErrCodeValidation,
			Message: "Value is too large to store.",
			Field:   pgErr.ColumnName,
			Cause:   pgErr,
		}
	case pgerrcode.IsConnectionException(pgErr.Code):
		return &AppError{
			Code:    ErrCodeStorage,
			Message: "Local storage is unavailable. Please try again.",
			Cause:   pgErr,
		}
	default:
		return &AppError{
			Code:    ErrCodeStorage,
			Message: "A database error occurred. Please try again.",
			Cause:   pgErr,
		}
	}
}
