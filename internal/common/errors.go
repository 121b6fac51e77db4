package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound       = errors.New("requested resource not found")
	ErrUnauthorized   = errors.New("unauthorized access")
	ErrForbidden      = errors.New("forbidden access")
	ErrBadRequest     = errors.New("bad request")
	ErrConflict       = errors.New("resource conflict") // e.g., assignment slug already exists
	ErrInternalServer = errors.New("internal server error")

	// ErrQueryRejected marks a submitted query that the sandbox refused to
	// run at all: not a plain SELECT, multiple statements, or a result
	// past the row cap.
	ErrQueryRejected = errors.New("query rejected")

	// ErrQueryExecution marks a query the database itself refused or
	// failed to execute. The engine's message is surfaced verbatim so the
	// student can see what went wrong; grading does not proceed.
	ErrQueryExecution = errors.New("query execution failed")

	// ErrGradeNotSaved marks a submission whose score was computed but
	// could not be persisted.
	ErrGradeNotSaved = errors.New("grade not saved")
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrQueryRejected) || errors.Is(err, ErrQueryExecution) {
		return http.StatusUnprocessableEntity
	}

	// Check for pgx specific errors (example for unique constraint)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" { // Unique violation
			return http.StatusConflict
		}
	}

	return http.StatusInternalServerError
}

// Errorf creates a new error with formatting, useful for wrapping.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
