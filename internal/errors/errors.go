package errors

import (
	"net/http"
)

// AppError is an application error carrying an HTTP status. Operational errors
// are anticipated domain failures whose message is safe to show the caller;
// anything else collapses to a generic 500 in production.
type AppError struct {
	StatusCode  int
	Message     string
	Operational bool
	Err         error
}

func (e *AppError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause, if any.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Status returns the response envelope status for the error: "fail" for client
// errors, "error" for server errors.
func (e *AppError) Status() string {
	if e.StatusCode >= http.StatusInternalServerError {
		return "error"
	}
	return "fail"
}

// New creates an operational application error.
func New(statusCode int, message string) *AppError {
	return &AppError{
		StatusCode:  statusCode,
		Message:     message,
		Operational: true,
	}
}

// Internal wraps an unexpected failure. Not operational: production callers see
// a generic message while the cause is logged.
func Internal(err error) *AppError {
	return &AppError{
		StatusCode:  http.StatusInternalServerError,
		Message:     "something went very wrong",
		Operational: false,
		Err:         err,
	}
}

// BadRequest creates a 400 operational error.
func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

// Unauthorized creates a 401 operational error.
func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message)
}

// Forbidden creates a 403 operational error.
func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message)
}

// NotFound creates a 404 operational error.
func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message)
}
