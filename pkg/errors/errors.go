package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels usable with errors.Is regardless of how callers wrapped them.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrGone           = errors.New("gone")
	ErrInternal       = errors.New("internal error")
	ErrServiceUnavail = errors.New("service unavailable")
	ErrOrderRejected  = errors.New("order rejected")
)

// AppError pairs a stable error code and message with the HTTP status the
// handler layer should answer with. Err holds the matching sentinel (or the
// wrapped cause for internal errors) so errors.Is keeps working.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func newError(code string, status int, sentinel error, message string) *AppError {
	return &AppError{Code: code, Message: message, Status: status, Err: sentinel}
}

// NotFound builds a 404 for a missing resource identified by id.
func NotFound(resource, id string) *AppError {
	return newError("NOT_FOUND", http.StatusNotFound, ErrNotFound,
		fmt.Sprintf("%s with id %s not found", resource, id))
}

// InvalidInput builds a 400.
func InvalidInput(message string) *AppError {
	return newError("INVALID_INPUT", http.StatusBadRequest, ErrInvalidInput, message)
}

// Unauthorized builds a 401.
func Unauthorized(message string) *AppError {
	return newError("UNAUTHORIZED", http.StatusUnauthorized, ErrUnauthorized, message)
}

// Forbidden builds a 403.
func Forbidden(message string) *AppError {
	return newError("FORBIDDEN", http.StatusForbidden, ErrForbidden, message)
}

// Conflict builds a 409.
func Conflict(message string) *AppError {
	return newError("CONFLICT", http.StatusConflict, ErrConflict, message)
}

// Gone builds a 410 for resources that existed but expired.
func Gone(message string) *AppError {
	return newError("GONE", http.StatusGone, ErrGone, message)
}

// ServiceUnavailable builds a 503.
func ServiceUnavailable(message string) *AppError {
	return newError("SERVICE_UNAVAILABLE", http.StatusServiceUnavailable, ErrServiceUnavail, message)
}

// OrderRejected builds a 422 for an order submission the order service
// refused to accept.
func OrderRejected(message string) *AppError {
	return newError("ORDER_REJECTED", http.StatusUnprocessableEntity, ErrOrderRejected, message)
}

// Internal builds a 500 that wraps the underlying cause without exposing it
// in the client-facing message.
func Internal(err error) *AppError {
	return newError("INTERNAL_ERROR", http.StatusInternalServerError, err, "an internal error occurred")
}

// Wrap adds context while keeping the error chain intact.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

var statusBySentinel = []struct {
	sentinel error
	status   int
}{
	{ErrNotFound, http.StatusNotFound},
	{ErrInvalidInput, http.StatusBadRequest},
	{ErrUnauthorized, http.StatusUnauthorized},
	{ErrForbidden, http.StatusForbidden},
	{ErrConflict, http.StatusConflict},
	{ErrGone, http.StatusGone},
	{ErrOrderRejected, http.StatusUnprocessableEntity},
	{ErrServiceUnavail, http.StatusServiceUnavailable},
}

// HTTPStatus resolves err to a response status, defaulting to 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	for _, m := range statusBySentinel {
		if errors.Is(err, m.sentinel) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}
