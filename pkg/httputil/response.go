package httputil

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/verdantleaf/storefront/pkg/errors"
	"github.com/verdantleaf/storefront/pkg/logger"
	"github.com/verdantleaf/storefront/pkg/validator"
)

// Response is the JSON envelope every endpoint answers with: exactly one of
// Data or Error is set.
type Response struct {
	Data  any            `json:"data,omitempty"`
	Error *ErrorResponse `json:"error,omitempty"`
}

// ErrorResponse carries a machine-readable code alongside the human message.
type ErrorResponse struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// WriteJSON encodes v with the given status. Encoding failures after the
// header is sent cannot be reported, so they are dropped.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err onto the envelope. AppErrors keep their own code and
// message; bare sentinels get a generic body so internal detail does not
// leak. Errors that resolve to a 500 are logged with the request-scoped
// logger, falling back to the provided one.
func WriteError(w http.ResponseWriter, r *http.Request, err error, fallback *slog.Logger) {
	requestID := logger.CorrelationIDFromContext(r.Context())

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		WriteJSON(w, appErr.Status, Response{
			Error: &ErrorResponse{Code: appErr.Code, Message: appErr.Message, RequestID: requestID},
		})
		return
	}

	status := apperrors.HTTPStatus(err)
	code, message := classify(err)

	if status == http.StatusInternalServerError {
		l := logger.FromContext(r.Context())
		if l == slog.Default() {
			l = fallback
		}
		l.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
	}

	WriteJSON(w, status, Response{
		Error: &ErrorResponse{Code: code, Message: message, RequestID: requestID},
	})
}

func classify(err error) (code, message string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return "NOT_FOUND", "resource not found"
	case errors.Is(err, apperrors.ErrInvalidInput):
		return "INVALID_INPUT", err.Error()
	case errors.Is(err, apperrors.ErrServiceUnavail):
		return "SERVICE_UNAVAILABLE", "a downstream dependency is unavailable"
	default:
		return "INTERNAL_ERROR", "an internal error occurred"
	}
}

// WriteValidationError answers 400 with per-field messages when err comes
// from the validator package, or the raw message otherwise.
func WriteValidationError(w http.ResponseWriter, err error) {
	resp := &ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()}

	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		resp = &ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "request validation failed",
			Fields:  valErr.Fields(),
		}
	}

	WriteJSON(w, http.StatusBadRequest, Response{Error: resp})
}
