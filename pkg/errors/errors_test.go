package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors_SentinelMatching(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		sentinel error
		status   int
	}{
		{"not found", NotFound("cart", "user-1"), ErrNotFound, http.StatusNotFound},
		{"invalid input", InvalidInput("bad"), ErrInvalidInput, http.StatusBadRequest},
		{"unauthorized", Unauthorized("no"), ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("no"), ErrForbidden, http.StatusForbidden},
		{"conflict", Conflict("dup"), ErrConflict, http.StatusConflict},
		{"gone", Gone("expired"), ErrGone, http.StatusGone},
		{"service unavailable", ServiceUnavailable("down"), ErrServiceUnavail, http.StatusServiceUnavailable},
		{"order rejected", OrderRejected("declined"), ErrOrderRejected, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.Equal(t, tt.status, tt.err.Status)
			assert.NotEmpty(t, tt.err.Code)
		})
	}
}

func TestAppError_ErrorString(t *testing.T) {
	err := InvalidInput("price must not be negative")
	assert.Contains(t, err.Error(), "INVALID_INPUT")
	assert.Contains(t, err.Error(), "price must not be negative")
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("cart", "u")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(ErrInvalidInput))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(fmt.Errorf("outer: %w", ErrNotFound)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain error")))
}

func TestWrap_PreservesChain(t *testing.T) {
	wrapped := Wrap(NotFound("cart", "user-1"), "load cart")
	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.Contains(t, wrapped.Error(), "load cart")
}

func TestInternal_WrapsCause(t *testing.T) {
	cause := errors.New("redis: connection refused")
	err := Internal(cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
}
