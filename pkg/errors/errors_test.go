package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "validation", err: NewValidationError("invalid score"), expected: http.StatusBadRequest},
		{name: "authentication", err: NewAuthenticationError("invalid admin token"), expected: http.StatusUnauthorized},
		{name: "not found", err: NewNotFoundError("match not found"), expected: http.StatusNotFound},
		{name: "payload too large", err: NewPayloadTooLargeError("too big"), expected: http.StatusRequestEntityTooLarge},
		{name: "rate limited", err: NewTooManyRequestsError("too many requests"), expected: http.StatusTooManyRequests},
		{name: "internal", err: NewInternalError("store failure", stderrors.New("disk full")), expected: http.StatusInternalServerError},
		{name: "wrapped app error", err: fmt.Errorf("approve: %w", NewNotFoundError("suggestion not found")), expected: http.StatusNotFound},
		{name: "plain error", err: stderrors.New("boom"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusCode(tt.err))
		})
	}
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "invalid score", PublicMessage(NewValidationError("invalid score")))
	assert.Equal(t, "internal server error", PublicMessage(stderrors.New("connection refused")))
	assert.Equal(t, "failed to load matches", PublicMessage(NewInternalError("failed to load matches", stderrors.New("timeout"))))
}

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := NewInternalError("failed to save", cause)

	assert.Equal(t, "internal: failed to save (disk full)", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "not_found: match not found", NewNotFoundError("match not found").Error())
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("edit: %w", NewValidationError("invalid score"))

	assert.True(t, Is(err, ErrorTypeValidation))
	assert.False(t, Is(err, ErrorTypeNotFound))
	assert.False(t, Is(stderrors.New("plain"), ErrorTypeValidation))
}
