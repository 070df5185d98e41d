package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelStatuses(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, ErrInvalidInput.Status)
	assert.Equal(t, http.StatusUnauthorized, ErrUnauthorized.Status)
	assert.Equal(t, http.StatusForbidden, ErrForbidden.Status)
	assert.Equal(t, http.StatusNotFound, ErrNotFound.Status)
	assert.Equal(t, http.StatusInternalServerError, ErrInternal.Status)
}

func TestConflictIsBadRequest(t *testing.T) {
	err := Conflict("Friend request already exists")

	assert.Equal(t, "CONFLICT", err.Code)
	assert.Equal(t, http.StatusBadRequest, err.Status)
}

func TestErrorString(t *testing.T) {
	err := NewAPIError("MISSING_PARAMETER", "from is required", http.StatusBadRequest)

	assert.Equal(t, "MISSING_PARAMETER: from is required", err.Error())
}

func TestNewAPIErrorDetails(t *testing.T) {
	err := NewAPIError("SERVER_ERROR", "Server error", http.StatusInternalServerError, "dial tcp: refused")

	assert.Equal(t, "dial tcp: refused", err.Details)
}

func TestWrapPassesThroughAPIErrors(t *testing.T) {
	original := NotFound("User not found")

	wrapped := Wrap(original, "SERVER_ERROR", "Server error", http.StatusInternalServerError)

	assert.Same(t, original, wrapped)
}

func TestWrapConvertsPlainErrors(t *testing.T) {
	wrapped := Wrap(assert.AnError, "DB_ERROR", "Server error", http.StatusInternalServerError)

	assert.Equal(t, "DB_ERROR", wrapped.Code)
	assert.Equal(t, http.StatusInternalServerError, wrapped.Status)
	assert.Equal(t, assert.AnError.Error(), wrapped.Details)
}
