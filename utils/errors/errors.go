package errors

import (
	"fmt"
	"net/http"
)

// APIError represents a custom error type for API responses
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Details string `json:"details,omitempty"`
}

// Error returns the error message
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code, message string, status int, details ...string) *APIError {
	err := &APIError{
		Code:    code,
		Message: message,
		Status:  status,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

var (
	ErrInvalidInput = NewAPIError("INVALID_INPUT", "Invalid request data", http.StatusBadRequest)
	ErrUnauthorized = NewAPIError("UNAUTHORIZED", "User not authenticated", http.StatusUnauthorized)
	ErrForbidden    = NewAPIError("FORBIDDEN", "You are not authorized to perform this action", http.StatusForbidden)
	ErrNotFound     = NewAPIError("NOT_FOUND", "Resource not found", http.StatusNotFound)
	ErrInternal     = NewAPIError("SERVER_ERROR", "Server error", http.StatusInternalServerError)
)

// MissingParameter reports a required query or body parameter that was not sent.
func MissingParameter(message string) *APIError {
	return NewAPIError("MISSING_PARAMETER", message, http.StatusBadRequest)
}

// InvalidDate reports an unparseable date input.
func InvalidDate(message string) *APIError {
	return NewAPIError("INVALID_DATE", message, http.StatusBadRequest)
}

// Conflict reports an already-exists condition. Rendered as 400, matching the
// duplicate friend request behavior of the API.
func Conflict(message string) *APIError {
	return NewAPIError("CONFLICT", message, http.StatusBadRequest)
}

// NotFound reports a missing resource with a caller-supplied message.
func NotFound(message string) *APIError {
	return NewAPIError("NOT_FOUND", message, http.StatusNotFound)
}

// Forbidden reports an authorization failure with a caller-supplied message.
func Forbidden(message string) *APIError {
	return NewAPIError("FORBIDDEN", message, http.StatusForbidden)
}

func Wrap(err error, code, message string, status int) *APIError {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}
	return NewAPIError(code, message, status, err.Error())
}
