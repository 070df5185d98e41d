package middleware

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/ashokkumar272/BuddyOnTrain/utils/errors"
)

// ErrorMiddleware recovers from handler panics and sends a standardized JSON
// response
func ErrorMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Printf("Panic recovered on %s %s: %v", r.Method, r.URL.Path, rec)
					WriteError(w, errors.ErrInternal)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// WriteError writes an APIError as the failure envelope
func WriteError(w http.ResponseWriter, err error) {
	apiErr, ok := err.(*errors.APIError)
	if !ok {
		apiErr = errors.Wrap(err, "SERVER_ERROR", "Server error", errors.ErrInternal.Status)
	}
	// Log server errors; clients only see the generic message
	if apiErr.Status >= 500 {
		log.Printf("Server error %s (Details: %s)", apiErr.Error(), apiErr.Details)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	json.NewEncoder(w).Encode(errorResponse{
		Success: false,
		Message: apiErr.Message,
		Code:    apiErr.Code,
	})
}

// WriteValidationError reports a 400 with per-field messages
func WriteValidationError(w http.ResponseWriter, messages []string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(errorResponse{
		Success: false,
		Message: "Validation failed",
		Errors:  messages,
	})
}
