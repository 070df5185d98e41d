package handlers

import (
	"encoding/json"
	"net/http"
)

// writeJSON renders a response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// userIDFromContext reads the authenticated user id set by the JWT
// middleware; empty when the request is anonymous.
func userIDFromContext(r *http.Request) string {
	userID, _ := r.Context().Value("userID").(string)
	return userID
}
