package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Charlelielataste/weeding/internal/models"
)

// writeJSON writes v as a JSON response with the given status
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// sendError sends a JSON error response
func sendError(w http.ResponseWriter, message, details string, status int) {
	writeJSON(w, status, models.ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// sendBackpressure sends the session-ceiling rejection: a 429 with a retry
// hint in both the body and the standard header
func sendBackpressure(w http.ResponseWriter, message, details string, retryAfterSeconds int) {
	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	writeJSON(w, http.StatusTooManyRequests, models.ErrorResponse{
		Error:      message,
		Details:    details,
		RetryAfter: retryAfterSeconds,
	})
}

// getClientIP extracts the client IP address from the request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}
