package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Charlelielataste/weeding/internal/models"
)

func TestSendError(t *testing.T) {
	w := httptest.NewRecorder()
	sendError(w, "Something broke", "the details", http.StatusBadRequest)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error != "Something broke" {
		t.Errorf("error = %q", resp.Error)
	}
	if resp.Details != "the details" {
		t.Errorf("details = %q", resp.Details)
	}
	if resp.RetryAfter != 0 {
		t.Errorf("retryAfter = %d, want omitted", resp.RetryAfter)
	}
}

func TestSendBackpressure(t *testing.T) {
	w := httptest.NewRecorder()
	sendBackpressure(w, "Too many concurrent uploads", "retry shortly", 30)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", w.Code, http.StatusTooManyRequests)
	}
	if got := w.Header().Get("Retry-After"); got != "30" {
		t.Errorf("Retry-After = %q, want 30", got)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.RetryAfter != 30 {
		t.Errorf("retryAfter = %d, want 30", resp.RetryAfter)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "X-Forwarded-For takes priority",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7", "X-Real-IP": "198.51.100.2"},
			want:       "203.0.113.7",
		},
		{
			name:       "X-Real-IP fallback",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "198.51.100.2"},
			want:       "198.51.100.2",
		},
		{
			name:       "RemoteAddr fallback",
			remoteAddr: "10.0.0.1:1234",
			want:       "10.0.0.1:1234",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
