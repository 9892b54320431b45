package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddleware_PassesThrough(t *testing.T) {
	handler := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/photos", nil))

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/", "/"},
		{"/health", "/health"},
		{"/metrics", "/metrics"},
		{"/api/upload-photo", "/api/upload-photo"},
		{"/api/upload-photo-chunk", "/api/upload-photo-chunk"},
		{"/api/upload-chunk", "/api/upload-chunk"},
		{"/api/videos", "/api/videos"},
		{"/api/unknown", "/other"},
		{"/favicon.ico", "/other"},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
