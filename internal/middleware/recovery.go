package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/Charlelielataste/weeding/internal/models"
)

// RecoveryMiddleware turns a panicking handler into a JSON 500 instead of a
// dropped connection, logging the stack with enough request context to find
// the upload that triggered it.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			attrs := []any{
				"panic", rec,
				"method", r.Method,
				"path", r.URL.Path,
				"ip", getClientIP(r),
			}
			// A panic mid-chunk leaves the parsed form behind; keep the
			// upload id so the log lines correlate with the session's
			if r.MultipartForm != nil {
				if ids := r.MultipartForm.Value["uploadId"]; len(ids) > 0 {
					attrs = append(attrs, "upload_id", ids[0])
				}
			}
			attrs = append(attrs, "stack", string(debug.Stack()))
			slog.Error("panic recovered", attrs...)

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(models.ErrorResponse{
				Error: "Internal server error",
			})
		}()

		next.ServeHTTP(w, r)
	})
}
