package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Charlelielataste/weeding/internal/models"
	"github.com/Charlelielataste/weeding/internal/session"
	"github.com/Charlelielataste/weeding/internal/storage"
)

// HealthHandler reports liveness plus blob-store reachability. The store
// probe decides the status code so orchestrators restart us when B2 is
// misconfigured, not just down.
func HealthHandler(store storage.ObjectStore, registry *session.Registry, startTime time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			sendError(w, "Method not allowed", "", http.StatusMethodNotAllowed)
			return
		}

		resp := models.HealthResponse{
			Status:        "ok",
			UptimeSeconds: int64(time.Since(startTime).Seconds()),
			Storage:       "reachable",
			OpenSessions:  registry.Count(),
		}

		status := http.StatusOK
		if err := store.HealthCheck(r.Context()); err != nil {
			slog.Warn("storage health check failed", "error", err)
			resp.Status = "degraded"
			resp.Storage = "unreachable"
			status = http.StatusServiceUnavailable
		}

		writeJSON(w, status, resp)
	}
}
