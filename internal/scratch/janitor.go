package scratch

import (
	"context"
	"log/slog"
	"time"
)

// SessionReaper expires upload sessions that have gone idle and reports
// their ids. Satisfied by the session registry.
type SessionReaper interface {
	ExpireIdle(maxAge time.Duration) []string
}

// StartJanitor runs a background sweep of abandoned uploads until ctx is
// cancelled. Orphaned sessions (client crashed or stopped sending chunks)
// have no other expiry mechanism; this is it. Each pass expires idle
// registry sessions so their ceiling slots come back, removes their scratch
// directories, then sweeps any leftover stale directories. Sweep errors are
// logged and never escape the worker.
func StartJanitor(ctx context.Context, storage Storage, sessions SessionReaper, maxAge, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("janitor started", "max_age", maxAge.String(), "interval", interval.String())

	// Sweep immediately so a restart clears leftovers from the previous run
	runSweep(storage, sessions, maxAge)

	for {
		select {
		case <-ctx.Done():
			slog.Info("janitor shutting down")
			return
		case <-ticker.C:
			runSweep(storage, sessions, maxAge)
		}
	}
}

func runSweep(storage Storage, sessions SessionReaper, maxAge time.Duration) {
	start := time.Now()

	expired := 0
	if sessions != nil {
		ids := sessions.ExpireIdle(maxAge)
		expired = len(ids)
		for _, id := range ids {
			if err := storage.RemoveSession(id); err != nil {
				slog.Warn("failed to remove expired session scratch", "upload_id", id, "error", err)
			}
		}
	}

	removed, err := storage.SweepStale(maxAge)
	if err != nil {
		slog.Error("janitor sweep failed", "error", err, "duration", time.Since(start))
		return
	}

	if removed > 0 || expired > 0 {
		slog.Info("janitor sweep completed",
			"expired_sessions", expired,
			"removed_dirs", removed,
			"duration", time.Since(start),
		)
	} else {
		slog.Debug("janitor sweep completed", "removed_dirs", 0, "duration", time.Since(start))
	}
}
