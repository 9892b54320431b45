// Package session tracks in-flight chunked uploads. Sessions live only in
// process memory: one upload attempt, created on the first chunk, destroyed
// on the terminal outcome, whatever it is.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Charlelielataste/weeding/internal/models"
)

// ErrTooManySessions is returned when the registry is at its ceiling. This
// is backpressure, not a failure: the client should retry after a delay.
var ErrTooManySessions = errors.New("too many concurrent upload sessions")

// Session is one in-flight chunked upload. Chunk bookkeeping is guarded by
// the session's own mutex so two chunks of the same upload cannot race the
// completion check.
type Session struct {
	UploadID    string
	FileName    string
	FileType    string
	Kind        models.MediaKind
	TotalChunks int
	CreatedAt   time.Time

	mu            sync.Mutex
	received      map[int]struct{}
	completed     bool
	thumbnailData string
	lastActivity  time.Time
}

// MarkReceived records a chunk index and reports the received count and
// whether this call completed the set. Duplicate indices do not double
// count, and completion is reported exactly once even if the final chunks
// race.
func (s *Session) MarkReceived(index int) (int, bool, error) {
	if index < 0 || index >= s.TotalChunks {
		return 0, false, fmt.Errorf("chunk index %d out of range [0,%d)", index, s.TotalChunks)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.received[index] = struct{}{}
	s.lastActivity = time.Now()
	count := len(s.received)

	if count == s.TotalChunks && !s.completed {
		s.completed = true
		return count, true, nil
	}
	return count, false, nil
}

// ReceivedCount returns how many distinct chunk indices have arrived
func (s *Session) ReceivedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.received)
}

// SetThumbnail stores the poster image payload sent alongside a video chunk
func (s *Session) SetThumbnail(data string) {
	if data == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.thumbnailData = data
}

// Thumbnail returns the stored poster image payload, if any
func (s *Session) Thumbnail() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.thumbnailData
}

// LastActivity returns when the session last saw a chunk
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// Registry is the process-wide session store. Map mutation and the admission
// ceiling share one mutex so concurrently arriving first chunks cannot
// overshoot the ceiling.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ceiling  int
}

// NewRegistry creates a registry admitting at most ceiling open sessions
func NewRegistry(ceiling int) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		ceiling:  ceiling,
	}
}

// GetOrCreate returns the session for uploadID, creating it if this is the
// first chunk. Creation is refused with ErrTooManySessions at the ceiling;
// chunks of already-open sessions are never refused.
func (r *Registry) GetOrCreate(uploadID, fileName, fileType string, kind models.MediaKind, totalChunks int) (*Session, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[uploadID]; ok {
		return s, false, nil
	}

	if len(r.sessions) >= r.ceiling {
		slog.Warn("session admission rejected",
			"upload_id", uploadID,
			"open_sessions", len(r.sessions),
			"ceiling", r.ceiling,
		)
		return nil, false, ErrTooManySessions
	}

	now := time.Now()
	s := &Session{
		UploadID:     uploadID,
		FileName:     fileName,
		FileType:     fileType,
		Kind:         kind,
		TotalChunks:  totalChunks,
		CreatedAt:    now,
		received:     make(map[int]struct{}),
		lastActivity: now,
	}
	r.sessions[uploadID] = s

	slog.Info("upload session created",
		"upload_id", uploadID,
		"file_name", fileName,
		"total_chunks", totalChunks,
		"open_sessions", len(r.sessions),
	)

	return s, true, nil
}

// Get returns an open session without creating one
func (r *Registry) Get(uploadID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[uploadID]
	return s, ok
}

// Remove deletes the session and reports whether it was present, so a
// teardown racing another teardown runs its side effects only once
func (r *Registry) Remove(uploadID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[uploadID]; !ok {
		return false
	}
	delete(r.sessions, uploadID)

	slog.Debug("upload session removed",
		"upload_id", uploadID,
		"open_sessions", len(r.sessions),
	)
	return true
}

// ExpireIdle removes sessions with no chunk activity for maxAge and returns
// their upload ids. Abandoned uploads (client gone mid-transfer) have no
// in-request terminal path, so this is the only way their ceiling slots
// come back.
func (r *Registry) ExpireIdle(maxAge time.Duration) []string {
	cutoff := time.Now().Add(-maxAge)

	r.mu.Lock()
	defer r.mu.Unlock()

	var expired []string
	for id, s := range r.sessions {
		if s.LastActivity().After(cutoff) {
			continue
		}
		delete(r.sessions, id)
		expired = append(expired, id)
	}

	if len(expired) > 0 {
		slog.Info("expired idle upload sessions",
			"count", len(expired),
			"max_age", maxAge.String(),
			"open_sessions", len(r.sessions),
		)
	}
	return expired
}

// Count returns the number of open sessions
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
