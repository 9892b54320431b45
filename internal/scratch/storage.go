package scratch

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

const (
	// assembleBufferSize is the buffer size for chunk assembly (8MB).
	// Large enough to keep syscall overhead low when concatenating 4MB chunks.
	assembleBufferSize = 8 * 1024 * 1024

	// assembledName is the per-session file the chunks are concatenated into
	assembledName = "assembled"
)

// Storage is the scratch area for in-flight chunked uploads. Each session
// owns one directory holding its chunk files and, once complete, the
// assembled file. The whole directory is removed in one call on any terminal
// outcome. Implementations must tolerate concurrent calls for different
// upload ids.
type Storage interface {
	// SaveChunk streams one chunk to <session>/chunk_<index>, creating the
	// session directory on first use. A second write to the same index
	// overwrites the first.
	SaveChunk(uploadID string, index int, r io.Reader) (int64, error)

	// Assemble concatenates chunk_0..chunk_{totalChunks-1} in ascending
	// index order into a single file inside the session directory and
	// returns its path and byte size.
	Assemble(uploadID string, totalChunks int) (string, int64, error)

	// RemoveSession deletes the session directory and everything in it.
	// Removing an already-removed session is not an error.
	RemoveSession(uploadID string) error

	// SessionDir returns the directory a session's chunks live in, without
	// creating it.
	SessionDir(uploadID string) string

	// SweepStale removes session directories whose last modification is
	// older than maxAge and returns how many were removed.
	SweepStale(maxAge time.Duration) (int, error)
}

// DirStorage implements Storage on a local directory
type DirStorage struct {
	root string
}

// NewDirStorage creates the scratch root (a dedicated subdirectory of base,
// so the sweep never touches unrelated temp files)
func NewDirStorage(base string) (*DirStorage, error) {
	root := filepath.Join(base, "weeding-uploads")
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scratch root: %w", err)
	}
	return &DirStorage{root: root}, nil
}

// Root returns the scratch root directory
func (s *DirStorage) Root() string {
	return s.root
}

func (s *DirStorage) SessionDir(uploadID string) string {
	return filepath.Join(s.root, uploadID)
}

func (s *DirStorage) chunkPath(uploadID string, index int) string {
	return filepath.Join(s.SessionDir(uploadID), fmt.Sprintf("chunk_%d", index))
}

func (s *DirStorage) SaveChunk(uploadID string, index int, r io.Reader) (int64, error) {
	dir := s.SessionDir(uploadID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, classify("mkdir", err)
	}

	// O_TRUNC makes a duplicate index an overwrite, not an append
	path := s.chunkPath(uploadID, index)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, classify("create chunk", err)
	}

	written, err := io.Copy(file, r)
	if err != nil {
		file.Close()
		return written, classify("write chunk", err)
	}

	// No Sync(): a crash loses only an in-flight session the janitor will
	// sweep anyway
	if err := file.Close(); err != nil {
		return written, classify("close chunk", err)
	}

	slog.Debug("chunk saved",
		"upload_id", uploadID,
		"chunk_index", index,
		"size", written,
	)

	return written, nil
}

func (s *DirStorage) Assemble(uploadID string, totalChunks int) (string, int64, error) {
	start := time.Now()

	// Verify every chunk is on disk before writing anything
	for i := 0; i < totalChunks; i++ {
		if _, err := os.Stat(s.chunkPath(uploadID, i)); err != nil {
			return "", 0, fmt.Errorf("cannot assemble upload %s: chunk %d: %w", uploadID, i, err)
		}
	}

	outPath := filepath.Join(s.SessionDir(uploadID), assembledName)
	outFile, err := os.Create(outPath)
	if err != nil {
		return "", 0, classify("create assembled file", err)
	}
	defer outFile.Close()

	writer := bufio.NewWriterSize(outFile, assembleBufferSize)

	var total int64
	for i := 0; i < totalChunks; i++ {
		chunkFile, err := os.Open(s.chunkPath(uploadID, i))
		if err != nil {
			return "", 0, fmt.Errorf("failed to open chunk %d: %w", i, err)
		}

		n, err := io.Copy(writer, chunkFile)
		chunkFile.Close()
		if err != nil {
			return "", 0, fmt.Errorf("failed to append chunk %d: %w", i, err)
		}
		total += n
	}

	if err := writer.Flush(); err != nil {
		return "", 0, classify("flush assembled file", err)
	}

	duration := time.Since(start)
	slog.Info("chunk assembly complete",
		"upload_id", uploadID,
		"total_chunks", totalChunks,
		"total_bytes", total,
		"duration_ms", duration.Milliseconds(),
	)

	return outPath, total, nil
}

func (s *DirStorage) RemoveSession(uploadID string) error {
	dir := s.SessionDir(uploadID)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove session dir: %w", err)
	}
	slog.Debug("session scratch removed", "upload_id", uploadID, "path", dir)
	return nil
}

func (s *DirStorage) SweepStale(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return 0, fmt.Errorf("failed to read scratch root: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(s.root, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			slog.Warn("failed to sweep stale session dir", "path", path, "error", err)
			continue
		}
		removed++
		slog.Info("swept stale session dir", "path", path, "age_cutoff", maxAge.String())
	}

	return removed, nil
}
