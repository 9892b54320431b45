// Package storage abstracts the object store the gallery lives in. The
// store is treated as a key-value blob store with list-by-prefix semantics;
// handlers never see provider types.
package storage

import (
	"context"
	"io"
	"time"
)

// ObjectStore is the narrow surface the upload and listing paths need
type ObjectStore interface {
	// Put writes one object. size may be -1 when unknown; contentType is
	// stored with the object and served back on reads.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// List returns up to limit objects under prefix, newest-capable callers
	// sort themselves; cursor is the opaque continuation token from a
	// previous page ("" for the first).
	List(ctx context.Context, prefix string, limit int, cursor string) (*ListResult, error)

	// PublicURL resolves a key to a publicly readable URL
	PublicURL(key string) string

	// HealthCheck verifies the store is reachable and the bucket exists
	HealthCheck(ctx context.Context) error
}

// ObjectInfo describes one stored object
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ListResult is one page of a prefix listing
type ListResult struct {
	Objects    []ObjectInfo
	HasMore    bool
	NextCursor string
}
