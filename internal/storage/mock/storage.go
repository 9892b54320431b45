// Package mock provides an in-memory implementation of storage.ObjectStore
// for tests: no network, deterministic listings, configurable error
// injection.
package mock

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/Charlelielataste/weeding/internal/storage"
)

// ObjectStore is an in-memory storage.ObjectStore
type ObjectStore struct {
	mu      sync.RWMutex
	objects map[string]storedObject

	// Error injection
	PutError         error
	ListError        error
	HealthCheckError error

	// PutCalls records the keys passed to Put, in order
	PutCalls []string
}

type storedObject struct {
	data         []byte
	contentType  string
	lastModified time.Time
}

// New creates an empty mock store
func New() *ObjectStore {
	return &ObjectStore{objects: make(map[string]storedObject)}
}

func (m *ObjectStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	if m.PutError != nil {
		return m.PutError
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("mock put: %w", err)
	}
	if size >= 0 && int64(len(data)) != size {
		return fmt.Errorf("mock put: declared size %d, read %d bytes", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = storedObject{
		data:         data,
		contentType:  contentType,
		lastModified: time.Now(),
	}
	m.PutCalls = append(m.PutCalls, key)
	return nil
}

// List pages keys under prefix in lexicographic order; the cursor is the
// numeric offset of the next page
func (m *ObjectStore) List(ctx context.Context, prefix string, limit int, cursor string) (*storage.ListResult, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.RLock()
	var keys []string
	for k := range m.objects {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			keys = append(keys, k)
		}
	}
	m.mu.RUnlock()
	sort.Strings(keys)

	offset := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil {
			return nil, fmt.Errorf("mock list: bad cursor %q", cursor)
		}
		offset = n
	}
	if offset > len(keys) {
		offset = len(keys)
	}

	end := offset + limit
	if limit <= 0 || end > len(keys) {
		end = len(keys)
	}

	result := &storage.ListResult{HasMore: end < len(keys)}
	if result.HasMore {
		result.NextCursor = strconv.Itoa(end)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, k := range keys[offset:end] {
		obj := m.objects[k]
		result.Objects = append(result.Objects, storage.ObjectInfo{
			Key:          k,
			Size:         int64(len(obj.data)),
			LastModified: obj.lastModified,
		})
	}
	return result, nil
}

func (m *ObjectStore) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func (m *ObjectStore) HealthCheck(ctx context.Context) error {
	return m.HealthCheckError
}

// Object returns a stored object's bytes and content type for assertions
func (m *ObjectStore) Object(key string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, "", false
	}
	return obj.data, obj.contentType, true
}

// SetObject seeds the store with an object at a fixed modification time
func (m *ObjectStore) SetObject(key string, data []byte, contentType string, lastModified time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = storedObject{data: data, contentType: contentType, lastModified: lastModified}
}

// Len returns the number of stored objects
func (m *ObjectStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
