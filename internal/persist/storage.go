// Package persist saves consultation drafts so an interrupted session can be
// resumed, and restores them on mount.
//
// A Storage is a plain key/value store of encoded snapshots. The Adapter
// binds one draft to one key: it hydrates the draft, watches it for changes
// and writes a debounced snapshot. Storage failures are logged and never
// reach the clinician.
package persist

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
)

// ErrNotFound is returned by Storage.Get for a missing key.
var ErrNotFound = errors.New("draft not found")

// ErrUnknownBackend is returned by Open.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Storage is a key/value store of encoded drafts.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Lister is implemented by storages that can enumerate their drafts. Every
// backend of this package does.
type Lister interface {
	Keys(ctx context.Context) ([]string, error)
}

// Backend names a Storage implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendRedis  Backend = "redis"
)

// AllBackends returns the supported backends.
func AllBackends() []Backend {
	return []Backend{BackendMemory, BackendFile, BackendSQLite, BackendRedis}
}

// OpenOptions selects and configures a backend.
type OpenOptions struct {
	Backend  Backend
	Path     string // directory for file, database file for sqlite
	RedisURL string
}

// Open returns the configured storage. The second result releases its
// resources and is never nil.
func Open(ctx context.Context, opts OpenOptions) (Storage, func() error, error) {
	noop := func() error { return nil }
	switch opts.Backend {
	case BackendMemory:
		return NewMemoryStorage(), noop, nil
	case BackendFile:
		fs, err := NewFileStorage(opts.Path)
		if err != nil {
			return nil, noop, err
		}
		return fs, noop, nil
	case BackendSQLite:
		ss, err := NewSQLiteStorage(filepath.Clean(opts.Path))
		if err != nil {
			return nil, noop, err
		}
		return ss, ss.Close, nil
	case BackendRedis:
		rs, err := NewRedisStorage(ctx, opts.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		return rs, rs.Close, nil
	}
	return nil, noop, fmt.Errorf("%w %q, valid backends: %v", ErrUnknownBackend, opts.Backend, AllBackends())
}

// MemoryStorage keeps drafts for the lifetime of the process.
type MemoryStorage struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemoryStorage creates an empty store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string][]byte)}
}

// Get implements Storage.
func (m *MemoryStorage) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set implements Storage.
func (m *MemoryStorage) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Delete implements Storage.
func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Keys implements Lister. Keys are sorted.
func (m *MemoryStorage) Keys(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of stored drafts.
func (m *MemoryStorage) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}
