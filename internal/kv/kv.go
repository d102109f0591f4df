// Package kv provides the local key-value stores that hold persisted state.
//
// Every store is synchronous and scoped to a single state directory, which
// plays the role of an origin: two projects never see each other's keys.
package kv

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nibzard/bloom-go/internal/bloomdir"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// DefaultQuotaBytes mirrors the usual per-origin quota of browser storage.
const DefaultQuotaBytes = 5 << 20

var (
	// ErrQuotaExceeded is returned by Set when a value does not fit the quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")

	// ErrUnknownBackend is returned by Open for unsupported backend names.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Store is a string-to-string key-value store.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent.
	Get(key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
	// Close releases any resources held by the store.
	Close() error
}

// Open opens the named backend rooted at stateDir.
func Open(backend, stateDir string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		return NewFileStore(bloomdir.StorePath(stateDir))
	case BackendSQLite:
		return NewSQLiteStore(bloomdir.DBPath(stateDir))
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q (expected file|sqlite|memory)", ErrUnknownBackend, backend)
	}
}

// LimitedStore enforces a byte quota on writes to the wrapped store.
type LimitedStore struct {
	Store
	maxBytes int
}

// Limit wraps s so that Set fails with ErrQuotaExceeded when the key and
// value together exceed maxBytes. A non-positive maxBytes disables the check.
func Limit(s Store, maxBytes int) Store {
	if maxBytes <= 0 {
		return s
	}
	return &LimitedStore{Store: s, maxBytes: maxBytes}
}

// Set implements Store.
func (l *LimitedStore) Set(key, value string) error {
	if size := len(key) + len(value); size > l.maxBytes {
		return fmt.Errorf("set %q: %d bytes over limit of %d: %w", key, size, l.maxBytes, ErrQuotaExceeded)
	}
	return l.Store.Set(key, value)
}
