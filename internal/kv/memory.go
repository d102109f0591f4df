package kv

import "sync"

// MemoryStore is a map-backed Store. Failures can be injected for tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]string
	writes  int

	// GetErr, when set, is returned by every Get.
	GetErr error
	// SetErr, when set, is returned by every Set and the value is not stored.
	SetErr error
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]string)}
}

// Get implements Store.
func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.entries[key]
	return v, ok, nil
}

// Set implements Store.
func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.entries[key] = value
	m.writes++
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	return nil
}

// Writes returns the number of successful Set calls.
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
