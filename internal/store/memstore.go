package store

import "sync"

// MemStore is an in-memory settings store. It satisfies the persistence
// contract without touching disk and is the default when no settings path is
// configured; it is also what tests use.
type MemStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{values: make(map[string]any)}
}

// GetString returns the string value for key, or def when absent.
func (s *MemStore) GetString(key, def string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return def
	}
	return stringify(v)
}

// GetInt returns the int value for key, or def when absent or non-numeric.
func (s *MemStore) GetInt(key string, def int) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return def
	}
	if n, ok := intify(v); ok {
		return n
	}
	return def
}

// Set stores a value under key.
func (s *MemStore) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
}

// Remove deletes key if present.
func (s *MemStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
}

// Has reports whether key is present.
func (s *MemStore) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.values[key]
	return ok
}

// Save is a no-op for the in-memory store.
func (s *MemStore) Save() error {
	return nil
}
