package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps values in process memory. It backs ephemeral runs and
// serves as the injectable fake in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string][]byte),
	}
}

// Get returns the value for key and whether the key exists
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}

	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Set writes the value for key, replacing any previous value
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.values[key] = stored
	return nil
}

// Delete removes key entirely
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}
