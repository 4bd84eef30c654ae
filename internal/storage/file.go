package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists keys as one JSON object in a single file on disk,
// mirroring the browser local-storage entry the ordering core was built
// around. Every mutation rewrites the whole file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store backed by the file at path. The file is
// created lazily on the first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Get returns the value for key and whether the key exists
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return nil, false, err
	}

	value, ok := values[key]
	if !ok {
		return nil, false, nil
	}
	return value, true, nil
}

// Set writes the value for key, replacing any previous value
func (s *FileStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}

	values[key] = json.RawMessage(value)
	return s.save(values)
}

// Delete removes key entirely
func (s *FileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}

	if _, ok := values[key]; !ok {
		return nil
	}

	delete(values, key)
	return s.save(values)
}

func (s *FileStore) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return make(map[string]json.RawMessage), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	values := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &values); err != nil {
		// A corrupt store file degrades to empty rather than wedging
		// every read; the next write replaces it.
		return make(map[string]json.RawMessage), nil
	}
	return values, nil
}

func (s *FileStore) save(values map[string]json.RawMessage) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode store file: %w", err)
	}

	// Write to a temp file in the same directory, then rename, so a
	// crash mid-write never leaves a truncated store behind.
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".tableside-*")
	if err != nil {
		return fmt.Errorf("failed to create temp store file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close store file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}
