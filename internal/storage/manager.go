// Package storage persists the raw bytes of staged CSV files. Staged
// content must survive until batch submission (and possible re-download),
// so files are written to disk rather than held in memory.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Store defines the interface for staged-file byte storage.
type Store interface {
	Save(name string, r io.Reader) (id string, size int64, err error)
	Open(id string) (io.ReadCloser, error)
	Size(id string) (int64, error)
	Delete(id string) error
}

// LocalStore implements Store using the local filesystem. File bytes are
// written under opaque UUID names; display names live in the staging store.
type LocalStore struct {
	mu        sync.RWMutex
	uploadDir string
	sizes     map[string]int64
}

// NewLocalStore creates a LocalStore rooted at uploadDir.
func NewLocalStore(uploadDir string) (*LocalStore, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	return &LocalStore{
		uploadDir: uploadDir,
		sizes:     make(map[string]int64),
	}, nil
}

// Save writes the reader's content to disk and returns the assigned ID.
func (s *LocalStore) Save(name string, r io.Reader) (string, int64, error) {
	id := uuid.New().String()
	path := filepath.Join(s.uploadDir, id)

	f, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("writing file: %w", err)
	}

	s.mu.Lock()
	s.sizes[id] = size
	s.mu.Unlock()

	return id, size, nil
}

// Open returns a reader over the stored bytes.
func (s *LocalStore) Open(id string) (io.ReadCloser, error) {
	s.mu.RLock()
	_, ok := s.sizes[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("file not found: %s", id)
	}

	return os.Open(filepath.Join(s.uploadDir, id))
}

// Size returns the stored size in bytes.
func (s *LocalStore) Size(id string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	size, ok := s.sizes[id]
	if !ok {
		return 0, fmt.Errorf("file not found: %s", id)
	}
	return size, nil
}

// Delete removes a stored file. Unknown IDs are an error; a missing file
// on disk for a known ID is not.
func (s *LocalStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sizes[id]; !ok {
		return fmt.Errorf("file not found: %s", id)
	}

	path := filepath.Join(s.uploadDir, id)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting file: %w", err)
	}

	delete(s.sizes, id)
	return nil
}
