// Package staging holds the ordered set of files staged for the next
// batch submission. File name is identity: re-staging a name replaces the
// earlier entry rather than queueing an ambiguous duplicate.
package staging

import (
	"sync"

	"github.com/dataclean-pro/gateway/internal/models"
	"github.com/dataclean-pro/gateway/internal/storage"
)

// Store is the process-wide staged-file set. Insertion order is preserved
// for listing and submission; results are later index-aligned with it.
type Store struct {
	mu    sync.RWMutex
	files []*models.StagedFile
	bytes storage.Store
}

// NewStore creates an empty staging store backed by the given byte store.
func NewStore(bytes storage.Store) *Store {
	return &Store{bytes: bytes}
}

// Add appends a staged file. If a file with the same name is already
// staged, the old entry is removed first (and its stored bytes deleted);
// the new entry always lands at the end of the order.
func (s *Store) Add(file *models.StagedFile) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(file.Name)
	s.files = append(s.files, file)
}

// Remove drops every staged entry with the given name and deletes its
// stored bytes. Removing an absent name is a no-op.
func (s *Store) Remove(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(name)
}

func (s *Store) removeLocked(name string) {
	kept := s.files[:0]
	for _, f := range s.files {
		if f.Name == name {
			s.bytes.Delete(f.FileID)
			continue
		}
		kept = append(kept, f)
	}
	for i := len(kept); i < len(s.files); i++ {
		s.files[i] = nil
	}
	s.files = kept
}

// List returns the staged files in insertion order. The returned slice is
// a copy; entries are shared.
func (s *Store) List() []*models.StagedFile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.StagedFile, len(s.files))
	copy(out, s.files)
	return out
}

// Len returns the number of staged files.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}

// Clear empties the store after a successful batch submission. The stored
// bytes are kept: results reference them for re-download.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = nil
}
