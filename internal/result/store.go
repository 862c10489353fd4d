package result

import (
	"fmt"
	"sync"

	"github.com/dataclean-pro/gateway/internal/models"
	"github.com/dataclean-pro/gateway/internal/storage"
)

// Store holds the results of the most recent successful batch. A new
// batch replaces the previous one wholesale; a failed batch leaves the
// previous results in place. Results keep their staged bytes alive for
// re-download, so the store releases those bytes when results are
// displaced or cleared.
type Store struct {
	mu      sync.RWMutex
	results []models.ProcessingResult
	bytes   storage.Store
}

// NewStore creates an empty result store backed by the given byte store.
func NewStore(bytes storage.Store) *Store {
	return &Store{bytes: bytes}
}

// Replace installs a new batch of results. The displaced batch's stored
// bytes are deleted; nothing references them once their results are gone.
func (s *Store) Replace(results []models.ProcessingResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.releaseLocked()
	s.results = results
}

// List returns a snapshot of the current results in batch order.
func (s *Store) List() []models.ProcessingResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ProcessingResult, len(s.results))
	copy(out, s.results)
	return out
}

// Get returns the result at the given batch index.
func (s *Store) Get(index int) (models.ProcessingResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if index < 0 || index >= len(s.results) {
		return models.ProcessingResult{}, fmt.Errorf("no result at index %d", index)
	}
	return s.results[index], nil
}

// Len returns the number of stored results.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

// Clear drops all results and their stored bytes, used on session
// teardown.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.releaseLocked()
	s.results = nil
}

func (s *Store) releaseLocked() {
	for _, res := range s.results {
		s.bytes.Delete(res.FileID)
	}
}
