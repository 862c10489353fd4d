// mock_storage.go - In-memory byte store for testing
package testutil

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
)

// MockByteStore implements storage.Store in memory.
type MockByteStore struct {
	mu    sync.RWMutex
	next  int
	files map[string][]byte
}

// NewMockByteStore creates an empty mock store.
func NewMockByteStore() *MockByteStore {
	return &MockByteStore{files: make(map[string][]byte)}
}

func (m *MockByteStore) Save(name string, r io.Reader) (string, int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	id := fmt.Sprintf("mock-file-%04d", m.next)
	m.files[id] = data
	return id, int64(len(data)), nil
}

func (m *MockByteStore) Open(id string) (io.ReadCloser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[id]
	if !ok {
		return nil, errors.New("file not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *MockByteStore) Size(id string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.files[id]
	if !ok {
		return 0, errors.New("file not found")
	}
	return int64(len(data)), nil
}

func (m *MockByteStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.files[id]; !ok {
		return errors.New("file not found")
	}
	delete(m.files, id)
	return nil
}

// AddFile seeds the store with known content under a fixed ID.
func (m *MockByteStore) AddFile(id string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[id] = data
}

// FileCount returns the number of stored files.
func (m *MockByteStore) FileCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}
