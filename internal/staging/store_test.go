package staging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dataclean-pro/gateway/internal/models"
	"github.com/dataclean-pro/gateway/internal/testutil"
)

func staged(id, name string) *models.StagedFile {
	return &models.StagedFile{
		FileID:   id,
		Name:     name,
		Size:     10,
		StagedAt: time.Now(),
	}
}

func TestStoreAddPreservesOrder(t *testing.T) {
	bytes := testutil.NewMockByteStore()
	s := NewStore(bytes)

	s.Add(staged("id-1", "a.csv"))
	s.Add(staged("id-2", "b.csv"))
	s.Add(staged("id-3", "c.csv"))

	names := []string{}
	for _, f := range s.List() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"a.csv", "b.csv", "c.csv"}, names)
}

func TestStoreAddReplacesByName(t *testing.T) {
	bytes := testutil.NewMockByteStore()
	bytes.AddFile("id-old", []byte("old"))
	bytes.AddFile("id-b", []byte("b"))
	bytes.AddFile("id-new", []byte("new"))

	s := NewStore(bytes)
	s.Add(staged("id-old", "a.csv"))
	s.Add(staged("id-b", "b.csv"))

	// Re-staging a.csv replaces the entry and moves it to the end.
	s.Add(staged("id-new", "a.csv"))

	files := s.List()
	assert.Len(t, files, 2)
	assert.Equal(t, "b.csv", files[0].Name)
	assert.Equal(t, "a.csv", files[1].Name)
	assert.Equal(t, "id-new", files[1].FileID)

	// The replaced entry's bytes are gone.
	_, err := bytes.Open("id-old")
	assert.Error(t, err)
	_, err = bytes.Open("id-new")
	assert.NoError(t, err)
}

func TestStoreRemove(t *testing.T) {
	bytes := testutil.NewMockByteStore()
	bytes.AddFile("id-1", []byte("a"))
	bytes.AddFile("id-2", []byte("b"))

	s := NewStore(bytes)
	s.Add(staged("id-1", "a.csv"))
	s.Add(staged("id-2", "b.csv"))

	s.Remove("a.csv")
	assert.Equal(t, 1, s.Len())
	_, err := bytes.Open("id-1")
	assert.Error(t, err)

	// Removing an absent name is a no-op.
	s.Remove("a.csv")
	s.Remove("never-staged.csv")
	assert.Equal(t, 1, s.Len())
}

func TestStoreClearKeepsBytes(t *testing.T) {
	bytes := testutil.NewMockByteStore()
	bytes.AddFile("id-1", []byte("a"))

	s := NewStore(bytes)
	s.Add(staged("id-1", "a.csv"))

	s.Clear()
	assert.Equal(t, 0, s.Len())

	// Results still reference the bytes for re-download.
	_, err := bytes.Open("id-1")
	assert.NoError(t, err)
}

func TestStoreListIsACopy(t *testing.T) {
	bytes := testutil.NewMockByteStore()
	s := NewStore(bytes)
	s.Add(staged("id-1", "a.csv"))

	list := s.List()
	list[0] = nil

	assert.NotNil(t, s.List()[0])
}
