package presets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
presets:
  - name: Full Clean
    description: Everything on
    options:
      removeDuplicates: true
      handleMissing: true
      detectOutliers: true
      standardizeData: true
  - name: Dedup
    options:
      removeDuplicates: true
`

func TestLoadFromReader(t *testing.T) {
	presets, err := LoadFromReader(strings.NewReader(sampleYAML))
	require.NoError(t, err)
	require.Len(t, presets, 2)

	assert.Equal(t, "Full Clean", presets[0].Name)
	assert.True(t, presets[0].Options.StandardizeData)

	assert.Equal(t, "Dedup", presets[1].Name)
	assert.True(t, presets[1].Options.RemoveDuplicates)
	assert.False(t, presets[1].Options.HandleMissing)
}

func TestLoadFromReaderInvalidYAML(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader("presets: [unclosed"))
	assert.Error(t, err)
}

func TestLoadOrDefaults(t *testing.T) {
	dir := t.TempDir()

	// Missing file falls back to the built-in set.
	presets := LoadOrDefaults(filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, Defaults(), presets)

	// A deployed file wins.
	path := filepath.Join(dir, "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0644))
	presets = LoadOrDefaults(path)
	require.Len(t, presets, 2)
	assert.Equal(t, "Dedup", presets[1].Name)

	// An empty file also falls back.
	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("presets: []"), 0644))
	assert.Equal(t, Defaults(), LoadOrDefaults(empty))
}

func TestDefaultsAreComplete(t *testing.T) {
	for _, p := range Defaults() {
		assert.NotEmpty(t, p.Name)
		assert.NotEmpty(t, p.Description)
	}
}
