package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigCreatesDefaultOnFirstRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "DataCleanGateway.exe.config")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	// The file was written for next time.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<DataCleanGateway>")

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8000", cfg.Remote.BaseURL)
	assert.True(t, cfg.Storage.EnableHistoryDB)
}

func TestLoadConfigParsesAndResolvesPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gateway.config")

	xml := `<?xml version="1.0"?>
<DataCleanGateway>
  <Server>
    <Port>9999</Port>
    <BindAddress>127.0.0.1</BindAddress>
    <BodyLimit>10M</BodyLimit>
  </Server>
  <Storage>
    <DataDirectory>./mydata</DataDirectory>
    <UploadsDirectory>./mydata/up</UploadsDirectory>
    <HistoryCacheFile>./mydata/h.db</HistoryCacheFile>
  </Storage>
  <Remote>
    <BaseURL>http://cleaner:8000</BaseURL>
    <TimeoutSeconds>60</TimeoutSeconds>
    <PresetsFile>./presets.yaml</PresetsFile>
  </Remote>
</DataCleanGateway>`
	require.NoError(t, os.WriteFile(path, []byte(xml), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9999", cfg.GetServerAddr())
	assert.Equal(t, "http://cleaner:8000", cfg.Remote.BaseURL)
	assert.Equal(t, 60, cfg.Remote.TimeoutSeconds)

	// Relative paths resolve against the config file's directory.
	assert.True(t, strings.HasPrefix(cfg.Storage.DataDirectory, dir))
	assert.True(t, filepath.IsAbs(cfg.Storage.HistoryCacheFile))
	assert.True(t, filepath.IsAbs(cfg.Remote.PresetsFile))
}

func TestEnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gateway.config")

	t.Setenv("PORT", "7777")
	t.Setenv("CLEANING_SERVICE_URL", "http://override:8000")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	// First run writes defaults, overrides apply on the reload.
	cfg, err = LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 7777, cfg.Server.Port)
	assert.Equal(t, "http://override:8000", cfg.Remote.BaseURL)
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Storage.DataDirectory = filepath.Join(dir, "data")
	cfg.Storage.UploadsDirectory = filepath.Join(dir, "data", "uploads")

	require.NoError(t, cfg.EnsureDirectories())

	info, err := os.Stat(cfg.Storage.UploadsDirectory)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
