package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	// act
	cfg, err := loadConfig("")

	// assert
	require.NoError(t, err)
	assert.Equal(t, ":5001", cfg.Listen)
	assert.Equal(t, backendMemory, cfg.Backend)
}

func TestLoadConfigFile(t *testing.T) {
	// arrange
	path := filepath.Join(t.TempDir(), "taproom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: \":8080\"\nbackend: leveldb\npath: /tmp/tap.db\n"), 0o600))

	// act
	cfg, err := loadConfig(path)

	// assert
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, backendLevelDB, cfg.Backend)
	assert.Equal(t, "/tmp/tap.db", cfg.Path)
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	// arrange
	path := filepath.Join(t.TempDir(), "taproom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: postgres\n"), 0o600))

	// act
	_, err := loadConfig(path)

	// assert
	assert.ErrorContains(t, err, "unknown backend")
}
