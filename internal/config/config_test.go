package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir is t.Chdir (Go 1.24+) for older toolchains: change into dir and
// restore the previous working directory when the test ends.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_ENV", "test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, int64(32768), cfg.ReadLimit)
	assert.Equal(t, 5*time.Second, cfg.WriteTimeout)
	assert.Equal(t, 100, cfg.HubBacklog)
	assert.Equal(t, 8, cfg.Room.MaxPlayers)
	assert.Equal(t, "solo", cfg.Room.ProgressionRule)
}

func TestLoad_MalformedConfigFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	bad := []byte("port:\n  nested: true\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.test.yaml"), bad, 0o644))
	chdir(t, dir)
	t.Setenv("CONFIG_ENV", "test")

	// A config that cannot be mapped onto the typed struct must
	// surface an error; the server refuses to start on it.
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "config"), 0o755))
	yaml := []byte("mode: debug\nport: 4100\nroom:\n  max_players: 4\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.test.yaml"), yaml, 0o644))
	chdir(t, dir)
	t.Setenv("CONFIG_ENV", "test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Mode)
	assert.Equal(t, 4100, cfg.Port)
	assert.Equal(t, 4, cfg.Room.MaxPlayers)
	assert.Equal(t, "solo", cfg.Room.ProgressionRule, "unset keys keep defaults")
}
