package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "heartshare.sqlite3", cfg.Database)
	assert.Equal(t, "http://localhost:8080", cfg.Server)
	assert.Equal(t, 1024, cfg.ImageMaxDimension)
	assert.Equal(t, 85, cfg.ImageQuality)
	assert.NotEmpty(t, cfg.StateFile)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Addr, cfg.Addr)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Addr = ":9000"
	cfg.Database = "/var/lib/heartshare/db.sqlite3"
	cfg.ImageQuality = 70
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", loaded.Addr)
	assert.Equal(t, "/var/lib/heartshare/db.sqlite3", loaded.Database)
	assert.Equal(t, 70, loaded.ImageQuality)
}

func TestLoadFillsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \"\"\nimage_quality: 400\nimage_max_dimension: -1\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 85, cfg.ImageQuality)
	assert.Equal(t, 1024, cfg.ImageMaxDimension)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":7000\"\nserver: http://file\n"), 0644))

	t.Setenv("HEARTSHARE_ADDR", ":7777")
	t.Setenv("HEARTSHARE_DB", "env.sqlite3")
	t.Setenv("HEARTSHARE_SERVER", "http://env:8080")
	t.Setenv("HEARTSHARE_STATE", "/tmp/state.yaml")
	t.Setenv("HEARTSHARE_IMAGE_MAX_DIMENSION", "640")
	t.Setenv("HEARTSHARE_IMAGE_QUALITY", "70")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Addr)
	assert.Equal(t, "env.sqlite3", cfg.Database)
	assert.Equal(t, "http://env:8080", cfg.Server)
	assert.Equal(t, "/tmp/state.yaml", cfg.StateFile)
	assert.Equal(t, 640, cfg.ImageMaxDimension)
	assert.Equal(t, 70, cfg.ImageQuality)
}
