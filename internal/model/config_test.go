package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope", ConfigFileName))
	require.NoError(t, err)
	assert.Equal(t, DefaultAppConfig(), cfg)
}

func TestLoadConfig_ReadsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	content := "storage:\n  path: /tmp/boards.db\ndisplay:\n  dark_theme: false\nlog:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/boards.db", cfg.Storage.Path)
	assert.False(t, cfg.Display.DarkTheme)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("storage: [unclosed"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ConfigFileName)
	want := &AppConfig{
		Storage: StorageConfig{Path: "/data/kanban.db"},
		Display: DisplayConfig{DarkTheme: false},
		Log:     LogConfig{Level: "warn"},
	}

	require.NoError(t, SaveConfig(path, want))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
