package settings

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/kanban/internal/model"
)

func TestStart_PrefillsFromConfig(t *testing.T) {
	m := New(80, 24)
	cfg := model.AppConfig{
		Storage: model.StorageConfig{Path: "/tmp/boards.db"},
		Display: model.DisplayConfig{DarkTheme: false},
		Log:     model.LogConfig{Level: "WARN"},
	}

	m.Start(cfg)

	got := m.Result()
	assert.False(t, got.Display.DarkTheme)
	assert.Equal(t, "warn", got.Log.Level)
	assert.Equal(t, "/tmp/boards.db", got.Storage.Path)
}

func TestResult_TrimsStoragePath(t *testing.T) {
	m := New(80, 24)
	m.Start(*model.DefaultAppConfig())
	m.fb.storagePath = "  /data/kanban.db  "
	m.fb.darkTheme = false

	got := m.Result()
	assert.Equal(t, "/data/kanban.db", got.Storage.Path)
	assert.False(t, got.Display.DarkTheme)
	assert.Equal(t, "info", got.Log.Level)
}

func TestUpdate_EscCancels(t *testing.T) {
	m := New(80, 24)
	m.Start(*model.DefaultAppConfig())

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, CancelMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestUpdate_WithoutForm(t *testing.T) {
	m := New(80, 24)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
}

func TestValidatePath(t *testing.T) {
	assert.NoError(t, validatePath(""))
	assert.NoError(t, validatePath("/var/lib/kanban.db"))
	assert.Error(t, validatePath("/var/lib/"))
}
