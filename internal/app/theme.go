package app

import (
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/theme"
	"github.com/nhle/kanban/internal/ui/settings"
)

// configSavedMsg reports the result of writing preferences.
type configSavedMsg struct{ err error }

// toggleTheme flips between the dark and light palettes and writes the
// choice back to the config file.
func (m *Model) toggleTheme() tea.Cmd {
	m.cfg.Display.DarkTheme = !m.cfg.Display.DarkTheme
	theme.Apply(m.cfg.Display.DarkTheme)
	return m.saveConfig()
}

// applySettings adopts the configuration submitted from the settings view.
// The database path is only read at startup.
func (m *Model) applySettings(msg settings.SavedMsg) tea.Cmd {
	restart := msg.Config.Storage.Path != m.cfg.Storage.Path
	*m.cfg = msg.Config
	theme.Apply(m.cfg.Display.DarkTheme)

	if level, err := log.ParseLevel(m.cfg.Log.Level); err == nil {
		log.SetLevel(level)
	}
	if restart {
		m.setInfo("Settings saved. Restart to use the new database file.")
	} else {
		m.setInfo("Settings saved")
	}
	return m.saveConfig()
}

func (m *Model) saveConfig() tea.Cmd {
	if m.cfgPath == "" {
		return nil
	}
	path := m.cfgPath
	cfg := *m.cfg
	return func() tea.Msg {
		return configSavedMsg{err: model.SaveConfig(path, &cfg)}
	}
}
