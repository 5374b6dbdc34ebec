package settings

import (
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/theme"
	"github.com/nhle/kanban/internal/ui/prompt"
)

// LogLevels lists the selectable diagnostics levels, most verbose first.
var LogLevels = []string{"debug", "info", "warn", "error"}

// SavedMsg carries the edited configuration when the form is submitted.
type SavedMsg struct {
	Config model.AppConfig
}

// CancelMsg signals the settings view was closed without changes.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	darkTheme   bool
	logLevel    string
	storagePath string
}

// Model is the settings form for display, logging and storage preferences.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	base   model.AppConfig
	width  int
	height int
}

// New creates a new settings model.
func New(width, height int) Model {
	return Model{fb: &formBindings{}, width: width, height: height}
}

// Start opens the form prefilled with cfg.
func (m *Model) Start(cfg model.AppConfig) tea.Cmd {
	m.base = cfg
	m.fb.darkTheme = cfg.Display.DarkTheme
	m.fb.logLevel = strings.ToLower(cfg.Log.Level)
	m.fb.storagePath = cfg.Storage.Path

	levels := make([]huh.Option[string], len(LogLevels))
	for i, l := range LogLevels {
		levels[i] = huh.NewOption(l, l)
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[bool]().
				Title("Theme").
				Options(
					huh.NewOption("Dark", true),
					huh.NewOption("Light", false),
				).
				Value(&m.fb.darkTheme),
			huh.NewSelect[string]().
				Title("Log level").
				Options(levels...).
				Value(&m.fb.logLevel),
			huh.NewInput().
				Title("Database file").
				Description("Empty uses the data directory. Takes effect on restart.").
				Placeholder("kanban.db").
				Value(&m.fb.storagePath).
				Validate(validatePath),
		),
	).WithWidth(m.formWidth()).WithKeyMap(prompt.FormKeyMap())
	return m.form.Init()
}

// Update handles messages for the settings form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		cfg := m.Result()
		m.form = nil
		return m, func() tea.Msg { return SavedMsg{Config: cfg} }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

// Result returns the configuration the form currently describes.
func (m Model) Result() model.AppConfig {
	cfg := m.base
	cfg.Display.DarkTheme = m.fb.darkTheme
	cfg.Log.Level = m.fb.logLevel
	cfg.Storage.Path = strings.TrimSpace(m.fb.storagePath)
	return cfg
}

// View renders the settings form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Settings")

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(title + "\n" + m.form.View())
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth())
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

func validatePath(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasSuffix(s, string(filepath.Separator)) {
		return errDirectoryPath
	}
	return nil
}
