package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/nhle/kanban/internal/board"
	"github.com/nhle/kanban/internal/keys"
	"github.com/nhle/kanban/internal/model"
	appsync "github.com/nhle/kanban/internal/sync"
	"github.com/nhle/kanban/internal/theme"
	"github.com/nhle/kanban/internal/ui"
	"github.com/nhle/kanban/internal/ui/boardpicker"
	"github.com/nhle/kanban/internal/ui/boardview"
	"github.com/nhle/kanban/internal/ui/command"
	"github.com/nhle/kanban/internal/ui/detail"
	"github.com/nhle/kanban/internal/ui/finder"
	helpview "github.com/nhle/kanban/internal/ui/help"
	"github.com/nhle/kanban/internal/ui/prompt"
	"github.com/nhle/kanban/internal/ui/settings"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewBoard ViewState = iota
	ViewDetail
	ViewPicker
	ViewHelp
	ViewCommand
	ViewPrompt
	ViewSettings
	ViewFinder
)

// Options carries the settings the root model needs besides the session.
type Options struct {
	// ConfigPath is where display preferences are written back.
	ConfigPath string
	Config     *model.AppConfig
	Logger     log.FieldLogger
}

// Model is the root Bubble Tea model that manages view routing, layout and
// the board session. Every mutation goes through the session state and is
// followed by an autosave.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	session      *board.Session
	saver        *appsync.Autosaver
	keys         *keys.KeyMap
	boardView    boardview.Model
	picker       boardpicker.Model
	detail       detail.Model
	helpView     helpview.Model
	commandView  command.Model
	promptView   prompt.Model
	settings     settings.Model
	finder       finder.Model
	cfg          *model.AppConfig
	cfgPath      string
	log          log.FieldLogger
	ready        bool
	statusMsg    string
	statusError  bool
	saveError    error
}

// New creates the root application model. sess must already be open.
func New(sess *board.Session, saver *appsync.Autosaver, opts Options) Model {
	k := keys.DefaultKeyMap()
	cfg := opts.Config
	if cfg == nil {
		cfg = model.DefaultAppConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	theme.Apply(cfg.Display.DarkTheme)

	m := Model{
		currentView: ViewBoard,
		session:     sess,
		saver:       saver,
		keys:        k,
		boardView:   boardview.New(k, 80, 24),
		picker:      boardpicker.New(k, 80, 24),
		detail:      detail.New(k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
		promptView:  prompt.New(80, 24),
		settings:    settings.New(80, 24),
		finder:      finder.New(k, 80, 24),
		cfg:         cfg,
		cfgPath:     opts.ConfigPath,
		log:         logger,
	}
	m.refresh()
	return m
}

// Init starts the autosaver and subscribes to its results.
func (m Model) Init() tea.Cmd {
	return m.saver.Start()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.boardView.SetSize(contentWidth, contentHeight)
		m.picker.SetSize(contentWidth, contentHeight)
		m.detail.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		m.promptView.SetSize(contentWidth, contentHeight)
		m.settings.SetSize(contentWidth, contentHeight)
		m.finder.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case appsync.SaveResultMsg:
		if msg.Error != nil {
			m.saveError = msg.Error
		} else {
			m.saveError = nil
		}
		return m, m.saver.WaitForResult()

	case configSavedMsg:
		if msg.err != nil {
			m.log.WithError(msg.err).Warn("saving display preference failed")
			m.setError(fmt.Errorf("saving config: %w", msg.err))
		}
		return m, nil

	case boardview.CardSelectedMsg:
		m.openDetail(msg.CardID)
		return m, nil

	case detail.BackMsg:
		m.currentView = ViewBoard
		return m, nil

	case detail.ActionMsg:
		return m, m.handleDetailAction(msg)

	case boardpicker.CloseMsg:
		m.currentView = ViewBoard
		return m, nil

	case boardpicker.ActionMsg:
		return m, m.handlePickerAction(msg)

	case prompt.SubmitMsg:
		m.currentView = m.previousView
		return m, m.applyPrompt(msg)

	case prompt.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case settings.SavedMsg:
		m.currentView = ViewBoard
		return m, m.applySettings(msg)

	case settings.CancelMsg:
		m.currentView = ViewBoard
		return m, nil

	case finder.JumpMsg:
		m.jumpTo(msg)
		return m, nil

	case finder.CloseMsg:
		m.currentView = ViewBoard
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(string(msg))

	case tea.KeyMsg:
		// Forms and the finder own every key while open.
		if m.currentView == ViewPrompt || m.currentView == ViewSettings || m.currentView == ViewFinder {
			break
		}
		m.clearStatus()

		switch msg.String() {
		case "ctrl+c":
			return m, m.quit()

		case "q":
			if m.currentView == ViewBoard {
				return m, m.quit()
			}

		case "?":
			if m.currentView == ViewCommand {
				break
			}
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case ":":
			if m.currentView == ViewCommand {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewCommand
			return m, m.commandView.Focus()

		case "esc":
			if m.currentView == ViewHelp || m.currentView == ViewCommand {
				m.currentView = m.previousView
				return m, nil
			}
		}

		if m.currentView == ViewBoard {
			if cmd, handled := m.handleBoardKey(msg); handled {
				return m, cmd
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewBoard:
		m.boardView, cmd = m.boardView.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewPicker:
		m.picker, cmd = m.picker.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewPrompt:
		m.promptView, cmd = m.promptView.Update(msg)
	case ViewSettings:
		m.settings, cmd = m.settings.Update(msg)
	case ViewFinder:
		m.finder, cmd = m.finder.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	current := m.state().Current()
	title := fmt.Sprintf("%s %s%s", theme.IconGlyph(current.Icon), theme.PinMarker(current.Pinned), current.Name)
	header := m.layout.RenderHeader(title, m.saveStatus())
	content := m.renderContent()
	text, isError := m.statusText()
	statusBar := m.layout.RenderStatusBar(text, isError)

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewBoard:
		return m.boardView.View()
	case ViewDetail:
		return m.detail.View()
	case ViewPicker:
		return m.picker.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewPrompt:
		return m.promptView.View()
	case ViewSettings:
		return m.settings.View()
	case ViewFinder:
		return m.finder.View()
	default:
		return ""
	}
}

// saveStatus returns a short string describing the autosave state.
func (m Model) saveStatus() string {
	st := m.saver.Status()
	switch {
	case st.State == appsync.SaveRunning || st.Pending > 0:
		return "saving…"
	case m.saveError != nil || st.State == appsync.SaveError:
		return "⚠ not saved"
	case !st.LastSave.IsZero():
		return "saved " + st.LastSave.Format("15:04:05")
	default:
		return ""
	}
}

// statusText returns the status bar text and whether it reports an error.
func (m Model) statusText() (string, bool) {
	if m.statusMsg != "" {
		return m.statusMsg, m.statusError
	}
	if m.saveError != nil && m.currentView == ViewBoard {
		return "⚠ changes are not being saved: " + m.saveError.Error(), true
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back", false
	case ViewCommand:
		return "enter execute | tab complete | esc back", false
	case ViewDetail:
		return "esc back | e edit | p pin | d delete | j/k scroll", false
	case ViewPicker:
		return "enter open | n new | r rename | d delete | p pin | i icon | esc back", false
	case ViewPrompt, ViewSettings:
		return "enter submit | esc cancel", false
	case ViewFinder:
		return "type to search | enter browse/open | / search | esc close", false
	default:
		return "q quit | ? help | n card | N list | b boards | H/L move | / find | : command", false
	}
}

func (m *Model) state() *board.State {
	return m.session.State()
}

func (m *Model) setError(err error) {
	m.statusMsg = err.Error()
	m.statusError = true
}

func (m *Model) setInfo(text string) {
	m.statusMsg = text
	m.statusError = false
}

func (m *Model) clearStatus() {
	m.statusMsg = ""
	m.statusError = false
}

// quit drains pending saves before exiting.
func (m *Model) quit() tea.Cmd {
	m.saver.Stop()
	return tea.Quit
}
