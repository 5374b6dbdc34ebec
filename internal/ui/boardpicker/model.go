package boardpicker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/kanban/internal/keys"
	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/theme"
)

// CloseMsg signals the parent to close the board picker.
type CloseMsg struct{}

// Actions carried by ActionMsg.
const (
	ActionOpen      = "open"
	ActionNew       = "new"
	ActionRename    = "rename"
	ActionDelete    = "delete"
	ActionPin       = "pin"
	ActionCycleIcon = "icon"
)

// ActionMsg asks the parent to act on a board. BoardID is empty for ActionNew.
type ActionMsg struct {
	Action  string
	BoardID string
}

// Model is the Bubble Tea model for the board sidebar.
type Model struct {
	keys        *keys.KeyMap
	boards      []model.Board
	currentID   string
	selectedIdx int
	width       int
	height      int
}

// New creates a new board picker model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, width: width, height: height}
}

// SetBoards replaces the listed boards. The selection follows the board it
// was on, falling back to the current board.
func (m *Model) SetBoards(boards []model.Board, currentID string) {
	prev := ""
	if b, ok := m.Selected(); ok {
		prev = b.ID
	}
	m.boards = boards
	m.currentID = currentID

	m.selectedIdx = 0
	for _, want := range []string{prev, currentID} {
		if i := m.index(want); i >= 0 {
			m.selectedIdx = i
			return
		}
	}
}

// Select moves the selection to the given board.
func (m *Model) Select(boardID string) {
	if i := m.index(boardID); i >= 0 {
		m.selectedIdx = i
	}
}

// Selected returns the board under the cursor.
func (m Model) Selected() (model.Board, bool) {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.boards) {
		return model.Board{}, false
	}
	return m.boards[m.selectedIdx], true
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Boards):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.boards) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.boards)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.boards) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.boards) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.NewBoard), msg.String() == "n":
		return m, emit(ActionNew, "")

	case key.Matches(msg, m.keys.Select):
		return m, m.emitSelected(ActionOpen)
	case key.Matches(msg, m.keys.Rename):
		return m, m.emitSelected(ActionRename)
	case key.Matches(msg, m.keys.Delete):
		return m, m.emitSelected(ActionDelete)
	case key.Matches(msg, m.keys.Pin):
		return m, m.emitSelected(ActionPin)
	case key.Matches(msg, m.keys.CycleIcon):
		return m, m.emitSelected(ActionCycleIcon)
	}
	return m, nil
}

// View renders the board list.
func (m Model) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Boards"))
	b.WriteString("\n\n")

	for i, board := range m.boards {
		label := fmt.Sprintf("%s  %s%s  %s",
			theme.IconStyle(board.Icon).Render(theme.IconGlyph(board.Icon)),
			theme.PinMarker(board.Pinned),
			board.Name,
			theme.DimmedStyle.Render(fmt.Sprintf("%d cards", board.CardCount())),
		)
		if board.ID == m.currentID {
			label += theme.DimmedStyle.Render("  (open)")
		}

		if i == m.selectedIdx {
			b.WriteString(theme.SelectedItemStyle.Render(label))
		} else {
			b.WriteString(theme.ListItemStyle.Render(label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(
		"enter open | n new | r rename | d delete | p pin | i icon | esc back",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// NextIcon returns the icon after icon in model.Icons, wrapping around.
func NextIcon(icon model.Icon) model.Icon {
	for i, candidate := range model.Icons {
		if candidate == icon {
			return model.Icons[(i+1)%len(model.Icons)]
		}
	}
	return model.IconDefault
}

func (m Model) emitSelected(action string) tea.Cmd {
	b, ok := m.Selected()
	if !ok {
		return nil
	}
	return emit(action, b.ID)
}

func emit(action, boardID string) tea.Cmd {
	return func() tea.Msg { return ActionMsg{Action: action, BoardID: boardID} }
}

func (m Model) index(boardID string) int {
	if boardID == "" {
		return -1
	}
	for i, b := range m.boards {
		if b.ID == boardID {
			return i
		}
	}
	return -1
}
