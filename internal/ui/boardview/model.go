package boardview

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/kanban/internal/board"
	"github.com/nhle/kanban/internal/keys"
	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/theme"
	"github.com/nhle/kanban/internal/ui"
)

// CardSelectedMsg is sent when the user opens the card under the cursor.
type CardSelectedMsg struct {
	CardID string
}

// Model renders the current board as columns of cards and tracks the cursor.
// Lists and cards are kept in effective display order.
type Model struct {
	keys   *keys.KeyMap
	board  model.Board
	lists  []model.List
	col    int
	row    int
	offset int
	width  int
	height int
}

// New creates a new board view model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, width: width, height: height}
}

// SetBoard replaces the displayed board. The cursor stays on the same list and
// card when they still exist; otherwise it is clamped.
func (m *Model) SetBoard(b model.Board) {
	listID, cardID := m.selectedIDs()
	if b.ID != m.board.ID {
		listID, cardID = "", ""
		m.col, m.row, m.offset = 0, 0, 0
	}

	m.board = b
	m.lists = board.OrderedLists(b)
	for i := range m.lists {
		m.lists[i].Cards = board.OrderedCards(m.lists[i])
	}
	m.Focus(listID, cardID)
}

// Focus moves the cursor to the given list and card. Unknown IDs leave the
// cursor where it is, clamped to the board.
func (m *Model) Focus(listID, cardID string) {
	for i, l := range m.lists {
		if l.ID != listID {
			continue
		}
		m.col = i
		for j, c := range l.Cards {
			if c.ID == cardID {
				m.row = j
			}
		}
		break
	}
	m.clamp()
}

// SelectedList returns the list under the cursor.
func (m Model) SelectedList() (model.List, bool) {
	if m.col < 0 || m.col >= len(m.lists) {
		return model.List{}, false
	}
	return m.lists[m.col], true
}

// SelectedCard returns the card under the cursor.
func (m Model) SelectedCard() (model.Card, bool) {
	l, ok := m.SelectedList()
	if !ok || m.row < 0 || m.row >= len(l.Cards) {
		return model.Card{}, false
	}
	return l.Cards[m.row], true
}

// SelectedRow returns the cursor's index within the selected list.
func (m Model) SelectedRow() int {
	return m.row
}

// Neighbour returns the list delta columns away from the cursor.
func (m Model) Neighbour(delta int) (model.List, bool) {
	i := m.col + delta
	if i < 0 || i >= len(m.lists) {
		return model.List{}, false
	}
	return m.lists[i], true
}

// Update handles cursor movement and card selection.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Left):
			if m.col > 0 {
				m.col--
				m.row = 0
			}
		case key.Matches(msg, m.keys.Right):
			if m.col < len(m.lists)-1 {
				m.col++
				m.row = 0
			}
		case key.Matches(msg, m.keys.Up):
			if m.row > 0 {
				m.row--
			}
		case key.Matches(msg, m.keys.Down):
			if l, ok := m.SelectedList(); ok && m.row < len(l.Cards)-1 {
				m.row++
			}
		case key.Matches(msg, m.keys.Select):
			if c, ok := m.SelectedCard(); ok {
				id := c.ID
				return m, func() tea.Msg { return CardSelectedMsg{CardID: id} }
			}
		}
		m.clamp()
	}
	return m, nil
}

// View renders the visible columns side by side.
func (m Model) View() string {
	if len(m.lists) == 0 {
		return theme.HelpStyle.Padding(1, 2).Render("This board has no lists. Press N to add one.")
	}

	colWidth := ui.ColumnWidth(m.width, len(m.lists))
	visible := ui.VisibleColumns(m.width, colWidth)

	var cols []string
	for i := m.offset; i < len(m.lists) && i < m.offset+visible; i++ {
		cols = append(cols, m.renderColumn(i, colWidth))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// SetSize updates the board view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clamp()
}

func (m Model) renderColumn(i, width int) string {
	l := m.lists[i]
	focused := i == m.col

	style := theme.ColumnStyle
	if focused {
		style = theme.FocusedColumnStyle
	}
	// Border and padding take four cells.
	inner := width - 4
	if inner < 1 {
		inner = 1
	}
	clip := lipgloss.NewStyle().MaxWidth(inner)

	title := theme.ColumnTitleStyle.Render(
		clip.Render(fmt.Sprintf("%s%s (%d)", theme.PinMarker(l.Pinned), l.Title, len(l.Cards))),
	)

	lines := []string{title}
	if len(l.Cards) == 0 {
		lines = append(lines, theme.DimmedStyle.Render("no cards"))
	}

	start, end := m.cardWindow(l, focused)
	if start > 0 {
		lines = append(lines, theme.DimmedStyle.Render(fmt.Sprintf("↑ %d more", start)))
	}
	for j := start; j < end; j++ {
		c := l.Cards[j]
		text := clip.Render(theme.PinMarker(c.Pinned) + c.Title)
		if focused && j == m.row {
			lines = append(lines, theme.SelectedItemStyle.Render(text))
		} else {
			lines = append(lines, theme.ListItemStyle.Render(text))
		}
	}
	if end < len(l.Cards) {
		lines = append(lines, theme.DimmedStyle.Render(fmt.Sprintf("↓ %d more", len(l.Cards)-end)))
	}

	return style.
		Width(width - 2).
		Height(m.height - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// cardWindow returns the range of cards that fits in the column, scrolled so
// the cursor stays visible in the focused column.
func (m Model) cardWindow(l model.List, focused bool) (int, int) {
	// Title, its margin, borders and two scroll markers.
	rows := m.height - 6
	if rows < 1 {
		rows = 1
	}
	if len(l.Cards) <= rows {
		return 0, len(l.Cards)
	}
	start := 0
	if focused && m.row >= rows {
		start = m.row - rows + 1
	}
	end := start + rows
	if end > len(l.Cards) {
		end = len(l.Cards)
	}
	return start, end
}

func (m Model) selectedIDs() (string, string) {
	var listID, cardID string
	if l, ok := m.SelectedList(); ok {
		listID = l.ID
	}
	if c, ok := m.SelectedCard(); ok {
		cardID = c.ID
	}
	return listID, cardID
}

func (m *Model) clamp() {
	if m.col >= len(m.lists) {
		m.col = len(m.lists) - 1
	}
	if m.col < 0 {
		m.col = 0
	}
	if l, ok := m.SelectedList(); ok && m.row >= len(l.Cards) {
		m.row = len(l.Cards) - 1
	}
	if m.row < 0 {
		m.row = 0
	}

	if len(m.lists) == 0 {
		m.offset = 0
		return
	}
	visible := ui.VisibleColumns(m.width, ui.ColumnWidth(m.width, len(m.lists)))
	if m.col < m.offset {
		m.offset = m.col
	}
	if m.col >= m.offset+visible {
		m.offset = m.col - visible + 1
	}
}
