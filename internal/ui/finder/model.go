// Package finder is a searchable list of every card across all boards.
package finder

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/kanban/internal/keys"
	"github.com/nhle/kanban/internal/theme"
)

// JumpMsg is sent when the user picks a card to show on its board.
type JumpMsg struct {
	BoardID string
	ListID  string
	CardID  string
}

// CloseMsg is sent when the finder is dismissed.
type CloseMsg struct{}

// Model is the card finder view. It starts in search mode; enter leaves
// search mode so the results can be browsed.
type Model struct {
	list        list.Model
	keys        *keys.KeyMap
	entries     []Entry
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new finder model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, entryDelegate{}, width, height-2)
	l.Title = "Find Card"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search cards..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		keys:        k,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Open loads entries, clears the query and focuses the search input.
func (m *Model) Open(entries []Entry) tea.Cmd {
	m.entries = entries
	m.searchMode = true
	m.searchInput.Reset()
	m.applyQuery()
	return m.searchInput.Focus()
}

// Query returns the current search text.
func (m Model) Query() string {
	return m.searchInput.Value()
}

// Results returns the entries matching the current query.
func (m Model) Results() []Entry {
	items := m.list.Items()
	out := make([]Entry, 0, len(items))
	for _, it := range items {
		if e, ok := it.(entryItem); ok {
			out = append(out, e.Entry)
		}
	}
	return out
}

// Update handles messages for the finder.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "down":
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil
	case "esc":
		return m, closeCmd
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.applyQuery()
	return m, cmd
}

func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		it, ok := m.list.SelectedItem().(entryItem)
		if !ok {
			return m, nil
		}
		jump := JumpMsg{BoardID: it.BoardID, ListID: it.ListID, CardID: it.Card.ID}
		return m, func() tea.Msg { return jump }

	case key.Matches(msg, m.keys.Back):
		return m, closeCmd

	case key.Matches(msg, m.keys.Find):
		m.searchMode = true
		return m, m.searchInput.Focus()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func closeCmd() tea.Msg { return CloseMsg{} }

// applyQuery refreshes the list to the entries matching the search text.
func (m *Model) applyQuery() {
	query := m.searchInput.Value()
	items := make([]list.Item, 0, len(m.entries))
	for _, e := range m.entries {
		if e.matches(query) {
			items = append(items, entryItem{e})
		}
	}
	m.list.SetItems(items)
	m.list.ResetSelected()
}

// View renders the search bar and results.
func (m Model) View() string {
	searchBar := lipgloss.NewStyle().
		Foreground(theme.ColorWhite).
		Padding(0, 1).
		Render(m.searchInput.View())

	if len(m.list.Items()) == 0 {
		empty := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height - 2).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		msg := "No cards yet."
		if m.Query() != "" {
			msg = "No matching cards."
		}
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, empty.Render(msg))
	}
	return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
