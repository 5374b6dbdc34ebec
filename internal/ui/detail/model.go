package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/kanban/internal/keys"
	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/theme"
)

// BackMsg signals the parent to navigate back to the board view.
type BackMsg struct{}

// Action names carried by ActionMsg.
const (
	ActionEdit   = "edit"
	ActionPin    = "pin"
	ActionDelete = "delete"
)

// ActionMsg signals the parent to execute an action on the displayed card.
type ActionMsg struct {
	Action string
	CardID string
}

// Model is the card detail view component.
type Model struct {
	card      *model.Card
	listTitle string
	viewport  viewport.Model
	keys      *keys.KeyMap
	width     int
	height    int
}

// New creates a new detail view model.
func New(keys *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     keys,
		width:    width,
		height:   height,
	}
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }
		case key.Matches(msg, m.keys.EditCard):
			return m, m.action(ActionEdit)
		case key.Matches(msg, m.keys.PinCard):
			return m, m.action(ActionPin)
		case key.Matches(msg, m.keys.DeleteCard):
			return m, m.action(ActionDelete)
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if m.card == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No card selected")
	}

	return m.viewport.View()
}

// SetCard updates the card being displayed and re-renders the content.
// A nil card clears the view.
func (m *Model) SetCard(c *model.Card, listTitle string) {
	m.card = c
	m.listTitle = listTitle
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// CardID returns the ID of the displayed card, or "" when none is shown.
func (m Model) CardID() string {
	if m.card == nil {
		return ""
	}
	return m.card.ID
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.viewport.SetContent(m.renderContent())
}

func (m Model) action(name string) tea.Cmd {
	if m.card == nil {
		return nil
	}
	id := m.card.ID
	return func() tea.Msg { return ActionMsg{Action: name, CardID: id} }
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.card == nil {
		return ""
	}

	c := m.card
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(theme.PinMarker(c.Pinned)+c.Title))
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	if m.listTitle != "" {
		sections = append(sections, fmt.Sprintf(
			"%s     %s",
			metaStyle.Render("List:"),
			valStyle.Render(m.listTitle),
		))
	}
	if !c.CreatedAt.IsZero() {
		sections = append(sections, fmt.Sprintf(
			"%s  %s",
			metaStyle.Render("Created:"),
			valStyle.Render(c.CreatedAt.Local().Format("2006-01-02 15:04")),
		))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", max(min(m.width-4, 80), 0)))
	sections = append(sections, "", separator, "")

	descHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)
	sections = append(sections, descHeaderStyle.Render("Description"))

	body := c.Description
	if body == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No description")
	}
	sections = append(sections, body)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
