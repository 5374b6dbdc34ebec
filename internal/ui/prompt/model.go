package prompt

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/theme"
)

// Kind identifies what a prompt collects input for.
type Kind int

const (
	KindNewBoard Kind = iota
	KindRenameBoard
	KindNewList
	KindRenameList
	KindNewCard
	KindEditCard
	KindDeleteBoard
	KindDeleteList
	KindDeleteCard
)

// SubmitMsg is dispatched when the user completes a prompt. TargetID is the
// entity the prompt was opened for: the parent for creations, the entity
// itself otherwise. Delete prompts are only submitted when confirmed.
type SubmitMsg struct {
	Kind        Kind
	TargetID    string
	Name        string
	Description string
	Icon        model.Icon
}

// CancelMsg is dispatched when the user aborts or declines a prompt.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	name        string
	description string
	icon        model.Icon
	confirm     bool
}

// Model is the Bubble Tea model for every create, edit and delete prompt.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	kind     Kind
	targetID string
	heading  string
	width    int
	height   int
}

// New creates a new prompt model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{icon: model.IconDefault},
		width:  width,
		height: height,
	}
}

// StartNewBoard opens the new board prompt.
func (m *Model) StartNewBoard() tea.Cmd {
	m.reset(KindNewBoard, "", "New Board")
	return m.start(m.nameField("Name", "Board name"), m.iconField())
}

// StartRenameBoard opens the board edit prompt prefilled with b.
func (m *Model) StartRenameBoard(b model.Board) tea.Cmd {
	m.reset(KindRenameBoard, b.ID, "Edit Board")
	m.fb.name = b.Name
	m.fb.icon = b.Icon
	return m.start(m.nameField("Name", "Board name"), m.iconField())
}

// StartNewList opens the new list prompt for the given board.
func (m *Model) StartNewList(boardID string) tea.Cmd {
	m.reset(KindNewList, boardID, "New List")
	return m.start(m.nameField("Title", "List title"))
}

// StartRenameList opens the list rename prompt prefilled with l.
func (m *Model) StartRenameList(l model.List) tea.Cmd {
	m.reset(KindRenameList, l.ID, "Rename List")
	m.fb.name = l.Title
	return m.start(m.nameField("Title", "List title"))
}

// StartNewCard opens the new card prompt for the given list.
func (m *Model) StartNewCard(listID string) tea.Cmd {
	m.reset(KindNewCard, listID, "New Card")
	return m.start(m.nameField("Title", "What needs to be done?"), m.descriptionField())
}

// StartEditCard opens the card edit prompt prefilled with c.
func (m *Model) StartEditCard(c model.Card) tea.Cmd {
	m.reset(KindEditCard, c.ID, "Edit Card")
	m.fb.name = c.Title
	m.fb.description = c.Description
	return m.start(m.nameField("Title", "What needs to be done?"), m.descriptionField())
}

// StartDelete opens a confirmation prompt for deleting the named entity.
// kind must be one of the delete kinds.
func (m *Model) StartDelete(kind Kind, targetID, name, consequence string) tea.Cmd {
	m.reset(kind, targetID, "Confirm Delete")
	return m.start(
		huh.NewConfirm().
			Title(fmt.Sprintf("Delete %q?", name)).
			Description(consequence).
			Affirmative("Yes, delete").
			Negative("Cancel").
			Value(&m.fb.confirm),
	)
}

// Kind returns the kind of the active prompt.
func (m Model) Kind() Kind {
	return m.kind
}

// Update handles messages for the prompt.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the prompt.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(m.heading) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) reset(kind Kind, targetID, heading string) {
	m.kind = kind
	m.targetID = targetID
	m.heading = heading
	m.fb.name = ""
	m.fb.description = ""
	m.fb.icon = model.IconDefault
	m.fb.confirm = false
}

func (m *Model) start(fields ...huh.Field) tea.Cmd {
	m.form = huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight()).WithKeyMap(FormKeyMap())
	return m.form.Init()
}

func (m *Model) nameField(label, placeholder string) huh.Field {
	return huh.NewInput().
		Title(label).
		Placeholder(placeholder).
		Value(&m.fb.name).
		Validate(validateRequired(label))
}

func (m *Model) descriptionField() huh.Field {
	return huh.NewText().
		Title("Description").
		Placeholder("Optional details...").
		Value(&m.fb.description)
}

func (m *Model) iconField() huh.Field {
	opts := make([]huh.Option[model.Icon], len(model.Icons))
	for i, icon := range model.Icons {
		opts[i] = huh.NewOption(theme.IconGlyph(icon)+" "+string(icon), icon)
	}
	return huh.NewSelect[model.Icon]().
		Title("Icon").
		Options(opts...).
		Value(&m.fb.icon)
}

// FormKeyMap is huh's default key map with esc added to abort.
func FormKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("esc", "ctrl+c"))
	return km
}

func (m Model) handleSubmit() tea.Cmd {
	switch m.kind {
	case KindDeleteBoard, KindDeleteList, KindDeleteCard:
		if !m.fb.confirm {
			return func() tea.Msg { return CancelMsg{} }
		}
	}

	out := SubmitMsg{
		Kind:        m.kind,
		TargetID:    m.targetID,
		Name:        strings.TrimSpace(m.fb.name),
		Description: strings.TrimSpace(m.fb.description),
		Icon:        m.fb.icon,
	}
	return func() tea.Msg { return out }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
