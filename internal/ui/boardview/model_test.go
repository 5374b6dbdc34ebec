package boardview

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/kanban/internal/keys"
	"github.com/nhle/kanban/internal/model"
)

func sampleBoard() model.Board {
	return model.Board{ID: "b", Name: "Board", Lists: []model.List{
		{ID: "todo", Title: "To Do", Position: 0, Cards: []model.Card{
			{ID: "t1", Title: "first", Position: 0},
			{ID: "t2", Title: "second", Position: 1},
			{ID: "t3", Title: "pinned", Position: 5, Pinned: true},
		}},
		{ID: "doing", Title: "Doing", Position: 1, Cards: []model.Card{}},
		{ID: "done", Title: "Done", Position: 0, Pinned: true, Cards: []model.Card{
			{ID: "d1", Title: "shipped"},
		}},
	}}
}

func keyPress(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newModel(t *testing.T) Model {
	t.Helper()
	m := New(keys.DefaultKeyMap(), 120, 30)
	m.SetBoard(sampleBoard())
	return m
}

func TestSetBoard_UsesDisplayOrder(t *testing.T) {
	m := newModel(t)

	l, ok := m.SelectedList()
	require.True(t, ok)
	assert.Equal(t, "done", l.ID, "pinned list comes first")

	next, ok := m.Neighbour(1)
	require.True(t, ok)
	require.Equal(t, "todo", next.ID)
	assert.Equal(t, "t3", next.Cards[0].ID, "pinned card comes first")
}

func TestUpdate_Navigation(t *testing.T) {
	m := newModel(t)

	m, _ = m.Update(keyPress("l"))
	l, _ := m.SelectedList()
	assert.Equal(t, "todo", l.ID)

	m, _ = m.Update(keyPress("j"))
	m, _ = m.Update(keyPress("j"))
	m, _ = m.Update(keyPress("j"))
	c, ok := m.SelectedCard()
	require.True(t, ok)
	assert.Equal(t, "t2", c.ID, "cursor stops at the last card")
	assert.Equal(t, 2, m.SelectedRow())

	m, _ = m.Update(keyPress("l"))
	_, ok = m.SelectedCard()
	assert.False(t, ok, "empty list has no selected card")

	m, _ = m.Update(keyPress("l"))
	l, _ = m.SelectedList()
	assert.Equal(t, "doing", l.ID, "cursor stops at the last list")
}

func TestUpdate_SelectEmitsCard(t *testing.T) {
	m := newModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, CardSelectedMsg{CardID: "d1"}, cmd())
}

func TestSetBoard_KeepsCursorOnSameCard(t *testing.T) {
	m := newModel(t)
	m.Focus("todo", "t2")

	b := sampleBoard()
	b.Lists[0].Cards = append([]model.Card{{ID: "t0", Title: "new"}}, b.Lists[0].Cards...)
	m.SetBoard(b)

	c, ok := m.SelectedCard()
	require.True(t, ok)
	assert.Equal(t, "t2", c.ID)
}

func TestSetBoard_ClampsAfterDelete(t *testing.T) {
	m := newModel(t)
	m.Focus("todo", "t2")

	b := sampleBoard()
	b.Lists[0].Cards = b.Lists[0].Cards[:1]
	b.Lists = b.Lists[:1]
	m.SetBoard(b)

	l, ok := m.SelectedList()
	require.True(t, ok)
	assert.Equal(t, "todo", l.ID)
	c, ok := m.SelectedCard()
	require.True(t, ok)
	assert.Equal(t, "t1", c.ID)
}

func TestSetBoard_OtherBoardResetsCursor(t *testing.T) {
	m := newModel(t)
	m.Focus("todo", "t2")

	m.SetBoard(model.Board{ID: "other", Lists: []model.List{
		{ID: "x", Title: "X", Cards: []model.Card{{ID: "x1"}, {ID: "x2"}, {ID: "x3"}}},
	}})

	c, ok := m.SelectedCard()
	require.True(t, ok)
	assert.Equal(t, "x1", c.ID)
}

func TestView_EmptyBoard(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 20)
	m.SetBoard(model.Board{ID: "empty"})

	assert.Contains(t, m.View(), "no lists")
	_, ok := m.SelectedList()
	assert.False(t, ok)
}

func TestView_RendersTitles(t *testing.T) {
	m := newModel(t)
	out := m.View()

	assert.Contains(t, out, "To Do (3)")
	assert.Contains(t, out, "shipped")
}
