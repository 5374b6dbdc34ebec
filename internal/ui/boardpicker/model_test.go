package boardpicker

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/kanban/internal/keys"
	"github.com/nhle/kanban/internal/model"
)

func boards() []model.Board {
	return []model.Board{
		{ID: "a", Name: "Alpha", Pinned: true},
		{ID: "b", Name: "Beta", Icon: model.IconHome},
		{ID: "c", Name: "Gamma"},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSetBoards_SelectsCurrent(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetBoards(boards(), "b")

	sel, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "b", sel.ID)
}

func TestSetBoards_FollowsSelection(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetBoards(boards(), "a")
	m.Select("c")

	reordered := []model.Board{{ID: "c", Name: "Gamma", Pinned: true}, {ID: "a"}, {ID: "b"}}
	m.SetBoards(reordered, "a")

	sel, _ := m.Selected()
	assert.Equal(t, "c", sel.ID)
}

func TestUpdate_NavigationWraps(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetBoards(boards(), "a")

	m, _ = m.Update(runes("k"))
	sel, _ := m.Selected()
	assert.Equal(t, "c", sel.ID)

	m, _ = m.Update(runes("j"))
	sel, _ = m.Selected()
	assert.Equal(t, "a", sel.ID)
}

func TestUpdate_EmitsActions(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want tea.Msg
	}{
		{"open", tea.KeyMsg{Type: tea.KeyEnter}, ActionMsg{Action: ActionOpen, BoardID: "b"}},
		{"new", runes("n"), ActionMsg{Action: ActionNew}},
		{"rename", runes("r"), ActionMsg{Action: ActionRename, BoardID: "b"}},
		{"delete", runes("d"), ActionMsg{Action: ActionDelete, BoardID: "b"}},
		{"pin", runes("p"), ActionMsg{Action: ActionPin, BoardID: "b"}},
		{"icon", runes("i"), ActionMsg{Action: ActionCycleIcon, BoardID: "b"}},
		{"close", tea.KeyMsg{Type: tea.KeyEsc}, CloseMsg{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(keys.DefaultKeyMap(), 80, 24)
			m.SetBoards(boards(), "b")

			_, cmd := m.Update(tt.msg)
			require.NotNil(t, cmd)
			assert.Equal(t, tt.want, cmd())
		})
	}
}

func TestNextIcon(t *testing.T) {
	assert.Equal(t, model.IconBriefcase, NextIcon(model.IconDefault))
	assert.Equal(t, model.IconDefault, NextIcon(model.IconProject))
	assert.Equal(t, model.IconDefault, NextIcon("unknown"))
}

func TestView_ListsBoards(t *testing.T) {
	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetBoards(boards(), "a")

	out := m.View()
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "Gamma")
	assert.Contains(t, out, "(open)")
}
