package finder

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/kanban/internal/board"
	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/theme"
)

// Entry is one card together with where it lives.
type Entry struct {
	BoardID   string
	BoardName string
	ListID    string
	ListTitle string
	Card      model.Card
}

// Entries flattens boards into finder entries, keeping board order and each
// board's effective list and card order.
func Entries(boards []model.Board) []Entry {
	var out []Entry
	for _, b := range boards {
		for _, l := range board.OrderedLists(b) {
			for _, c := range board.OrderedCards(l) {
				out = append(out, Entry{
					BoardID:   b.ID,
					BoardName: b.Name,
					ListID:    l.ID,
					ListTitle: l.Title,
					Card:      c,
				})
			}
		}
	}
	return out
}

// matches reports whether every word of query appears in the card title,
// description, list title or board name, ignoring case.
func (e Entry) matches(query string) bool {
	hay := strings.ToLower(strings.Join([]string{e.Card.Title, e.Card.Description, e.ListTitle, e.BoardName}, " "))
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if !strings.Contains(hay, word) {
			return false
		}
	}
	return true
}

// entryItem adapts an Entry to bubbles/list.
type entryItem struct {
	Entry
}

func (i entryItem) FilterValue() string { return i.Card.Title }

func (i entryItem) Title() string { return i.Card.Title }

func (i entryItem) Description() string {
	return fmt.Sprintf("%s › %s", i.BoardName, i.ListTitle)
}

// entryDelegate renders one entry per line.
type entryDelegate struct{}

func (d entryDelegate) Height() int { return 1 }

func (d entryDelegate) Spacing() int { return 0 }

func (d entryDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d entryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(entryItem)
	if !ok {
		return
	}

	line := theme.PinMarker(it.Card.Pinned) + it.Title() + "  " + theme.DimmedStyle.Render(it.Description())
	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}
	fmt.Fprint(w, line)
}
