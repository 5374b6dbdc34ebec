// Package board holds the in-memory kanban state: the ordering rules applied
// to every sibling group and the single owner through which all mutations pass.
package board

import (
	"sort"

	"github.com/nhle/kanban/internal/model"
)

// OrderedBoards returns the boards of a snapshot pinned first, then by name.
// Boards with equal keys are ordered by ID so the result is deterministic.
func OrderedBoards(snap model.Snapshot) []model.Board {
	out := make([]model.Board, 0, len(snap))
	for _, b := range snap {
		out = append(out, b)
	}
	sortBoards(out)
	return out
}

// sortBoards orders boards pinned first, then by name ascending, in place.
func sortBoards(boards []model.Board) {
	sort.SliceStable(boards, func(i, j int) bool {
		a, b := boards[i], boards[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}

// OrderedLists returns a board's lists in effective order without modifying
// the board: pinned first, then position ascending, ties in stored order.
func OrderedLists(b model.Board) []model.List {
	out := make([]model.List, len(b.Lists))
	copy(out, b.Lists)
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i].Pinned, out[i].Position, out[j].Pinned, out[j].Position)
	})
	return out
}

// OrderedCards returns a list's cards in effective order without modifying
// the list: pinned first, then position ascending, ties in stored order.
func OrderedCards(l model.List) []model.Card {
	out := make([]model.Card, len(l.Cards))
	copy(out, l.Cards)
	sortCards(out)
	return out
}

func sortCards(cards []model.Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		return less(cards[i].Pinned, cards[i].Position, cards[j].Pinned, cards[j].Position)
	})
}

// less compares two (pinned, position) sort keys.
func less(aPinned bool, aPos int, bPinned bool, bPos int) bool {
	if aPinned != bPinned {
		return aPinned
	}
	return aPos < bPos
}
