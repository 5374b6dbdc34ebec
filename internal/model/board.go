package model

import (
	"errors"
	"strings"
	"time"
)

// Validation errors returned by the entity constructors.
var (
	ErrEmptyName  = errors.New("name must not be empty")
	ErrEmptyTitle = errors.New("title must not be empty")
)

// CreatedAtLayout is the ISO 8601 layout used to store card creation times.
const CreatedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// Icon is the symbolic glyph shown next to a board.
type Icon string

// Known board icons.
const (
	IconDefault   Icon = "default"
	IconBriefcase Icon = "briefcase"
	IconHome      Icon = "home"
	IconProject   Icon = "project"
)

// Icons lists every known icon in display order.
var Icons = []Icon{IconDefault, IconBriefcase, IconHome, IconProject}

// ParseIcon maps a stored or user supplied tag to an Icon.
// Empty and unrecognized values (including the legacy "board") become IconDefault.
func ParseIcon(s string) Icon {
	switch Icon(strings.ToLower(strings.TrimSpace(s))) {
	case IconBriefcase:
		return IconBriefcase
	case IconHome:
		return IconHome
	case IconProject:
		return IconProject
	default:
		return IconDefault
	}
}

// Board is the top-level container of lists.
type Board struct {
	ID     string `json:"id" db:"id"`
	Name   string `json:"name" db:"name"`
	Icon   Icon   `json:"icon" db:"icon"`
	Pinned bool   `json:"pinned" db:"pinned"`
	Lists  []List `json:"lists" db:"-"`
}

// List is a named column within a board.
type List struct {
	ID       string `json:"id" db:"id"`
	Title    string `json:"title" db:"title"`
	Position int    `json:"position" db:"position"`
	Pinned   bool   `json:"pinned" db:"pinned"`
	Cards    []Card `json:"cards" db:"-"`
}

// Card is a single work item within a list.
type Card struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	Position    int       `json:"position" db:"position"`
	Pinned      bool      `json:"pinned" db:"pinned"`
}

// NewBoard builds a board with no lists. The name is trimmed and must not be empty.
func NewBoard(id, name string, icon Icon) (Board, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Board{}, ErrEmptyName
	}
	return Board{
		ID:    id,
		Name:  name,
		Icon:  ParseIcon(string(icon)),
		Lists: []List{},
	}, nil
}

// NewList builds an unpinned, empty list at position 0.
func NewList(id, title string) (List, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return List{}, ErrEmptyTitle
	}
	return List{ID: id, Title: title, Cards: []Card{}}, nil
}

// NewCard builds an unpinned card at position 0. createdAt is truncated to
// millisecond precision so it survives a round trip through storage.
func NewCard(id, title, description string, createdAt time.Time) (Card, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Card{}, ErrEmptyTitle
	}
	return Card{
		ID:          id,
		Title:       title,
		Description: strings.TrimSpace(description),
		CreatedAt:   createdAt.UTC().Truncate(time.Millisecond),
	}, nil
}

// FormatCreatedAt renders a creation time in the stored ISO 8601 form.
func FormatCreatedAt(t time.Time) string {
	return t.UTC().Format(CreatedAtLayout)
}

// ParseCreatedAt parses a stored creation time.
func ParseCreatedAt(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// Clone returns a deep copy of the board.
func (b Board) Clone() Board {
	out := b
	out.Lists = make([]List, len(b.Lists))
	for i, l := range b.Lists {
		out.Lists[i] = l.Clone()
	}
	return out
}

// Clone returns a deep copy of the list.
func (l List) Clone() List {
	out := l
	out.Cards = make([]Card, len(l.Cards))
	copy(out.Cards, l.Cards)
	return out
}

// CardCount returns the number of cards across all lists of the board.
func (b Board) CardCount() int {
	n := 0
	for _, l := range b.Lists {
		n += len(l.Cards)
	}
	return n
}

// Snapshot is the full application state keyed by board ID.
type Snapshot map[string]Board

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for id, b := range s {
		out[id] = b.Clone()
	}
	return out
}

// Counts returns the number of boards, lists and cards in the snapshot.
func (s Snapshot) Counts() (boards, lists, cards int) {
	for _, b := range s {
		boards++
		lists += len(b.Lists)
		cards += b.CardCount()
	}
	return boards, lists, cards
}
