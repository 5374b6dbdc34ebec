package board

import (
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/nhle/kanban/internal/model"
)

// Default list titles given to every new board.
var DefaultListTitles = []string{"To Do", "In Progress", "Completed"}

// State owns the boards of a running session. All changes go through its
// methods so the invariants hold: IDs are unique, every list belongs to one
// board, every card to one list, and at least one board always exists.
//
// Mutations that reference an unknown ID do nothing and log a warning.
// State is not safe for concurrent use.
type State struct {
	// boards is the sidebar sequence; newly created boards go to the front.
	boards  []model.Board
	current string

	now   func() time.Time
	newID func() string
	log   log.FieldLogger
}

// Option configures a State.
type Option func(*State)

// WithClock sets the time source used for card creation times.
func WithClock(now func() time.Time) Option {
	return func(s *State) { s.now = now }
}

// WithIDGenerator sets the function used to mint entity IDs.
func WithIDGenerator(newID func() string) Option {
	return func(s *State) { s.newID = newID }
}

// WithLogger sets the logger used for referential diagnostics.
func WithLogger(l log.FieldLogger) Option {
	return func(s *State) { s.log = l }
}

func newState(opts []Option) *State {
	s := &State{
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
		log:   log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromSnapshot builds a State from a loaded snapshot. Boards are sequenced by
// OrderedBoards and the first becomes current.
func FromSnapshot(snap model.Snapshot, opts ...Option) (*State, error) {
	if len(snap) == 0 {
		return nil, ErrNoBoards
	}
	s := newState(opts)
	s.boards = OrderedBoards(snap.Clone())
	for i := range s.boards {
		s.boards[i].Icon = model.ParseIcon(string(s.boards[i].Icon))
	}
	s.current = s.boards[0].ID
	return s, nil
}

// Snapshot returns a deep copy of the full state keyed by board ID.
func (s *State) Snapshot() model.Snapshot {
	snap := make(model.Snapshot, len(s.boards))
	for _, b := range s.boards {
		snap[b.ID] = b.Clone()
	}
	return snap
}

// Boards returns copies of all boards in sidebar order: pinned boards first,
// each group in creation sequence with the newest first.
func (s *State) Boards() []model.Board {
	out := make([]model.Board, 0, len(s.boards))
	for _, b := range s.boards {
		if b.Pinned {
			out = append(out, b.Clone())
		}
	}
	for _, b := range s.boards {
		if !b.Pinned {
			out = append(out, b.Clone())
		}
	}
	return out
}

// Board returns a copy of the board with the given ID.
func (s *State) Board(id string) (model.Board, bool) {
	i := s.boardIndex(id)
	if i < 0 {
		return model.Board{}, false
	}
	return s.boards[i].Clone(), true
}

// Len returns the number of boards.
func (s *State) Len() int { return len(s.boards) }

// CurrentID returns the ID of the board being viewed.
func (s *State) CurrentID() string { return s.current }

// Current returns a copy of the board being viewed.
func (s *State) Current() model.Board {
	b, _ := s.Board(s.current)
	return b
}

// SetCurrentBoard switches the board being viewed.
func (s *State) SetCurrentBoard(boardID string) {
	if s.boardIndex(boardID) < 0 {
		s.log.WithField("board", boardID).Warn("set current board: unknown board")
		return
	}
	s.current = boardID
}

// CreateBoard adds a board with the default lists, places it first among the
// unpinned boards and makes it current. It returns the new board's ID.
func (s *State) CreateBoard(name string, icon model.Icon) (string, error) {
	b, err := model.NewBoard(s.newID(), name, icon)
	if err != nil {
		return "", err
	}
	for _, title := range DefaultListTitles {
		l, err := model.NewList(s.newID(), title)
		if err != nil {
			return "", err
		}
		b.Lists = append(b.Lists, l)
	}

	s.boards = append([]model.Board{b}, s.boards...)
	s.current = b.ID
	return b.ID, nil
}

// DeleteBoard removes a board together with its lists and cards. Deleting the
// only board is rejected with ErrLastBoard. If the current board is removed,
// the first remaining board in OrderedBoards order becomes current.
func (s *State) DeleteBoard(boardID string) error {
	i := s.boardIndex(boardID)
	if i < 0 {
		s.log.WithField("board", boardID).Warn("delete board: unknown board")
		return nil
	}
	if len(s.boards) <= 1 {
		return ErrLastBoard
	}

	s.boards = append(s.boards[:i], s.boards[i+1:]...)
	if s.current == boardID {
		ordered := make([]model.Board, len(s.boards))
		copy(ordered, s.boards)
		sortBoards(ordered)
		s.current = ordered[0].ID
	}
	return nil
}

// RenameBoard changes a board's name. An unchanged name is a no-op.
func (s *State) RenameBoard(boardID, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrEmptyName
	}
	i := s.boardIndex(boardID)
	if i < 0 {
		s.log.WithField("board", boardID).Warn("rename board: unknown board")
		return nil
	}
	s.boards[i].Name = newName
	return nil
}

// SetBoardIcon changes a board's icon. Unrecognized icons become the default.
func (s *State) SetBoardIcon(boardID string, icon model.Icon) {
	i := s.boardIndex(boardID)
	if i < 0 {
		s.log.WithField("board", boardID).Warn("set board icon: unknown board")
		return
	}
	s.boards[i].Icon = model.ParseIcon(string(icon))
}

// ToggleBoardPin flips a board's pinned flag.
func (s *State) ToggleBoardPin(boardID string) {
	i := s.boardIndex(boardID)
	if i < 0 {
		s.log.WithField("board", boardID).Warn("toggle board pin: unknown board")
		return
	}
	s.boards[i].Pinned = !s.boards[i].Pinned
}

// CreateList appends an empty, unpinned list at position 0 to a board and
// returns its ID. An unknown board yields an empty ID and no error.
func (s *State) CreateList(boardID, title string) (string, error) {
	l, err := model.NewList(s.newID(), title)
	if err != nil {
		return "", err
	}
	i := s.boardIndex(boardID)
	if i < 0 {
		s.log.WithField("board", boardID).Warn("create list: unknown board")
		return "", nil
	}
	s.boards[i].Lists = append(s.boards[i].Lists, l)
	return l.ID, nil
}

// RenameList changes a list's title. An unchanged title is a no-op.
func (s *State) RenameList(listID, newTitle string) error {
	newTitle = strings.TrimSpace(newTitle)
	if newTitle == "" {
		return ErrEmptyTitle
	}
	l := s.list(listID)
	if l == nil {
		s.log.WithField("list", listID).Warn("rename list: unknown list")
		return nil
	}
	l.Title = newTitle
	return nil
}

// DeleteList removes a list and its cards.
func (s *State) DeleteList(listID string) {
	bi, li := s.listIndex(listID)
	if bi < 0 {
		s.log.WithField("list", listID).Warn("delete list: unknown list")
		return
	}
	lists := s.boards[bi].Lists
	s.boards[bi].Lists = append(lists[:li], lists[li+1:]...)
}

// ToggleListPin flips a list's pinned flag.
func (s *State) ToggleListPin(listID string) {
	l := s.list(listID)
	if l == nil {
		s.log.WithField("list", listID).Warn("toggle list pin: unknown list")
		return
	}
	l.Pinned = !l.Pinned
}

// CreateCard inserts a new card at the front of a list with position 0 so it
// sorts above the existing unpinned cards. It returns the new card's ID.
func (s *State) CreateCard(listID, title, description string) (string, error) {
	c, err := model.NewCard(s.newID(), title, description, s.now())
	if err != nil {
		return "", err
	}
	l := s.list(listID)
	if l == nil {
		s.log.WithField("list", listID).Warn("create card: unknown list")
		return "", nil
	}
	l.Cards = append([]model.Card{c}, l.Cards...)
	return c.ID, nil
}

// UpdateCard replaces a card's title and description.
func (s *State) UpdateCard(cardID, title, description string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	c := s.card(cardID)
	if c == nil {
		s.log.WithField("card", cardID).Warn("update card: unknown card")
		return nil
	}
	c.Title = title
	c.Description = strings.TrimSpace(description)
	return nil
}

// ToggleCardPin flips a card's pinned flag.
func (s *State) ToggleCardPin(cardID string) {
	c := s.card(cardID)
	if c == nil {
		s.log.WithField("card", cardID).Warn("toggle card pin: unknown card")
		return
	}
	c.Pinned = !c.Pinned
}

// DeleteCard removes a card from its list.
func (s *State) DeleteCard(cardID string) {
	bi, li, ci := s.cardIndex(cardID)
	if bi < 0 {
		s.log.WithField("card", cardID).Warn("delete card: unknown card")
		return
	}
	l := &s.boards[bi].Lists[li]
	l.Cards = append(l.Cards[:ci], l.Cards[ci+1:]...)
}

// MoveCard moves a card from one list to the end of another. The card's
// position becomes the target's length before the append, and the target's
// cards are re-sorted pinned first, then by position.
func (s *State) MoveCard(cardID, sourceListID, targetListID string) {
	card, target, ok := s.detachCard(cardID, sourceListID, targetListID)
	if !ok {
		return
	}
	card.Position = len(target.Cards)
	target.Cards = append(target.Cards, card)
	sortCards(target.Cards)
}

// MoveCardTo moves a card so it lands at index in the target list's effective
// order. Positions of the target list are renumbered densely. An index past
// the end appends. Pinned cards still sort ahead of unpinned ones.
func (s *State) MoveCardTo(cardID, sourceListID, targetListID string, index int) {
	card, target, ok := s.detachCard(cardID, sourceListID, targetListID)
	if !ok {
		return
	}
	ordered := OrderedCards(*target)
	if index < 0 {
		index = 0
	}
	if index > len(ordered) {
		index = len(ordered)
	}
	ordered = append(ordered, model.Card{})
	copy(ordered[index+1:], ordered[index:])
	ordered[index] = card
	for i := range ordered {
		ordered[i].Position = i
	}
	sortCards(ordered)
	target.Cards = ordered
}

// detachCard removes cardID from the source list and returns it with the
// target list. It reports false, leaving the state untouched, when either
// list is unknown or the source does not hold the card.
func (s *State) detachCard(cardID, sourceListID, targetListID string) (model.Card, *model.List, bool) {
	fields := log.Fields{"card": cardID, "source": sourceListID, "target": targetListID}
	source := s.list(sourceListID)
	target := s.list(targetListID)
	if source == nil || target == nil {
		s.log.WithFields(fields).Warn("move card: unknown list")
		return model.Card{}, nil, false
	}
	ci := -1
	for i := range source.Cards {
		if source.Cards[i].ID == cardID {
			ci = i
			break
		}
	}
	if ci < 0 {
		s.log.WithFields(fields).Warn("move card: source list does not contain card")
		return model.Card{}, nil, false
	}
	card := source.Cards[ci]
	source.Cards = append(source.Cards[:ci], source.Cards[ci+1:]...)
	return card, target, true
}

func (s *State) boardIndex(id string) int {
	for i := range s.boards {
		if s.boards[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) listIndex(id string) (int, int) {
	for bi := range s.boards {
		for li := range s.boards[bi].Lists {
			if s.boards[bi].Lists[li].ID == id {
				return bi, li
			}
		}
	}
	return -1, -1
}

func (s *State) list(id string) *model.List {
	bi, li := s.listIndex(id)
	if bi < 0 {
		return nil
	}
	return &s.boards[bi].Lists[li]
}

func (s *State) cardIndex(id string) (int, int, int) {
	for bi := range s.boards {
		for li := range s.boards[bi].Lists {
			for ci := range s.boards[bi].Lists[li].Cards {
				if s.boards[bi].Lists[li].Cards[ci].ID == id {
					return bi, li, ci
				}
			}
		}
	}
	return -1, -1, -1
}

func (s *State) card(id string) *model.Card {
	bi, li, ci := s.cardIndex(id)
	if bi < 0 {
		return nil
	}
	return &s.boards[bi].Lists[li].Cards[ci]
}
