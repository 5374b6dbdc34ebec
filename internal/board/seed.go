package board

import "github.com/nhle/kanban/internal/model"

// DefaultBoardName is the name of the board seeded into an empty store.
const DefaultBoardName = "Personal Tasks"

// DefaultState returns a State holding the single seeded board with the
// default empty lists.
func DefaultState(opts ...Option) *State {
	s := newState(opts)
	if _, err := s.CreateBoard(DefaultBoardName, model.IconDefault); err != nil {
		// DefaultBoardName is a non-empty constant.
		panic(err)
	}
	return s
}
