package board

import (
	"errors"

	"github.com/nhle/kanban/internal/model"
)

// Validation errors. A mutation that returns one of these left the state untouched.
var (
	ErrEmptyName  = model.ErrEmptyName
	ErrEmptyTitle = model.ErrEmptyTitle
	ErrLastBoard  = errors.New("cannot delete the last remaining board")
	ErrNoBoards   = errors.New("state must contain at least one board")
)
