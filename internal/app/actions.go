package app

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/kanban/internal/board"
	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/ui/boardpicker"
	"github.com/nhle/kanban/internal/ui/detail"
	"github.com/nhle/kanban/internal/ui/finder"
	"github.com/nhle/kanban/internal/ui/prompt"
)

// handleBoardKey runs the board-level action bound to msg. It reports false
// for keys the board view handles itself, such as cursor movement.
func (m *Model) handleBoardKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	st := m.state()
	list, hasList := m.boardView.SelectedList()
	card, hasCard := m.boardView.SelectedCard()

	switch {
	case key.Matches(msg, m.keys.Boards):
		m.openPicker()
		return nil, true

	case key.Matches(msg, m.keys.NewBoard):
		return m.openPrompt(m.promptView.StartNewBoard()), true

	case key.Matches(msg, m.keys.ToggleTheme):
		return m.toggleTheme(), true

	case key.Matches(msg, m.keys.Settings):
		return m.openSettings(), true

	case key.Matches(msg, m.keys.Find):
		return m.openFinder(), true

	case key.Matches(msg, m.keys.NewList):
		return m.openPrompt(m.promptView.StartNewList(st.CurrentID())), true

	case key.Matches(msg, m.keys.NewCard):
		if !hasList {
			m.setInfo("Add a list first (N)")
			return nil, true
		}
		return m.openPrompt(m.promptView.StartNewCard(list.ID)), true
	}

	if hasList {
		switch {
		case key.Matches(msg, m.keys.RenameList):
			return m.openPrompt(m.promptView.StartRenameList(list)), true
		case key.Matches(msg, m.keys.DeleteList):
			consequence := fmt.Sprintf("Its %d cards are deleted too.", len(list.Cards))
			return m.openPrompt(m.promptView.StartDelete(prompt.KindDeleteList, list.ID, list.Title, consequence)), true
		case key.Matches(msg, m.keys.PinList):
			st.ToggleListPin(list.ID)
			return m.commit(nil), true
		}
	}

	if !hasCard {
		return nil, false
	}

	switch {
	case key.Matches(msg, m.keys.EditCard):
		return m.openPrompt(m.promptView.StartEditCard(card)), true

	case key.Matches(msg, m.keys.DeleteCard):
		return m.openPrompt(m.promptView.StartDelete(prompt.KindDeleteCard, card.ID, card.Title, "This cannot be undone.")), true

	case key.Matches(msg, m.keys.PinCard):
		st.ToggleCardPin(card.ID)
		return m.commit(nil), true

	case key.Matches(msg, m.keys.MoveCardLeft), key.Matches(msg, m.keys.MoveCardRight):
		delta := 1
		if key.Matches(msg, m.keys.MoveCardLeft) {
			delta = -1
		}
		target, ok := m.boardView.Neighbour(delta)
		if !ok {
			return nil, true
		}
		st.MoveCard(card.ID, list.ID, target.ID)
		cmd := m.commit(nil)
		m.boardView.Focus(target.ID, card.ID)
		return cmd, true

	case key.Matches(msg, m.keys.MoveCardUp), key.Matches(msg, m.keys.MoveCardDown):
		index := m.boardView.SelectedRow() + 1
		if key.Matches(msg, m.keys.MoveCardUp) {
			index = m.boardView.SelectedRow() - 1
		}
		if index < 0 || index >= len(list.Cards) {
			return nil, true
		}
		st.MoveCardTo(card.ID, list.ID, list.ID, index)
		cmd := m.commit(nil)
		m.boardView.Focus(list.ID, card.ID)
		return cmd, true
	}

	return nil, false
}

// handleDetailAction runs an action requested from the card detail view.
func (m *Model) handleDetailAction(msg detail.ActionMsg) tea.Cmd {
	c, _, ok := m.findCard(msg.CardID)
	if !ok {
		m.currentView = ViewBoard
		return nil
	}

	switch msg.Action {
	case detail.ActionEdit:
		return m.openPrompt(m.promptView.StartEditCard(c))
	case detail.ActionDelete:
		return m.openPrompt(m.promptView.StartDelete(prompt.KindDeleteCard, c.ID, c.Title, "This cannot be undone."))
	case detail.ActionPin:
		m.state().ToggleCardPin(c.ID)
		return m.commit(nil)
	}
	return nil
}

// handlePickerAction runs an action requested from the board picker.
func (m *Model) handlePickerAction(msg boardpicker.ActionMsg) tea.Cmd {
	st := m.state()
	if msg.Action == boardpicker.ActionNew {
		return m.openPrompt(m.promptView.StartNewBoard())
	}

	b, ok := st.Board(msg.BoardID)
	if !ok {
		return nil
	}

	switch msg.Action {
	case boardpicker.ActionOpen:
		st.SetCurrentBoard(b.ID)
		m.refresh()
		m.currentView = ViewBoard
		return nil
	case boardpicker.ActionRename:
		return m.openPrompt(m.promptView.StartRenameBoard(b))
	case boardpicker.ActionDelete:
		if st.Len() <= 1 {
			m.setError(board.ErrLastBoard)
			return nil
		}
		consequence := fmt.Sprintf("Its %d lists and %d cards are deleted too.", len(b.Lists), b.CardCount())
		return m.openPrompt(m.promptView.StartDelete(prompt.KindDeleteBoard, b.ID, b.Name, consequence))
	case boardpicker.ActionPin:
		st.ToggleBoardPin(b.ID)
		return m.commit(nil)
	case boardpicker.ActionCycleIcon:
		st.SetBoardIcon(b.ID, boardpicker.NextIcon(b.Icon))
		return m.commit(nil)
	}
	return nil
}

// applyPrompt performs the mutation a completed prompt asked for.
func (m *Model) applyPrompt(msg prompt.SubmitMsg) tea.Cmd {
	st := m.state()

	switch msg.Kind {
	case prompt.KindNewBoard:
		_, err := st.CreateBoard(msg.Name, msg.Icon)
		if err == nil {
			m.currentView = ViewBoard
		}
		return m.commit(err)

	case prompt.KindRenameBoard:
		err := st.RenameBoard(msg.TargetID, msg.Name)
		if err == nil {
			st.SetBoardIcon(msg.TargetID, msg.Icon)
		}
		return m.commit(err)

	case prompt.KindDeleteBoard:
		return m.commit(st.DeleteBoard(msg.TargetID))

	case prompt.KindNewList:
		id, err := st.CreateList(msg.TargetID, msg.Name)
		cmd := m.commit(err)
		m.boardView.Focus(id, "")
		return cmd

	case prompt.KindRenameList:
		return m.commit(st.RenameList(msg.TargetID, msg.Name))

	case prompt.KindDeleteList:
		st.DeleteList(msg.TargetID)
		return m.commit(nil)

	case prompt.KindNewCard:
		id, err := st.CreateCard(msg.TargetID, msg.Name, msg.Description)
		cmd := m.commit(err)
		m.boardView.Focus(msg.TargetID, id)
		return cmd

	case prompt.KindEditCard:
		return m.commit(st.UpdateCard(msg.TargetID, msg.Name, msg.Description))

	case prompt.KindDeleteCard:
		st.DeleteCard(msg.TargetID)
		if m.currentView == ViewDetail {
			m.currentView = ViewBoard
		}
		return m.commit(nil)
	}
	return nil
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	st := m.state()
	switch cmd {
	case "new board":
		return m.openPrompt(m.promptView.StartNewBoard())
	case "new list":
		return m.openPrompt(m.promptView.StartNewList(st.CurrentID()))
	case "new card":
		if l, ok := m.boardView.SelectedList(); ok {
			return m.openPrompt(m.promptView.StartNewCard(l.ID))
		}
		m.setInfo("Add a list first (N)")
		return nil
	case "boards":
		m.openPicker()
		return nil
	case "rename board":
		return m.openPrompt(m.promptView.StartRenameBoard(st.Current()))
	case "delete board":
		return m.handlePickerAction(boardpicker.ActionMsg{Action: boardpicker.ActionDelete, BoardID: st.CurrentID()})
	case "pin board":
		st.ToggleBoardPin(st.CurrentID())
		return m.commit(nil)
	case "theme":
		return m.toggleTheme()
	case "settings":
		return m.openSettings()
	case "find":
		return m.openFinder()
	case "save":
		return m.commit(nil)
	case "help":
		m.previousView = ViewBoard
		m.currentView = ViewHelp
		return nil
	case "quit", "q":
		return m.quit()
	default:
		m.setError(fmt.Errorf("unknown command %q", cmd))
		return nil
	}
}

// commit reports err if the mutation was rejected; otherwise it refreshes
// the views and queues an autosave of the full state.
func (m *Model) commit(err error) tea.Cmd {
	if err != nil {
		if errors.Is(err, model.ErrEmptyName) || errors.Is(err, model.ErrEmptyTitle) || errors.Is(err, board.ErrLastBoard) {
			m.log.WithError(err).Debug("mutation rejected")
		} else {
			m.log.WithError(err).Warn("mutation failed")
		}
		m.setError(err)
		return nil
	}

	m.refresh()
	if _, err := m.saver.Enqueue(m.state().Snapshot()); err != nil {
		m.log.WithError(err).Warn("autosave not queued")
		m.setError(fmt.Errorf("autosave: %w", err))
	}
	return nil
}

// refresh pushes the current state into every view.
func (m *Model) refresh() {
	st := m.state()
	m.boardView.SetBoard(st.Current())
	m.picker.SetBoards(st.Boards(), st.CurrentID())

	if id := m.detail.CardID(); id != "" {
		if c, listTitle, ok := m.findCard(id); ok {
			m.detail.SetCard(&c, listTitle)
		} else {
			m.detail.SetCard(nil, "")
			if m.currentView == ViewDetail {
				m.currentView = ViewBoard
			}
		}
	}
}

func (m *Model) openPicker() {
	m.picker.SetBoards(m.state().Boards(), m.state().CurrentID())
	m.picker.Select(m.state().CurrentID())
	m.currentView = ViewPicker
}

func (m *Model) openDetail(cardID string) {
	c, listTitle, ok := m.findCard(cardID)
	if !ok {
		return
	}
	m.detail.SetCard(&c, listTitle)
	m.currentView = ViewDetail
}

func (m *Model) openPrompt(cmd tea.Cmd) tea.Cmd {
	if m.currentView != ViewPrompt {
		m.previousView = m.currentView
	}
	m.currentView = ViewPrompt
	return cmd
}

func (m *Model) openSettings() tea.Cmd {
	m.currentView = ViewSettings
	return m.settings.Start(*m.cfg)
}

func (m *Model) openFinder() tea.Cmd {
	m.currentView = ViewFinder
	return m.finder.Open(finder.Entries(m.state().Boards()))
}

// jumpTo shows the chosen card on its board.
func (m *Model) jumpTo(msg finder.JumpMsg) {
	st := m.state()
	if _, ok := st.Board(msg.BoardID); !ok {
		m.currentView = ViewBoard
		return
	}
	st.SetCurrentBoard(msg.BoardID)
	m.refresh()
	m.boardView.Focus(msg.ListID, msg.CardID)
	m.currentView = ViewBoard
}

// findCard looks a card up on the current board.
func (m *Model) findCard(cardID string) (model.Card, string, bool) {
	for _, l := range m.state().Current().Lists {
		for _, c := range l.Cards {
			if c.ID == cardID {
				return c, l.Title, true
			}
		}
	}
	return model.Card{}, "", false
}
