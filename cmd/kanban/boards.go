package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/nhle/kanban/internal/board"
	"github.com/nhle/kanban/internal/model"
)

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List boards with their list and card counts",
	Args:  cobra.NoArgs,
	RunE:  runBoards,
}

func runBoards(cmd *cobra.Command, args []string) error {
	s, err := openDataStore()
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading boards: %w", err)
	}
	if len(snap) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No boards yet. Run kanban to create the default board.")
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), boardsTable(board.OrderedBoards(snap)))
	return nil
}

// boardsTable renders one row per board in the order given.
func boardsTable(boards []model.Board) string {
	t := table.New().Headers("ID", "NAME", "ICON", "PINNED", "LISTS", "CARDS")
	for _, b := range boards {
		pinned := ""
		if b.Pinned {
			pinned = "yes"
		}
		t.Row(b.ID, b.Name, string(b.Icon), pinned, strconv.Itoa(len(b.Lists)), strconv.Itoa(b.CardCount()))
	}
	return t.Render()
}
