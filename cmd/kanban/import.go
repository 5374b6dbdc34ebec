package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace every board with the contents of an export",
	Long: `Import reads a document written by kanban export and replaces the
stored state with it. The document is validated first; on any error the
existing boards are left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer f.Close()

	s, err := openDataStore()
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := s.Import(cmd.Context(), f)
	if err != nil {
		return fmt.Errorf("importing %s: %w", args[0], err)
	}

	boards, lists, cards := snap.Counts()
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d boards, %d lists, %d cards\n", boards, lists, cards)
	return nil
}
