package main

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var flagExportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every board as a JSON document",
	Long: `Export writes the full stored state, all boards with their lists and
cards, as an indented JSON document. The document can be restored with
kanban import.

Example:
  kanban export --out boards.json`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOut, "out", "o", "", "output file (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) (err error) {
	s, err := openDataStore()
	if err != nil {
		return err
	}
	defer s.Close()

	var w io.Writer = cmd.OutOrStdout()
	if flagExportOut != "" {
		f, err := os.Create(flagExportOut)
		if err != nil {
			return fmt.Errorf("creating %s: %w", flagExportOut, err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing %s: %w", flagExportOut, cerr)
			}
		}()
		w = f
	}

	if err := s.Export(cmd.Context(), w); err != nil {
		return err
	}
	if flagExportOut != "" {
		log.WithField("path", flagExportOut).Info("boards exported")
	}
	return nil
}
