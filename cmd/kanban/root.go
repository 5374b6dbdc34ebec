package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nhle/kanban/internal/app"
	"github.com/nhle/kanban/internal/board"
	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/paths"
	"github.com/nhle/kanban/internal/store"
	appsync "github.com/nhle/kanban/internal/sync"
)

const exitUserError = 1

// Global flag values.
var (
	flagConfigDir string
	flagDataDir   string
	flagDebug     bool
)

// Set by PersistentPreRunE for every subcommand.
var (
	configPath string
	appConfig  *model.AppConfig
)

var rootCmd = &cobra.Command{
	Use:           "kanban",
	Short:         "A terminal kanban board backed by SQLite",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := paths.ResolveConfigDir(flagConfigDir)
		if err != nil {
			return fmt.Errorf("resolve config dir: %w", err)
		}
		configPath = filepath.Join(configDir, model.ConfigFileName)

		cfg, err := model.LoadConfig(configPath)
		if err != nil {
			return err
		}
		appConfig = cfg

		level, err := log.ParseLevel(cfg.Log.Level)
		if err != nil {
			log.WithField("level", cfg.Log.Level).Warn("unknown log level, using info")
			level = log.InfoLevel
		}
		if flagDebug {
			level = log.DebugLevel
		}
		log.SetLevel(level)
		return nil
	},
	RunE: runBoard,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/kanban)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default: $XDG_DATA_HOME/kanban)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(boardsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

// runBoard opens the store, loads or seeds the state and runs the TUI until
// the user quits. Pending saves are written before the store closes.
func runBoard(cmd *cobra.Command, args []string) error {
	dataDir, err := paths.ResolveDataDir(flagDataDir)
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}
	if err := paths.EnsureDir(dataDir); err != nil {
		return err
	}

	// The TUI owns the terminal, so diagnostics go to a file.
	logFile, err := os.OpenFile(filepath.Join(dataDir, paths.LogFileName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true, DisableColors: true})

	s, err := openStore(dataDir)
	if err != nil {
		return err
	}
	defer s.Close()

	logger := log.WithField("component", "board")
	sess := board.NewSession(s, board.WithLogger(logger))
	seeded, err := sess.Open(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading boards: %w", err)
	}
	if seeded {
		logger.Info("empty store seeded with the default board")
	}

	saver := appsync.New(s, log.WithField("component", "autosave"))
	defer saver.Stop()

	m := app.New(sess, saver, app.Options{
		ConfigPath: configPath,
		Config:     appConfig,
		Logger:     log.WithField("component", "app"),
	})
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

// openStore resolves the database location and opens it, creating the
// schema when needed.
func openStore(dataDir string) (*store.SQLiteStore, error) {
	dbPath, err := paths.DatabasePath(dataDir, appConfig.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	if err := paths.EnsureDir(filepath.Dir(dbPath)); err != nil {
		return nil, err
	}
	s, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, err
	}
	log.WithField("path", dbPath).Debug("store opened")
	return s, nil
}

// openDataStore is openStore for the non-interactive subcommands.
func openDataStore() (*store.SQLiteStore, error) {
	dataDir, err := paths.ResolveDataDir(flagDataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	if err := paths.EnsureDir(dataDir); err != nil {
		return nil, err
	}
	return openStore(dataDir)
}
