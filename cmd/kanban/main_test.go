package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/kanban/internal/board"
	"github.com/nhle/kanban/internal/model"
	"github.com/nhle/kanban/internal/paths"
	"github.com/nhle/kanban/internal/store"
	"github.com/nhle/kanban/tests/testutil"
)

// execute runs the root command with isolated config and data directories.
func execute(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config-dir", t.TempDir(), "--data-dir", dataDir}, args...))
	t.Cleanup(func() { flagExportOut = "" })

	err := rootCmd.Execute()
	return out.String(), err
}

func seedDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	s, err := store.NewSQLiteStore(filepath.Join(dir, paths.DatabaseFileName))
	require.NoError(t, err)
	require.NoError(t, s.Save(context.Background(), testutil.SampleSnapshot()))
	require.NoError(t, s.Close())
	return dir
}

func TestVersion(t *testing.T) {
	out, err := execute(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "kanban dev\n", out)
}

func TestBoards_Empty(t *testing.T) {
	out, err := execute(t, t.TempDir(), "boards")
	require.NoError(t, err)
	assert.Contains(t, out, "No boards yet")
}

func TestBoards_ListsInOrder(t *testing.T) {
	out, err := execute(t, seedDataDir(t), "boards")
	require.NoError(t, err)

	work := bytes.Index([]byte(out), []byte("Work"))
	home := bytes.Index([]byte(out), []byte("Home"))
	require.NotEqual(t, -1, work)
	require.NotEqual(t, -1, home)
	assert.Less(t, work, home, "pinned board comes first")
}

func TestExportImport_RoundTrip(t *testing.T) {
	src := seedDataDir(t)
	file := filepath.Join(t.TempDir(), "boards.json")

	_, err := execute(t, src, "export", "--out", file)
	require.NoError(t, err)

	dst := t.TempDir()
	out, err := execute(t, dst, "import", file)
	require.NoError(t, err)
	assert.Equal(t, "Imported 2 boards, 4 lists, 4 cards\n", out)

	s, err := store.NewSQLiteStore(filepath.Join(dst, paths.DatabaseFileName))
	require.NoError(t, err)
	defer s.Close()
	snap, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"work", "home"}, boardIDs(snap))
}

func TestImport_InvalidLeavesStore(t *testing.T) {
	dir := seedDataDir(t)
	file := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"version":1,"boards":[]}`), 0o644))

	_, err := execute(t, dir, "import", file)
	require.Error(t, err)

	out, err := execute(t, dir, "boards")
	require.NoError(t, err)
	assert.Contains(t, out, "Work")
}

func TestImport_MissingFile(t *testing.T) {
	_, err := execute(t, t.TempDir(), "import", filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func boardIDs(snap model.Snapshot) []string {
	var ids []string
	for _, b := range board.OrderedBoards(snap) {
		ids = append(ids, b.ID)
	}
	return ids
}
