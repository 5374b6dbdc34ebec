package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/kanban/internal/model"
)

func TestSave_FailurePartwayLeavesPreviousState(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	ctx := context.Background()

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	before := model.Snapshot{
		"b1": {ID: "b1", Name: "Original", Icon: model.IconDefault, Lists: []model.List{
			{ID: "l1", Title: "To Do", Cards: []model.Card{
				{ID: "c1", Title: "keep me", CreatedAt: at},
			}},
		}},
	}
	require.NoError(t, s.Save(ctx, before))

	// Fail on the last insert of the next save, after the wipe and the
	// board and list inserts have already run.
	_, err = s.db.Exec(`
		CREATE TRIGGER fail_card BEFORE INSERT ON cards
		WHEN NEW.title = 'boom'
		BEGIN SELECT RAISE(ABORT, 'injected failure'); END;`)
	require.NoError(t, err)

	after := model.Snapshot{
		"b2": {ID: "b2", Name: "Replacement", Lists: []model.List{
			{ID: "l2", Title: "Doing", Cards: []model.Card{
				{ID: "c2", Title: "fine", CreatedAt: at},
				{ID: "c3", Title: "boom", CreatedAt: at},
			}},
		}},
	}
	err = s.Save(ctx, after)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected failure")

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, got)
}

func TestMigrations_AdoptLegacySchema(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	var version int
	require.NoError(t, s.db.Get(&version, "SELECT MAX(version) FROM schema_version"))
	assert.Equal(t, len(migrations), version)

	// A second run must be a no-op.
	require.NoError(t, s.runMigrations())

	var rows int
	require.NoError(t, s.db.Get(&rows, "SELECT COUNT(*) FROM schema_version"))
	assert.Equal(t, len(migrations), rows)
}

func TestLoad_LegacyRows(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	// Rows as written by the earlier desktop application: legacy icon tag,
	// NULL description and pinned/position left to their defaults.
	_, err = s.db.Exec(`
		INSERT INTO boards (id, name, icon) VALUES ('default', 'Personal Tasks', 'board');
		INSERT INTO lists (id, board_id, title) VALUES ('todo-default', 'default', 'To Do');
		INSERT INTO cards (id, list_id, title, created_at)
			VALUES ('card-1', 'todo-default', 'Legacy', '2023-07-01T08:00:00.000Z');`)
	require.NoError(t, err)

	got, err := s.Load(context.Background())
	require.NoError(t, err)
	require.Contains(t, got, "default")

	b := got["default"]
	assert.Equal(t, model.IconDefault, b.Icon)
	assert.False(t, b.Pinned)
	require.Len(t, b.Lists, 1)
	require.Len(t, b.Lists[0].Cards, 1)

	c := b.Lists[0].Cards[0]
	assert.Equal(t, "", c.Description)
	assert.Equal(t, 0, c.Position)
	assert.Equal(t, time.Date(2023, 7, 1, 8, 0, 0, 0, time.UTC), c.CreatedAt)
}
