package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/nhle/kanban/internal/model"
)

// SQLiteStore implements Gateway using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

var _ Gateway = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// A single connection makes every transaction exclusive, so concurrent
	// saves run one after another. It also keeps ":memory:" databases alive.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys so deletes cascade from boards to lists to cards.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order, each in its own transaction.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		tx, err := s.db.Beginx()
		if err != nil {
			return fmt.Errorf("beginning migration v%d: %w", m.version, err)
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration v%d: %w", m.version, err)
		}
		log.WithField("version", m.version).Debug("applied schema migration")
	}

	return nil
}

// Save replaces every stored board, list and card with the contents of snap.
// Everything happens in one transaction; on error nothing changes.
func (s *SQLiteStore) Save(ctx context.Context, snap model.Snapshot) error {
	ids := make([]string, 0, len(snap))
	for id, b := range snap {
		if id != b.ID {
			return fmt.Errorf("snapshot key %q does not match board id %q", id, b.ID)
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Children first so the wipe does not depend on cascading being enabled.
	for _, table := range []string{"cards", "lists", "boards"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	insertBoard, err := tx.PreparexContext(ctx,
		"INSERT INTO boards (id, name, icon, pinned) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing board insert: %w", err)
	}
	defer insertBoard.Close()

	insertList, err := tx.PreparexContext(ctx,
		"INSERT INTO lists (id, board_id, title, position, pinned) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing list insert: %w", err)
	}
	defer insertList.Close()

	insertCard, err := tx.PreparexContext(ctx, `
		INSERT INTO cards (id, list_id, title, description, created_at, position, pinned)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing card insert: %w", err)
	}
	defer insertCard.Close()

	var listCount, cardCount int
	for _, id := range ids {
		b := snap[id]
		_, err := insertBoard.ExecContext(ctx,
			b.ID, b.Name, string(model.ParseIcon(string(b.Icon))), boolToInt(b.Pinned))
		if err != nil {
			return fmt.Errorf("inserting board %s: %w", b.ID, err)
		}

		for _, l := range b.Lists {
			_, err := insertList.ExecContext(ctx,
				l.ID, b.ID, l.Title, l.Position, boolToInt(l.Pinned))
			if err != nil {
				return fmt.Errorf("inserting list %s: %w", l.ID, err)
			}
			listCount++

			for _, c := range l.Cards {
				_, err := insertCard.ExecContext(ctx,
					c.ID, l.ID, c.Title, nullString(c.Description),
					model.FormatCreatedAt(c.CreatedAt), c.Position, boolToInt(c.Pinned))
				if err != nil {
					return fmt.Errorf("inserting card %s: %w", c.ID, err)
				}
				cardCount++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}

	log.WithFields(log.Fields{
		"boards": len(ids),
		"lists":  listCount,
		"cards":  cardCount,
	}).Debug("saved board state")
	return nil
}

// Load rebuilds the full hierarchy from the store. It returns an empty
// snapshot when nothing has been saved.
func (s *SQLiteStore) Load(ctx context.Context) (model.Snapshot, error) {
	boards, err := s.loadBoards(ctx)
	if err != nil {
		return nil, err
	}
	snap := make(model.Snapshot, len(boards))
	for _, b := range boards {
		snap[b.ID] = b
	}
	return snap, nil
}

type boardRow struct {
	ID     string `db:"id"`
	Name   string `db:"name"`
	Icon   string `db:"icon"`
	Pinned int    `db:"pinned"`
}

type listRow struct {
	ID       string `db:"id"`
	BoardID  string `db:"board_id"`
	Title    string `db:"title"`
	Position int    `db:"position"`
	Pinned   int    `db:"pinned"`
}

type cardRow struct {
	ID          string         `db:"id"`
	ListID      string         `db:"list_id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	CreatedAt   string         `db:"created_at"`
	Position    int            `db:"position"`
	Pinned      int            `db:"pinned"`
}

// loadBoards reads all three tables inside one transaction and returns the
// boards ordered pinned first, then by name. Lists keep their stored
// position order; cards are ordered pinned first, then by position.
func (s *SQLiteStore) loadBoards(ctx context.Context) ([]model.Board, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var boardRows []boardRow
	err = tx.SelectContext(ctx, &boardRows, `
		SELECT id, name, COALESCE(icon, 'default') AS icon, COALESCE(pinned, 0) AS pinned
		FROM boards
		ORDER BY pinned DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying boards: %w", err)
	}

	var listRows []listRow
	err = tx.SelectContext(ctx, &listRows, `
		SELECT id, board_id, title, COALESCE(position, 0) AS position, COALESCE(pinned, 0) AS pinned
		FROM lists
		ORDER BY position ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying lists: %w", err)
	}

	var cardRows []cardRow
	err = tx.SelectContext(ctx, &cardRows, `
		SELECT id, list_id, title, description, created_at,
			COALESCE(position, 0) AS position, COALESCE(pinned, 0) AS pinned
		FROM cards
		ORDER BY pinned DESC, position ASC, rowid ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying cards: %w", err)
	}

	cardsByList := make(map[string][]model.Card)
	for _, r := range cardRows {
		createdAt, err := model.ParseCreatedAt(r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at of card %s: %w", r.ID, err)
		}
		cardsByList[r.ListID] = append(cardsByList[r.ListID], model.Card{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description.String,
			CreatedAt:   createdAt,
			Position:    r.Position,
			Pinned:      r.Pinned != 0,
		})
	}

	listsByBoard := make(map[string][]model.List)
	for _, r := range listRows {
		cards := cardsByList[r.ID]
		if cards == nil {
			cards = []model.Card{}
		}
		listsByBoard[r.BoardID] = append(listsByBoard[r.BoardID], model.List{
			ID:       r.ID,
			Title:    r.Title,
			Position: r.Position,
			Pinned:   r.Pinned != 0,
			Cards:    cards,
		})
	}

	boards := make([]model.Board, 0, len(boardRows))
	for _, r := range boardRows {
		lists := listsByBoard[r.ID]
		if lists == nil {
			lists = []model.List{}
		}
		boards = append(boards, model.Board{
			ID:     r.ID,
			Name:   r.Name,
			Icon:   model.ParseIcon(r.Icon),
			Pinned: r.Pinned != 0,
			Lists:  lists,
		})
	}

	log.WithFields(log.Fields{
		"boards": len(boardRows),
		"lists":  len(listRows),
		"cards":  len(cardRows),
	}).Debug("loaded board state")

	return boards, tx.Commit()
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// nullString stores empty descriptions as NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
