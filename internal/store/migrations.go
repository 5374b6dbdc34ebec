package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
//
// Version 1 uses IF NOT EXISTS so databases created before schema versioning
// existed are adopted as they are.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS boards (
	id     TEXT PRIMARY KEY,
	name   TEXT NOT NULL,
	icon   TEXT DEFAULT 'default',
	pinned INTEGER DEFAULT 0
);

CREATE TABLE IF NOT EXISTS lists (
	id       TEXT PRIMARY KEY,
	board_id TEXT NOT NULL,
	title    TEXT NOT NULL,
	position INTEGER DEFAULT 0,
	FOREIGN KEY (board_id) REFERENCES boards(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS cards (
	id          TEXT PRIMARY KEY,
	list_id     TEXT NOT NULL,
	title       TEXT NOT NULL,
	description TEXT,
	created_at  TEXT NOT NULL,
	position    INTEGER DEFAULT 0,
	pinned      INTEGER DEFAULT 0,
	FOREIGN KEY (list_id) REFERENCES lists(id) ON DELETE CASCADE
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
ALTER TABLE lists ADD COLUMN pinned INTEGER DEFAULT 0;

CREATE INDEX IF NOT EXISTS idx_lists_board_id ON lists(board_id);
CREATE INDEX IF NOT EXISTS idx_cards_list_id ON cards(list_id);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
