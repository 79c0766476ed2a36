package sqlite

const schemaSQL = `
CREATE TABLE IF NOT EXISTS decks (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS notetypes (
	id        INTEGER PRIMARY KEY,
	name      TEXT NOT NULL UNIQUE,
	cloze     INTEGER NOT NULL DEFAULT 0,
	fields    TEXT NOT NULL,
	templates TEXT NOT NULL,
	styles    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS notes (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	guid     TEXT NOT NULL,
	notetype TEXT NOT NULL,
	tags     TEXT NOT NULL,
	fields   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notes_guid ON notes(guid);

CREATE TABLE IF NOT EXISTS cards (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	note_id INTEGER NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
	deck_id INTEGER NOT NULL REFERENCES decks(id),
	ord     INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cards_note ON cards(note_id);
`
