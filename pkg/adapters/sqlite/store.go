// Package sqlite implements a flashcard collection on an embedded SQLite
// database (ncruces/go-sqlite3, no cgo).
//
// Layout:
//   - decks: id, unique name; deck 1 is "Default"
//   - notetypes: the built-in types plus any saved with SaveType
//   - notes: guid, note type name, tags and fields as JSON text
//   - cards: one row per generated card, pointing at a deck
//
// Every bulk write runs inside its own transaction.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/aretw0/notatki/pkg/core"
)

// Store is a core.Collection backed by SQLite.
type Store struct {
	conn   *sql.DB
	path   string
	logger *slog.Logger

	opened      time.Time
	initialized atomic.Bool
	writes      atomic.Int64
}

// Open opens (or creates) the database file at path.
// Call Initialize before use and Close when done.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	// A single connection keeps writers from tripping over each other.
	conn.SetMaxOpenConns(1)

	return &Store{conn: conn, path: path, logger: logger, opened: time.Now()}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Initialize creates the schema, the default deck and the built-in note types.
// It is safe to call on an existing database.
func (s *Store) Initialize(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := s.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO decks (id, name) VALUES (?, ?)`,
		int64(core.DefaultDeckID), core.DefaultDeckName); err != nil {
		return fmt.Errorf("failed to create default deck: %w", err)
	}
	for _, t := range core.BuiltinTypes() {
		if err := s.insertType(ctx, t, false); err != nil {
			return err
		}
	}
	s.initialized.Store(true)
	if s.logger != nil {
		s.logger.Debug("collection initialized", "path", s.path)
	}
	return nil
}

// SaveType creates a note type or replaces the one with the same name.
func (s *Store) SaveType(ctx context.Context, t core.NoteType) error {
	return s.insertType(ctx, t, true)
}

func (s *Store) insertType(ctx context.Context, t core.NoteType, replace bool) error {
	fields, err := json.Marshal(t.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode fields of %q: %w", t.Name, err)
	}
	templates, err := json.Marshal(t.Templates)
	if err != nil {
		return fmt.Errorf("failed to encode templates of %q: %w", t.Name, err)
	}

	query := `INSERT OR IGNORE INTO notetypes (id, name, cloze, fields, templates, styles) VALUES (?, ?, ?, ?, ?, ?)`
	if replace {
		query = `INSERT INTO notetypes (id, name, cloze, fields, templates, styles) VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET cloze = excluded.cloze, fields = excluded.fields,
			templates = excluded.templates, styles = excluded.styles`
	}
	if _, err := s.conn.ExecContext(ctx, query, t.ID, t.Name, t.Cloze, string(fields), string(templates), t.Styles); err != nil {
		return fmt.Errorf("failed to save note type %q: %w", t.Name, err)
	}
	return nil
}

// FindAllNoteIDs implements core.NoteStore.
func (s *Store) FindAllNoteIDs(ctx context.Context) ([]core.NoteID, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT id FROM notes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var ids []core.NoteID
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan note id: %w", err)
		}
		ids = append(ids, core.NoteID(id))
	}
	return ids, rows.Err()
}

// GetNote implements core.NoteStore.
func (s *Store) GetNote(ctx context.Context, id core.NoteID) (*core.Note, error) {
	var (
		n              core.Note
		tags, fieldsJS string
	)
	err := s.conn.QueryRowContext(ctx,
		`SELECT id, guid, notetype, tags, fields FROM notes WHERE id = ?`, int64(id),
	).Scan(&n.ID, &n.GUID, &n.Type, &tags, &fieldsJS)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("note %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load note %d: %w", id, err)
	}
	if err := json.Unmarshal([]byte(tags), &n.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags of note %d: %w", id, err)
	}
	if err := json.Unmarshal([]byte(fieldsJS), &n.Fields); err != nil {
		return nil, fmt.Errorf("failed to decode fields of note %d: %w", id, err)
	}

	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, note_id, deck_id, ord FROM cards WHERE note_id = ? ORDER BY ord, id`, int64(id))
	if err != nil {
		return nil, fmt.Errorf("failed to query cards of note %d: %w", id, err)
	}
	defer rows.Close()

	n.Cards = []core.Card{}
	for rows.Next() {
		var c core.Card
		if err := rows.Scan(&c.ID, &c.NoteID, &c.DeckID, &c.Ord); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		n.Cards = append(n.Cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &n, nil
}

// UpdateNotes implements core.NoteStore.
func (s *Store) UpdateNotes(ctx context.Context, notes []*core.Note) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, n := range notes {
			tags, fields, err := encodeNote(n)
			if err != nil {
				return err
			}
			res, err := tx.ExecContext(ctx,
				`UPDATE notes SET guid = ?, tags = ?, fields = ? WHERE id = ?`,
				n.GUID, tags, fields, int64(n.ID))
			if err != nil {
				return fmt.Errorf("failed to update note %d: %w", n.ID, err)
			}
			if affected, err := res.RowsAffected(); err == nil && affected == 0 {
				return fmt.Errorf("note %d: %w", n.ID, core.ErrNotFound)
			}
		}
		return nil
	})
}

// UpdateCards implements core.NoteStore. Only the deck is written.
func (s *Store) UpdateCards(ctx context.Context, cards []core.Card) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, c := range cards {
			res, err := tx.ExecContext(ctx, `UPDATE cards SET deck_id = ? WHERE id = ?`, int64(c.DeckID), int64(c.ID))
			if err != nil {
				return fmt.Errorf("failed to update card %d: %w", c.ID, err)
			}
			if affected, err := res.RowsAffected(); err == nil && affected == 0 {
				return fmt.Errorf("card %d: %w", c.ID, core.ErrNotFound)
			}
		}
		return nil
	})
}

// AddNotes implements core.NoteStore. The ids of the new notes are written
// back into the requests.
func (s *Store) AddNotes(ctx context.Context, reqs []core.AddNoteRequest) error {
	types := make(map[string]*core.NoteType)
	for _, req := range reqs {
		if _, ok := types[req.Note.Type]; ok {
			continue
		}
		t, ok, err := s.FindType(ctx, req.Note.Type)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("note type %q: %w", req.Note.Type, core.ErrNotFound)
		}
		types[req.Note.Type] = t
	}

	ids := make([]core.NoteID, len(reqs))
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for i, req := range reqs {
			tags, fields, err := encodeNote(req.Note)
			if err != nil {
				return err
			}
			res, err := tx.ExecContext(ctx,
				`INSERT INTO notes (guid, notetype, tags, fields) VALUES (?, ?, ?, ?)`,
				req.Note.GUID, req.Note.Type, tags, fields)
			if err != nil {
				return fmt.Errorf("failed to insert note %s: %w", req.Note.GUID, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to read note id: %w", err)
			}
			for _, ord := range core.CardOrds(types[req.Note.Type], req.Note) {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO cards (note_id, deck_id, ord) VALUES (?, ?, ?)`,
					id, int64(req.Deck), ord); err != nil {
					return fmt.Errorf("failed to insert card for note %s: %w", req.Note.GUID, err)
				}
			}
			ids[i] = core.NoteID(id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	for i, req := range reqs {
		req.Note.ID = ids[i]
	}
	return nil
}

// ResolveDeck implements core.DeckRegistry.
func (s *Store) ResolveDeck(ctx context.Context, name string) (core.DeckID, error) {
	if _, err := s.conn.ExecContext(ctx, `INSERT OR IGNORE INTO decks (name) VALUES (?)`, name); err != nil {
		return 0, fmt.Errorf("failed to create deck %q: %w", name, err)
	}
	id, ok, err := s.FindDeck(ctx, name)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("deck %q: %w", name, core.ErrNotFound)
	}
	return id, nil
}

// FindDeck implements core.DeckFinder.
func (s *Store) FindDeck(ctx context.Context, name string) (core.DeckID, bool, error) {
	var id int64
	err := s.conn.QueryRowContext(ctx, `SELECT id FROM decks WHERE name = ?`, name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up deck %q: %w", name, err)
	}
	return core.DeckID(id), true, nil
}

// DeckName implements core.DeckRegistry.
func (s *Store) DeckName(ctx context.Context, id core.DeckID) (string, error) {
	var name string
	err := s.conn.QueryRowContext(ctx, `SELECT name FROM decks WHERE id = ?`, int64(id)).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("deck %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up deck %d: %w", id, err)
	}
	return name, nil
}

// FindType implements core.TypeRegistry.
func (s *Store) FindType(ctx context.Context, name string) (*core.NoteType, bool, error) {
	row := s.conn.QueryRowContext(ctx,
		`SELECT id, name, cloze, fields, templates, styles FROM notetypes WHERE name = ?`, name)
	t, err := scanType(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up note type %q: %w", name, err)
	}
	return t, true, nil
}

// ListTypes implements core.TypeRegistry. Types are sorted by name.
func (s *Store) ListTypes(ctx context.Context) ([]core.NoteType, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, name, cloze, fields, templates, styles FROM notetypes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query note types: %w", err)
	}
	defer rows.Close()

	var types []core.NoteType
	for rows.Next() {
		t, err := scanType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note type: %w", err)
		}
		types = append(types, *t)
	}
	return types, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanType(row scanner) (*core.NoteType, error) {
	var (
		t                 core.NoteType
		fields, templates string
	)
	if err := row.Scan(&t.ID, &t.Name, &t.Cloze, &fields, &templates, &t.Styles); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(fields), &t.Fields); err != nil {
		return nil, fmt.Errorf("failed to decode fields of %q: %w", t.Name, err)
	}
	if err := json.Unmarshal([]byte(templates), &t.Templates); err != nil {
		return nil, fmt.Errorf("failed to decode templates of %q: %w", t.Name, err)
	}
	return &t, nil
}

func encodeNote(n *core.Note) (tags, fields string, err error) {
	tagList := n.Tags
	if tagList == nil {
		tagList = []string{}
	}
	tb, err := json.Marshal(tagList)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode tags of %s: %w", n.GUID, err)
	}
	fieldList := n.Fields
	if fieldList == nil {
		fieldList = []core.Field{}
	}
	fb, err := json.Marshal(fieldList)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode fields of %s: %w", n.GUID, err)
	}
	return string(tb), string(fb), nil
}

func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	s.writes.Add(1)
	return nil
}

var _ core.Collection = (*Store)(nil)
var _ core.DeckFinder = (*Store)(nil)
