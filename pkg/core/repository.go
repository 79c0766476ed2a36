package core

import "context"

// NoteStore is the note and card storage of a collection.
// Adhering to this interface keeps the importer independent of the host's
// storage engine (SQLite, in-memory, a desktop application's API).
type NoteStore interface {
	// FindAllNoteIDs returns the id of every note in the collection.
	FindAllNoteIDs(ctx context.Context) ([]NoteID, error)

	// GetNote loads a note together with its cards.
	GetNote(ctx context.Context, id NoteID) (*Note, error)

	// UpdateNotes persists guid, tags and fields of existing notes in one batch.
	UpdateNotes(ctx context.Context, notes []*Note) error

	// UpdateCards persists the deck of existing cards in one batch.
	UpdateCards(ctx context.Context, cards []Card) error

	// AddNotes inserts new notes and generates their cards in the requested decks.
	AddNotes(ctx context.Context, reqs []AddNoteRequest) error
}

// DeckRegistry maps deck names to ids.
type DeckRegistry interface {
	// ResolveDeck returns the id of the named deck, creating the deck if needed.
	ResolveDeck(ctx context.Context, name string) (DeckID, error)

	// DeckName returns the name of a deck.
	DeckName(ctx context.Context, id DeckID) (string, error)
}

// DeckFinder is implemented by registries that can look a deck up without creating it.
type DeckFinder interface {
	FindDeck(ctx context.Context, name string) (DeckID, bool, error)
}

// TypeRegistry resolves note types.
type TypeRegistry interface {
	// FindType looks a note type up by its exact name.
	FindType(ctx context.Context, name string) (*NoteType, bool, error)

	// ListTypes returns every note type of the collection.
	ListTypes(ctx context.Context) ([]NoteType, error)
}

// Collection is everything an import run needs from the host.
type Collection interface {
	NoteStore
	DeckRegistry
	TypeRegistry
}
