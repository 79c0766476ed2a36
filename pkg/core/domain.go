// Package core holds the domain entities of a flashcard collection and the ports
// the import pipeline talks to.
package core

import "fmt"

// NoteID identifies a note inside one collection.
type NoteID int64

// CardID identifies a card inside one collection.
type CardID int64

// DeckID identifies a deck inside one collection.
type DeckID int64

// DefaultDeckID is the deck every collection starts with.
const DefaultDeckID DeckID = 1

// DefaultDeckName is the name of the deck with DefaultDeckID.
const DefaultDeckName = "Default"

// Field is a single named value of a note.
type Field struct {
	Name  string
	Value string
}

// Card is a renderable instance of a note produced by one template of its type.
type Card struct {
	ID     CardID
	NoteID NoteID
	DeckID DeckID
	Ord    int
}

// Note is the data record behind one or more cards.
// GUID is the identity that survives across collections.
type Note struct {
	ID     NoteID
	GUID   string
	Type   string
	Tags   []string
	Fields []Field
	Cards  []Card
}

// NewNote creates an empty note of the given type, with one blank field per
// declared field.
func NewNote(t *NoteType) *Note {
	n := &Note{
		Type:   t.Name,
		Tags:   []string{},
		Fields: make([]Field, 0, len(t.Fields)),
		Cards:  []Card{},
	}
	for _, f := range t.Fields {
		n.Fields = append(n.Fields, Field{Name: f.Name})
	}
	return n
}

// HasField reports whether the note carries a field with this name.
func (n *Note) HasField(name string) bool {
	for _, f := range n.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Field returns the value of the named field.
func (n *Note) Field(name string) (string, bool) {
	for _, f := range n.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// SetField assigns a value to an existing field.
// It never adds fields: the note's layout is owned by its type.
func (n *Note) SetField(name, value string) error {
	for i := range n.Fields {
		if n.Fields[i].Name == name {
			n.Fields[i].Value = value
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnmatchedField, name)
}

// FieldMap returns the fields as a plain map.
func (n *Note) FieldMap() map[string]string {
	m := make(map[string]string, len(n.Fields))
	for _, f := range n.Fields {
		m[f.Name] = f.Value
	}
	return m
}

// Clone returns a deep copy of the note.
func (n *Note) Clone() *Note {
	c := *n
	c.Tags = append([]string{}, n.Tags...)
	c.Fields = append([]Field{}, n.Fields...)
	c.Cards = append([]Card{}, n.Cards...)
	return &c
}

// FieldDef declares one field of a note type.
type FieldDef struct {
	Name string
}

// Template declares how one card of a note type is rendered.
type Template struct {
	Name  string
	Front string
	Back  string
}

// NoteType is the schema shared by notes: declared fields and card templates.
type NoteType struct {
	ID        int64
	Name      string
	Cloze     bool
	Fields    []FieldDef
	Templates []Template
	Styles    string
}

// HasField reports whether the type declares a field with this name.
func (t *NoteType) HasField(name string) bool {
	for _, f := range t.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// FieldNames returns the declared field names in order.
func (t *NoteType) FieldNames() []string {
	names := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		names = append(names, f.Name)
	}
	return names
}

// AddNoteRequest pairs a new note with the deck its cards go to.
type AddNoteRequest struct {
	Note *Note
	Deck DeckID
}
