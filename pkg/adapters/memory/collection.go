// Package memory provides an in-memory collection, seeded with the built-in
// note types and the default deck.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/notatki/pkg/core"
)

// Collection implements core.Collection and core.DeckFinder in memory.
type Collection struct {
	mu sync.RWMutex

	notes    map[core.NoteID]*core.Note
	cardNote map[core.CardID]core.NoteID
	nextNote core.NoteID
	nextCard core.CardID

	deckIDs   map[string]core.DeckID
	deckNames map[core.DeckID]string
	nextDeck  core.DeckID

	types map[string]core.NoteType
}

// New returns a collection holding the default deck and the built-in note types.
func New() *Collection {
	c := &Collection{
		notes:     make(map[core.NoteID]*core.Note),
		cardNote:  make(map[core.CardID]core.NoteID),
		nextNote:  1,
		nextCard:  1,
		deckIDs:   map[string]core.DeckID{core.DefaultDeckName: core.DefaultDeckID},
		deckNames: map[core.DeckID]string{core.DefaultDeckID: core.DefaultDeckName},
		nextDeck:  core.DefaultDeckID + 1,
		types:     make(map[string]core.NoteType),
	}
	for _, t := range core.BuiltinTypes() {
		c.types[t.Name] = t
	}
	return c
}

// AddType registers or replaces a note type.
func (c *Collection) AddType(t core.NoteType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types[t.Name] = t
}

// FindAllNoteIDs implements core.NoteStore. Ids are returned in ascending order.
func (c *Collection) FindAllNoteIDs(ctx context.Context) ([]core.NoteID, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]core.NoteID, 0, len(c.notes))
	for id := range c.notes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// GetNote implements core.NoteStore. The returned note is a copy.
func (c *Collection) GetNote(ctx context.Context, id core.NoteID) (*core.Note, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n, ok := c.notes[id]
	if !ok {
		return nil, fmt.Errorf("note %d: %w", id, core.ErrNotFound)
	}
	return n.Clone(), nil
}

// UpdateNotes implements core.NoteStore. Cards are left untouched.
func (c *Collection) UpdateNotes(ctx context.Context, notes []*core.Note) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, n := range notes {
		if _, ok := c.notes[n.ID]; !ok {
			return fmt.Errorf("note %d: %w", n.ID, core.ErrNotFound)
		}
	}
	for _, n := range notes {
		stored := c.notes[n.ID]
		upd := n.Clone()
		upd.Cards = stored.Cards
		c.notes[n.ID] = upd
	}
	return nil
}

// UpdateCards implements core.NoteStore. Only the deck of a card is persisted.
func (c *Collection) UpdateCards(ctx context.Context, cards []core.Card) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, card := range cards {
		if _, ok := c.cardNote[card.ID]; !ok {
			return fmt.Errorf("card %d: %w", card.ID, core.ErrNotFound)
		}
		if _, ok := c.deckNames[card.DeckID]; !ok {
			return fmt.Errorf("deck %d: %w", card.DeckID, core.ErrNotFound)
		}
	}
	for _, card := range cards {
		n := c.notes[c.cardNote[card.ID]]
		for i := range n.Cards {
			if n.Cards[i].ID == card.ID {
				n.Cards[i].DeckID = card.DeckID
			}
		}
	}
	return nil
}

// AddNotes implements core.NoteStore. The ids of the new notes are written
// back into the requests.
func (c *Collection) AddNotes(ctx context.Context, reqs []core.AddNoteRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, req := range reqs {
		if _, ok := c.types[req.Note.Type]; !ok {
			return fmt.Errorf("note type %q: %w", req.Note.Type, core.ErrNotFound)
		}
		if _, ok := c.deckNames[req.Deck]; !ok {
			return fmt.Errorf("deck %d: %w", req.Deck, core.ErrNotFound)
		}
	}
	for _, req := range reqs {
		t := c.types[req.Note.Type]
		n := req.Note.Clone()
		n.ID = c.nextNote
		c.nextNote++
		n.Cards = []core.Card{}
		for _, ord := range core.CardOrds(&t, n) {
			card := core.Card{ID: c.nextCard, NoteID: n.ID, DeckID: req.Deck, Ord: ord}
			c.nextCard++
			n.Cards = append(n.Cards, card)
			c.cardNote[card.ID] = n.ID
		}
		c.notes[n.ID] = n
		req.Note.ID = n.ID
	}
	return nil
}

// ResolveDeck implements core.DeckRegistry.
func (c *Collection) ResolveDeck(ctx context.Context, name string) (core.DeckID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if id, ok := c.deckIDs[name]; ok {
		return id, nil
	}
	id := c.nextDeck
	c.nextDeck++
	c.deckIDs[name] = id
	c.deckNames[id] = name
	return id, nil
}

// FindDeck implements core.DeckFinder.
func (c *Collection) FindDeck(ctx context.Context, name string) (core.DeckID, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.deckIDs[name]
	return id, ok, nil
}

// DeckName implements core.DeckRegistry.
func (c *Collection) DeckName(ctx context.Context, id core.DeckID) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	name, ok := c.deckNames[id]
	if !ok {
		return "", fmt.Errorf("deck %d: %w", id, core.ErrNotFound)
	}
	return name, nil
}

// FindType implements core.TypeRegistry.
func (c *Collection) FindType(ctx context.Context, name string) (*core.NoteType, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.types[name]
	if !ok {
		return nil, false, nil
	}
	return &t, true, nil
}

// ListTypes implements core.TypeRegistry. Types are sorted by name.
func (c *Collection) ListTypes(ctx context.Context) ([]core.NoteType, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	types := make([]core.NoteType, 0, len(c.types))
	for _, t := range c.types {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
	return types, nil
}

var _ core.Collection = (*Collection)(nil)
var _ core.DeckFinder = (*Collection)(nil)
