package importer

import (
	"context"
	"fmt"

	"github.com/aretw0/notatki/pkg/core"
)

// Apply commits a change set with exactly three bulk calls, in order:
// UpdateNotes, UpdateCards (cards whose deck changed) and AddNotes.
// The calls are issued even for empty batches. There is no rollback: an error
// from a later call leaves earlier batches committed.
func Apply(ctx context.Context, store core.NoteStore, cs *ChangeSet) error {
	notes := make([]*core.Note, 0, len(cs.ToUpdate))
	cards := []core.Card{}
	for _, s := range cs.ToUpdate {
		notes = append(notes, s.Note)
		for i := range s.Note.Cards {
			card := &s.Note.Cards[i]
			if card.DeckID != s.Deck {
				card.DeckID = s.Deck
				cards = append(cards, *card)
			}
		}
	}

	if err := store.UpdateNotes(ctx, notes); err != nil {
		return fmt.Errorf("%w: failed to update notes: %w", core.ErrStoreFailure, err)
	}
	if err := store.UpdateCards(ctx, cards); err != nil {
		return fmt.Errorf("%w: failed to update cards: %w", core.ErrStoreFailure, err)
	}

	reqs := make([]core.AddNoteRequest, 0, len(cs.ToAdd))
	for _, s := range cs.ToAdd {
		reqs = append(reqs, core.AddNoteRequest{Note: s.Note, Deck: s.Deck})
	}
	if err := store.AddNotes(ctx, reqs); err != nil {
		return fmt.Errorf("%w: failed to add notes: %w", core.ErrStoreFailure, err)
	}
	return nil
}
