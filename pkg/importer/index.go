package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/notatki/pkg/core"
)

// Index maps guids to the notes currently in the collection.
// It is built once per run and discarded afterwards.
type Index struct {
	byGUID map[string]*core.Note
}

// BuildIndex scans every note of the store once.
// Notes without a guid are skipped. When two notes share a guid the one
// scanned last wins.
func BuildIndex(ctx context.Context, store core.NoteStore, logger *slog.Logger) (*Index, error) {
	ids, err := store.FindAllNoteIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list notes: %w", core.ErrStoreFailure, err)
	}

	idx := &Index{byGUID: make(map[string]*core.Note, len(ids))}
	for _, id := range ids {
		note, err := store.GetNote(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to load note %d: %w", core.ErrStoreFailure, id, err)
		}
		if note.GUID == "" {
			if logger != nil {
				logger.Debug("skipping note without guid", "id", id)
			}
			continue
		}
		idx.byGUID[note.GUID] = note
	}
	return idx, nil
}

// Lookup returns the note with the given guid.
func (idx *Index) Lookup(guid string) (*core.Note, bool) {
	n, ok := idx.byGUID[guid]
	return n, ok
}

// Len returns the number of indexed notes.
func (idx *Index) Len() int {
	return len(idx.byGUID)
}
