package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/notatki/pkg/core"
	"github.com/aretw0/notatki/pkg/jsondoc"
)

// Reconciler classifies incoming notes against the collection and merges them
// into staged notes. It never writes notes itself; see Apply.
type Reconciler struct {
	decks  core.DeckRegistry
	types  core.TypeRegistry
	index  *Index
	logger *slog.Logger

	typeCache map[string]*core.NoteType
	// staged maps a guid to its entry in ChangeSet.ToUpdate, so repeated
	// guids in one document accumulate on the same working copy.
	staged map[string]int
}

// NewReconciler creates a reconciler for a single run.
func NewReconciler(decks core.DeckRegistry, types core.TypeRegistry, index *Index, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		decks:     decks,
		types:     types,
		index:     index,
		logger:    logger,
		typeCache: make(map[string]*core.NoteType),
	}
}

// Reconcile processes notes strictly in input order.
// Per-note problems are recorded in the change set; only collaborator errors
// abort the run.
func (r *Reconciler) Reconcile(ctx context.Context, notes []jsondoc.Note) (*ChangeSet, error) {
	cs := NewChangeSet()
	r.staged = make(map[string]int)
	for _, in := range notes {
		if err := r.process(ctx, cs, in); err != nil {
			return nil, err
		}
	}
	return cs, nil
}

func (r *Reconciler) process(ctx context.Context, cs *ChangeSet, in jsondoc.Note) error {
	deck, err := r.decks.ResolveDeck(ctx, in.Deck)
	if err != nil {
		return fmt.Errorf("%w: failed to resolve deck %q: %w", core.ErrStoreFailure, in.Deck, err)
	}

	if existing, ok := r.index.Lookup(in.GUID); ok {
		t, _, err := r.findType(ctx, existing.Type)
		if err != nil {
			return err
		}
		base := existing
		pos, restaged := r.staged[in.GUID]
		if restaged {
			base = cs.ToUpdate[pos].Note
		}
		// The merge works on a copy so a failed merge leaves the working note untouched.
		candidate := base.Clone()
		if err := r.merge(cs, candidate, t, in); err != nil {
			r.debug("note failed", "guid", in.GUID, "error", err)
			cs.fail(in, err)
			return nil
		}
		st := Staged{Note: candidate, Deck: deck, Before: existing, Source: in}
		if restaged {
			cs.restageUpdate(pos, st)
		} else {
			r.staged[in.GUID] = cs.stageUpdate(st)
		}
		return nil
	}

	t, ok, err := r.findType(ctx, in.Type)
	if err != nil {
		return err
	}
	if !ok {
		cs.unknownModel(in.Type)
		err := fmt.Errorf("%w: %q", core.ErrUnmatchedType, in.Type)
		r.debug("note failed", "guid", in.GUID, "error", err)
		cs.fail(in, err)
		return nil
	}

	candidate := core.NewNote(t)
	if err := r.merge(cs, candidate, t, in); err != nil {
		r.debug("note failed", "guid", in.GUID, "error", err)
		cs.fail(in, err)
		return nil
	}
	cs.stageAdd(Staged{Note: candidate, Deck: deck, Source: in})
	return nil
}

// merge copies guid, tags and fields of in into note.
// Tags are appended without removal or deduplication. The first field the type
// does not declare stops the merge; later fields are not applied.
func (r *Reconciler) merge(cs *ChangeSet, note *core.Note, t *core.NoteType, in jsondoc.Note) error {
	note.GUID = in.GUID
	note.Tags = append(note.Tags, in.Tags...)

	for _, f := range in.Fields {
		declared := note.HasField(f.Name)
		if t != nil {
			declared = t.HasField(f.Name)
		}
		if !declared {
			cs.unknownField(f.Name)
			return fmt.Errorf("%w: %q", core.ErrUnmatchedField, f.Name)
		}
		if err := note.SetField(f.Name, f.Value); err != nil {
			cs.unknownField(f.Name)
			return err
		}
	}
	return nil
}

func (r *Reconciler) findType(ctx context.Context, name string) (*core.NoteType, bool, error) {
	if t, ok := r.typeCache[name]; ok {
		return t, t != nil, nil
	}
	t, ok, err := r.types.FindType(ctx, name)
	if err != nil {
		return nil, false, fmt.Errorf("%w: failed to look up note type %q: %w", core.ErrStoreFailure, name, err)
	}
	if !ok {
		t = nil
	}
	r.typeCache[name] = t
	return t, ok, nil
}

func (r *Reconciler) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}
