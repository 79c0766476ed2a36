// Package importer reconciles a JSON document with a collection: it matches
// incoming notes to stored ones by guid, merges them, and commits the result in
// batches.
//
// A run is synchronous. It either returns a full Result or an error; document
// errors abort before anything is written, store errors may abort mid-commit.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/notatki/pkg/core"
	"github.com/aretw0/notatki/pkg/jsondoc"
)

// Option configures an Importer.
type Option func(*Importer)

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(im *Importer) {
		im.logger = logger
	}
}

// WithDryRun makes runs classify notes without committing them or creating decks.
func WithDryRun(enabled bool) Option {
	return func(im *Importer) {
		im.dryRun = enabled
	}
}

// Importer runs imports against one collection.
// Runs on the same Importer are serialised.
type Importer struct {
	col    core.Collection
	logger *slog.Logger
	dryRun bool

	mu      sync.Mutex
	runs    int
	lastRun *time.Time
	last    *Result
}

// New creates an Importer for the collection.
func New(col core.Collection, opts ...Option) *Importer {
	im := &Importer{col: col}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Result summarises one run.
type Result struct {
	Added   int
	Updated int
	Failed  int

	UnknownModels []string
	UnknownFields []string

	DryRun  bool
	Changes *ChangeSet
}

// Summary returns the line shown to users after a run.
func (r *Result) Summary() string {
	return fmt.Sprintf("Added %d and updated %d notes, %d errors.", r.Added, r.Updated, r.Failed)
}

func newResult(cs *ChangeSet, dryRun bool) *Result {
	return &Result{
		Added:         len(cs.Added),
		Updated:       len(cs.Updated),
		Failed:        len(cs.Failed),
		UnknownModels: cs.UnknownModels,
		UnknownFields: cs.UnknownFields,
		DryRun:        dryRun,
		Changes:       cs,
	}
}

// ImportFile imports the document stored at path.
func (im *Importer) ImportFile(ctx context.Context, path string) (*Result, error) {
	doc, err := jsondoc.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading notatki JSON file: %w", err)
	}
	if im.logger != nil {
		im.logger.Debug("document loaded", "path", path, "notes", len(doc.Notes))
	}
	return im.ImportDocument(ctx, doc)
}

// Import reads a document from r and imports it.
func (im *Importer) Import(ctx context.Context, r io.Reader) (*Result, error) {
	doc, err := jsondoc.Load(r)
	if err != nil {
		return nil, fmt.Errorf("error reading notatki JSON file: %w", err)
	}
	return im.ImportDocument(ctx, doc)
}

// ImportDocument imports an already parsed document.
func (im *Importer) ImportDocument(ctx context.Context, doc *jsondoc.Collection) (*Result, error) {
	im.mu.Lock()
	defer im.mu.Unlock()

	var decks core.DeckRegistry = im.col
	if im.dryRun {
		finder, ok := im.col.(core.DeckFinder)
		if !ok {
			return nil, core.ErrDryRunUnsupported
		}
		decks = newProvisionalDecks(im.col, finder)
	}

	idx, err := BuildIndex(ctx, im.col, im.logger)
	if err != nil {
		return nil, err
	}
	if im.logger != nil {
		im.logger.Debug("note index built", "notes", idx.Len())
	}

	cs, err := NewReconciler(decks, im.col, idx, im.logger).Reconcile(ctx, doc.Notes)
	if err != nil {
		return nil, err
	}

	if !im.dryRun {
		if err := Apply(ctx, im.col, cs); err != nil {
			return nil, err
		}
	}

	res := newResult(cs, im.dryRun)
	if im.logger != nil {
		im.logger.Info("import finished",
			"added", res.Added,
			"updated", res.Updated,
			"failed", res.Failed,
			"dry_run", im.dryRun,
		)
		if len(res.UnknownModels) > 0 {
			im.logger.Warn("unknown note types", "names", res.UnknownModels)
		}
		if len(res.UnknownFields) > 0 {
			im.logger.Warn("unknown fields", "names", res.UnknownFields)
		}
	}

	now := time.Now()
	im.runs++
	im.lastRun = &now
	im.last = res
	return res, nil
}

// provisionalDecks resolves deck names without creating decks.
// Names the collection does not know get negative ids, stable for one run.
type provisionalDecks struct {
	core.DeckRegistry
	finder  core.DeckFinder
	pending map[string]core.DeckID
	next    core.DeckID
}

func newProvisionalDecks(reg core.DeckRegistry, finder core.DeckFinder) *provisionalDecks {
	return &provisionalDecks{
		DeckRegistry: reg,
		finder:       finder,
		pending:      make(map[string]core.DeckID),
	}
}

func (p *provisionalDecks) ResolveDeck(ctx context.Context, name string) (core.DeckID, error) {
	if id, ok := p.pending[name]; ok {
		return id, nil
	}
	id, ok, err := p.finder.FindDeck(ctx, name)
	if err != nil {
		return 0, err
	}
	if !ok {
		p.next--
		id = p.next
		p.pending[name] = id
	}
	return id, nil
}

func (p *provisionalDecks) DeckName(ctx context.Context, id core.DeckID) (string, error) {
	for name, pid := range p.pending {
		if pid == id {
			return name, nil
		}
	}
	return p.DeckRegistry.DeckName(ctx, id)
}
