package platform

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	lcsupervisor "github.com/aretw0/lifecycle/pkg/core/supervisor"
	"github.com/aretw0/lifecycle/pkg/core/worker"

	"github.com/aretw0/notatki/pkg/adapters/fs"
	lcsource "github.com/aretw0/notatki/pkg/adapters/lifecycle"
	"github.com/aretw0/notatki/pkg/adapters/sqlite"
	"github.com/aretw0/notatki/pkg/core"
	"github.com/aretw0/notatki/pkg/importer"
)

// Session is an opened collection plus the importer running against it.
type Session struct {
	Collection core.Collection
	Importer   *importer.Importer

	opts   *options
	logger *slog.Logger
	store  *sqlite.Store
}

// ResultHandler receives the outcome of every import triggered by Watch.
type ResultHandler func(path string, res *importer.Result, err error)

// Open opens (creating if needed) the collection and wires the importer.
//
//	s, err := notatki.Open(ctx, notatki.WithDatabase("deck.db"))
func Open(ctx context.Context, opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		logger = discardLogger()
	}

	s := &Session{opts: o, logger: logger, Collection: o.collection}

	if s.Collection == nil {
		store, err := sqlite.Open(o.database, logger)
		if err != nil {
			return nil, err
		}
		if err := store.Initialize(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		s.store = store
		s.Collection = store
		logger.Debug("collection opened", "path", o.database)
	}

	s.Importer = importer.New(s.Collection,
		importer.WithLogger(logger),
		importer.WithDryRun(o.dryRun),
	)
	return s, nil
}

// Close releases the database, if the session opened one.
func (s *Session) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// ImportFile runs one import.
func (s *Session) ImportFile(ctx context.Context, path string) (*importer.Result, error) {
	return s.Importer.ImportFile(ctx, path)
}

// Watch imports every document below root that settles after a change, until
// ctx is cancelled. The watch worker is supervised and restarted on failure.
func (s *Session) Watch(ctx context.Context, root string, handle ResultHandler) error {
	w := fs.NewWatcher(fs.Config{
		Root:         root,
		Pattern:      s.opts.pattern,
		Debounce:     s.opts.debounce,
		Logger:       s.logger,
		ErrorHandler: s.opts.errorHandler,
	})

	paths := make(chan string)
	spec := lcsupervisor.Spec{
		Name: "fs-watcher",
		Type: string(worker.TypeGoroutine),
		Factory: func() (worker.Worker, error) {
			return w.NewWorker(paths), nil
		},
		Backoff: lcsupervisor.Backoff{
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     5 * time.Second,
			Multiplier:      2,
			ResetDuration:   30 * time.Second,
			MaxRestarts:     5,
			MaxDuration:     time.Minute,
		},
		RestartPolicy: lcsupervisor.RestartOnFailure,
	}

	sup := lcsupervisor.New("notatki-watch", lcsupervisor.StrategyOneForOne, spec)
	if err := sup.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sup.Stop(stopCtx); err != nil {
			s.logger.Warn("watcher did not stop cleanly", "error", err)
		}
	}()

	src := lcsource.NewSource(paths)
	if err := src.Start(ctx); err != nil {
		return fmt.Errorf("failed to start event source: %w", err)
	}

	s.logger.Info("watching", "root", root, "pattern", s.opts.pattern)
	for ev := range src.Events() {
		changed, ok := ev.(lcsource.DocumentChanged)
		if !ok {
			continue
		}
		s.logger.Debug(ev.String())
		res, err := s.Importer.ImportFile(ctx, changed.Path)
		if handle != nil {
			handle(changed.Path, res, err)
		}
	}
	return nil
}

// State aggregates the state of the session components.
func (s *Session) State() any {
	state := map[string]any{
		"importer": s.Importer.State(),
	}
	if s.store != nil {
		state["collection"] = s.store.State()
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Session) ComponentType() string {
	return "session"
}
