package fs

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period a file must go through before it is reported.
const DefaultDebounce = 200 * time.Millisecond

// Config configures a Watcher.
type Config struct {
	Root     string
	Pattern  string
	Debounce time.Duration
	Logger   *slog.Logger
	// ErrorHandler receives watcher errors. When nil they are only logged.
	ErrorHandler func(error)
}

// Watcher reports JSON documents below a root as they are created or rewritten.
// The work itself runs in workers built with NewWorker, so a supervisor can
// restart it.
type Watcher struct {
	config Config

	mu        sync.RWMutex
	active    bool
	events    int
	lastEvent *time.Time
}

// NewWatcher fills in defaults for the zero fields of cfg.
func NewWatcher(cfg Config) *Watcher {
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.Pattern == "" {
		cfg.Pattern = DefaultPattern
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Watcher{config: cfg}
}

// Root returns the watched directory.
func (w *Watcher) Root() string { return w.config.Root }

// NewWorker returns a fresh worker that sends settled file paths to out.
// The channel is never closed by the worker.
func (w *Watcher) NewWorker(out chan<- string) worker.Worker {
	return newWatchWorker(w, out)
}

// recursiveAdd registers root and every non-hidden directory below it.
func (w *Watcher) recursiveAdd(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}

// relevant reports whether a filesystem event names a document worth importing.
func (w *Watcher) relevant(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if isTempFile(event.Name) {
		return "", false
	}
	rel, err := filepath.Rel(w.config.Root, event.Name)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return "", false
		}
	}
	if !Match(w.config.Pattern, rel) {
		return "", false
	}
	return event.Name, true
}

func (w *Watcher) setActive(active bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.active = active
}

func (w *Watcher) recordEvent() {
	w.mu.Lock()
	defer w.mu.Unlock()
	now := time.Now()
	w.events++
	w.lastEvent = &now
}

func (w *Watcher) handleError(err error) {
	w.config.Logger.Error("watcher error", "error", err)
	if w.config.ErrorHandler != nil {
		w.config.ErrorHandler(err)
	}
}
