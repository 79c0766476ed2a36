package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/notatki/pkg/adapters/fs"
	"github.com/aretw0/notatki/pkg/core"
)

// DefaultDatabase is the collection file used when none is configured.
const DefaultDatabase = "notatki.db"

// options holds the internal configuration for a notatki session.
type options struct {
	collection   core.Collection
	logger       *slog.Logger
	database     string
	dryRun       bool
	pattern      string
	debounce     time.Duration
	errorHandler func(error)
}

// Option defines a functional option for configuring notatki.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		database: DefaultDatabase,
		pattern:  fs.DefaultPattern,
	}
}

// WithLogger sets the logger for the session and every component it builds.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithDatabase sets the path of the SQLite collection file.
func WithDatabase(path string) Option {
	return func(o *options) {
		if path != "" {
			o.database = path
		}
	}
}

// WithCollection allows injecting a custom collection (e.g. the in-memory one).
// If provided, no database is opened.
func WithCollection(col core.Collection) Option {
	return func(o *options) {
		o.collection = col
	}
}

// WithDryRun reconciles documents without committing anything.
func WithDryRun(enabled bool) Option {
	return func(o *options) {
		o.dryRun = enabled
	}
}

// WithPattern sets the doublestar pattern used to discover and watch documents.
func WithPattern(pattern string) Option {
	return func(o *options) {
		if pattern != "" {
			o.pattern = pattern
		}
	}
}

// WithDebounce sets how long a watched file must stay quiet before it is imported.
// Zero means default.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		o.debounce = d
	}
}

// WithWatcherErrorHandler registers a callback for errors raised while watching.
// They are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
