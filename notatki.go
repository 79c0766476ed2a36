package notatki

import (
	"context"
	_ "embed"
	"log/slog"
	"time"

	"github.com/aretw0/notatki/internal/platform"
	"github.com/aretw0/notatki/pkg/core"
	"github.com/aretw0/notatki/pkg/importer"
)

// Version exposes the version of the library.
//
//go:embed VERSION
var Version string

// --- Types ---

// Session is an opened collection plus its importer.
type Session = platform.Session

// Result summarises one import run.
type Result = importer.Result

// Config mirrors the .notatki.yaml project file.
type Config = platform.Config

// ResultHandler receives the outcome of every import triggered while watching.
type ResultHandler = platform.ResultHandler

// --- Configuration ---

// Option defines a functional option for configuring notatki.
type Option = platform.Option

// DefaultDatabase is the collection file used when none is configured.
const DefaultDatabase = platform.DefaultDatabase

// ConfigFileName is the name of the optional project configuration file.
const ConfigFileName = platform.ConfigFileName

// WithLogger sets the logger for the session.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithDatabase sets the path of the SQLite collection file.
func WithDatabase(path string) Option {
	return platform.WithDatabase(path)
}

// WithCollection allows injecting a custom collection.
func WithCollection(col core.Collection) Option {
	return platform.WithCollection(col)
}

// WithDryRun reconciles documents without committing anything.
func WithDryRun(enabled bool) Option {
	return platform.WithDryRun(enabled)
}

// WithPattern sets the doublestar pattern used to discover and watch documents.
func WithPattern(pattern string) Option {
	return platform.WithPattern(pattern)
}

// WithDebounce sets how long a watched file must stay quiet before it is imported.
func WithDebounce(d time.Duration) Option {
	return platform.WithDebounce(d)
}

// WithWatcherErrorHandler registers a callback for errors raised while watching.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// LoadConfig reads a configuration file.
func LoadConfig(path string) (*Config, error) {
	return platform.LoadConfig(path)
}

// DiscoverConfig looks for .notatki.yaml from startDir upwards.
func DiscoverConfig(startDir string) (*Config, error) {
	return platform.DiscoverConfig(startDir)
}

// --- Factory ---

// Open opens the collection and wires an importer against it.
func Open(ctx context.Context, opts ...Option) (*Session, error) {
	return platform.Open(ctx, opts...)
}

// --- Operations ---

// ImportFile opens a session, imports one document and closes the session.
func ImportFile(ctx context.Context, path string, opts ...Option) (*Result, error) {
	s, err := Open(ctx, opts...)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.ImportFile(ctx, path)
}
