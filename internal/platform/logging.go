package platform

import (
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig selects where and how verbosely the CLI logs.
type LogConfig struct {
	Verbose bool
	// File, when set, sends logs to a rotating file instead of Output.
	File   string
	Output io.Writer
}

// NewLogger builds the process logger. The returned closer releases the log
// file, if any, and is never nil.
func NewLogger(cfg LogConfig) (*slog.Logger, io.Closer) {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}

	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		handler := slog.NewTextHandler(rotator, &slog.HandlerOptions{Level: level})
		return slog.New(handler), rotator
	}

	out := cfg.Output
	if out == nil {
		out = io.Discard
	}
	charmLevel := log.InfoLevel
	if cfg.Verbose {
		charmLevel = log.DebugLevel
	}
	handler := log.NewWithOptions(out, log.Options{
		Level:           charmLevel,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "notatki",
	})
	return slog.New(handler), nopCloser{}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// discardLogger is used by components built without a logger.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
