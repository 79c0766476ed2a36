package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/notatki"
	"github.com/aretw0/notatki/internal/platform"
)

// app carries the persistent flags and what PersistentPreRunE derives from them.
type app struct {
	verbose    bool
	configPath string
	database   string
	logFile    string

	cfg      *notatki.Config
	logger   *slog.Logger
	closeLog io.Closer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "notatki",
		Short: "Import notatki JSON flashcard documents into a collection",
		Long: `notatki reconciles JSON documents of notes with a SQLite flashcard collection.
Notes are matched by guid: known notes are updated and moved to their deck,
new ones are created from their note type. Re-importing a document is safe.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.closeLog != nil {
				_ = a.closeLog.Close()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: nearest "+notatki.ConfigFileName+")")
	rootCmd.PersistentFlags().StringVar(&a.database, "db", "", "Collection database (default: "+notatki.DefaultDatabase+")")
	rootCmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", "Write logs to a rotating file instead of stderr")

	rootCmd.AddCommand(
		newInitCmd(a),
		newImportCmd(a),
		newWatchCmd(a),
		newTypesCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	var err error
	if a.configPath != "" {
		a.cfg, err = notatki.LoadConfig(a.configPath)
	} else {
		a.cfg, err = notatki.DiscoverConfig(".")
	}
	if err != nil {
		return err
	}

	logFile := a.logFile
	if logFile == "" {
		logFile = a.cfg.LogPath()
	}
	a.logger, a.closeLog = platform.NewLogger(platform.LogConfig{
		Verbose: a.verbose,
		File:    logFile,
		Output:  cmd.ErrOrStderr(),
	})
	slog.SetDefault(a.logger)
	return nil
}

// databasePath applies flag > config file > default.
func (a *app) databasePath() string {
	if a.database != "" {
		return a.database
	}
	if p := a.cfg.DatabasePath(); p != "" {
		return p
	}
	return notatki.DefaultDatabase
}

// open starts a session honouring config and persistent flags. Extra options win.
func (a *app) open(ctx context.Context, extra ...notatki.Option) (*notatki.Session, error) {
	opts := append(a.cfg.Options(),
		notatki.WithDatabase(a.databasePath()),
		notatki.WithLogger(a.logger),
	)
	opts = append(opts, extra...)
	return notatki.Open(ctx, opts...)
}
