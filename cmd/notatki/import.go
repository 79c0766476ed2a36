package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/notatki"
	"github.com/aretw0/notatki/pkg/adapters/fs"
	"github.com/aretw0/notatki/pkg/core"
	"github.com/aretw0/notatki/pkg/importer"
)

func newImportCmd(a *app) *cobra.Command {
	var (
		dryRun   bool
		showDiff bool
	)

	cmd := &cobra.Command{
		Use:   "import <file or glob>...",
		Short: "Import one or more JSON documents",
		Long: `Import JSON documents into the collection, one after the other.
Arguments that are not existing files are expanded as doublestar globs (e.g. "decks/**/*.json").`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := fs.Expand(args)
			if err != nil {
				return err
			}

			var extra []notatki.Option
			if cmd.Flags().Changed("dry-run") {
				extra = append(extra, notatki.WithDryRun(dryRun))
			}
			s, err := a.open(cmd.Context(), extra...)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range files {
				res, err := s.ImportFile(cmd.Context(), path)
				if err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					continue
				}
				printResult(out, path, res)
				if showDiff {
					if err := printDiffs(cmd, s.Collection, res); err != nil {
						return err
					}
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d imports failed", failed, len(files))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Reconcile without writing to the collection")
	cmd.Flags().BoolVar(&showDiff, "diff", false, "Print a unified diff for every added or updated note")
	return cmd
}

func printResult(out io.Writer, path string, res *importer.Result) {
	prefix := ""
	if res.DryRun {
		prefix = "[dry run] "
	}
	fmt.Fprintf(out, "%s%s: %s\n", prefix, path, res.Summary())
	if len(res.UnknownModels) > 0 {
		fmt.Fprintf(out, "  unknown note types: %s\n", strings.Join(res.UnknownModels, ", "))
	}
	if len(res.UnknownFields) > 0 {
		fmt.Fprintf(out, "  unknown fields: %s\n", strings.Join(res.UnknownFields, ", "))
	}
}

func printDiffs(cmd *cobra.Command, decks core.DeckRegistry, res *importer.Result) error {
	if res.Changes == nil {
		return nil
	}
	staged := append(append([]importer.Staged{}, res.Changes.ToUpdate...), res.Changes.ToAdd...)
	for _, st := range staged {
		diff, err := importer.Diff(cmd.Context(), decks, st)
		if err != nil {
			return err
		}
		if diff != "" {
			fmt.Fprint(cmd.OutOrStdout(), diff)
		}
	}
	return nil
}
