package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/notatki"
	"github.com/aretw0/notatki/pkg/adapters/fs"
	"github.com/aretw0/notatki/pkg/importer"
)

func newWatchCmd(a *app) *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Import documents as they change",
		Long: `Watch a directory tree and import every matching document once it settles.
Runs until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			if info, err := os.Stat(root); err != nil || !info.IsDir() {
				return fmt.Errorf("not a directory: %s", root)
			}

			var extra []notatki.Option
			if cmd.Flags().Changed("pattern") {
				extra = append(extra, notatki.WithPattern(pattern))
			}
			s, err := a.open(cmd.Context(), extra...)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			return s.Watch(ctx, root, func(path string, res *importer.Result, err error) {
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					return
				}
				printResult(out, path, res)
			})
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", fs.DefaultPattern, "Doublestar pattern selecting documents below dir")
	return cmd
}
