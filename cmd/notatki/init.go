package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the collection database",
		Long:  `Create the collection database if missing and seed it with the Default deck and the built-in note types.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize collection: %w", err)
			}
			defer s.Close()

			fmt.Fprintln(cmd.OutOrStdout(), "Initialized collection in", a.databasePath())
			return nil
		},
	}
}
