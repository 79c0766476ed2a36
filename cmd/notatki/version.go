package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/notatki"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of notatki",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "notatki version %s\n", strings.TrimSpace(notatki.Version))
		},
	}
}
