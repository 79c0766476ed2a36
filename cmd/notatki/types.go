package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/notatki/pkg/adapters/fs"
	"github.com/aretw0/notatki/pkg/jsondoc"
)

func newTypesCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		out    string
	)

	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the note types of the collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.Close()

			types, err := s.Collection.ListTypes(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON || out != "" {
				doc := &jsondoc.Collection{}
				for _, t := range types {
					doc.Models = append(doc.Models, jsondoc.FromNoteType(t))
				}
				data, err := jsondoc.Marshal(doc)
				if err != nil {
					return err
				}
				if out != "" {
					if err := fs.WriteFileAtomic(out, data, 0644); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d note types to %s\n", len(types), out)
					return nil
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			for _, t := range types {
				kind := ""
				if t.Cloze {
					kind = " [cloze]"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d)%s: %s\n", t.Name, t.ID, kind, strings.Join(t.FieldNames(), ", "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output a JSON document holding the note types as models")
	cmd.Flags().StringVar(&out, "out", "", "Write the JSON document to a file")
	return cmd
}
