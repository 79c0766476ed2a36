package importer

import (
	"context"
	"fmt"
	"strings"

	difflib "github.com/pmezard/go-difflib/difflib"

	"github.com/aretw0/notatki/pkg/core"
)

// Diff renders a unified diff between the stored and the merged version of a
// staged note: deck, tags and every field. New notes diff against nothing.
// An empty string means the merge changed nothing.
func Diff(ctx context.Context, decks core.DeckRegistry, s Staged) (string, error) {
	before := ""
	if s.Before != nil {
		deck := ""
		if len(s.Before.Cards) > 0 {
			name, err := decks.DeckName(ctx, s.Before.Cards[0].DeckID)
			if err != nil {
				return "", fmt.Errorf("failed to resolve deck name: %w", err)
			}
			deck = name
		}
		before = renderNote(s.Before, deck)
	}
	after := renderNote(s.Note, s.Source.Deck)

	u := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + s.Source.GUID,
		ToFile:   "b/" + s.Source.GUID,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(u)
}

func renderNote(n *core.Note, deck string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "deck: %s\n", deck)
	fmt.Fprintf(&b, "type: %s\n", n.Type)
	fmt.Fprintf(&b, "tags: %s\n", strings.Join(n.Tags, " "))
	for _, f := range n.Fields {
		fmt.Fprintf(&b, "%s: %s\n", f.Name, f.Value)
	}
	return b.String()
}
