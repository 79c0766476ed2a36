package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notatki/pkg/adapters/memory"
	"github.com/aretw0/notatki/pkg/core"
)

func TestCollection_AddAndGet(t *testing.T) {
	ctx := context.Background()
	col := memory.New()

	basic, ok, err := col.FindType(ctx, "Basic (and reversed card)")
	require.NoError(t, err)
	require.True(t, ok)

	deck, err := col.ResolveDeck(ctx, "Languages")
	require.NoError(t, err)

	n := core.NewNote(basic)
	n.GUID = "g1"
	require.NoError(t, n.SetField("Front", "hello"))
	require.NoError(t, col.AddNotes(ctx, []core.AddNoteRequest{{Note: n, Deck: deck}}))
	assert.NotZero(t, n.ID)

	ids, err := col.FindAllNoteIDs(ctx)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	got, err := col.GetNote(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "g1", got.GUID)
	require.Len(t, got.Cards, 2)
	for _, c := range got.Cards {
		assert.Equal(t, deck, c.DeckID)
	}
}

func TestCollection_Decks(t *testing.T) {
	ctx := context.Background()
	col := memory.New()

	id, ok, err := col.FindDeck(ctx, core.DefaultDeckName)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, core.DefaultDeckID, id)

	_, ok, err = col.FindDeck(ctx, "New")
	require.NoError(t, err)
	assert.False(t, ok, "FindDeck must not create decks")

	a, err := col.ResolveDeck(ctx, "New")
	require.NoError(t, err)
	b, err := col.ResolveDeck(ctx, "New")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	name, err := col.DeckName(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, "New", name)

	_, err = col.DeckName(ctx, 999)
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestCollection_UpdateUnknownNote(t *testing.T) {
	col := memory.New()
	err := col.UpdateNotes(context.Background(), []*core.Note{{ID: 42}})
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestCollection_GetNoteReturnsCopy(t *testing.T) {
	ctx := context.Background()
	col := memory.New()
	basic, _, _ := col.FindType(ctx, "Basic")

	n := core.NewNote(basic)
	n.GUID = "g"
	require.NoError(t, col.AddNotes(ctx, []core.AddNoteRequest{{Note: n, Deck: core.DefaultDeckID}}))

	got, err := col.GetNote(ctx, n.ID)
	require.NoError(t, err)
	got.Tags = append(got.Tags, "local")

	again, err := col.GetNote(ctx, n.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Tags)
}

func TestCollection_ListTypes(t *testing.T) {
	col := memory.New()
	col.AddType(core.NoteType{Name: "Vocabulary", Fields: []core.FieldDef{{Name: "Word"}}})

	types, err := col.ListTypes(context.Background())
	require.NoError(t, err)
	assert.Len(t, types, 6)
	assert.Equal(t, "Basic", types[0].Name)
}
