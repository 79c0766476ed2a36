package importer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notatki/pkg/adapters/memory"
	"github.com/aretw0/notatki/pkg/importer"
)

func TestBuildIndex(t *testing.T) {
	ctx := context.Background()
	col := memory.New()
	first := seed(t, col, "dup", "Default", []string{"first"}, nil)
	seed(t, col, "", "Default", nil, nil)
	second := seed(t, col, "dup", "Default", []string{"second"}, nil)
	seed(t, col, "other", "Default", nil, nil)

	idx, err := importer.BuildIndex(ctx, col, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, idx.Len(), "notes without guid are skipped")

	n, ok := idx.Lookup("dup")
	require.True(t, ok)
	assert.Equal(t, second, n.ID, "later note wins")
	assert.NotEqual(t, first, n.ID)

	_, ok = idx.Lookup("missing")
	assert.False(t, ok)
	_, ok = idx.Lookup("")
	assert.False(t, ok)
}
