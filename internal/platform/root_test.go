package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRoot(t *testing.T) {
	// base/
	//   collection/ (.notatki.yaml file)
	//     polski/
	//       verbs/
	//     shadowed/ (.notatki.yaml directory)
	//       inner/
	//   stray/ (.notatki.yaml directory)
	//   empty/
	base := t.TempDir()
	collection := filepath.Join(base, "collection")
	verbs := filepath.Join(collection, "polski", "verbs")
	shadowed := filepath.Join(collection, "shadowed")
	shadowedInner := filepath.Join(shadowed, "inner")
	stray := filepath.Join(base, "stray")
	empty := filepath.Join(base, "empty")

	for _, dir := range []string{
		verbs,
		shadowedInner,
		filepath.Join(shadowed, ConfigFileName),
		filepath.Join(stray, ConfigFileName),
		empty,
	} {
		require.NoError(t, os.MkdirAll(dir, 0755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(collection, ConfigFileName), []byte("database: deck.db\n"), 0644))

	tests := []struct {
		name    string
		start   string
		want    string
		wantErr bool
	}{
		{"config directory", collection, collection, false},
		{"nested below config", verbs, collection, false},
		{"directory named like the config is skipped", shadowed, collection, false},
		{"below a skipped directory", shadowedInner, collection, false},
		{"only a directory marker", stray, "", true},
		{"nothing found", empty, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRoot(tt.start)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Clean(tt.want), filepath.Clean(got))
		})
	}
}

func TestDiscoverConfig_DirectoryMarker(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ConfigFileName), 0755))

	cfg, err := DiscoverConfig(dir)
	require.NoError(t, err, "a directory is not a config file")
	assert.Empty(t, cfg.Database)
}
