package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
database: data/collection.db
log_file: /var/log/notatki.log
pattern: "decks/**/*.json"
dry_run: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data", "collection.db"), cfg.DatabasePath())
	assert.Equal(t, "/var/log/notatki.log", cfg.LogPath())
	assert.Equal(t, "decks/**/*.json", cfg.Pattern)
	assert.True(t, cfg.DryRun)

	o := defaultOptions()
	for _, opt := range cfg.Options() {
		opt(o)
	}
	assert.Equal(t, cfg.DatabasePath(), o.database)
	assert.Equal(t, "decks/**/*.json", o.pattern)
	assert.True(t, o.dryRun)
}

func TestLoadConfig_Empty(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, t.TempDir(), ""))
	require.NoError(t, err)

	o := defaultOptions()
	for _, opt := range cfg.Options() {
		opt(o)
	}
	assert.Equal(t, DefaultDatabase, o.database)
	assert.False(t, o.dryRun)
}

func TestLoadConfig_UnknownKey(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, t.TempDir(), "databse: typo.db\n"))
	assert.Error(t, err)
}

func TestDiscoverConfig(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "database: deck.db\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	cfg, err := DiscoverConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "deck.db"), cfg.DatabasePath())

	cfg, err = DiscoverConfig(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.DatabasePath())
}
