package platform

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notatki/pkg/adapters/memory"
	"github.com/aretw0/notatki/pkg/importer"
)

const sampleDoc = `{"notes":[{"guid":"g1","type":"Basic","deck":"Polski","tags":["pl"],"fields":{"Front":"dom","Back":"house"}}]}`

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	db := filepath.Join(dir, "collection.db")

	s, err := Open(ctx, WithDatabase(db))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	doc := filepath.Join(dir, "deck.json")
	require.NoError(t, os.WriteFile(doc, []byte(sampleDoc), 0644))

	res, err := s.ImportFile(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, "Added 1 and updated 0 notes, 0 errors.", res.Summary())

	state, ok := s.State().(map[string]any)
	require.True(t, ok)
	assert.Contains(t, state, "importer")
	assert.Contains(t, state, "collection")
	assert.Equal(t, "session", s.ComponentType())
}

func TestOpen_InjectedCollectionDryRun(t *testing.T) {
	ctx := context.Background()
	col := memory.New()

	s, err := Open(ctx, WithCollection(col), WithDryRun(true))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	res, err := s.Importer.Import(ctx, strings.NewReader(sampleDoc))
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	assert.Equal(t, 1, res.Added)

	ids, err := col.FindAllNoteIDs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids, "dry run must not write")
}

func TestSession_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	root := t.TempDir()
	s, err := Open(ctx, WithCollection(memory.New()), WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	results := make(chan *importer.Result, 4)
	done := make(chan error, 1)
	go func() {
		done <- s.Watch(ctx, root, func(path string, res *importer.Result, err error) {
			if err != nil {
				return
			}
			select {
			case results <- res:
			default:
			}
		})
	}()

	// the first writes may land before the watcher registers root
	deadline := time.Now().Add(2 * time.Second)
	doc := filepath.Join(root, "deck.json")
	var got *importer.Result
	for got == nil && time.Now().Before(deadline) {
		require.NoError(t, os.WriteFile(doc, []byte(sampleDoc), 0644))
		select {
		case got = <-results:
		case <-time.After(200 * time.Millisecond):
		}
	}
	require.NotNil(t, got, "no import after writing %s", doc)
	assert.Equal(t, 1, got.Added+got.Updated)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := NewLogger(LogConfig{Output: &buf})
	logger.Debug("hidden")
	logger.Info("shown", "deck", "Polski")
	require.NoError(t, closer.Close())
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	file := filepath.Join(t.TempDir(), "notatki.log")
	logger, closer = NewLogger(LogConfig{File: file, Verbose: true})
	logger.Debug("to file")
	require.NoError(t, closer.Close())
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}
