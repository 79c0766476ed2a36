package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliDoc = `{"notes":[
	{"guid":"g1","type":"Basic","deck":"Polski","tags":["pl"],"fields":{"Front":"dom","Back":"house"}},
	{"guid":"g2","type":"Basic","deck":"Polski","tags":[],"fields":{"Front":"kot","Extra":"?"}}
]}`

type workspace struct {
	dir    string
	config string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	dir := t.TempDir()
	config := filepath.Join(dir, ".notatki.yaml")
	require.NoError(t, os.WriteFile(config, []byte("database: collection.db\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "polski.json"), []byte(cliDoc), 0644))
	return workspace{dir: dir, config: config}
}

func (w workspace) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", w.config}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCLI_InitAndImport(t *testing.T) {
	w := newWorkspace(t)
	doc := filepath.Join(w.dir, "polski.json")

	out, _, err := w.run(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(w.dir, "collection.db"))

	out, _, err = w.run(t, "import", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "Added 1 and updated 0 notes, 1 errors.")
	assert.Contains(t, out, "unknown fields: Extra")

	out, _, err = w.run(t, "import", "--diff", filepath.Join(w.dir, "*.json"))
	require.NoError(t, err)
	assert.Contains(t, out, "Added 0 and updated 1 notes, 1 errors.")
	assert.Contains(t, out, "+tags: pl pl")
}

func TestCLI_ImportDryRun(t *testing.T) {
	w := newWorkspace(t)
	doc := filepath.Join(w.dir, "polski.json")

	out, _, err := w.run(t, "import", "--dry-run", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "[dry run] ")
	assert.Contains(t, out, "Added 1 and updated 0 notes, 1 errors.")

	out, _, err = w.run(t, "import", doc)
	require.NoError(t, err)
	assert.Contains(t, out, "Added 1 and updated 0 notes", "dry run must not have written")
}

func TestCLI_ImportFailures(t *testing.T) {
	w := newWorkspace(t)
	broken := filepath.Join(w.dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(`{"notes": 42}`), 0644))

	_, stderr, err := w.run(t, "import", broken)
	require.Error(t, err)
	assert.Contains(t, stderr, "error reading notatki JSON file")

	_, _, err = w.run(t, "import", filepath.Join(w.dir, "missing-*.json"))
	assert.Error(t, err)
}

func TestCLI_Types(t *testing.T) {
	w := newWorkspace(t)

	out, _, err := w.run(t, "types")
	require.NoError(t, err)
	assert.Contains(t, out, "Cloze (1607392323) [cloze]: Text, Back Extra")

	out, _, err = w.run(t, "types", "--json")
	require.NoError(t, err)
	var doc struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc.Models, 5)

	target := filepath.Join(w.dir, "export", "types.json")
	_, _, err = w.run(t, "types", "--out", target)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.JSONEq(t, out, string(data))
}

func TestCLI_Version(t *testing.T) {
	w := newWorkspace(t)
	out, _, err := w.run(t, "version")
	require.NoError(t, err)
	assert.Regexp(t, `^notatki version \S+\n$`, out)
}
