package notatki_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aretw0/notatki"
	"github.com/aretw0/notatki/pkg/adapters/memory"
)

const exampleDoc = `{
  "models": [],
  "notes": [
    {"guid": "pl-dom", "type": "Basic", "deck": "Polski", "tags": ["noun"], "fields": {"Front": "dom", "Back": "house"}},
    {"guid": "pl-kot", "type": "Basic", "deck": "Polski", "tags": ["noun"], "fields": {"Front": "kot", "Back": "cat"}},
    {"guid": "pl-bad", "type": "Vocabulary", "deck": "Polski", "tags": [], "fields": {"Word": "pies"}}
  ]
}`

// Example_basic imports a document into a fresh SQLite collection twice.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "notatki-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	doc := filepath.Join(tmpDir, "polski.json")
	if err := os.WriteFile(doc, []byte(exampleDoc), 0644); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	s, err := notatki.Open(ctx, notatki.WithDatabase(filepath.Join(tmpDir, "collection.db")))
	if err != nil {
		log.Fatal(err)
	}
	defer s.Close()

	for i := 0; i < 2; i++ {
		res, err := s.ImportFile(ctx, doc)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(res.Summary())
	}
	// Output:
	// Added 2 and updated 0 notes, 1 errors.
	// Added 0 and updated 2 notes, 1 errors.
}

// ExampleWithDryRun previews an import against an in-memory collection.
func ExampleWithDryRun() {
	tmpDir, err := os.MkdirTemp("", "notatki-dry-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	doc := filepath.Join(tmpDir, "polski.json")
	if err := os.WriteFile(doc, []byte(exampleDoc), 0644); err != nil {
		log.Fatal(err)
	}

	res, err := notatki.ImportFile(context.Background(), doc,
		notatki.WithCollection(memory.New()),
		notatki.WithDryRun(true),
	)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(res.Summary(), res.UnknownModels)
	// Output:
	// Added 2 and updated 0 notes, 1 errors. [Vocabulary]
}
