// Package notatki is the Composition Root for the notatki importer.
//
// It connects the reconciliation core (pkg/importer) with the storage and
// filesystem adapters using the Hexagonal Architecture pattern.
//
// A notatki JSON document carries note types ("models") and notes. Importing it
// matches every note by guid against the collection: known notes are updated in
// place and moved to their deck, new notes are created from their note type.
// Notes naming an unknown type or field fail individually without aborting the run.
//
// Features:
//
//   - **Guid reconciliation**: re-importing the same document updates instead of duplicating.
//   - **Schema validation**: malformed documents are rejected before anything is written.
//   - **Dry run**: classify notes and preview changes without committing.
//   - **SQLite collection**: default store, created and seeded with the built-in note types.
//   - **Watch mode**: supervised filesystem watcher importing documents as they change.
//
// Usage:
//
//	s, err := notatki.Open(ctx,
//		notatki.WithDatabase("collection.db"),
//		notatki.WithLogger(logger),
//	)
//	defer s.Close()
//
//	res, err := s.ImportFile(ctx, "polski.json")
//	fmt.Println(res.Summary())
package notatki
