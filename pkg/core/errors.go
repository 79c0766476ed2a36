package core

import "errors"

// Common errors.
var (
	// ErrMalformedDocument means the input is not JSON or does not have the document shape.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrUnmatchedType means a note names a type the collection does not know.
	ErrUnmatchedType = errors.New("unknown note type")

	// ErrUnmatchedField means a note carries a field its type does not declare.
	ErrUnmatchedField = errors.New("unknown field")

	// ErrStoreFailure wraps errors returned by the collection while reading or committing.
	ErrStoreFailure = errors.New("store failure")

	// ErrNotFound is returned by stores for missing notes, decks or types.
	ErrNotFound = errors.New("not found")

	// ErrDryRunUnsupported means the collection cannot look up decks without creating them.
	ErrDryRunUnsupported = errors.New("collection does not support dry runs")
)
