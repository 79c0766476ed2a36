package jsondoc

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/aretw0/notatki/pkg/core"
)

//go:embed schema.json
var schemaSource []byte

const schemaURL = "notatki.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaSource))
		if err != nil {
			schemaErr = fmt.Errorf("failed to parse document schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("failed to register document schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Parse validates and decodes a document.
// Any failure wraps core.ErrMalformedDocument.
func Parse(data []byte) (*Collection, error) {
	sch, err := compiledSchema()
	if err != nil {
		return nil, err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", core.ErrMalformedDocument, err)
	}
	if err := sch.Validate(inst); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedDocument, err)
	}

	var c Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrMalformedDocument, err)
	}
	c.normalize()
	return &c, nil
}

// Load reads a whole document from r.
func Load(r io.Reader) (*Collection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return Parse(data)
}

// LoadFile reads a document from disk.
func LoadFile(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return Parse(data)
}

// Marshal encodes a document with two-space indentation.
// Characters outside ASCII and HTML-sensitive characters are written literally.
func Marshal(c *Collection) ([]byte, error) {
	var buf bytes.Buffer
	if err := Save(&buf, c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes a document to w. Nil lists are written as empty arrays.
func Save(w io.Writer, c *Collection) error {
	out := c.copy()
	out.normalize()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return nil
}

// copy duplicates the slices Save normalizes, leaving the caller's value untouched.
func (c *Collection) copy() *Collection {
	out := &Collection{}
	if c.Models != nil {
		out.Models = append([]Model{}, c.Models...)
	}
	if c.Notes != nil {
		out.Notes = append([]Note{}, c.Notes...)
	}
	return out
}
