package jsondoc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// decodeObject decodes a JSON object into targets, keyed by exact member name.
// encoding/json matches struct tags case-insensitively, which would let "GUID"
// or "Tags" override the validated "guid" and "tags". Members missing from
// targets are skipped. A null object leaves the targets untouched.
func decodeObject(data []byte, what string, targets map[string]any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%s: expected object, got %v", what, tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%s: expected key, got %v", what, tok)
		}
		target, ok := targets[key]
		if !ok {
			var skip json.RawMessage
			target = &skip
		}
		if err := dec.Decode(target); err != nil {
			return fmt.Errorf("%s.%s: %w", what, key, err)
		}
	}
	_, err = dec.Token()
	return err
}

// UnmarshalJSON decodes the top-level document.
func (c *Collection) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "collection", map[string]any{
		"models": &c.Models,
		"notes":  &c.Notes,
	})
}

// UnmarshalJSON decodes a model.
func (m *Model) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "model", map[string]any{
		"id":     &m.ID,
		"name":   &m.Name,
		"cloze":  &m.Cloze,
		"fields": &m.Fields,
		"cards":  &m.Cards,
		"styles": &m.Styles,
	})
}

// UnmarshalJSON decodes a model field declaration.
func (f *ModelField) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "field", map[string]any{
		"name": &f.Name,
	})
}

// UnmarshalJSON decodes a card template.
func (c *ModelCard) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "card", map[string]any{
		"name":  &c.Name,
		"front": &c.Front,
		"back":  &c.Back,
	})
}

// UnmarshalJSON decodes a note.
func (n *Note) UnmarshalJSON(data []byte) error {
	return decodeObject(data, "note", map[string]any{
		"guid":   &n.GUID,
		"type":   &n.Type,
		"deck":   &n.Deck,
		"tags":   &n.Tags,
		"fields": &n.Fields,
	})
}
