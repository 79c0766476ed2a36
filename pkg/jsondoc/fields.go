package jsondoc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is one entry of a note's field mapping.
type Field struct {
	Name  string
	Value string
}

// Fields is a JSON object of string values that keeps its key order.
// Field order matters when merging: the first unknown field stops the merge.
type Fields []Field

// Get returns the value for name.
func (f Fields) Get(name string) (string, bool) {
	for _, e := range f {
		if e.Name == name {
			return e.Value, true
		}
	}
	return "", false
}

// Set replaces the value of name in place, or appends it.
func (f Fields) Set(name, value string) Fields {
	for i := range f {
		if f[i].Name == name {
			f[i].Value = value
			return f
		}
	}
	return append(f, Field{Name: name, Value: value})
}

// Names returns the keys in order.
func (f Fields) Names() []string {
	names := make([]string, 0, len(f))
	for _, e := range f {
		names = append(names, e.Name)
	}
	return names
}

// UnmarshalJSON decodes an object, preserving key order.
// A repeated key keeps its first position and its last value.
func (f *Fields) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*f = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("fields: expected object, got %v", tok)
	}

	out := Fields{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("fields: expected key, got %v", tok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("fields.%s: %w", key, err)
		}
		out = out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*f = out
	return nil
}

// MarshalJSON encodes the fields as an object in stored order.
// A name that appears twice is an error, since it would not read back.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	seen := make(map[string]bool, len(f))

	buf.WriteByte('{')
	for i, e := range f {
		if seen[e.Name] {
			return nil, fmt.Errorf("fields: duplicate name %q", e.Name)
		}
		seen[e.Name] = true
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeString(&buf, enc, e.Name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeString(&buf, enc, e.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeString encodes s through enc, which must write to buf.
func writeString(buf *bytes.Buffer, enc *json.Encoder, s string) error {
	if err := enc.Encode(s); err != nil {
		return err
	}
	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}
