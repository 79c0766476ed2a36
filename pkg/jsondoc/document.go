// Package jsondoc defines the portable JSON representation of a collection:
// note types ("models") and notes, identified by stable guids.
//
// Reads are forward compatible: unknown keys are ignored at every level.
// Keys match exactly, so "GUID" is an unknown key next to "guid".
package jsondoc

import (
	"github.com/aretw0/notatki/pkg/core"
)

// Collection is the top-level document.
type Collection struct {
	Models []Model `json:"models"`
	Notes  []Note  `json:"notes"`
}

// ModelField is a field declaration of a model.
type ModelField struct {
	Name string `json:"name"`
}

// ModelCard is a card template of a model.
type ModelCard struct {
	Name  string `json:"name"`
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Model is the document shape of a note type.
type Model struct {
	ID     int64        `json:"id"`
	Name   string       `json:"name"`
	Cloze  bool         `json:"cloze"`
	Fields []ModelField `json:"fields"`
	Cards  []ModelCard  `json:"cards"`
	Styles string       `json:"styles"`
}

// Note is the document shape of a note.
type Note struct {
	GUID   string   `json:"guid"`
	Type   string   `json:"type"`
	Deck   string   `json:"deck"`
	Tags   []string `json:"tags"`
	Fields Fields   `json:"fields"`
}

// FromNoteType converts a note type into its document shape.
func FromNoteType(t core.NoteType) Model {
	m := Model{
		ID:     t.ID,
		Name:   t.Name,
		Cloze:  t.Cloze,
		Fields: make([]ModelField, 0, len(t.Fields)),
		Cards:  make([]ModelCard, 0, len(t.Templates)),
		Styles: t.Styles,
	}
	for _, f := range t.Fields {
		m.Fields = append(m.Fields, ModelField{Name: f.Name})
	}
	for _, tmpl := range t.Templates {
		m.Cards = append(m.Cards, ModelCard{Name: tmpl.Name, Front: tmpl.Front, Back: tmpl.Back})
	}
	return m
}

// NoteType converts the model into a note type.
func (m Model) NoteType() core.NoteType {
	t := core.NoteType{
		ID:        m.ID,
		Name:      m.Name,
		Cloze:     m.Cloze,
		Fields:    make([]core.FieldDef, 0, len(m.Fields)),
		Templates: make([]core.Template, 0, len(m.Cards)),
		Styles:    m.Styles,
	}
	for _, f := range m.Fields {
		t.Fields = append(t.Fields, core.FieldDef{Name: f.Name})
	}
	for _, c := range m.Cards {
		t.Templates = append(t.Templates, core.Template{Name: c.Name, Front: c.Front, Back: c.Back})
	}
	return t
}

// normalize replaces nil lists with empty ones so that loaded and saved
// documents have a single representation.
func (c *Collection) normalize() {
	if c.Models == nil {
		c.Models = []Model{}
	}
	if c.Notes == nil {
		c.Notes = []Note{}
	}
	for i := range c.Models {
		m := &c.Models[i]
		if m.Fields == nil {
			m.Fields = []ModelField{}
		}
		if m.Cards == nil {
			m.Cards = []ModelCard{}
		}
	}
	for i := range c.Notes {
		n := &c.Notes[i]
		if n.Tags == nil {
			n.Tags = []string{}
		}
		if n.Fields == nil {
			n.Fields = Fields{}
		}
	}
}
