package importer

import (
	"github.com/aretw0/notatki/pkg/core"
	"github.com/aretw0/notatki/pkg/jsondoc"
)

// Staged is a merged note waiting to be committed.
type Staged struct {
	// Note is the merged note that will be persisted.
	Note *core.Note
	// Deck is where the note's cards belong after the commit.
	Deck core.DeckID
	// Before is the stored note prior to the merge. Nil for new notes.
	Before *core.Note
	// Source is the incoming note the entry was merged from.
	Source jsondoc.Note
}

// Failure records why an incoming note could not be imported.
type Failure struct {
	Note jsondoc.Note
	Err  error
}

// ChangeSet accumulates the outcome of one reconciliation run.
// Every incoming note lands in exactly one of Updated, Added or Failed.
// ToUpdate holds one entry per stored note, so it may be shorter than Updated.
type ChangeSet struct {
	ToUpdate []Staged
	ToAdd    []Staged

	Updated  []jsondoc.Note
	Added    []jsondoc.Note
	Failed   []jsondoc.Note
	Failures []Failure

	UnknownModels []string
	UnknownFields []string

	seenModels map[string]bool
	seenFields map[string]bool
}

// NewChangeSet returns an empty change set.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{
		ToUpdate:      []Staged{},
		ToAdd:         []Staged{},
		Updated:       []jsondoc.Note{},
		Added:         []jsondoc.Note{},
		Failed:        []jsondoc.Note{},
		Failures:      []Failure{},
		UnknownModels: []string{},
		UnknownFields: []string{},
		seenModels:    make(map[string]bool),
		seenFields:    make(map[string]bool),
	}
}

// Len returns the number of classified incoming notes.
func (cs *ChangeSet) Len() int {
	return len(cs.Updated) + len(cs.Added) + len(cs.Failed)
}

// stageUpdate appends s and returns its position in ToUpdate.
func (cs *ChangeSet) stageUpdate(s Staged) int {
	cs.ToUpdate = append(cs.ToUpdate, s)
	cs.Updated = append(cs.Updated, s.Source)
	return len(cs.ToUpdate) - 1
}

// restageUpdate replaces the entry at pos with a later merge of the same note.
// Every incoming note still counts as updated; the note is committed once.
func (cs *ChangeSet) restageUpdate(pos int, s Staged) {
	cs.ToUpdate[pos] = s
	cs.Updated = append(cs.Updated, s.Source)
}

func (cs *ChangeSet) stageAdd(s Staged) {
	cs.ToAdd = append(cs.ToAdd, s)
	cs.Added = append(cs.Added, s.Source)
}

func (cs *ChangeSet) fail(n jsondoc.Note, err error) {
	cs.Failed = append(cs.Failed, n)
	cs.Failures = append(cs.Failures, Failure{Note: n, Err: err})
}

func (cs *ChangeSet) unknownModel(name string) {
	if !cs.seenModels[name] {
		cs.seenModels[name] = true
		cs.UnknownModels = append(cs.UnknownModels, name)
	}
}

func (cs *ChangeSet) unknownField(name string) {
	if !cs.seenFields[name] {
		cs.seenFields[name] = true
		cs.UnknownFields = append(cs.UnknownFields, name)
	}
}
