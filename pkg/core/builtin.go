package core

import (
	"regexp"
	"sort"
	"strconv"
)

// BuiltinTypes returns fresh copies of the note types every collection ships with.
func BuiltinTypes() []NoteType {
	front := Template{Name: "Card 1", Front: "{{Front}}", Back: "{{FrontSide}}<hr>{{Back}}"}
	return []NoteType{
		{
			ID:        1607392319,
			Name:      "Basic",
			Fields:    []FieldDef{{Name: "Front"}, {Name: "Back"}},
			Templates: []Template{front},
		},
		{
			ID:     1607392320,
			Name:   "Basic (and reversed card)",
			Fields: []FieldDef{{Name: "Front"}, {Name: "Back"}},
			Templates: []Template{
				front,
				{Name: "Card 2", Front: "{{Back}}", Back: "{{FrontSide}}<hr>{{Front}}"},
			},
		},
		{
			ID:     1607392321,
			Name:   "Basic (optional reversed card)",
			Fields: []FieldDef{{Name: "Front"}, {Name: "Back"}, {Name: "Add Reverse"}},
			Templates: []Template{
				front,
				{Name: "Card 2", Front: "{{#Add Reverse}}{{Back}}{{/Add Reverse}}", Back: "{{FrontSide}}<hr>{{Front}}"},
			},
		},
		{
			ID:     1607392322,
			Name:   "Basic (type in the answer)",
			Fields: []FieldDef{{Name: "Front"}, {Name: "Back"}},
			Templates: []Template{
				{Name: "Card 1", Front: "{{Front}}<br>{{type:Back}}", Back: "{{Front}}<hr>{{Back}}"},
			},
		},
		{
			ID:     1607392323,
			Name:   "Cloze",
			Cloze:  true,
			Fields: []FieldDef{{Name: "Text"}, {Name: "Back Extra"}},
			Templates: []Template{
				{Name: "Cloze", Front: "{{cloze:Text}}", Back: "{{cloze:Text}}<br>{{Back Extra}}"},
			},
		},
	}
}

var clozeRef = regexp.MustCompile(`\{\{c(\d+)::`)

// CardOrds returns the ordinals of the cards a new note of type t generates.
// Standard types get one card per template. Cloze types get one card per
// distinct cloze number found in the note's fields, and at least one.
func CardOrds(t *NoteType, n *Note) []int {
	if !t.Cloze {
		ords := make([]int, len(t.Templates))
		for i := range ords {
			ords[i] = i
		}
		return ords
	}

	seen := make(map[int]bool)
	for _, f := range n.Fields {
		for _, m := range clozeRef.FindAllStringSubmatch(f.Value, -1) {
			num, err := strconv.Atoi(m[1])
			if err != nil || num < 1 {
				continue
			}
			seen[num-1] = true
		}
	}
	if len(seen) == 0 {
		return []int{0}
	}
	ords := make([]int, 0, len(seen))
	for ord := range seen {
		ords = append(ords, ord)
	}
	sort.Ints(ords)
	return ords
}
