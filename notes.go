package mindmap

import (
	"fmt"
	"iter"
	"regexp"
	"strings"
)

// NoteFilter selects which entity kinds appear in the notes index.
type NoteFilter uint8

const (
	FilterAll NoteFilter = iota
	FilterTeam
	FilterProject
	FilterRegion
)

// NoteFilters lists every filter in cycling order.
var NoteFilters = []NoteFilter{FilterAll, FilterTeam, FilterProject, FilterRegion}

// String returns the filter name used in the UI and the CLI.
func (f NoteFilter) String() string {
	switch f {
	case FilterTeam:
		return "team"
	case FilterProject:
		return "project"
	case FilterRegion:
		return "region"
	default:
		return "all"
	}
}

// Next returns the following filter in cycling order.
func (f NoteFilter) Next() NoteFilter {
	return NoteFilters[(int(f)+1)%len(NoteFilters)]
}

// Match reports whether an entity of kind k passes the filter.
func (f NoteFilter) Match(k Kind) bool {
	switch f {
	case FilterTeam:
		return k == KindTeam
	case FilterProject:
		return k == KindProject
	case FilterRegion:
		return k == KindRegion
	}
	return true
}

// ParseNoteFilter maps a filter name to a NoteFilter. The empty string is FilterAll.
func ParseNoteFilter(s string) (NoteFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "team":
		return FilterTeam, nil
	case "project":
		return FilterProject, nil
	case "region":
		return FilterRegion, nil
	}
	return FilterAll, fmt.Errorf("mindmap: unknown notes filter %q", s)
}

// NoteEntry is one row of the notes index.
type NoteEntry struct {
	Label  string
	Kind   Kind
	Notes  string
	Entity Entity
}

// Notes yields the entities of d that carry notes, nodes first then regions,
// keeping those whose kind passes filter. The sequence reads the diagram as
// it is when iterated, so it can be ranged over again after every change.
func Notes(d *Diagram, filter NoteFilter) iter.Seq[NoteEntry] {
	return func(yield func(NoteEntry) bool) {
		for _, n := range d.Nodes() {
			if !emitNote(n, filter, yield) {
				return
			}
		}
		for _, r := range d.Regions() {
			if !emitNote(r, filter, yield) {
				return
			}
		}
	}
}

func emitNote(e Entity, filter NoteFilter, yield func(NoteEntry) bool) bool {
	notes := e.EntityNotes()
	if notes == "" || !filter.Match(e.EntityKind()) {
		return true
	}
	return yield(NoteEntry{
		Label:  e.EntityLabel(),
		Kind:   e.EntityKind(),
		Notes:  notes,
		Entity: e,
	})
}

// CollectNotes returns the notes index as a slice.
func CollectNotes(d *Diagram, filter NoteFilter) []NoteEntry {
	var out []NoteEntry
	for e := range Notes(d, filter) {
		out = append(out, e)
	}
	return out
}

// LinkPattern matches a URL in notes text: a maximal run of non-whitespace
// starting with http:// or https://.
var LinkPattern = regexp.MustCompile(`https?://\S+`)

// NoteSegment is a run of notes text, either plain or a link.
type NoteSegment struct {
	Text string
	Link bool
}

// SplitLinks splits text into alternating plain and link segments. Empty
// plain segments are omitted.
func SplitLinks(text string) []NoteSegment {
	var out []NoteSegment
	last := 0
	for _, loc := range LinkPattern.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			out = append(out, NoteSegment{Text: text[last:loc[0]]})
		}
		out = append(out, NoteSegment{Text: text[loc[0]:loc[1]], Link: true})
		last = loc[1]
	}
	if last < len(text) {
		out = append(out, NoteSegment{Text: text[last:]})
	}
	return out
}
