package board

import (
	"testing"

	"github.com/phanxgames/mindmap"
)

func newTestPanel(t *testing.T) (*mindmap.Diagram, *mindmap.Controller, *NotesPanel) {
	t.Helper()
	d := mindmap.NewDiagram()
	flasher := mindmap.NewFlasher(mindmap.FlashConfig{})
	p := newNotesPanel(d, flasher)
	c := mindmap.NewController(d, mindmap.ControllerConfig{Panel: p})
	p.bind(c)
	d.SetEventSink(mindmap.EventSinkFunc(p.onChange))
	return d, c, p
}

func TestPanelLiveWriteBack(t *testing.T) {
	d, c, p := newTestPanel(t)
	n := d.AddNodeAt(mindmap.KindTeam, 100, 100)

	c.Click(100, 100)
	if !p.Visible() || p.Entity() != mindmap.Entity(n) || !p.Focused() {
		t.Fatalf("click did not open the panel on the node")
	}

	p.typeText("hi")
	if n.Notes != "hi" {
		t.Errorf("notes = %q after typing, want %q", n.Notes, "hi")
	}
	p.key(keyEnter)
	p.typeText("there")
	if n.Notes != "hi\nthere" {
		t.Errorf("notes = %q, want %q", n.Notes, "hi\nthere")
	}
	if len(p.Entries()) != 1 {
		t.Errorf("index not re-projected: %d entries", len(p.Entries()))
	}

	p.key(keyEscape)
	p.typeText("ignored")
	if n.Notes != "hi\nthere" {
		t.Errorf("blurred panel still wrote notes: %q", n.Notes)
	}
}

func TestPanelFilterCycling(t *testing.T) {
	d, c, p := newTestPanel(t)
	team := d.AddNodeAt(mindmap.KindTeam, 0, 0)
	r := mindmap.NewRegion(mindmap.Rect{Width: 100, Height: 100}, "R")
	if err := d.AddRegion(r); err != nil {
		t.Fatal(err)
	}
	d.SetNotes(team, "a")
	d.SetNotes(r, "b")

	counts := map[mindmap.NoteFilter]int{}
	for range mindmap.NoteFilters {
		counts[c.Filter()] = len(p.Entries())
		p.cycleFilter()
	}
	want := map[mindmap.NoteFilter]int{
		mindmap.FilterAll:     2,
		mindmap.FilterTeam:    1,
		mindmap.FilterProject: 0,
		mindmap.FilterRegion:  1,
	}
	for f, n := range want {
		if counts[f] != n {
			t.Errorf("filter %v: %d entries, want %d", f, counts[f], n)
		}
	}
	if c.Filter() != mindmap.FilterAll {
		t.Errorf("filter after full cycle = %v", c.Filter())
	}
}

func TestPanelRowClickFlashesAndSelects(t *testing.T) {
	d, _, p := newTestPanel(t)
	a := d.AddNodeAt(mindmap.KindTeam, 0, 0)
	b := d.AddNodeAt(mindmap.KindProject, 0, 0)
	d.SetNotes(a, "first")
	d.SetNotes(b, "second")
	p.toggle()
	p.layout(1000, 700, 16)

	if len(p.rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(p.rows))
	}
	row := p.rows[1]
	p.click(row.X+5, row.Y+5)
	if p.Entity() != mindmap.Entity(b) {
		t.Errorf("selected %v, want second node", p.Entity())
	}
	if !p.flasher.Active(b) {
		t.Error("row click did not flash the entity")
	}
}

func TestPanelForgetsDeletedEntity(t *testing.T) {
	d, c, p := newTestPanel(t)
	n := d.AddNodeAt(mindmap.KindTeam, 100, 100)
	d.SetNotes(n, "x")
	c.Click(100, 100)

	d.DeleteNode(n)
	if p.Entity() != nil || p.Focused() {
		t.Error("panel kept a deleted entity")
	}
	if len(p.Entries()) != 0 {
		t.Errorf("entries = %d, want 0", len(p.Entries()))
	}
	p.typeText("after")
	if n.Notes != "x" {
		t.Errorf("deleted node notes changed to %q", n.Notes)
	}
}
