package mindmap

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestAddNodeDefaults(t *testing.T) {
	d := NewDiagram()
	team := d.AddNode(KindTeam)
	proj := d.AddNode(KindProject)

	if team.Label != "New Team Member" {
		t.Errorf("team label = %q, want %q", team.Label, "New Team Member")
	}
	if proj.Label != "New Project" {
		t.Errorf("project label = %q, want %q", proj.Label, "New Project")
	}
	if team.Color != ColorTeam || proj.Color != ColorProject {
		t.Error("nodes should start with their canonical color")
	}
	if team.Radius != NodeRadius {
		t.Errorf("radius = %v, want %v", team.Radius, NodeRadius)
	}
	if team.ID == "" || team.ID == proj.ID {
		t.Errorf("ids should be unique and non-empty: %q %q", team.ID, proj.ID)
	}
	if len(d.Nodes()) != 2 {
		t.Fatalf("len(Nodes) = %d, want 2", len(d.Nodes()))
	}
}

func TestAddNodeStaysInsideCanvas(t *testing.T) {
	d := NewDiagram()
	d.SetCanvasSize(200, 120)
	d.SetRand(rand.New(rand.NewPCG(1, 2)))

	for range 500 {
		n := d.AddNode(KindTeam)
		if n.X < nodeMargin || n.X > 200-nodeMargin || n.Y < nodeMargin || n.Y > 120-nodeMargin {
			t.Fatalf("node at (%v, %v) outside margins", n.X, n.Y)
		}
	}
}

func TestRenameRejectsBlank(t *testing.T) {
	d := NewDiagram()
	n := d.AddNodeAt(KindTeam, 0, 0)
	r := NewRegion(Rect{Width: 100, Height: 100}, "R")
	if err := d.AddRegion(r); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		label string
		ok    bool
		want  string
	}{
		{"empty", "", false, "New Team Member"},
		{"whitespace", "  \t\n", false, "New Team Member"},
		{"trimmed", "  Alice  ", true, "Alice"},
		{"multiline", "Alice\nLead", true, "Alice\nLead"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n.Label = "New Team Member"
			if got := d.RenameNode(n, tt.label); got != tt.ok {
				t.Errorf("RenameNode(%q) = %v, want %v", tt.label, got, tt.ok)
			}
			if n.Label != tt.want {
				t.Errorf("label = %q, want %q", n.Label, tt.want)
			}
		})
	}

	if d.RenameRegion(r, " ") {
		t.Error("RenameRegion accepted a blank label")
	}
	if !d.RenameRegion(r, "Research") || r.Label != "Research" {
		t.Errorf("region label = %q, want Research", r.Label)
	}
}

func TestDeleteNodeCascades(t *testing.T) {
	d := NewDiagram()
	a := d.AddNodeAt(KindTeam, 0, 0)
	b := d.AddNodeAt(KindProject, 100, 0)
	c := d.AddNodeAt(KindProject, 200, 0)
	mustConnect(t, d, a, b)
	mustConnect(t, d, b, c)
	mustConnect(t, d, c, a)
	mustConnect(t, d, a, b) // duplicate edges are allowed

	if !d.DeleteNode(a) {
		t.Fatal("DeleteNode returned false")
	}
	for _, conn := range d.Connections() {
		if conn.From == a || conn.To == a {
			t.Fatalf("connection %v still references deleted node", conn)
		}
	}
	if len(d.Connections()) != 1 {
		t.Errorf("len(Connections) = %d, want 1", len(d.Connections()))
	}
	if d.HasNode(a) {
		t.Error("deleted node still present")
	}
	if d.DeleteNode(a) {
		t.Error("second DeleteNode should report false")
	}
}

func TestAddConnectionPolicy(t *testing.T) {
	d := NewDiagram()
	t1 := d.AddNodeAt(KindTeam, 0, 0)
	p1 := d.AddNodeAt(KindProject, 100, 0)
	p2 := d.AddNodeAt(KindProject, 200, 0)

	same := mustConnect(t, d, p1, p2)
	if !same.Dashed() {
		t.Error("project-project connection should be dashed")
	}
	mixed := mustConnect(t, d, t1, p1)
	if mixed.Dashed() {
		t.Error("team-project connection should be solid")
	}

	d.SetPolicy(ConnectionPolicy{AllowSameKind: false})
	if _, err := d.AddConnection(p2, p1); !errors.Is(err, ErrSameKindConnection) {
		t.Errorf("strict policy: err = %v, want ErrSameKindConnection", err)
	}
	if _, err := d.AddConnection(p2, t1); err != nil {
		t.Errorf("strict policy rejected mixed pair: %v", err)
	}

	stranger := NewNode(KindTeam, 0, 0)
	if _, err := d.AddConnection(stranger, p1); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("err = %v, want ErrUnknownNode", err)
	}
}

func TestRegionResizeFloor(t *testing.T) {
	d := NewDiagram()
	r := NewRegion(Rect{Width: 60, Height: 60}, "R")
	if err := d.AddRegion(r); err != nil {
		t.Fatal(err)
	}
	d.ResizeRegion(r, -100, -100)
	if r.Width != 50 || r.Height != 50 {
		t.Errorf("size = (%v, %v), want (50, 50)", r.Width, r.Height)
	}
	d.ResizeRegion(r, 30, -5)
	if r.Width != 80 || r.Height != 50 {
		t.Errorf("size = (%v, %v), want (80, 50)", r.Width, r.Height)
	}
}

func TestAddRegionRequiresLabel(t *testing.T) {
	d := NewDiagram()
	if err := d.AddRegion(NewRegion(Rect{Width: 20, Height: 20}, "  ")); !errors.Is(err, ErrEmptyLabel) {
		t.Errorf("err = %v, want ErrEmptyLabel", err)
	}
	if len(d.Regions()) != 0 {
		t.Error("region without a label was committed")
	}
}

func TestNodeAtFirstInsertedWins(t *testing.T) {
	d := NewDiagram()
	first := d.AddNodeAt(KindTeam, 100, 100)
	d.AddNodeAt(KindProject, 110, 100)

	if got := d.NodeAt(105, 100); got != first {
		t.Errorf("NodeAt returned %v, want first inserted node", got)
	}
	if got := d.NodeAt(500, 500); got != nil {
		t.Errorf("NodeAt(empty) = %v, want nil", got)
	}
}

func TestEntityAtPrefersNodes(t *testing.T) {
	d := NewDiagram()
	r := NewRegion(Rect{Width: 300, Height: 300}, "R")
	if err := d.AddRegion(r); err != nil {
		t.Fatal(err)
	}
	n := d.AddNodeAt(KindTeam, 150, 150)

	if got := d.EntityAt(150, 150); got != Entity(n) {
		t.Errorf("EntityAt over node = %v, want node", got)
	}
	if got := d.EntityAt(20, 250); got != Entity(r) {
		t.Errorf("EntityAt over region = %v, want region", got)
	}
	if got := d.EntityAt(400, 400); got != nil {
		t.Errorf("EntityAt(empty) = %v, want nil", got)
	}
}

func TestSetNotes(t *testing.T) {
	d := NewDiagram()
	n := d.AddNodeAt(KindTeam, 0, 0)
	if err := d.SetNotes(n, "see https://example.com"); err != nil {
		t.Fatal(err)
	}
	if n.Notes != "see https://example.com" {
		t.Errorf("notes = %q", n.Notes)
	}
	if err := d.SetNotes(n, ""); err != nil || n.Notes != "" {
		t.Errorf("clearing notes: err = %v, notes = %q", err, n.Notes)
	}
	if err := d.SetNotes(NewNode(KindTeam, 0, 0), "x"); err == nil {
		t.Error("SetNotes on a foreign node should fail")
	}
}

func TestChangeEvents(t *testing.T) {
	d := NewDiagram()
	var got []ChangeType
	d.SetEventSink(EventSinkFunc(func(e ChangeEvent) { got = append(got, e.Type) }))

	a := d.AddNodeAt(KindTeam, 0, 0)
	b := d.AddNodeAt(KindProject, 0, 0)
	mustConnect(t, d, a, b)
	d.MoveNode(a, 1, 1)
	d.DeleteNode(b)
	d.Clear()

	want := []ChangeType{
		ChangeNodeAdded, ChangeNodeAdded, ChangeConnectionAdded,
		ChangeNodeMoved, ChangeConnectionRemoved, ChangeNodeRemoved, ChangeCleared,
	}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestReplaceKeepsSettings(t *testing.T) {
	d := NewDiagram()
	d.SetCanvasSize(300, 200)
	d.SetPolicy(ConnectionPolicy{AllowSameKind: false})
	d.AddNodeAt(KindTeam, 0, 0)

	other := NewDiagram()
	n := other.AddNodeAt(KindProject, 5, 5)
	d.Replace(other)

	if len(d.Nodes()) != 1 || d.Nodes()[0] != n {
		t.Fatalf("nodes after Replace = %v", d.Nodes())
	}
	if w, h := d.CanvasSize(); w != 300 || h != 200 {
		t.Errorf("canvas = (%v, %v), want (300, 200)", w, h)
	}
	if d.Policy().AllowSameKind {
		t.Error("policy was overwritten by Replace")
	}
}

func mustConnect(t *testing.T, d *Diagram, from, to *Node) *Connection {
	t.Helper()
	c, err := d.AddConnection(from, to)
	if err != nil {
		t.Fatalf("AddConnection: %v", err)
	}
	return c
}
