package mindmap

import (
	"errors"
	"testing"
)

// fakePrompter records prompt configs and lets the test answer them.
type fakePrompter struct {
	configs []PromptConfig
	pending chan PromptOutcome
}

func (p *fakePrompter) Show(cfg PromptConfig) <-chan PromptOutcome {
	p.configs = append(p.configs, cfg)
	p.pending = make(chan PromptOutcome, 1)
	return p.pending
}

func (p *fakePrompter) answer(out PromptOutcome) {
	p.pending <- out
}

type fakePanel struct {
	shown []Entity
}

func (p *fakePanel) ShowNotes(e Entity) { p.shown = append(p.shown, e) }

func newTestController() (*Diagram, *Controller, *fakePrompter, *fakePanel) {
	d := NewDiagram()
	prompter := &fakePrompter{}
	panel := &fakePanel{}
	c := NewController(d, ControllerConfig{
		Prompter: prompter,
		Panel:    panel,
		Measurer: FixedWidthMeasurer(8),
	})
	return d, c, prompter, panel
}

func TestDragNode(t *testing.T) {
	d, c, _, _ := newTestController()
	n := d.AddNodeAt(KindTeam, 100, 100)

	c.PointerDown(110, 100)
	if c.Mode() != ModeDraggingNode {
		t.Fatalf("mode = %v, want dragging-node", c.Mode())
	}
	c.PointerMove(120, 105)
	c.PointerMove(130, 95)
	if n.X != 120 || n.Y != 95 {
		t.Errorf("node at (%v, %v), want (120, 95)", n.X, n.Y)
	}
	c.PointerUp(130, 95)
	if c.Mode() != ModeIdle || c.Session().Node != nil {
		t.Errorf("after up: mode = %v, captured = %v", c.Mode(), c.Session().Node)
	}

	// Moving without a capture changes nothing.
	c.PointerMove(300, 300)
	if n.X != 120 || n.Y != 95 {
		t.Errorf("idle move changed node to (%v, %v)", n.X, n.Y)
	}
}

func TestPointerDownPriority(t *testing.T) {
	d, c, _, _ := newTestController()
	r := NewRegion(Rect{X: 0, Y: 0, Width: 200, Height: 200}, "Lab") // label box 5..29 x 5..25
	if err := d.AddRegion(r); err != nil {
		t.Fatal(err)
	}
	d.AddNodeAt(KindTeam, 100, 100)

	tests := []struct {
		name string
		x, y float64
		want Mode
	}{
		{"node over region", 100, 100, ModeDraggingNode},
		{"handle", 195, 195, ModeResizingRegion},
		{"label", 10, 10, ModeDraggingRegionLabel},
		{"body", 180, 20, ModeDraggingRegion},
		{"empty", 300, 300, ModeIdle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.PointerDown(tt.x, tt.y)
			if c.Mode() != tt.want {
				t.Errorf("PointerDown(%v, %v) mode = %v, want %v", tt.x, tt.y, c.Mode(), tt.want)
			}
			c.PointerUp(tt.x, tt.y)
		})
	}
}

func TestPointerDownPriorityNestedRegions(t *testing.T) {
	d, c, _, _ := newTestController()
	outer := NewRegion(Rect{X: 0, Y: 0, Width: 400, Height: 400}, "Outer")
	inner := NewRegion(Rect{X: 100, Y: 100, Width: 100, Height: 100}, "In") // label box 105..121 x 105..125
	for _, r := range []*Region{outer, inner} {
		if err := d.AddRegion(r); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name string
		x, y float64
		want Mode
		r    *Region
	}{
		{"inner handle", 195, 195, ModeResizingRegion, inner},
		{"inner label", 110, 110, ModeDraggingRegionLabel, inner},
		{"inner body drags first region", 150, 150, ModeDraggingRegion, outer},
		{"outer handle", 395, 395, ModeResizingRegion, outer},
		{"outer label", 10, 10, ModeDraggingRegionLabel, outer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.PointerDown(tt.x, tt.y)
			if c.Mode() != tt.want {
				t.Errorf("PointerDown(%v, %v) mode = %v, want %v", tt.x, tt.y, c.Mode(), tt.want)
			}
			if got := c.Session().Region; got != tt.r {
				t.Errorf("captured %q, want %q", labelOf(got), tt.r.Label)
			}
			c.PointerUp(tt.x, tt.y)
		})
	}
}

func labelOf(r *Region) string {
	if r == nil {
		return "<nil>"
	}
	return r.Label
}

func TestResizeAndDragRegion(t *testing.T) {
	d, c, _, _ := newTestController()
	r := NewRegion(Rect{X: 0, Y: 0, Width: 60, Height: 60}, "R")
	if err := d.AddRegion(r); err != nil {
		t.Fatal(err)
	}

	c.PointerDown(55, 55)
	c.PointerMove(-45, -45)
	c.PointerUp(-45, -45)
	if r.Width != 50 || r.Height != 50 {
		t.Errorf("size = (%v, %v), want (50, 50)", r.Width, r.Height)
	}

	c.PointerDown(30, 40)
	c.PointerMove(40, 60)
	c.PointerUp(40, 60)
	if r.X != 10 || r.Y != 20 {
		t.Errorf("position = (%v, %v), want (10, 20)", r.X, r.Y)
	}
}

func TestPointerUpWithoutCaptureIsNoop(t *testing.T) {
	_, c, _, _ := newTestController()
	if p := c.PointerUp(10, 10); p != nil {
		t.Error("PointerUp without gesture returned a pending region")
	}
	if c.Mode() != ModeIdle {
		t.Errorf("mode = %v, want idle", c.Mode())
	}
}

func TestConnectingFlow(t *testing.T) {
	d, c, _, panel := newTestController()
	a := d.AddNodeAt(KindProject, 100, 100)
	b := d.AddNodeAt(KindProject, 300, 100)
	r := NewRegion(Rect{X: 0, Y: 300, Width: 100, Height: 100}, "R")
	if err := d.AddRegion(r); err != nil {
		t.Fatal(err)
	}

	if !c.StartConnecting() {
		t.Fatal("StartConnecting refused from idle")
	}
	c.Click(500, 500) // empty space
	c.Click(50, 350)  // region
	if c.Mode() != ModeConnecting || c.PendingConnection() != nil {
		t.Fatalf("no-op clicks changed state: mode = %v, first = %v", c.Mode(), c.PendingConnection())
	}

	// Pointer-down does not drag while connecting.
	c.PointerDown(100, 100)
	c.PointerMove(150, 150)
	c.PointerUp(150, 150)
	if a.X != 100 || a.Y != 100 {
		t.Errorf("node dragged while connecting: (%v, %v)", a.X, a.Y)
	}

	c.Click(100, 100)
	if c.PendingConnection() != a {
		t.Fatal("first click did not select the node")
	}
	c.Click(105, 100) // same node again
	if c.Mode() != ModeConnecting || len(d.Connections()) != 0 {
		t.Fatal("clicking the first node again should be a no-op")
	}
	c.Click(300, 100)

	if c.Mode() != ModeIdle {
		t.Errorf("mode = %v, want idle", c.Mode())
	}
	if len(d.Connections()) != 1 {
		t.Fatalf("len(Connections) = %d, want 1", len(d.Connections()))
	}
	conn := d.Connections()[0]
	if conn.From != a || conn.To != b || !conn.Dashed() {
		t.Errorf("connection = %+v, want dashed a->b", conn)
	}
	if len(panel.shown) != 0 {
		t.Error("clicks while connecting must not open the notes panel")
	}
}

func TestConnectingRejectedByPolicy(t *testing.T) {
	d, c, _, _ := newTestController()
	d.SetPolicy(ConnectionPolicy{AllowSameKind: false})
	d.AddNodeAt(KindTeam, 100, 100)
	d.AddNodeAt(KindTeam, 300, 100)

	c.StartConnecting()
	c.Click(100, 100)
	c.Click(300, 100)
	if len(d.Connections()) != 0 {
		t.Error("strict policy allowed a team-team connection")
	}
	if c.Mode() != ModeIdle || c.Session().First != nil {
		t.Errorf("rejected connection should reset to idle, got %v", c.Mode())
	}
}

func TestCreateRegion(t *testing.T) {
	d, c, prompter, _ := newTestController()

	c.StartRegionCreation()
	if _, ok := c.Preview(); ok {
		t.Error("preview before anchor")
	}
	c.PointerDown(200, 150)
	c.PointerMove(50, 60)
	if got, ok := c.Preview(); !ok || got != (Rect{X: 50, Y: 60, Width: 150, Height: 90}) {
		t.Errorf("Preview = %+v, %v", got, ok)
	}
	if len(d.Regions()) != 0 {
		t.Fatal("preview mutated the model")
	}

	pending := c.PointerUp(50, 60)
	if pending == nil {
		t.Fatal("expected a pending region")
	}
	if c.Mode() != ModeIdle {
		t.Errorf("mode = %v, want idle while prompt is open", c.Mode())
	}
	if cfg := prompter.configs[0]; cfg.Placeholder != "Enter research direction name" || cfg.ShowDelete {
		t.Errorf("prompt config = %+v", cfg)
	}

	if c.Poll() {
		t.Error("Poll resolved before the prompt answered")
	}
	prompter.answer(PromptOutcome{Action: PromptConfirmed, Text: "Vision"})
	if !c.Poll() {
		t.Fatal("Poll did not resolve the answered prompt")
	}

	r := <-pending.Done()
	if r == nil || len(d.Regions()) != 1 || d.Regions()[0] != r {
		t.Fatalf("region not committed: %v", d.Regions())
	}
	if r.Label != "Vision" || r.Bounds() != (Rect{X: 50, Y: 60, Width: 150, Height: 90}) {
		t.Errorf("region = %+v", r)
	}
}

func TestCreateRegionCancelledOrTooSmall(t *testing.T) {
	d, c, prompter, _ := newTestController()

	c.StartRegionCreation()
	c.PointerDown(0, 0)
	if p := c.PointerUp(10, 200); p != nil {
		t.Error("10-wide rectangle should not prompt")
	}
	if c.Mode() != ModeIdle {
		t.Errorf("mode = %v, want idle", c.Mode())
	}

	c.StartRegionCreation()
	c.PointerDown(0, 0)
	pending := c.PointerUp(100, 100)
	prompter.answer(PromptOutcome{Action: PromptCancelled})
	c.Poll()
	if r := <-pending.Done(); r != nil {
		t.Errorf("cancelled prompt committed %v", r)
	}

	c.StartRegionCreation()
	c.PointerDown(0, 0)
	pending = c.PointerUp(100, 100)
	prompter.answer(PromptOutcome{Action: PromptConfirmed, Text: "   "})
	c.Poll()
	if r := <-pending.Done(); r != nil {
		t.Errorf("blank label committed %v", r)
	}
	if len(d.Regions()) != 0 {
		t.Errorf("len(Regions) = %d, want 0", len(d.Regions()))
	}
}

func TestSecondPromptIsRefused(t *testing.T) {
	d, c, prompter, _ := newTestController()
	d.AddNodeAt(KindTeam, 300, 300)

	c.StartRegionCreation()
	c.PointerDown(0, 0)
	if c.PointerUp(100, 100) == nil {
		t.Fatal("expected a pending region")
	}
	if c.DoubleClick(300, 300) {
		t.Error("second prompt opened while one is pending")
	}
	if len(prompter.configs) != 1 {
		t.Errorf("Show called %d times, want 1", len(prompter.configs))
	}

	// The slot is free again after resolution.
	prompter.answer(PromptOutcome{Action: PromptCancelled})
	c.Poll()
	if !c.DoubleClick(300, 300) {
		t.Error("prompt refused after the first one resolved")
	}
}

func TestDoubleClickRenameAndDelete(t *testing.T) {
	d, c, prompter, _ := newTestController()
	a := d.AddNodeAt(KindTeam, 100, 100)
	b := d.AddNodeAt(KindProject, 300, 100)
	mustConnect(t, d, a, b)

	if !c.DoubleClick(100, 100) {
		t.Fatal("DoubleClick did not open a prompt")
	}
	if cfg := prompter.configs[0]; cfg.Initial != "New Team Member" || !cfg.ShowDelete {
		t.Errorf("prompt config = %+v", cfg)
	}
	prompter.answer(PromptOutcome{Action: PromptConfirmed, Text: "Alice"})
	c.Poll()
	if a.Label != "Alice" {
		t.Errorf("label = %q, want Alice", a.Label)
	}

	c.DoubleClick(100, 100)
	prompter.answer(PromptOutcome{Action: PromptDeleted})
	c.Poll()
	if d.HasNode(a) || len(d.Connections()) != 0 {
		t.Error("delete from prompt did not cascade")
	}

	if c.DoubleClick(500, 500) {
		t.Error("DoubleClick on empty space opened a prompt")
	}
}

func TestRenameAfterEntityRemovedIsIgnored(t *testing.T) {
	d, c, prompter, _ := newTestController()
	a := d.AddNodeAt(KindTeam, 100, 100)

	c.DoubleClick(100, 100)
	d.DeleteNode(a)
	prompter.answer(PromptOutcome{Action: PromptConfirmed, Text: "Ghost"})
	c.Poll()
	if a.Label == "Ghost" {
		t.Error("rename applied to a deleted node")
	}
}

func TestClickOpensNotes(t *testing.T) {
	d, c, _, panel := newTestController()
	r := NewRegion(Rect{X: 0, Y: 0, Width: 400, Height: 400}, "R")
	if err := d.AddRegion(r); err != nil {
		t.Fatal(err)
	}
	n := d.AddNodeAt(KindTeam, 100, 100)

	c.Click(100, 100)
	c.Click(300, 300)
	c.Click(900, 900)
	if len(panel.shown) != 2 || panel.shown[0] != Entity(n) || panel.shown[1] != Entity(r) {
		t.Errorf("panel shown = %v", panel.shown)
	}
}

func TestNoPrompter(t *testing.T) {
	d := NewDiagram()
	c := NewController(d, ControllerConfig{})
	d.AddNodeAt(KindTeam, 0, 0)
	if c.DoubleClick(0, 0) {
		t.Error("DoubleClick opened a prompt without a prompter")
	}
	c.StartRegionCreation()
	c.PointerDown(0, 0)
	if c.PointerUp(100, 100) != nil {
		t.Error("region prompt opened without a prompter")
	}
}

func TestClearDiagramResetsSession(t *testing.T) {
	d, c, _, _ := newTestController()
	d.AddNodeAt(KindTeam, 100, 100)
	c.SetFilter(FilterProject)
	c.StartConnecting()
	c.Click(100, 100)

	c.ClearDiagram()
	if !d.Empty() {
		t.Error("diagram not empty after ClearDiagram")
	}
	s := c.Session()
	if s.Mode != ModeIdle || s.First != nil || s.Node != nil || s.Region != nil || s.HasAnchor {
		t.Errorf("session not reset: %+v", s)
	}
	if s.Filter != FilterProject {
		t.Errorf("filter = %v, want project", s.Filter)
	}
}

func TestStartCommandsRefusedWhileDragging(t *testing.T) {
	d, c, _, _ := newTestController()
	d.AddNodeAt(KindTeam, 100, 100)
	c.PointerDown(100, 100)
	if c.StartConnecting() || c.StartRegionCreation() {
		t.Error("mode command accepted during a drag")
	}
	c.Cancel()
	if c.Mode() != ModeIdle {
		t.Errorf("mode after Cancel = %v", c.Mode())
	}
}

func TestPromptSlotClosedChannelCancels(t *testing.T) {
	var slot promptSlot
	ch := make(chan PromptOutcome)
	var got PromptOutcome
	resolved := false
	err := slot.open(prompterFunc(func(PromptConfig) <-chan PromptOutcome { return ch }), PromptConfig{}, func(o PromptOutcome) {
		got = o
		resolved = true
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := slot.open(prompterFunc(nil), PromptConfig{}, nil); !errors.Is(err, ErrPromptBusy) {
		t.Errorf("second open err = %v, want ErrPromptBusy", err)
	}
	close(ch)
	if !slot.poll() || !resolved || got.Action != PromptCancelled {
		t.Errorf("closed channel: resolved = %v, outcome = %+v", resolved, got)
	}
	if slot.busy() {
		t.Error("slot still busy after resolution")
	}
}

type prompterFunc func(PromptConfig) <-chan PromptOutcome

func (f prompterFunc) Show(cfg PromptConfig) <-chan PromptOutcome { return f(cfg) }
