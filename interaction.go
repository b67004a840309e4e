package mindmap

import (
	"go.uber.org/zap"
)

// Mode is the gesture state of a Controller.
type Mode uint8

const (
	ModeIdle                Mode = iota // no gesture in progress
	ModeConnecting                      // waiting for one or two node clicks
	ModeCreatingRegion                  // waiting for, or tracking, a rectangle drag
	ModeDraggingNode                    // a node follows the pointer
	ModeDraggingRegion                  // a region follows the pointer (grabbed by its body)
	ModeDraggingRegionLabel             // a region follows the pointer (grabbed by its label)
	ModeResizingRegion                  // a region's size follows the pointer
)

// String returns a short name for logs.
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeConnecting:
		return "connecting"
	case ModeCreatingRegion:
		return "creating-region"
	case ModeDraggingNode:
		return "dragging-node"
	case ModeDraggingRegion:
		return "dragging-region"
	case ModeDraggingRegionLabel:
		return "dragging-region-label"
	case ModeResizingRegion:
		return "resizing-region"
	default:
		return "unknown"
	}
}

// dragging reports whether the mode captures an entity for the current gesture.
func (m Mode) dragging() bool {
	return m >= ModeDraggingNode
}

// Session is the complete gesture state of a Controller.
type Session struct {
	Mode Mode

	// Captured entity for dragging and resizing modes.
	Node   *Node
	Region *Region

	// First endpoint chosen in ModeConnecting.
	First *Node

	// Rectangle anchor in ModeCreatingRegion.
	HasAnchor bool
	Anchor    Vec2

	// Last is the pointer position at the previous drag step. Pointer is the
	// most recent position seen in any mode.
	Last    Vec2
	Pointer Vec2

	Filter NoteFilter
}

// NotesPanel shows the notes of an entity. The board's docked panel
// implements it.
type NotesPanel interface {
	ShowNotes(e Entity)
}

// ControllerConfig holds the collaborators of a Controller. All fields are
// optional; without a Prompter the region and rename prompts are refused.
type ControllerConfig struct {
	Prompter Prompter
	Panel    NotesPanel
	// Measurer supplies region label widths for label hit testing. Defaults to
	// an 8px-per-rune FixedWidthMeasurer.
	Measurer LabelMeasurer
	Logger   *zap.Logger
}

// Controller converts pointer events and commands into diagram mutations.
// All methods must be called from the goroutine that owns the diagram.
type Controller struct {
	d        *Diagram
	s        Session
	prompter Prompter
	panel    NotesPanel
	measurer LabelMeasurer
	prompt   promptSlot
	log      *zap.Logger
}

// NewController creates a Controller driving d.
func NewController(d *Diagram, cfg ControllerConfig) *Controller {
	c := &Controller{
		d:        d,
		prompter: cfg.Prompter,
		panel:    cfg.Panel,
		measurer: cfg.Measurer,
		log:      cfg.Logger,
	}
	if c.measurer == nil {
		c.measurer = FixedWidthMeasurer(8)
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	return c
}

// Diagram returns the driven diagram.
func (c *Controller) Diagram() *Diagram { return c.d }

// Session returns a copy of the current gesture state.
func (c *Controller) Session() Session { return c.s }

// Mode returns the current gesture mode.
func (c *Controller) Mode() Mode { return c.s.Mode }

// SetMeasurer replaces the label measurer, e.g. after a font size change.
func (c *Controller) SetMeasurer(m LabelMeasurer) {
	if m != nil {
		c.measurer = m
	}
}

// SetPanel replaces the notes panel collaborator.
func (c *Controller) SetPanel(p NotesPanel) { c.panel = p }

// Filter returns the active notes filter.
func (c *Controller) Filter() NoteFilter { return c.s.Filter }

// SetFilter sets the active notes filter.
func (c *Controller) SetFilter(f NoteFilter) { c.s.Filter = f }

// Preview returns the live region-creation rectangle while one is being drawn.
func (c *Controller) Preview() (Rect, bool) {
	if c.s.Mode != ModeCreatingRegion || !c.s.HasAnchor {
		return Rect{}, false
	}
	return RectFromPoints(c.s.Anchor, c.s.Pointer), true
}

// PendingConnection returns the first endpoint chosen while connecting.
func (c *Controller) PendingConnection() *Node {
	if c.s.Mode != ModeConnecting {
		return nil
	}
	return c.s.First
}

// PromptOpen reports whether a prompt is waiting for an answer.
func (c *Controller) PromptOpen() bool { return c.prompt.busy() }

func (c *Controller) setMode(m Mode) {
	if c.s.Mode == m {
		return
	}
	c.log.Debug("mode", zap.Stringer("from", c.s.Mode), zap.Stringer("to", m))
	c.s.Mode = m
}

// toIdle drops every gesture reference and returns to ModeIdle.
func (c *Controller) toIdle() {
	c.s.Node = nil
	c.s.Region = nil
	c.s.First = nil
	c.s.HasAnchor = false
	c.s.Anchor = Vec2{}
	c.setMode(ModeIdle)
}

func (c *Controller) labelWidth(r *Region) float64 {
	return c.measurer.MeasureLabel(r.Label)
}

// --- Commands ---

// StartConnecting enters ModeConnecting. It is refused while an entity is
// captured by a drag.
func (c *Controller) StartConnecting() bool {
	if c.s.Mode.dragging() {
		return false
	}
	c.toIdle()
	c.setMode(ModeConnecting)
	return true
}

// StartRegionCreation enters ModeCreatingRegion. It is refused while an
// entity is captured by a drag.
func (c *Controller) StartRegionCreation() bool {
	if c.s.Mode.dragging() {
		return false
	}
	c.toIdle()
	c.setMode(ModeCreatingRegion)
	return true
}

// Cancel abandons the current mode and returns to ModeIdle. A captured
// entity keeps the position it has reached.
func (c *Controller) Cancel() {
	c.toIdle()
}

// Reset returns to ModeIdle. The notes filter is kept.
func (c *Controller) Reset() {
	c.toIdle()
	c.s.Last = Vec2{}
}

// ClearDiagram empties the diagram and resets the session.
func (c *Controller) ClearDiagram() {
	c.d.Clear()
	c.Reset()
}

// Poll resolves a prompt whose answer has arrived. It must be called
// regularly from the event loop; it reports whether a prompt was resolved.
func (c *Controller) Poll() bool {
	return c.prompt.poll()
}

// --- Pointer events ---

// PointerDown starts a drag or resize in ModeIdle, or anchors the creation
// rectangle in ModeCreatingRegion.
func (c *Controller) PointerDown(x, y float64) {
	p := Vec2{X: x, Y: y}
	c.s.Pointer = p

	switch c.s.Mode {
	case ModeIdle:
		c.capture(p)
	case ModeCreatingRegion:
		c.s.HasAnchor = true
		c.s.Anchor = p
	}
}

func (c *Controller) capture(p Vec2) {
	if n := c.d.NodeAt(p.X, p.Y); n != nil {
		c.s.Node = n
		c.s.Last = p
		c.setMode(ModeDraggingNode)
		return
	}
	// Each zone is tested across every region before the next, so a handle
	// or label nested inside another region's body stays reachable.
	passes := []struct {
		hit  func(r *Region) bool
		mode Mode
	}{
		{func(r *Region) bool { return RegionResizeHandleContains(r, p.X, p.Y) }, ModeResizingRegion},
		{func(r *Region) bool { return RegionLabelContains(r, p.X, p.Y, c.labelWidth(r)) }, ModeDraggingRegionLabel},
		{func(r *Region) bool { return RegionContains(r, p.X, p.Y) }, ModeDraggingRegion},
	}
	for _, pass := range passes {
		for _, r := range c.d.Regions() {
			if pass.hit(r) {
				c.s.Region = r
				c.s.Last = p
				c.setMode(pass.mode)
				return
			}
		}
	}
}

// PointerMove applies the pointer delta to the captured entity.
func (c *Controller) PointerMove(x, y float64) {
	p := Vec2{X: x, Y: y}
	c.s.Pointer = p
	if !c.s.Mode.dragging() {
		return
	}

	dx := p.X - c.s.Last.X
	dy := p.Y - c.s.Last.Y
	switch c.s.Mode {
	case ModeDraggingNode:
		c.d.MoveNode(c.s.Node, dx, dy)
	case ModeDraggingRegion, ModeDraggingRegionLabel:
		c.d.MoveRegion(c.s.Region, dx, dy)
	case ModeResizingRegion:
		c.d.ResizeRegion(c.s.Region, dx, dy)
	}
	c.s.Last = p
}

// PointerUp ends a drag or resize, or finishes the creation rectangle. When
// the rectangle is large enough a label prompt is opened and its pending
// handle returned; otherwise the result is nil.
func (c *Controller) PointerUp(x, y float64) *PendingRegion {
	p := Vec2{X: x, Y: y}
	c.s.Pointer = p

	switch {
	case c.s.Mode.dragging():
		c.toIdle()
	case c.s.Mode == ModeCreatingRegion && c.s.HasAnchor:
		rect := RectFromPoints(c.s.Anchor, p)
		c.toIdle()
		if rect.Width <= MinCreateSize || rect.Height <= MinCreateSize {
			return nil
		}
		pending, err := c.promptAndCommit(rect)
		if err != nil {
			c.log.Warn("region prompt refused", zap.Error(err))
			return nil
		}
		return pending
	}
	return nil
}

// Click connects nodes in ModeConnecting and otherwise opens the notes
// panel for the entity under the pointer.
func (c *Controller) Click(x, y float64) {
	switch c.s.Mode {
	case ModeConnecting:
		c.connectClick(x, y)
	case ModeIdle:
		if c.panel == nil {
			return
		}
		if e := c.d.EntityAt(x, y); e != nil {
			c.panel.ShowNotes(e)
		}
	}
}

func (c *Controller) connectClick(x, y float64) {
	n := c.d.NodeAt(x, y)
	if n == nil || n == c.s.First {
		return
	}
	if c.s.First == nil {
		c.s.First = n
		return
	}
	if _, err := c.d.AddConnection(c.s.First, n); err != nil {
		c.log.Info("connection refused",
			zap.String("from", c.s.First.ID), zap.String("to", n.ID), zap.Error(err))
	}
	c.toIdle()
}

// DoubleClick opens the rename/delete prompt for the entity under the
// pointer. It reports whether a prompt was opened.
func (c *Controller) DoubleClick(x, y float64) bool {
	e := c.d.EntityAt(x, y)
	if e == nil {
		return false
	}
	cfg := PromptConfig{
		Title:       "Rename " + e.EntityKind().String(),
		Initial:     e.EntityLabel(),
		ShowDelete:  true,
		RequireText: true,
	}
	err := c.prompt.open(c.prompter, cfg, func(out PromptOutcome) {
		c.resolveRename(e, out)
	})
	if err != nil {
		c.log.Warn("rename prompt refused", zap.Error(err))
		return false
	}
	return true
}

func (c *Controller) resolveRename(e Entity, out PromptOutcome) {
	// The entity may have been deleted or the diagram replaced meanwhile.
	if !c.d.Contains(e) {
		return
	}
	switch out.Action {
	case PromptConfirmed:
		c.d.Rename(e, out.Text)
	case PromptDeleted:
		c.forget(e)
		c.d.Delete(e)
	}
}

// forget drops session references to e.
func (c *Controller) forget(e Entity) {
	switch v := e.(type) {
	case *Node:
		if c.s.First == v {
			c.s.First = nil
		}
		if c.s.Node == v {
			c.toIdle()
		}
	case *Region:
		if c.s.Region == v {
			c.toIdle()
		}
	}
}
