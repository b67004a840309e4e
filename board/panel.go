package board

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/mindmap"
)

const (
	panelWidth   = 320.0
	panelPadding = 10.0
	editorHeight = 160.0
	rowGap       = 8.0
)

// NotesPanel is the docked notes view. It implements mindmap.NotesPanel:
// ShowNotes opens the editor for an entity, and every keystroke is written
// back to the entity's notes.
type NotesPanel struct {
	d       *mindmap.Diagram
	ctrl    *mindmap.Controller
	flasher *mindmap.Flasher

	visible bool
	focused bool
	entity  mindmap.Entity
	editor  textBuffer
	entries []mindmap.NoteEntry

	bounds    mindmap.Rect
	editorBox mindmap.Rect
	filterBtn mindmap.Rect
	rows      []mindmap.Rect
	rowHeight float64
}

func newNotesPanel(d *mindmap.Diagram, flasher *mindmap.Flasher) *NotesPanel {
	return &NotesPanel{
		d:       d,
		flasher: flasher,
		editor:  textBuffer{multiline: true},
	}
}

// bind attaches the controller whose session holds the active filter.
func (p *NotesPanel) bind(ctrl *mindmap.Controller) {
	p.ctrl = ctrl
	p.refresh()
}

// ShowNotes opens the panel on e and focuses its editor.
func (p *NotesPanel) ShowNotes(e mindmap.Entity) {
	p.visible = true
	p.focused = true
	p.entity = e
	p.editor.set(e.EntityNotes())
	p.refresh()
}

// Visible reports whether the panel is shown.
func (p *NotesPanel) Visible() bool { return p.visible }

// Focused reports whether the editor takes keyboard input.
func (p *NotesPanel) Focused() bool { return p.visible && p.focused && p.entity != nil }

// Entity returns the entity being edited, or nil.
func (p *NotesPanel) Entity() mindmap.Entity { return p.entity }

// Entries returns the current notes index rows.
func (p *NotesPanel) Entries() []mindmap.NoteEntry { return p.entries }

func (p *NotesPanel) toggle() {
	p.visible = !p.visible
	if !p.visible {
		p.focused = false
	}
	p.refresh()
}

func (p *NotesPanel) blur() { p.focused = false }

func (p *NotesPanel) filter() mindmap.NoteFilter {
	if p.ctrl == nil {
		return mindmap.FilterAll
	}
	return p.ctrl.Filter()
}

func (p *NotesPanel) cycleFilter() {
	if p.ctrl == nil {
		return
	}
	p.ctrl.SetFilter(p.filter().Next())
	p.refresh()
}

// refresh recomputes the notes index from the diagram.
func (p *NotesPanel) refresh() {
	p.entries = mindmap.CollectNotes(p.d, p.filter())
}

// onChange keeps the panel consistent with the diagram.
func (p *NotesPanel) onChange(ev mindmap.ChangeEvent) {
	if p.entity != nil && !p.d.Contains(p.entity) {
		p.entity = nil
		p.focused = false
		p.editor.set("")
	}
	switch ev.Type {
	case mindmap.ChangeNotes, mindmap.ChangeNodeRenamed, mindmap.ChangeRegionRenamed,
		mindmap.ChangeNodeRemoved, mindmap.ChangeRegionRemoved,
		mindmap.ChangeCleared, mindmap.ChangeReplaced:
		p.refresh()
	}
}

func (p *NotesPanel) typeText(s string) {
	if !p.Focused() {
		return
	}
	if p.editor.insert(s) {
		p.writeBack()
	}
}

func (p *NotesPanel) key(k editKey) {
	if !p.Focused() {
		return
	}
	switch k {
	case keyEscape:
		p.blur()
	case keyEnter:
		if p.editor.insert("\n") {
			p.writeBack()
		}
	default:
		if p.editor.key(k) {
			p.writeBack()
		}
	}
}

func (p *NotesPanel) writeBack() {
	// SetNotes only fails for entities no longer in the diagram, which
	// onChange has already cleared.
	_ = p.d.SetNotes(p.entity, p.editor.String())
}

// layout positions the panel against the right edge of a screen of the
// given size, above the status bar.
func (p *NotesPanel) layout(w, h, lineHeight float64) {
	p.bounds = mindmap.Rect{X: w - panelWidth, Y: 0, Width: panelWidth, Height: h}
	x := p.bounds.X + panelPadding
	inner := panelWidth - 2*panelPadding
	p.editorBox = mindmap.Rect{X: x, Y: panelPadding + lineHeight + 10, Width: inner, Height: editorHeight}
	p.filterBtn = mindmap.Rect{X: x, Y: p.editorBox.Y + editorHeight + 10, Width: inner, Height: lineHeight + 8}

	p.rowHeight = 2*lineHeight + rowGap
	p.rows = p.rows[:0]
	y := p.filterBtn.Y + p.filterBtn.Height + 10
	for range p.entries {
		if y+p.rowHeight > h {
			break
		}
		p.rows = append(p.rows, mindmap.Rect{X: x, Y: y, Width: inner, Height: p.rowHeight - 2})
		y += p.rowHeight
	}
}

// contains reports whether (x, y) falls on the visible panel.
func (p *NotesPanel) contains(x, y float64) bool {
	return p.visible && p.bounds.Contains(x, y)
}

// click handles a click inside the panel. Clicking a row flashes its entity
// and opens it in the editor.
func (p *NotesPanel) click(x, y float64) {
	switch {
	case p.filterBtn.Contains(x, y):
		p.cycleFilter()
	case p.editorBox.Contains(x, y):
		p.focused = p.entity != nil
	default:
		for i, r := range p.rows {
			if i < len(p.entries) && r.Contains(x, y) {
				e := p.entries[i].Entity
				if p.flasher != nil {
					p.flasher.Flash(e)
				}
				p.ShowNotes(e)
				return
			}
		}
		p.blur()
	}
}

// Draw renders the panel.
func (p *NotesPanel) Draw(dst *ebiten.Image, font *Font, batch *shapeBatch) {
	if !p.visible {
		return
	}
	batch.fillRect(p.bounds, colorPanel)
	batch.fillRect(mindmap.Rect{X: p.bounds.X, Y: 0, Width: 1, Height: p.bounds.Height}, mindmap.ColorStroke)
	batch.fillRect(p.editorBox, colorField)
	border := mindmap.ColorStroke
	if p.Focused() {
		border = colorLink
	}
	batch.strokeRect(p.editorBox, 1, border)
	batch.fillRect(p.filterBtn, colorButton)
	for i := range p.rows {
		batch.fillRect(p.rows[i], colorField)
	}
	batch.flush(dst)

	x := p.bounds.X + panelPadding
	lh := font.LineHeight()
	if p.entity != nil {
		title := firstLine(p.entity.EntityLabel()) + " (" + p.entity.EntityKind().String() + ")"
		font.draw(dst, title, x, panelPadding, mindmap.ColorLabel)
		body := p.editor.String()
		if p.Focused() {
			body = p.editor.withCursor('|')
		}
		font.draw(dst, body, p.editorBox.X+4, p.editorBox.Y+4, mindmap.ColorLabel)
	} else {
		font.draw(dst, "Click a node or region to edit notes", x, panelPadding, colorPlaceholder)
	}
	drawButtonLabel(dst, font, p.filterBtn, "Filter: "+p.filter().String())

	for i, r := range p.rows {
		if i >= len(p.entries) {
			break
		}
		e := p.entries[i]
		font.draw(dst, firstLine(e.Label)+"  ["+e.Kind.String()+"]", r.X+4, r.Y+2, mindmap.ColorLabel)
		drawSegments(dst, font, mindmap.SplitLinks(firstLine(e.Notes)), r.X+4, r.Y+2+lh)
	}
}

// drawSegments draws notes text on one line, coloring links.
func drawSegments(dst *ebiten.Image, font *Font, segs []mindmap.NoteSegment, x, y float64) {
	for _, s := range segs {
		c := mindmap.ColorLabel
		if s.Link {
			c = colorLink
		}
		font.draw(dst, s.Text, x, y, c)
		x += font.MeasureLabel(s.Text)
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
