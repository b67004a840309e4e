package board

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/mindmap"
)

var (
	colorOverlay     = mindmap.Color{R: 0, G: 0, B: 0, A: 0.35}
	colorPanel       = mindmap.RGBA8(0xF7, 0xF7, 0xF7, 1)
	colorField       = mindmap.Color{R: 1, G: 1, B: 1, A: 1}
	colorPlaceholder = mindmap.RGBA8(0x99, 0x99, 0x99, 1)
	colorButton      = mindmap.RGBA8(0xE0, 0xE0, 0xE0, 1)
	colorDanger      = mindmap.RGBA8(0xE5, 0x73, 0x73, 1)
	colorLink        = mindmap.RGBA8(0x1E, 0x66, 0xD0, 1)
)

const (
	modalWidth  = 360.0
	modalHeight = 150.0
	buttonW     = 80.0
	buttonH     = 30.0
)

// Modal is the single reusable label prompt. It implements mindmap.Prompter;
// Show returns immediately and the outcome is delivered once the user
// confirms, cancels or deletes.
type Modal struct {
	cfg  mindmap.PromptConfig
	buf  textBuffer
	out  chan mindmap.PromptOutcome
	open bool

	box, field, okBtn, cancelBtn, deleteBtn mindmap.Rect
}

// NewModal creates a closed modal.
func NewModal() *Modal {
	return &Modal{}
}

// Show opens the modal with cfg. A modal that is already open is cancelled
// first.
func (m *Modal) Show(cfg mindmap.PromptConfig) <-chan mindmap.PromptOutcome {
	if m.open {
		m.resolve(mindmap.PromptOutcome{Action: mindmap.PromptCancelled})
	}
	m.cfg = cfg
	m.buf.set(cfg.Initial)
	m.out = make(chan mindmap.PromptOutcome, 1)
	m.open = true
	return m.out
}

// Open reports whether the modal is showing.
func (m *Modal) Open() bool { return m.open }

// Text returns the current field contents.
func (m *Modal) Text() string { return m.buf.String() }

func (m *Modal) resolve(out mindmap.PromptOutcome) {
	m.out <- out
	close(m.out)
	m.out = nil
	m.open = false
}

func (m *Modal) confirm() {
	text := strings.TrimSpace(m.buf.String())
	if m.cfg.RequireText && text == "" {
		return
	}
	m.resolve(mindmap.PromptOutcome{Action: mindmap.PromptConfirmed, Text: text})
}

func (m *Modal) cancel() {
	m.resolve(mindmap.PromptOutcome{Action: mindmap.PromptCancelled})
}

func (m *Modal) remove() {
	if !m.cfg.ShowDelete {
		return
	}
	m.resolve(mindmap.PromptOutcome{Action: mindmap.PromptDeleted})
}

// typeText inserts typed characters.
func (m *Modal) typeText(s string) {
	if m.open {
		m.buf.insert(s)
	}
}

// key handles an editing key. Enter confirms and Escape cancels.
func (m *Modal) key(k editKey) {
	if !m.open {
		return
	}
	switch k {
	case keyEnter:
		m.confirm()
	case keyEscape:
		m.cancel()
	case keyDeleteEntity:
		m.remove()
	default:
		m.buf.key(k)
	}
}

// layout positions the modal centered in a screen of the given size.
func (m *Modal) layout(w, h float64) {
	m.box = mindmap.Rect{X: (w - modalWidth) / 2, Y: (h - modalHeight) / 2, Width: modalWidth, Height: modalHeight}
	m.field = mindmap.Rect{X: m.box.X + 16, Y: m.box.Y + 44, Width: modalWidth - 32, Height: 28}
	by := m.box.Y + modalHeight - buttonH - 16
	m.okBtn = mindmap.Rect{X: m.box.X + modalWidth - 16 - buttonW, Y: by, Width: buttonW, Height: buttonH}
	m.cancelBtn = mindmap.Rect{X: m.okBtn.X - 8 - buttonW, Y: by, Width: buttonW, Height: buttonH}
	m.deleteBtn = mindmap.Rect{X: m.box.X + 16, Y: by, Width: buttonW, Height: buttonH}
}

// click handles a pointer click in screen coordinates. The modal swallows
// every click while open.
func (m *Modal) click(x, y float64) {
	switch {
	case !m.open:
	case m.okBtn.Contains(x, y):
		m.confirm()
	case m.cancelBtn.Contains(x, y):
		m.cancel()
	case m.cfg.ShowDelete && m.deleteBtn.Contains(x, y):
		m.remove()
	}
}

// Draw renders the modal over the whole screen.
func (m *Modal) Draw(dst *ebiten.Image, font *Font, batch *shapeBatch) {
	if !m.open {
		return
	}
	b := dst.Bounds()
	m.layout(float64(b.Dx()), float64(b.Dy()))

	batch.fillRect(mindmap.Rect{Width: float64(b.Dx()), Height: float64(b.Dy())}, colorOverlay)
	batch.fillRect(m.box, colorPanel)
	batch.strokeRect(m.box, 1, mindmap.ColorStroke)
	batch.fillRect(m.field, colorField)
	batch.strokeRect(m.field, 1, mindmap.ColorStroke)
	batch.fillRect(m.okBtn, colorButton)
	batch.fillRect(m.cancelBtn, colorButton)
	if m.cfg.ShowDelete {
		batch.fillRect(m.deleteBtn, colorDanger)
	}
	batch.flush(dst)

	lh := font.LineHeight()
	font.draw(dst, m.cfg.Title, m.box.X+16, m.box.Y+14, mindmap.ColorLabel)
	ty := m.field.Y + (m.field.Height-lh)/2
	if m.buf.String() == "" && m.cfg.Placeholder != "" {
		font.draw(dst, m.cfg.Placeholder, m.field.X+6, ty, colorPlaceholder)
	} else {
		font.draw(dst, m.buf.withCursor('|'), m.field.X+6, ty, mindmap.ColorLabel)
	}
	drawButtonLabel(dst, font, m.okBtn, "OK")
	drawButtonLabel(dst, font, m.cancelBtn, "Cancel")
	if m.cfg.ShowDelete {
		drawButtonLabel(dst, font, m.deleteBtn, "Delete")
	}
}

func drawButtonLabel(dst *ebiten.Image, font *Font, r mindmap.Rect, label string) {
	w := font.MeasureLabel(label)
	font.draw(dst, label, r.X+(r.Width-w)/2, r.Y+(r.Height-font.LineHeight())/2, mindmap.ColorLabel)
}
