package board

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/mindmap"
)

const (
	connectionWidth = 2.0
	nodeStrokeWidth = 2.0
	statusHeight    = 22.0
)

var (
	colorPreviewFill = mindmap.Color{R: 0.4, G: 0.4, B: 0.4, A: 0.1}
	colorStatusBar   = mindmap.RGBA8(0x33, 0x33, 0x33, 1)
	colorStatusText  = mindmap.RGBA8(0xEE, 0xEE, 0xEE, 1)
	colorError       = mindmap.RGBA8(0xFF, 0x8A, 0x80, 1)
)

// drawDiagram renders regions, then connections, then nodes, then the
// creation preview. Text for each layer is drawn after its shapes.
func (b *Board) drawDiagram(dst *ebiten.Image) {
	batch := &b.batch
	lh := b.font.LineHeight()

	for _, r := range b.d.Regions() {
		bounds := r.Bounds()
		batch.fillRect(bounds, r.Color)
		batch.strokeRect(bounds, 1, mindmap.ColorStroke)
		batch.fillRect(r.HandleRect(), mindmap.ColorStroke)
		if batch.full() {
			batch.flush(dst)
		}
	}
	batch.flush(dst)
	for _, r := range b.d.Regions() {
		b.font.draw(dst, r.Label, r.X+mindmap.LabelInset, r.Y+mindmap.LabelInset+(mindmap.LabelHeight-lh)/2, mindmap.ColorLabel)
	}

	for _, c := range b.d.Connections() {
		if c.Dashed() {
			batch.dashedLine(c.From.Center(), c.To.Center(), connectionWidth, mindmap.ColorStroke)
		} else {
			batch.line(c.From.Center(), c.To.Center(), connectionWidth, mindmap.ColorStroke)
		}
		if batch.full() {
			batch.flush(dst)
		}
	}

	first := b.ctrl.PendingConnection()
	for _, n := range b.d.Nodes() {
		batch.fillCircle(n.X, n.Y, n.Radius, n.Color)
		stroke, width := mindmap.ColorStroke, nodeStrokeWidth
		if n == first {
			stroke, width = mindmap.ColorHighlight, 2*nodeStrokeWidth
		}
		batch.strokeCircle(n.X, n.Y, n.Radius, width, stroke)
		if batch.full() {
			batch.flush(dst)
		}
	}
	batch.flush(dst)
	for _, n := range b.d.Nodes() {
		b.font.drawCentered(dst, n.LabelLines(), n.X, n.Y, mindmap.ColorLabel)
	}

	if rect, ok := b.ctrl.Preview(); ok {
		batch.fillRect(rect, colorPreviewFill)
		batch.strokeRect(rect, 1, mindmap.ColorStroke)
		batch.flush(dst)
	}
}

// drawStatus renders the bottom status bar.
func (b *Board) drawStatus(dst *ebiten.Image) {
	y := b.screenH - statusHeight
	b.batch.fillRect(mindmap.Rect{Y: y, Width: b.screenW, Height: statusHeight}, colorStatusBar)
	b.batch.flush(dst)

	msg, c := helpText, colorStatusText
	if b.status != "" {
		msg = b.status
		if b.statusErr {
			c = colorError
		}
	}
	if m := b.ctrl.Mode(); m != mindmap.ModeIdle {
		msg = "[" + m.String() + "] " + msg
	}
	b.font.draw(dst, msg, 6, y+(statusHeight-b.font.LineHeight())/2, c)
}

var colorFPSOverlay = mindmap.Color{A: 0.5}

// drawFPS renders the frame-rate overlay in the top-left corner.
func (b *Board) drawFPS(dst *ebiten.Image) {
	b.batch.fillRect(mindmap.Rect{Width: 96, Height: 34}, colorFPSOverlay)
	b.batch.flush(dst)
	ebitenutil.DebugPrintAt(dst, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()), 4, 2)
}
