package board

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/phanxgames/mindmap"
)

const (
	DefaultFontSize = 14.0
	MinFontSize     = 8.0
	MaxFontSize     = 40.0
)

// Font wraps Ebitengine's text/v2 for label rendering and measurement. It
// implements mindmap.LabelMeasurer so region label hit boxes match what is
// drawn.
type Font struct {
	source *text.GoTextFaceSource
	face   *text.GoTextFace
	lh     float64 // cached line height
}

// LoadFont parses TrueType data at the given size.
func LoadFont(ttf []byte, size float64) (*Font, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("board: failed to parse font: %w", err)
	}
	f := &Font{source: source}
	f.SetSize(size)
	return f, nil
}

// DefaultFont loads Go Regular at size.
func DefaultFont(size float64) (*Font, error) {
	return LoadFont(goregular.TTF, size)
}

// Size returns the font size in pixels.
func (f *Font) Size() float64 { return f.face.Size }

// SetSize changes the font size, clamped to [MinFontSize, MaxFontSize].
func (f *Font) SetSize(size float64) {
	size = min(max(size, MinFontSize), MaxFontSize)
	f.face = &text.GoTextFace{Source: f.source, Size: size}
	m := f.face.Metrics()
	f.lh = m.HAscent + m.HDescent + m.HLineGap
}

// LineHeight returns the vertical distance between baselines.
func (f *Font) LineHeight() float64 { return f.lh }

// MeasureString returns the width and height of s.
func (f *Font) MeasureString(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// MeasureLabel returns the rendered width of a single-line label.
func (f *Font) MeasureLabel(label string) float64 {
	w, _ := f.MeasureString(label)
	return w
}

var _ mindmap.LabelMeasurer = (*Font)(nil)

// draw renders s with its top-left corner at (x, y).
func (f *Font) draw(dst *ebiten.Image, s string, x, y float64, c mindmap.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c.NRGBA())
	op.LineSpacing = f.lh
	text.Draw(dst, s, f.face, op)
}

// drawCentered renders lines as a block centered on (cx, cy), each line
// centered horizontally.
func (f *Font) drawCentered(dst *ebiten.Image, lines []string, cx, cy float64, c mindmap.Color) {
	top := cy - f.lh*float64(len(lines))/2
	for i, line := range lines {
		w := f.MeasureLabel(line)
		f.draw(dst, line, cx-w/2, top+f.lh*float64(i), c)
	}
}
