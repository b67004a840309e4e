package board

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/mindmap"
)

const (
	circleSegments = 48
	dashLength     = 8.0
	dashGap        = 6.0

	// Flush before uint16 indices overflow.
	maxBatchVertices = 65535 - 4*circleSegments
)

var whitePixelImage *ebiten.Image

// whitePixel returns a shared 1x1 white image used as the source texture
// for untextured triangles.
func whitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.White)
	}
	return whitePixelImage
}

// shapeBatch accumulates solid-colored triangles over the white pixel and
// submits them with a single DrawTriangles call.
type shapeBatch struct {
	verts []ebiten.Vertex
	inds  []uint16
}

func (b *shapeBatch) reset() {
	b.verts = b.verts[:0]
	b.inds = b.inds[:0]
}

// vertex appends a premultiplied vertex and returns its index.
func (b *shapeBatch) vertex(x, y float64, c mindmap.Color) uint16 {
	i := uint16(len(b.verts))
	b.verts = append(b.verts, ebiten.Vertex{
		DstX:   float32(x),
		DstY:   float32(y),
		SrcX:   0.5,
		SrcY:   0.5,
		ColorR: float32(c.R * c.A),
		ColorG: float32(c.G * c.A),
		ColorB: float32(c.B * c.A),
		ColorA: float32(c.A),
	})
	return i
}

// quad appends two triangles for the corners p0..p3 given in winding order.
func (b *shapeBatch) quad(p0, p1, p2, p3 mindmap.Vec2, c mindmap.Color) {
	i0 := b.vertex(p0.X, p0.Y, c)
	i1 := b.vertex(p1.X, p1.Y, c)
	i2 := b.vertex(p2.X, p2.Y, c)
	i3 := b.vertex(p3.X, p3.Y, c)
	b.inds = append(b.inds, i0, i1, i2, i0, i2, i3)
}

// fillRect appends a filled axis-aligned rectangle.
func (b *shapeBatch) fillRect(r mindmap.Rect, c mindmap.Color) {
	b.quad(
		mindmap.Vec2{X: r.X, Y: r.Y},
		mindmap.Vec2{X: r.X + r.Width, Y: r.Y},
		mindmap.Vec2{X: r.X + r.Width, Y: r.Y + r.Height},
		mindmap.Vec2{X: r.X, Y: r.Y + r.Height},
		c,
	)
}

// strokeRect appends the outline of r drawn inside its edges.
func (b *shapeBatch) strokeRect(r mindmap.Rect, width float64, c mindmap.Color) {
	w := min(width, r.Width/2, r.Height/2)
	b.fillRect(mindmap.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: w}, c)
	b.fillRect(mindmap.Rect{X: r.X, Y: r.Y + r.Height - w, Width: r.Width, Height: w}, c)
	b.fillRect(mindmap.Rect{X: r.X, Y: r.Y + w, Width: w, Height: r.Height - 2*w}, c)
	b.fillRect(mindmap.Rect{X: r.X + r.Width - w, Y: r.Y + w, Width: w, Height: r.Height - 2*w}, c)
}

// line appends a segment of the given width centered on a-b.
func (b *shapeBatch) line(a, e mindmap.Vec2, width float64, c mindmap.Color) {
	px, py := perpendicular(a, e)
	hw := width / 2
	b.quad(
		mindmap.Vec2{X: a.X + px*hw, Y: a.Y + py*hw},
		mindmap.Vec2{X: e.X + px*hw, Y: e.Y + py*hw},
		mindmap.Vec2{X: e.X - px*hw, Y: e.Y - py*hw},
		mindmap.Vec2{X: a.X - px*hw, Y: a.Y - py*hw},
		c,
	)
}

// dashedLine appends the dashes of a-b.
func (b *shapeBatch) dashedLine(a, e mindmap.Vec2, width float64, c mindmap.Color) {
	for _, s := range dashSegments(a, e, dashLength, dashGap) {
		b.line(s[0], s[1], width, c)
	}
}

// fillCircle appends a triangle fan approximating a circle.
func (b *shapeBatch) fillCircle(cx, cy, r float64, c mindmap.Color) {
	hub := b.vertex(cx, cy, c)
	first := uint16(len(b.verts))
	for i := range circleSegments {
		a := 2 * math.Pi * float64(i) / circleSegments
		b.vertex(cx+r*math.Cos(a), cy+r*math.Sin(a), c)
	}
	for i := range uint16(circleSegments) {
		next := first + (i+1)%circleSegments
		b.inds = append(b.inds, hub, first+i, next)
	}
}

// strokeCircle appends a ring of the given width whose outer edge is r.
func (b *shapeBatch) strokeCircle(cx, cy, r, width float64, c mindmap.Color) {
	inner := max(r-width, 0)
	first := uint16(len(b.verts))
	for i := range circleSegments {
		a := 2 * math.Pi * float64(i) / circleSegments
		cos, sin := math.Cos(a), math.Sin(a)
		b.vertex(cx+r*cos, cy+r*sin, c)
		b.vertex(cx+inner*cos, cy+inner*sin, c)
	}
	for i := range uint16(circleSegments) {
		o0, i0 := first+2*i, first+2*i+1
		j := (i + 1) % circleSegments
		o1, i1 := first+2*j, first+2*j+1
		b.inds = append(b.inds, o0, o1, i1, o0, i1, i0)
	}
}

// full reports whether the batch should be flushed before adding more shapes.
func (b *shapeBatch) full() bool {
	return len(b.verts) >= maxBatchVertices
}

// flush draws the accumulated triangles onto dst and empties the batch.
func (b *shapeBatch) flush(dst *ebiten.Image) {
	if len(b.inds) == 0 {
		b.reset()
		return
	}
	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	op.AntiAlias = true
	dst.DrawTriangles(b.verts, b.inds, whitePixel(), &op)
	b.reset()
}

// perpendicular returns the unit normal of the direction a->b. Degenerate
// segments get an upward normal.
func perpendicular(a, b mindmap.Vec2) (float64, float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	ln := math.Sqrt(dx*dx + dy*dy)
	if ln < 1e-10 {
		return 0, -1
	}
	return -dy / ln, dx / ln
}

// dashSegments splits a-b into dash runs of length dash separated by gap.
// The last dash is clipped to the segment end.
func dashSegments(a, b mindmap.Vec2, dash, gap float64) [][2]mindmap.Vec2 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	ln := math.Sqrt(dx*dx + dy*dy)
	if ln < 1e-10 || dash <= 0 {
		return nil
	}
	ux, uy := dx/ln, dy/ln
	var out [][2]mindmap.Vec2
	for t := 0.0; t < ln; t += dash + gap {
		end := min(t+dash, ln)
		out = append(out, [2]mindmap.Vec2{
			{X: a.X + ux*t, Y: a.Y + uy*t},
			{X: a.X + ux*end, Y: a.Y + uy*end},
		})
	}
	return out
}
