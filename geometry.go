package mindmap

import "unicode/utf8"

// --- Hit shapes ---

// HitRect is an axis-aligned rectangular hit area.
type HitRect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r HitRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// HitCircle is a circular hit area.
type HitCircle struct {
	CenterX, CenterY, Radius float64
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c HitCircle) Contains(x, y float64) bool {
	dx := x - c.CenterX
	dy := y - c.CenterY
	return dx*dx+dy*dy <= c.Radius*c.Radius
}

// --- Entity predicates ---

// NodeContains reports whether (x, y) is within n.Radius of the node's center.
func NodeContains(n *Node, x, y float64) bool {
	return HitCircle{CenterX: n.X, CenterY: n.Y, Radius: n.Radius}.Contains(x, y)
}

// RegionContains reports whether (x, y) lies in the region body, edges included.
func RegionContains(r *Region, x, y float64) bool {
	return HitRect(r.Bounds()).Contains(x, y)
}

// RegionResizeHandleContains reports whether (x, y) lies in the bottom-right
// resize handle of r.
func RegionResizeHandleContains(r *Region, x, y float64) bool {
	return HitRect(r.HandleRect()).Contains(x, y)
}

// RegionLabelContains reports whether (x, y) lies in the label box of r.
// labelWidth is the rendered width of the label and must come from the
// font that draws it.
func RegionLabelContains(r *Region, x, y, labelWidth float64) bool {
	return HitRect(r.LabelRect(labelWidth)).Contains(x, y)
}

// RegionZone identifies the part of a region under the pointer.
type RegionZone uint8

const (
	ZoneNone   RegionZone = iota // outside the region
	ZoneHandle                   // resize handle
	ZoneLabel                    // label box
	ZoneBody                     // anywhere else inside the rectangle
)

// HitRegionZone returns the most specific zone of r containing (x, y).
// The handle and label are nested inside the body, so they are tested first.
// It looks at one region only; across regions the controller tests every
// handle, then every label, then every body.
func HitRegionZone(r *Region, x, y, labelWidth float64) RegionZone {
	switch {
	case RegionResizeHandleContains(r, x, y):
		return ZoneHandle
	case RegionLabelContains(r, x, y, labelWidth):
		return ZoneLabel
	case RegionContains(r, x, y):
		return ZoneBody
	}
	return ZoneNone
}

// --- Label measurement ---

// LabelMeasurer reports the rendered width of a region label.
type LabelMeasurer interface {
	MeasureLabel(label string) float64
}

// LabelMeasurerFunc adapts a plain function to LabelMeasurer.
type LabelMeasurerFunc func(label string) float64

// MeasureLabel calls f(label).
func (f LabelMeasurerFunc) MeasureLabel(label string) float64 { return f(label) }

// FixedWidthMeasurer measures labels as a fixed advance per rune. Used by
// tests and headless tools that have no font.
type FixedWidthMeasurer float64

// MeasureLabel returns the rune count times the advance.
func (m FixedWidthMeasurer) MeasureLabel(label string) float64 {
	return float64(utf8.RuneCountInString(label)) * float64(m)
}
