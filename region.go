package mindmap

// Region is an axis-aligned rectangle grouping an area of the canvas under a
// label. Regions have no persisted identity and never take part in connections.
type Region struct {
	X, Y          float64 // top-left corner
	Width, Height float64

	Label string
	Notes string

	// Color is the translucent fill. Only highlight flashing changes it.
	Color Color
}

// NewRegion creates a region covering rect. The label may be empty while an
// interactive prompt is still collecting it; Diagram.AddRegion refuses to
// commit a region without one.
func NewRegion(rect Rect, label string) *Region {
	return &Region{
		X:      rect.X,
		Y:      rect.Y,
		Width:  rect.Width,
		Height: rect.Height,
		Label:  label,
		Color:  ColorRegion,
	}
}

// Bounds returns the region rectangle.
func (r *Region) Bounds() Rect {
	return Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// HandleRect returns the bottom-right resize handle.
func (r *Region) HandleRect() Rect {
	return Rect{
		X:      r.X + r.Width - HandleSize,
		Y:      r.Y + r.Height - HandleSize,
		Width:  HandleSize,
		Height: HandleSize,
	}
}

// LabelRect returns the label box for a label of the given rendered width.
func (r *Region) LabelRect(labelWidth float64) Rect {
	return Rect{X: r.X + LabelInset, Y: r.Y + LabelInset, Width: labelWidth, Height: LabelHeight}
}

// Move translates the region by (dx, dy).
func (r *Region) Move(dx, dy float64) {
	r.X += dx
	r.Y += dy
}

// Resize grows the region by (dx, dy). Each dimension is floored at
// MinRegionSize.
func (r *Region) Resize(dx, dy float64) {
	r.Width = max(MinRegionSize, r.Width+dx)
	r.Height = max(MinRegionSize, r.Height+dy)
}

// --- Entity ---

func (r *Region) EntityKind() Kind      { return KindRegion }
func (r *Region) EntityLabel() string   { return r.Label }
func (r *Region) EntityNotes() string   { return r.Notes }
func (r *Region) setLabel(label string) { r.Label = label }
func (r *Region) setNotes(notes string) { r.Notes = notes }

// --- Highlightable ---

func (r *Region) CurrentColor() Color   { return r.Color }
func (r *Region) SetColor(c Color)      { r.Color = c }
func (r *Region) CanonicalColor() Color { return ColorRegion }
