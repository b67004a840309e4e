package mindmap

import "testing"

func TestHitRectContains(t *testing.T) {
	r := HitRect{X: 10, Y: 20, Width: 100, Height: 50}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"outside left", 5, 40, false},
		{"outside right", 115, 40, false},
		{"outside top", 50, 15, false},
		{"outside bottom", 50, 75, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("HitRect.Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestNodeContains(t *testing.T) {
	n := NewNode(KindTeam, 100, 100)

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"center", 100, 100, true},
		{"on circumference", 130, 100, true},
		{"just outside", 131, 100, false},
		{"on circumference left", 70, 100, true},
		{"diagonal inside", 121, 121, true},
		{"diagonal outside", 122, 122, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NodeContains(n, tt.x, tt.y); got != tt.want {
				t.Errorf("NodeContains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRegionPredicates(t *testing.T) {
	r := NewRegion(Rect{X: 0, Y: 0, Width: 100, Height: 80}, "R")
	const labelW = 40

	tests := []struct {
		name   string
		x, y   float64
		body   bool
		handle bool
		label  bool
	}{
		{"top-left corner", 0, 0, true, false, false},
		{"bottom-right corner", 100, 80, true, true, false},
		{"handle corner", 90, 70, true, true, false},
		{"just outside handle", 89, 70, true, false, false},
		{"label origin", 5, 5, true, false, true},
		{"label far edge", 45, 25, true, false, true},
		{"right of label", 46, 10, true, false, false},
		{"below label", 10, 26, true, false, false},
		{"outside", 101, 40, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RegionContains(r, tt.x, tt.y); got != tt.body {
				t.Errorf("RegionContains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.body)
			}
			if got := RegionResizeHandleContains(r, tt.x, tt.y); got != tt.handle {
				t.Errorf("RegionResizeHandleContains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.handle)
			}
			if got := RegionLabelContains(r, tt.x, tt.y, labelW); got != tt.label {
				t.Errorf("RegionLabelContains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.label)
			}
		})
	}
}

func TestHitRegionZonePriority(t *testing.T) {
	// A label wide enough to overlap the handle: the handle still wins.
	r := NewRegion(Rect{X: 0, Y: 0, Width: 60, Height: 30}, "R")

	tests := []struct {
		name string
		x, y float64
		want RegionZone
	}{
		{"handle over label", 55, 22, ZoneHandle},
		{"label over body", 10, 10, ZoneLabel},
		{"body", 2, 2, ZoneBody},
		{"none", 70, 28, ZoneNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HitRegionZone(r, tt.x, tt.y, 100); got != tt.want {
				t.Errorf("HitRegionZone(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRectFromPointsNormalizes(t *testing.T) {
	want := Rect{X: 10, Y: 20, Width: 90, Height: 60}
	pairs := [][2]Vec2{
		{{10, 20}, {100, 80}},
		{{100, 80}, {10, 20}},
		{{100, 20}, {10, 80}},
		{{10, 80}, {100, 20}},
	}
	for _, p := range pairs {
		if got := RectFromPoints(p[0], p[1]); got != want {
			t.Errorf("RectFromPoints(%v, %v) = %+v, want %+v", p[0], p[1], got, want)
		}
	}
}

func TestFixedWidthMeasurer(t *testing.T) {
	m := FixedWidthMeasurer(7)
	if got := m.MeasureLabel("héllo"); got != 35 {
		t.Errorf("MeasureLabel = %v, want 35", got)
	}
	f := LabelMeasurerFunc(func(s string) float64 { return 3 })
	if got := f.MeasureLabel("anything"); got != 3 {
		t.Errorf("LabelMeasurerFunc = %v, want 3", got)
	}
}
