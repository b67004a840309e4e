package mindmap

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when the board converts to an ebiten color.
type Color struct {
	R, G, B, A float64
}

// RGBA8 builds a Color from 8-bit channels and a [0, 1] alpha.
func RGBA8(r, g, b uint8, a float64) Color {
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255, A: a}
}

// NRGBA converts c to a straight-alpha image/color value.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: channel8(c.R),
		G: channel8(c.G),
		B: channel8(c.B),
		A: channel8(c.A),
	}
}

// Lerp returns the component-wise interpolation between c and to at t in [0, 1].
func (c Color) Lerp(to Color, t float64) Color {
	return Color{
		R: c.R + (to.R-c.R)*t,
		G: c.G + (to.G-c.G)*t,
		B: c.B + (to.B-c.B)*t,
		A: c.A + (to.A-c.A)*t,
	}
}

func channel8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Canonical entity colors.
var (
	ColorTeam      = RGBA8(0x87, 0xCE, 0xEB, 1) // sky blue
	ColorProject   = RGBA8(0x98, 0xFB, 0x98, 1) // pale green
	ColorRegion    = RGBA8(200, 200, 200, 0.2)  // translucent gray
	ColorHighlight = RGBA8(0xFF, 0xD7, 0x00, 1) // gold, default flash color
	ColorStroke    = RGBA8(0x66, 0x66, 0x66, 1) // connections, region outline, handle
	ColorLabel     = Color{0, 0, 0, 1}
)

// Vec2 is a 2D vector used for positions, offsets, and sizes.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// RectFromPoints returns the normalized rectangle spanned by two corners,
// regardless of drag direction.
func RectFromPoints(a, b Vec2) Rect {
	r := Rect{X: min(a.X, b.X), Y: min(a.Y, b.Y)}
	r.Width = max(a.X, b.X) - r.X
	r.Height = max(a.Y, b.Y) - r.Y
	return r
}

// Geometry constants shared by hit testing, the gesture controller and the board.
const (
	NodeRadius    = 30.0 // fixed node radius
	MinRegionSize = 50.0 // floor applied to region width/height on resize
	HandleSize    = 10.0 // side of the region resize handle square
	LabelInset    = 5.0  // region label offset from the region's top-left corner
	LabelHeight   = 20.0 // hit height of a region label
	MinCreateSize = 10.0 // both sides of a new region must exceed this

	nodeMargin = 30.0 // keeps randomly placed nodes fully on the canvas
)

// Default canvas size used until the board reports its layout.
const (
	DefaultCanvasWidth  = 1024.0
	DefaultCanvasHeight = 640.0
)

// Kind classifies diagram entities. Nodes are either KindTeam or KindProject;
// regions always report KindRegion.
type Kind uint8

const (
	KindTeam    Kind = iota // a team member
	KindProject             // a project
	KindRegion              // a labeled rectangular area
)

// String returns the persisted name of the kind.
func (k Kind) String() string {
	switch k {
	case KindTeam:
		return "team"
	case KindProject:
		return "project"
	case KindRegion:
		return "region"
	default:
		return "unknown"
	}
}

// ParseKind maps a persisted name back to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "team":
		return KindTeam, nil
	case "project":
		return KindProject, nil
	case "region":
		return KindRegion, nil
	}
	return 0, fmt.Errorf("mindmap: unknown kind %q", s)
}

// Sentinel errors returned by the core.
var (
	ErrUnknownNode        = errors.New("mindmap: node is not part of the diagram")
	ErrUnknownRegion      = errors.New("mindmap: region is not part of the diagram")
	ErrSameKindConnection = errors.New("mindmap: connection endpoints must differ in kind")
	ErrEmptyLabel         = errors.New("mindmap: label must not be empty")
	ErrPromptBusy         = errors.New("mindmap: another prompt is already open")
	ErrNoPrompter         = errors.New("mindmap: no prompter configured")
	ErrInvalidSnapshot    = errors.New("mindmap: invalid snapshot")
)
