package mindmap

import (
	"strings"

	"github.com/google/uuid"
)

// Node is a circular diagram entity representing a team member or a project.
// Connections hold *Node pointers, so moving or relabeling a node is visible
// through every connection that references it.
type Node struct {
	// ID is an opaque token that survives export and import.
	ID string

	Kind   Kind
	X, Y   float64 // center
	Radius float64

	// Label may contain explicit line breaks; the board draws one line per break.
	Label string
	Notes string

	// Color starts at the kind's canonical color. Highlight flashing changes
	// it temporarily and always restores CanonicalColor afterwards.
	Color Color
}

// NewNode creates a node of the given kind centered at (x, y) with a fresh
// ID, the default label and the canonical color for its kind.
func NewNode(kind Kind, x, y float64) *Node {
	return &Node{
		ID:     NewNodeID(),
		Kind:   kind,
		X:      x,
		Y:      y,
		Radius: NodeRadius,
		Label:  DefaultLabel(kind),
		Color:  CanonicalColor(kind),
	}
}

// NewNodeID returns a new opaque node identifier.
func NewNodeID() string {
	return uuid.NewString()
}

// DefaultLabel returns the label given to freshly added nodes.
func DefaultLabel(kind Kind) string {
	if kind == KindTeam {
		return "New Team Member"
	}
	return "New Project"
}

// CanonicalColor returns the resting fill color for entities of kind.
func CanonicalColor(kind Kind) Color {
	switch kind {
	case KindTeam:
		return ColorTeam
	case KindProject:
		return ColorProject
	default:
		return ColorRegion
	}
}

// Center returns the node's position as a vector.
func (n *Node) Center() Vec2 {
	return Vec2{X: n.X, Y: n.Y}
}

// LabelLines splits the label on explicit line breaks.
func (n *Node) LabelLines() []string {
	return strings.Split(strings.ReplaceAll(n.Label, "\r\n", "\n"), "\n")
}

// --- Entity ---

func (n *Node) EntityKind() Kind      { return n.Kind }
func (n *Node) EntityLabel() string   { return n.Label }
func (n *Node) EntityNotes() string   { return n.Notes }
func (n *Node) setLabel(label string) { n.Label = label }
func (n *Node) setNotes(notes string) { n.Notes = notes }

// --- Highlightable ---

func (n *Node) CurrentColor() Color   { return n.Color }
func (n *Node) SetColor(c Color)      { n.Color = c }
func (n *Node) CanonicalColor() Color { return CanonicalColor(n.Kind) }
