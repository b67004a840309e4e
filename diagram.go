package mindmap

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// ChangeType identifies a kind of diagram mutation.
type ChangeType uint8

const (
	ChangeNodeAdded         ChangeType = iota // a node was added
	ChangeNodeRemoved                         // a node was deleted
	ChangeNodeMoved                           // a node changed position
	ChangeNodeRenamed                         // a node label changed
	ChangeRegionAdded                         // a region was committed
	ChangeRegionRemoved                       // a region was deleted
	ChangeRegionMoved                         // a region changed position
	ChangeRegionResized                       // a region changed size
	ChangeRegionRenamed                       // a region label changed
	ChangeConnectionAdded                     // a connection was created
	ChangeConnectionRemoved                   // a connection was removed (cascade or explicit)
	ChangeNotes                               // an entity's notes changed
	ChangeCleared                             // the diagram was emptied
	ChangeReplaced                            // the diagram contents were replaced by an import
)

// ChangeEvent describes one mutation. Entity is set for node and region
// changes, Connection for connection changes.
type ChangeEvent struct {
	Type       ChangeType
	Entity     Entity
	Connection *Connection
}

// EventSink receives change events. Sinks are called synchronously from the
// mutating call.
type EventSink interface {
	Emit(event ChangeEvent)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(ChangeEvent)

// Emit calls f(event).
func (f EventSinkFunc) Emit(event ChangeEvent) { f(event) }

// Diagram is the aggregate root owning nodes, connections and regions.
// Slices keep insertion order, which is also the draw order within each
// layer. Diagram is not safe for concurrent use; all mutation happens on the
// goroutine delivering input events.
type Diagram struct {
	nodes       []*Node
	connections []*Connection
	regions     []*Region

	width, height float64
	policy        ConnectionPolicy
	rng           *rand.Rand
	sink          EventSink
	log           *zap.Logger
}

// NewDiagram creates an empty diagram with the default canvas size and the
// permissive connection policy.
func NewDiagram() *Diagram {
	return &Diagram{
		width:  DefaultCanvasWidth,
		height: DefaultCanvasHeight,
		policy: DefaultConnectionPolicy,
		log:    zap.NewNop(),
	}
}

// SetCanvasSize sets the bounds used for random node placement.
func (d *Diagram) SetCanvasSize(width, height float64) {
	d.width = width
	d.height = height
}

// CanvasSize returns the bounds used for random node placement.
func (d *Diagram) CanvasSize() (width, height float64) {
	return d.width, d.height
}

// SetPolicy replaces the connection policy.
func (d *Diagram) SetPolicy(p ConnectionPolicy) {
	d.policy = p
}

// Policy returns the connection policy.
func (d *Diagram) Policy() ConnectionPolicy {
	return d.policy
}

// SetRand sets the random source used by AddNode. A nil source falls back to
// the global generator.
func (d *Diagram) SetRand(r *rand.Rand) {
	d.rng = r
}

// SetEventSink sets the optional change listener.
func (d *Diagram) SetEventSink(sink EventSink) {
	d.sink = sink
}

// SetLogger sets the logger. A nil logger disables logging.
func (d *Diagram) SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	d.log = l
}

func (d *Diagram) emit(event ChangeEvent) {
	if d.sink != nil {
		d.sink.Emit(event)
	}
}

func (d *Diagram) float64() float64 {
	if d.rng != nil {
		return d.rng.Float64()
	}
	return rand.Float64()
}

// --- Reads ---

// Nodes returns the nodes in insertion order. The returned slice MUST NOT be mutated.
func (d *Diagram) Nodes() []*Node { return d.nodes }

// Connections returns the connections in insertion order. The returned slice MUST NOT be mutated.
func (d *Diagram) Connections() []*Connection { return d.connections }

// Regions returns the regions in insertion order. The returned slice MUST NOT be mutated.
func (d *Diagram) Regions() []*Region { return d.regions }

// Empty reports whether the diagram has no entities.
func (d *Diagram) Empty() bool {
	return len(d.nodes) == 0 && len(d.regions) == 0 && len(d.connections) == 0
}

// HasNode reports whether n belongs to the diagram.
func (d *Diagram) HasNode(n *Node) bool {
	return n != nil && slices.Contains(d.nodes, n)
}

// HasRegion reports whether r belongs to the diagram.
func (d *Diagram) HasRegion(r *Region) bool {
	return r != nil && slices.Contains(d.regions, r)
}

// Contains reports whether e belongs to the diagram.
func (d *Diagram) Contains(e Entity) bool {
	switch v := e.(type) {
	case *Node:
		return d.HasNode(v)
	case *Region:
		return d.HasRegion(v)
	}
	return false
}

// NodeByID returns the node with the given ID, or nil.
func (d *Diagram) NodeByID(id string) *Node {
	for _, n := range d.nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// NodeAt returns the first node (in insertion order) containing (x, y), or nil.
func (d *Diagram) NodeAt(x, y float64) *Node {
	for _, n := range d.nodes {
		if NodeContains(n, x, y) {
			return n
		}
	}
	return nil
}

// RegionAt returns the first region whose body contains (x, y), or nil.
func (d *Diagram) RegionAt(x, y float64) *Region {
	for _, r := range d.regions {
		if RegionContains(r, x, y) {
			return r
		}
	}
	return nil
}

// EntityAt hit-tests nodes first, then region bodies.
func (d *Diagram) EntityAt(x, y float64) Entity {
	if n := d.NodeAt(x, y); n != nil {
		return n
	}
	if r := d.RegionAt(x, y); r != nil {
		return r
	}
	return nil
}

// ConnectionsOf returns the connections touching n.
func (d *Diagram) ConnectionsOf(n *Node) []*Connection {
	var out []*Connection
	for _, c := range d.connections {
		if c.Touches(n) {
			out = append(out, c)
		}
	}
	return out
}

// --- Mutations ---

// AddNode adds a node of the given kind at a random position that keeps the
// whole circle inside the canvas.
func (d *Diagram) AddNode(kind Kind) *Node {
	x := d.float64()*max(d.width-2*nodeMargin, 0) + nodeMargin
	y := d.float64()*max(d.height-2*nodeMargin, 0) + nodeMargin
	return d.AddNodeAt(kind, x, y)
}

// AddNodeAt adds a node of the given kind centered at (x, y).
func (d *Diagram) AddNodeAt(kind Kind, x, y float64) *Node {
	n := NewNode(kind, x, y)
	d.attachNode(n)
	d.log.Debug("node added", zap.String("id", n.ID), zap.Stringer("kind", kind),
		zap.Float64("x", x), zap.Float64("y", y))
	return n
}

func (d *Diagram) attachNode(n *Node) {
	d.nodes = append(d.nodes, n)
	d.emit(ChangeEvent{Type: ChangeNodeAdded, Entity: n})
}

// MoveNode translates n by (dx, dy).
func (d *Diagram) MoveNode(n *Node, dx, dy float64) {
	n.X += dx
	n.Y += dy
	d.emit(ChangeEvent{Type: ChangeNodeMoved, Entity: n})
}

// RenameNode sets the label of n. Empty or whitespace-only labels are
// rejected and leave the node unchanged.
func (d *Diagram) RenameNode(n *Node, label string) bool {
	label = strings.TrimSpace(label)
	if label == "" || !d.HasNode(n) {
		return false
	}
	n.setLabel(label)
	d.emit(ChangeEvent{Type: ChangeNodeRenamed, Entity: n})
	return true
}

// DeleteNode removes n and every connection referencing it.
func (d *Diagram) DeleteNode(n *Node) bool {
	i := slices.Index(d.nodes, n)
	if i < 0 {
		return false
	}
	d.nodes = slices.Delete(d.nodes, i, i+1)

	kept := d.connections[:0]
	var removed []*Connection
	for _, c := range d.connections {
		if c.Touches(n) {
			removed = append(removed, c)
			continue
		}
		kept = append(kept, c)
	}
	clear(d.connections[len(kept):])
	d.connections = kept

	for _, c := range removed {
		d.emit(ChangeEvent{Type: ChangeConnectionRemoved, Connection: c})
	}
	d.emit(ChangeEvent{Type: ChangeNodeRemoved, Entity: n})
	d.log.Debug("node deleted", zap.String("id", n.ID), zap.Int("connections", len(removed)))
	return true
}

// AddConnection links from and to. Both must belong to the diagram and the
// pair must satisfy the connection policy. Duplicate connections are allowed.
func (d *Diagram) AddConnection(from, to *Node) (*Connection, error) {
	if !d.HasNode(from) || !d.HasNode(to) {
		return nil, ErrUnknownNode
	}
	if err := d.policy.Check(from, to); err != nil {
		return nil, err
	}
	return d.attachConnection(from, to), nil
}

func (d *Diagram) attachConnection(from, to *Node) *Connection {
	c := &Connection{From: from, To: to}
	d.connections = append(d.connections, c)
	d.emit(ChangeEvent{Type: ChangeConnectionAdded, Connection: c})
	return c
}

// RemoveConnection removes c.
func (d *Diagram) RemoveConnection(c *Connection) bool {
	i := slices.Index(d.connections, c)
	if i < 0 {
		return false
	}
	d.connections = slices.Delete(d.connections, i, i+1)
	d.emit(ChangeEvent{Type: ChangeConnectionRemoved, Connection: c})
	return true
}

// AddRegion commits r. The label must be non-empty.
func (d *Diagram) AddRegion(r *Region) error {
	label := strings.TrimSpace(r.Label)
	if label == "" {
		return ErrEmptyLabel
	}
	r.Label = label
	d.regions = append(d.regions, r)
	d.emit(ChangeEvent{Type: ChangeRegionAdded, Entity: r})
	d.log.Debug("region added", zap.String("label", label),
		zap.Float64("width", r.Width), zap.Float64("height", r.Height))
	return nil
}

// MoveRegion translates r by (dx, dy).
func (d *Diagram) MoveRegion(r *Region, dx, dy float64) {
	r.Move(dx, dy)
	d.emit(ChangeEvent{Type: ChangeRegionMoved, Entity: r})
}

// ResizeRegion grows r by (dx, dy) with each side floored at MinRegionSize.
func (d *Diagram) ResizeRegion(r *Region, dx, dy float64) {
	r.Resize(dx, dy)
	d.emit(ChangeEvent{Type: ChangeRegionResized, Entity: r})
}

// RenameRegion sets the label of r. Empty or whitespace-only labels are rejected.
func (d *Diagram) RenameRegion(r *Region, label string) bool {
	label = strings.TrimSpace(label)
	if label == "" || !d.HasRegion(r) {
		return false
	}
	r.setLabel(label)
	d.emit(ChangeEvent{Type: ChangeRegionRenamed, Entity: r})
	return true
}

// Rename dispatches to RenameNode or RenameRegion.
func (d *Diagram) Rename(e Entity, label string) bool {
	switch v := e.(type) {
	case *Node:
		return d.RenameNode(v, label)
	case *Region:
		return d.RenameRegion(v, label)
	}
	return false
}

// DeleteRegion removes r.
func (d *Diagram) DeleteRegion(r *Region) bool {
	i := slices.Index(d.regions, r)
	if i < 0 {
		return false
	}
	d.regions = slices.Delete(d.regions, i, i+1)
	d.emit(ChangeEvent{Type: ChangeRegionRemoved, Entity: r})
	return true
}

// Delete dispatches to DeleteNode or DeleteRegion.
func (d *Diagram) Delete(e Entity) bool {
	switch v := e.(type) {
	case *Node:
		return d.DeleteNode(v)
	case *Region:
		return d.DeleteRegion(v)
	}
	return false
}

// SetNotes replaces the notes of e. Notes may be empty.
func (d *Diagram) SetNotes(e Entity, notes string) error {
	if !d.Contains(e) {
		return fmt.Errorf("set notes on %q: %w", e.EntityLabel(), ErrUnknownNode)
	}
	e.setNotes(notes)
	d.emit(ChangeEvent{Type: ChangeNotes, Entity: e})
	return nil
}

// Clear removes every entity.
func (d *Diagram) Clear() {
	clear(d.nodes)
	clear(d.connections)
	clear(d.regions)
	d.nodes = d.nodes[:0]
	d.connections = d.connections[:0]
	d.regions = d.regions[:0]
	d.emit(ChangeEvent{Type: ChangeCleared})
}

// Replace swaps in the entities of other, typically a freshly imported
// diagram. Canvas size, policy, sink and logger of d are kept. other must
// not be used afterwards.
func (d *Diagram) Replace(other *Diagram) {
	d.nodes = other.nodes
	d.connections = other.connections
	d.regions = other.regions
	other.nodes, other.connections, other.regions = nil, nil, nil
	d.emit(ChangeEvent{Type: ChangeReplaced})
	d.log.Info("diagram replaced",
		zap.Int("nodes", len(d.nodes)),
		zap.Int("connections", len(d.connections)),
		zap.Int("regions", len(d.regions)))
}
