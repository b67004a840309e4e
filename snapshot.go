package mindmap

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultSnapshotName is the file name used for exports when none is given.
const DefaultSnapshotName = "mind_map.json"

// NodeRecord is the persisted form of a Node.
type NodeRecord struct {
	ID    string  `json:"id"`
	Type  string  `json:"type" validate:"oneof=team project"`
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Notes string  `json:"notes"`
}

// ConnectionRecord is the persisted form of a Connection. Endpoints are node IDs.
type ConnectionRecord struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// RegionRecord is the persisted form of a Region. Regions carry no ID.
type RegionRecord struct {
	Label  string  `json:"label" validate:"notblank"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width" validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`
	Notes  string  `json:"notes"`
}

// Snapshot is the flat export/import document.
type Snapshot struct {
	Nodes       []NodeRecord       `json:"nodes" validate:"dive"`
	Connections []ConnectionRecord `json:"connections" validate:"dive"`
	Regions     []RegionRecord     `json:"regions" validate:"dive"`
}

// LoadReport summarizes what Deserialize did with a snapshot.
type LoadReport struct {
	Nodes              int
	Connections        int
	Regions            int
	DroppedConnections int // endpoints that did not resolve to a node
	GeneratedIDs       int // nodes that had no ID
}

// Serialize flattens d into a Snapshot. Connections refer to nodes by ID.
func Serialize(d *Diagram) Snapshot {
	s := Snapshot{
		Nodes:       make([]NodeRecord, 0, len(d.nodes)),
		Connections: make([]ConnectionRecord, 0, len(d.connections)),
		Regions:     make([]RegionRecord, 0, len(d.regions)),
	}
	for _, n := range d.nodes {
		s.Nodes = append(s.Nodes, NodeRecord{
			ID:    n.ID,
			Type:  n.Kind.String(),
			Label: n.Label,
			X:     n.X,
			Y:     n.Y,
			Notes: n.Notes,
		})
	}
	for _, c := range d.connections {
		s.Connections = append(s.Connections, ConnectionRecord{From: c.From.ID, To: c.To.ID})
	}
	for _, r := range d.regions {
		s.Regions = append(s.Regions, RegionRecord{
			Label:  r.Label,
			X:      r.X,
			Y:      r.Y,
			Width:  r.Width,
			Height: r.Height,
			Notes:  r.Notes,
		})
	}
	return s
}

// Deserialize rebuilds a diagram from s.
func Deserialize(s Snapshot) *Diagram {
	d, _ := DeserializeReport(s)
	return d
}

// DeserializeReport rebuilds a diagram from s and reports what was loaded.
// Nodes without an ID get a fresh one. Connections whose endpoints do not
// resolve are dropped without error. Loaded connections are not subject to
// the connection policy. When IDs repeat, the first node with an ID wins.
func DeserializeReport(s Snapshot) (*Diagram, LoadReport) {
	d := NewDiagram()
	var rep LoadReport

	byID := make(map[string]*Node, len(s.Nodes))
	for _, rec := range s.Nodes {
		kind, err := ParseKind(rec.Type)
		if err != nil || kind == KindRegion {
			kind = KindProject
		}
		n := NewNode(kind, rec.X, rec.Y)
		if rec.ID != "" {
			n.ID = rec.ID
		} else {
			rep.GeneratedIDs++
		}
		if rec.Label != "" {
			n.Label = rec.Label
		}
		n.Notes = rec.Notes
		d.nodes = append(d.nodes, n)
		if _, dup := byID[n.ID]; !dup {
			byID[n.ID] = n
		}
	}

	for _, rec := range s.Connections {
		from, to := byID[rec.From], byID[rec.To]
		if from == nil || to == nil {
			rep.DroppedConnections++
			continue
		}
		d.connections = append(d.connections, &Connection{From: from, To: to})
	}

	for _, rec := range s.Regions {
		r := NewRegion(Rect{X: rec.X, Y: rec.Y, Width: rec.Width, Height: rec.Height}, strings.TrimSpace(rec.Label))
		r.Notes = rec.Notes
		d.regions = append(d.regions, r)
	}

	rep.Nodes = len(d.nodes)
	rep.Connections = len(d.connections)
	rep.Regions = len(d.regions)
	return d, rep
}

// --- JSON ---

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Validate checks the structural rules of s: node types, region labels and
// positive region sizes.
func (s Snapshot) Validate() error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("%w: %s", ErrInvalidSnapshot, strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	// Namespace is "Snapshot.nodes[0].type"; drop the root type name.
	_, field, _ := strings.Cut(e.Namespace(), ".")
	switch e.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s (got %q)", field, e.Param(), e.Value())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// Encode writes s as indented JSON.
func Encode(w io.Writer, s Snapshot) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// Decode parses and validates a snapshot. Missing arrays decode as empty.
// Any error leaves nothing half-loaded; the caller's diagram is untouched.
func Decode(r io.Reader) (Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Snapshot{}, err
	}
	return DecodeBytes(data)
}

// DecodeBytes is Decode over an in-memory document.
func DecodeBytes(data []byte) (Snapshot, error) {
	var s *Snapshot
	if err := json.Unmarshal(bytes.TrimSpace(data), &s); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if s == nil {
		return Snapshot{}, fmt.Errorf("%w: document is null", ErrInvalidSnapshot)
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return *s, nil
}

// --- Files ---

// ReadSnapshotFile reads and validates the snapshot at path.
func ReadSnapshotFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, err
	}
	s, err := DecodeBytes(data)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// WriteSnapshotFile writes s to path through a temporary file in the same
// directory, so readers never see a partial document.
func WriteSnapshotFile(path string, s Snapshot) error {
	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		return err
	}
	return WriteSnapshotBytes(path, buf.Bytes())
}

// WriteSnapshotBytes atomically replaces path with an already encoded
// document.
func WriteSnapshotBytes(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".mindmap-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// ExportFile serializes d to path.
func ExportFile(path string, d *Diagram) error {
	return WriteSnapshotFile(path, Serialize(d))
}

// ImportFile loads a diagram from path.
func ImportFile(path string) (*Diagram, error) {
	s, err := ReadSnapshotFile(path)
	if err != nil {
		return nil, err
	}
	return Deserialize(s), nil
}
