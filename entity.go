package mindmap

// Entity is a diagram element that carries a label and free-text notes.
// It is implemented by *Node and *Region only.
type Entity interface {
	Highlightable

	EntityKind() Kind
	EntityLabel() string
	EntityNotes() string

	setLabel(label string)
	setNotes(notes string)
}

var (
	_ Entity = (*Node)(nil)
	_ Entity = (*Region)(nil)
)
