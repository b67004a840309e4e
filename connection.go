package mindmap

// Connection links two nodes by identity. It is stored with a direction but
// carries no directional meaning.
type Connection struct {
	From, To *Node
}

// Dashed reports whether the connection is drawn with a dashed stroke, which
// is the case when both endpoints are projects.
func (c *Connection) Dashed() bool {
	return c.From.Kind == KindProject && c.To.Kind == KindProject
}

// Touches reports whether n is either endpoint.
func (c *Connection) Touches(n *Node) bool {
	return c.From == n || c.To == n
}

// ConnectionPolicy decides which node pairs may be connected interactively.
type ConnectionPolicy struct {
	// AllowSameKind permits team↔team and project↔project connections.
	// When false only team↔project pairs are accepted.
	AllowSameKind bool
}

// DefaultConnectionPolicy accepts any pair of nodes.
var DefaultConnectionPolicy = ConnectionPolicy{AllowSameKind: true}

// Check returns nil if from and to may be connected under p.
func (p ConnectionPolicy) Check(from, to *Node) error {
	if !p.AllowSameKind && from.Kind == to.Kind {
		return ErrSameKindConnection
	}
	return nil
}
