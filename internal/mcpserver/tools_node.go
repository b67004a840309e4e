package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/phanxgames/mindmap"
)

func (s *Server) registerNodeTools() {
	// ── list_nodes ─────────────────────────────────────
	s.addTool(mcp.NewTool("list_nodes",
		mcp.WithDescription("List all team and project nodes with their positions and notes"),
	), s.handleListNodes)

	// ── add_node ───────────────────────────────────────
	s.addTool(mcp.NewTool("add_node",
		mcp.WithDescription("Add a team or project node. Without x and y it is placed at random on the canvas."),
		mcp.WithString("type",
			mcp.Description("Node kind"),
			mcp.Enum("team", "project"),
			mcp.Required(),
		),
		mcp.WithString("label", mcp.Description("Label (optional, defaults to the kind name)")),
		mcp.WithNumber("x", mcp.Description("Center X (optional)")),
		mcp.WithNumber("y", mcp.Description("Center Y (optional)")),
	), s.handleAddNode)

	// ── rename_node ────────────────────────────────────
	s.addTool(mcp.NewTool("rename_node",
		mcp.WithDescription("Change a node's label"),
		mcp.WithString("id", mcp.Description("Node ID"), mcp.Required()),
		mcp.WithString("label", mcp.Description("New label"), mcp.Required()),
	), s.handleRenameNode)

	// ── delete_node ────────────────────────────────────
	s.addTool(mcp.NewTool("delete_node",
		mcp.WithDescription("Delete a node and every connection touching it"),
		mcp.WithString("id", mcp.Description("Node ID"), mcp.Required()),
	), s.handleDeleteNode)

	// ── connect_nodes ──────────────────────────────────
	s.addTool(mcp.NewTool("connect_nodes",
		mcp.WithDescription("Connect two distinct nodes"),
		mcp.WithString("from", mcp.Description("ID of the first node"), mcp.Required()),
		mcp.WithString("to", mcp.Description("ID of the second node"), mcp.Required()),
	), s.handleConnectNodes)
}

// nodeView is the JSON shape of a node in tool results.
type nodeView struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Label       string  `json:"label"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Notes       string  `json:"notes,omitempty"`
	Connections int     `json:"connections"`
}

func viewNode(d *mindmap.Diagram, n *mindmap.Node) nodeView {
	return nodeView{
		ID:          n.ID,
		Type:        n.Kind.String(),
		Label:       n.Label,
		X:           n.X,
		Y:           n.Y,
		Notes:       n.Notes,
		Connections: len(d.ConnectionsOf(n)),
	}
}

// ── Handlers ───────────────────────────────────────────────

func (s *Server) handleListNodes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.read(func(d *mindmap.Diagram) (*mcp.CallToolResult, error) {
		views := make([]nodeView, 0, len(d.Nodes()))
		for _, n := range d.Nodes() {
			views = append(views, viewNode(d, n))
		}
		return jsonResult(views)
	})
}

func (s *Server) handleAddNode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	typ, err := requireString(args, "type")
	if err != nil {
		return nil, err
	}
	kind, err := mindmap.ParseKind(typ)
	if err != nil || kind == mindmap.KindRegion {
		return nil, fmt.Errorf("type must be team or project (got %q)", typ)
	}

	return s.modify("add_node", func(d *mindmap.Diagram) (*mcp.CallToolResult, error) {
		var n *mindmap.Node
		x, hasX := args["x"].(float64)
		y, hasY := args["y"].(float64)
		if hasX && hasY {
			n = d.AddNodeAt(kind, x, y)
		} else {
			n = d.AddNode(kind)
		}
		if label, _ := args["label"].(string); label != "" {
			d.RenameNode(n, label)
		}
		return jsonResult(viewNode(d, n))
	})
}

func (s *Server) handleRenameNode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	label, err := requireString(args, "label")
	if err != nil {
		return nil, err
	}
	return s.modify("rename_node", func(d *mindmap.Diagram) (*mcp.CallToolResult, error) {
		n, err := s.nodeForTool(d, args, "id")
		if err != nil {
			return nil, err
		}
		if !d.RenameNode(n, label) {
			return nil, mindmap.ErrEmptyLabel
		}
		return textResult(fmt.Sprintf("Node %s renamed to %q", n.ID, n.Label)), nil
	})
}

func (s *Server) handleDeleteNode(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	return s.modify("delete_node", func(d *mindmap.Diagram) (*mcp.CallToolResult, error) {
		n, err := s.nodeForTool(d, args, "id")
		if err != nil {
			return nil, err
		}
		removed := len(d.ConnectionsOf(n))
		d.DeleteNode(n)
		return textResult(fmt.Sprintf("Node %s deleted with %d connection(s)", n.ID, removed)), nil
	})
}

func (s *Server) handleConnectNodes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	return s.modify("connect_nodes", func(d *mindmap.Diagram) (*mcp.CallToolResult, error) {
		from, err := s.nodeForTool(d, args, "from")
		if err != nil {
			return nil, err
		}
		to, err := s.nodeForTool(d, args, "to")
		if err != nil {
			return nil, err
		}
		if from == to {
			return nil, errors.New("from and to must be different nodes")
		}
		c, err := d.AddConnection(from, to)
		if err != nil {
			return nil, err
		}
		style := "solid"
		if c.Dashed() {
			style = "dashed"
		}
		return textResult(fmt.Sprintf("Connected %s to %s (%s)", from.ID, to.ID, style)), nil
	})
}
