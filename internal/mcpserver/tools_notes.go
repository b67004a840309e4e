package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/phanxgames/mindmap"
)

func (s *Server) registerNotesTools() {
	// ── set_notes ──────────────────────────────────────
	s.addTool(mcp.NewTool("set_notes",
		mcp.WithDescription("Replace the notes of a node (by id) or a region (by label or index)"),
		mcp.WithString("id", mcp.Description("Node ID")),
		mcp.WithString("region", mcp.Description("Region label")),
		mcp.WithNumber("regionIndex", mcp.Description("Region position in the snapshot")),
		mcp.WithString("notes", mcp.Description("Notes text; empty clears them"), mcp.Required()),
	), s.handleSetNotes)

	// ── list_notes ─────────────────────────────────────
	s.addTool(mcp.NewTool("list_notes",
		mcp.WithDescription("List every entity that has notes, nodes first then regions"),
		mcp.WithString("filter",
			mcp.Description("Restrict to one kind"),
			mcp.Enum("all", "team", "project", "region"),
		),
	), s.handleListNotes)

	// ── describe ───────────────────────────────────────
	s.addTool(mcp.NewTool("describe",
		mcp.WithDescription("Summarize the mind map: nodes, connections and regions"),
	), s.handleDescribe)
}

type noteView struct {
	Kind  string   `json:"kind"`
	Label string   `json:"label"`
	Notes string   `json:"notes"`
	Links []string `json:"links,omitempty"`
}

func (s *Server) handleSetNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	notes, ok := args["notes"].(string)
	if !ok {
		return nil, fmt.Errorf("notes is required")
	}
	return s.modify("set_notes", func(d *mindmap.Diagram) (*mcp.CallToolResult, error) {
		var e mindmap.Entity
		if _, byNode := args["id"]; byNode {
			n, err := s.nodeForTool(d, args, "id")
			if err != nil {
				return nil, err
			}
			e = n
		} else {
			r, err := s.regionForTool(d, args)
			if err != nil {
				return nil, err
			}
			e = r
		}
		if err := d.SetNotes(e, notes); err != nil {
			return nil, err
		}
		return textResult(fmt.Sprintf("Notes of %s %q updated", e.EntityKind(), e.EntityLabel())), nil
	})
}

func (s *Server) handleListNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter, err := mindmap.ParseNoteFilter(req.GetString("filter", ""))
	if err != nil {
		return nil, err
	}
	return s.read(func(d *mindmap.Diagram) (*mcp.CallToolResult, error) {
		views := []noteView{}
		for e := range mindmap.Notes(d, filter) {
			views = append(views, noteView{
				Kind:  e.Kind.String(),
				Label: e.Label,
				Notes: e.Notes,
				Links: mindmap.LinkPattern.FindAllString(e.Notes, -1),
			})
		}
		return jsonResult(views)
	})
}

func (s *Server) handleDescribe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.read(func(d *mindmap.Diagram) (*mcp.CallToolResult, error) {
		return textResult(Describe(d)), nil
	})
}

// Describe renders a plain-text outline of d.
func Describe(d *mindmap.Diagram) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d node(s), %d connection(s), %d region(s)\n",
		len(d.Nodes()), len(d.Connections()), len(d.Regions()))

	if len(d.Nodes()) > 0 {
		b.WriteString("\nNodes:\n")
		for _, n := range d.Nodes() {
			fmt.Fprintf(&b, "- [%s] %s (%s) at %.0f,%.0f\n", n.Kind, oneLine(n.Label), n.ID, n.X, n.Y)
		}
	}
	if len(d.Connections()) > 0 {
		b.WriteString("\nConnections:\n")
		for _, c := range d.Connections() {
			style := ""
			if c.Dashed() {
				style = " (dashed)"
			}
			fmt.Fprintf(&b, "- %s -> %s%s\n", oneLine(c.From.Label), oneLine(c.To.Label), style)
		}
	}
	if len(d.Regions()) > 0 {
		b.WriteString("\nRegions:\n")
		for i, r := range d.Regions() {
			fmt.Fprintf(&b, "- #%d %s at %.0f,%.0f size %.0fx%.0f\n", i, oneLine(r.Label), r.X, r.Y, r.Width, r.Height)
		}
	}
	return b.String()
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", " / ")
}
