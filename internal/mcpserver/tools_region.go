package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/phanxgames/mindmap"
)

func (s *Server) registerRegionTools() {
	// ── add_region ─────────────────────────────────────
	s.addTool(mcp.NewTool("add_region",
		mcp.WithDescription("Add a labeled rectangular region (a research direction)"),
		mcp.WithString("label", mcp.Description("Region label"), mcp.Required()),
		mcp.WithNumber("x", mcp.Description("Left edge"), mcp.Required()),
		mcp.WithNumber("y", mcp.Description("Top edge"), mcp.Required()),
		mcp.WithNumber("width", mcp.Description("Width in pixels"), mcp.Required()),
		mcp.WithNumber("height", mcp.Description("Height in pixels"), mcp.Required()),
	), s.handleAddRegion)
}

type regionView struct {
	Index  int     `json:"index"`
	Label  string  `json:"label"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Notes  string  `json:"notes,omitempty"`
}

func viewRegion(i int, r *mindmap.Region) regionView {
	return regionView{
		Index:  i,
		Label:  r.Label,
		X:      r.X,
		Y:      r.Y,
		Width:  r.Width,
		Height: r.Height,
		Notes:  r.Notes,
	}
}

func (s *Server) handleAddRegion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	label, err := requireString(args, "label")
	if err != nil {
		return nil, err
	}
	rect := mindmap.Rect{
		X:      getFloat(args, "x", 0),
		Y:      getFloat(args, "y", 0),
		Width:  getFloat(args, "width", 0),
		Height: getFloat(args, "height", 0),
	}
	if rect.Width <= mindmap.MinCreateSize || rect.Height <= mindmap.MinCreateSize {
		return nil, fmt.Errorf("width and height must exceed %v", mindmap.MinCreateSize)
	}

	return s.modify("add_region", func(d *mindmap.Diagram) (*mcp.CallToolResult, error) {
		r := mindmap.NewRegion(rect, label)
		if err := d.AddRegion(r); err != nil {
			return nil, err
		}
		return jsonResult(viewRegion(len(d.Regions())-1, r))
	})
}
