// Package mcpserver exposes a snapshot file to AI agents over the Model
// Context Protocol. Every tool call loads the file, applies one change
// through mindmap.Diagram and writes it back.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/phanxgames/mindmap"
)

// SnapshotURI is the resource URI of the served snapshot.
const SnapshotURI = "mindmap://snapshot"

// Options configures a Server.
type Options struct {
	Path    string // snapshot file; created on the first change if missing
	Version string
	Policy  mindmap.ConnectionPolicy
	Logger  *zap.Logger
}

// Server is the MCP server for one snapshot file.
type Server struct {
	mcp    *server.MCPServer
	path   string
	policy mindmap.ConnectionPolicy
	log    *zap.Logger
	tools  []mcp.Tool

	// mu serializes load-modify-save cycles.
	mu sync.Mutex
}

// New creates and configures a server with all tools and resources.
func New(opts Options) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	s := &Server{
		path:   opts.Path,
		policy: opts.Policy,
		log:    opts.Logger,
	}
	s.mcp = server.NewMCPServer(
		"mindmap",
		opts.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)
	s.registerNodeTools()
	s.registerRegionTools()
	s.registerNotesTools()
	s.registerResources()
	return s
}

// ServeStdio serves on stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	s.log.Info("mcp server starting", zap.String("path", s.path))
	return server.ServeStdio(s.mcp)
}

// Tools returns the registered tool definitions.
func (s *Server) Tools() []mcp.Tool { return s.tools }

func (s *Server) addTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.tools = append(s.tools, tool)
	s.mcp.AddTool(tool, handler)
}

// ── Snapshot access ────────────────────────────────────────

// load reads the snapshot. A missing file is an empty diagram.
func (s *Server) load() (*mindmap.Diagram, error) {
	snap, err := mindmap.ReadSnapshotFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		d := mindmap.NewDiagram()
		d.SetPolicy(s.policy)
		return d, nil
	}
	if err != nil {
		return nil, err
	}
	d := mindmap.Deserialize(snap)
	d.SetPolicy(s.policy)
	return d, nil
}

func (s *Server) save(d *mindmap.Diagram) error {
	if err := mindmap.ExportFile(s.path, d); err != nil {
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	return nil
}

// read runs fn over the current diagram.
func (s *Server) read(fn func(d *mindmap.Diagram) (*mcp.CallToolResult, error)) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.load()
	if err != nil {
		return nil, err
	}
	return fn(d)
}

// modify runs fn over the current diagram and saves it when fn succeeds.
func (s *Server) modify(tool string, fn func(d *mindmap.Diagram) (*mcp.CallToolResult, error)) (*mcp.CallToolResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.load()
	if err != nil {
		return nil, err
	}
	res, err := fn(d)
	if err != nil {
		s.log.Debug("tool failed", zap.String("tool", tool), zap.Error(err))
		return nil, err
	}
	if err := s.save(d); err != nil {
		return nil, err
	}
	s.log.Info("snapshot updated", zap.String("tool", tool))
	return res, nil
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

func requireString(args map[string]any, key string) (string, error) {
	v, _ := args[key].(string)
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

func getFloat(args map[string]any, key string, def float64) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return def
}

func (s *Server) nodeForTool(d *mindmap.Diagram, args map[string]any, key string) (*mindmap.Node, error) {
	id, err := requireString(args, key)
	if err != nil {
		return nil, err
	}
	n := d.NodeByID(id)
	if n == nil {
		return nil, fmt.Errorf("%w: %s", mindmap.ErrUnknownNode, id)
	}
	return n, nil
}

// regionForTool finds a region by its position in the snapshot's region
// list or, failing that, by label.
func (s *Server) regionForTool(d *mindmap.Diagram, args map[string]any) (*mindmap.Region, error) {
	regions := d.Regions()
	if idx, ok := args["regionIndex"].(float64); ok {
		i := int(idx)
		if i < 0 || i >= len(regions) || float64(i) != idx {
			return nil, fmt.Errorf("%w: index %v", mindmap.ErrUnknownRegion, idx)
		}
		return regions[i], nil
	}
	label, err := requireString(args, "region")
	if err != nil {
		return nil, errors.New("region or regionIndex is required")
	}
	for _, r := range regions {
		if r.Label == label {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", mindmap.ErrUnknownRegion, label)
}

// ── Resources ──────────────────────────────────────────────

func (s *Server) registerResources() {
	s.mcp.AddResource(mcp.NewResource(
		SnapshotURI,
		"Mind map snapshot",
		mcp.WithResourceDescription("The snapshot document being edited"),
		mcp.WithMIMEType("application/json"),
	), s.handleSnapshotResource)
}

func (s *Server) handleSnapshotResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.load()
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(mindmap.Serialize(d), "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      SnapshotURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
