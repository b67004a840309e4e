package main

import (
	"github.com/spf13/cobra"

	"github.com/phanxgames/mindmap/internal/mcpserver"
)

func mcpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp [file]",
		Short: "Serve a snapshot file to AI agents over MCP (stdio)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := mcpserver.New(mcpserver.Options{
				Path:    a.snapshotPath(args),
				Version: version,
				Policy:  a.policy(),
				Logger:  a.log.Named("mcp"),
			})
			return s.ServeStdio()
		},
	}
}
