package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phanxgames/mindmap"
	"github.com/phanxgames/mindmap/internal/config"
	"github.com/phanxgames/mindmap/internal/logging"
	"github.com/phanxgames/mindmap/internal/ui"
)

var version = "0.3.0"

// app carries what every command needs after flags are parsed.
type app struct {
	configPath string
	logLevel   string

	cfg *config.Config
	log *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "mindmap",
		Short: "Team and project mind maps",
		Long: ui.Brand.Sprint("mindmap") + " draws teams, projects and research directions on one canvas\n" +
			ui.Subtle.Sprint("Open the board, list notes, or serve a map to AI agents over MCP"),
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.SetVersionTemplate("mindmap {{ .Version }}\n")
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: "+config.Path()+")")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override log.level: debug, info, warn, error")

	root.AddCommand(
		openCmd(a),
		notesCmd(a),
		validateCmd(a),
		mcpCmd(a),
		configCmd(a),
	)
	return root
}

// setup loads the config and builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.resolvedConfigPath())
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger
	return nil
}

// snapshotPath returns the file argument or the configured default.
func (a *app) snapshotPath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return a.cfg.Snapshot.DefaultPath
}

func (a *app) policy() mindmap.ConnectionPolicy {
	return mindmap.ConnectionPolicy{AllowSameKind: a.cfg.Diagram.AllowSameKindConnections}
}

// loadDiagram reads the snapshot at path. A missing file is a new, empty
// diagram.
func (a *app) loadDiagram(path string) (*mindmap.Diagram, mindmap.LoadReport, error) {
	snap, err := mindmap.ReadSnapshotFile(path)
	if errors.Is(err, os.ErrNotExist) {
		a.log.Info("starting a new map", zap.String("path", path))
		return mindmap.NewDiagram(), mindmap.LoadReport{}, nil
	}
	if err != nil {
		a.log.Error("import failed", zap.String("path", path), zap.Error(err))
		return nil, mindmap.LoadReport{}, err
	}
	d, rep := mindmap.DeserializeReport(snap)
	a.log.Info("loaded snapshot",
		zap.String("path", path),
		zap.Int("nodes", rep.Nodes),
		zap.Int("connections", rep.Connections),
		zap.Int("regions", rep.Regions),
		zap.Int("dropped_connections", rep.DroppedConnections),
	)
	return d, rep, nil
}

func countLine(rep mindmap.LoadReport) string {
	return fmt.Sprintf("%d nodes, %d connections, %d regions", rep.Nodes, rep.Connections, rep.Regions)
}
