package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/phanxgames/mindmap/board"
	"github.com/phanxgames/mindmap/internal/watch"
)

func openCmd(a *app) *cobra.Command {
	var (
		noWatch    bool
		showFPS    bool
		scriptPath string
	)

	cmd := &cobra.Command{
		Use:   "open [file]",
		Short: "Open the board on a snapshot file",
		Long: "Open the board window. Export (Ctrl+S) and import (Ctrl+O) use the\n" +
			"given file, which does not need to exist yet.\n\n" +
			"--script replays a JSON list of clicks, drags, commands and screenshots,\n" +
			"one step per frame. A final {\"action\":\"quit\"} step closes the window.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.snapshotPath(args)
			d, _, err := a.loadDiagram(path)
			if err != nil {
				return err
			}
			d.SetCanvasSize(float64(a.cfg.Canvas.Width), float64(a.cfg.Canvas.Height))

			bcfg := board.Config{
				Width:             a.cfg.Canvas.Width,
				Height:            a.cfg.Canvas.Height,
				FontSize:          a.cfg.Canvas.FontSize,
				SnapshotPath:      path,
				Background:        a.cfg.BackgroundColor(),
				Flash:             a.cfg.FlashSettings(),
				Logger:            a.log,
				StrictConnections: !a.cfg.Diagram.AllowSameKindConnections,
				ScreenshotDir:     a.cfg.Canvas.ScreenshotDir,
				ShowFPS:           showFPS,
			}
			if scriptPath != "" {
				s, err := board.LoadScript(scriptPath)
				if err != nil {
					return err
				}
				a.log.Info("replaying script", zap.String("path", scriptPath), zap.Int("steps", len(s.Steps)))
				bcfg.Script = s
			}
			if a.cfg.Snapshot.Watch && !noWatch {
				w, err := watch.New(path, a.log.Named("watch"))
				if err != nil {
					a.log.Warn("not watching snapshot", zap.Error(err))
				} else {
					defer w.Close()
					bcfg.Changes = w.Events()
				}
			}

			b, err := board.New(d, bcfg)
			if err != nil {
				return err
			}
			return board.Run(b, board.RunConfig{Title: "Mind Map - " + filepath.Base(path)})
		},
	}
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload when the file changes on disk")
	cmd.Flags().BoolVar(&showFPS, "fps", false, "Show the frame-rate overlay (F3 toggles it)")
	cmd.Flags().StringVar(&scriptPath, "script", "", "Replay a JSON input script")
	return cmd
}
