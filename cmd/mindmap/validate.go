package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phanxgames/mindmap"
	"github.com/phanxgames/mindmap/internal/ui"
)

func validateCmd(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a snapshot file can be imported",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			path := args[0]

			snap, err := mindmap.ReadSnapshotFile(path)
			if err != nil {
				fmt.Fprintf(out, "%s %v\n", ui.StatusIcon(false), err)
				return err
			}
			_, rep := mindmap.DeserializeReport(snap)
			fmt.Fprintf(out, "%s %s: %s\n", ui.StatusIcon(true), path, countLine(rep))

			if rep.DroppedConnections > 0 {
				fmt.Fprintln(out, ui.Warn.Sprintf("  %d connection(s) reference missing nodes and will be skipped", rep.DroppedConnections))
			}
			if rep.GeneratedIDs > 0 {
				fmt.Fprintln(out, ui.Subtle.Sprintf("  %d node(s) have no id; new ids are assigned on import", rep.GeneratedIDs))
			}
			violations := sameKindConnections(snap)
			if violations > 0 && !a.cfg.Diagram.AllowSameKindConnections {
				fmt.Fprintln(out, ui.Warn.Sprintf("  %d same-kind connection(s) would be refused when drawn", violations))
			}

			if strict && rep.DroppedConnections > 0 {
				return fmt.Errorf("%w: %d dangling connection(s)", mindmap.ErrInvalidSnapshot, rep.DroppedConnections)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when connections reference missing nodes")
	return cmd
}

// sameKindConnections counts resolvable connections between nodes of the
// same kind.
func sameKindConnections(s mindmap.Snapshot) int {
	kinds := make(map[string]string, len(s.Nodes))
	for _, n := range s.Nodes {
		if _, dup := kinds[n.ID]; !dup && n.ID != "" {
			kinds[n.ID] = n.Type
		}
	}
	count := 0
	for _, c := range s.Connections {
		from, ok1 := kinds[c.From]
		to, ok2 := kinds[c.To]
		if ok1 && ok2 && from == to {
			count++
		}
	}
	return count
}
