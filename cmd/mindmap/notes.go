package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/phanxgames/mindmap"
	"github.com/phanxgames/mindmap/internal/ui"
)

// outputFormat is the --format flag value.
type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
	formatYAML  outputFormat = "yaml"
)

var _ pflag.Value = (*outputFormat)(nil)

func (f *outputFormat) String() string { return string(*f) }

func (f *outputFormat) Set(s string) error {
	switch v := outputFormat(strings.ToLower(s)); v {
	case formatTable, formatJSON, formatYAML:
		*f = v
		return nil
	}
	return fmt.Errorf("must be one of table, json, yaml")
}

func (f *outputFormat) Type() string { return "format" }

// noteFilterValue adapts mindmap.NoteFilter to a flag.
type noteFilterValue struct {
	f mindmap.NoteFilter
}

func (v *noteFilterValue) String() string { return v.f.String() }

func (v *noteFilterValue) Set(s string) error {
	f, err := mindmap.ParseNoteFilter(s)
	if err != nil {
		return err
	}
	v.f = f
	return nil
}

func (v *noteFilterValue) Type() string { return "filter" }

// noteRecord is one notes index row in json and yaml output.
type noteRecord struct {
	Kind  string   `json:"kind" yaml:"kind"`
	Label string   `json:"label" yaml:"label"`
	Notes string   `json:"notes" yaml:"notes"`
	Links []string `json:"links,omitempty" yaml:"links,omitempty"`
}

func notesCmd(a *app) *cobra.Command {
	format := formatTable
	filter := &noteFilterValue{}

	cmd := &cobra.Command{
		Use:   "notes [file]",
		Short: "List the notes in a snapshot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.snapshotPath(args)
			snap, err := mindmap.ReadSnapshotFile(path)
			if err != nil {
				return err
			}
			d := mindmap.Deserialize(snap)

			var records []noteRecord
			for e := range mindmap.Notes(d, filter.f) {
				records = append(records, noteRecord{
					Kind:  e.Kind.String(),
					Label: e.Label,
					Notes: e.Notes,
					Links: mindmap.LinkPattern.FindAllString(e.Notes, -1),
				})
			}
			return writeNotes(cmd.OutOrStdout(), format, records)
		},
	}
	cmd.Flags().Var(&format, "format", "Output format: table, json, yaml")
	cmd.Flags().Var(filter, "filter", "Only one kind: all, team, project, region")
	return cmd
}

func writeNotes(w io.Writer, format outputFormat, records []noteRecord) error {
	switch format {
	case formatJSON:
		if records == nil {
			records = []noteRecord{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)

	case formatYAML:
		if records == nil {
			records = []noteRecord{}
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	}

	if len(records) == 0 {
		fmt.Fprintln(w, ui.Subtle.Sprint("  No notes"))
		return nil
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Kind,
			firstLine(r.Label),
			ui.Segments(mindmap.SplitLinks(firstLine(r.Notes))),
		})
	}
	ui.Table(w, []string{"Kind", "Label", "Notes"}, rows)
	return nil
}

func firstLine(s string) string {
	line, rest, found := strings.Cut(s, "\n")
	if found && strings.TrimSpace(rest) != "" {
		return line + " …"
	}
	return line
}
