// Package mindmap is the model and interaction core of an interactive
// team/project diagramming canvas.
//
// A [Diagram] holds circular [Node] values of two kinds (team and project),
// [Connection] values linking nodes by identity, and labeled rectangular
// [Region] values. Nodes and regions both carry free-text notes.
//
// The package has no rendering dependency. The [Ebitengine] front end lives
// in the board subpackage and talks to the core through a few narrow
// interfaces: [Prompter] for label dialogs, [NotesPanel] for the docked
// notes view, and [LabelMeasurer] for font metrics.
//
// # Quick start
//
//	d := mindmap.NewDiagram()
//	team := d.AddNode(mindmap.KindTeam)
//	proj := d.AddNode(mindmap.KindProject)
//	d.AddConnection(team, proj)
//
//	if err := mindmap.ExportFile("mind_map.json", d); err != nil {
//		log.Fatal(err)
//	}
//
// # Gestures
//
// A [Controller] turns pointer events into model mutations. Feed it
// PointerDown, PointerMove, PointerUp, Click and DoubleClick in canvas
// coordinates, and call [Controller.Poll] once per frame so that prompt
// answers are applied on the same goroutine as every other mutation:
//
//	c := mindmap.NewController(d, mindmap.ControllerConfig{Prompter: modal})
//	c.StartRegionCreation()
//	c.PointerDown(10, 10)
//	c.PointerUp(200, 120) // opens the label prompt
//	// ... later, each frame:
//	c.Poll()
//
// Hit testing gives nodes priority over regions, and within a region the
// resize handle over the label over the body.
//
// # Notes
//
// [Notes] projects the diagram into a filtered [iter.Seq] of [NoteEntry]
// values. It holds no state and is simply ranged over again after a change.
//
// # Snapshots
//
// [Serialize] and [Deserialize] convert between a Diagram and the flat
// [Snapshot] document; [Encode] and [Decode] handle its JSON form, with
// structural validation via [validator].
//
// # Highlighting
//
// [Flasher] animates an entity's color toward a highlight and back using
// [gween] tweens, one flash per entity at a time.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [validator]: https://github.com/go-playground/validator
package mindmap
