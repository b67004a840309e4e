// Package board is the Ebitengine front end of a mindmap diagram: it draws
// the diagram, turns mouse and keyboard input into controller events, and
// provides the modal label prompt and the docked notes panel.
//
// A Script replays clicks, drags, commands and screenshots one step per
// tick, which is how the demo tour and visual checks drive the board.
package board

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/phanxgames/mindmap"
)

// statusTicks is how long a status message stays up (at 60 TPS).
const statusTicks = 5 * 60

// Config configures a Board.
type Config struct {
	Width, Height int // initial window size
	FontSize      float64
	SnapshotPath  string // export/import target; defaults to mind_map.json
	Background    mindmap.Color
	Flash         mindmap.FlashConfig
	Logger        *zap.Logger

	// StrictConnections only allows team-project connections.
	StrictConnections bool

	// Changes signals that SnapshotPath was modified on disk. Each receive
	// reloads the file unless its contents are what the board last wrote.
	Changes <-chan struct{}

	ScreenshotDir string // defaults to DefaultScreenshotDir
	ShowFPS       bool   // start with the FPS overlay on; F3 toggles it

	// Script, when set, is replayed from the first tick. Real mouse input
	// is ignored while scripted pointer samples are pending.
	Script *Script
}

// Board implements ebiten.Game for one diagram.
type Board struct {
	cfg     Config
	d       *mindmap.Diagram
	ctrl    *mindmap.Controller
	modal   *Modal
	panel   *NotesPanel
	font    *Font
	flasher *mindmap.Flasher
	tracker *pointerTracker
	batch   shapeBatch
	log     *zap.Logger

	screenW, screenH float64
	pressInPanel     bool
	pending          []*mindmap.PendingRegion

	status      string
	statusErr   bool
	statusTicks int

	dirty       bool
	lastWritten []byte

	keys  []editKey
	chars []rune
	cmds  []command

	inject  injector
	script  *scriptRunner
	shots   []string
	showFPS bool
}

// New creates a board editing d.
func New(d *mindmap.Diagram, cfg Config) (*Board, error) {
	if cfg.Width <= 0 {
		cfg.Width = int(mindmap.DefaultCanvasWidth)
	}
	if cfg.Height <= 0 {
		cfg.Height = int(mindmap.DefaultCanvasHeight)
	}
	if cfg.FontSize <= 0 {
		cfg.FontSize = DefaultFontSize
	}
	if cfg.SnapshotPath == "" {
		cfg.SnapshotPath = mindmap.DefaultSnapshotName
	}
	if cfg.Background == (mindmap.Color{}) {
		cfg.Background = mindmap.Color{R: 1, G: 1, B: 1, A: 1}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = DefaultScreenshotDir
	}

	font, err := DefaultFont(cfg.FontSize)
	if err != nil {
		return nil, err
	}

	b := &Board{
		cfg:     cfg,
		d:       d,
		modal:   NewModal(),
		font:    font,
		flasher: mindmap.NewFlasher(cfg.Flash),
		tracker: newPointerTracker(),
		log:     cfg.Logger,
		screenW: float64(cfg.Width),
		screenH: float64(cfg.Height),
		showFPS: cfg.ShowFPS,
	}
	if cfg.Script != nil {
		b.script = newScriptRunner(cfg.Script)
	}
	b.panel = newNotesPanel(d, b.flasher)
	b.ctrl = mindmap.NewController(d, mindmap.ControllerConfig{
		Prompter: b.modal,
		Panel:    b.panel,
		Measurer: font,
		Logger:   cfg.Logger.Named("controller"),
	})
	b.panel.bind(b.ctrl)

	d.SetPolicy(mindmap.ConnectionPolicy{AllowSameKind: !cfg.StrictConnections})
	d.SetLogger(cfg.Logger.Named("diagram"))
	d.SetEventSink(mindmap.EventSinkFunc(b.onChange))
	b.updateCanvasSize()
	return b, nil
}

// Diagram returns the edited diagram.
func (b *Board) Diagram() *mindmap.Diagram { return b.d }

// Controller returns the gesture controller.
func (b *Board) Controller() *mindmap.Controller { return b.ctrl }

// Dirty reports whether the diagram changed since the last export or import.
func (b *Board) Dirty() bool { return b.dirty }

func (b *Board) onChange(ev mindmap.ChangeEvent) {
	b.dirty = true
	b.panel.onChange(ev)
	switch ev.Type {
	case mindmap.ChangeNodeRemoved, mindmap.ChangeRegionRemoved:
		b.flasher.Stop(ev.Entity)
	}
}

func (b *Board) setStatus(msg string, isErr bool) {
	b.status = msg
	b.statusErr = isErr
	b.statusTicks = statusTicks
}

// canvasWidth is the drawable width left of the notes panel.
func (b *Board) canvasWidth() float64 {
	if b.panel.Visible() {
		return max(b.screenW-panelWidth, 2*mindmap.NodeRadius)
	}
	return b.screenW
}

func (b *Board) updateCanvasSize() {
	b.d.SetCanvasSize(b.canvasWidth(), max(b.screenH-statusHeight, 2*mindmap.NodeRadius))
}

// --- ebiten.Game ---

// Update processes one tick of input and animation.
func (b *Board) Update() error {
	dt := float32(1) / float32(ebiten.TPS())

	b.drainChanges()

	b.modal.layout(b.screenW, b.screenH)
	b.panel.layout(b.screenW, b.screenH-statusHeight, b.font.LineHeight())

	if b.script != nil {
		if err := b.script.step(&b.inject, b); errors.Is(err, errQuit) {
			b.log.Info("script finished")
			return ebiten.Termination
		}
	}

	b.handleKeyboard()
	s, ok := b.inject.pop()
	if !ok {
		x, y := ebiten.CursorPosition()
		s = pointerSample{x: float64(x), y: float64(y), pressed: ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)}
	}
	b.handlePointer(b.tracker.update(s.x, s.y, s.pressed, time.Now()))

	b.ctrl.Poll()
	b.collectPending()
	b.flasher.Update(dt)

	if b.statusTicks > 0 {
		b.statusTicks--
		if b.statusTicks == 0 {
			b.status = ""
		}
	}
	return nil
}

// Draw renders the board.
func (b *Board) Draw(screen *ebiten.Image) {
	screen.Fill(b.cfg.Background.NRGBA())
	b.drawDiagram(screen)
	b.panel.Draw(screen, b.font, &b.batch)
	b.drawStatus(screen)
	b.modal.Draw(screen, b.font, &b.batch)
	b.flushScreenshots(screen)
	if b.showFPS {
		b.drawFPS(screen)
	}
}

// Layout tracks the window size; the board draws at device-independent
// pixels.
func (b *Board) Layout(outsideWidth, outsideHeight int) (int, int) {
	b.screenW = float64(outsideWidth)
	b.screenH = float64(outsideHeight)
	b.updateCanvasSize()
	return outsideWidth, outsideHeight
}

// --- Input ---

func (b *Board) handleKeyboard() {
	b.chars = ebiten.AppendInputChars(b.chars[:0])
	b.keys = readEditKeys(b.keys[:0])

	if b.modal.Open() {
		b.modal.typeText(string(b.chars))
		for _, k := range b.keys {
			b.modal.key(k)
		}
		return
	}

	typing := b.panel.Focused()
	b.cmds = readCommands(b.cmds[:0], typing)
	for _, c := range b.cmds {
		b.run(c)
	}
	if typing && len(b.cmds) == 0 {
		b.panel.typeText(string(b.chars))
		for _, k := range b.keys {
			b.panel.key(k)
		}
	}
}

// typeText sends scripted text to the open prompt, else to the focused
// notes editor.
func (b *Board) typeText(s string) {
	switch {
	case b.modal.Open():
		b.modal.typeText(s)
	case b.panel.Focused():
		b.panel.typeText(s)
	}
}

func (b *Board) pressKey(k editKey) {
	switch {
	case b.modal.Open():
		b.modal.key(k)
	case b.panel.Focused():
		b.panel.key(k)
	}
}

func (b *Board) handlePointer(events []pointerEvent) {
	for _, ev := range events {
		if b.modal.Open() {
			if ev.typ == pointerClick {
				b.modal.click(ev.x, ev.y)
			}
			continue
		}
		if ev.typ == pointerDown {
			b.pressInPanel = b.panel.contains(ev.x, ev.y)
		}
		if b.pressInPanel {
			if ev.typ == pointerClick {
				b.panel.click(ev.x, ev.y)
			}
			continue
		}
		b.dispatch(ev)
	}
}

// dispatch forwards a canvas event to the controller.
func (b *Board) dispatch(ev pointerEvent) {
	switch ev.typ {
	case pointerDown:
		b.panel.blur()
		b.ctrl.PointerDown(ev.x, ev.y)
	case pointerMove:
		b.ctrl.PointerMove(ev.x, ev.y)
	case pointerUp:
		if p := b.ctrl.PointerUp(ev.x, ev.y); p != nil {
			b.pending = append(b.pending, p)
		}
	case pointerClick:
		b.ctrl.Click(ev.x, ev.y)
	case pointerDoubleClick:
		b.ctrl.DoubleClick(ev.x, ev.y)
	}
}

// collectPending flashes regions whose label prompt has been answered.
func (b *Board) collectPending() {
	kept := b.pending[:0]
	for _, p := range b.pending {
		select {
		case r := <-p.Done():
			if r != nil {
				b.flasher.Flash(r)
				b.setStatus(fmt.Sprintf("Region %q added", r.Label), false)
			}
		default:
			kept = append(kept, p)
		}
	}
	clear(b.pending[len(kept):])
	b.pending = kept
}

// run executes a bound command.
func (b *Board) run(c command) {
	switch c {
	case cmdAddTeam:
		b.flasher.Flash(b.d.AddNode(mindmap.KindTeam))
	case cmdAddProject:
		b.flasher.Flash(b.d.AddNode(mindmap.KindProject))
	case cmdConnect:
		if b.ctrl.StartConnecting() {
			b.setStatus("Click two nodes to connect them", false)
		}
	case cmdRegion:
		if b.ctrl.StartRegionCreation() {
			b.setStatus("Drag to draw a region", false)
		}
	case cmdExport:
		b.export()
	case cmdImport:
		b.importFile()
	case cmdClear:
		b.flasher.StopAll()
		b.ctrl.ClearDiagram()
		b.setStatus("Diagram cleared", false)
	case cmdFontUp:
		b.setFontSize(b.font.Size() + 2)
	case cmdFontDown:
		b.setFontSize(b.font.Size() - 2)
	case cmdTogglePanel:
		b.panel.toggle()
		b.updateCanvasSize()
	case cmdCycleFilter:
		b.panel.cycleFilter()
	case cmdCancel:
		b.ctrl.Cancel()
		b.panel.blur()
	case cmdScreenshot:
		b.Screenshot(strings.TrimSuffix(filepath.Base(b.cfg.SnapshotPath), filepath.Ext(b.cfg.SnapshotPath)))
	case cmdToggleFPS:
		b.showFPS = !b.showFPS
	}
}

func (b *Board) setFontSize(size float64) {
	b.font.SetSize(size)
	b.ctrl.SetMeasurer(b.font)
	b.setStatus(fmt.Sprintf("Font size %.0f", b.font.Size()), false)
}

// --- Persistence ---

func encodeDiagram(d *mindmap.Diagram) ([]byte, error) {
	var buf bytes.Buffer
	if err := mindmap.Encode(&buf, mindmap.Serialize(d)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// export writes the diagram to the snapshot path.
func (b *Board) export() {
	data, err := encodeDiagram(b.d)
	if err == nil {
		err = mindmap.WriteSnapshotBytes(b.cfg.SnapshotPath, data)
	}
	if err != nil {
		b.log.Error("export failed", zap.String("path", b.cfg.SnapshotPath), zap.Error(err))
		b.setStatus("Export failed: "+err.Error(), true)
		return
	}
	b.lastWritten = data
	b.dirty = false
	b.log.Info("exported", zap.String("path", b.cfg.SnapshotPath))
	b.setStatus("Saved "+b.cfg.SnapshotPath, false)
}

// importFile replaces the diagram with the snapshot file. On any error the
// diagram is left untouched.
func (b *Board) importFile() {
	data, err := os.ReadFile(b.cfg.SnapshotPath)
	if err != nil {
		b.importFailed(err)
		return
	}
	b.load(data)
}

func (b *Board) load(data []byte) {
	s, err := mindmap.DecodeBytes(data)
	if err != nil {
		b.importFailed(err)
		return
	}
	other, rep := mindmap.DeserializeReport(s)
	b.flasher.StopAll()
	b.ctrl.Reset()
	b.d.Replace(other)
	b.dirty = false
	msg := fmt.Sprintf("Loaded %d nodes, %d connections, %d regions", rep.Nodes, rep.Connections, rep.Regions)
	if rep.DroppedConnections > 0 {
		msg += fmt.Sprintf(" (%d dangling connections skipped)", rep.DroppedConnections)
	}
	b.setStatus(msg, false)
}

func (b *Board) importFailed(err error) {
	b.log.Error("import failed", zap.String("path", b.cfg.SnapshotPath), zap.Error(err))
	if errors.Is(err, os.ErrNotExist) {
		b.setStatus("No file at "+b.cfg.SnapshotPath, true)
		return
	}
	b.setStatus("Import failed: "+err.Error(), true)
}

// drainChanges reloads the snapshot when the file changed on disk.
func (b *Board) drainChanges() {
	if b.cfg.Changes == nil {
		return
	}
	changed := false
	for drained := false; !drained; {
		select {
		case _, ok := <-b.cfg.Changes:
			if !ok {
				b.cfg.Changes = nil
				drained = true
			} else {
				changed = true
			}
		default:
			drained = true
		}
	}
	if !changed {
		return
	}
	data, err := os.ReadFile(b.cfg.SnapshotPath)
	if err != nil {
		b.log.Warn("reload failed", zap.Error(err))
		return
	}
	if bytes.Equal(data, b.lastWritten) {
		return
	}
	b.log.Info("snapshot changed on disk, reloading", zap.String("path", b.cfg.SnapshotPath))
	b.load(data)
}

// --- Run ---

// RunConfig configures the window created by Run.
type RunConfig struct {
	Title string
}

// Run opens a window and runs the board until it is closed.
func Run(b *Board, cfg RunConfig) error {
	if cfg.Title == "" {
		cfg.Title = "Mind Map"
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(b.cfg.Width, b.cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(b)
}
