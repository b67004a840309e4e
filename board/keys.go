package board

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// command is a board action bound to a key.
type command uint8

const (
	cmdNone command = iota
	cmdAddTeam
	cmdAddProject
	cmdConnect
	cmdRegion
	cmdExport
	cmdImport
	cmdClear
	cmdFontUp
	cmdFontDown
	cmdTogglePanel
	cmdCycleFilter
	cmdCancel
	cmdScreenshot
	cmdToggleFPS
)

type binding struct {
	key  ebiten.Key
	ctrl bool
	cmd  command
}

var keymap = []binding{
	{ebiten.KeyT, false, cmdAddTeam},
	{ebiten.KeyP, false, cmdAddProject},
	{ebiten.KeyC, false, cmdConnect},
	{ebiten.KeyR, false, cmdRegion},
	{ebiten.KeyS, true, cmdExport},
	{ebiten.KeyO, true, cmdImport},
	{ebiten.KeyN, true, cmdClear},
	{ebiten.KeyEqual, false, cmdFontUp},
	{ebiten.KeyNumpadAdd, false, cmdFontUp},
	{ebiten.KeyMinus, false, cmdFontDown},
	{ebiten.KeyNumpadSubtract, false, cmdFontDown},
	{ebiten.KeyN, false, cmdTogglePanel},
	{ebiten.KeyF, false, cmdCycleFilter},
	{ebiten.KeyEscape, false, cmdCancel},
	{ebiten.KeyP, true, cmdScreenshot},
	{ebiten.KeyF3, false, cmdToggleFPS},
}

// commandByName names the commands a script can run.
var commandByName = map[string]command{
	"team":       cmdAddTeam,
	"project":    cmdAddProject,
	"connect":    cmdConnect,
	"region":     cmdRegion,
	"export":     cmdExport,
	"import":     cmdImport,
	"clear":      cmdClear,
	"font+":      cmdFontUp,
	"font-":      cmdFontDown,
	"panel":      cmdTogglePanel,
	"filter":     cmdCycleFilter,
	"cancel":     cmdCancel,
	"screenshot": cmdScreenshot,
	"fps":        cmdToggleFPS,
}

var editKeyByName = map[string]editKey{
	"enter":         keyEnter,
	"escape":        keyEscape,
	"backspace":     keyBackspace,
	"delete":        keyDelete,
	"left":          keyLeft,
	"right":         keyRight,
	"home":          keyHome,
	"end":           keyEnd,
	"newline":       keyNewline,
	"delete-entity": keyDeleteEntity,
}

// readCommands appends the commands whose keys were pressed this tick.
// When onlyCtrl is set, plain-key bindings are skipped so typing into an
// editor does not trigger them.
func readCommands(buf []command, onlyCtrl bool) []command {
	ctrl := ctrlPressed()
	for _, b := range keymap {
		if b.ctrl != ctrl || (onlyCtrl && !b.ctrl) {
			continue
		}
		if inpututil.IsKeyJustPressed(b.key) {
			buf = append(buf, b.cmd)
		}
	}
	return buf
}

// helpText is shown in the status bar when nothing else is.
const helpText = "T team  P project  C connect  R region  N notes  F filter  Ctrl+S export  Ctrl+O import  Ctrl+N clear  Ctrl+P screenshot  +/- font"
