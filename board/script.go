package board

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// ScriptStep is one action of a Script. Pointer coordinates are window
// pixels.
//
//	click, doubleclick   X, Y
//	drag                 FromX, FromY, ToX, ToY, Frames (default 2)
//	wait                 Frames
//	command              Name: team, project, connect, region, export,
//	                     import, clear, font+, font-, panel, filter,
//	                     cancel, screenshot, fps
//	key                  Name: enter, escape, backspace, delete, left,
//	                     right, home, end, newline, delete-entity
//	type                 Text, delivered to the open prompt or notes editor
//	screenshot           Label
//	quit                 stops the board
type ScriptStep struct {
	Action string  `json:"action" validate:"oneof=click doubleclick drag wait command key type screenshot quit"`
	Name   string  `json:"name,omitempty"`
	Text   string  `json:"text,omitempty"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty" validate:"gte=0"`
}

// Script is a sequence of input steps replayed one per tick, for demos and
// visual checks of the board.
type Script struct {
	Steps []ScriptStep `json:"steps" validate:"min=1,dive"`
}

var validateScript = validator.New()

// ParseScript decodes and checks a JSON script.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if err := validateScript.Struct(s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	for i, st := range s.Steps {
		var ok bool
		switch st.Action {
		case "command":
			_, ok = commandByName[st.Name]
		case "key":
			_, ok = editKeyByName[st.Name]
		default:
			ok = true
		}
		if !ok {
			return nil, fmt.Errorf("parse script: step %d: unknown %s %q", i+1, st.Action, st.Name)
		}
	}
	return &s, nil
}

// LoadScript reads a script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// errQuit is returned by scriptRunner.step once a quit step ran.
var errQuit = errors.New("script quit")

// scriptTarget receives the non-pointer actions of a script.
type scriptTarget interface {
	Screenshot(label string)
	run(c command)
	typeText(s string)
	pressKey(k editKey)
}

// scriptRunner advances a Script by at most one step per tick. Pointer
// steps go to the injector and the runner waits for them to drain before
// moving on.
type scriptRunner struct {
	steps  []ScriptStep
	cursor int
	wait   int
	done   bool
}

func newScriptRunner(s *Script) *scriptRunner {
	return &scriptRunner{steps: s.Steps}
}

// Done reports whether every step has run.
func (r *scriptRunner) Done() bool { return r.done }

func (r *scriptRunner) step(q *injector, t scriptTarget) error {
	if r.done || q.pending() > 0 {
		return nil
	}
	if r.wait > 0 {
		r.wait--
		return nil
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return nil
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "click":
		q.click(st.X, st.Y)
	case "doubleclick":
		q.doubleClick(st.X, st.Y)
	case "drag":
		q.drag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.wait = st.Frames - 1
		}
	case "command":
		t.run(commandByName[st.Name])
	case "key":
		t.pressKey(editKeyByName[st.Name])
	case "type":
		t.typeText(st.Text)
	case "screenshot":
		t.Screenshot(st.Label)
	case "quit":
		r.done = true
		return errQuit
	}

	if r.cursor >= len(r.steps) && r.wait == 0 && q.pending() == 0 {
		r.done = true
	}
	return nil
}
