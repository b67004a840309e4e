package board

import (
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	defaultDragDeadZone     = 4.0 // pixels
	defaultDoubleClickDelay = 400 * time.Millisecond
)

// pointerEventType is the kind of a synthesized pointer event.
type pointerEventType uint8

const (
	pointerDown pointerEventType = iota
	pointerMove
	pointerUp
	pointerClick
	pointerDoubleClick
)

type pointerEvent struct {
	typ  pointerEventType
	x, y float64
}

// pointerTracker turns polled mouse state into discrete events. A click is a
// press and release that never left the drag dead zone; a double-click is a
// second click close to the first within the delay.
type pointerTracker struct {
	deadZone float64
	delay    time.Duration

	down         bool
	dragging     bool
	startX       float64
	startY       float64
	lastX        float64
	lastY        float64
	lastClick    time.Time
	lastClickX   float64
	lastClickY   float64
	hasLastClick bool

	buf []pointerEvent
}

func newPointerTracker() *pointerTracker {
	return &pointerTracker{
		deadZone: defaultDragDeadZone,
		delay:    defaultDoubleClickDelay,
	}
}

// update consumes one poll of pointer state and returns the resulting
// events. The returned slice is reused by the next call.
func (p *pointerTracker) update(x, y float64, pressed bool, now time.Time) []pointerEvent {
	p.buf = p.buf[:0]

	switch {
	case pressed && !p.down:
		p.down = true
		p.dragging = false
		p.startX, p.startY = x, y
		p.lastX, p.lastY = x, y
		p.emit(pointerDown, x, y)

	case !pressed && p.down:
		if x != p.lastX || y != p.lastY {
			p.emit(pointerMove, x, y)
			p.trackDrag(x, y)
		}
		p.emit(pointerUp, x, y)
		if !p.dragging {
			p.emit(pointerClick, x, y)
			if p.hasLastClick && now.Sub(p.lastClick) <= p.delay &&
				dist(x, y, p.lastClickX, p.lastClickY) <= p.deadZone {
				p.emit(pointerDoubleClick, x, y)
				p.hasLastClick = false
			} else {
				p.lastClick = now
				p.lastClickX, p.lastClickY = x, y
				p.hasLastClick = true
			}
		}
		p.down = false
		p.dragging = false
		p.lastX, p.lastY = x, y

	default:
		if x != p.lastX || y != p.lastY {
			p.emit(pointerMove, x, y)
			if p.down {
				p.trackDrag(x, y)
			}
			p.lastX, p.lastY = x, y
		}
	}
	return p.buf
}

func (p *pointerTracker) trackDrag(x, y float64) {
	if !p.dragging && dist(x, y, p.startX, p.startY) > p.deadZone {
		p.dragging = true
	}
}

func (p *pointerTracker) emit(t pointerEventType, x, y float64) {
	p.buf = append(p.buf, pointerEvent{typ: t, x: x, y: y})
}

func dist(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// --- Keyboard ---

// editKey is an editing key delivered to the modal and the notes editor.
type editKey uint8

const (
	keyNone editKey = iota
	keyEnter
	keyEscape
	keyBackspace
	keyDelete
	keyLeft
	keyRight
	keyHome
	keyEnd
	keyNewline // Shift+Enter
	keyDeleteEntity
)

var editKeys = []struct {
	key ebiten.Key
	ek  editKey
}{
	{ebiten.KeyEnter, keyEnter},
	{ebiten.KeyNumpadEnter, keyEnter},
	{ebiten.KeyEscape, keyEscape},
	{ebiten.KeyBackspace, keyBackspace},
	{ebiten.KeyDelete, keyDelete},
	{ebiten.KeyArrowLeft, keyLeft},
	{ebiten.KeyArrowRight, keyRight},
	{ebiten.KeyHome, keyHome},
	{ebiten.KeyEnd, keyEnd},
}

// repeating reports whether a held key should fire this tick.
func repeating(key ebiten.Key) bool {
	const (
		delay    = 30
		interval = 3
	)
	d := inpututil.KeyPressDuration(key)
	if d == 1 {
		return true
	}
	return d >= delay && (d-delay)%interval == 0
}

func ctrlPressed() bool {
	return ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
}

func shiftPressed() bool {
	return ebiten.IsKeyPressed(ebiten.KeyShift)
}

// readEditKeys appends the editing keys that fire this tick.
func readEditKeys(buf []editKey) []editKey {
	for _, k := range editKeys {
		if !repeating(k.key) {
			continue
		}
		ek := k.ek
		switch {
		case ek == keyEnter && shiftPressed():
			ek = keyNewline
		case ek == keyDelete && ctrlPressed():
			ek = keyDeleteEntity
		}
		buf = append(buf, ek)
	}
	return buf
}
