package mindmap

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Highlightable is implemented by entities whose fill color can be flashed.
// The flasher only ever writes through SetColor and always finishes by
// writing CanonicalColor back.
type Highlightable interface {
	CurrentColor() Color
	SetColor(c Color)
	CanonicalColor() Color
}

// FlashConfig controls the highlight animation.
type FlashConfig struct {
	Color      Color          // peak color
	Cycles     int            // canonical -> peak -> canonical round trips
	HalfPeriod float32        // seconds per half cycle
	Ease       ease.TweenFunc // easing for each half cycle
}

// DefaultFlashConfig flashes gold three times over roughly a second.
var DefaultFlashConfig = FlashConfig{
	Color:      ColorHighlight,
	Cycles:     3,
	HalfPeriod: 0.15,
	Ease:       ease.InOutQuad,
}

type flash struct {
	tween *gween.Tween
	// half counts completed half cycles; even halves run toward the peak.
	half int
}

// Flasher runs at most one highlight flash per entity. Call Update(dt) once
// per frame from the goroutine that owns the diagram.
type Flasher struct {
	cfg     FlashConfig
	flashes map[Highlightable]*flash
}

// NewFlasher creates a Flasher. Zero fields of cfg fall back to
// DefaultFlashConfig.
func NewFlasher(cfg FlashConfig) *Flasher {
	if cfg.Cycles <= 0 {
		cfg.Cycles = DefaultFlashConfig.Cycles
	}
	if cfg.HalfPeriod <= 0 {
		cfg.HalfPeriod = DefaultFlashConfig.HalfPeriod
	}
	if cfg.Ease == nil {
		cfg.Ease = DefaultFlashConfig.Ease
	}
	if cfg.Color == (Color{}) {
		cfg.Color = DefaultFlashConfig.Color
	}
	return &Flasher{cfg: cfg, flashes: make(map[Highlightable]*flash)}
}

// Config returns the effective configuration.
func (f *Flasher) Config() FlashConfig { return f.cfg }

// Flash starts a highlight on h. A flash already running on h is superseded:
// the color is reset to canonical and the sequence restarts.
func (f *Flasher) Flash(h Highlightable) {
	h.SetColor(h.CanonicalColor())
	f.flashes[h] = &flash{tween: gween.New(0, 1, f.cfg.HalfPeriod, f.cfg.Ease)}
}

// Active reports whether h is currently flashing.
func (f *Flasher) Active(h Highlightable) bool {
	_, ok := f.flashes[h]
	return ok
}

// Len returns the number of running flashes.
func (f *Flasher) Len() int { return len(f.flashes) }

// Stop ends the flash on h and restores its canonical color.
func (f *Flasher) Stop(h Highlightable) {
	if _, ok := f.flashes[h]; !ok {
		return
	}
	delete(f.flashes, h)
	h.SetColor(h.CanonicalColor())
}

// StopAll ends every flash and restores canonical colors.
func (f *Flasher) StopAll() {
	for h := range f.flashes {
		h.SetColor(h.CanonicalColor())
	}
	clear(f.flashes)
}

// Update advances every flash by dt seconds.
func (f *Flasher) Update(dt float32) {
	for h, fl := range f.flashes {
		t, finished := fl.tween.Update(dt)
		base := h.CanonicalColor()
		h.SetColor(base.Lerp(f.cfg.Color, float64(t)))
		if !finished {
			continue
		}
		fl.half++
		if fl.half >= 2*f.cfg.Cycles {
			delete(f.flashes, h)
			h.SetColor(base)
			continue
		}
		if fl.half%2 == 0 {
			fl.tween = gween.New(0, 1, f.cfg.HalfPeriod, f.cfg.Ease)
		} else {
			fl.tween = gween.New(1, 0, f.cfg.HalfPeriod, f.cfg.Ease)
		}
	}
}
