package board

import (
	"slices"
	"testing"
	"time"
)

func eventTypes(evs []pointerEvent) []pointerEventType {
	out := make([]pointerEventType, len(evs))
	for i, e := range evs {
		out[i] = e.typ
	}
	return out
}

func TestTrackerClick(t *testing.T) {
	p := newPointerTracker()
	now := time.Unix(0, 0)

	if got := eventTypes(p.update(10, 10, true, now)); !slices.Equal(got, []pointerEventType{pointerDown}) {
		t.Fatalf("press = %v", got)
	}
	// Jitter inside the dead zone still counts as a click.
	p.update(12, 11, true, now)
	got := eventTypes(p.update(12, 11, false, now))
	if !slices.Equal(got, []pointerEventType{pointerUp, pointerClick}) {
		t.Errorf("release = %v, want up+click", got)
	}
}

func TestTrackerDragSuppressesClick(t *testing.T) {
	p := newPointerTracker()
	now := time.Unix(0, 0)

	p.update(10, 10, true, now)
	if got := eventTypes(p.update(30, 10, true, now)); !slices.Equal(got, []pointerEventType{pointerMove}) {
		t.Errorf("drag = %v, want move", got)
	}
	got := eventTypes(p.update(30, 10, false, now))
	if !slices.Equal(got, []pointerEventType{pointerUp}) {
		t.Errorf("release after drag = %v, want up only", got)
	}
}

func TestTrackerDragReturningToStartIsNotClick(t *testing.T) {
	p := newPointerTracker()
	now := time.Unix(0, 0)

	p.update(10, 10, true, now)
	p.update(40, 10, true, now)
	p.update(10, 10, true, now)
	if got := eventTypes(p.update(10, 10, false, now)); slices.Contains(got, pointerClick) {
		t.Errorf("release = %v, should not click after leaving the dead zone", got)
	}
}

func TestTrackerDoubleClick(t *testing.T) {
	p := newPointerTracker()
	t0 := time.Unix(0, 0)

	p.update(50, 50, true, t0)
	p.update(50, 50, false, t0)
	p.update(51, 50, true, t0.Add(150*time.Millisecond))
	got := eventTypes(p.update(51, 50, false, t0.Add(200*time.Millisecond)))
	want := []pointerEventType{pointerUp, pointerClick, pointerDoubleClick}
	if !slices.Equal(got, want) {
		t.Errorf("second release = %v, want %v", got, want)
	}

	// A third click starts a new pair rather than firing again.
	p.update(51, 50, true, t0.Add(300*time.Millisecond))
	got = eventTypes(p.update(51, 50, false, t0.Add(320*time.Millisecond)))
	if slices.Contains(got, pointerDoubleClick) {
		t.Errorf("third release = %v, should not double-click", got)
	}
}

func TestTrackerSlowOrDistantClicks(t *testing.T) {
	tests := []struct {
		name string
		gap  time.Duration
		x2   float64
	}{
		{"too slow", 500 * time.Millisecond, 50},
		{"too far", 100 * time.Millisecond, 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPointerTracker()
			t0 := time.Unix(0, 0)
			p.update(50, 50, true, t0)
			p.update(50, 50, false, t0)
			p.update(tt.x2, 50, true, t0.Add(tt.gap))
			got := eventTypes(p.update(tt.x2, 50, false, t0.Add(tt.gap)))
			if slices.Contains(got, pointerDoubleClick) {
				t.Errorf("events = %v, want no double-click", got)
			}
		})
	}
}

func TestTrackerHoverMove(t *testing.T) {
	p := newPointerTracker()
	now := time.Unix(0, 0)

	if got := p.update(5, 5, false, now); len(got) != 1 || got[0].typ != pointerMove {
		t.Errorf("hover = %v, want one move", got)
	}
	if got := p.update(5, 5, false, now); len(got) != 0 {
		t.Errorf("still pointer = %v, want none", got)
	}
}
