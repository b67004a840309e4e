package board

// pointerSample is one synthetic frame of pointer state. Coordinates are
// window pixels, the same space the real cursor reports.
type pointerSample struct {
	x, y    float64
	pressed bool
}

// injector queues synthetic pointer samples. While it holds samples the
// board reads one per tick instead of the real mouse.
type injector struct {
	queue []pointerSample
}

func (q *injector) press(x, y float64) {
	q.queue = append(q.queue, pointerSample{x: x, y: y, pressed: true})
}

// move is a sample with the button held, so it only matters between press
// and release.
func (q *injector) move(x, y float64) {
	q.queue = append(q.queue, pointerSample{x: x, y: y, pressed: true})
}

func (q *injector) release(x, y float64) {
	q.queue = append(q.queue, pointerSample{x: x, y: y})
}

// click queues a press and a release at the same point. Consumes two ticks.
func (q *injector) click(x, y float64) {
	q.press(x, y)
	q.release(x, y)
}

func (q *injector) doubleClick(x, y float64) {
	q.click(x, y)
	q.click(x, y)
}

// drag queues a press at from, frames-2 evenly spaced moves and a release
// at to. frames is clamped to at least 2.
func (q *injector) drag(fromX, fromY, toX, toY float64, frames int) {
	frames = max(frames, 2)
	q.press(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		q.move(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	q.release(toX, toY)
}

func (q *injector) pending() int { return len(q.queue) }

// pop removes the oldest sample.
func (q *injector) pop() (pointerSample, bool) {
	if len(q.queue) == 0 {
		return pointerSample{}, false
	}
	s := q.queue[0]
	copy(q.queue, q.queue[1:])
	q.queue = q.queue[:len(q.queue)-1]
	return s, true
}
