package input

import "time"

// Click thresholds: a press followed by a release within ClickMaxDuration that moved less
// than ClickMaxDistance pixels is a click, anything else is a drag.
const (
	ClickMaxDuration = 300 * time.Millisecond
	ClickMaxDistance = 4.0
)

// MouseTracker turns raw cursor and left-button events into drag deltas and clicks
type MouseTracker struct {
	pressed    bool
	pressAt    time.Time
	pressX     float64
	pressY     float64
	lastX      float64
	lastY      float64
	travelled  float64
	hasLastPos bool
}

// Press records a button press at the cursor position
func (t *MouseTracker) Press(x, y float64, now time.Time) {
	t.pressed = true
	t.pressAt = now
	t.pressX, t.pressY = x, y
	t.lastX, t.lastY = x, y
	t.hasLastPos = true
	t.travelled = 0
}

// Move records a cursor move. While the button is held it returns the delta since the
// previous position and true.
func (t *MouseTracker) Move(x, y float64) (dx, dy float64, dragging bool) {
	if !t.hasLastPos {
		t.lastX, t.lastY = x, y
		t.hasLastPos = true
		return 0, 0, false
	}
	dx, dy = x-t.lastX, y-t.lastY
	t.lastX, t.lastY = x, y
	if !t.pressed {
		return 0, 0, false
	}
	t.travelled += abs(dx) + abs(dy)
	return dx, dy, true
}

// Release records a button release and reports whether the press/release pair was a click
func (t *MouseTracker) Release(x, y float64, now time.Time) bool {
	if !t.pressed {
		return false
	}
	t.pressed = false
	if now.Sub(t.pressAt) > ClickMaxDuration {
		return false
	}
	moved := t.travelled + abs(x-t.lastX) + abs(y-t.lastY)
	return moved < ClickMaxDistance
}

// Pressed reports whether the button is held
func (t *MouseTracker) Pressed() bool { return t.pressed }

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
