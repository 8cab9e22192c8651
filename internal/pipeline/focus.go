package pipeline

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// SkyFocus is the focus plane used when the clicked pixel has no geometry (zero depth)
const SkyFocus = 1.1920929e-07

// InitialFocus is the plane in focus before the first click
const InitialFocus = -1

// PlaneFromDepth converts a view-space depth read from the position map to a focus plane
func PlaneFromDepth(z float32) float32 {
	if z == 0 {
		return SkyFocus
	}
	return z
}

// Focus holds the CoC plane in focus and eases it towards new targets
type Focus struct {
	plane    float32
	target   float32
	duration time.Duration
	tween    *gween.Tween
}

// NewFocus starts at plane. A zero duration makes changes immediate.
func NewFocus(plane float32, duration time.Duration) *Focus {
	return &Focus{plane: plane, target: plane, duration: duration}
}

// Plane returns the current plane in focus
func (f *Focus) Plane() float32 {
	return f.plane
}

// Target returns the plane the focus is moving towards
func (f *Focus) Target() float32 {
	return f.target
}

// FocusOn starts moving the focus to the plane for view-space depth z
func (f *Focus) FocusOn(z float32) {
	f.target = PlaneFromDepth(z)
	if f.duration <= 0 {
		f.plane = f.target
		f.tween = nil
		return
	}
	f.tween = gween.New(f.plane, f.target, float32(f.duration.Seconds()), ease.OutCubic)
}

// Update advances the focus pull by dt
func (f *Focus) Update(dt time.Duration) {
	if f.tween == nil {
		return
	}
	cur, finished := f.tween.Update(float32(dt.Seconds()))
	f.plane = cur
	if finished {
		f.plane = f.target
		f.tween = nil
	}
}

// Moving reports whether a focus pull is in progress
func (f *Focus) Moving() bool {
	return f.tween != nil
}
