package input

import (
	"testing"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
)

func TestKeyEdgesAndRepeats(t *testing.T) {
	im := NewInputManager()

	im.HandleKeyEvent(glfw.Key2, glfw.Press)
	assert.True(t, im.JustPressed(ActionBlendFactorUp))
	assert.True(t, im.IsActive(ActionBlendFactorUp))
	im.PostUpdate()

	assert.False(t, im.JustPressed(ActionBlendFactorUp))
	assert.True(t, im.IsActive(ActionBlendFactorUp))

	im.HandleKeyEvent(glfw.Key2, glfw.Repeat)
	assert.False(t, im.JustPressed(ActionBlendFactorUp))
	assert.True(t, im.IsActive(ActionBlendFactorUp))
	im.PostUpdate()

	im.HandleKeyEvent(glfw.Key2, glfw.Release)
	assert.True(t, im.JustReleased(ActionBlendFactorUp))
	assert.False(t, im.IsActive(ActionBlendFactorUp))
}

func TestUnboundKeyIgnored(t *testing.T) {
	im := NewInputManager()
	im.HandleKeyEvent(glfw.KeyF12, glfw.Press)
	for a := Action(0); a < ActionCount; a++ {
		assert.False(t, im.IsActive(a), "action %d", a)
	}
	assert.False(t, im.IsActive(ActionCount))
	assert.False(t, im.JustPressed(-1))
}

func TestExtraBinding(t *testing.T) {
	im := NewInputManager()
	im.BindKey(glfw.KeyUp, ActionMoveForward)
	im.BindKey(glfw.KeyUp, ActionCount)

	im.HandleKeyEvent(glfw.KeyUp, glfw.Press)
	assert.True(t, im.IsActive(ActionMoveForward))
	assert.True(t, im.IsActive(ActionHeadPitchUp))
}

func TestMouseButtonBinding(t *testing.T) {
	im := NewInputManager()
	im.HandleMouseButtonEvent(glfw.MouseButtonLeft, glfw.Press)
	assert.True(t, im.JustPressed(ActionLook))
	im.PostUpdate()
	im.HandleMouseButtonEvent(glfw.MouseButtonLeft, glfw.Release)
	assert.True(t, im.JustReleased(ActionLook))
}

func TestLookFollowsButtonBinding(t *testing.T) {
	im := NewInputManager()
	assert.True(t, im.ButtonBound(glfw.MouseButtonLeft, ActionLook))
	assert.False(t, im.ButtonBound(glfw.MouseButtonRight, ActionLook))

	im.BindMouseButton(glfw.MouseButtonRight, ActionLook)
	assert.True(t, im.ButtonBound(glfw.MouseButtonRight, ActionLook))
	assert.False(t, im.ButtonBound(glfw.MouseButtonRight, ActionQuit))
}

func TestFullscreenToggleKey(t *testing.T) {
	im := NewInputManager()
	im.HandleKeyEvent(glfw.KeyF, glfw.Press)
	assert.True(t, im.JustPressed(ActionToggleFullscreen))
	im.PostUpdate()
	im.HandleKeyEvent(glfw.KeyF, glfw.Repeat)
	assert.False(t, im.JustPressed(ActionToggleFullscreen))
}

func TestMouseTrackerClick(t *testing.T) {
	var mt MouseTracker
	now := time.Now()

	mt.Press(100, 100, now)
	mt.Move(101, 100)
	assert.True(t, mt.Release(101, 101, now.Add(100*time.Millisecond)))
	assert.False(t, mt.Pressed())
}

func TestMouseTrackerDrag(t *testing.T) {
	var mt MouseTracker
	now := time.Now()

	_, _, dragging := mt.Move(10, 10)
	assert.False(t, dragging)

	mt.Press(10, 10, now)
	dx, dy, dragging := mt.Move(30, 5)
	assert.True(t, dragging)
	assert.Equal(t, 20.0, dx)
	assert.Equal(t, -5.0, dy)
	assert.False(t, mt.Release(30, 5, now.Add(50*time.Millisecond)))

	_, _, dragging = mt.Move(40, 5)
	assert.False(t, dragging)
}

func TestMouseTrackerLongPressIsNotClick(t *testing.T) {
	var mt MouseTracker
	now := time.Now()
	mt.Press(0, 0, now)
	assert.False(t, mt.Release(0, 0, now.Add(time.Second)))
	assert.False(t, mt.Release(0, 0, now.Add(time.Second)))
}
