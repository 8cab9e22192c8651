package input

import (
	"slices"
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action represents a logical scene action, not a physical key
type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionBlendFactorDown
	ActionBlendFactorUp
	ActionHeadYawLeft
	ActionHeadYawRight
	ActionHeadPitchUp
	ActionHeadPitchDown
	ActionDumpDepthMaps
	ActionReloadShaders
	ActionQuit
	ActionLook
	ActionToggleFullscreen
	ActionCount // Sentinel value for array sizing
)

// actionState is the per-frame view of every action
type actionState struct {
	held         [ActionCount]bool
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool
}

// InputManager maps GLFW key and mouse button events to actions. Events arrive from GLFW
// callbacks; queries come from the frame loop.
type InputManager struct {
	mu      sync.RWMutex
	keys    map[glfw.Key][]Action
	buttons map[glfw.MouseButton][]Action
	state   actionState
}

// NewInputManager creates a manager with the scene's default bindings
func NewInputManager() *InputManager {
	im := &InputManager{
		keys:    make(map[glfw.Key][]Action),
		buttons: make(map[glfw.MouseButton][]Action),
	}

	for key, action := range map[glfw.Key]Action{
		glfw.KeyW:      ActionMoveForward,
		glfw.KeyS:      ActionMoveBackward,
		glfw.KeyA:      ActionMoveLeft,
		glfw.KeyD:      ActionMoveRight,
		glfw.Key1:      ActionBlendFactorDown,
		glfw.Key2:      ActionBlendFactorUp,
		glfw.KeyLeft:   ActionHeadYawLeft,
		glfw.KeyRight:  ActionHeadYawRight,
		glfw.KeyUp:     ActionHeadPitchUp,
		glfw.KeyDown:   ActionHeadPitchDown,
		glfw.KeyM:      ActionDumpDepthMaps,
		glfw.KeyR:      ActionReloadShaders,
		glfw.KeyF:      ActionToggleFullscreen,
		glfw.KeyEscape: ActionQuit,
	} {
		im.BindKey(key, action)
	}
	im.BindMouseButton(glfw.MouseButtonLeft, ActionLook)

	return im
}

func valid(a Action) bool {
	return a >= 0 && a < ActionCount
}

// BindKey adds a key binding. A key may drive several actions.
func (im *InputManager) BindKey(key glfw.Key, action Action) {
	if !valid(action) {
		return
	}
	im.mu.Lock()
	im.keys[key] = append(im.keys[key], action)
	im.mu.Unlock()
}

// BindMouseButton adds a mouse button binding
func (im *InputManager) BindMouseButton(button glfw.MouseButton, action Action) {
	if !valid(action) {
		return
	}
	im.mu.Lock()
	im.buttons[button] = append(im.buttons[button], action)
	im.mu.Unlock()
}

// ButtonBound reports whether button drives action
func (im *InputManager) ButtonBound(button glfw.MouseButton, action Action) bool {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return slices.Contains(im.buttons[button], action)
}

// HandleKeyEvent records a key event. Repeats count as held.
func (im *InputManager) HandleKeyEvent(key glfw.Key, action glfw.Action) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.apply(im.keys[key], action == glfw.Press || action == glfw.Repeat)
}

// HandleMouseButtonEvent records a mouse button event
func (im *InputManager) HandleMouseButtonEvent(button glfw.MouseButton, action glfw.Action) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.apply(im.buttons[button], action == glfw.Press)
}

// apply updates held state and latches edges. mu must be held.
func (im *InputManager) apply(actions []Action, pressed bool) {
	s := &im.state
	for _, a := range actions {
		switch {
		case pressed && !s.held[a]:
			s.justPressed[a] = true
		case !pressed && s.held[a]:
			s.justReleased[a] = true
		}
		s.held[a] = pressed
	}
}

// PostUpdate clears the edge flags. Call once at the end of every frame.
func (im *InputManager) PostUpdate() {
	im.mu.Lock()
	im.state.justPressed = [ActionCount]bool{}
	im.state.justReleased = [ActionCount]bool{}
	im.mu.Unlock()
}

func (im *InputManager) query(action Action, flags *[ActionCount]bool) bool {
	if !valid(action) {
		return false
	}
	im.mu.RLock()
	defer im.mu.RUnlock()
	return flags[action]
}

// IsActive reports whether the action is held
func (im *InputManager) IsActive(action Action) bool {
	return im.query(action, &im.state.held)
}

// JustPressed reports whether the action started this frame
func (im *InputManager) JustPressed(action Action) bool {
	return im.query(action, &im.state.justPressed)
}

// JustReleased reports whether the action ended this frame
func (im *InputManager) JustReleased(action Action) bool {
	return im.query(action, &im.state.justReleased)
}
