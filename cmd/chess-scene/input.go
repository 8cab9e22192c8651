package main

import (
	"time"

	"chess-scene/internal/input"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func setupInputHandlers(window *glfw.Window, loop *Loop, im *input.InputManager) {
	// Cursor moves rotate the camera only while the look button is held
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		if dx, dy, dragging := loop.mouse.Move(xpos, ypos); dragging {
			loop.scene.Look(dx, dy)
		}
	})

	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		// Update InputManager state first
		im.HandleMouseButtonEvent(button, action)

		if !im.ButtonBound(button, input.ActionLook) {
			return
		}
		x, y := w.GetCursorPos()
		switch action {
		case glfw.Press:
			loop.mouse.Press(x, y, time.Now())
		case glfw.Release:
			if loop.mouse.Release(x, y, time.Now()) {
				loop.scene.FocusCenter()
			}
		}
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		im.HandleKeyEvent(key, action)
	})

	// Targets follow the framebuffer, which differs from the window size on HiDPI displays
	window.SetFramebufferSizeCallback(func(w *glfw.Window, fbWidth, fbHeight int) {
		loop.scene.Resize(fbWidth, fbHeight)
	})

	// Refresh callback (called during window resize to prevent visual glitches)
	window.SetRefreshCallback(func(w *glfw.Window) {
		loop.RefreshRender()
	})
}
