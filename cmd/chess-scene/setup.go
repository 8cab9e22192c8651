package main

import (
	"chess-scene/internal/config"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func setupWindow(w config.Window) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	var monitor *glfw.Monitor
	if w.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
	}
	window, err := glfw.CreateWindow(w.Width, w.Height, w.Title, monitor, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	// Initialize OpenGL bindings
	if err := gl.Init(); err != nil {
		window.Destroy()
		return nil, err
	}

	glfw.SwapInterval(0)
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)

	return window, nil
}

// windowRect is the windowed placement restored when leaving fullscreen
type windowRect struct {
	x, y, width, height int
}

// restoreRect falls back to the configured size when the window never was windowed
func (r windowRect) restoreRect(w config.Window) windowRect {
	if r.width <= 0 || r.height <= 0 {
		return windowRect{x: 64, y: 64, width: w.Width, height: w.Height}
	}
	return r
}

// toggleFullscreen switches between the primary monitor and the saved windowed placement
func toggleFullscreen(window *glfw.Window, saved *windowRect, w config.Window) {
	if window.GetMonitor() != nil {
		r := saved.restoreRect(w)
		window.SetMonitor(nil, r.x, r.y, r.width, r.height, 0)
		return
	}
	saved.x, saved.y = window.GetPos()
	saved.width, saved.height = window.GetSize()

	monitor := glfw.GetPrimaryMonitor()
	mode := monitor.GetVideoMode()
	window.SetMonitor(monitor, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
}
