package main

import (
	"log/slog"
	"time"

	"chess-scene/internal/config"
	"chess-scene/internal/input"
	"chess-scene/internal/profiling"
	"chess-scene/internal/scene"
	"chess-scene/internal/shaders"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Loop drives poll, input, update, render and swap
type Loop struct {
	window       *glfw.Window
	scene        *scene.Chess
	inputManager *input.InputManager
	watcher      *shaders.Watcher
	mouse        input.MouseTracker
	fps          *profiling.FPSCounter
	limiter      *FPSLimiter
	windowCfg    config.Window
	windowed     windowRect

	start    time.Time
	lastTime time.Time
}

// NewLoop creates a loop for an initialized scene. watcher may be nil.
func NewLoop(window *glfw.Window, s *scene.Chess, im *input.InputManager, watcher *shaders.Watcher, wc config.Window) *Loop {
	now := time.Now()
	return &Loop{
		window:       window,
		scene:        s,
		inputManager: im,
		watcher:      watcher,
		fps:          profiling.NewFPSCounter(time.Second, now),
		limiter:      NewFPSLimiter(wc.FPSLimit),
		windowCfg:    wc,
		start:        now,
		lastTime:     now,
	}
}

// Run loops until the window closes
func (l *Loop) Run() {
	for !l.window.ShouldClose() {
		l.tick()
	}
}

func (l *Loop) tick() {
	profiling.ResetFrame()
	now := time.Now()
	dt := now.Sub(l.lastTime)
	l.lastTime = now

	func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()

	if l.inputManager.JustPressed(input.ActionQuit) {
		l.window.SetShouldClose(true)
	}
	if l.inputManager.JustPressed(input.ActionToggleFullscreen) {
		toggleFullscreen(l.window, &l.windowed, l.windowCfg)
	}
	l.scene.HandleInput(l.inputManager)
	l.pollShaderChanges()

	l.scene.Update(dt, float32(now.Sub(l.start).Seconds()))
	l.scene.Render()

	func() { defer profiling.Track("glfw.SwapBuffers")(); l.window.SwapBuffers() }()

	if r, ok := l.fps.Frame(time.Now()); ok {
		slog.Info("Frame stats",
			"frames", r.Frames,
			"fps", r.FPS,
			"ms", float64(r.FrameTime.Microseconds())/1000,
			"pipeline_ms", float64(profiling.SumWithPrefix("pipeline.").Microseconds())/1000,
			"top", r.TopEntries)
	}

	l.inputManager.PostUpdate() // Clear "JustPressed" flags
	l.limiter.Wait()
}

func (l *Loop) pollShaderChanges() {
	if l.watcher == nil {
		return
	}
	select {
	case name := <-l.watcher.Changed():
		slog.Info("Shader source changed", "path", name)
		if err := l.scene.ReloadShaders(); err != nil {
			slog.Error("Shader reload failed, keeping previous programs", "error", err)
		}
	default:
	}
}

// RefreshRender redraws during window resizes
func (l *Loop) RefreshRender() {
	l.scene.Render()
	l.window.SwapBuffers()
}

// LogAverage logs the average frame rate over the whole run
func (l *Loop) LogAverage() {
	fps, frameTime := l.fps.Average()
	slog.Info("Average", "fps", fps, "ms", float64(frameTime.Microseconds())/1000)
}
