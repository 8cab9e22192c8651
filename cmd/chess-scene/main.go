package main

import (
	"context"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"runtime"

	"chess-scene/internal/config"
	"chess-scene/internal/graphics"
	"chess-scene/internal/input"
	"chess-scene/internal/scene"
	"chess-scene/internal/shaders"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "TOML settings file, defaults are used when empty")
	assets := flag.String("assets", "", "assets root, overrides the settings file")
	shaderDir := flag.String("shaders", "", "directory of shader sources overriding the embedded ones")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	defer closer.Close()

	settings := config.Default()
	if *configPath != "" {
		var err error
		if settings, err = config.Load(*configPath); err != nil {
			slog.Error("Failed to load settings", "path", *configPath, "error", err)
			closer.Exit(1)
		}
	}
	if *assets != "" {
		settings.Assets.Root = *assets
	}
	if *shaderDir != "" {
		settings.Assets.ShaderDir = *shaderDir
	}
	config.Set(settings)

	if err := run(); err != nil {
		slog.Error("Scene failed", "error", err)
		closer.Exit(1)
	}
}

func run() error {
	s := config.Get()
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	window, err := setupWindow(s.Window)
	if err != nil {
		return err
	}
	defer window.Destroy()

	vendor, renderer := graphics.Vendor()
	slog.Info("OpenGL context", "vendor", vendor, "renderer", renderer, "version", gl.GoStr(gl.GetString(gl.VERSION)))
	graphics.EnableDefaults()

	var shaderFS fs.FS = shaders.Embedded()
	var watcher *shaders.Watcher
	if dir := s.Assets.ShaderDir; dir != "" {
		shaderFS = shaders.Overlay(dir)
		if s.Assets.WatchShaders {
			if watcher, err = shaders.NewWatcher(dir); err != nil {
				return err
			}
			closer.Bind(func() { watcher.Close() })
		}
	}

	fbWidth, fbHeight := window.GetFramebufferSize()
	chess := scene.NewChess(shaderFS, fbWidth, fbHeight)
	if err := chess.Init(); err != nil {
		return err
	}
	defer chess.Dispose()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	chess.StartMover(ctx)
	closer.Bind(cancel)

	im := input.NewInputManager()
	loop := NewLoop(window, chess, im, watcher, s.Window)
	setupInputHandlers(window, loop, im)
	loop.Run()
	loop.LogAverage()
	return nil
}
