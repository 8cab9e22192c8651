// Package scene assembles the chess demo: models, lamps, camera and the render pipeline
package scene

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"chess-scene/internal/capture"
	"chess-scene/internal/config"
	"chess-scene/internal/graphics"
	"chess-scene/internal/input"
	"chess-scene/internal/lighting"
	"chess-scene/internal/model"
	"chess-scene/internal/pipeline"
	"chess-scene/internal/profiling"
	"chess-scene/internal/shaders"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Asset locations relative to the assets root
const (
	ChessModel     = "models/chess/chess.glb"
	ManModel       = "models/man/man.glb"
	AstroboyModel  = "models/astroboy/astroboy_walk.glb"
	LampModel      = "models/japanese_lamp/japanese_lamp.glb"
	SkyboxDir      = "textures/skybox"
	SkyboxExt      = ".png"
	ManHeadBone    = "Head"
	DirDepthFile   = "dir_depth.bmp"
	PointDepthFile = "point_depth.bmp"
)

// Placement of the first lamp of each kind; further lamps are spread around the Y axis
var (
	PointLampPos   = mgl32.Vec3{0, 8, 15}
	PointLampColor = mgl32.Vec3{1, 1, 1}
	DirLampPos     = mgl32.Vec3{0, 8, -15}
	DirLampYaw     = mgl32.DegToRad(180)
	DirLampPitch   = mgl32.DegToRad(30)
	DirLampColor   = mgl32.Vec3{253.0 / 255, 184.0 / 255, 19.0 / 255}
)

// Character placement on the board
var (
	ManPosition      = mgl32.Vec3{-1.5, 0, 0}
	AstroboyPosition = mgl32.Vec3{1.5, 0, 0}
)

// Chess owns every GPU resource of the scene
type Chess struct {
	settings config.Settings
	shaderFS fs.FS
	width    int
	height   int

	Camera     *graphics.Camera
	controller graphics.FPSController

	shapes   []*model.Shape
	Models   []*model.Model
	Man      *model.Model
	headRot  model.EulerRotator
	Points   []*lighting.PointLamp
	Dirs     []*lighting.DirLamp
	Mover    *lighting.Mover
	resource *pipeline.Resources
	pipe     *pipeline.Pipeline
}

// NewChess prepares a scene for a framebuffer of the given size with the current
// process settings. Nothing touches GL until Init.
func NewChess(shaderFS fs.FS, width, height int) *Chess {
	return &Chess{settings: config.Get(), shaderFS: shaderFS, width: width, height: height}
}

// Init builds the scene: shaders, camera, models, lamps, shadow maps, targets and pipeline.
// On error everything created so far is released.
func (c *Chess) Init() (err error) {
	defer func() {
		if err != nil {
			c.Dispose()
		}
	}()

	s := c.settings
	programs, err := shaders.Compile(c.shaderFS, shaders.Programs(s))
	if err != nil {
		return fmt.Errorf("shaders: %w", err)
	}
	c.resource = &pipeline.Resources{
		Settings: s,
		Programs: programs,
		Lights:   lighting.NewManager(s.Lights),
		Quad:     graphics.NewQuadRenderer(),
		Cube:     graphics.NewCubeRenderer(),
		Focus:    pipeline.NewFocus(pipeline.InitialFocus, s.Post.FocusPullDuration.D()),
	}

	c.initCamera()
	if err := c.initModels(); err != nil {
		return err
	}
	if err := c.initLamps(); err != nil {
		return err
	}
	if err := c.initShadowMaps(); err != nil {
		return err
	}

	c.resource.Skybox, err = graphics.LoadSkybox(c.asset(SkyboxDir), SkyboxExt)
	if err != nil {
		slog.Warn("Skybox unavailable, rendering without it", "error", err)
	}

	c.resource.Targets, err = pipeline.NewTargets(c.width, c.height, s.Post, programs, c.resource.Quad)
	if err != nil {
		return fmt.Errorf("render targets: %w", err)
	}

	c.pipe, err = pipeline.New(pipeline.Stages(c.resource)...)
	if err != nil {
		return err
	}
	if err := c.pipe.Init(); err != nil {
		c.pipe = nil
		return err
	}
	return nil
}

func (c *Chess) asset(rel string) string {
	return filepath.Join(c.settings.Assets.Root, filepath.FromSlash(rel))
}

func (c *Chess) initCamera() {
	cs := c.settings.Camera
	c.Camera = graphics.NewCamera(c.width, c.height)
	c.Camera.FarPlane = cs.Far
	c.Camera.NearPlane = cs.Near
	c.Camera.FOV = mgl32.DegToRad(cs.FOV)
	c.Camera.Pitch = mgl32.DegToRad(cs.Pitch)
	c.Camera.Position = cs.Position
	c.controller = graphics.FPSController{
		Camera:      c.Camera,
		MoveStep:    cs.MoveStep,
		Sensitivity: cs.Sensitivity,
	}
}

func (c *Chess) loadShape(rel string) (*model.Shape, error) {
	shape, err := model.LoadShape(c.asset(rel))
	if err != nil {
		return nil, err
	}
	c.shapes = append(c.shapes, shape)
	slog.Debug("Loaded shape", "path", rel, "meshes", len(shape.Meshes), "clips", len(shape.Clips))
	return shape, nil
}

func (c *Chess) initModels() error {
	s := c.settings
	c.resource.Bones = model.NewBoneBuffer(shaders.BonesBinding, s.Bones.MaxBones, s.Bones.MaxModels)

	for _, rel := range []string{ChessModel, ManModel, AstroboyModel} {
		shape, err := c.loadShape(rel)
		if err != nil {
			return err
		}
		c.Models = append(c.Models, model.NewModel(shape))
	}

	c.Man = c.Models[1]
	c.Man.Position = ManPosition
	c.Models[2].Position = AstroboyPosition
	if err := c.Man.BlendClips(0, 1, s.Animation.BlendFactor); err != nil {
		return fmt.Errorf("man: %w", err)
	}

	for _, m := range c.Models {
		if !m.BonesPresent() {
			continue
		}
		if err := c.resource.Bones.Add(m); err != nil {
			return err
		}
	}
	return nil
}

func (c *Chess) initLamps() error {
	shape, err := c.loadShape(LampModel)
	if err != nil {
		return err
	}

	ls := c.settings.Lights
	for i := 0; i < ls.PointCount; i++ {
		pos, _ := ringPlacement(PointLampPos, i, ls.PointCount)
		l := lighting.NewPointLamp(pos, PointLampColor)
		l.Model = model.NewModel(shape)
		l.SyncModel()
		c.Points = append(c.Points, l)
	}
	for i := 0; i < ls.DirCount; i++ {
		pos, angle := ringPlacement(DirLampPos, i, ls.DirCount)
		l := lighting.NewDirLamp(pos, DirLampYaw-angle, DirLampPitch, DirLampColor)
		l.Model = model.NewModel(shape)
		l.SyncModel()
		c.Dirs = append(c.Dirs, l)
	}

	p := c.resource.Programs[shaders.Color]
	p.Use()
	return c.resource.Lights.Configure(p, c.Points, c.Dirs)
}

func (c *Chess) initShadowMaps() error {
	size := c.settings.Lights.ShadowMapResolution
	for _, l := range c.Points {
		if err := l.InitShadows(size); err != nil {
			return err
		}
	}
	for _, l := range c.Dirs {
		if err := l.InitShadows(size); err != nil {
			return err
		}
	}
	return nil
}

// ringPlacement spreads n lamps evenly around the Y axis, lamp 0 at base. It returns the
// position of lamp i and its rotation angle in radians.
func ringPlacement(base mgl32.Vec3, i, n int) (mgl32.Vec3, float32) {
	if n <= 1 || i == 0 {
		return base, 0
	}
	angle := 2 * math32.Pi * float32(i) / float32(n)
	return mgl32.Rotate3DY(angle).Mul3x1(base), angle
}

// StartMover launches the point lamp orbit. It stops when ctx is done or on Dispose.
func (c *Chess) StartMover(ctx context.Context) {
	if len(c.Points) == 0 {
		return
	}
	a := c.settings.Animation
	c.Mover = lighting.NewMover(c.Points[0], a.LampStep, a.LampTick.D())
	c.Mover.Start(ctx)
}

// Update advances animation by dt; t is the time since start in seconds
func (c *Chess) Update(dt time.Duration, t float32) {
	defer profiling.Track("scene.update")()

	for _, m := range c.Models {
		m.Animate(t)
	}
	c.resource.Bones.WriteAll()

	for _, l := range c.Points {
		l.SyncModel()
	}
	c.resource.Focus.Update(dt)
}

// Render draws one frame to the default framebuffer
func (c *Chess) Render() {
	c.pipe.Render(&pipeline.Frame{
		Width:      c.width,
		Height:     c.height,
		View:       c.Camera.GetViewMatrix(),
		Projection: c.Camera.GetProjectionMatrix(),
		CameraPos:  c.Camera.Position,
		Models:     c.Models,
		PointLamps: c.Points,
		DirLamps:   c.Dirs,
	})
}

// Resize follows a framebuffer size change
func (c *Chess) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.width, c.height = width, height
	c.Camera.SetAspect(width, height)
	c.resource.Targets.Resize(width, height)
	c.pipe.Resize(width, height)
}

// HandleInput applies held keys to the camera, the man's head and blend factor, and
// edge-triggered keys to the depth dump and shader reload
func (c *Chess) HandleInput(im *input.InputManager) {
	forward, right := 0, 0
	if im.IsActive(input.ActionMoveForward) {
		forward++
	}
	if im.IsActive(input.ActionMoveBackward) {
		forward--
	}
	if im.IsActive(input.ActionMoveRight) {
		right++
	}
	if im.IsActive(input.ActionMoveLeft) {
		right--
	}
	c.controller.Move(forward, right)

	step := mgl32.DegToRad(c.settings.Animation.HeadStep)
	if d := headDelta(im, step); d != (mgl32.Vec3{}) {
		c.RotateHead(d)
	}

	if c.Man.Blender != nil {
		bs := c.settings.Animation.BlendFactorStep
		if im.IsActive(input.ActionBlendFactorDown) {
			c.Man.Blender.ChangeFactor(-bs)
		} else if im.IsActive(input.ActionBlendFactorUp) {
			c.Man.Blender.ChangeFactor(bs)
		}
	}

	if im.JustPressed(input.ActionDumpDepthMaps) {
		if err := c.DumpDepth("."); err != nil {
			slog.Error("Depth dump failed", "error", err)
		}
	}
	if im.JustPressed(input.ActionReloadShaders) {
		if err := c.ReloadShaders(); err != nil {
			slog.Error("Shader reload failed, keeping previous programs", "error", err)
		}
	}
}

func headDelta(im *input.InputManager, step float32) mgl32.Vec3 {
	var d mgl32.Vec3
	if im.IsActive(input.ActionHeadPitchUp) {
		d[0] += step
	}
	if im.IsActive(input.ActionHeadPitchDown) {
		d[0] -= step
	}
	if im.IsActive(input.ActionHeadYawLeft) {
		d[1] += step
	}
	if im.IsActive(input.ActionHeadYawRight) {
		d[1] -= step
	}
	return d
}

// RotateHead adds d (pitch, yaw, roll) to the man's head rotation
func (c *Chess) RotateHead(d mgl32.Vec3) {
	c.headRot.ChangeRotation(d)
	if err := c.Man.SetBoneTransform(ManHeadBone, c.headRot.Matrix()); err != nil {
		slog.Warn("Head rotation ignored", "error", err)
	}
}

// Look rotates the camera by a cursor drag in pixels
func (c *Chess) Look(dx, dy float64) {
	c.controller.Look(dx, dy)
}

// FocusCenter refocuses on the surface at the center of the view. The cursor is captured,
// so the center is where the user aims.
func (c *Chess) FocusCenter() {
	px, py := centerPixel(c.width, c.height)
	pos := c.resource.Targets.Display.ReadPixelsRGB(pipeline.AttachPosition, px, py, 1, 1)
	slog.Debug("Position map", "x", pos[0], "y", pos[1], "z", pos[2])
	c.resource.Focus.FocusOn(pos[2])
}

func centerPixel(width, height int) (int, int) {
	return width / 2, height / 2
}

// ReloadShaders recompiles every program and swaps them in. The old set stays in use on error.
func (c *Chess) ReloadShaders() error {
	programs, err := shaders.Compile(c.shaderFS, shaders.Programs(c.settings))
	if err != nil {
		return err
	}
	old := c.resource.Programs
	c.resource.Programs = programs
	c.pipe.ProgramsChanged()
	old.Delete()
	slog.Info("Shaders reloaded", "programs", len(programs))
	return nil
}

// DumpDepth writes the first dir lamp's depth map and the +X face of the first point
// lamp's cube map as BMP files in dir
func (c *Chess) DumpDepth(dir string) error {
	if len(c.Dirs) > 0 && c.Dirs[0].ShadowMap != nil {
		m := c.Dirs[0].ShadowMap
		path := filepath.Join(dir, DirDepthFile)
		if err := capture.WriteDepth(path, graphics.ReadDepth2D(m), m.Width, m.Height); err != nil {
			return err
		}
		slog.Info("Depth map written", "path", path)
	}
	if len(c.Points) > 0 && c.Points[0].ShadowMap != nil {
		m := c.Points[0].ShadowMap
		path := filepath.Join(dir, PointDepthFile)
		if err := capture.WriteDepth(path, graphics.ReadDepthCubeFace(m, 0), m.Size, m.Size); err != nil {
			return err
		}
		slog.Info("Depth map written", "path", path)
	}
	return nil
}

// Dispose stops the mover and releases every resource. Safe on a partially initialized scene.
func (c *Chess) Dispose() {
	if c.Mover != nil {
		c.Mover.Stop()
	}
	if c.pipe != nil {
		c.pipe.Dispose()
		c.pipe = nil
	}
	for _, l := range c.Points {
		l.Dispose()
	}
	for _, l := range c.Dirs {
		l.Dispose()
	}
	c.Points, c.Dirs = nil, nil
	for _, s := range c.shapes {
		s.Delete()
	}
	c.shapes, c.Models = nil, nil

	r := c.resource
	if r == nil {
		return
	}
	if r.Targets != nil {
		r.Targets.Dispose()
	}
	if r.Skybox != nil {
		r.Skybox.Delete()
	}
	if r.Bones != nil {
		r.Bones.Delete()
	}
	r.Quad.Delete()
	r.Cube.Delete()
	r.Programs.Delete()
	c.resource = nil
}
