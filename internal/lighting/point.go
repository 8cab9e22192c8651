package lighting

import (
	"fmt"
	"sync"

	"chess-scene/internal/graphics"
	"chess-scene/internal/model"

	"github.com/go-gl/mathgl/mgl32"
)

// Point light attenuation and shadow defaults
const (
	DefaultKc = 1.0
	DefaultKl = 0.045
	DefaultKq = 0.0075

	PointShadowNear = 1.0
	PointShadowFar  = 32.0
	PointShadowBias = 0.4
)

type cubeFace struct {
	dir, up mgl32.Vec3
}

// GL cube map face order
var cubeFaces = [6]cubeFace{
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, -1, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, -1, 0}},
}

// PointLamp is an omnidirectional light with a cube shadow map. Its position may be moved
// from another goroutine; every other field belongs to the render thread.
type PointLamp struct {
	Color      mgl32.Vec3
	Kc, Kl, Kq float32
	Near, Far  float32
	Bias       float32

	// Model is the lamp's visible body, kept at the light position by SyncModel
	Model *model.Model

	ShadowMap *graphics.TextureCube
	shadowFB  *graphics.Framebuffer

	mu  sync.Mutex
	pos mgl32.Vec3
}

// NewPointLamp creates a lamp with default attenuation and shadow range
func NewPointLamp(pos, color mgl32.Vec3) *PointLamp {
	return &PointLamp{
		Color: color,
		Kc:    DefaultKc, Kl: DefaultKl, Kq: DefaultKq,
		Near: PointShadowNear, Far: PointShadowFar,
		Bias: PointShadowBias,
		pos:  pos,
	}
}

// Position returns the current light position
func (l *PointLamp) Position() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pos
}

// Transform replaces the position by pos * m, all under one lock
func (l *PointLamp) Transform(m mgl32.Mat3) {
	l.mu.Lock()
	l.pos = m.Mul3x1(l.pos)
	l.mu.Unlock()
}

// SyncModel moves the lamp model to the light position
func (l *PointLamp) SyncModel() {
	if l.Model != nil {
		l.Model.Position = l.Position()
	}
}

// Projection is the 90 degree square perspective used for every cube face
func (l *PointLamp) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(90), 1, l.Near, l.Far)
}

// FaceMatrices returns projection * view for the six cube faces at the current position
func (l *PointLamp) FaceMatrices() [6]mgl32.Mat4 {
	pos := l.Position()
	proj := l.Projection()
	var out [6]mgl32.Mat4
	for i, f := range cubeFaces {
		out[i] = proj.Mul4(mgl32.LookAtV(pos, pos.Add(f.dir), f.up))
	}
	return out
}

// InitShadows allocates the depth cube map and its framebuffer
func (l *PointLamp) InitShadows(size int) error {
	l.ShadowMap = graphics.NewDepthCube(size)
	l.shadowFB = graphics.NewFramebuffer()
	l.shadowFB.Bind()
	l.shadowFB.AttachDepthCube(l.ShadowMap)
	err := l.shadowFB.Check()
	graphics.BindDefault()
	if err != nil {
		return fmt.Errorf("point shadow map: %w", err)
	}
	return nil
}

// BeginShadow binds the shadow framebuffer, sets the viewport and clears depth
func (l *PointLamp) BeginShadow() {
	l.shadowFB.Bind()
	graphics.SetViewport(l.ShadowMap.Size, l.ShadowMap.Size)
	graphics.ClearDepth()
}

// Dispose releases shadow resources
func (l *PointLamp) Dispose() {
	if l.shadowFB != nil {
		l.shadowFB.Delete()
	}
	if l.ShadowMap != nil {
		l.ShadowMap.Delete()
	}
}
