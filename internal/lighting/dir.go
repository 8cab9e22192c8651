package lighting

import (
	"fmt"

	"chess-scene/internal/graphics"
	"chess-scene/internal/model"

	"github.com/go-gl/mathgl/mgl32"
)

// Directional shadow bias range
const (
	DirMinBias = 0.005
	DirMaxBias = 0.05
)

// DirLamp is a directional light with an orthographic shadow map. Yaw and pitch orient it
// the same way the camera is oriented: yaw 0 looks down -Z, positive pitch looks down.
type DirLamp struct {
	Position   mgl32.Vec3
	Yaw        float32
	Pitch      float32
	Color      mgl32.Vec3
	Kc, Kl, Kq float32

	MinBias, MaxBias         float32
	Left, Right, Bottom, Top float32
	Near, Far                float32

	Model *model.Model

	ShadowMap *graphics.Texture2D
	shadowFB  *graphics.Framebuffer
}

// NewDirLamp creates a lamp with default attenuation, bias and a -10..10 shadow box
func NewDirLamp(pos mgl32.Vec3, yaw, pitch float32, color mgl32.Vec3) *DirLamp {
	return &DirLamp{
		Position: pos, Yaw: yaw, Pitch: pitch, Color: color,
		Kc: DefaultKc, Kl: DefaultKl, Kq: DefaultKq,
		MinBias: DirMinBias, MaxBias: DirMaxBias,
		Left: -10, Right: 10, Bottom: -10, Top: 10,
		Near: PointShadowNear, Far: PointShadowFar,
	}
}

// View returns the light's view matrix
func (l *DirLamp) View() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(l.Pitch).
		Mul4(mgl32.HomogRotate3DY(l.Yaw)).
		Mul4(mgl32.Translate3D(-l.Position[0], -l.Position[1], -l.Position[2]))
}

// LightSpaceMatrix returns ortho projection * view
func (l *DirLamp) LightSpaceMatrix() mgl32.Mat4 {
	return mgl32.Ortho(l.Left, l.Right, l.Bottom, l.Top, l.Near, l.Far).Mul4(l.View())
}

// SyncModel moves the lamp model to the light position
func (l *DirLamp) SyncModel() {
	if l.Model != nil {
		l.Model.Position = l.Position
	}
}

// InitShadows allocates the depth map and its framebuffer
func (l *DirLamp) InitShadows(size int) error {
	l.ShadowMap = graphics.NewTexture2D(graphics.FormatDepth, size, size, graphics.ShadowParams)
	l.shadowFB = graphics.NewFramebuffer()
	l.shadowFB.Bind()
	l.shadowFB.AttachDepthTexture(l.ShadowMap)
	err := l.shadowFB.Check()
	graphics.BindDefault()
	if err != nil {
		return fmt.Errorf("dir shadow map: %w", err)
	}
	return nil
}

// BeginShadow binds the shadow framebuffer, sets the viewport and clears depth
func (l *DirLamp) BeginShadow() {
	l.shadowFB.Bind()
	graphics.SetViewport(l.ShadowMap.Width, l.ShadowMap.Height)
	graphics.ClearDepth()
}

// Dispose releases shadow resources
func (l *DirLamp) Dispose() {
	if l.shadowFB != nil {
		l.shadowFB.Delete()
	}
	if l.ShadowMap != nil {
		l.ShadowMap.Delete()
	}
}
