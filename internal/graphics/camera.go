package graphics

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const maxPitch = 89 * math32.Pi / 180

// Camera handles the view and projection matrices. Angles are radians; positive pitch looks down.
type Camera struct {
	Position mgl32.Vec3
	Pitch    float32
	Yaw      float32

	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32
}

func NewCamera(width, height int) *Camera {
	return &Camera{
		AspectRatio: float32(width) / float32(max(height, 1)),
		FOV:         mgl32.DegToRad(60),
		NearPlane:   1,
		FarPlane:    64,
	}
}

// SetAspect updates the aspect ratio from a viewport size
func (c *Camera) SetAspect(width, height int) {
	if height <= 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

func (c *Camera) rotation() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(c.Pitch).Mul4(mgl32.HomogRotate3DY(c.Yaw))
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return c.rotation().Mul4(mgl32.Translate3D(-c.Position[0], -c.Position[1], -c.Position[2]))
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(c.FOV, c.AspectRatio, c.NearPlane, c.FarPlane)
}

// Forward returns the world-space viewing direction
func (c *Camera) Forward() mgl32.Vec3 {
	return c.rotation().Transpose().Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
}

// Right returns the world-space right vector
func (c *Camera) Right() mgl32.Vec3 {
	return c.rotation().Transpose().Mul4x1(mgl32.Vec4{1, 0, 0, 0}).Vec3()
}

// Rotate changes pitch and yaw, clamping pitch short of straight up/down
func (c *Camera) Rotate(dPitch, dYaw float32) {
	c.Pitch = mgl32.Clamp(c.Pitch+dPitch, -maxPitch, maxPitch)
	c.Yaw = math32.Mod(c.Yaw+dYaw, 2*math32.Pi)
}

// FPSController moves a camera with fixed steps and mouse deltas
type FPSController struct {
	Camera      *Camera
	MoveStep    float32
	Sensitivity float32
}

// Move steps the camera along its forward and right axes. Each argument is a step count,
// negative for backward/left.
func (f *FPSController) Move(forward, right int) {
	c := f.Camera
	if forward != 0 {
		c.Position = c.Position.Add(c.Forward().Mul(float32(forward) * f.MoveStep))
	}
	if right != 0 {
		c.Position = c.Position.Add(c.Right().Mul(float32(right) * f.MoveStep))
	}
}

// Look applies a cursor delta in pixels
func (f *FPSController) Look(dx, dy float64) {
	f.Camera.Rotate(float32(dy)*f.Sensitivity, float32(dx)*f.Sensitivity)
}
