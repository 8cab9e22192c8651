package scene

import (
	"path/filepath"
	"testing"

	"chess-scene/internal/config"
	"chess-scene/internal/input"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestCenterPixel(t *testing.T) {
	x, y := centerPixel(1366, 763)
	assert.Equal(t, 683, x)
	assert.Equal(t, 381, y)
}

func TestHeadDelta(t *testing.T) {
	im := input.NewInputManager()
	assert.Equal(t, mgl32.Vec3{}, headDelta(im, 1))

	im.HandleKeyEvent(glfw.KeyUp, glfw.Press)
	im.HandleKeyEvent(glfw.KeyRight, glfw.Press)
	assert.Equal(t, mgl32.Vec3{0.5, -0.5, 0}, headDelta(im, 0.5))

	im.HandleKeyEvent(glfw.KeyDown, glfw.Press)
	im.HandleKeyEvent(glfw.KeyLeft, glfw.Press)
	assert.Equal(t, mgl32.Vec3{}, headDelta(im, 0.5))
}

func TestDirLampFacesBoard(t *testing.T) {
	// yaw 180 turns the lamp from -Z to +Z, towards the board center
	r := mgl32.HomogRotate3DX(DirLampPitch).Mul4(mgl32.HomogRotate3DY(DirLampYaw))
	fwd := r.Transpose().Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
	assert.Greater(t, fwd.Z(), float32(0))
	assert.Less(t, fwd.Y(), float32(0))
}

func TestRingPlacement(t *testing.T) {
	pos, angle := ringPlacement(PointLampPos, 0, 4)
	assert.Equal(t, PointLampPos, pos)
	assert.Zero(t, angle)

	pos, angle = ringPlacement(mgl32.Vec3{0, 8, 15}, 2, 4)
	assert.InDelta(t, float64(mgl32.DegToRad(180)), float64(angle), 1e-5)
	assert.InDelta(t, 0, float64(pos.X()), 1e-4)
	assert.InDelta(t, 8, float64(pos.Y()), 1e-4)
	assert.InDelta(t, -15, float64(pos.Z()), 1e-4)

	// rotating the dir lamp with its position keeps it aimed at the center
	_, angle = ringPlacement(DirLampPos, 1, 2)
	r := mgl32.HomogRotate3DX(DirLampPitch).Mul4(mgl32.HomogRotate3DY(DirLampYaw - angle))
	fwd := r.Transpose().Mul4x1(mgl32.Vec4{0, 0, -1, 0}).Vec3()
	assert.Less(t, fwd.Z(), float32(0))
}

func TestNewChessUsesProcessSettings(t *testing.T) {
	orig := config.Get()
	t.Cleanup(func() { config.Set(orig) })

	s := config.Default()
	s.Assets.Root = "/srv/chess"
	s.Lights.PointCount = 2
	config.Set(s)

	c := NewChess(nil, 800, 600)
	assert.Equal(t, 2, c.settings.Lights.PointCount)
	assert.Equal(t, filepath.Join("/srv/chess", "models", "man", "man.glb"), c.asset(ManModel))
}
