package model

import "github.com/go-gl/mathgl/mgl32"

// EulerRotator accumulates pitch (X), yaw (Y) and roll (Z) in radians
type EulerRotator struct {
	Pitch, Yaw, Roll float32
}

// ChangeRotation adds d = (pitch, yaw, roll)
func (r *EulerRotator) ChangeRotation(d mgl32.Vec3) {
	r.Pitch += d[0]
	r.Yaw += d[1]
	r.Roll += d[2]
}

// Matrix returns Rx(pitch) * Ry(yaw) * Rz(roll)
func (r *EulerRotator) Matrix() mgl32.Mat4 {
	return mgl32.HomogRotate3DX(r.Pitch).
		Mul4(mgl32.HomogRotate3DY(r.Yaw)).
		Mul4(mgl32.HomogRotate3DZ(r.Roll))
}
