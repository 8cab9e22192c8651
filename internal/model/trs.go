package model

import "github.com/go-gl/mathgl/mgl32"

// TRS is a decomposed local transform
type TRS struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// IdentityTRS returns the transform that changes nothing
func IdentityTRS() TRS {
	return TRS{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix composes T * R * S
func (t TRS) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Translation[0], t.Translation[1], t.Translation[2]).
		Mul4(t.Rotation.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// Mix interpolates from a to b: linear for translation and scale, shortest-path slerp for rotation
func Mix(a, b TRS, f float32) TRS {
	return TRS{
		Translation: lerp3(a.Translation, b.Translation, f),
		Rotation:    slerp(a.Rotation, b.Rotation, f),
		Scale:       lerp3(a.Scale, b.Scale, f),
	}
}

func lerp3(a, b mgl32.Vec3, f float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(f))
}

func slerp(a, b mgl32.Quat, f float32) mgl32.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl32.QuatSlerp(a, b, f).Normalize()
}
