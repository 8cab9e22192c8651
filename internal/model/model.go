package model

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Model places a shape in the world and, for skinned shapes, owns its animation state
type Model struct {
	Shape    *Shape
	Position mgl32.Vec3
	Rotation EulerRotator
	Scale    mgl32.Vec3

	Animator *Animator
	Blender  *AnimationBlender

	bones     []mgl32.Mat4
	overrides map[int]mgl32.Mat4
	boneSlot  int
}

// NewModel creates a model at the origin. Skinned shapes with clips get an animator.
func NewModel(shape *Shape) *Model {
	m := &Model{Shape: shape, Scale: mgl32.Vec3{1, 1, 1}, boneSlot: -1}
	if shape.BonesPresent() {
		m.bones = make([]mgl32.Mat4, shape.Skeleton.BoneCount())
		for i := range m.bones {
			m.bones[i] = mgl32.Ident4()
		}
		m.overrides = make(map[int]mgl32.Mat4)
		if len(shape.Clips) > 0 {
			m.Animator = NewAnimator(shape.Skeleton, shape.Clips)
		}
	}
	return m
}

// Transform returns T * R * S
func (m *Model) Transform() mgl32.Mat4 {
	return mgl32.Translate3D(m.Position[0], m.Position[1], m.Position[2]).
		Mul4(m.Rotation.Matrix()).
		Mul4(mgl32.Scale3D(m.Scale[0], m.Scale[1], m.Scale[2]))
}

// BonesPresent reports whether the model is skinned
func (m *Model) BonesPresent() bool {
	return m.bones != nil
}

// Bones returns the current skinning matrices
func (m *Model) Bones() []mgl32.Mat4 {
	return m.bones
}

// BlendClips makes the model's pose a blend of clips lhs and rhs
func (m *Model) BlendClips(lhs, rhs int, factor float32) error {
	if m.Animator == nil {
		return fmt.Errorf("model has no animations")
	}
	if n := m.Animator.ClipCount(); lhs >= n || rhs >= n || lhs < 0 || rhs < 0 {
		return fmt.Errorf("clips %d/%d out of range, model has %d", lhs, rhs, n)
	}
	m.Blender = NewAnimationBlender(m.Animator, lhs, rhs, factor)
	return nil
}

// SetBoneTransform applies an extra local transform to the named node after animation
func (m *Model) SetBoneTransform(name string, t mgl32.Mat4) error {
	if !m.BonesPresent() {
		return fmt.Errorf("model has no bones")
	}
	i := m.Shape.Skeleton.NodeIndex(name)
	if i < 0 {
		return fmt.Errorf("bone %q not found", name)
	}
	m.overrides[i] = t
	return nil
}

// Animate samples every clip at t seconds and updates the skinning matrices from the
// blended pose, or from clip 0 when no blend is set.
func (m *Model) Animate(t float32) {
	if !m.BonesPresent() {
		return
	}
	sk := m.Shape.Skeleton
	local := sk.Rest
	if m.Animator != nil {
		m.Animator.AnimateAll(t)
		if m.Blender != nil {
			local = m.Blender.Blend()
		} else {
			local = m.Animator.Pose(0)
		}
	}
	sk.Pose(local, m.overrides, m.bones)
}
