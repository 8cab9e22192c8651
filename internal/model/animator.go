package model

import "github.com/go-gl/mathgl/mgl32"

// Animator samples every clip of a shape into local node poses
type Animator struct {
	skeleton *Skeleton
	clips    []Clip
	poses    [][]TRS
}

// NewAnimator prepares pose storage for each clip
func NewAnimator(s *Skeleton, clips []Clip) *Animator {
	a := &Animator{skeleton: s, clips: clips, poses: make([][]TRS, len(clips))}
	for i := range a.poses {
		a.poses[i] = make([]TRS, len(s.Rest))
	}
	return a
}

// Animate samples clip i at t seconds
func (a *Animator) Animate(i int, t float32) {
	a.clips[i].Sample(t, a.skeleton.Rest, a.poses[i])
}

// AnimateAll samples every clip at t seconds
func (a *Animator) AnimateAll(t float32) {
	for i := range a.clips {
		a.Animate(i, t)
	}
}

// Pose returns the last sampled pose of clip i
func (a *Animator) Pose(i int) []TRS {
	return a.poses[i]
}

// ClipCount returns the number of clips
func (a *Animator) ClipCount() int {
	return len(a.clips)
}

// AnimationBlender mixes the poses of two clips of one animator
type AnimationBlender struct {
	animator *Animator
	Lhs, Rhs int
	factor   float32
	pose     []TRS
}

// NewAnimationBlender blends clip lhs into clip rhs by factor (clamped to [0,1])
func NewAnimationBlender(a *Animator, lhs, rhs int, factor float32) *AnimationBlender {
	b := &AnimationBlender{animator: a, Lhs: lhs, Rhs: rhs, pose: make([]TRS, len(a.skeleton.Rest))}
	b.SetFactor(factor)
	return b
}

// Factor returns the current blend factor; 0 is pure lhs, 1 pure rhs
func (b *AnimationBlender) Factor() float32 {
	return b.factor
}

// SetFactor sets the blend factor, clamped to [0,1]
func (b *AnimationBlender) SetFactor(f float32) {
	b.factor = mgl32.Clamp(f, 0, 1)
}

// ChangeFactor adds d to the blend factor, clamped to [0,1]
func (b *AnimationBlender) ChangeFactor(d float32) {
	b.SetFactor(b.factor + d)
}

// Blend mixes the last sampled poses
func (b *AnimationBlender) Blend() []TRS {
	lhs, rhs := b.animator.Pose(b.Lhs), b.animator.Pose(b.Rhs)
	for i := range b.pose {
		b.pose[i] = Mix(lhs[i], rhs[i], b.factor)
	}
	return b.pose
}
