package model

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Path is the node property a channel animates
type Path int

const (
	PathTranslation Path = iota
	PathRotation
	PathScale
)

// Interpolation between keyframes
type Interpolation int

const (
	InterpolationLinear Interpolation = iota
	InterpolationStep
)

// Channel animates one property of one node. Values hold xyz or xyzw per key.
type Channel struct {
	Node          int
	Path          Path
	Interpolation Interpolation
	Times         []float32
	Values        [][4]float32
}

// Clip is a named animation
type Clip struct {
	Name     string
	Duration float32
	Channels []Channel
}

// Sample writes the pose at time t (seconds, looped over the duration) into out, starting
// from rest for every node no channel touches. len(out) must equal len(rest).
func (c *Clip) Sample(t float32, rest []TRS, out []TRS) {
	copy(out, rest)
	if c.Duration > 0 {
		t = math32.Mod(t, c.Duration)
		if t < 0 {
			t += c.Duration
		}
	} else {
		t = 0
	}
	for i := range c.Channels {
		ch := &c.Channels[i]
		if ch.Node < 0 || ch.Node >= len(out) || len(ch.Times) == 0 {
			continue
		}
		v := ch.sample(t)
		switch ch.Path {
		case PathTranslation:
			out[ch.Node].Translation = mgl32.Vec3{v[0], v[1], v[2]}
		case PathScale:
			out[ch.Node].Scale = mgl32.Vec3{v[0], v[1], v[2]}
		case PathRotation:
			out[ch.Node].Rotation = v.quat()
		}
	}
}

type key [4]float32

func (k key) quat() mgl32.Quat {
	return mgl32.Quat{W: k[3], V: mgl32.Vec3{k[0], k[1], k[2]}}.Normalize()
}

func (ch *Channel) sample(t float32) key {
	n := len(ch.Times)
	if t <= ch.Times[0] {
		return ch.Values[0]
	}
	if t >= ch.Times[n-1] {
		return ch.Values[n-1]
	}
	// first key strictly after t
	hi := sort.Search(n, func(i int) bool { return ch.Times[i] > t })
	lo := hi - 1
	if ch.Interpolation == InterpolationStep {
		return ch.Values[lo]
	}
	f := (t - ch.Times[lo]) / (ch.Times[hi] - ch.Times[lo])
	a, b := key(ch.Values[lo]), key(ch.Values[hi])
	if ch.Path == PathRotation {
		q := slerp(a.quat(), b.quat(), f)
		return key{q.V[0], q.V[1], q.V[2], q.W}
	}
	var out key
	for i := range out {
		out[i] = a[i] + (b[i]-a[i])*f
	}
	return out
}
