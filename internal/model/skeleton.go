package model

import "github.com/go-gl/mathgl/mgl32"

// Skeleton is the node hierarchy a skin deforms with. Nodes are indexed as in the source
// document; Joints maps bone slots to node indices.
type Skeleton struct {
	Names       []string
	Parents     []int
	Rest        []TRS
	Joints      []int
	InverseBind []mgl32.Mat4
}

// NodeIndex returns the node with the given name, -1 if absent
func (s *Skeleton) NodeIndex(name string) int {
	for i, n := range s.Names {
		if n == name {
			return i
		}
	}
	return -1
}

// BoneCount is the number of skinning matrices
func (s *Skeleton) BoneCount() int {
	return len(s.Joints)
}

// Pose converts local node transforms to skinning matrices: global joint transform times
// inverse bind. overrides are post-multiplied onto the local transform of their node.
// out must hold BoneCount matrices.
func (s *Skeleton) Pose(local []TRS, overrides map[int]mgl32.Mat4, out []mgl32.Mat4) {
	global := make([]mgl32.Mat4, len(local))
	done := make([]bool, len(local))

	var resolve func(i int) mgl32.Mat4
	resolve = func(i int) mgl32.Mat4 {
		if done[i] {
			return global[i]
		}
		m := local[i].Matrix()
		if o, ok := overrides[i]; ok {
			m = m.Mul4(o)
		}
		if p := s.Parents[i]; p >= 0 {
			m = resolve(p).Mul4(m)
		}
		global[i] = m
		done[i] = true
		return m
	}

	for b, node := range s.Joints {
		out[b] = resolve(node).Mul4(s.InverseBind[b])
	}
}
