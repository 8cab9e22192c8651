package model

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex attribute locations shared with the shaders
const (
	AttribPosition = 0
	AttribNormal   = 1
	AttribTexCoord = 2
	AttribTangent  = 3
	AttribJoints   = 4
	AttribWeights  = 5
)

// MaterialData describes a material before upload. Nil images fall back to the default texture.
type MaterialData struct {
	Name string

	Ambient            image.Image
	Diffuse            image.Image
	Specular           image.Image
	Normal             image.Image
	ReflectionStrength image.Image
	Jitter             image.Image

	AmbientStrength  float32
	DiffuseStrength  float32
	SpecularStrength float32
	Shininess        float32
}

// DefaultMaterial is used by primitives without a material
func DefaultMaterial() MaterialData {
	return MaterialData{
		Name:             "default",
		AmbientStrength:  0.01,
		DiffuseStrength:  1,
		SpecularStrength: 1,
		Shininess:        32,
	}
}

// MeshRange is a contiguous run of indices drawn with one material
type MeshRange struct {
	Start    int
	Count    int
	Material int
}

// ShapeData is a decoded shape ready for upload: merged vertex streams, index ranges,
// materials, and for skinned shapes a skeleton and clips.
type ShapeData struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	TexCoords []mgl32.Vec2
	Tangents  []mgl32.Vec4
	Joints    [][4]uint16
	Weights   []mgl32.Vec4
	Indices   []uint32

	Meshes    []MeshRange
	Materials []MaterialData

	Skeleton *Skeleton
	Clips    []Clip

	tangentsMissing bool
}

// BonesPresent reports whether the shape is skinned
func (d *ShapeData) BonesPresent() bool {
	return d.Skeleton != nil && d.Skeleton.BoneCount() > 0 && len(d.Joints) == len(d.Positions)
}

// GenerateTangents fills Tangents from positions, UVs and indices when the source had none
func (d *ShapeData) GenerateTangents() {
	n := len(d.Positions)
	d.Tangents = make([]mgl32.Vec4, n)
	if len(d.TexCoords) != n {
		for i := range d.Tangents {
			d.Tangents[i] = mgl32.Vec4{1, 0, 0, 1}
		}
		return
	}

	tan := make([]mgl32.Vec3, n)
	bitan := make([]mgl32.Vec3, n)
	for i := 0; i+2 < len(d.Indices); i += 3 {
		a, b, c := d.Indices[i], d.Indices[i+1], d.Indices[i+2]
		e1 := d.Positions[b].Sub(d.Positions[a])
		e2 := d.Positions[c].Sub(d.Positions[a])
		uv1 := d.TexCoords[b].Sub(d.TexCoords[a])
		uv2 := d.TexCoords[c].Sub(d.TexCoords[a])

		det := uv1[0]*uv2[1] - uv2[0]*uv1[1]
		if det == 0 {
			continue
		}
		r := 1 / det
		t := e1.Mul(uv2[1]).Sub(e2.Mul(uv1[1])).Mul(r)
		bt := e2.Mul(uv1[0]).Sub(e1.Mul(uv2[0])).Mul(r)
		for _, v := range [3]uint32{a, b, c} {
			tan[v] = tan[v].Add(t)
			bitan[v] = bitan[v].Add(bt)
		}
	}

	for i := range d.Tangents {
		nrm := mgl32.Vec3{0, 1, 0}
		if i < len(d.Normals) {
			nrm = d.Normals[i]
		}
		t := tan[i].Sub(nrm.Mul(nrm.Dot(tan[i])))
		if t.Len() < 1e-6 {
			d.Tangents[i] = mgl32.Vec4{1, 0, 0, 1}
			continue
		}
		t = t.Normalize()
		w := float32(1)
		if nrm.Cross(t).Dot(bitan[i]) < 0 {
			w = -1
		}
		d.Tangents[i] = t.Vec4(w)
	}
}
