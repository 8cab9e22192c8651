package model

import (
	"image"

	"chess-scene/internal/graphics"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Material holds uploaded textures and lighting strengths. Nil textures are drawn with
// the default texture.
type Material struct {
	Name string

	Ambient            *graphics.Texture2D
	Diffuse            *graphics.Texture2D
	Specular           *graphics.Texture2D
	Normal             *graphics.Texture2D
	ReflectionStrength *graphics.Texture2D
	Jitter             *graphics.Texture2D

	AmbientStrength  float32
	DiffuseStrength  float32
	SpecularStrength float32
	Shininess        float32
}

// Shape is uploaded geometry with its materials, skeleton and clips. One shape may back
// several models.
type Shape struct {
	Meshes    []MeshRange
	Materials []Material
	Skeleton  *Skeleton
	Clips     []Clip

	vao      uint32
	buffers  []uint32
	textures []*graphics.Texture2D
	boned    bool
	fallback Material
}

// LoadShape loads and uploads a glTF file
func LoadShape(path string) (*Shape, error) {
	data, err := LoadShapeData(path)
	if err != nil {
		return nil, err
	}
	return NewShape(data), nil
}

// NewShape uploads decoded data into one vertex array
func NewShape(d *ShapeData) *Shape {
	s := &Shape{
		Meshes:   d.Meshes,
		Skeleton: d.Skeleton,
		Clips:    d.Clips,
		boned:    d.BonesPresent(),
		fallback: materialFrom(DefaultMaterial(), nil),
	}

	gl.GenVertexArrays(1, &s.vao)
	gl.BindVertexArray(s.vao)

	s.floatAttrib(AttribPosition, 3, flatten3(d.Positions))
	s.floatAttrib(AttribNormal, 3, flatten3(d.Normals))
	s.floatAttrib(AttribTexCoord, 2, flatten2(d.TexCoords))
	s.floatAttrib(AttribTangent, 4, flatten4(d.Tangents))
	if s.boned {
		s.jointAttrib(d.Joints)
		s.floatAttrib(AttribWeights, 4, flatten4(d.Weights))
	}

	var ebo uint32
	gl.GenBuffers(1, &ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, ebo)
	if len(d.Indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(d.Indices)*4, gl.Ptr(d.Indices), gl.STATIC_DRAW)
	}
	s.buffers = append(s.buffers, ebo)
	gl.BindVertexArray(0)

	uploaded := map[image.Image]*graphics.Texture2D{}
	upload := func(img image.Image) *graphics.Texture2D {
		if img == nil {
			return nil
		}
		if t, ok := uploaded[img]; ok {
			return t
		}
		t := graphics.NewTexture2DFromImage(img)
		uploaded[img] = t
		s.textures = append(s.textures, t)
		return t
	}
	for _, md := range d.Materials {
		s.Materials = append(s.Materials, materialFrom(md, upload))
	}
	return s
}

func materialFrom(md MaterialData, upload func(image.Image) *graphics.Texture2D) Material {
	m := Material{
		Name:             md.Name,
		AmbientStrength:  md.AmbientStrength,
		DiffuseStrength:  md.DiffuseStrength,
		SpecularStrength: md.SpecularStrength,
		Shininess:        md.Shininess,
	}
	if upload != nil {
		m.Ambient = upload(md.Ambient)
		m.Diffuse = upload(md.Diffuse)
		m.Specular = upload(md.Specular)
		m.Normal = upload(md.Normal)
		m.ReflectionStrength = upload(md.ReflectionStrength)
		m.Jitter = upload(md.Jitter)
	}
	return m
}

func (s *Shape) floatAttrib(loc uint32, size int32, data []float32) {
	if len(data) == 0 {
		return
	}
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	gl.VertexAttribPointer(loc, size, gl.FLOAT, false, size*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(loc)
	s.buffers = append(s.buffers, vbo)
}

func (s *Shape) jointAttrib(joints [][4]uint16) {
	if len(joints) == 0 {
		return
	}
	var vbo uint32
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(joints)*8, gl.Ptr(joints), gl.STATIC_DRAW)
	gl.VertexAttribIPointer(AttribJoints, 4, gl.UNSIGNED_SHORT, 8, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(AttribJoints)
	s.buffers = append(s.buffers, vbo)
}

// Bind binds the vertex array
func (s *Shape) Bind() {
	gl.BindVertexArray(s.vao)
}

// BonesPresent reports whether the shape is skinned
func (s *Shape) BonesPresent() bool {
	return s.boned
}

// Material returns material i, or the default material for -1
func (s *Shape) Material(i int) *Material {
	if i < 0 || i >= len(s.Materials) {
		return &s.fallback
	}
	return &s.Materials[i]
}

// Delete releases GL resources
func (s *Shape) Delete() {
	for _, t := range s.textures {
		t.Delete()
	}
	if len(s.buffers) > 0 {
		gl.DeleteBuffers(int32(len(s.buffers)), &s.buffers[0])
	}
	gl.DeleteVertexArrays(1, &s.vao)
	s.textures, s.buffers = nil, nil
}

func flatten2(v []mgl32.Vec2) []float32 {
	out := make([]float32, 0, len(v)*2)
	for _, e := range v {
		out = append(out, e[:]...)
	}
	return out
}

func flatten3(v []mgl32.Vec3) []float32 {
	out := make([]float32, 0, len(v)*3)
	for _, e := range v {
		out = append(out, e[:]...)
	}
	return out
}

func flatten4(v []mgl32.Vec4) []float32 {
	out := make([]float32, 0, len(v)*4)
	for _, e := range v {
		out = append(out, e[:]...)
	}
	return out
}
