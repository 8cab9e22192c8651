package model

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// LoadShapeData opens a .gltf or .glb file and decodes it
func LoadShapeData(path string) (*ShapeData, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	data, err := Decode(doc, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return data, nil
}

// Decode converts a glTF document into shape data. Static meshes are baked into world space;
// skinned meshes stay in bind space and carry the skeleton of the first skin. dir resolves
// external image URIs.
func Decode(doc *gltf.Document, dir string) (*ShapeData, error) {
	d := &ShapeData{}
	images := newImageCache(doc, dir)

	for i, m := range doc.Materials {
		mat, err := decodeMaterial(doc, m, images)
		if err != nil {
			return nil, fmt.Errorf("material %d: %w", i, err)
		}
		d.Materials = append(d.Materials, mat)
	}

	parents := nodeParents(doc)
	world := make([]mgl32.Mat4, len(doc.Nodes))
	for i := range doc.Nodes {
		world[i] = worldMatrix(doc, parents, i)
	}

	for i, node := range doc.Nodes {
		if node.Mesh == nil {
			continue
		}
		xf := world[i]
		if node.Skin != nil {
			xf = mgl32.Ident4()
		}
		if err := d.appendMesh(doc, doc.Meshes[*node.Mesh], xf); err != nil {
			return nil, fmt.Errorf("mesh %q: %w", doc.Meshes[*node.Mesh].Name, err)
		}
	}

	if d.tangentsMissing {
		d.GenerateTangents()
	}

	if len(doc.Skins) > 0 {
		sk, err := decodeSkeleton(doc, parents, doc.Skins[0])
		if err != nil {
			return nil, fmt.Errorf("skin: %w", err)
		}
		d.Skeleton = sk
		for _, a := range doc.Animations {
			clip, err := decodeClip(doc, a)
			if err != nil {
				return nil, fmt.Errorf("animation %q: %w", a.Name, err)
			}
			d.Clips = append(d.Clips, clip)
		}
	}
	return d, nil
}

func (d *ShapeData) appendMesh(doc *gltf.Document, mesh *gltf.Mesh, xf mgl32.Mat4) error {
	normalXf := xf.Mat3().Inv().Transpose()

	for _, p := range mesh.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := p.Attributes[gltf.POSITION]
		if !ok {
			return fmt.Errorf("primitive without positions")
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return err
		}
		base := uint32(len(d.Positions))
		count := len(positions)
		for _, v := range positions {
			d.Positions = append(d.Positions, mgl32.TransformCoordinate(mgl32.Vec3{v[0], v[1], v[2]}, xf))
		}

		if idx, ok := p.Attributes[gltf.NORMAL]; ok {
			normals, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
			if err != nil {
				return err
			}
			for _, n := range normals {
				d.Normals = append(d.Normals, normalXf.Mul3x1(mgl32.Vec3{n[0], n[1], n[2]}).Normalize())
			}
		} else {
			for range count {
				d.Normals = append(d.Normals, mgl32.Vec3{0, 1, 0})
			}
		}

		if idx, ok := p.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
			if err != nil {
				return err
			}
			for _, uv := range uvs {
				d.TexCoords = append(d.TexCoords, mgl32.Vec2{uv[0], uv[1]})
			}
		} else {
			d.TexCoords = append(d.TexCoords, make([]mgl32.Vec2, count)...)
		}

		if idx, ok := p.Attributes[gltf.TANGENT]; ok {
			tangents, err := modeler.ReadTangent(doc, doc.Accessors[idx], nil)
			if err != nil {
				return err
			}
			for _, t := range tangents {
				v := xf.Mat3().Mul3x1(mgl32.Vec3{t[0], t[1], t[2]}).Normalize()
				d.Tangents = append(d.Tangents, v.Vec4(t[3]))
			}
		} else {
			d.Tangents = append(d.Tangents, make([]mgl32.Vec4, count)...)
			d.tangentsMissing = true
		}

		if idx, ok := p.Attributes[gltf.JOINTS_0]; ok {
			joints, err := modeler.ReadJoints(doc, doc.Accessors[idx], nil)
			if err != nil {
				return err
			}
			wIdx, ok := p.Attributes[gltf.WEIGHTS_0]
			if !ok {
				return fmt.Errorf("JOINTS_0 without WEIGHTS_0")
			}
			weights, err := modeler.ReadWeights(doc, doc.Accessors[wIdx], nil)
			if err != nil {
				return err
			}
			d.Joints = append(d.Joints, joints...)
			for _, w := range weights {
				d.Weights = append(d.Weights, mgl32.Vec4{w[0], w[1], w[2], w[3]})
			}
		} else {
			d.Joints = append(d.Joints, make([][4]uint16, count)...)
			d.Weights = append(d.Weights, make([]mgl32.Vec4, count)...)
		}

		start := len(d.Indices)
		if p.Indices != nil {
			indices, err := modeler.ReadIndices(doc, doc.Accessors[*p.Indices], nil)
			if err != nil {
				return err
			}
			for _, i := range indices {
				d.Indices = append(d.Indices, base+i)
			}
		} else {
			for i := range uint32(count) {
				d.Indices = append(d.Indices, base+i)
			}
		}

		material := -1
		if p.Material != nil {
			material = *p.Material
		}
		d.Meshes = append(d.Meshes, MeshRange{Start: start, Count: len(d.Indices) - start, Material: material})
	}
	return nil
}

func decodeMaterial(doc *gltf.Document, m *gltf.Material, images *imageCache) (MaterialData, error) {
	mat := DefaultMaterial()
	mat.Name = m.Name

	var err error
	if pbr := m.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorTexture != nil {
			if mat.Diffuse, err = images.texture(pbr.BaseColorTexture.Index); err != nil {
				return mat, err
			}
			mat.Ambient = mat.Diffuse
		}
		if pbr.MetallicRoughnessTexture != nil {
			if mat.Specular, err = images.texture(pbr.MetallicRoughnessTexture.Index); err != nil {
				return mat, err
			}
		}
		mat.Shininess = shininessFromRoughness(float32(pbr.RoughnessFactorOrDefault()))
	}
	if m.NormalTexture != nil && m.NormalTexture.Index != nil {
		if mat.Normal, err = images.texture(*m.NormalTexture.Index); err != nil {
			return mat, err
		}
	}

	extras, _ := m.Extras.(map[string]any)
	floatExtra := func(key string, dst *float32) {
		if v, ok := extras[key].(float64); ok {
			*dst = float32(v)
		}
	}
	floatExtra("ambientStrength", &mat.AmbientStrength)
	floatExtra("diffuseStrength", &mat.DiffuseStrength)
	floatExtra("specularStrength", &mat.SpecularStrength)
	floatExtra("shininess", &mat.Shininess)

	imageExtra := func(key string, dst *image.Image) error {
		uri, ok := extras[key].(string)
		if !ok {
			return nil
		}
		img, err := images.file(uri)
		if err != nil {
			return err
		}
		*dst = img
		return nil
	}
	if err := imageExtra("reflectionStrengthTexture", &mat.ReflectionStrength); err != nil {
		return mat, err
	}
	if err := imageExtra("jitterTexture", &mat.Jitter); err != nil {
		return mat, err
	}
	if err := imageExtra("specularTexture", &mat.Specular); err != nil {
		return mat, err
	}
	return mat, nil
}

// shininessFromRoughness maps roughness to a Blinn-Phong exponent
func shininessFromRoughness(r float32) float32 {
	r = mgl32.Clamp(r, 0.05, 1)
	return mgl32.Clamp(2/(r*r*r*r)-2, 1, 256)
}

func decodeSkeleton(doc *gltf.Document, parents []int, skin *gltf.Skin) (*Skeleton, error) {
	sk := &Skeleton{
		Names:   make([]string, len(doc.Nodes)),
		Parents: parents,
		Rest:    make([]TRS, len(doc.Nodes)),
		Joints:  append([]int(nil), skin.Joints...),
	}
	for i, n := range doc.Nodes {
		sk.Names[i] = n.Name
		sk.Rest[i] = nodeTRS(n)
	}

	sk.InverseBind = make([]mgl32.Mat4, len(skin.Joints))
	if skin.InverseBindMatrices == nil {
		for i := range sk.InverseBind {
			sk.InverseBind[i] = mgl32.Ident4()
		}
		return sk, nil
	}
	raw, err := modeler.ReadAccessor(doc, doc.Accessors[*skin.InverseBindMatrices], nil)
	if err != nil {
		return nil, err
	}
	matrices, ok := raw.([][4][4]float32)
	if !ok || len(matrices) < len(skin.Joints) {
		return nil, fmt.Errorf("inverse bind matrices: unexpected accessor data %T", raw)
	}
	for i := range sk.InverseBind {
		sk.InverseBind[i] = columnsToMat4(matrices[i])
	}
	return sk, nil
}

func decodeClip(doc *gltf.Document, a *gltf.Animation) (Clip, error) {
	clip := Clip{Name: a.Name}
	for _, ch := range a.Channels {
		if ch.Target.Node == nil || ch.Sampler < 0 || ch.Sampler >= len(a.Samplers) {
			continue
		}
		var path Path
		switch ch.Target.Path {
		case gltf.TRSTranslation:
			path = PathTranslation
		case gltf.TRSRotation:
			path = PathRotation
		case gltf.TRSScale:
			path = PathScale
		default:
			continue
		}
		sampler := a.Samplers[ch.Sampler]

		in, err := modeler.ReadAccessor(doc, doc.Accessors[sampler.Input], nil)
		if err != nil {
			return clip, err
		}
		times, ok := in.([]float32)
		if !ok {
			return clip, fmt.Errorf("sampler input: unexpected accessor data %T", in)
		}
		out, err := modeler.ReadAccessor(doc, doc.Accessors[sampler.Output], nil)
		if err != nil {
			return clip, err
		}

		c := Channel{Node: *ch.Target.Node, Path: path, Times: times}
		if sampler.Interpolation == gltf.InterpolationStep {
			c.Interpolation = InterpolationStep
		}
		switch v := out.(type) {
		case [][3]float32:
			for _, k := range v {
				c.Values = append(c.Values, [4]float32{k[0], k[1], k[2], 0})
			}
		case [][4]float32:
			c.Values = v
		default:
			return clip, fmt.Errorf("sampler output: unexpected accessor data %T", out)
		}
		if len(c.Values) < len(c.Times) {
			return clip, fmt.Errorf("sampler has %d keys but %d values", len(c.Times), len(c.Values))
		}
		if n := len(times); n > 0 && times[n-1] > clip.Duration {
			clip.Duration = times[n-1]
		}
		clip.Channels = append(clip.Channels, c)
	}
	return clip, nil
}

func nodeParents(doc *gltf.Document) []int {
	parents := make([]int, len(doc.Nodes))
	for i := range parents {
		parents[i] = -1
	}
	for i, n := range doc.Nodes {
		for _, c := range n.Children {
			parents[c] = i
		}
	}
	return parents
}

func worldMatrix(doc *gltf.Document, parents []int, i int) mgl32.Mat4 {
	m := nodeMatrix(doc.Nodes[i])
	for p := parents[i]; p >= 0; p = parents[p] {
		m = nodeMatrix(doc.Nodes[p]).Mul4(m)
	}
	return m
}

func nodeMatrix(n *gltf.Node) mgl32.Mat4 {
	if n.Matrix != gltf.DefaultMatrix && n.Matrix != [16]float64{} {
		var m mgl32.Mat4
		for i, v := range n.Matrix {
			m[i] = float32(v)
		}
		return m
	}
	return nodeTRS(n).Matrix()
}

func nodeTRS(n *gltf.Node) TRS {
	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	return TRS{
		Translation: mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])},
		Rotation:    mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}},
		Scale:       mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])},
	}
}

func columnsToMat4(c [4][4]float32) mgl32.Mat4 {
	var m mgl32.Mat4
	for col := range c {
		for row := range c[col] {
			m[col*4+row] = c[col][row]
		}
	}
	return m
}

type imageCache struct {
	doc    *gltf.Document
	dir    string
	byIdx  map[int]image.Image
	byPath map[string]image.Image
}

func newImageCache(doc *gltf.Document, dir string) *imageCache {
	return &imageCache{doc: doc, dir: dir, byIdx: map[int]image.Image{}, byPath: map[string]image.Image{}}
}

func (c *imageCache) texture(textureIdx int) (image.Image, error) {
	tex := c.doc.Textures[textureIdx]
	if tex.Source == nil {
		return nil, nil
	}
	idx := *tex.Source
	if img, ok := c.byIdx[idx]; ok {
		return img, nil
	}
	gi := c.doc.Images[idx]

	var img image.Image
	var err error
	if gi.BufferView != nil {
		var raw []byte
		raw, err = modeler.ReadBufferView(c.doc, c.doc.BufferViews[*gi.BufferView])
		if err == nil {
			img, _, err = image.Decode(bytes.NewReader(raw))
		}
	} else {
		img, err = c.file(gi.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("image %d: %w", idx, err)
	}
	c.byIdx[idx] = img
	return img, nil
}

func (c *imageCache) file(uri string) (image.Image, error) {
	p := filepath.Join(c.dir, filepath.FromSlash(uri))
	if img, ok := c.byPath[p]; ok {
		return img, nil
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", p, err)
	}
	c.byPath[p] = img
	return img, nil
}
