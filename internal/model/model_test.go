package model

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vecInDelta(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-4, "component %d of %v", i, got)
	}
}

// root at (0,1,0) with one child joint at (1,0,0)
func testSkeleton() *Skeleton {
	root, child := IdentityTRS(), IdentityTRS()
	root.Translation = mgl32.Vec3{0, 1, 0}
	child.Translation = mgl32.Vec3{1, 0, 0}
	return &Skeleton{
		Names:       []string{"Root", "Head"},
		Parents:     []int{-1, 0},
		Rest:        []TRS{root, child},
		Joints:      []int{0, 1},
		InverseBind: []mgl32.Mat4{mgl32.Ident4(), mgl32.Ident4()},
	}
}

func testShape() *Shape {
	return &Shape{
		Skeleton: testSkeleton(),
		boned:    true,
		Clips: []Clip{
			{Name: "walk", Duration: 1, Channels: []Channel{{
				Node: 1, Path: PathTranslation,
				Times:  []float32{0, 1},
				Values: [][4]float32{{0, 0, 0}, {2, 0, 0}},
			}}},
			{Name: "idle", Duration: 1, Channels: []Channel{{
				Node: 1, Path: PathTranslation, Interpolation: InterpolationStep,
				Times:  []float32{0, 1},
				Values: [][4]float32{{0, 0, 0}, {0, 0, 0}},
			}}},
		},
	}
}

func TestClipSampleLinearAndLoop(t *testing.T) {
	sh := testShape()
	out := make([]TRS, 2)

	sh.Clips[0].Sample(0.5, sh.Skeleton.Rest, out)
	vecInDelta(t, mgl32.Vec3{1, 0, 0}, out[1].Translation)
	vecInDelta(t, mgl32.Vec3{0, 1, 0}, out[0].Translation)

	sh.Clips[0].Sample(1.25, sh.Skeleton.Rest, out)
	vecInDelta(t, mgl32.Vec3{0.5, 0, 0}, out[1].Translation)
}

func TestClipSampleStep(t *testing.T) {
	c := Clip{Duration: 2, Channels: []Channel{{
		Node: 0, Path: PathScale, Interpolation: InterpolationStep,
		Times:  []float32{0, 1, 2},
		Values: [][4]float32{{1, 1, 1}, {3, 3, 3}, {5, 5, 5}},
	}}}
	out := make([]TRS, 1)
	c.Sample(0.99, []TRS{IdentityTRS()}, out)
	vecInDelta(t, mgl32.Vec3{1, 1, 1}, out[0].Scale)
	c.Sample(1.5, []TRS{IdentityTRS()}, out)
	vecInDelta(t, mgl32.Vec3{3, 3, 3}, out[0].Scale)
}

func TestClipSampleRotationSlerp(t *testing.T) {
	q := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	c := Clip{Duration: 1, Channels: []Channel{{
		Node: 0, Path: PathRotation,
		Times:  []float32{0, 1},
		Values: [][4]float32{{0, 0, 0, 1}, {q.V[0], q.V[1], q.V[2], q.W}},
	}}}
	out := make([]TRS, 1)
	c.Sample(0.5, []TRS{IdentityTRS()}, out)

	got := out[0].Rotation.Rotate(mgl32.Vec3{1, 0, 0})
	want := mgl32.QuatRotate(mgl32.DegToRad(45), mgl32.Vec3{0, 1, 0}).Rotate(mgl32.Vec3{1, 0, 0})
	vecInDelta(t, want, got)
}

func TestModelAnimateSingleClip(t *testing.T) {
	m := NewModel(testShape())
	require.True(t, m.BonesPresent())
	require.NotNil(t, m.Animator)

	m.Animate(0.5)
	vecInDelta(t, mgl32.Vec3{1, 1, 0}, m.Bones()[1].Col(3).Vec3())
	vecInDelta(t, mgl32.Vec3{0, 1, 0}, m.Bones()[0].Col(3).Vec3())
}

func TestModelBlendClips(t *testing.T) {
	m := NewModel(testShape())
	require.NoError(t, m.BlendClips(0, 1, 0.25))

	m.Animate(1) // wraps to 0 for clip 0
	vecInDelta(t, mgl32.Vec3{0, 1, 0}, m.Bones()[1].Col(3).Vec3())

	m.Animate(0.5)
	// clip 0 gives x=1, clip 1 gives x=0; factor 0.25 towards clip 1
	vecInDelta(t, mgl32.Vec3{0.75, 1, 0}, m.Bones()[1].Col(3).Vec3())

	assert.Error(t, m.BlendClips(0, 2, 0.5))
}

func TestBlenderFactorClamped(t *testing.T) {
	sh := testShape()
	b := NewAnimationBlender(NewAnimator(sh.Skeleton, sh.Clips), 0, 1, 0.25)
	b.ChangeFactor(-0.025)
	assert.InDelta(t, 0.225, b.Factor(), 1e-6)
	b.ChangeFactor(-5)
	assert.Zero(t, b.Factor())
	b.ChangeFactor(5)
	assert.Equal(t, float32(1), b.Factor())
}

func TestSetBoneTransform(t *testing.T) {
	m := NewModel(testShape())
	r := EulerRotator{}
	r.ChangeRotation(mgl32.Vec3{0, mgl32.DegToRad(90), 0})
	require.NoError(t, m.SetBoneTransform("Head", r.Matrix()))
	assert.Error(t, m.SetBoneTransform("Tail", mgl32.Ident4()))

	m.Animate(0)
	// clip 0 puts the head at the root at t=0; +X along the bone turns to -Z after the yaw
	p := m.Bones()[1].Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	vecInDelta(t, mgl32.Vec3{0, 1, -1}, p)
}

func TestStaticModelHasNoBones(t *testing.T) {
	m := NewModel(&Shape{})
	assert.False(t, m.BonesPresent())
	assert.Error(t, m.SetBoneTransform("Head", mgl32.Ident4()))
	m.Animate(1)

	m.Position = mgl32.Vec3{0, 8, 15}
	vecInDelta(t, mgl32.Vec3{0, 8, 15}, m.Transform().Col(3).Vec3())
}

func TestBlockStride(t *testing.T) {
	assert.Equal(t, 4096, BlockStride(64, 256))
	assert.Equal(t, 768, BlockStride(10, 256))
	assert.Equal(t, 640, BlockStride(10, 0))
}

func TestPackBones(t *testing.T) {
	dst := make([]float32, 32)
	n := packBones([]mgl32.Mat4{mgl32.Ident4(), mgl32.Translate3D(1, 2, 3)}, dst)
	assert.Equal(t, 32, n)
	assert.Equal(t, float32(1), dst[0])
	assert.Equal(t, []float32{1, 2, 3, 1}, dst[28:32])
}

func TestGenerateTangents(t *testing.T) {
	d := &ShapeData{
		Positions: []mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 0, -1}},
		Normals:   []mgl32.Vec3{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}},
		TexCoords: []mgl32.Vec2{{0, 0}, {1, 0}, {0, 1}},
		Indices:   []uint32{0, 1, 2},
	}
	d.GenerateTangents()
	require.Len(t, d.Tangents, 3)
	for _, tan := range d.Tangents {
		vecInDelta(t, mgl32.Vec3{1, 0, 0}, tan.Vec3())
		assert.Equal(t, float32(1), tan.W())
	}
}

func TestDecodeStaticMeshBakesNodeTransform(t *testing.T) {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{gltf.POSITION: pos},
		}},
	}}
	doc.Nodes = []*gltf.Node{{
		Name:        "board",
		Mesh:        gltf.Index(0),
		Translation: [3]float64{0, 0, 5},
		Rotation:    [4]float64{0, 0, 0, 1},
		Scale:       [3]float64{1, 1, 1},
	}}

	d, err := Decode(doc, t.TempDir())
	require.NoError(t, err)
	require.Len(t, d.Positions, 3)
	vecInDelta(t, mgl32.Vec3{1, 0, 5}, d.Positions[1])
	assert.Equal(t, []uint32{0, 1, 2}, d.Indices)
	assert.Equal(t, []MeshRange{{Start: 0, Count: 3, Material: -1}}, d.Meshes)
	assert.Len(t, d.Tangents, 3)
	assert.False(t, d.BonesPresent())
	assert.Nil(t, d.Skeleton)
}

func TestShininessFromRoughness(t *testing.T) {
	assert.Equal(t, float32(1), shininessFromRoughness(1))
	assert.Equal(t, float32(256), shininessFromRoughness(0))
	assert.InDelta(t, 30, shininessFromRoughness(0.5), 1e-4)
}

// skinnedDocument is a triangle skinned to Root (0,1,0) and its child Head (1,0,0), with
// one clip moving Head along X over two seconds and turning Root 90 degrees about Y in one.
func skinnedDocument(withWeights bool) *gltf.Document {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 1, 0}, {1, 1, 0}, {0, 2, 0}})
	attrs := map[string]int{
		gltf.POSITION: pos,
		gltf.JOINTS_0: modeler.WriteJoints(doc, [][4]uint16{{0, 0, 0, 0}, {1, 0, 0, 0}, {0, 0, 0, 0}}),
	}
	if withWeights {
		attrs[gltf.WEIGHTS_0] = modeler.WriteWeights(doc, [][4]float32{{1, 0, 0, 0}, {1, 0, 0, 0}, {1, 0, 0, 0}})
	}
	doc.Meshes = []*gltf.Mesh{{Name: "body", Primitives: []*gltf.Primitive{{Attributes: attrs}}}}

	doc.Nodes = []*gltf.Node{
		{Name: "Body", Mesh: gltf.Index(0), Skin: gltf.Index(0)},
		{Name: "Root", Translation: [3]float64{0, 1, 0}, Children: []int{2}},
		{Name: "Head", Translation: [3]float64{1, 0, 0}},
	}

	ibm := modeler.WriteAccessor(doc, gltf.TargetNone, [][4][4]float32{
		{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, -1, 0, 1}},
		{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {-1, -1, 0, 1}},
	})
	doc.Skins = []*gltf.Skin{{Name: "rig", Joints: []int{1, 2}, InverseBindMatrices: gltf.Index(ibm)}}

	q := mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0})
	moveIn := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 2})
	moveOut := modeler.WriteAccessor(doc, gltf.TargetNone, [][3]float32{{1, 0, 0}, {3, 0, 0}})
	turnIn := modeler.WriteAccessor(doc, gltf.TargetNone, []float32{0, 1})
	turnOut := modeler.WriteAccessor(doc, gltf.TargetNone, [][4]float32{{0, 0, 0, 1}, {q.V[0], q.V[1], q.V[2], q.W}})
	doc.Animations = []*gltf.Animation{{
		Name: "wave",
		Samplers: []*gltf.AnimationSampler{
			{Input: moveIn, Output: moveOut},
			{Input: turnIn, Output: turnOut},
		},
		Channels: []*gltf.AnimationChannel{
			{Sampler: 0, Target: gltf.AnimationChannelTarget{Node: gltf.Index(2), Path: gltf.TRSTranslation}},
			{Sampler: 1, Target: gltf.AnimationChannelTarget{Node: gltf.Index(1), Path: gltf.TRSRotation}},
			{Sampler: 5, Target: gltf.AnimationChannelTarget{Node: gltf.Index(1), Path: gltf.TRSScale}},
		},
	}}
	return doc
}

func TestDecodeSkinnedMeshWithClip(t *testing.T) {
	d, err := Decode(skinnedDocument(true), t.TempDir())
	require.NoError(t, err)
	require.True(t, d.BonesPresent())

	sk := d.Skeleton
	assert.Equal(t, []int{1, 2}, sk.Joints)
	assert.Equal(t, []int{-1, -1, 1}, sk.Parents)
	assert.Equal(t, 2, sk.NodeIndex("Head"))
	require.Len(t, sk.InverseBind, 2)
	vecInDelta(t, mgl32.Vec3{-1, -1, 0}, sk.InverseBind[1].Col(3).Vec3())

	// skinned vertices stay in bind space
	vecInDelta(t, mgl32.Vec3{1, 1, 0}, d.Positions[1])
	assert.Equal(t, [4]uint16{1, 0, 0, 0}, d.Joints[1])

	require.Len(t, d.Clips, 1)
	clip := d.Clips[0]
	assert.Equal(t, "wave", clip.Name)
	assert.Equal(t, float32(2), clip.Duration)
	require.Len(t, clip.Channels, 2, "channel with a missing sampler is skipped")

	local := make([]TRS, len(sk.Rest))
	clip.Sample(1, sk.Rest, local)
	vecInDelta(t, mgl32.Vec3{2, 0, 0}, local[2].Translation)

	bones := make([]mgl32.Mat4, sk.BoneCount())
	sk.Pose(local, nil, bones)
	// the bind position of Head follows Root's quarter turn: +X becomes -Z
	vecInDelta(t, mgl32.Vec3{0, 1, -2}, bones[1].Mul4x1(mgl32.Vec4{1, 1, 0, 1}).Vec3())
	vecInDelta(t, mgl32.Vec3{0, 1, 0}, bones[0].Mul4x1(mgl32.Vec4{0, 1, 0, 1}).Vec3())
}

func TestDecodeJointsWithoutWeights(t *testing.T) {
	_, err := Decode(skinnedDocument(false), t.TempDir())
	assert.ErrorContains(t, err, "JOINTS_0 without WEIGHTS_0")
}
