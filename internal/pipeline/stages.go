package pipeline

import (
	"log/slog"

	"chess-scene/internal/config"
	"chess-scene/internal/graphics"
	"chess-scene/internal/lighting"
	"chess-scene/internal/model"
	"chess-scene/internal/shaders"

	"github.com/go-gl/mathgl/mgl32"
)

// Material texture units of the color program
const (
	SlotAmbient = iota
	SlotDiffuse
	SlotSpecular
	SlotNormal
	SlotReflectionStrength
	SlotJitter
)

// Resources are shared by every stage. Programs is replaced on shader reload.
type Resources struct {
	Settings config.Settings
	Programs shaders.Set
	Targets  *Targets
	Bones    *model.BoneBuffer
	Lights   *lighting.Manager
	Quad     *graphics.QuadRenderer
	Cube     *graphics.CubeRenderer
	Skybox   *graphics.TextureCube
	Focus    *Focus
}

// Stages returns the stages in render order
func Stages(r *Resources) []Stage {
	return []Stage{
		&pointShadowStage{stage: stage{r}},
		&dirShadowStage{stage: stage{r}},
		&colorStage{stage: stage{r}},
		&skyboxStage{stage: stage{r}},
		&ssrStage{stage: stage{r}},
		&bloomStage{stage: stage{r}},
		&cocStage{stage: stage{r}},
		&dofStage{stage: stage{r}},
		&blendStage{stage: stage{r}},
	}
}

// stage gives every step access to the shared resources and a no-op lifecycle.
// Targets are owned by the scene, so stages have nothing to allocate or free.
type stage struct{ *Resources }

func (stage) Init() error     { return nil }
func (stage) Resize(int, int) {}
func (stage) Dispose()        {}

func (r *Resources) drawDepth(p *graphics.Program, m *model.Model, matrix mgl32.Mat4) {
	m.Shape.Bind()
	r.Bones.Link(m)
	p.SetBool("bonesEnabled", m.BonesPresent())
	p.SetMat4("transformationMatrix", matrix.Mul4(m.Transform()))
	for _, mesh := range m.Shape.Meshes {
		graphics.DrawElements(mesh.Start, mesh.Count)
	}
}

func (r *Resources) drawColor(p *graphics.Program, m *model.Model, f *Frame) {
	m.Shape.Bind()
	r.Bones.Link(m)
	p.SetBool("bonesEnabled", m.BonesPresent())

	xf := m.Transform()
	mv := f.View.Mul4(xf)
	p.SetMat4("MVPMatrix", f.Projection.Mul4(mv))
	p.SetMat4("MVMatrix", mv)
	p.SetMat4("modelMatrix", xf)
	p.SetMat4("viewMatrix", f.View)

	for _, mesh := range m.Shape.Meshes {
		mat := m.Shape.Material(mesh.Material)
		graphics.UseOrDefault(mat.Ambient, SlotAmbient)
		graphics.UseOrDefault(mat.Diffuse, SlotDiffuse)
		graphics.UseOrDefault(mat.Specular, SlotSpecular)
		graphics.UseOrDefault(mat.Normal, SlotNormal)
		graphics.UseOrDefault(mat.ReflectionStrength, SlotReflectionStrength)
		graphics.UseOrDefault(mat.Jitter, SlotJitter)

		p.SetBool("hasNormalMap", mat.Normal != nil)
		p.SetFloat("ambientStrength", mat.AmbientStrength)
		p.SetFloat("diffuseStrength", mat.DiffuseStrength)
		p.SetFloat("specularStrength", mat.SpecularStrength)
		p.SetFloat("shininess", mat.Shininess)

		graphics.DrawElements(mesh.Start, mesh.Count)
	}
}

type pointShadowStage struct{ stage }

func (s *pointShadowStage) Name() string { return StageShadowPoint }

func (s *pointShadowStage) Render(f *Frame) {
	p := s.Programs[shaders.PointShadow]
	p.Use()
	for i, lamp := range f.PointLamps {
		lamp.BeginShadow()
		lighting.WritePointShadow(p, lamp)
		for _, m := range f.Models {
			s.drawDepth(p, m, mgl32.Ident4())
		}
		for j, other := range f.PointLamps {
			if j != i && other.Model != nil {
				s.drawDepth(p, other.Model, mgl32.Ident4())
			}
		}
	}
}

type dirShadowStage struct{ stage }

func (s *dirShadowStage) Name() string { return StageShadowDir }

func (s *dirShadowStage) Render(f *Frame) {
	p := s.Programs[shaders.DirShadow]
	p.Use()
	for i, lamp := range f.DirLamps {
		lamp.BeginShadow()
		lightSpace := lamp.LightSpaceMatrix()
		for _, m := range f.Models {
			s.drawDepth(p, m, lightSpace)
		}
		for j, other := range f.DirLamps {
			if j != i && other.Model != nil {
				s.drawDepth(p, other.Model, lightSpace)
			}
		}
	}
}

type colorStage struct {
	stage
	configured bool
}

// ProgramsChanged makes the next frame rewrite the light configuration
func (s *colorStage) ProgramsChanged() {
	s.configured = false
}

func (s *colorStage) Name() string { return StageColor }

func (s *colorStage) Render(f *Frame) {
	t := s.Targets
	t.Display.Bind()
	t.Display.UseOutputList(OutputScene)
	graphics.SetViewport(t.Full.W, t.Full.H)
	graphics.ClearColorDepth()

	p := s.Programs[shaders.Color]
	p.Use()
	p.SetInt("ambient", SlotAmbient)
	p.SetInt("diffuse", SlotDiffuse)
	p.SetInt("specular", SlotSpecular)
	p.SetInt("normal", SlotNormal)
	p.SetInt("reflectionStrength", SlotReflectionStrength)
	p.SetInt("jitter", SlotJitter)
	p.SetVec3("cameraPos", f.CameraPos)

	if !s.configured {
		if err := s.Lights.Configure(p, f.PointLamps, f.DirLamps); err != nil {
			slog.Error("light configuration failed", "error", err)
		}
		s.configured = true
	}
	s.Lights.WritePositions(p, f.PointLamps, f.DirLamps)
	s.Lights.BindShadowMaps(f.PointLamps, f.DirLamps)

	for _, m := range f.Models {
		s.drawColor(p, m, f)
	}
	for _, l := range f.PointLamps {
		if l.Model != nil {
			s.drawColor(p, l.Model, f)
		}
	}
	for _, l := range f.DirLamps {
		if l.Model != nil {
			s.drawColor(p, l.Model, f)
		}
	}
}

// Skybox appearance
const (
	SkyboxColor           = 0.125
	SkyboxPositionScaling = 64
)

type skyboxStage struct{ stage }

func (s *skyboxStage) Name() string { return StageSkybox }

func (s *skyboxStage) Render(f *Frame) {
	if s.Skybox == nil {
		return
	}
	s.Targets.Display.UseOutputList(OutputSkybox)

	graphics.DepthLessOrEqual()
	graphics.SetCulling(false)

	rot := f.View.Mat3()
	p := s.Programs[shaders.Skybox]
	p.Use()
	p.SetInt("skybox", 0)
	p.SetVec3("color", mgl32.Vec3{SkyboxColor, SkyboxColor, SkyboxColor})
	p.SetFloat("positionScaling", SkyboxPositionScaling)
	p.SetMat3("viewMatrix", rot)
	p.SetMat4("transformationMatrix", f.Projection.Mul4(rot.Mat4()))
	s.Skybox.Use(0)
	s.Cube.Draw()

	graphics.SetCulling(true)
	graphics.DepthLess()
}

type ssrStage struct{ stage }

func (s *ssrStage) Name() string { return StageSSR }

func (s *ssrStage) Render(f *Frame) {
	t := s.Targets
	t.Screenspace.Bind()
	p := s.Programs[shaders.SSR]
	p.Use()
	p.SetInt("baseImage", 0)
	p.SetInt("normalMap", 1)
	p.SetInt("ssrValuesMap", 2)
	p.SetInt("positionMap", 3)
	p.SetMat4("projection", f.Projection)
	t.Color.Use(0)
	t.Normal.Use(1)
	t.SSRValues.Use(2)
	t.Position.Use(3)
	s.Quad.Draw()
}

type bloomStage struct{ stage }

func (s *bloomStage) ProgramsChanged() {
	s.Targets.BloomBlur.SetPrograms(s.Programs[shaders.BloomBlurHor], s.Programs[shaders.BloomBlurVer])
}

func (s *bloomStage) Name() string { return StageBloom }

func (s *bloomStage) Render(*Frame) {
	t := s.Targets
	graphics.SetViewport(t.Bloom.W, t.Bloom.H)
	t.BloomSearch.Bind()
	p := s.Programs[shaders.BloomSearch]
	p.Use()
	p.SetInt("image", 0)
	p.SetFloat("brightnessThreshold", s.Settings.Post.BloomThreshold)
	t.ScreenspaceTex.Use(0)
	s.Quad.Draw()
	t.BloomBlur.Apply(t.BloomSearchTex)
}

type cocStage struct{ stage }

func (s *cocStage) ProgramsChanged() {
	s.Targets.CocBlur.SetPrograms(s.Programs[shaders.CocBlurHor], s.Programs[shaders.CocBlurVer])
}

func (s *cocStage) Name() string { return StageCoC }

func (s *cocStage) Render(*Frame) {
	t := s.Targets
	post := s.Settings.Post
	graphics.SetViewport(t.DOF.W, t.DOF.H)
	t.CoC.Bind()
	p := s.Programs[shaders.DofCoc]
	p.Use()
	p.SetInt("positionMap", 0)
	p.SetFloat("aperture", post.DofAperture)
	p.SetFloat("imageDistance", post.DofImageDistance)
	p.SetFloat("planeInFocus", s.Focus.Plane())
	p.SetFloat("farPlane", s.Settings.Camera.Far)
	t.Position.Use(0)
	s.Quad.Draw()
	t.CocBlur.Apply(t.CoCTex)
}

type dofStage struct{ stage }

func (s *dofStage) ProgramsChanged() {
	s.Targets.DofBlur.SetPrograms(s.Programs[shaders.DofBlurHor], s.Programs[shaders.DofBlurVer])
}

func (s *dofStage) Name() string { return StageDOF }

func (s *dofStage) Render(*Frame) {
	t := s.Targets
	graphics.SetViewport(t.DOF.W, t.DOF.H)
	t.DofBlur.Apply(t.ScreenspaceTex)
	graphics.SetViewport(t.Full.W, t.Full.H)
}

type blendStage struct{ stage }

func (s *blendStage) Name() string { return StageBlend }

func (s *blendStage) Render(*Frame) {
	t := s.Targets
	post := s.Settings.Post
	graphics.BindDefault()
	graphics.SetViewport(t.Full.W, t.Full.H)
	// the quad covers every pixel, only depth needs clearing
	graphics.ClearDepth()

	p := s.Programs[shaders.Blend]
	p.Use()
	p.SetInt("image", 0)
	p.SetInt("bloom", 1)
	p.SetInt("dof", 2)
	p.SetInt("cocMap", 3)
	p.SetFloat("dofSigmaDivider", post.DofSigmaDivider)
	p.SetFloat("exposure", post.Exposure)
	p.SetFloat("gamma", post.Gamma)
	t.ScreenspaceTex.Use(0)
	t.BloomBlur.Output().Use(1)
	t.DofBlur.Output().Use(2)
	t.CocBlur.Output().Use(3)
	s.Quad.Draw()
}
