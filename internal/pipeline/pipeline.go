package pipeline

import (
	"fmt"
	"strings"

	"chess-scene/internal/lighting"
	"chess-scene/internal/model"
	"chess-scene/internal/profiling"

	"github.com/go-gl/mathgl/mgl32"
)

// Stage names in render order
const (
	StageShadowPoint = "shadow.point"
	StageShadowDir   = "shadow.dir"
	StageColor       = "color"
	StageSkybox      = "skybox"
	StageSSR         = "ssr"
	StageBloom       = "bloom"
	StageCoC         = "coc"
	StageDOF         = "dof"
	StageBlend       = "blend"
)

// Order is the only valid stage sequence
var Order = []string{
	StageShadowPoint,
	StageShadowDir,
	StageColor,
	StageSkybox,
	StageSSR,
	StageBloom,
	StageCoC,
	StageDOF,
	StageBlend,
}

// Frame carries per-frame state to every stage
type Frame struct {
	Width, Height int
	View          mgl32.Mat4
	Projection    mgl32.Mat4
	CameraPos     mgl32.Vec3

	Models     []*model.Model
	PointLamps []*lighting.PointLamp
	DirLamps   []*lighting.DirLamp
}

// Stage is one step of the frame. It follows the renderable lifecycle: Init once, Render
// every frame, Resize on viewport changes, Dispose on shutdown.
type Stage interface {
	Name() string
	Init() error
	Render(f *Frame)
	Resize(width, height int)
	Dispose()
}

// ProgramUser is implemented by stages that cache state derived from shader programs
// and must refresh it after a reload
type ProgramUser interface {
	ProgramsChanged()
}

// Pipeline runs stages in the fixed order
type Pipeline struct {
	stages []Stage
}

// New checks that stages match Order exactly
func New(stages ...Stage) (*Pipeline, error) {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.Name()
	}
	if strings.Join(names, ",") != strings.Join(Order, ",") {
		return nil, fmt.Errorf("stage order %v, want %v", names, Order)
	}
	return &Pipeline{stages: stages}, nil
}

// Init initializes every stage in order, disposing the already initialized ones on failure
func (p *Pipeline) Init() error {
	for i, s := range p.stages {
		if err := s.Init(); err != nil {
			for j := i - 1; j >= 0; j-- {
				p.stages[j].Dispose()
			}
			return fmt.Errorf("stage %s: %w", s.Name(), err)
		}
	}
	return nil
}

// Render runs every stage, timing each as pipeline.<name>
func (p *Pipeline) Render(f *Frame) {
	for _, s := range p.stages {
		done := profiling.Track("pipeline." + s.Name())
		s.Render(f)
		done()
	}
}

// Resize forwards a viewport change to every stage
func (p *Pipeline) Resize(width, height int) {
	for _, s := range p.stages {
		s.Resize(width, height)
	}
}

// ProgramsChanged notifies stages that cache program state
func (p *Pipeline) ProgramsChanged() {
	for _, s := range p.stages {
		if u, ok := s.(ProgramUser); ok {
			u.ProgramsChanged()
		}
	}
}

// Dispose cleans up all stages in reverse order
func (p *Pipeline) Dispose() {
	for i := len(p.stages) - 1; i >= 0; i-- {
		p.stages[i].Dispose()
	}
}
