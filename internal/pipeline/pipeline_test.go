package pipeline

import (
	"errors"
	"testing"
	"time"

	"chess-scene/internal/config"
	"chess-scene/internal/profiling"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStage struct {
	name    string
	log     *[]string
	initErr error
	reloads int
}

func (s *fakeStage) Name() string { return s.name }

func (s *fakeStage) Init() error {
	*s.log = append(*s.log, "init "+s.name)
	return s.initErr
}

func (s *fakeStage) Render(*Frame) { *s.log = append(*s.log, "render "+s.name) }

func (s *fakeStage) Resize(int, int) { *s.log = append(*s.log, "resize "+s.name) }

func (s *fakeStage) Dispose() { *s.log = append(*s.log, "dispose "+s.name) }

type reloadingStage struct{ *fakeStage }

func (s reloadingStage) ProgramsChanged() { s.reloads++ }

func fakeStages(log *[]string, names ...string) []Stage {
	out := make([]Stage, len(names))
	for i, n := range names {
		out[i] = &fakeStage{name: n, log: log}
	}
	return out
}

func TestNewRejectsWrongOrder(t *testing.T) {
	var log []string
	_, err := New(fakeStages(&log, StageColor, StageShadowPoint)...)
	assert.Error(t, err)

	swapped := append([]string(nil), Order...)
	swapped[3], swapped[4] = swapped[4], swapped[3]
	_, err = New(fakeStages(&log, swapped...)...)
	assert.Error(t, err)

	_, err = New(fakeStages(&log, Order[:len(Order)-1]...)...)
	assert.Error(t, err)
}

func TestRenderRunsInOrderAndProfiles(t *testing.T) {
	profiling.ResetFrame()
	t.Cleanup(profiling.ResetFrame)

	var log []string
	p, err := New(fakeStages(&log, Order...)...)
	require.NoError(t, err)

	p.Render(&Frame{})
	require.Len(t, log, len(Order))
	for i, name := range Order {
		assert.Equal(t, "render "+name, log[i])
	}

	snap := profiling.Snapshot()
	for _, name := range Order {
		_, ok := snap["pipeline."+name]
		assert.True(t, ok, name)
	}
}

func TestInitFailureDisposesEarlierStages(t *testing.T) {
	var log []string
	stages := fakeStages(&log, Order...)
	stages[2].(*fakeStage).initErr = errors.New("boom")

	p, err := New(stages...)
	require.NoError(t, err)
	err = p.Init()
	require.Error(t, err)
	assert.Contains(t, err.Error(), StageColor)

	assert.Equal(t, []string{
		"init " + StageShadowPoint,
		"init " + StageShadowDir,
		"init " + StageColor,
		"dispose " + StageShadowDir,
		"dispose " + StageShadowPoint,
	}, log)
}

func TestDisposeReverseOrder(t *testing.T) {
	var log []string
	p, err := New(fakeStages(&log, Order...)...)
	require.NoError(t, err)

	p.Resize(10, 10)
	log = log[:0]
	p.Dispose()
	require.Len(t, log, len(Order))
	assert.Equal(t, "dispose "+StageBlend, log[0])
	assert.Equal(t, "dispose "+StageShadowPoint, log[len(log)-1])
}

func TestProgramsChangedReachesOnlyProgramUsers(t *testing.T) {
	var log []string
	stages := fakeStages(&log, Order...)
	bloom := reloadingStage{stages[5].(*fakeStage)}
	stages[5] = bloom

	p, err := New(stages...)
	require.NoError(t, err)
	p.ProgramsChanged()
	p.ProgramsChanged()
	assert.Equal(t, 2, bloom.reloads)
}

func TestPlaneFromDepth(t *testing.T) {
	assert.Equal(t, float32(SkyFocus), PlaneFromDepth(0))
	assert.Equal(t, float32(-7.5), PlaneFromDepth(-7.5))
}

func TestFocusImmediate(t *testing.T) {
	f := NewFocus(InitialFocus, 0)
	assert.Equal(t, float32(InitialFocus), f.Plane())

	f.FocusOn(-12)
	assert.False(t, f.Moving())
	assert.Equal(t, float32(-12), f.Plane())

	f.FocusOn(0)
	assert.Equal(t, float32(SkyFocus), f.Plane())
}

func TestFocusPull(t *testing.T) {
	f := NewFocus(InitialFocus, 400*time.Millisecond)
	f.FocusOn(-9)
	assert.True(t, f.Moving())
	assert.Equal(t, float32(-9), f.Target())
	assert.Equal(t, float32(InitialFocus), f.Plane())

	f.Update(200 * time.Millisecond)
	mid := f.Plane()
	assert.Less(t, mid, float32(InitialFocus))
	assert.Greater(t, mid, float32(-9))
	// ease-out covers more than half the distance in the first half
	assert.Less(t, mid, float32(-5))

	f.Update(300 * time.Millisecond)
	assert.False(t, f.Moving())
	assert.Equal(t, float32(-9), f.Plane())
}

func TestSizes(t *testing.T) {
	post := config.Post{BloomK: 0.5, DofK: 0.25}
	full, bloom, dof := Sizes(1366, 763, post)
	assert.Equal(t, Size{1366, 763}, full)
	assert.Equal(t, Size{683, 381}, bloom)
	assert.Equal(t, Size{341, 190}, dof)

	_, bloom, dof = Sizes(1, 1, post)
	assert.Equal(t, Size{1, 1}, bloom)
	assert.Equal(t, Size{1, 1}, dof)
}
