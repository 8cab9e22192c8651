package profiling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func record(name string, d time.Duration) {
	mu.Lock()
	frameTotals[name] += d
	mu.Unlock()
}

func TestSumWithPrefixAndTopN(t *testing.T) {
	ResetFrame()
	t.Cleanup(ResetFrame)

	record("pipeline.shadow.point", 4200*time.Microsecond)
	record("pipeline.bloom", 2*time.Millisecond)
	record("pipeline.blend", 500*time.Microsecond)
	record("scene.update", time.Millisecond)

	assert.Equal(t, 6700*time.Microsecond, SumWithPrefix("pipeline."))
	assert.Equal(t, "pipeline.shadow.point:4.2ms, pipeline.bloom:2ms", TopN(2))
	assert.Len(t, Snapshot(), 4)

	ResetFrame()
	assert.Empty(t, Snapshot())
	assert.Equal(t, "", TopN(3))
}

func TestTrackAccumulates(t *testing.T) {
	ResetFrame()
	t.Cleanup(ResetFrame)

	Track("x")()
	Track("x")()
	_, ok := Snapshot()["x"]
	assert.True(t, ok)
}

func TestFPSCounter(t *testing.T) {
	start := time.Unix(0, 0)
	c := NewFPSCounter(time.Second, start)

	for i := 1; i < 60; i++ {
		_, ok := c.Frame(start.Add(time.Duration(i) * 16 * time.Millisecond))
		assert.False(t, ok)
	}
	r, ok := c.Frame(start.Add(time.Second))
	assert.True(t, ok)
	assert.Equal(t, 60, r.Frames)
	assert.InDelta(t, 60.0, r.FPS, 0.001)
	assert.Equal(t, time.Second/60, r.FrameTime)

	avg, ft := c.Average()
	assert.InDelta(t, 60.0, avg, 0.001)
	assert.InDelta(t, float64(time.Second/60), float64(ft), float64(time.Microsecond))
}

func TestFPSCounterAverageBeforeFirstReport(t *testing.T) {
	c := NewFPSCounter(time.Second, time.Now())
	avg, ft := c.Average()
	assert.Zero(t, avg)
	assert.Zero(t, ft)
}
