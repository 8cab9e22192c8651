package lighting

import (
	"context"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// Mover orbits a point lamp about the world Y axis from a background goroutine, one step
// per tick.
type Mover struct {
	lamp     *PointLamp
	rotation mgl32.Mat3
	tick     time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewMover rotates lamp by stepDegrees every tick
func NewMover(lamp *PointLamp, stepDegrees float32, tick time.Duration) *Mover {
	return &Mover{
		lamp: lamp,
		// applied as row vector times rotation, i.e. the transpose
		rotation: mgl32.Rotate3DY(mgl32.DegToRad(stepDegrees)).Transpose(),
		tick:     tick,
	}
}

// Step applies one rotation
func (m *Mover) Step() {
	m.lamp.Transform(m.rotation)
}

// Start launches the goroutine. It runs until ctx is done or Stop is called.
// Starting a running mover does nothing.
func (m *Mover) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.done != nil {
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	go m.loop(ctx, m.done)
}

func (m *Mover) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(m.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Step()
		}
	}
}

// Stop cancels the goroutine and waits for it to exit. Safe to call more than once.
func (m *Mover) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
