package profiling

import "time"

// FPSReport is produced once per measured interval
type FPSReport struct {
	Frames     int
	FPS        float64
	FrameTime  time.Duration
	TopEntries string
}

// FPSCounter counts frames and reports once per interval, keeping totals for the
// average printed on exit.
type FPSCounter struct {
	interval time.Duration
	start    time.Time
	frames   int

	totalFrames int
	passes      int
}

// NewFPSCounter creates a counter reporting every interval, starting at now
func NewFPSCounter(interval time.Duration, now time.Time) *FPSCounter {
	return &FPSCounter{interval: interval, start: now}
}

// Frame registers one frame at now. It returns a report and true when an interval has elapsed.
func (c *FPSCounter) Frame(now time.Time) (FPSReport, bool) {
	c.frames++
	elapsed := now.Sub(c.start)
	if elapsed < c.interval {
		return FPSReport{}, false
	}

	r := FPSReport{
		Frames:     c.frames,
		FPS:        float64(c.frames) / elapsed.Seconds(),
		FrameTime:  elapsed / time.Duration(c.frames),
		TopEntries: TopN(3),
	}
	c.totalFrames += c.frames
	c.passes++
	c.frames = 0
	c.start = now
	return r, true
}

// Average returns the mean frames per interval and the matching frame time.
// Both are zero before the first full interval.
func (c *FPSCounter) Average() (float64, time.Duration) {
	if c.passes == 0 || c.totalFrames == 0 {
		return 0, 0
	}
	avg := float64(c.totalFrames) / float64(c.passes)
	return avg, time.Duration(float64(c.interval) / avg)
}
