package profiling

import (
	"cmp"
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Lightweight per-frame CPU profiler for pipeline stage timings.

var (
	mu          sync.Mutex
	frameTotals = make(map[string]time.Duration)
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("pipeline.ssr")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		frameTotals[name] += d
		mu.Unlock()
	}
}

// ResetFrame clears current per-frame totals. Call at the start of each frame.
func ResetFrame() {
	mu.Lock()
	clear(frameTotals)
	mu.Unlock()
}

// Snapshot returns a copy of current per-frame totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	return maps.Clone(frameTotals)
}

// SumWithPrefix adds up every total whose name starts with prefix.
func SumWithPrefix(prefix string) time.Duration {
	mu.Lock()
	defer mu.Unlock()
	var sum time.Duration
	for k, v := range frameTotals {
		if strings.HasPrefix(k, prefix) {
			sum += v
		}
	}
	return sum
}

type entry struct {
	name string
	dur  time.Duration
}

// sorted returns the current totals, largest first, ties by name
func sorted() []entry {
	mu.Lock()
	list := make([]entry, 0, len(frameTotals))
	for k, v := range frameTotals {
		list = append(list, entry{k, v})
	}
	mu.Unlock()

	slices.SortFunc(list, func(a, b entry) int {
		if c := cmp.Compare(b.dur, a.dur); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})
	return list
}

// TopN formats the n largest totals of the current frame, largest first.
// Example: "pipeline.shadow.point:4.2ms, pipeline.bloom:2.1ms"
func TopN(n int) string {
	list := sorted()
	n = min(n, len(list))
	parts := make([]string, n)
	for i, e := range list[:n] {
		parts[i] = e.name + ":" + formatMs(e.dur)
	}
	return strings.Join(parts, ", ")
}

// formatMs keeps one decimal and drops a trailing ".0"
func formatMs(d time.Duration) string {
	ms := float64(d.Microseconds()) / 1000.0
	s := strconv.FormatFloat(ms, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0") + "ms"
}
