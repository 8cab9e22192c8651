package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFPSLimiterPacesFrames(t *testing.T) {
	f := NewFPSLimiter(100)
	start := time.Now()
	for i := 0; i < 5; i++ {
		f.Wait()
	}
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestFPSLimiterDisabled(t *testing.T) {
	f := NewFPSLimiter(0)
	start := time.Now()
	for i := 0; i < 1000; i++ {
		f.Wait()
	}
	assert.Less(t, time.Since(start), 50*time.Millisecond)
	assert.True(t, f.next.IsZero())
}
