package main

import (
	"testing"

	"chess-scene/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestRestoreRect(t *testing.T) {
	w := config.Default().Window

	// started fullscreen: nothing saved yet
	assert.Equal(t, windowRect{x: 64, y: 64, width: 1366, height: 763}, windowRect{}.restoreRect(w))

	saved := windowRect{x: 10, y: 20, width: 800, height: 600}
	assert.Equal(t, saved, saved.restoreRect(w))
}
