package capture

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func TestDepthImageFlipsAndClamps(t *testing.T) {
	// bottom row first
	depth := []float32{
		0, 1,
		-0.5, 2,
		0.5, 0.25,
	}
	img := DepthImage(depth, 2, 3)

	assert.Equal(t, uint8(128), img.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(64), img.GrayAt(1, 0).Y)
	assert.Equal(t, uint8(0), img.GrayAt(0, 1).Y)
	assert.Equal(t, uint8(255), img.GrayAt(1, 1).Y)
	assert.Equal(t, uint8(0), img.GrayAt(0, 2).Y)
	assert.Equal(t, uint8(255), img.GrayAt(1, 2).Y)
}

func TestWriteDepthRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dir_depth.bmp")
	require.NoError(t, WriteDepth(path, []float32{0, 1, 1, 0}, 2, 2))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := bmp.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
	r, _, _, _ := img.At(1, 0).RGBA()
	assert.Equal(t, uint32(0), r)
	r, _, _, _ = img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
}

func TestWriteDepthShortBuffer(t *testing.T) {
	err := WriteDepth(filepath.Join(t.TempDir(), "x.bmp"), []float32{0}, 2, 2)
	assert.Error(t, err)
}
