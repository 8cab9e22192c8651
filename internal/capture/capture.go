// Package capture writes depth buffers to image files for inspection
package capture

import (
	"fmt"
	"image"
	"os"

	"golang.org/x/image/bmp"
)

// DepthImage converts GL depth values (bottom row first, 0..1) to a top-down gray image
func DepthImage(depth []float32, width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := depth[(height-1-y)*width:]
		row := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			row[x] = toByte(src[x])
		}
	}
	return img
}

func toByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}

// WriteBMP encodes img to path
func WriteBMP(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := bmp.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// WriteDepth converts and writes a depth buffer in one step
func WriteDepth(path string, depth []float32, width, height int) error {
	if len(depth) < width*height {
		return fmt.Errorf("depth buffer has %d values, want %d", len(depth), width*height)
	}
	return WriteBMP(path, DepthImage(depth, width, height))
}
