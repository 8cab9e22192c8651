package graphics

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Format describes the internal storage of a texture
type Format struct {
	Internal int32
	Pixel    uint32
	Type     uint32
}

// Texture formats used by the render targets
var (
	FormatRGB16F = Format{gl.RGB16F, gl.RGB, gl.FLOAT}
	FormatRG16F  = Format{gl.RG16F, gl.RG, gl.FLOAT}
	FormatR16F   = Format{gl.R16F, gl.RED, gl.FLOAT}
	FormatRGBA8  = Format{gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE}
	FormatDepth  = Format{gl.DEPTH_COMPONENT, gl.DEPTH_COMPONENT, gl.FLOAT}
)

// Params are the sampling parameters applied at creation
type Params struct {
	MinFilter int32
	MagFilter int32
	Wrap      int32
}

// DefaultParams is linear filtering with edge clamping, used by every render target
var DefaultParams = Params{MinFilter: gl.LINEAR, MagFilter: gl.LINEAR, Wrap: gl.CLAMP_TO_EDGE}

// ShadowParams is nearest filtering with edge clamping, used by depth maps
var ShadowParams = Params{MinFilter: gl.NEAREST, MagFilter: gl.NEAREST, Wrap: gl.CLAMP_TO_EDGE}

// Texture2D is a GL 2D texture with its current size
type Texture2D struct {
	ID     uint32
	Format Format
	Width  int
	Height int
}

// NewTexture2D allocates an empty texture of the given format and size
func NewTexture2D(format Format, width, height int, params Params) *Texture2D {
	t := &Texture2D{Format: format}
	gl.GenTextures(1, &t.ID)
	gl.BindTexture(gl.TEXTURE_2D, t.ID)
	applyParams(gl.TEXTURE_2D, params)
	t.Resize(width, height)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t
}

// Resize reallocates the storage. Contents are lost.
func (t *Texture2D) Resize(width, height int) {
	t.Width, t.Height = width, height
	gl.BindTexture(gl.TEXTURE_2D, t.ID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, t.Format.Internal, int32(width), int32(height), 0,
		t.Format.Pixel, t.Format.Type, nil)
}

// Use binds the texture to the given texture unit
func (t *Texture2D) Use(slot uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + slot)
	gl.BindTexture(gl.TEXTURE_2D, t.ID)
}

// Delete releases the GL texture
func (t *Texture2D) Delete() {
	if t.ID != 0 {
		gl.DeleteTextures(1, &t.ID)
		t.ID = 0
	}
}

// NewTexture2DFromImage uploads an image as an RGBA8 texture with mipmaps
func NewTexture2DFromImage(img image.Image) *Texture2D {
	rgba := toRGBA(img)
	t := &Texture2D{Format: FormatRGBA8, Width: rgba.Rect.Dx(), Height: rgba.Rect.Dy()}

	gl.GenTextures(1, &t.ID)
	gl.BindTexture(gl.TEXTURE_2D, t.ID)
	applyParams(gl.TEXTURE_2D, Params{MinFilter: gl.LINEAR_MIPMAP_LINEAR, MagFilter: gl.LINEAR, Wrap: gl.REPEAT})
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(t.Width), int32(t.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t
}

var defaultTexture *Texture2D

// DefaultTexture returns the shared 1x1 white texture bound to material slots without a map
func DefaultTexture() *Texture2D {
	if defaultTexture == nil {
		white := image.NewRGBA(image.Rect(0, 0, 1, 1))
		white.Pix = []uint8{255, 255, 255, 255}
		defaultTexture = NewTexture2DFromImage(white)
	}
	return defaultTexture
}

// UseOrDefault binds t, or the default texture when t is nil
func UseOrDefault(t *Texture2D, slot uint32) {
	if t == nil {
		t = DefaultTexture()
	}
	t.Use(slot)
}

func decodeImageFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	rgba := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba
}

func applyParams(target uint32, p Params) {
	gl.TexParameteri(target, gl.TEXTURE_WRAP_S, p.Wrap)
	gl.TexParameteri(target, gl.TEXTURE_WRAP_T, p.Wrap)
	if target == gl.TEXTURE_CUBE_MAP {
		gl.TexParameteri(target, gl.TEXTURE_WRAP_R, p.Wrap)
	}
	gl.TexParameteri(target, gl.TEXTURE_MIN_FILTER, p.MinFilter)
	gl.TexParameteri(target, gl.TEXTURE_MAG_FILTER, p.MagFilter)
}
