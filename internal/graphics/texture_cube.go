package graphics

import (
	"fmt"
	"path/filepath"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// CubeFaces lists skybox image names in GL face order (+X, -X, +Y, -Y, +Z, -Z)
var CubeFaces = [6]string{"right", "left", "top", "bottom", "front", "back"}

// TextureCube is a GL cube map texture
type TextureCube struct {
	ID     uint32
	Format Format
	Size   int
}

// NewDepthCube allocates a square depth cube map, used for point light shadows
func NewDepthCube(size int) *TextureCube {
	t := &TextureCube{Format: FormatDepth, Size: size}
	gl.GenTextures(1, &t.ID)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, t.ID)
	for face := uint32(0); face < 6; face++ {
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+face, 0, t.Format.Internal, int32(size), int32(size), 0,
			t.Format.Pixel, t.Format.Type, nil)
	}
	applyParams(gl.TEXTURE_CUBE_MAP, ShadowParams)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return t
}

// LoadSkybox loads six images named after CubeFaces with the given extension from dir
func LoadSkybox(dir, ext string) (*TextureCube, error) {
	t := &TextureCube{Format: FormatRGBA8}
	gl.GenTextures(1, &t.ID)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, t.ID)
	defer gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)

	for i, name := range CubeFaces {
		img, err := decodeImageFile(filepath.Join(dir, name+ext))
		if err != nil {
			t.Delete()
			return nil, fmt.Errorf("skybox face %s: %w", name, err)
		}
		rgba := toRGBA(img)
		if rgba.Rect.Dx() != rgba.Rect.Dy() {
			t.Delete()
			return nil, fmt.Errorf("skybox face %s is not square: %dx%d", name, rgba.Rect.Dx(), rgba.Rect.Dy())
		}
		t.Size = rgba.Rect.Dx()
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, gl.RGBA8, int32(t.Size), int32(t.Size), 0,
			gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba.Pix))
	}
	applyParams(gl.TEXTURE_CUBE_MAP, DefaultParams)
	return t, nil
}

// Use binds the cube map to the given texture unit
func (t *TextureCube) Use(slot uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + slot)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, t.ID)
}

// Delete releases the GL texture
func (t *TextureCube) Delete() {
	if t.ID != 0 {
		gl.DeleteTextures(1, &t.ID)
		t.ID = 0
	}
}
