package graphics

import "fmt"

// Blur is a separable ping-pong gaussian blur: the horizontal program renders the source
// into the first target, the vertical program renders that into the second.
type Blur struct {
	hor, ver *Program
	quad     *QuadRenderer
	kernel   []float32

	fbs  [2]*Framebuffer
	texs [2]*Texture2D
}

// NewBlur creates the ping-pong targets with the given format and size
func NewBlur(format Format, width, height int, hor, ver *Program, quad *QuadRenderer) (*Blur, error) {
	b := &Blur{hor: hor, ver: ver, quad: quad}
	for i := range b.fbs {
		b.texs[i] = NewTexture2D(format, width, height, DefaultParams)
		b.fbs[i] = NewFramebuffer()
		b.fbs[i].Bind()
		b.fbs[i].AttachColor(b.texs[i], 0)
		if err := b.fbs[i].Check(); err != nil {
			BindDefault()
			b.Delete()
			return nil, fmt.Errorf("blur target %d: %w", i, err)
		}
	}
	BindDefault()
	return b, nil
}

// ConfigureKernel uploads a gaussian kernel to both programs
func (b *Blur) ConfigureKernel(radius int, sigma float32) {
	b.kernel = GaussianKernel(radius, sigma)
	b.SetPrograms(b.hor, b.ver)
}

// SetPrograms swaps the ping-pong programs, re-uploading the kernel. Used after a shader reload.
func (b *Blur) SetPrograms(hor, ver *Program) {
	b.hor, b.ver = hor, ver
	for _, p := range []*Program{hor, ver} {
		p.Use()
		p.SetInt("image", 0)
		p.SetFloats("kernel", b.kernel)
	}
}

// Apply blurs src and returns the output texture. The caller sets the viewport.
func (b *Blur) Apply(src *Texture2D) *Texture2D {
	b.fbs[0].Bind()
	b.hor.Use()
	src.Use(0)
	b.quad.Draw()

	b.fbs[1].Bind()
	b.ver.Use()
	b.texs[0].Use(0)
	b.quad.Draw()
	return b.texs[1]
}

// Output returns the texture holding the last result
func (b *Blur) Output() *Texture2D {
	return b.texs[1]
}

// Resize resizes both ping-pong targets
func (b *Blur) Resize(width, height int) {
	for _, t := range b.texs {
		t.Resize(width, height)
	}
}

// Delete releases GL resources. Programs and quad are shared and left alone.
func (b *Blur) Delete() {
	for i := range b.fbs {
		if b.fbs[i] != nil {
			b.fbs[i].Delete()
		}
		if b.texs[i] != nil {
			b.texs[i].Delete()
		}
	}
}
