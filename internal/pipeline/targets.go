package pipeline

import (
	"fmt"

	"chess-scene/internal/config"
	"chess-scene/internal/graphics"
	"chess-scene/internal/shaders"
)

// Size is a viewport size in pixels
type Size struct{ W, H int }

// Sizes returns the full, bloom and DOF target sizes for a window
func Sizes(width, height int, post config.Post) (full, bloom, dof Size) {
	full = Size{width, height}
	bloom.W, bloom.H = graphics.ScaledSize(width, height, post.BloomK)
	dof.W, dof.H = graphics.ScaledSize(width, height, post.DofK)
	return full, bloom, dof
}

// Color attachment indices of the display framebuffer
const (
	AttachColor     = 0
	AttachNormal    = 1
	AttachPosition  = 2
	AttachSSRValues = 3
)

// Display framebuffer output lists
const (
	OutputScene  = 0
	OutputSkybox = 1
)

// Targets owns every render target of the frame
type Targets struct {
	post config.Post

	Display   *graphics.Framebuffer
	Color     *graphics.Texture2D
	Normal    *graphics.Texture2D
	Position  *graphics.Texture2D
	SSRValues *graphics.Texture2D

	Screenspace    *graphics.Framebuffer
	ScreenspaceTex *graphics.Texture2D

	BloomSearch    *graphics.Framebuffer
	BloomSearchTex *graphics.Texture2D

	CoC    *graphics.Framebuffer
	CoCTex *graphics.Texture2D

	BloomBlur *graphics.Blur
	CocBlur   *graphics.Blur
	DofBlur   *graphics.Blur

	Full, Bloom, DOF Size
}

// NewTargets allocates all targets for a window of the given size
func NewTargets(width, height int, post config.Post, programs shaders.Set, quad *graphics.QuadRenderer) (*Targets, error) {
	t := &Targets{post: post}
	t.Full, t.Bloom, t.DOF = Sizes(width, height, post)
	full, bloom, dof := t.Full, t.Bloom, t.DOF

	rgb := func(s Size) *graphics.Texture2D {
		return graphics.NewTexture2D(graphics.FormatRGB16F, s.W, s.H, graphics.DefaultParams)
	}

	t.Color, t.Normal, t.Position = rgb(full), rgb(full), rgb(full)
	t.SSRValues = graphics.NewTexture2D(graphics.FormatRG16F, full.W, full.H, graphics.DefaultParams)
	t.ScreenspaceTex = rgb(full)
	t.BloomSearchTex = rgb(bloom)
	t.CoCTex = graphics.NewTexture2D(graphics.FormatR16F, dof.W, dof.H, graphics.DefaultParams)

	t.Display = graphics.NewFramebuffer()
	t.Display.Bind()
	t.Display.AttachDepthRenderbuffer(full.W, full.H)
	t.Display.AttachColor(t.Color, AttachColor)
	t.Display.AttachColor(t.Normal, AttachNormal)
	t.Display.AttachColor(t.Position, AttachPosition)
	t.Display.AttachColor(t.SSRValues, AttachSSRValues)
	t.Display.SetOutputLists(
		graphics.OutputList{AttachColor, AttachNormal, AttachPosition, AttachSSRValues},
		graphics.OutputList{AttachColor, AttachPosition},
	)
	t.Display.UseOutputList(OutputScene)
	if err := t.Display.Check(); err != nil {
		graphics.BindDefault()
		t.Dispose()
		return nil, fmt.Errorf("display: %w", err)
	}

	single := func(tex *graphics.Texture2D, name string) (*graphics.Framebuffer, error) {
		fb := graphics.NewFramebuffer()
		fb.Bind()
		fb.AttachColor(tex, 0)
		if err := fb.Check(); err != nil {
			fb.Delete()
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return fb, nil
	}
	var err error
	if t.Screenspace, err = single(t.ScreenspaceTex, "screenspace"); err == nil {
		if t.BloomSearch, err = single(t.BloomSearchTex, "bloom search"); err == nil {
			t.CoC, err = single(t.CoCTex, "coc")
		}
	}
	graphics.BindDefault()
	if err != nil {
		t.Dispose()
		return nil, err
	}

	if t.BloomBlur, err = graphics.NewBlur(graphics.FormatRGB16F, bloom.W, bloom.H,
		programs[shaders.BloomBlurHor], programs[shaders.BloomBlurVer], quad); err != nil {
		t.Dispose()
		return nil, fmt.Errorf("bloom blur: %w", err)
	}
	if t.CocBlur, err = graphics.NewBlur(graphics.FormatR16F, dof.W, dof.H,
		programs[shaders.CocBlurHor], programs[shaders.CocBlurVer], quad); err != nil {
		t.Dispose()
		return nil, fmt.Errorf("coc blur: %w", err)
	}
	if t.DofBlur, err = graphics.NewBlur(graphics.FormatRGB16F, dof.W, dof.H,
		programs[shaders.DofBlurHor], programs[shaders.DofBlurVer], quad); err != nil {
		t.Dispose()
		return nil, fmt.Errorf("dof blur: %w", err)
	}
	t.ConfigureKernels(programs)
	return t, nil
}

// ConfigureKernels uploads blur kernels to the current blur programs
func (t *Targets) ConfigureKernels(programs shaders.Set) {
	t.BloomBlur.SetPrograms(programs[shaders.BloomBlurHor], programs[shaders.BloomBlurVer])
	t.BloomBlur.ConfigureKernel(t.post.BloomKernel.Radius, t.post.BloomKernel.Sigma)
	t.CocBlur.SetPrograms(programs[shaders.CocBlurHor], programs[shaders.CocBlurVer])
	t.CocBlur.ConfigureKernel(t.post.CocKernel.Radius, t.post.CocKernel.Sigma)
	t.DofBlur.SetPrograms(programs[shaders.DofBlurHor], programs[shaders.DofBlurVer])
	t.DofBlur.ConfigureKernel(t.post.DofKernel.Radius, t.post.DofKernel.Sigma)
}

// Resize reallocates every target for a new window size
func (t *Targets) Resize(width, height int) {
	t.Full, t.Bloom, t.DOF = Sizes(width, height, t.post)
	t.Display.Resize(t.Full.W, t.Full.H)
	t.Screenspace.Resize(t.Full.W, t.Full.H)
	t.BloomSearch.Resize(t.Bloom.W, t.Bloom.H)
	t.CoC.Resize(t.DOF.W, t.DOF.H)
	t.BloomBlur.Resize(t.Bloom.W, t.Bloom.H)
	t.CocBlur.Resize(t.DOF.W, t.DOF.H)
	t.DofBlur.Resize(t.DOF.W, t.DOF.H)
}

// Dispose releases every target that was created
func (t *Targets) Dispose() {
	for _, b := range []*graphics.Blur{t.BloomBlur, t.CocBlur, t.DofBlur} {
		if b != nil {
			b.Delete()
		}
	}
	for _, fb := range []*graphics.Framebuffer{t.Display, t.Screenspace, t.BloomSearch, t.CoC} {
		if fb != nil {
			fb.Delete()
		}
	}
	for _, tex := range []*graphics.Texture2D{t.Color, t.Normal, t.Position, t.SSRValues, t.ScreenspaceTex, t.BloomSearchTex, t.CoCTex} {
		if tex != nil {
			tex.Delete()
		}
	}
}
