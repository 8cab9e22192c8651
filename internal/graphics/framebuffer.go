package graphics

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// OutputList is a set of color attachment indices written by one sub-pass
type OutputList []uint32

// DrawBuffers converts the list to GL draw buffer enums
func (l OutputList) DrawBuffers() []uint32 {
	bufs := make([]uint32, len(l))
	for i, idx := range l {
		bufs[i] = gl.COLOR_ATTACHMENT0 + idx
	}
	return bufs
}

// Framebuffer is a GL framebuffer object with its color attachments, an optional depth
// renderbuffer and output lists switched per sub-pass.
type Framebuffer struct {
	ID uint32

	colors      map[uint32]*Texture2D
	depthRBO    uint32
	outputLists []OutputList
}

// NewFramebuffer creates an empty framebuffer with a single output list targeting attachment 0
func NewFramebuffer() *Framebuffer {
	fb := &Framebuffer{colors: make(map[uint32]*Texture2D), outputLists: []OutputList{{0}}}
	gl.GenFramebuffers(1, &fb.ID)
	return fb
}

// Bind makes the framebuffer the draw target
func (fb *Framebuffer) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb.ID)
}

// BindDefault makes the window framebuffer the draw target
func BindDefault() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// AttachColor attaches t as color attachment idx. The framebuffer must be bound.
func (fb *Framebuffer) AttachColor(t *Texture2D, idx uint32) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0+idx, gl.TEXTURE_2D, t.ID, 0)
	fb.colors[idx] = t
}

// AttachDepthTexture attaches a 2D depth texture and disables color output
func (fb *Framebuffer) AttachDepthTexture(t *Texture2D) {
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, t.ID, 0)
	fb.depthOnly()
}

// AttachDepthCube attaches every face of a depth cube map (layered, for geometry shader output)
func (fb *Framebuffer) AttachDepthCube(t *TextureCube) {
	gl.FramebufferTexture(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, t.ID, 0)
	fb.depthOnly()
}

func (fb *Framebuffer) depthOnly() {
	fb.outputLists = []OutputList{{}}
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)
}

// AttachDepthRenderbuffer creates a depth renderbuffer of the given size
func (fb *Framebuffer) AttachDepthRenderbuffer(width, height int) {
	gl.GenRenderbuffers(1, &fb.depthRBO)
	gl.BindRenderbuffer(gl.RENDERBUFFER, fb.depthRBO)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT, int32(width), int32(height))
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, fb.depthRBO)
}

// SetOutputLists replaces the output lists. Call UseOutputList to activate one.
func (fb *Framebuffer) SetOutputLists(lists ...OutputList) {
	fb.outputLists = lists
}

// UseOutputList activates list i. The framebuffer must be bound.
func (fb *Framebuffer) UseOutputList(i int) {
	bufs := fb.outputLists[i].DrawBuffers()
	if len(bufs) == 0 {
		gl.DrawBuffer(gl.NONE)
		return
	}
	gl.DrawBuffers(int32(len(bufs)), &bufs[0])
}

// Check returns an error unless the bound framebuffer is complete
func (fb *Framebuffer) Check() error {
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("framebuffer %d incomplete: status 0x%x", fb.ID, status)
	}
	return nil
}

// Resize resizes every color attachment and the depth renderbuffer
func (fb *Framebuffer) Resize(width, height int) {
	for _, t := range fb.colors {
		t.Resize(width, height)
	}
	if fb.depthRBO != 0 {
		gl.BindRenderbuffer(gl.RENDERBUFFER, fb.depthRBO)
		gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT, int32(width), int32(height))
		gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	}
}

// ClearColorDepth clears color and depth of the bound framebuffer
func ClearColorDepth() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// ClearDepth clears depth of the bound framebuffer
func ClearDepth() {
	gl.Clear(gl.DEPTH_BUFFER_BIT)
}

// ReadPixelsRGB reads a w x h block of RGB floats from color attachment idx.
// Origin is the bottom-left corner, as in GL.
func (fb *Framebuffer) ReadPixelsRGB(idx uint32, x, y, w, h int) []float32 {
	out := make([]float32, w*h*3)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, fb.ID)
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0 + idx)
	gl.ReadPixels(int32(x), int32(y), int32(w), int32(h), gl.RGB, gl.FLOAT, gl.Ptr(out))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return out
}

// Delete releases the framebuffer and its renderbuffer. Attached textures are owned by the caller.
func (fb *Framebuffer) Delete() {
	if fb.depthRBO != 0 {
		gl.DeleteRenderbuffers(1, &fb.depthRBO)
		fb.depthRBO = 0
	}
	if fb.ID != 0 {
		gl.DeleteFramebuffers(1, &fb.ID)
		fb.ID = 0
	}
}

// ReadDepth2D reads a depth texture's texels, bottom row first
func ReadDepth2D(t *Texture2D) []float32 {
	out := make([]float32, t.Width*t.Height)
	gl.BindTexture(gl.TEXTURE_2D, t.ID)
	gl.GetTexImage(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT, gl.FLOAT, gl.Ptr(out))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return out
}

// ReadDepthCubeFace reads one face of a depth cube map, bottom row first
func ReadDepthCubeFace(t *TextureCube, face uint32) []float32 {
	out := make([]float32, t.Size*t.Size)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, t.ID)
	gl.GetTexImage(gl.TEXTURE_CUBE_MAP_POSITIVE_X+face, 0, gl.DEPTH_COMPONENT, gl.FLOAT, gl.Ptr(out))
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	return out
}
