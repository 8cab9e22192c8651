package graphics

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

// QuadRenderer draws a fullscreen quad as a triangle strip. Position is attribute 0.
type QuadRenderer struct {
	vao, vbo uint32
}

var quadVertices = []float32{
	-1, 1,
	-1, -1,
	1, 1,
	1, -1,
}

// NewQuadRenderer uploads the quad
func NewQuadRenderer() *QuadRenderer {
	q := &QuadRenderer{}
	q.vao, q.vbo = uploadPositions(quadVertices, 2)
	return q
}

// Draw binds the quad and draws it
func (q *QuadRenderer) Draw() {
	gl.BindVertexArray(q.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
}

// Delete releases GL resources
func (q *QuadRenderer) Delete() {
	gl.DeleteBuffers(1, &q.vbo)
	gl.DeleteVertexArrays(1, &q.vao)
}

// CubeRenderer draws a unit cube from the inside, used by the skybox. Position is attribute 0.
type CubeRenderer struct {
	vao, vbo uint32
}

var cubeVertices = []float32{
	-1, 1, -1, -1, -1, -1, 1, -1, -1, 1, -1, -1, 1, 1, -1, -1, 1, -1,
	-1, -1, 1, -1, -1, -1, -1, 1, -1, -1, 1, -1, -1, 1, 1, -1, -1, 1,
	1, -1, -1, 1, -1, 1, 1, 1, 1, 1, 1, 1, 1, 1, -1, 1, -1, -1,
	-1, -1, 1, -1, 1, 1, 1, 1, 1, 1, 1, 1, 1, -1, 1, -1, -1, 1,
	-1, 1, -1, 1, 1, -1, 1, 1, 1, 1, 1, 1, -1, 1, 1, -1, 1, -1,
	-1, -1, -1, -1, -1, 1, 1, -1, -1, 1, -1, -1, -1, -1, 1, 1, -1, 1,
}

// NewCubeRenderer uploads the cube
func NewCubeRenderer() *CubeRenderer {
	c := &CubeRenderer{}
	c.vao, c.vbo = uploadPositions(cubeVertices, 3)
	return c
}

// Draw binds the cube and draws it
func (c *CubeRenderer) Draw() {
	gl.BindVertexArray(c.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(cubeVertices)/3))
}

// Delete releases GL resources
func (c *CubeRenderer) Delete() {
	gl.DeleteBuffers(1, &c.vbo)
	gl.DeleteVertexArrays(1, &c.vao)
}

func uploadPositions(data []float32, components int32) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)

	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, components, gl.FLOAT, false, components*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
	return vao, vbo
}

// DrawElements draws count uint32 indices starting at index start of the bound element buffer
func DrawElements(start, count int) {
	gl.DrawElements(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, gl.PtrOffset(start*4))
}

// SetViewport sets the GL viewport from the origin
func SetViewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

// DepthLessOrEqual switches the depth test to LEQUAL, DepthLess restores the default
func DepthLessOrEqual() { gl.DepthFunc(gl.LEQUAL) }

func DepthLess() { gl.DepthFunc(gl.LESS) }

// EnableDefaults configures depth test, depth writes and back-face culling
func EnableDefaults() {
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(true)
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
}

// Vendor returns the GL vendor and renderer strings
func Vendor() (vendor, renderer string) {
	return gl.GoStr(gl.GetString(gl.VENDOR)), gl.GoStr(gl.GetString(gl.RENDERER))
}

// SetCulling toggles back-face culling
func SetCulling(enabled bool) {
	if enabled {
		gl.Enable(gl.CULL_FACE)
	} else {
		gl.Disable(gl.CULL_FACE)
	}
}
