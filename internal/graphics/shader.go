package graphics

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// ProgramSource holds the GLSL stages of one program. Geometry is optional.
type ProgramSource struct {
	Vertex   string
	Geometry string
	Fragment string
}

// Program represents a linked OpenGL shader program with cached uniform locations
type Program struct {
	ID   uint32
	Name string

	locations map[string]int32
}

// NewProgram compiles and links the given stages
func NewProgram(name string, src ProgramSource) (*Program, error) {
	id, err := compileProgram(src)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", name, err)
	}
	return &Program{ID: id, Name: name, locations: make(map[string]int32)}, nil
}

// Use activates the shader program
func (p *Program) Use() {
	gl.UseProgram(p.ID)
}

// Location returns the uniform location for name, -1 if the uniform is inactive
func (p *Program) Location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.ID, gl.Str(name+"\x00"))
	p.locations[name] = loc
	return loc
}

// SetInt sets an integer uniform
func (p *Program) SetInt(name string, value int32) {
	gl.Uniform1i(p.Location(name), value)
}

// SetBool sets a boolean uniform
func (p *Program) SetBool(name string, value bool) {
	var v int32
	if value {
		v = 1
	}
	gl.Uniform1i(p.Location(name), v)
}

// SetFloat sets a float uniform
func (p *Program) SetFloat(name string, value float32) {
	gl.Uniform1f(p.Location(name), value)
}

// SetFloats sets a float array uniform
func (p *Program) SetFloats(name string, values []float32) {
	if len(values) == 0 {
		return
	}
	gl.Uniform1fv(p.Location(name), int32(len(values)), &values[0])
}

// SetVec3 sets a vector3 uniform
func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	gl.Uniform3f(p.Location(name), v[0], v[1], v[2])
}

// SetMat3 sets a 3x3 matrix uniform
func (p *Program) SetMat3(name string, m mgl32.Mat3) {
	gl.UniformMatrix3fv(p.Location(name), 1, false, &m[0])
}

// SetMat4 sets a 4x4 matrix uniform
func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	gl.UniformMatrix4fv(p.Location(name), 1, false, &m[0])
}

// BindUniformBlock attaches the named uniform block to a binding point. Programs that
// do not declare the block are left alone.
func (p *Program) BindUniformBlock(block string, binding uint32) {
	idx := gl.GetUniformBlockIndex(p.ID, gl.Str(block+"\x00"))
	if idx == gl.INVALID_INDEX {
		return
	}
	gl.UniformBlockBinding(p.ID, idx, binding)
}

// Delete releases the GL program
func (p *Program) Delete() {
	if p.ID != 0 {
		gl.DeleteProgram(p.ID)
		p.ID = 0
	}
}

// Helper functions
func compileProgram(src ProgramSource) (uint32, error) {
	stages := []struct {
		source string
		kind   uint32
	}{
		{src.Vertex, gl.VERTEX_SHADER},
		{src.Geometry, gl.GEOMETRY_SHADER},
		{src.Fragment, gl.FRAGMENT_SHADER},
	}

	program := gl.CreateProgram()
	var shaders []uint32
	defer func() {
		for _, s := range shaders {
			gl.DeleteShader(s)
		}
	}()

	for _, st := range stages {
		if st.source == "" {
			continue
		}
		s, err := compileShader(st.source, st.kind)
		if err != nil {
			gl.DeleteProgram(program)
			return 0, err
		}
		shaders = append(shaders, s)
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("failed to link program: %v", log)
	}
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("failed to compile %s shader: %v", stageName(shaderType), log)
	}
	return shader, nil
}

func stageName(kind uint32) string {
	switch kind {
	case gl.VERTEX_SHADER:
		return "vertex"
	case gl.GEOMETRY_SHADER:
		return "geometry"
	case gl.FRAGMENT_SHADER:
		return "fragment"
	}
	return "unknown"
}
