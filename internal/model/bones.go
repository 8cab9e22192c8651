package model

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

const mat4Size = 64

// BlockStride returns the byte size of one model's bone block, rounded up to the
// uniform buffer offset alignment
func BlockStride(maxBones, align int) int {
	size := maxBones * mat4Size
	if align <= 0 {
		return size
	}
	return (size + align - 1) / align * align
}

// BoneBuffer stores the skinning matrices of several models in one uniform buffer, each in
// its own aligned block, and binds the right block before a model is drawn.
type BoneBuffer struct {
	ubo       uint32
	binding   uint32
	maxBones  int
	maxModels int
	stride    int
	models    []*Model
	scratch   []float32
}

// NewBoneBuffer allocates storage for maxModels models of up to maxBones bones
func NewBoneBuffer(binding uint32, maxBones, maxModels int) *BoneBuffer {
	var align int32
	gl.GetIntegerv(gl.UNIFORM_BUFFER_OFFSET_ALIGNMENT, &align)

	b := &BoneBuffer{
		binding:   binding,
		maxBones:  maxBones,
		maxModels: maxModels,
		stride:    BlockStride(maxBones, int(align)),
		scratch:   make([]float32, maxBones*16),
	}
	gl.GenBuffers(1, &b.ubo)
	gl.BindBuffer(gl.UNIFORM_BUFFER, b.ubo)
	gl.BufferData(gl.UNIFORM_BUFFER, b.stride*maxModels, nil, gl.DYNAMIC_DRAW)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	return b
}

// Add assigns the next block to m
func (b *BoneBuffer) Add(m *Model) error {
	if !m.BonesPresent() {
		return fmt.Errorf("model has no bones")
	}
	if len(b.models) >= b.maxModels {
		return fmt.Errorf("bone buffer full: %d models", b.maxModels)
	}
	if n := len(m.Bones()); n > b.maxBones {
		return fmt.Errorf("model has %d bones, limit is %d", n, b.maxBones)
	}
	m.boneSlot = len(b.models)
	b.models = append(b.models, m)
	return nil
}

// WriteAll uploads the current bones of every added model
func (b *BoneBuffer) WriteAll() {
	gl.BindBuffer(gl.UNIFORM_BUFFER, b.ubo)
	for _, m := range b.models {
		n := packBones(m.Bones(), b.scratch)
		gl.BufferSubData(gl.UNIFORM_BUFFER, m.boneSlot*b.stride, n*4, gl.Ptr(b.scratch))
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

// Link binds the block of m to the bones binding point. Models without a block are ignored.
func (b *BoneBuffer) Link(m *Model) {
	if m.boneSlot < 0 {
		return
	}
	gl.BindBufferRange(gl.UNIFORM_BUFFER, b.binding, b.ubo, m.boneSlot*b.stride, b.maxBones*mat4Size)
}

// Delete releases the buffer
func (b *BoneBuffer) Delete() {
	gl.DeleteBuffers(1, &b.ubo)
}

func packBones(bones []mgl32.Mat4, dst []float32) int {
	n := 0
	for _, m := range bones {
		n += copy(dst[n:], m[:])
	}
	return n
}
