package model

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct.
// Matches GPUVertex layout exactly (48 bytes, tightly packed).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertex is the GPU representation of a single mesh vertex.
// Size: 48 bytes, no padding.
type GPUVertex struct {
	Position [3]float32 // offset  0: model-space position
	Normal   [3]float32 // offset 12: surface normal
	TexCoord [2]float32 // offset 24: UV coordinate
	Color    [4]float32 // offset 32: RGBA color
}

func init() {
	var v GPUVertex
	if unsafe.Sizeof(v) != 48 ||
		unsafe.Offsetof(v.Normal) != 12 ||
		unsafe.Offsetof(v.TexCoord) != 24 ||
		unsafe.Offsetof(v.Color) != 32 {
		panic(fmt.Sprintf("model: GPUVertex layout drifted (size %d)", unsafe.Sizeof(v)))
	}
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (48)
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the vertex little-endian into a buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the 48-byte buffer
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.MarshalTo(buf)
	return buf
}

// MarshalTo writes the vertex into buf, which must hold at least Size bytes.
func (g *GPUVertex) MarshalTo(buf []byte) {
	putFloats(buf[0:], g.Position[:])
	putFloats(buf[12:], g.Normal[:])
	putFloats(buf[24:], g.TexCoord[:])
	putFloats(buf[32:], g.Color[:])
}

func putFloats(buf []byte, values []float32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
}

// VertexLayout returns the vertex buffer layout matching GPUVertex: locations 0 through 3 with
// Float32x3, Float32x3, Float32x2 and Float32x4 formats, stepped per vertex.
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout for the mesh pipeline
func VertexLayout() wgpu.VertexBufferLayout {
	var v GPUVertex
	return wgpu.VertexBufferLayout{
		ArrayStride: uint64(v.Size()),
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: uint64(unsafe.Offsetof(v.Position)), ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: uint64(unsafe.Offsetof(v.Normal)), ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x2, Offset: uint64(unsafe.Offsetof(v.TexCoord)), ShaderLocation: 2},
			{Format: wgpu.VertexFormatFloat32x4, Offset: uint64(unsafe.Offsetof(v.Color)), ShaderLocation: 3},
		},
	}
}

// MarshalVertices serializes vertices back to back.
//
// Parameters:
//   - vertices: the vertices to serialize
//
// Returns:
//   - []byte: len(vertices) * 48 bytes
func MarshalVertices(vertices []GPUVertex) []byte {
	var v GPUVertex
	stride := v.Size()
	buf := make([]byte, len(vertices)*stride)
	for i := range vertices {
		vertices[i].MarshalTo(buf[i*stride:])
	}
	return buf
}

// MarshalIndices serializes uint32 indices little-endian.
//
// Parameters:
//   - indices: the indices to serialize
//
// Returns:
//   - []byte: len(indices) * 4 bytes
func MarshalIndices(indices []uint32) []byte {
	buf := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}
