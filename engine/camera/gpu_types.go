package camera

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUCamera is the GPU-aligned pair of camera matrices, both column-major mat4x4<f32>.
// Size: 128 bytes.
type GPUCamera struct {
	View       [16]float32 // offset  0
	Projection [16]float32 // offset 64
}

// Size returns the size of the GPUCamera struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (128)
func (g *GPUCamera) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the matrices little-endian into a buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCamera) Marshal() []byte {
	buf := make([]byte, g.Size())
	g.MarshalTo(buf)
	return buf
}

// MarshalTo writes the matrices into buf, which must hold at least Size bytes.
func (g *GPUCamera) MarshalTo(buf []byte) {
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.View[i]))
		binary.LittleEndian.PutUint32(buf[64+i*4:], math.Float32bits(g.Projection[i]))
	}
}
