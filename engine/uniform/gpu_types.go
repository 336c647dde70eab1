package uniform

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-sky/engine/camera"
)

// GPUUniformSource is the canonical WGSL definition of the Uniforms struct.
// Matches GPUUniform layout exactly (144 bytes, 16-byte aligned).
//
//go:embed assets/uniform.wgsl
var GPUUniformSource string

// GPUUniform is the GPU-aligned per-frame uniform block shared by every pipeline.
// Size: 144 bytes. The trailing padding rounds the block up to the 16-byte alignment of mat4x4<f32>.
type GPUUniform struct {
	View       [16]float32 // offset   0: view matrix, column-major
	Projection [16]float32 // offset  64: projection matrix, column-major
	Time       float32     // offset 128: seconds since start
	_pad       [3]float32  // offset 132
}

func init() {
	var u GPUUniform
	if unsafe.Sizeof(u) != 144 ||
		unsafe.Offsetof(u.View) != 0 ||
		unsafe.Offsetof(u.Projection) != 64 ||
		unsafe.Offsetof(u.Time) != 128 ||
		unsafe.Offsetof(u._pad) != 132 {
		panic(fmt.Sprintf("uniform: GPUUniform layout drifted (size %d)", unsafe.Sizeof(u)))
	}
}

// NewGPUUniform packs the camera matrices and elapsed time into a GPUUniform.
//
// Parameters:
//   - cam: the camera matrices
//   - elapsed: seconds since the clock started
//
// Returns:
//   - GPUUniform: the packed block
func NewGPUUniform(cam camera.GPUCamera, elapsed float32) GPUUniform {
	return GPUUniform{
		View:       cam.View,
		Projection: cam.Projection,
		Time:       elapsed,
	}
}

// Size returns the size of the GPUUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (144)
func (g *GPUUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the block little-endian into a buffer suitable for GPU upload. Padding bytes are zero.
//
// Returns:
//   - []byte: the 144-byte buffer
func (g *GPUUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	cam := camera.GPUCamera{View: g.View, Projection: g.Projection}
	cam.MarshalTo(buf)
	binary.LittleEndian.PutUint32(buf[128:], math.Float32bits(g.Time))
	return buf
}
