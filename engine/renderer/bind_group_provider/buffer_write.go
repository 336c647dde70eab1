package bind_group_provider

import (
	"github.com/Carmen-Shannon/oxy-sky/common"

	"github.com/cogentcore/webgpu/wgpu"
)

// BufferWrite describes a single queued GPU buffer write targeting a binding on a BindGroupProvider at a byte offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// BufferWriter enqueues buffer writes on the GPU queue. Writes become visible to the next submitted command buffer.
type BufferWriter interface {
	// WriteBuffers enqueues every write in order.
	//
	// Parameters:
	//   - writes: the writes to enqueue
	//
	// Returns:
	//   - error: an error if a target buffer is missing or the queue rejects a write
	WriteBuffers(writes []BufferWrite) error
}

// Initializer allocates GPU resources into providers. The graphics context implements it; resource owners
// depend on this narrow view so they can be built and tested without a device.
type Initializer interface {
	// InitMeshBuffers creates immutable vertex and index buffers initialized with the given bytes.
	//
	// Parameters:
	//   - provider: the provider that will own the buffers
	//   - vertexData: raw vertex bytes
	//   - vertexCount: number of vertices in vertexData
	//   - indexData: raw uint32 index bytes
	//   - indexCount: number of indices in indexData
	//
	// Returns:
	//   - error: an error if either buffer could not be created
	InitMeshBuffers(provider BindGroupProvider, vertexData []byte, vertexCount int, indexData []byte, indexCount int) error

	// InitBindGroup creates the layout, any missing buffers, and the bind group described by descriptor.
	// Texture and sampler bindings must already be populated via InitTextureView and InitSampler.
	//
	// Parameters:
	//   - provider: the provider that will own the bind group
	//   - descriptor: the bind group layout
	//
	// Returns:
	//   - error: an error if a resource is missing or creation fails
	InitBindGroup(provider BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// InitTextureView creates a texture from staging data, uploads every layer, and stores a view of
	// the requested dimension at binding.
	//
	// Parameters:
	//   - provider: the provider that will own the texture and view
	//   - binding: the binding index for the view
	//   - staging: RGBA8 pixel data with its layer count
	//   - dimension: the view dimension (2D, cube, ...)
	//
	// Returns:
	//   - error: an error if creation or upload fails
	InitTextureView(provider BindGroupProvider, binding int, staging common.TextureStagingData, dimension wgpu.TextureViewDimension) error

	// InitSampler creates a sampler and stores it at binding.
	//
	// Parameters:
	//   - provider: the provider that will own the sampler
	//   - binding: the binding index for the sampler
	//   - staging: the sampler configuration
	//
	// Returns:
	//   - error: an error if creation fails
	InitSampler(provider BindGroupProvider, binding int, staging common.SamplerStagingData) error
}
