package uniform

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-sky/common"
	"github.com/Carmen-Shannon/oxy-sky/engine/camera"
	"github.com/Carmen-Shannon/oxy-sky/engine/clock"
	"github.com/Carmen-Shannon/oxy-sky/engine/renderer/bind_group_provider"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
)

// Group is the bind group index the uniform block is bound at.
const Group = 0

// Binding is the binding index of the uniform buffer inside Group.
const Binding = 0

type uniformBuffer struct {
	mu *sync.Mutex

	camera   camera.Camera
	clock    clock.Clock
	provider bind_group_provider.BindGroupProvider
	last     GPUUniform
}

// UniformBuffer owns the per-frame uniform block and the GPU buffer it is uploaded to.
type UniformBuffer interface {
	// Update advances the clock, moves the camera by the frame delta, packs the camera matrices and
	// elapsed time, and enqueues the upload on writer. It runs once per frame before recording.
	//
	// Parameters:
	//   - writer: the queue the upload is enqueued on
	//
	// Returns:
	//   - error: an error if the upload could not be enqueued
	Update(writer bind_group_provider.BufferWriter) error

	// Current returns the block produced by the most recent Update.
	//
	// Returns:
	//   - GPUUniform: the last uploaded block
	Current() GPUUniform

	// Camera returns the camera driven by this buffer.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// BindGroupProvider returns the provider holding the uniform buffer and its bind group.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// Release frees the GPU buffer and bind group.
	Release()
}

var _ UniformBuffer = &uniformBuffer{}

// LayoutDescriptor returns the bind group layout of the uniform block: one uniform buffer of GPUUniform size
// visible to every shader stage.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout of group 0
func LayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	var u GPUUniform
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Uniform Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    Binding,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment | wgpu.ShaderStageCompute,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: uint64(u.Size()),
				},
			},
		},
	}
}

// NewUniformBuffer allocates the uniform buffer and its bind group through alloc.
// The system clock is used unless WithClock is given.
//
// Parameters:
//   - alloc: the allocator for GPU resources
//   - cam: the camera whose matrices are uploaded each frame
//   - options: functional options
//
// Returns:
//   - UniformBuffer: the allocated uniform buffer
//   - error: an error if GPU allocation fails
func NewUniformBuffer(alloc bind_group_provider.Initializer, cam camera.Camera, options ...UniformBufferBuilderOption) (UniformBuffer, error) {
	if cam == nil {
		return nil, errors.New("uniform: camera is required")
	}

	u := &uniformBuffer{
		mu:       &sync.Mutex{},
		camera:   cam,
		provider: bind_group_provider.NewBindGroupProvider("Uniforms"),
	}
	for _, option := range options {
		option(u)
	}
	if u.clock == nil {
		u.clock = clock.NewSystemClock()
	}

	if err := alloc.InitBindGroup(u.provider, LayoutDescriptor()); err != nil {
		u.provider.Release()
		return nil, errors.Wrap(err, "uniform: failed to allocate uniform bind group")
	}
	common.Logger().Debug("uniform buffer allocated", "size", u.last.Size())
	return u, nil
}

func (u *uniformBuffer) Update(writer bind_group_provider.BufferWriter) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.clock.Tick()
	u.camera.Update(u.clock.Delta())

	u.last = NewGPUUniform(u.camera.AsRaw(), u.clock.Elapsed())
	return writer.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: u.provider,
		Binding:  Binding,
		Offset:   0,
		Data:     u.last.Marshal(),
	}})
}

func (u *uniformBuffer) Current() GPUUniform {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.last
}

func (u *uniformBuffer) Camera() camera.Camera {
	return u.camera
}

func (u *uniformBuffer) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return u.provider
}

func (u *uniformBuffer) Release() {
	u.provider.Release()
}
