package renderer

import (
	"github.com/Carmen-Shannon/oxy-sky/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-sky/engine/renderer/pipeline"

	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// SurfaceTarget is the window side of the surface: the platform handle the surface is created
// from and the framebuffer size it starts at.
type SurfaceTarget interface {
	// SurfaceDescriptor returns the platform specific descriptor used to create the surface.
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

// graphicsBackend is the device-facing half of the graphics context. The wgpu implementation
// talks to the driver; tests substitute a recording fake.
type graphicsBackend interface {
	bind_group_provider.Initializer
	bind_group_provider.BufferWriter

	// ConfigureSurface configures the swapchain at the given size and recreates the depth texture.
	ConfigureSurface(width, height int) error

	// SurfaceFormat returns the color format chosen from the surface capabilities.
	SurfaceFormat() wgpu.TextureFormat

	// DepthFormat returns the format of the depth attachment.
	DepthFormat() wgpu.TextureFormat

	// CreateRenderPipeline compiles the pipeline's shader module and layout and stores the GPU
	// pipeline on p.
	CreateRenderPipeline(p pipeline.Pipeline) error

	// BeginFrame acquires the next surface texture and begins the render pass, clearing color to
	// clear and depth to 1.0.
	BeginFrame(clear wgpu.Color) error

	// SetPipeline binds p on the open render pass.
	SetPipeline(p pipeline.Pipeline)

	// SetBindGroup binds the provider's bind group at index.
	SetBindGroup(index int, provider bind_group_provider.BindGroupProvider)

	// Draw records a non-indexed draw of vertexCount vertices.
	Draw(vertexCount uint32)

	// DrawIndexed binds the mesh's vertex and index buffers and records an indexed draw.
	DrawIndexed(mesh bind_group_provider.BindGroupProvider)

	// EndFrame ends the pass, finishes the encoder and submits the command buffer.
	EndFrame() error

	// Present presents the submitted surface texture.
	Present() error

	// AbortFrame drops the open pass, encoder and surface texture without submitting.
	AbortFrame()

	// Release destroys every object the backend owns.
	Release()
}
