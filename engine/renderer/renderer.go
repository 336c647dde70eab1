package renderer

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-sky/common"
	"github.com/Carmen-Shannon/oxy-sky/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-sky/engine/renderer/pipeline"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
)

// graphicsContext is the implementation of the GraphicsContext interface.
type graphicsContext struct {
	mu *sync.Mutex

	backend       graphicsBackend
	pipelineCache map[string]pipeline.Pipeline

	width, height int
	suspended     bool
	frameOpen     bool
	released      bool

	// pre-creation config collected from builder options
	presentMode          PresentMode
	forceFallbackAdapter bool
	depthFormat          wgpu.TextureFormat
}

// GraphicsContext owns the GPU device, queue and presentation surface. It configures the swapchain
// and depth attachment, allocates GPU resources into bind group providers and exposes the frame
// primitives the frame renderer sequences.
//
// Every method must be called from the goroutine that created the context.
type GraphicsContext interface {
	bind_group_provider.Initializer
	bind_group_provider.BufferWriter

	// Configure configures the surface at the given size and recreates the depth texture.
	// A zero width or height suspends the context instead.
	//
	// Parameters:
	//   - width: the surface width in pixels
	//   - height: the surface height in pixels
	//
	// Returns:
	//   - error: an error if the surface or depth texture could not be configured
	Configure(width, height int) error

	// Resize reacts to a framebuffer size change. A zero width or height marks the context suspended
	// and leaves the surface untouched; frames are skipped until a non-zero size arrives, which
	// clears the suspension and reconfigures immediately.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - error: an error if reconfiguration failed
	Resize(width, height int) error

	// Reconfigure reapplies the current size. It is used after the surface reports lost or outdated.
	//
	// Returns:
	//   - error: an error if reconfiguration failed
	Reconfigure() error

	// Size returns the current surface size in pixels.
	//
	// Returns:
	//   - int: the width
	//   - int: the height
	Size() (int, int)

	// Suspended reports whether the surface currently has a zero dimension.
	//
	// Returns:
	//   - bool: true if frames must be skipped
	Suspended() bool

	// SurfaceFormat returns the color format the surface was configured with.
	//
	// Returns:
	//   - wgpu.TextureFormat: the surface format
	SurfaceFormat() wgpu.TextureFormat

	// DepthFormat returns the depth attachment format pipelines must be built against.
	//
	// Returns:
	//   - wgpu.TextureFormat: the depth format
	DepthFormat() wgpu.TextureFormat

	// RegisterRenderPipeline creates the GPU pipeline for p and caches it by key. Registering a key
	// twice is a no-op.
	//
	// Parameters:
	//   - p: the pipeline configuration
	//
	// Returns:
	//   - error: an error if the shader module, layout or pipeline could not be created
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// BeginFrame acquires the next surface texture and begins the render pass with the color
	// attachment cleared to clear and depth cleared to 1.0.
	//
	// Parameters:
	//   - clear: the clear color
	//
	// Returns:
	//   - error: a *SurfaceError if the texture could not be acquired, or an error if a frame is already open
	BeginFrame(clear wgpu.Color) error

	// SetBindGroups binds each provider's bind group at its position in the argument list.
	//
	// Parameters:
	//   - providers: the providers for groups 0..n-1
	//
	// Returns:
	//   - error: an error if no frame is open or a provider has no bind group
	SetBindGroups(providers ...bind_group_provider.BindGroupProvider) error

	// Draw records a non-indexed draw with no vertex buffer bound.
	//
	// Parameters:
	//   - p: a registered pipeline
	//   - vertexCount: the number of vertices to generate
	//
	// Returns:
	//   - error: an error if no frame is open or p is not registered
	Draw(p pipeline.Pipeline, vertexCount uint32) error

	// DrawIndexed binds the mesh's vertex and index buffers and records an indexed draw of every index.
	//
	// Parameters:
	//   - p: a registered pipeline
	//   - mesh: the provider holding vertex and index buffers
	//
	// Returns:
	//   - error: an error if no frame is open, p is not registered or the mesh has no buffers
	DrawIndexed(p pipeline.Pipeline, mesh bind_group_provider.BindGroupProvider) error

	// EndFrame ends the render pass, finishes the encoder and submits the command buffer.
	//
	// Returns:
	//   - error: an error if no frame is open or submission failed
	EndFrame() error

	// Present presents the submitted surface texture.
	//
	// Returns:
	//   - error: an error if presentation failed
	Present() error

	// AbortFrame drops the open frame without submitting it. It is a no-op when no frame is open.
	AbortFrame()

	// Release destroys the pipelines, depth texture, surface, device and instance.
	Release()
}

var _ GraphicsContext = &graphicsContext{}

// NewGraphicsContext creates the instance, surface, adapter, device and queue for target and
// configures the surface at the target's current size.
//
// Parameters:
//   - target: the window the surface is created for
//   - options: variadic list of GraphicsContextBuilderOption functions
//
// Returns:
//   - GraphicsContext: the ready context
//   - error: an *InitializationError naming the stage that failed
func NewGraphicsContext(target SurfaceTarget, options ...GraphicsContextBuilderOption) (GraphicsContext, error) {
	g := newGraphicsContext(nil, options...)

	backend, err := newWGPUBackend(target.SurfaceDescriptor(), g.presentMode, g.forceFallbackAdapter, g.depthFormat)
	if err != nil {
		return nil, err
	}
	g.backend = backend

	if err := g.Configure(target.Width(), target.Height()); err != nil {
		g.Release()
		return nil, newInitializationError("surface", err)
	}
	return g, nil
}

// newGraphicsContext wraps an existing backend. Options that only affect backend creation are
// recorded but have no effect on an already-built backend.
func newGraphicsContext(backend graphicsBackend, options ...GraphicsContextBuilderOption) *graphicsContext {
	g := &graphicsContext{
		mu:            &sync.Mutex{},
		backend:       backend,
		pipelineCache: make(map[string]pipeline.Pipeline),
		presentMode:   PresentModeVSync,
		depthFormat:   wgpu.TextureFormatDepth32Float,
	}
	for _, opt := range options {
		opt(g)
	}
	return g
}

func (g *graphicsContext) Configure(width, height int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.configureLocked(width, height)
}

func (g *graphicsContext) configureLocked(width, height int) error {
	if width <= 0 || height <= 0 {
		g.suspended = true
		common.Logger().Debug("surface suspended", "width", width, "height", height)
		return nil
	}
	if err := g.backend.ConfigureSurface(width, height); err != nil {
		return errors.Wrapf(err, "configure surface %dx%d", width, height)
	}
	g.width, g.height = width, height
	g.suspended = false
	common.Logger().Debug("surface configured", "width", width, "height", height)
	return nil
}

func (g *graphicsContext) Resize(width, height int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if width <= 0 || height <= 0 {
		g.suspended = true
		return nil
	}
	return g.configureLocked(width, height)
}

func (g *graphicsContext) Reconfigure() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.suspended {
		return nil
	}
	return g.configureLocked(g.width, g.height)
}

func (g *graphicsContext) Size() (int, int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.width, g.height
}

func (g *graphicsContext) Suspended() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.suspended
}

func (g *graphicsContext) SurfaceFormat() wgpu.TextureFormat {
	return g.backend.SurfaceFormat()
}

func (g *graphicsContext) DepthFormat() wgpu.TextureFormat {
	return g.backend.DepthFormat()
}

func (g *graphicsContext) RegisterRenderPipeline(p pipeline.Pipeline) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := p.PipelineKey()
	if _, exists := g.pipelineCache[key]; exists {
		return nil
	}
	if p.Shader() == nil {
		return errors.Errorf("pipeline %q has no shader", key)
	}
	if err := g.backend.CreateRenderPipeline(p); err != nil {
		return errors.Wrapf(err, "create pipeline %q", key)
	}
	g.pipelineCache[key] = p
	common.Logger().Debug("render pipeline registered", "key", key, "cull", p.CullMode(), "vertexBuffers", len(p.VertexBuffers()))
	return nil
}

func (g *graphicsContext) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int, indexData []byte, indexCount int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.backend.InitMeshBuffers(provider, vertexData, vertexCount, indexData, indexCount)
}

func (g *graphicsContext) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.backend.InitBindGroup(provider, descriptor)
}

func (g *graphicsContext) InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, staging common.TextureStagingData, dimension wgpu.TextureViewDimension) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.backend.InitTextureView(provider, binding, staging, dimension)
}

func (g *graphicsContext) InitSampler(provider bind_group_provider.BindGroupProvider, binding int, staging common.SamplerStagingData) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.backend.InitSampler(provider, binding, staging)
}

func (g *graphicsContext) WriteBuffers(writes []bind_group_provider.BufferWrite) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.backend.WriteBuffers(writes)
}

func (g *graphicsContext) BeginFrame(clear wgpu.Color) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.frameOpen {
		return errors.New("previous frame not yet submitted")
	}
	if err := g.backend.BeginFrame(clear); err != nil {
		return classifySurfaceError(err)
	}
	g.frameOpen = true
	return nil
}

func (g *graphicsContext) SetBindGroups(providers ...bind_group_provider.BindGroupProvider) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.frameOpen {
		return errors.New("set bind groups: no frame open")
	}
	for i, p := range providers {
		if p == nil || p.BindGroup() == nil {
			return errors.Errorf("set bind groups: group %d has no bind group", i)
		}
	}
	for i, p := range providers {
		g.backend.SetBindGroup(i, p)
	}
	return nil
}

func (g *graphicsContext) Draw(p pipeline.Pipeline, vertexCount uint32) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkDrawLocked(p); err != nil {
		return errors.Wrap(err, "draw")
	}
	g.backend.SetPipeline(p)
	g.backend.Draw(vertexCount)
	return nil
}

func (g *graphicsContext) DrawIndexed(p pipeline.Pipeline, mesh bind_group_provider.BindGroupProvider) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkDrawLocked(p); err != nil {
		return errors.Wrap(err, "draw indexed")
	}
	if mesh == nil || mesh.VertexBuffer() == nil || mesh.IndexBuffer() == nil {
		return errors.New("draw indexed: mesh has no vertex or index buffer")
	}
	g.backend.SetPipeline(p)
	g.backend.DrawIndexed(mesh)
	return nil
}

func (g *graphicsContext) checkDrawLocked(p pipeline.Pipeline) error {
	if !g.frameOpen {
		return errors.New("no frame open")
	}
	if _, ok := g.pipelineCache[p.PipelineKey()]; !ok {
		return errors.Errorf("render pipeline %q not registered", p.PipelineKey())
	}
	return nil
}

func (g *graphicsContext) EndFrame() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.frameOpen {
		return errors.New("end frame: no frame open")
	}
	g.frameOpen = false
	if err := g.backend.EndFrame(); err != nil {
		g.backend.AbortFrame()
		return errors.Wrap(err, "submit frame")
	}
	return nil
}

func (g *graphicsContext) Present() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.backend.Present()
}

func (g *graphicsContext) AbortFrame() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.frameOpen = false
	g.backend.AbortFrame()
}

func (g *graphicsContext) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.released {
		return
	}
	g.released = true
	if g.frameOpen {
		g.backend.AbortFrame()
		g.frameOpen = false
	}
	for key, p := range g.pipelineCache {
		p.Release()
		delete(g.pipelineCache, key)
	}
	if g.backend != nil {
		g.backend.Release()
	}
}
