package renderer

import (
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-sky/common"
	"github.com/Carmen-Shannon/oxy-sky/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-sky/engine/renderer/pipeline"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
)

type wgpuBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        wgpu.TextureFormat
	depthFormat          wgpu.TextureFormat
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor
	presentMode          wgpu.PresentMode

	// modules and layouts created for registered pipelines, released with the backend
	shaderModules    []*wgpu.ShaderModule
	pipelineLayouts  []*wgpu.PipelineLayout
	bindGroupLayouts []*wgpu.BindGroupLayout

	// state of the frame being recorded
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
	submitted    bool
}

var _ graphicsBackend = &wgpuBackendImpl{}

// newWGPUBackend creates the instance, surface, adapter, device and queue. The calling goroutine is
// locked to its OS thread since the surface belongs to the window's thread.
func newWGPUBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, mode PresentMode, forceFallbackAdapter bool, depthFormat wgpu.TextureFormat) (*wgpuBackendImpl, error) {
	runtime.LockOSThread()

	b := &wgpuBackendImpl{
		mu:          &sync.Mutex{},
		depthFormat: depthFormat,
		presentMode: toWGPUPresentMode(mode),
	}

	b.instance = wgpu.CreateInstance(nil)
	if b.instance == nil {
		return nil, newInitializationError("instance", errors.New("wgpu instance unavailable"))
	}

	if surfaceDescriptor == nil {
		b.Release()
		return nil, newInitializationError("surface", errors.New("window provided no surface descriptor"))
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)
	if b.surface == nil {
		b.Release()
		return nil, newInitializationError("surface", errors.New("surface creation failed"))
	}

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		b.Release()
		return nil, newInitializationError("adapter", err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		b.Release()
		return nil, newInitializationError("device", err)
	}
	b.device = d
	b.queue = d.GetQueue()

	capabilities := b.surface.GetCapabilities(b.adapter)
	if len(capabilities.Formats) == 0 {
		b.Release()
		return nil, newInitializationError("surface", errors.New("surface reports no supported formats"))
	}
	b.surfaceFormat = capabilities.Formats[0]

	common.Logger().Info("graphics device ready",
		"surfaceFormat", b.surfaceFormat,
		"fallbackAdapter", forceFallbackAdapter,
	)
	return b, nil
}

func toWGPUPresentMode(mode PresentMode) wgpu.PresentMode {
	switch mode {
	case PresentModeUncapped:
		return wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		return wgpu.PresentModeFifo
	}
}

func (b *wgpuBackendImpl) ConfigureSurface(width, height int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	alphaMode := wgpu.CompositeAlphaModeAuto
	if len(capabilities.AlphaModes) > 0 {
		alphaMode = capabilities.AlphaModes[0]
	}

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   alphaMode,
	})

	b.releaseDepthLocked()
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        b.depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return errors.Wrap(err, "create depth texture")
	}
	depthView, err := depthTexture.CreateView(nil)
	if err != nil {
		depthTexture.Release()
		return errors.Wrap(err, "create depth view")
	}
	b.depthTexture = depthTexture
	b.depthTextureView = depthView

	// The color view is set per frame to the acquired surface texture.
	b.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		Label: "Main Render Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
	return nil
}

func (b *wgpuBackendImpl) releaseDepthLocked() {
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Release()
		b.depthTexture = nil
	}
}

func (b *wgpuBackendImpl) SurfaceFormat() wgpu.TextureFormat {
	return b.surfaceFormat
}

func (b *wgpuBackendImpl) DepthFormat() wgpu.TextureFormat {
	return b.depthFormat
}

func (b *wgpuBackendImpl) CreateRenderPipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	program := p.Shader()
	module, err := b.device.CreateShaderModule(program.Module())
	if err != nil {
		return errors.Wrapf(err, "compile shader module %q", program.Key())
	}
	b.shaderModules = append(b.shaderModules, module)

	layouts := make([]*wgpu.BindGroupLayout, 0, len(p.BindGroupLayouts()))
	for g, desc := range p.BindGroupLayouts() {
		layout, layoutErr := b.device.CreateBindGroupLayout(&desc)
		if layoutErr != nil {
			return errors.Wrapf(layoutErr, "create bind group layout for group %d", g)
		}
		b.bindGroupLayouts = append(b.bindGroupLayouts, layout)
		layouts = append(layouts, layout)
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.PipelineKey(),
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return errors.Wrap(err, "create pipeline layout")
	}
	b.pipelineLayouts = append(b.pipelineLayouts, pipelineLayout)

	created, err := b.device.CreateRenderPipeline(p.Descriptor(module, pipelineLayout, b.surfaceFormat, b.depthFormat))
	if err != nil {
		return err
	}
	p.SetRenderPipeline(created)
	return nil
}

func (b *wgpuBackendImpl) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int, indexData []byte, indexCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(vertexData) == 0 || len(indexData) == 0 {
		return errors.Errorf("%s: mesh needs vertex and index data", provider.Label())
	}

	vb, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            provider.Label() + " Vertex Buffer",
		Size:             uint64(len(vertexData)),
		Usage:            wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return errors.Wrap(err, "create vertex buffer")
	}
	b.queue.WriteBuffer(vb, 0, vertexData)

	ib, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            provider.Label() + " Index Buffer",
		Size:             common.AlignUp(uint64(len(indexData)), 4),
		Usage:            wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		vb.Release()
		return errors.Wrap(err, "create index buffer")
	}
	b.queue.WriteBuffer(ib, 0, indexData)

	provider.SetMeshBuffers(vb, vertexCount, ib, indexCount)
	return nil
}

func (b *wgpuBackendImpl) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(descriptor.Entries) == 0 {
		return nil
	}

	layout := provider.BindGroupLayout()
	if layout == nil {
		var err error
		layout, err = b.device.CreateBindGroupLayout(&descriptor)
		if err != nil {
			return err
		}
		provider.SetBindGroupLayout(layout)
	}

	bindGroupEntries := make([]wgpu.BindGroupEntry, len(descriptor.Entries))
	for i, entry := range descriptor.Entries {
		binding := int(entry.Binding)

		isTexture := entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined
		isSampler := entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined

		if isTexture {
			tv := provider.TextureView(binding)
			if tv == nil {
				return errors.Errorf("texture binding %d has no texture view, call InitTextureView first", binding)
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{
				Binding:     entry.Binding,
				TextureView: tv,
			}
		} else if isSampler {
			samp := provider.Sampler(binding)
			if samp == nil {
				return errors.Errorf("sampler binding %d has no sampler, call InitSampler first", binding)
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Sampler: samp,
			}
		} else {
			var usage wgpu.BufferUsage
			switch entry.Buffer.Type {
			case wgpu.BufferBindingTypeUniform:
				usage = wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst
			case wgpu.BufferBindingTypeStorage, wgpu.BufferBindingTypeReadOnlyStorage:
				usage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst
			}

			buf := provider.Buffer(binding)
			if buf == nil {
				var bufErr error
				buf, bufErr = b.device.CreateBuffer(&wgpu.BufferDescriptor{
					Label: provider.Label() + " Buffer",
					Size:  common.AlignUp(entry.Buffer.MinBindingSize, 16),
					Usage: usage,
				})
				if bufErr != nil {
					return bufErr
				}
				provider.SetBuffer(binding, buf)
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Buffer:  buf,
				Offset:  0,
				Size:    wgpu.WholeSize,
			}
		}
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " Bind Group",
		Layout:  layout,
		Entries: bindGroupEntries,
	})
	if err != nil {
		return err
	}
	provider.SetBindGroup(bindGroup)

	return nil
}

func (b *wgpuBackendImpl) InitTextureView(provider bind_group_provider.BindGroupProvider, binding int, staging common.TextureStagingData, dimension wgpu.TextureViewDimension) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	layers := staging.LayerCount()
	if len(staging.Pixels) != staging.LayerSize()*int(layers) {
		return errors.Errorf("%s: texture data is %d bytes, want %d", provider.Label(), len(staging.Pixels), staging.LayerSize()*int(layers))
	}
	if dimension == wgpu.TextureViewDimensionCube && layers != 6 {
		return errors.Errorf("%s: cube texture needs 6 layers, got %d", provider.Label(), layers)
	}

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     provider.Label() + " Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              staging.Width,
			Height:             staging.Height,
			DepthOrArrayLayers: layers,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return err
	}

	for layer := uint32(0); layer < layers; layer++ {
		b.queue.WriteTexture(
			&wgpu.ImageCopyTexture{
				Texture:  tex,
				MipLevel: 0,
				Origin:   wgpu.Origin3D{Z: layer},
				Aspect:   wgpu.TextureAspectAll,
			},
			staging.Layer(int(layer)),
			&wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  staging.Width * 4,
				RowsPerImage: staging.Height,
			},
			&wgpu.Extent3D{
				Width:              staging.Width,
				Height:             staging.Height,
				DepthOrArrayLayers: 1,
			},
		)
	}

	view, err := tex.CreateView(&wgpu.TextureViewDescriptor{
		Label:           provider.Label() + " Texture View",
		Format:          wgpu.TextureFormatRGBA8UnormSrgb,
		Dimension:       dimension,
		BaseMipLevel:    0,
		MipLevelCount:   1,
		BaseArrayLayer:  0,
		ArrayLayerCount: layers,
		Aspect:          wgpu.TextureAspectAll,
	})
	if err != nil {
		tex.Release()
		return err
	}
	provider.SetTexture(binding, tex)
	provider.SetTextureView(binding, view)

	return nil
}

func (b *wgpuBackendImpl) InitSampler(provider bind_group_provider.BindGroupProvider, binding int, staging common.SamplerStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         provider.Label() + " Sampler",
		AddressModeU:  common.Coalesce(staging.AddressModeU, wgpu.AddressModeClampToEdge),
		AddressModeV:  common.Coalesce(staging.AddressModeV, wgpu.AddressModeClampToEdge),
		AddressModeW:  common.Coalesce(staging.AddressModeW, wgpu.AddressModeClampToEdge),
		MagFilter:     common.Coalesce(staging.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(staging.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(staging.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   common.Coalesce(staging.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(staging.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(staging.MaxAnisotropy, 1),
		Compare:       staging.Compare,
	})
	if err != nil {
		return err
	}
	provider.SetSampler(binding, samp)

	return nil
}

func (b *wgpuBackendImpl) WriteBuffers(writes []bind_group_provider.BufferWrite) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			return errors.Errorf("%s: binding %d has no buffer", w.Provider.Label(), w.Binding)
		}
		b.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
	return nil
}

func (b *wgpuBackendImpl) BeginFrame(clear wgpu.Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface != nil {
		return errors.New("previous frame surface not yet presented")
	}
	if b.renderPassDescriptor == nil {
		return &SurfaceError{Kind: SurfaceOutdated, Err: errors.New("surface not configured")}
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return classifySurfaceError(err)
	}

	// The surface owns its textures; only views created from them are released.
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		return &SurfaceError{Kind: SurfaceOutdated, Err: errors.Wrap(err, "create surface view")}
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		return errors.Wrap(err, "create command encoder")
	}

	b.renderPassDescriptor.ColorAttachments[0].View = view
	b.renderPassDescriptor.ColorAttachments[0].ClearValue = clear
	pass := encoder.BeginRenderPass(b.renderPassDescriptor)

	b.frameEncoder = encoder
	b.framePass = pass
	b.frameSurface = surfaceTexture
	b.frameView = view
	b.submitted = false

	return nil
}

func (b *wgpuBackendImpl) SetPipeline(p pipeline.Pipeline) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.framePass.SetPipeline(p.RenderPipeline())
}

func (b *wgpuBackendImpl) SetBindGroup(index int, provider bind_group_provider.BindGroupProvider) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.framePass.SetBindGroup(uint32(index), provider.BindGroup(), nil)
}

func (b *wgpuBackendImpl) Draw(vertexCount uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.framePass.Draw(vertexCount, 1, 0, 0)
}

func (b *wgpuBackendImpl) DrawIndexed(mesh bind_group_provider.BindGroupProvider) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.framePass.SetVertexBuffer(0, mesh.VertexBuffer(), 0, wgpu.WholeSize)
	b.framePass.SetIndexBuffer(mesh.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.framePass.DrawIndexed(uint32(mesh.IndexCount()), 1, 0, 0, 0)
}

func (b *wgpuBackendImpl) EndFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass == nil {
		return errors.New("no render pass open")
	}
	b.framePass.End()
	b.framePass.Release()
	b.framePass = nil

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.releaseFrameLocked()
		return err
	}

	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
	b.submitted = true
	return nil
}

func (b *wgpuBackendImpl) Present() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil || !b.submitted {
		return errors.New("no submitted frame to present")
	}
	b.surface.Present()
	b.releaseFrameLocked()
	return nil
}

func (b *wgpuBackendImpl) AbortFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.framePass != nil {
		b.framePass.End()
		b.framePass.Release()
		b.framePass = nil
	}
	b.releaseFrameLocked()
}

func (b *wgpuBackendImpl) releaseFrameLocked() {
	if b.frameEncoder != nil {
		b.frameEncoder.Release()
		b.frameEncoder = nil
	}
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface = nil
	b.submitted = false
}

func (b *wgpuBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseFrameLocked()
	b.releaseDepthLocked()
	for _, l := range b.pipelineLayouts {
		l.Release()
	}
	for _, l := range b.bindGroupLayouts {
		l.Release()
	}
	for _, m := range b.shaderModules {
		m.Release()
	}
	b.pipelineLayouts, b.bindGroupLayouts, b.shaderModules = nil, nil, nil

	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
	runtime.UnlockOSThread()
}
