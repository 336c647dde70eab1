package pipeline

import (
	"github.com/Carmen-Shannon/oxy-sky/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// pipeline is the implementation of the Pipeline interface.
// It holds the render pipeline configuration and, once registered, the GPU pipeline object.
type pipeline struct {
	// pipelineKey is the unique identifier for this pipeline, used for labels and logging
	pipelineKey string

	// program holds every entry point this pipeline draws with
	program            shader.Shader
	vertexEntryPoint   string
	fragmentEntryPoint string

	// vertexBuffers is empty for pipelines whose vertices are generated in the shader
	vertexBuffers []wgpu.VertexBufferLayout
	// bindGroupLayouts are the descriptors of groups 0..n-1, in group order
	bindGroupLayouts []wgpu.BindGroupLayoutDescriptor

	renderPipeline *wgpu.RenderPipeline

	depthWriteEnabled bool
	depthCompare      wgpu.CompareFunction
	cullMode          wgpu.CullMode
	frontFace         wgpu.FrontFace
}

// Pipeline defines the interface for a render pipeline: a vertex and fragment entry point of one
// shader program together with the fixed-function state used when drawing with them. Every
// pipeline draws opaque triangle lists with depth testing on.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader returns the program the entry points belong to.
	//
	// Returns:
	//   - shader.Shader: the shader program, or nil if not set
	Shader() shader.Shader

	// EntryPoint returns the entry point used for the given stage.
	//
	// Parameters:
	//   - stage: the stage (vertex or fragment)
	//
	// Returns:
	//   - string: the entry point function name
	EntryPoint(stage shader.ShaderType) string

	// VertexBuffers returns the vertex buffer layouts the vertex stage consumes.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: the layouts, empty when no vertex buffer is bound
	VertexBuffers() []wgpu.VertexBufferLayout

	// BindGroupLayouts returns the bind group layout descriptors of the pipeline layout, in group order.
	//
	// Returns:
	//   - []wgpu.BindGroupLayoutDescriptor: the descriptors
	BindGroupLayouts() []wgpu.BindGroupLayoutDescriptor

	// RenderPipeline returns the GPU pipeline object, or nil before registration.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the registered pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth writing is enabled, false otherwise
	DepthWriteEnabled() bool

	// DepthCompare returns the depth comparison function.
	//
	// Returns:
	//   - wgpu.CompareFunction: the comparison function
	DepthCompare() wgpu.CompareFunction

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode for this pipeline
	CullMode() wgpu.CullMode

	// FrontFace returns the front face winding order configured for this pipeline.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding order for this pipeline
	FrontFace() wgpu.FrontFace

	// Descriptor assembles the wgpu render pipeline descriptor from this pipeline's state.
	//
	// Parameters:
	//   - module: the compiled shader module of the program
	//   - layout: the pipeline layout built from BindGroupLayouts
	//   - colorFormat: the surface color format
	//   - depthFormat: the depth attachment format
	//
	// Returns:
	//   - *wgpu.RenderPipelineDescriptor: the descriptor ready for CreateRenderPipeline
	Descriptor(module *wgpu.ShaderModule, layout *wgpu.PipelineLayout, colorFormat, depthFormat wgpu.TextureFormat) *wgpu.RenderPipelineDescriptor

	// SetRenderPipeline sets the render pipeline
	//
	// Parameters:
	//   - p: the WebGPU render pipeline to set
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// Release frees the GPU pipeline object if one was registered.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline is the entry point to create a new render Pipeline.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: a new Pipeline instance with the specified configuration
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		pipelineKey:        pipelineKey,
		vertexEntryPoint:   shader.VertexEntryPoint,
		fragmentEntryPoint: shader.FragmentEntryPoint,
		depthWriteEnabled:  true,
		depthCompare:       wgpu.CompareFunctionLess,
		cullMode:           wgpu.CullModeNone,
		frontFace:          wgpu.FrontFaceCCW,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader() shader.Shader {
	return p.program
}

func (p *pipeline) EntryPoint(stage shader.ShaderType) string {
	switch stage {
	case shader.ShaderTypeVertex:
		return p.vertexEntryPoint
	case shader.ShaderTypeFragment:
		return p.fragmentEntryPoint
	default:
		return ""
	}
}

func (p *pipeline) VertexBuffers() []wgpu.VertexBufferLayout {
	return p.vertexBuffers
}

func (p *pipeline) BindGroupLayouts() []wgpu.BindGroupLayoutDescriptor {
	return p.bindGroupLayouts
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) DepthWriteEnabled() bool {
	return p.depthWriteEnabled
}

func (p *pipeline) DepthCompare() wgpu.CompareFunction {
	return p.depthCompare
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) Descriptor(module *wgpu.ShaderModule, layout *wgpu.PipelineLayout, colorFormat, depthFormat wgpu.TextureFormat) *wgpu.RenderPipelineDescriptor {
	target := wgpu.ColorTargetState{
		Format:    colorFormat,
		WriteMask: wgpu.ColorWriteMaskAll,
	}

	return &wgpu.RenderPipelineDescriptor{
		Label:  p.pipelineKey + " Render Pipeline",
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: p.vertexEntryPoint,
			Buffers:    p.vertexBuffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: p.fragmentEntryPoint,
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: p.frontFace,
			CullMode:  p.cullMode,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: p.depthWriteEnabled,
			DepthCompare:      p.depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	}
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
