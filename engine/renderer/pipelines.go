package renderer

import (
	"github.com/Carmen-Shannon/oxy-sky/common"
	"github.com/Carmen-Shannon/oxy-sky/engine/model"
	"github.com/Carmen-Shannon/oxy-sky/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-sky/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-sky/engine/skybox"
	"github.com/Carmen-Shannon/oxy-sky/engine/uniform"

	"github.com/cogentcore/webgpu/wgpu"
)

// Pipeline keys of the two passes.
const (
	SkyboxPipelineKey = "skybox"
	MeshPipelineKey   = "mesh"
)

// RenderPipelines holds the skybox and mesh pipelines built from one shader program.
type RenderPipelines struct {
	Skybox pipeline.Pipeline
	Mesh   pipeline.Pipeline
}

// BindGroupLayouts returns the layout contract shared by both pipelines: the uniform block at
// group 0 and the skybox cube texture and sampler at group 1.
func BindGroupLayouts() []wgpu.BindGroupLayoutDescriptor {
	return []wgpu.BindGroupLayoutDescriptor{
		uniform.LayoutDescriptor(),
		skybox.LayoutDescriptor(),
	}
}

// NewRenderPipelines verifies program against the binding contract and registers the skybox and
// mesh pipelines on ctx.
//
// Parameters:
//   - ctx: the graphics context the pipelines are created on
//   - program: the shader holding all four entry points
//
// Returns:
//   - *RenderPipelines: the registered pipelines
//   - error: an *InitializationError with stage "pipeline" if verification or creation fails
func NewRenderPipelines(ctx GraphicsContext, program shader.Shader) (*RenderPipelines, error) {
	if err := shader.Verify(program); err != nil {
		return nil, newInitializationError("pipeline", err)
	}

	layouts := BindGroupLayouts()
	sky := pipeline.NewPipeline(SkyboxPipelineKey,
		pipeline.WithShader(program),
		pipeline.WithEntryPoints(shader.SkyboxVertexEntryPoint, shader.SkyboxFragmentEntryPoint),
		pipeline.WithBindGroupLayouts(layouts...),
		pipeline.WithCullMode(wgpu.CullModeNone),
		pipeline.WithDepthCompare(wgpu.CompareFunctionLessEqual),
		pipeline.WithDepthWriteEnabled(true),
	)
	mesh := pipeline.NewPipeline(MeshPipelineKey,
		pipeline.WithShader(program),
		pipeline.WithEntryPoints(shader.VertexEntryPoint, shader.FragmentEntryPoint),
		pipeline.WithVertexBuffers(model.VertexLayout()),
		pipeline.WithBindGroupLayouts(layouts...),
		pipeline.WithCullMode(wgpu.CullModeBack),
		pipeline.WithFrontFace(wgpu.FrontFaceCCW),
		pipeline.WithDepthCompare(wgpu.CompareFunctionLessEqual),
		pipeline.WithDepthWriteEnabled(true),
	)

	for _, p := range []pipeline.Pipeline{sky, mesh} {
		if err := ctx.RegisterRenderPipeline(p); err != nil {
			return nil, newInitializationError("pipeline", err)
		}
	}
	common.Logger().Info("render pipelines ready", "shader", program.Key())
	return &RenderPipelines{Skybox: sky, Mesh: mesh}, nil
}
