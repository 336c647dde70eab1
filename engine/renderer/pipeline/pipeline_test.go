package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-sky/engine/renderer/shader"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPipeline_Defaults(t *testing.T) {
	p := NewPipeline("default")

	assert.Equal(t, "default", p.PipelineKey())
	assert.Equal(t, shader.VertexEntryPoint, p.EntryPoint(shader.ShaderTypeVertex))
	assert.Equal(t, shader.FragmentEntryPoint, p.EntryPoint(shader.ShaderTypeFragment))
	assert.True(t, p.DepthWriteEnabled())
	assert.Equal(t, wgpu.CompareFunctionLess, p.DepthCompare())
	assert.Equal(t, wgpu.CullModeNone, p.CullMode())
	assert.Nil(t, p.RenderPipeline())
	assert.Empty(t, p.VertexBuffers())
}

func TestDescriptor_AppliesState(t *testing.T) {
	layout := wgpu.VertexBufferLayout{
		ArrayStride: 48,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes:  []wgpu.VertexAttribute{{Format: wgpu.VertexFormatFloat32x3}},
	}
	p := NewPipeline("mesh",
		WithEntryPoints("vs", "fs"),
		WithVertexBuffers(layout),
		WithCullMode(wgpu.CullModeBack),
		WithDepthCompare(wgpu.CompareFunctionLessEqual),
	)

	desc := p.Descriptor(nil, nil, wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatDepth32Float)

	assert.Equal(t, "mesh Render Pipeline", desc.Label)
	assert.Equal(t, "vs", desc.Vertex.EntryPoint)
	require.Len(t, desc.Vertex.Buffers, 1)
	assert.Equal(t, uint64(48), desc.Vertex.Buffers[0].ArrayStride)
	require.NotNil(t, desc.Fragment)
	assert.Equal(t, "fs", desc.Fragment.EntryPoint)
	require.Len(t, desc.Fragment.Targets, 1)
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm, desc.Fragment.Targets[0].Format)
	assert.Nil(t, desc.Fragment.Targets[0].Blend)
	assert.Equal(t, wgpu.ColorWriteMaskAll, desc.Fragment.Targets[0].WriteMask)
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, desc.Primitive.Topology)
	assert.Equal(t, wgpu.CullModeBack, desc.Primitive.CullMode)
	assert.Equal(t, uint32(1), desc.Multisample.Count)
	require.NotNil(t, desc.DepthStencil)
	assert.Equal(t, wgpu.TextureFormatDepth32Float, desc.DepthStencil.Format)
	assert.Equal(t, wgpu.CompareFunctionLessEqual, desc.DepthStencil.DepthCompare)
	assert.True(t, desc.DepthStencil.DepthWriteEnabled)
}

func TestDescriptor_DepthWriteDisabled(t *testing.T) {
	p := NewPipeline("overlay", WithDepthWriteEnabled(false))

	desc := p.Descriptor(nil, nil, wgpu.TextureFormatRGBA8Unorm, wgpu.TextureFormatDepth32Float)

	assert.Equal(t, wgpu.CompareFunctionLess, desc.DepthStencil.DepthCompare)
	assert.False(t, desc.DepthStencil.DepthWriteEnabled)
}

func TestRelease_WithoutGPUObject(t *testing.T) {
	p := NewPipeline("empty")
	assert.NotPanics(t, p.Release)
}
