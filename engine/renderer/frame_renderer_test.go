package renderer

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-sky/common"
	"github.com/Carmen-Shannon/oxy-sky/engine/camera"
	"github.com/Carmen-Shannon/oxy-sky/engine/clock"
	"github.com/Carmen-Shannon/oxy-sky/engine/model"
	"github.com/Carmen-Shannon/oxy-sky/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-sky/engine/skybox"
	"github.com/Carmen-Shannon/oxy-sky/engine/uniform"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sceneShader(t *testing.T) shader.Shader {
	t.Helper()
	program, err := shader.NewShader("scene")
	require.NoError(t, err)
	return program
}

type harness struct {
	backend  *fakeBackend
	ctx      *graphicsContext
	clock    *clock.ManualClock
	uniforms uniform.UniformBuffer
	frame    FrameRenderer
}

func newHarness(t *testing.T, options ...FrameRendererBuilderOption) *harness {
	t.Helper()
	backend, ctx := configuredContext(t)

	pipelines, err := NewRenderPipelines(ctx, sceneShader(t))
	require.NoError(t, err)

	cam, err := camera.NewCamera()
	require.NoError(t, err)
	clk := clock.NewManualClock()
	uniforms, err := uniform.NewUniformBuffer(ctx, cam, uniform.WithClock(clk))
	require.NoError(t, err)

	geometry, err := model.NewGeometryBuffer(ctx, &model.MeshData{
		Name:      "triangle",
		Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Indices:   []uint32{0, 1, 2},
	})
	require.NoError(t, err)

	sky, err := skybox.NewSkyboxTexture(ctx, skyboxStaging(2))
	require.NoError(t, err)

	frame, err := NewFrameRenderer(ctx, uniforms, geometry, sky, pipelines, options...)
	require.NoError(t, err)

	backend.calls = nil
	return &harness{backend: backend, ctx: ctx, clock: clk, uniforms: uniforms, frame: frame}
}

func skyboxStaging(size uint32) common.TextureStagingData {
	return common.TextureStagingData{
		Pixels: make([]byte, int(size*size*4)*skybox.FaceCount),
		Width:  size,
		Height: size,
		Layers: skybox.FaceCount,
	}
}

func TestNewRenderPipelines(t *testing.T) {
	backend, ctx := configuredContext(t)
	pipes, err := NewRenderPipelines(ctx, sceneShader(t))
	require.NoError(t, err)

	assert.Equal(t, []string{SkyboxPipelineKey, MeshPipelineKey}, backend.pipelines)

	assert.Equal(t, shader.SkyboxVertexEntryPoint, pipes.Skybox.EntryPoint(shader.ShaderTypeVertex))
	assert.Equal(t, shader.SkyboxFragmentEntryPoint, pipes.Skybox.EntryPoint(shader.ShaderTypeFragment))
	assert.Empty(t, pipes.Skybox.VertexBuffers())
	assert.Equal(t, wgpu.CullModeNone, pipes.Skybox.CullMode())

	assert.Equal(t, shader.VertexEntryPoint, pipes.Mesh.EntryPoint(shader.ShaderTypeVertex))
	require.Len(t, pipes.Mesh.VertexBuffers(), 1)
	assert.Equal(t, model.VertexLayout(), pipes.Mesh.VertexBuffers()[0])
	assert.Equal(t, wgpu.CullModeBack, pipes.Mesh.CullMode())
	assert.Equal(t, wgpu.FrontFaceCCW, pipes.Mesh.FrontFace())

	for _, p := range []interface {
		DepthCompare() wgpu.CompareFunction
		DepthWriteEnabled() bool
		BindGroupLayouts() []wgpu.BindGroupLayoutDescriptor
	}{pipes.Skybox, pipes.Mesh} {
		assert.Equal(t, wgpu.CompareFunctionLessEqual, p.DepthCompare())
		assert.True(t, p.DepthWriteEnabled())
		assert.Equal(t, BindGroupLayouts(), p.BindGroupLayouts())
	}
}

func TestNewRenderPipelines_RejectsNonConformingShader(t *testing.T) {
	_, ctx := configuredContext(t)
	program, err := shader.NewShader("broken", shader.WithSource(`
@vertex fn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(0.0); }
@fragment fn fs_main() -> @location(0) vec4<f32> { return vec4<f32>(1.0); }
`))
	require.NoError(t, err)

	_, err = NewRenderPipelines(ctx, program)
	var initErr *InitializationError
	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, "pipeline", initErr.Stage)
}

func TestNewRenderPipelines_CreationFailure(t *testing.T) {
	backend, ctx := configuredContext(t)
	backend.pipelineErr = errDriver

	_, err := NewRenderPipelines(ctx, sceneShader(t))
	var initErr *InitializationError
	require.ErrorAs(t, err, &initErr)
	assert.ErrorIs(t, err, errDriver)
}

func TestRender_Once(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.frame.Update())
	require.NoError(t, h.frame.Render())

	assert.Equal(t, uint64(1), h.frame.PresentedFrames())
	assert.Equal(t, FrameIdle, h.frame.State())
	assert.Equal(t, 1, h.backend.presented)
	assert.Equal(t, []string{
		"write",
		"begin",
		"bind", "bind",
		"set:" + SkyboxPipelineKey, "draw",
		"set:" + MeshPipelineKey, "drawIndexed",
		"end",
		"present",
	}, h.backend.calls)
	assert.Equal(t, []uint32{3}, h.backend.draws)
	assert.Equal(t, []int{3}, h.backend.indexed)
	assert.Equal(t, "Uniforms", h.backend.boundGroups[uniform.Group])
	assert.Equal(t, "Skybox", h.backend.boundGroups[skybox.Group])
	assert.Equal(t, []wgpu.Color{{R: 0, G: 0, B: 0, A: 1}}, h.backend.clearColors)
}

func TestRender_ClearColorOption(t *testing.T) {
	h := newHarness(t, WithClearColor(wgpu.Color{R: 1, A: 1}))
	require.NoError(t, h.frame.Render())
	assert.Equal(t, []wgpu.Color{{R: 1, A: 1}}, h.backend.clearColors)
}

func TestRender_LostReconfiguresThenRecovers(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.frame.Render())

	h.backend.acquireErrs = []error{&SurfaceError{Kind: SurfaceLost}}
	require.NoError(t, h.frame.Render())
	assert.Equal(t, uint64(1), h.frame.PresentedFrames())
	assert.Equal(t, uint64(1), h.frame.SkippedFrames())
	assert.Equal(t, [][2]int{{1600, 900}, {1600, 900}}, h.backend.configured)
	assert.Equal(t, FrameIdle, h.frame.State())

	require.NoError(t, h.frame.Render())
	assert.Equal(t, uint64(2), h.frame.PresentedFrames())
}

func TestRender_RecoverableAcquisitionErrors(t *testing.T) {
	for _, kind := range []SurfaceErrorKind{SurfaceOutdated, SurfaceTimeout} {
		t.Run(kind.String(), func(t *testing.T) {
			h := newHarness(t)
			h.backend.acquireErrs = []error{&SurfaceError{Kind: kind}}

			require.NoError(t, h.frame.Render())
			assert.Zero(t, h.frame.PresentedFrames())
			reconfigured := len(h.backend.configured) == 2
			assert.Equal(t, kind == SurfaceOutdated, reconfigured)

			require.NoError(t, h.frame.Render())
			assert.Equal(t, uint64(1), h.frame.PresentedFrames())
		})
	}
}

func TestRender_OutOfMemoryIsFatal(t *testing.T) {
	h := newHarness(t)
	h.backend.acquireErrs = []error{&SurfaceError{Kind: SurfaceOutOfMemory}}

	err := h.frame.Render()
	require.Error(t, err)
	assert.True(t, IsFatal(err))
	assert.Equal(t, FrameIdle, h.frame.State())
	assert.Zero(t, h.frame.PresentedFrames())
}

func TestRender_ResizeToZeroSkipsThenRecovers(t *testing.T) {
	for _, size := range [][2]int{{0, 900}, {1600, 0}} {
		h := newHarness(t)

		require.NoError(t, h.ctx.Resize(size[0], size[1]))
		require.NoError(t, h.frame.Render())
		assert.Zero(t, h.frame.PresentedFrames())
		assert.NotContains(t, h.backend.calls, "begin")

		require.NoError(t, h.ctx.Resize(1280, 720))
		require.NoError(t, h.frame.Render())
		assert.Equal(t, uint64(1), h.frame.PresentedFrames())
		assert.Equal(t, [2]int{1280, 720}, h.backend.configured[len(h.backend.configured)-1])
	}
}

func TestRender_SubmitFailureAbortsFrame(t *testing.T) {
	h := newHarness(t)
	h.backend.endErr = errDriver

	err := h.frame.Render()
	assert.ErrorIs(t, err, errDriver)
	assert.False(t, IsFatal(err), "a failed submit drops the frame only")
	assert.Equal(t, 1, h.backend.aborted)
	assert.Zero(t, h.backend.presented)
	assert.Equal(t, uint64(1), h.frame.SkippedFrames())
	assert.Equal(t, FrameIdle, h.frame.State())

	h.backend.endErr = nil
	require.NoError(t, h.frame.Render())
	assert.Equal(t, uint64(1), h.frame.PresentedFrames())
}

func TestRender_PresentFailureDropsFrameThenRecovers(t *testing.T) {
	h := newHarness(t)
	h.backend.presentErr = errDriver

	err := h.frame.Render()
	assert.ErrorIs(t, err, errDriver)
	assert.False(t, IsFatal(err))
	assert.Equal(t, 1, h.backend.aborted)
	assert.Equal(t, uint64(1), h.frame.SkippedFrames())
	assert.Equal(t, FrameIdle, h.frame.State())

	h.backend.presentErr = nil
	require.NoError(t, h.frame.Render())
	assert.Equal(t, uint64(1), h.frame.PresentedFrames())
	assert.Equal(t, 1, h.backend.presented)
}

func TestRender_ReconfigureFailureIsNotFatal(t *testing.T) {
	h := newHarness(t)
	h.backend.acquireErrs = []error{&SurfaceError{Kind: SurfaceLost}}
	h.backend.configureErr = errDriver

	err := h.frame.Render()
	assert.ErrorIs(t, err, errDriver)
	assert.False(t, IsFatal(err))
	assert.Equal(t, FrameIdle, h.frame.State())

	h.backend.configureErr = nil
	require.NoError(t, h.frame.Render())
	assert.Equal(t, uint64(1), h.frame.PresentedFrames())
}

func TestRender_RecordingFailureAbortsFrame(t *testing.T) {
	h := newHarness(t)
	h.ctx.mu.Lock()
	delete(h.ctx.pipelineCache, MeshPipelineKey)
	h.ctx.mu.Unlock()

	err := h.frame.Render()
	require.Error(t, err)
	assert.False(t, IsFatal(err))
	assert.Contains(t, h.backend.calls, "abort")
	assert.NotContains(t, h.backend.calls, "end")
	assert.NotContains(t, h.backend.calls, "present")
	assert.Zero(t, h.frame.PresentedFrames())
}

func TestUpdate_UploadsUniformBlock(t *testing.T) {
	h := newHarness(t)
	h.clock.Advance(500 * time.Millisecond)

	require.NoError(t, h.frame.Update())
	require.Len(t, h.backend.writes, 1)
	w := h.backend.writes[0]
	assert.Equal(t, uniform.Binding, w.Binding)
	assert.Len(t, w.Data, 144)
	assert.InDelta(t, 0.5, h.uniforms.Current().Time, 1e-6)
}

func TestNewFrameRenderer_RequiresCollaborators(t *testing.T) {
	_, err := NewFrameRenderer(nil, nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestFrameStateString(t *testing.T) {
	assert.Equal(t, "idle", FrameIdle.String())
	assert.Equal(t, "recording", FrameRecording.String())
	assert.Equal(t, "FrameState(42)", FrameState(42).String())
}
