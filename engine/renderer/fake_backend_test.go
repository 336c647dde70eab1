package renderer

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-sky/common"
	"github.com/Carmen-Shannon/oxy-sky/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-sky/engine/renderer/pipeline"

	"github.com/cogentcore/webgpu/wgpu"
)

// fakeBackend records every call the graphics context makes and hands out placeholder GPU objects.
type fakeBackend struct {
	calls []string

	configured  [][2]int
	pipelines   []string
	writes      []bind_group_provider.BufferWrite
	clearColors []wgpu.Color
	draws       []uint32
	indexed     []int
	boundGroups map[int]string

	// acquireErrs are returned by successive BeginFrame calls before succeeding.
	acquireErrs  []error
	configureErr error
	pipelineErr  error
	endErr       error
	presentErr   error

	open      bool
	presented int
	aborted   int
	released  bool
}

var _ graphicsBackend = &fakeBackend{}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{boundGroups: make(map[int]string)}
}

func (f *fakeBackend) InitMeshBuffers(p bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int, indexData []byte, indexCount int) error {
	f.calls = append(f.calls, "mesh")
	p.SetMeshBuffers(&wgpu.Buffer{}, vertexCount, &wgpu.Buffer{}, indexCount)
	return nil
}

func (f *fakeBackend) InitBindGroup(p bind_group_provider.BindGroupProvider, d wgpu.BindGroupLayoutDescriptor) error {
	f.calls = append(f.calls, "bindgroup:"+p.Label())
	for _, e := range d.Entries {
		if e.Buffer.Type != wgpu.BufferBindingTypeUndefined && p.Buffer(int(e.Binding)) == nil {
			p.SetBuffer(int(e.Binding), &wgpu.Buffer{})
		}
	}
	p.SetBindGroup(&wgpu.BindGroup{})
	return nil
}

func (f *fakeBackend) InitTextureView(p bind_group_provider.BindGroupProvider, binding int, _ common.TextureStagingData, _ wgpu.TextureViewDimension) error {
	f.calls = append(f.calls, "texture")
	p.SetTextureView(binding, &wgpu.TextureView{})
	return nil
}

func (f *fakeBackend) InitSampler(p bind_group_provider.BindGroupProvider, binding int, _ common.SamplerStagingData) error {
	f.calls = append(f.calls, "sampler")
	p.SetSampler(binding, &wgpu.Sampler{})
	return nil
}

func (f *fakeBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) error {
	f.calls = append(f.calls, "write")
	f.writes = append(f.writes, writes...)
	return nil
}

func (f *fakeBackend) ConfigureSurface(width, height int) error {
	f.calls = append(f.calls, "configure")
	if f.configureErr != nil {
		return f.configureErr
	}
	f.configured = append(f.configured, [2]int{width, height})
	return nil
}

func (f *fakeBackend) SurfaceFormat() wgpu.TextureFormat {
	return wgpu.TextureFormatBGRA8UnormSrgb
}

func (f *fakeBackend) DepthFormat() wgpu.TextureFormat {
	return wgpu.TextureFormatDepth32Float
}

func (f *fakeBackend) CreateRenderPipeline(p pipeline.Pipeline) error {
	f.calls = append(f.calls, "pipeline:"+p.PipelineKey())
	if f.pipelineErr != nil {
		return f.pipelineErr
	}
	f.pipelines = append(f.pipelines, p.PipelineKey())
	return nil
}

func (f *fakeBackend) BeginFrame(clear wgpu.Color) error {
	f.calls = append(f.calls, "begin")
	if len(f.acquireErrs) > 0 {
		err := f.acquireErrs[0]
		f.acquireErrs = f.acquireErrs[1:]
		if err != nil {
			return err
		}
	}
	f.open = true
	f.clearColors = append(f.clearColors, clear)
	return nil
}

func (f *fakeBackend) SetPipeline(p pipeline.Pipeline) {
	f.calls = append(f.calls, "set:"+p.PipelineKey())
}

func (f *fakeBackend) SetBindGroup(index int, p bind_group_provider.BindGroupProvider) {
	f.calls = append(f.calls, "bind")
	f.boundGroups[index] = p.Label()
}

func (f *fakeBackend) Draw(vertexCount uint32) {
	f.calls = append(f.calls, "draw")
	f.draws = append(f.draws, vertexCount)
}

func (f *fakeBackend) DrawIndexed(mesh bind_group_provider.BindGroupProvider) {
	f.calls = append(f.calls, "drawIndexed")
	f.indexed = append(f.indexed, mesh.IndexCount())
}

func (f *fakeBackend) EndFrame() error {
	f.calls = append(f.calls, "end")
	if f.endErr != nil {
		return f.endErr
	}
	return nil
}

func (f *fakeBackend) Present() error {
	f.calls = append(f.calls, "present")
	if f.presentErr != nil {
		return f.presentErr
	}
	f.open = false
	f.presented++
	return nil
}

func (f *fakeBackend) AbortFrame() {
	f.calls = append(f.calls, "abort")
	if f.open {
		f.aborted++
	}
	f.open = false
}

func (f *fakeBackend) Release() {
	f.released = true
}

var errDriver = errors.New("driver failure")
