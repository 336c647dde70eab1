package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-sky/common"
	"github.com/Carmen-Shannon/oxy-sky/engine/model"
	"github.com/Carmen-Shannon/oxy-sky/engine/skybox"
	"github.com/Carmen-Shannon/oxy-sky/engine/uniform"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
)

// FrameState is the position of the frame renderer in its per-frame cycle.
type FrameState int

const (
	FrameIdle FrameState = iota
	FrameAcquiring
	FrameRecording
	FrameSubmitted
	FramePresented
)

func (s FrameState) String() string {
	switch s {
	case FrameIdle:
		return "idle"
	case FrameAcquiring:
		return "acquiring"
	case FrameRecording:
		return "recording"
	case FrameSubmitted:
		return "submitted"
	case FramePresented:
		return "presented"
	default:
		return fmt.Sprintf("FrameState(%d)", int(s))
	}
}

// skyboxVertexCount is the size of the full-screen triangle the skybox vertex stage generates.
const skyboxVertexCount = 3

type frameRenderer struct {
	mu *sync.Mutex

	ctx       GraphicsContext
	uniforms  uniform.UniformBuffer
	geometry  model.GeometryBuffer
	sky       skybox.SkyboxTexture
	pipelines *RenderPipelines

	clearColor wgpu.Color
	state      FrameState
	presented  uint64
	skipped    uint64
}

// FrameRenderer records and presents one frame per call: the skybox pass followed by the mesh pass,
// inside a single render pass.
type FrameRenderer interface {
	// Update advances the uniform block for the coming frame and enqueues its upload.
	//
	// Returns:
	//   - error: an error if the upload could not be enqueued
	Update() error

	// Render acquires the next surface texture, records the skybox and mesh draws, submits and presents.
	// Recoverable surface errors reconfigure or skip the frame and return nil; fatal ones are returned.
	// A failure while recording, submitting or presenting aborts and drops the whole frame; that
	// error is returned but IsFatal reports false for it.
	//
	// Returns:
	//   - error: a fatal *SurfaceError, or the error that dropped the frame
	Render() error

	// State returns the current state of the frame cycle. It is FrameIdle between calls to Render.
	//
	// Returns:
	//   - FrameState: the state
	State() FrameState

	// PresentedFrames returns the number of frames presented so far.
	//
	// Returns:
	//   - uint64: the presented frame count
	PresentedFrames() uint64

	// SkippedFrames returns the number of frames skipped for suspension, recoverable surface errors
	// or a dropped frame.
	//
	// Returns:
	//   - uint64: the skipped frame count
	SkippedFrames() uint64
}

var _ FrameRenderer = &frameRenderer{}

// NewFrameRenderer ties the per-frame resources to ctx.
//
// Parameters:
//   - ctx: the graphics context the frame is recorded on
//   - uniforms: the uniform block bound at group 0
//   - geometry: the mesh drawn by the mesh pipeline
//   - sky: the cube texture bound at group 1
//   - pipelines: the registered skybox and mesh pipelines
//   - options: functional options
//
// Returns:
//   - FrameRenderer: the renderer
//   - error: an error if any collaborator is missing
func NewFrameRenderer(ctx GraphicsContext, uniforms uniform.UniformBuffer, geometry model.GeometryBuffer, sky skybox.SkyboxTexture, pipelines *RenderPipelines, options ...FrameRendererBuilderOption) (FrameRenderer, error) {
	if ctx == nil || uniforms == nil || geometry == nil || sky == nil || pipelines == nil {
		return nil, errors.New("frame renderer: context, uniforms, geometry, skybox and pipelines are required")
	}
	f := &frameRenderer{
		mu:         &sync.Mutex{},
		ctx:        ctx,
		uniforms:   uniforms,
		geometry:   geometry,
		sky:        sky,
		pipelines:  pipelines,
		clearColor: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
		state:      FrameIdle,
	}
	for _, opt := range options {
		opt(f)
	}
	return f, nil
}

func (f *frameRenderer) Update() error {
	return f.uniforms.Update(f.ctx)
}

func (f *frameRenderer) Render() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	defer func() { f.state = FrameIdle }()

	if f.ctx.Suspended() {
		f.skipped++
		return nil
	}

	f.state = FrameAcquiring
	if err := f.ctx.BeginFrame(f.clearColor); err != nil {
		return f.handleAcquireError(err)
	}

	f.state = FrameRecording
	if err := f.record(); err != nil {
		return f.dropFrame(errors.Wrap(err, "record frame"))
	}

	if err := f.ctx.EndFrame(); err != nil {
		return f.dropFrame(err)
	}
	f.state = FrameSubmitted

	if err := f.ctx.Present(); err != nil {
		return f.dropFrame(errors.Wrap(err, "present frame"))
	}
	f.state = FramePresented
	f.presented++
	return nil
}

// dropFrame abandons the open frame. The error is returned for logging; it is not fatal.
func (f *frameRenderer) dropFrame(err error) error {
	f.ctx.AbortFrame()
	f.skipped++
	return err
}

func (f *frameRenderer) record() error {
	if err := f.ctx.SetBindGroups(f.uniforms.BindGroupProvider(), f.sky.BindGroupProvider()); err != nil {
		return err
	}
	if err := f.ctx.Draw(f.pipelines.Skybox, skyboxVertexCount); err != nil {
		return err
	}
	return f.ctx.DrawIndexed(f.pipelines.Mesh, f.geometry.MeshProvider())
}

func (f *frameRenderer) handleAcquireError(err error) error {
	var surfaceErr *SurfaceError
	if !errors.As(err, &surfaceErr) {
		f.skipped++
		return errors.Wrap(err, "acquire frame")
	}

	switch {
	case !surfaceErr.Recoverable():
		common.Logger().Error("surface acquisition failed", "kind", surfaceErr.Kind.String(), "err", surfaceErr)
		return surfaceErr
	case surfaceErr.NeedsReconfigure():
		f.skipped++
		common.Logger().Warn("surface needs reconfiguration, frame skipped", "kind", surfaceErr.Kind.String())
		if rerr := f.ctx.Reconfigure(); rerr != nil {
			return errors.Wrap(rerr, "reconfigure surface")
		}
		return nil
	default:
		f.skipped++
		common.Logger().Warn("surface acquisition timed out, frame skipped")
		return nil
	}
}

func (f *frameRenderer) State() FrameState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *frameRenderer) PresentedFrames() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.presented
}

func (f *frameRenderer) SkippedFrames() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.skipped
}
