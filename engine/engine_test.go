package engine

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-sky/common"
	"github.com/Carmen-Shannon/oxy-sky/engine/camera"
	"github.com/Carmen-Shannon/oxy-sky/engine/renderer"

	"github.com/cogentcore/webgpu/wgpu"
	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWindow replays scripted resizes and then redraws until the callback fails or frames run out.
type fakeWindow struct {
	width, height int
	frames        int
	resizes       [][2]int

	onRedraw func() error
	onResize func(int, int)
	onClose  func()

	redraws int
	closed  int
}

func (w *fakeWindow) SetRedrawCallback(cb func() error)            { w.onRedraw = cb }
func (w *fakeWindow) SetResizeCallback(cb func(width, height int)) { w.onResize = cb }
func (w *fakeWindow) SetCloseCallback(cb func())                   { w.onClose = cb }
func (w *fakeWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor   { return nil }
func (w *fakeWindow) IsRunning() bool                              { return w.closed == 0 }
func (w *fakeWindow) Width() int                                   { return w.width }
func (w *fakeWindow) Height() int                                  { return w.height }

func (w *fakeWindow) Close() error {
	w.closed++
	return nil
}

func (w *fakeWindow) ProcessMessages() error {
	for _, size := range w.resizes {
		w.onResize(size[0], size[1])
	}
	for i := 0; i < w.frames; i++ {
		w.redraws++
		if err := w.onRedraw(); err != nil {
			return err
		}
	}
	w.onClose()
	return nil
}

type fakeResizer struct {
	sizes [][2]int
	err   error
}

func (r *fakeResizer) Resize(width, height int) error {
	if r.err != nil {
		return r.err
	}
	r.sizes = append(r.sizes, [2]int{width, height})
	return nil
}

// fakeFrame scripts what the frame did; a nil entry presents. It returns exactly what
// frameRenderer.Render returns for the same outcome: recoverable surface errors are
// swallowed, dropped frames come back as plain errors, and both count as skipped.
type fakeFrame struct {
	results    []error
	updateErrs []error
	updates    int
	renders    int
	presented  uint64
	skipped    uint64
}

func (f *fakeFrame) Update() error {
	f.updates++
	if len(f.updateErrs) > 0 {
		err := f.updateErrs[0]
		f.updateErrs = f.updateErrs[1:]
		return err
	}
	return nil
}

func (f *fakeFrame) Render() error {
	f.renders++
	var err error
	if len(f.results) > 0 {
		err, f.results = f.results[0], f.results[1:]
	}

	var surfaceErr *renderer.SurfaceError
	switch {
	case err == nil:
		f.presented++
		return nil
	case renderer.IsFatal(err):
		return err
	case errors.As(err, &surfaceErr):
		f.skipped++
		return nil
	default:
		f.skipped++
		return err
	}
}

func (f *fakeFrame) State() renderer.FrameState { return renderer.FrameIdle }
func (f *fakeFrame) PresentedFrames() uint64    { return f.presented }
func (f *fakeFrame) SkippedFrames() uint64      { return f.skipped }

type fixture struct {
	win     *fakeWindow
	resizer *fakeResizer
	frame   *fakeFrame
	cam     camera.Camera
	engine  *engine
}

func newFixture(t *testing.T, frames int) *fixture {
	t.Helper()
	cam, err := camera.NewCamera()
	require.NoError(t, err)

	f := &fixture{
		win:     &fakeWindow{width: 1600, height: 900, frames: frames},
		resizer: &fakeResizer{},
		frame:   &fakeFrame{},
		cam:     cam,
	}
	e, err := NewEngine(WithWindow(f.win), WithCamera(cam), WithFrameRenderer(f.frame))
	require.Error(t, err, "a graphics context is required")
	assert.Nil(t, e)

	f.engine = &engine{
		window:   f.win,
		graphics: f.resizer,
		camera:   cam,
		frame:    f.frame,
		sleep:    func(time.Duration) {},
	}
	return f
}

func TestRun_UpdateThenRenderPerRedraw(t *testing.T) {
	f := newFixture(t, 3)

	require.NoError(t, f.engine.Run())
	assert.Equal(t, 3, f.win.redraws)
	assert.Equal(t, 3, f.frame.updates)
	assert.Equal(t, 3, f.frame.renders)
	assert.Equal(t, uint64(3), f.frame.presented)
}

func TestRun_ResizeUpdatesSurfaceAndAspect(t *testing.T) {
	f := newFixture(t, 1)
	f.win.resizes = [][2]int{{800, 400}, {0, 400}}

	require.NoError(t, f.engine.Run())
	assert.Equal(t, [][2]int{{800, 400}, {0, 400}}, f.resizer.sizes)
	assert.InDelta(t, 2.0, f.cam.Aspect(), 1e-6, "a zero dimension must leave the aspect unchanged")
}

func TestRun_FatalResizeFailureStopsLoop(t *testing.T) {
	f := newFixture(t, 5)
	f.win.resizes = [][2]int{{800, 600}}
	f.resizer.err = &renderer.InitializationError{Stage: "surface", Err: errors.New("configure failed")}

	err := f.engine.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, f.resizer.err)
	assert.Zero(t, f.frame.renders)
}

func TestRun_ResizeFailureKeepsRunning(t *testing.T) {
	f := newFixture(t, 2)
	f.win.resizes = [][2]int{{800, 400}}
	f.resizer.err = errors.New("configure failed")

	require.NoError(t, f.engine.Run())
	assert.Equal(t, 2, f.frame.renders)
	assert.InDelta(t, 1.0, f.cam.Aspect(), 1e-6, "a failed resize leaves the aspect alone")
}

func TestRun_RecoverableErrorsKeepRunning(t *testing.T) {
	f := newFixture(t, 3)
	f.frame.results = []error{&renderer.SurfaceError{Kind: renderer.SurfaceTimeout}}

	require.NoError(t, f.engine.Run())
	assert.Equal(t, 3, f.frame.renders)
	assert.Equal(t, uint64(2), f.frame.presented)
	assert.Equal(t, uint64(1), f.frame.skipped)
}

func TestRun_DroppedFramesKeepRunning(t *testing.T) {
	f := newFixture(t, 4)
	logs := captureLogs(t)
	submitErr := pkgerrors.Wrap(errors.New("driver failure"), "submit frame")
	f.frame.results = []error{submitErr, nil, pkgerrors.Wrap(errors.New("driver failure"), "present frame")}
	f.frame.updateErrs = []error{errors.New("queue write failed")}

	require.NoError(t, f.engine.Run())
	assert.Equal(t, 4, f.win.redraws)
	assert.Equal(t, 4, f.frame.renders)
	assert.Equal(t, uint64(2), f.frame.presented)
	assert.Equal(t, uint64(2), f.frame.skipped)
	assert.Equal(t, 2, strings.Count(logs.String(), "frame dropped"))
	assert.Contains(t, logs.String(), "uniform update failed")
}

func TestRun_FatalErrorStopsLoop(t *testing.T) {
	f := newFixture(t, 5)
	oom := &renderer.SurfaceError{Kind: renderer.SurfaceOutOfMemory}
	f.frame.results = []error{nil, oom}

	err := f.engine.Run()
	var surfaceErr *renderer.SurfaceError
	require.ErrorAs(t, err, &surfaceErr)
	assert.Equal(t, renderer.SurfaceOutOfMemory, surfaceErr.Kind)
	assert.Equal(t, 2, f.win.redraws)
}

func TestQuit(t *testing.T) {
	f := newFixture(t, 5)
	f.engine.Quit()
	f.engine.Quit()

	require.NoError(t, f.engine.Run())
	assert.Equal(t, 1, f.win.redraws)
	assert.Zero(t, f.frame.renders)
}

func TestRelease_ReverseOrderOnce(t *testing.T) {
	f := newFixture(t, 0)
	var order []string
	WithReleaser(func() { order = append(order, "uniforms") })(f.engine)
	WithReleaser(func() { order = append(order, "geometry") })(f.engine)
	WithReleaser(nil)(f.engine)

	f.engine.Release()
	f.engine.Release()
	assert.Equal(t, []string{"geometry", "uniforms"}, order)
	assert.Equal(t, 1, f.win.closed)
}

func TestFrameLimit(t *testing.T) {
	f := newFixture(t, 3)
	var slept []time.Duration
	f.engine.sleep = func(d time.Duration) { slept = append(slept, d) }
	f.engine.SetRenderFrameLimit(10)

	require.NoError(t, f.engine.Run())
	require.Len(t, slept, 2, "the first redraw has nothing to wait for")
	for _, d := range slept {
		assert.True(t, d > 0 && d <= 100*time.Millisecond, d)
	}

	f.engine.SetRenderFrameLimit(0)
	assert.Zero(t, f.engine.renderFrameLimit)
}

func TestProfilerFollowsFrameCounters(t *testing.T) {
	f := newFixture(t, 4)
	f.engine.profiler = nil
	WithProfiling(true)(f.engine)
	f.frame.results = []error{nil, &renderer.SurfaceError{Kind: renderer.SurfaceLost}}

	require.NoError(t, f.engine.Run())
	assert.Equal(t, uint64(3), f.engine.lastPresented)
	assert.Equal(t, uint64(1), f.engine.lastSkipped)

	f.engine.DisableProfiler()
	assert.False(t, f.engine.profilingEnabled)
	f.engine.EnableProfiler()
	assert.True(t, f.engine.profilingEnabled)
}

// captureLogs routes the shared logger into a buffer for the duration of the test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	common.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { common.SetLogger(nil) })
	return &buf
}

func TestFrameDuration(t *testing.T) {
	assert.Zero(t, frameDuration(0))
	assert.Zero(t, frameDuration(-5))
	assert.Equal(t, 16666666*time.Nanosecond, frameDuration(60))
}
