package engine

import (
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-sky/common"
	"github.com/Carmen-Shannon/oxy-sky/engine/camera"
	"github.com/Carmen-Shannon/oxy-sky/engine/profiler"
	"github.com/Carmen-Shannon/oxy-sky/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sky/engine/window"

	"github.com/pkg/errors"
)

// errQuit unwinds the window loop after Quit; Run reports it as a normal exit.
var errQuit = errors.New("engine: quit requested")

// surfaceResizer is the part of the graphics context the engine routes window resizes to.
type surfaceResizer interface {
	Resize(width, height int) error
}

// engine implements the Engine interface.
// Everything runs on the goroutine that calls Run: the window delivers resize, close
// and redraw between frames, so no frame is ever in flight while the surface changes.
type engine struct {
	window   window.Window
	graphics surfaceResizer
	camera   camera.Camera
	frame    renderer.FrameRenderer

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastRedraw       time.Time
	sleep            func(time.Duration)

	lastPresented uint64
	lastSkipped   uint64

	// resizeErr holds a fatal resize failure until the next redraw reports it.
	resizeErr error
	quit      bool

	// releasers free the collaborators in reverse construction order.
	releasers   []func()
	releaseOnce sync.Once
}

// Engine is the main entry point for the engine.
// It ties the window's resize, close and redraw signals to the frame renderer.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run drives the window loop until the window closes, Quit is called, or a frame fails fatally.
	// Each redraw performs one Update followed by one Render.
	//
	// Returns:
	//   - error: the fatal frame error, or nil on a normal close
	Run() error

	// Quit stops the loop after the current redraw. Safe to call multiple times.
	Quit()

	// Release frees every GPU resource and closes the window. Safe to call multiple times.
	Release()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine with the provided options.
// The window, graphics context, camera and frame renderer options are required.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
//   - error: error if a required collaborator is missing
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		profiler: profiler.NewProfiler(),
		sleep:    time.Sleep,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window == nil || e.graphics == nil || e.camera == nil || e.frame == nil {
		return nil, errors.New("engine: window, graphics context, camera and frame renderer are required")
	}
	return e, nil
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Run() error {
	e.window.SetResizeCallback(e.handleResize)
	e.window.SetRedrawCallback(e.handleRedraw)
	e.window.SetCloseCallback(func() {
		common.Logger().Info("window closed",
			"presented", e.frame.PresentedFrames(),
			"skipped", e.frame.SkippedFrames(),
		)
	})

	common.Logger().Info("engine running", "width", e.window.Width(), "height", e.window.Height())
	err := e.window.ProcessMessages()
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

func (e *engine) Quit() {
	e.quit = true
}

func (e *engine) Release() {
	e.releaseOnce.Do(func() {
		for i := len(e.releasers) - 1; i >= 0; i-- {
			e.releasers[i]()
		}
		if err := e.window.Close(); err != nil {
			common.Logger().Debug("window close", "error", err)
		}
	})
}

// handleResize reconfigures the surface and keeps the camera aspect in step.
// A zero dimension suspends rendering inside the graphics context.
func (e *engine) handleResize(width, height int) {
	if err := e.graphics.Resize(width, height); err != nil {
		if renderer.IsFatal(err) {
			common.Logger().Error("surface resize failed", "width", width, "height", height, "error", err)
			e.resizeErr = errors.Wrap(err, "resize")
			return
		}
		// The next acquisition reports the stale surface and reconfigures it.
		common.Logger().Warn("surface resize failed", "width", width, "height", height, "error", err)
		return
	}
	if width > 0 && height > 0 {
		e.camera.SetAspect(float32(width) / float32(height))
	}
	common.Logger().Debug("surface resized", "width", width, "height", height)
}

// handleRedraw produces one frame. Only errors IsFatal accepts stop the window loop;
// anything else drops the frame and the loop carries on.
func (e *engine) handleRedraw() error {
	if e.quit {
		return errQuit
	}
	if e.resizeErr != nil {
		return e.resizeErr
	}

	if err := e.frame.Update(); err != nil {
		if renderer.IsFatal(err) {
			return errors.Wrap(err, "update")
		}
		common.Logger().Warn("uniform update failed", "error", err)
	}
	if err := e.frame.Render(); err != nil {
		if renderer.IsFatal(err) {
			common.Logger().Error("fatal frame error", "error", err)
			return err
		}
		common.Logger().Warn("frame dropped", "error", err)
	}

	e.trackFrame()
	e.limitFrameRate()
	return nil
}

// trackFrame feeds the profiler from the frame renderer counters.
func (e *engine) trackFrame() {
	presented, skipped := e.frame.PresentedFrames(), e.frame.SkippedFrames()
	if e.profilingEnabled && e.profiler != nil {
		for ; e.lastSkipped < skipped; e.lastSkipped++ {
			e.profiler.Skip()
		}
		if presented > e.lastPresented {
			e.profiler.Tick()
		}
	}
	e.lastPresented, e.lastSkipped = presented, skipped
}

func (e *engine) limitFrameRate() {
	now := time.Now()
	if e.renderFrameLimit > 0 && !e.lastRedraw.IsZero() {
		if remaining := e.renderFrameLimit - now.Sub(e.lastRedraw); remaining > 0 {
			e.sleep(remaining)
			now = now.Add(remaining)
		}
	}
	e.lastRedraw = now
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
