package engine

import (
	"github.com/Carmen-Shannon/oxy-sky/engine/camera"
	"github.com/Carmen-Shannon/oxy-sky/engine/profiler"
	"github.com/Carmen-Shannon/oxy-sky/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sky/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfiler replaces the default profiler.
//
// Parameters:
//   - p: the profiler to feed with frame counts
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = p
	}
}

// WithWindow sets the window whose message loop drives the engine.
//
// Parameters:
//   - w: a spawned Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithGraphicsContext sets the graphics context that receives window resizes.
//
// Parameters:
//   - g: the graphics context
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithGraphicsContext(g renderer.GraphicsContext) EngineBuilderOption {
	return func(e *engine) {
		e.graphics = g
	}
}

// WithCamera sets the camera whose aspect follows the window size.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCamera(c camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.camera = c
	}
}

// WithFrameRenderer sets the frame renderer invoked on every redraw.
//
// Parameters:
//   - f: the frame renderer
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithFrameRenderer(f renderer.FrameRenderer) EngineBuilderOption {
	return func(e *engine) {
		e.frame = f
	}
}

// WithReleaser registers a cleanup function run by Release. Releasers run in reverse registration order.
//
// Parameters:
//   - release: the function to run
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithReleaser(release func()) EngineBuilderOption {
	return func(e *engine) {
		if release != nil {
			e.releasers = append(e.releasers, release)
		}
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.renderFrameLimit = frameDuration(fps)
	}
}
