package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// GraphicsContextBuilderOption is a functional option applied to a graphics context during construction via NewGraphicsContext.
type GraphicsContextBuilderOption func(*graphicsContext)

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - GraphicsContextBuilderOption: a function that applies the present mode option to a graphics context
func WithPresentMode(mode PresentMode) GraphicsContextBuilderOption {
	return func(g *graphicsContext) {
		g.presentMode = mode
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - GraphicsContextBuilderOption: a function that applies the force software renderer option to a graphics context
func WithForceSoftwareRenderer(force bool) GraphicsContextBuilderOption {
	return func(g *graphicsContext) {
		g.forceFallbackAdapter = force
	}
}

// WithDepthFormat overrides the depth attachment format. Depth32Float is used when unset.
//
// Parameters:
//   - format: the depth texture format
//
// Returns:
//   - GraphicsContextBuilderOption: a function that applies the depth format option to a graphics context
func WithDepthFormat(format wgpu.TextureFormat) GraphicsContextBuilderOption {
	return func(g *graphicsContext) {
		g.depthFormat = format
	}
}
