package renderer

import "github.com/cogentcore/webgpu/wgpu"

// FrameRendererBuilderOption is a functional option applied to a frame renderer during construction via NewFrameRenderer.
type FrameRendererBuilderOption func(*frameRenderer)

// WithClearColor sets the color the surface is cleared to at the start of every frame. Black is used when unset.
//
// Parameters:
//   - c: the clear color
//
// Returns:
//   - FrameRendererBuilderOption: a function that applies the clear color to a frame renderer
func WithClearColor(c wgpu.Color) FrameRendererBuilderOption {
	return func(f *frameRenderer) {
		f.clearColor = c
	}
}
