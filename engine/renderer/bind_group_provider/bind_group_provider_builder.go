package bind_group_provider

import "github.com/cogentcore/webgpu/wgpu"

// BindGroupProviderOption is a functional option used to configure a BindGroupProvider during construction.
type BindGroupProviderOption func(*bindGroupProvider)

// WithBindGroupLayout seeds the provider with an existing layout so InitBindGroup reuses it instead of creating one.
//
// Parameters:
//   - bgl: the bind group layout to reuse
//
// Returns:
//   - BindGroupProviderOption: a function that sets the layout on the provider
func WithBindGroupLayout(bgl *wgpu.BindGroupLayout) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.bindGroupLayout = bgl
	}
}

// WithBuffer seeds the provider with an existing buffer at binding so InitBindGroup binds it instead of allocating.
//
// Parameters:
//   - binding: the binding index for this buffer
//   - buf: the buffer to bind
//
// Returns:
//   - BindGroupProviderOption: a function that sets the buffer for the binding
func WithBuffer(binding int, buf *wgpu.Buffer) BindGroupProviderOption {
	return func(p *bindGroupProvider) {
		p.buffers[binding] = buf
	}
}
