package model

// GeometryBufferBuilderOption is a functional option for configuring a GeometryBuffer via NewGeometryBuffer.
type GeometryBufferBuilderOption func(*geometryBuffer)

// WithName overrides the mesh name used for GPU labels.
//
// Parameters:
//   - name: the mesh identifier
//
// Returns:
//   - GeometryBufferBuilderOption: a function that applies the name
func WithName(name string) GeometryBufferBuilderOption {
	return func(g *geometryBuffer) {
		g.name = name
	}
}

// WithColor sets the color given to every vertex instead of opaque white.
//
// Parameters:
//   - color: RGBA color
//
// Returns:
//   - GeometryBufferBuilderOption: a function that applies the color
func WithColor(color [4]float32) GeometryBufferBuilderOption {
	return func(g *geometryBuffer) {
		g.color = color
	}
}
