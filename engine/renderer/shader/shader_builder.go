package shader

// ShaderBuilderOption is a function that configures a shader during construction.
type ShaderBuilderOption func(*shader)

// WithSource sets the raw WGSL source of the shader.
//
// Parameters:
//   - source: the WGSL source, annotations included
//
// Returns:
//   - ShaderBuilderOption: a function that applies the source to a shader
func WithSource(source string) ShaderBuilderOption {
	return func(s *shader) {
		s.source = source
		s.sourcePath = ""
	}
}

// WithSourceFromPath reads the raw WGSL source from a file when the shader is built.
//
// Parameters:
//   - path: the file path to read WGSL source from
//
// Returns:
//   - ShaderBuilderOption: a function that applies the source path to a shader
func WithSourceFromPath(path string) ShaderBuilderOption {
	return func(s *shader) {
		s.sourcePath = path
	}
}

// WithValidation compiles the processed source with naga before it is accepted, so malformed
// programs fail at build time rather than at pipeline creation.
//
// Parameters:
//   - validate: whether to validate the source
//
// Returns:
//   - ShaderBuilderOption: a function that applies the validation flag to a shader
func WithValidation(validate bool) ShaderBuilderOption {
	return func(s *shader) {
		s.validate = validate
	}
}
