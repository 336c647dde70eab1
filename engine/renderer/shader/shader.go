package shader

import (
	_ "embed"
	"os"
	"slices"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"
	"github.com/pkg/errors"
)

// SceneSource is the WGSL program drawing the mesh and the skybox. It exposes the vs_main and
// fs_main mesh entry points and the sky_vs_main and sky_fs_main skybox entry points.
//
//go:embed assets/scene.wgsl
var SceneSource string

// ShaderType identifies a programmable stage of a render pipeline.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage.
	ShaderTypeFragment
)

// shader is the implementation of the Shader interface.
type shader struct {
	key        string
	source     string
	sourcePath string
	validate   bool
	reflection reflection
	module     *wgpu.ShaderModuleDescriptor

	pp PreProcessor
}

// Shader defines the interface for a loaded and parsed WGSL program. One program may carry
// several vertex and fragment entry points sharing the same bindings.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used as the module label.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the pre-processed WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// EntryPoints returns the names of every entry point declared for the given stage.
	//
	// Parameters:
	//   - stage: the stage to list entry points for
	//
	// Returns:
	//   - []string: entry point names in source order
	EntryPoints(stage ShaderType) []string

	// HasEntryPoint reports whether the program declares the named entry point for the stage.
	//
	// Parameters:
	//   - stage: the stage the entry point must belong to
	//   - name: the entry point function name
	//
	// Returns:
	//   - bool: true if the entry point exists
	HasEntryPoint(stage ShaderType, name string) bool

	// BindGroupLayoutDescriptor retrieves the parsed bind group layout descriptor of a group.
	//
	// Parameters:
	//   - group: the bind group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, or an empty descriptor if the group is not declared
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the variable name declared at a group and binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if not found
	BindGroupVarName(group, binding int) string

	// VertexLayout retrieves the vertex buffer layout derived from a vertex input struct.
	//
	// Parameters:
	//   - structName: the WGSL struct name, e.g. "VertexInput"
	//
	// Returns:
	//   - wgpu.VertexBufferLayout: the derived layout
	//   - bool: false if no vertex input struct of that name exists
	VertexLayout(structName string) (wgpu.VertexBufferLayout, bool)

	// StructSize returns the host-shareable size in bytes of a WGSL struct.
	//
	// Parameters:
	//   - structName: the WGSL struct name
	//
	// Returns:
	//   - uint64: the size of the struct
	//   - bool: false if the struct is unknown or could not be resolved
	StructSize(structName string) (uint64, bool)

	// Module returns the wgpu.ShaderModuleDescriptor built from the processed source.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// Declarations returns the group and provider annotations parsed from the source.
	//
	// Returns:
	//   - []Annotation: the declarations in source order
	Declarations() []Annotation
}

var _ Shader = &shader{}

// NewShader creates a new Shader with all specified options applied. The source is pre-processed
// and reflected immediately. SceneSource is used when no source option is given.
//
// Parameters:
//   - key: a unique identifier for the shader, used as the module label
//   - options: variadic list of ShaderBuilderOption functions to configure the shader
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if the source cannot be read, pre-processed or validated
func NewShader(key string, options ...ShaderBuilderOption) (Shader, error) {
	s := &shader{
		key:    key,
		source: SceneSource,
		pp:     NewPreProcessor(),
	}
	for _, opt := range options {
		opt(s)
	}

	raw := s.source
	if s.sourcePath != "" {
		data, err := os.ReadFile(s.sourcePath)
		if err != nil {
			return nil, errors.Wrapf(err, "shader %s: failed to read source %q", key, s.sourcePath)
		}
		raw = string(data)
	}
	if err := s.parseSource(raw); err != nil {
		return nil, errors.Wrapf(err, "shader %s", key)
	}
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoints(stage ShaderType) []string {
	return s.reflection.entryPoints[stage]
}

func (s *shader) HasEntryPoint(stage ShaderType, name string) bool {
	return slices.Contains(s.reflection.entryPoints[stage], name)
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.reflection.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupVarName(group, binding int) string {
	if s.reflection.bindingVarNames[group] == nil {
		return ""
	}
	return s.reflection.bindingVarNames[group][binding]
}

func (s *shader) VertexLayout(structName string) (wgpu.VertexBufferLayout, bool) {
	layout, ok := s.reflection.vertexLayouts[structName]
	return layout, ok
}

func (s *shader) StructSize(structName string) (uint64, bool) {
	layout, ok := s.reflection.structSizes[structName]
	return layout.size, ok
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) Declarations() []Annotation {
	return s.pp.Declarations()
}

// parseSource pre-processes the raw source, optionally validates it with naga, builds the
// shader module descriptor and reflects the program's entry points and bindings. Bindings are
// reflected with vertex and fragment visibility since every entry point shares them.
func (s *shader) parseSource(raw string) error {
	processed, err := s.pp.Process(raw)
	if err != nil {
		return errors.Wrap(err, "failed to pre-process source")
	}
	if s.validate {
		if _, err := naga.Compile(processed); err != nil {
			return errors.Wrap(err, "source failed validation")
		}
	}
	s.source = processed
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	s.reflection = parseReflection(s.source, wgpu.ShaderStageVertex|wgpu.ShaderStageFragment)
	return nil
}
