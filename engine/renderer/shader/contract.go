package shader

import (
	"github.com/Carmen-Shannon/oxy-sky/engine/model"
	"github.com/Carmen-Shannon/oxy-sky/engine/skybox"
	"github.com/Carmen-Shannon/oxy-sky/engine/uniform"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
)

// Entry point names the render pipelines are built against.
const (
	VertexEntryPoint         = "vs_main"
	FragmentEntryPoint       = "fs_main"
	SkyboxVertexEntryPoint   = "sky_vs_main"
	SkyboxFragmentEntryPoint = "sky_fs_main"
)

// SkyboxGroup is the bind group index holding the cube texture and its sampler.
const SkyboxGroup = skybox.Group

// vertexInputStruct is the name of the mesh vertex input struct.
const vertexInputStruct = "VertexInput"

// Verify checks that a program matches the binding layout the renderer creates: the four entry
// points exist, group 0 binding 0 is a uniform buffer of GPUUniform size, group 1 matches
// skybox.LayoutDescriptor, every @oxy tag names the provider that fills its binding, and the
// vertex input struct matches the GPUVertex layout.
//
// Parameters:
//   - s: the parsed shader to check
//
// Returns:
//   - error: a description of the first mismatch, or nil if the program conforms
func Verify(s Shader) error {
	for _, ep := range []struct {
		stage ShaderType
		name  string
	}{
		{ShaderTypeVertex, VertexEntryPoint},
		{ShaderTypeFragment, FragmentEntryPoint},
		{ShaderTypeVertex, SkyboxVertexEntryPoint},
		{ShaderTypeFragment, SkyboxFragmentEntryPoint},
	} {
		if !s.HasEntryPoint(ep.stage, ep.name) {
			return errors.Errorf("shader %s: missing entry point %q", s.Key(), ep.name)
		}
	}

	if err := verifyUniformGroup(s); err != nil {
		return err
	}
	if err := verifySkyboxGroup(s); err != nil {
		return err
	}
	if err := verifyDeclarations(s); err != nil {
		return err
	}
	return verifyVertexInput(s)
}

func verifyUniformGroup(s Shader) error {
	var u uniform.GPUUniform
	entry, ok := findEntry(s.BindGroupLayoutDescriptor(uniform.Group), uniform.Binding)
	if !ok {
		return errors.Errorf("shader %s: group %d binding %d is not declared", s.Key(), uniform.Group, uniform.Binding)
	}
	if entry.Buffer.Type != wgpu.BufferBindingTypeUniform {
		return errors.Errorf("shader %s: group %d binding %d is not a uniform buffer", s.Key(), uniform.Group, uniform.Binding)
	}
	if entry.Buffer.MinBindingSize != uint64(u.Size()) {
		return errors.Errorf("shader %s: uniform block is %d bytes, expected %d", s.Key(), entry.Buffer.MinBindingSize, u.Size())
	}
	return nil
}

func verifySkyboxGroup(s Shader) error {
	want := skybox.LayoutDescriptor()
	desc := s.BindGroupLayoutDescriptor(SkyboxGroup)
	for _, w := range want.Entries {
		got, ok := findEntry(desc, w.Binding)
		switch {
		case w.Texture.ViewDimension != wgpu.TextureViewDimensionUndefined:
			if !ok || got.Texture.ViewDimension != w.Texture.ViewDimension || got.Texture.SampleType != w.Texture.SampleType {
				return errors.Errorf("shader %s: group %d binding %d must be a texture_cube<f32>", s.Key(), SkyboxGroup, w.Binding)
			}
		case w.Sampler.Type != wgpu.SamplerBindingTypeUndefined:
			if !ok || got.Sampler.Type != w.Sampler.Type {
				return errors.Errorf("shader %s: group %d binding %d must be a filtering sampler", s.Key(), SkyboxGroup, w.Binding)
			}
		}
	}
	if len(desc.Entries) != len(want.Entries) {
		return errors.Errorf("shader %s: group %d declares %d bindings, expected %d", s.Key(), SkyboxGroup, len(desc.Entries), len(want.Entries))
	}
	return nil
}

// bindingTag is the provider identity and optional role an @oxy annotation attaches to a binding.
type bindingTag struct {
	identity AnnotationArg
	role     AnnotationArg
}

// expectedTags derives the tag each renderer-owned binding must carry from the layouts the
// uniform buffer and the skybox create their bind groups with.
func expectedTags() map[[2]int]bindingTag {
	tags := make(map[[2]int]bindingTag)
	for _, e := range uniform.LayoutDescriptor().Entries {
		tags[[2]int{uniform.Group, int(e.Binding)}] = bindingTag{identity: AnnotationArgUniform}
	}
	for _, e := range skybox.LayoutDescriptor().Entries {
		role := AnnotationArgCubeSampler
		if e.Texture.ViewDimension != wgpu.TextureViewDimensionUndefined {
			role = AnnotationArgCubeTexture
		}
		tags[[2]int{skybox.Group, int(e.Binding)}] = bindingTag{identity: AnnotationArgSkybox, role: role}
	}
	return tags
}

// tagOf reads the tag of a group or provider annotation. A group annotation is tagged by the
// struct type it declares.
func tagOf(a Annotation) bindingTag {
	if a.Type == AnnotationTypeBindingGroup {
		return bindingTag{identity: a.Args[2]}
	}
	t := bindingTag{identity: a.Args[0]}
	if len(a.Args) > 1 {
		t.role = a.Args[1]
	}
	return t
}

// verifyDeclarations checks that every binding the renderer fills is tagged once with the
// provider that fills it, and that no tag points at a binding the program does not declare.
func verifyDeclarations(s Shader) error {
	want := expectedTags()
	seen := make(map[[2]int]bool, len(want))

	for _, a := range s.Declarations() {
		key := [2]int{*a.Group, *a.Binding}
		if s.BindGroupVarName(key[0], key[1]) == "" {
			return errors.Errorf("shader %s: line %d tags group %d binding %d, which is not declared", s.Key(), a.Line, key[0], key[1])
		}
		expected, ok := want[key]
		if !ok {
			return errors.Errorf("shader %s: line %d tags group %d binding %d, which no provider fills", s.Key(), a.Line, key[0], key[1])
		}
		if seen[key] {
			return errors.Errorf("shader %s: line %d tags group %d binding %d twice", s.Key(), a.Line, key[0], key[1])
		}
		if got := tagOf(a); got != expected {
			return errors.Errorf("shader %s: line %d tags group %d binding %d as %s %s, expected %s %s",
				s.Key(), a.Line, key[0], key[1], got.identity, got.role, expected.identity, expected.role)
		}
		seen[key] = true
	}

	for key, expected := range want {
		if !seen[key] {
			return errors.Errorf("shader %s: group %d binding %d is missing its %s tag", s.Key(), key[0], key[1], expected.identity)
		}
	}
	return nil
}

func verifyVertexInput(s Shader) error {
	parsed, ok := s.VertexLayout(vertexInputStruct)
	if !ok {
		return errors.Errorf("shader %s: missing vertex input struct %s", s.Key(), vertexInputStruct)
	}
	want := model.VertexLayout()
	if parsed.ArrayStride != want.ArrayStride || len(parsed.Attributes) != len(want.Attributes) {
		return errors.Errorf("shader %s: %s stride %d does not match vertex stride %d", s.Key(), vertexInputStruct, parsed.ArrayStride, want.ArrayStride)
	}
	for i, attr := range want.Attributes {
		if parsed.Attributes[i] != attr {
			return errors.Errorf("shader %s: %s attribute %d does not match vertex layout", s.Key(), vertexInputStruct, i)
		}
	}
	return nil
}

func findEntry(desc wgpu.BindGroupLayoutDescriptor, binding uint32) (wgpu.BindGroupLayoutEntry, bool) {
	for _, e := range desc.Entries {
		if e.Binding == binding {
			return e, true
		}
	}
	return wgpu.BindGroupLayoutEntry{}, false
}
