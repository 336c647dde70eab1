package shader

import (
	"strconv"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// wgslScalarLayout holds the size and alignment of the host-shareable scalar types.
var wgslScalarLayout = map[string]wgslTypeLayout{
	"f32":  {4, 4},
	"i32":  {4, 4},
	"u32":  {4, 4},
	"f16":  {2, 2},
	"bool": {4, 4},
}

// wgslShorthandScalar maps the vecNf style suffix to the scalar it stands for.
var wgslShorthandScalar = map[byte]string{'f': "f32", 'i': "i32", 'u': "u32", 'h': "f16"}

// roundUpAlign rounds value up to a multiple of alignment, which must be a power of two.
func roundUpAlign(alignment, value uint64) uint64 {
	if alignment == 0 {
		return value
	}
	return (value + alignment - 1) &^ (alignment - 1)
}

// vectorLayout returns the layout of an n component vector of the given scalar.
// A three component vector is aligned like a four component one.
func vectorLayout(n int, scalar string) (wgslTypeLayout, bool) {
	s, ok := wgslScalarLayout[scalar]
	if !ok || n < 2 || n > 4 {
		return wgslTypeLayout{}, false
	}
	alignN := uint64(n)
	if n == 3 {
		alignN = 4
	}
	return wgslTypeLayout{size: uint64(n) * s.size, align: alignN * s.size}, true
}

// parseVectorType splits "vec3<f32>" or "vec3f" into its component count and scalar type.
func parseVectorType(typeName string) (int, string, bool) {
	rest, ok := strings.CutPrefix(typeName, "vec")
	if !ok || len(rest) < 2 {
		return 0, "", false
	}
	n := int(rest[0] - '0')
	switch suffix := rest[1:]; {
	case len(suffix) == 1:
		scalar, ok := wgslShorthandScalar[suffix[0]]
		return n, scalar, ok
	case strings.HasPrefix(suffix, "<") && strings.HasSuffix(suffix, ">"):
		return n, strings.TrimSpace(suffix[1 : len(suffix)-1]), true
	}
	return 0, "", false
}

// matrixLayout resolves "matCxR<T>" (or "matCxRf"): C columns, each a vecR<T> padded to its alignment.
func matrixLayout(typeName string) (wgslTypeLayout, bool) {
	rest, ok := strings.CutPrefix(typeName, "mat")
	if !ok || len(rest) < 4 || rest[1] != 'x' {
		return wgslTypeLayout{}, false
	}
	cols := uint64(rest[0] - '0')
	if cols < 2 || cols > 4 {
		return wgslTypeLayout{}, false
	}
	_, scalar, ok := parseVectorType("vec" + rest[2:])
	if !ok {
		return wgslTypeLayout{}, false
	}
	column, ok := vectorLayout(int(rest[2]-'0'), scalar)
	if !ok {
		return wgslTypeLayout{}, false
	}
	return wgslTypeLayout{size: cols * roundUpAlign(column.align, column.size), align: column.align}, true
}

// resolveTypeLayout returns the size and alignment of a WGSL type. Scalars, vectors and
// matrices are computed directly, structs come from knownTypes and fixed-size arrays from
// their element stride. Runtime-sized arrays have no fixed layout and report false.
func resolveTypeLayout(typeName string, knownTypes map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	if layout, ok := wgslScalarLayout[typeName]; ok {
		return layout, true
	}
	if layout, ok := knownTypes[typeName]; ok {
		return layout, true
	}
	if n, scalar, ok := parseVectorType(typeName); ok {
		return vectorLayout(n, scalar)
	}
	if strings.HasPrefix(typeName, "mat") {
		return matrixLayout(typeName)
	}

	inner, ok := strings.CutPrefix(typeName, "array<")
	if !ok || !strings.HasSuffix(inner, ">") {
		return wgslTypeLayout{}, false
	}
	parts := splitAtTopLevelCommas(inner[:len(inner)-1])
	if len(parts) != 2 {
		return wgslTypeLayout{}, false
	}
	elem, ok := resolveTypeLayout(strings.TrimSpace(parts[0]), knownTypes)
	if !ok {
		return wgslTypeLayout{}, false
	}
	count, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return wgslTypeLayout{}, false
	}
	return wgslTypeLayout{size: count * roundUpAlign(elem.align, elem.size), align: elem.align}, true
}

// computeStructLayout lays the non-builtin fields of ps out in order, each at its aligned
// offset, and rounds the total up to the largest field alignment.
func computeStructLayout(ps parsedStruct, knownTypes map[string]wgslTypeLayout) (wgslTypeLayout, bool) {
	var offset uint64
	align := uint64(1)

	for _, field := range ps.fields {
		if field.isBuiltin {
			continue
		}
		layout, ok := resolveTypeLayout(field.typeName, knownTypes)
		if !ok {
			return wgslTypeLayout{}, false
		}
		offset = roundUpAlign(layout.align, offset) + layout.size
		align = max(align, layout.align)
	}
	return wgslTypeLayout{size: roundUpAlign(align, offset), align: align}, true
}

// computeStructSizes resolves every struct whose fields have a fixed layout. Structs may
// nest in any declaration order, so passes repeat until one makes no progress.
func computeStructSizes(structs []parsedStruct) map[string]wgslTypeLayout {
	resolved := make(map[string]wgslTypeLayout, len(structs))
	pending := append([]parsedStruct(nil), structs...)

	for len(pending) > 0 {
		var unresolved []parsedStruct
		for _, ps := range pending {
			if layout, ok := computeStructLayout(ps, resolved); ok {
				resolved[ps.name] = layout
			} else {
				unresolved = append(unresolved, ps)
			}
		}
		if len(unresolved) == len(pending) {
			break
		}
		pending = unresolved
	}
	return resolved
}

// classifyResource builds the layout entry for one @group/@binding declaration. Buffers are
// recognised by their address space; handle types (textures and samplers) by their type name.
func classifyResource(binding uint32, visibility wgpu.ShaderStage, addressSpace, typeName string) wgpu.BindGroupLayoutEntry {
	entry := wgpu.BindGroupLayoutEntry{Binding: binding, Visibility: visibility}

	switch {
	case addressSpace == "uniform":
		entry.Buffer.Type = wgpu.BufferBindingTypeUniform
	case strings.HasPrefix(addressSpace, "storage"):
		entry.Buffer.Type = wgpu.BufferBindingTypeReadOnlyStorage
		if strings.Contains(addressSpace, "read_write") {
			entry.Buffer.Type = wgpu.BufferBindingTypeStorage
		}
	case addressSpace != "":
	case typeName == "sampler":
		entry.Sampler.Type = wgpu.SamplerBindingTypeFiltering
	case typeName == "sampler_comparison":
		entry.Sampler.Type = wgpu.SamplerBindingTypeComparison
	case strings.HasPrefix(typeName, "texture_"):
		base, param := splitTypeParams(typeName)
		if info, ok := wgslSampledTextureMap[base]; ok {
			entry.Texture.ViewDimension = info.viewDimension
			entry.Texture.Multisampled = info.multisampled
		}
		if strings.HasPrefix(base, "texture_depth_") {
			entry.Texture.SampleType = wgpu.TextureSampleTypeDepth
		} else if st, ok := wgslSampleTypeMap[param]; ok {
			entry.Texture.SampleType = st
		}
	}
	return entry
}

// splitTypeParams splits "texture_2d<f32>" into ("texture_2d", "f32"). Types without
// parameters come back unchanged with an empty parameter string.
func splitTypeParams(typeName string) (base string, params string) {
	before, after, ok := strings.Cut(typeName, "<")
	if !ok {
		return typeName, ""
	}
	return before, strings.TrimSpace(strings.TrimSuffix(after, ">"))
}

// stripComments removes block comments, which nest in WGSL, and then line comments.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))

	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			switch source[i : i+2] {
			case "/*":
				depth++
				i++
				continue
			case "*/":
				if depth > 0 {
					depth--
				}
				i++
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}

	lines := strings.Split(sb.String(), "\n")
	sb.Reset()
	for _, line := range lines {
		if before, _, found := strings.Cut(line, "//"); found {
			line = before
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// isVertexInputStruct reports whether ps carries only @location fields. Vertex outputs
// also hold @builtin(position) and are excluded.
func isVertexInputStruct(ps parsedStruct) bool {
	hasLocation := false
	for _, f := range ps.fields {
		if f.isBuiltin {
			return false
		}
		hasLocation = hasLocation || f.location >= 0
	}
	return hasLocation
}

// buildVertexBufferLayout packs the fields of a vertex input struct back to back in one
// interleaved buffer. It fails on a field type with no vertex format.
func buildVertexBufferLayout(ps parsedStruct) (wgpu.VertexBufferLayout, bool) {
	layout := wgpu.VertexBufferLayout{StepMode: wgpu.VertexStepModeVertex}

	for _, f := range ps.fields {
		info, ok := wgslVertexFormatMap[f.typeName]
		if !ok {
			return wgpu.VertexBufferLayout{}, false
		}
		layout.Attributes = append(layout.Attributes, wgpu.VertexAttribute{
			Format:         info.format,
			Offset:         layout.ArrayStride,
			ShaderLocation: uint32(f.location),
		})
		layout.ArrayStride += info.size
	}
	return layout, true
}

// splitAtTopLevelCommas splits s on commas outside angle brackets, so
// "a: array<vec4<f32>, 6>, b: f32" yields two parts.
func splitAtTopLevelCommas(s string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}
