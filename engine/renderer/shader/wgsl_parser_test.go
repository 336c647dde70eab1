package shader

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeStructSizes(t *testing.T) {
	src := `
struct Inner {
    a: vec3<f32>,
    b: f32,
}
struct Outer {
    inner: Inner,
    flag: u32,
    list: array<vec4<f32>, 2>,
}
`
	sizes := computeStructSizes(parseStructBlocks(stripComments(src)))

	require.Contains(t, sizes, "Inner")
	assert.Equal(t, wgslTypeLayout{size: 16, align: 16}, sizes["Inner"])
	// inner 0..16, flag 16..20, list aligned to 32, 2*16 bytes
	require.Contains(t, sizes, "Outer")
	assert.Equal(t, uint64(64), sizes["Outer"].size)
}

func TestStripComments_Nested(t *testing.T) {
	src := "a /* one /* two */ still */ b // tail\nc"
	assert.Equal(t, "a  b \nc\n", stripComments(src))
}

func TestParseEntryPoints_IgnoresComments(t *testing.T) {
	src := `
// @vertex fn commented_out() {}
@vertex
fn first() {}
/* @fragment fn hidden() {} */
@fragment fn second() {}
@vertex fn third() {}
`
	cleaned := stripComments(src)
	assert.Equal(t, []string{"first", "third"}, parseEntryPoints(cleaned, ShaderTypeVertex))
	assert.Equal(t, []string{"second"}, parseEntryPoints(cleaned, ShaderTypeFragment))
}

func TestClassifyResource(t *testing.T) {
	vis := wgpu.ShaderStageFragment

	e := classifyResource(0, vis, "", "texture_cube<f32>")
	assert.Equal(t, wgpu.TextureViewDimensionCube, e.Texture.ViewDimension)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, e.Texture.SampleType)

	e = classifyResource(1, vis, "", "texture_depth_2d")
	assert.Equal(t, wgpu.TextureSampleTypeDepth, e.Texture.SampleType)

	e = classifyResource(2, vis, "", "sampler")
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, e.Sampler.Type)

	e = classifyResource(3, vis, "storage, read_write", "Data")
	assert.Equal(t, wgpu.BufferBindingTypeStorage, e.Buffer.Type)
	assert.Equal(t, uint32(3), e.Binding)
	assert.Equal(t, vis, e.Visibility)
}

func TestSplitAtTopLevelCommas(t *testing.T) {
	parts := splitAtTopLevelCommas("a: array<vec4<f32>, 6>, b: f32")
	require.Len(t, parts, 2)
	assert.Equal(t, "a: array<vec4<f32>, 6>", parts[0])
}

func TestParseAnnotation(t *testing.T) {
	a, err := parseAnnotation("let x = 1;", 1)
	require.NoError(t, err)
	assert.Nil(t, a)

	a, err = parseAnnotation("  //@oxy:provider 1 1 skybox cube_sampler", 4)
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, AnnotationTypeProvider, a.Type)
	assert.Equal(t, 4, a.Line)

	bad := []string{
		"//@oxy:",
		"//@oxy:include",
		"//@oxy:include uniform extra",
		"//@oxy:group x 0 storage_uniform u uniform",
		"//@oxy:group 0 0 storage_weird u uniform",
		"//@oxy:group 0 0 storage_read u uniform",
		"//@oxy:provider 1 0 lights",
		"//@oxy:provider 1 0 skybox diffuse_texture",
		"//@oxy:unknown 1",
	}
	for _, line := range bad {
		_, err := parseAnnotation(line, 1)
		assert.Error(t, err, line)
	}
}

func TestPreProcessor_IncludeOnce(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process("//@oxy:include uniform\n//@oxy:include uniform\n")
	require.NoError(t, err)

	cleaned := stripComments(out)
	assert.Len(t, parseStructBlocks(cleaned), 1)
	assert.Empty(t, pp.Declarations())
}
