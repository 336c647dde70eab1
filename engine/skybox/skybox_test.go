package skybox

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-sky/common"
	"github.com/Carmen-Shannon/oxy-sky/engine/renderer/bind_group_provider"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	base = color.RGBA{R: 10, G: 20, B: 30, A: 255}
	tag  = color.RGBA{R: 255, A: 255}
)

// taggedFace returns a size x size solid face with the top-left pixel tagged.
func taggedFace(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			img.SetRGBA(x, y, base)
		}
	}
	img.SetRGBA(0, 0, tag)
	return img
}

func pixelAt(staging common.TextureStagingData, layer, x, y int) color.RGBA {
	off := (y*int(staging.Width) + x) * 4
	p := staging.Layer(layer)[off : off+4]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

func tagPosition(t *testing.T, staging common.TextureStagingData, layer int) image.Point {
	t.Helper()
	var found []image.Point
	for y := range int(staging.Height) {
		for x := range int(staging.Width) {
			if pixelAt(staging, layer, x, y) == tag {
				found = append(found, image.Pt(x, y))
			}
		}
	}
	require.Len(t, found, 1, "layer %d", layer)
	return found[0]
}

func TestAssembleFaces_Rotation(t *testing.T) {
	const size = 4
	faces := make([]image.Image, FaceCount)
	for i := range faces {
		faces[i] = taggedFace(size)
	}

	staging, err := AssembleFaces(faces)
	require.NoError(t, err)
	assert.Equal(t, uint32(size), staging.Width)
	assert.Equal(t, uint32(size), staging.Height)
	assert.Equal(t, uint32(FaceCount), staging.Layers)
	assert.Len(t, staging.Pixels, size*size*4*FaceCount)

	for _, f := range []Face{FaceLeft, FaceRight, FaceFront, FaceBack} {
		assert.Equal(t, image.Pt(0, 0), tagPosition(t, staging, int(f)), "face %d", f)
	}
	assert.Equal(t, image.Pt(size-1, 0), tagPosition(t, staging, int(FaceUp)))
	assert.Equal(t, image.Pt(0, size-1), tagPosition(t, staging, int(FaceDown)))
	assert.Equal(t, base, pixelAt(staging, int(FaceUp), 0, 0))
}

func TestRotateNonSquare(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.SetRGBA(0, 0, tag)

	cw := rotate90(img)
	assert.Equal(t, image.Pt(2, 3), cw.Bounds().Size())
	assert.Equal(t, tag, cw.RGBAAt(1, 0))

	ccw := rotate270(img)
	assert.Equal(t, image.Pt(2, 3), ccw.Bounds().Size())
	assert.Equal(t, tag, ccw.RGBAAt(0, 2))
}

func TestAssembleFaces_SizeMismatch(t *testing.T) {
	faces := make([]image.Image, FaceCount)
	for i := range faces {
		faces[i] = taggedFace(4)
	}
	faces[4] = taggedFace(8)

	_, err := AssembleFaces(faces)
	var assetErr *common.AssetError
	require.ErrorAs(t, err, &assetErr)
	assert.Contains(t, err.Error(), "face 4")
}

func TestAssembleFaces_WrongCount(t *testing.T) {
	_, err := AssembleFaces([]image.Image{taggedFace(2)})
	var assetErr *common.AssetError
	assert.ErrorAs(t, err, &assetErr)
}

func writeFaces(t *testing.T, dir string, sizes [FaceCount]int) []string {
	t.Helper()
	names := make([]string, FaceCount)
	for i, size := range sizes {
		names[i] = strings.TrimSuffix(DefaultFaceNames[i], ".jpg") + ".png"
		f, err := os.Create(filepath.Join(dir, names[i]))
		require.NoError(t, err)
		require.NoError(t, png.Encode(f, taggedFace(size)))
		require.NoError(t, f.Close())
	}
	return names
}

func TestLoadFaces(t *testing.T) {
	dir := t.TempDir()
	names := writeFaces(t, dir, [FaceCount]int{2, 2, 2, 2, 2, 2})

	staging, err := LoadFaces(dir, names)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), staging.Width)
	assert.Equal(t, uint32(FaceCount), staging.LayerCount())
	assert.Equal(t, image.Pt(1, 0), tagPosition(t, staging, int(FaceUp)))
}

func TestLoadFaces_Errors(t *testing.T) {
	dir := t.TempDir()
	names := writeFaces(t, dir, [FaceCount]int{2, 2, 2, 2, 2, 2})

	t.Run("missing file", func(t *testing.T) {
		bad := append([]string(nil), names...)
		bad[3] = "nope.png"
		_, err := LoadFaces(dir, bad)
		var assetErr *common.AssetError
		require.ErrorAs(t, err, &assetErr)
		assert.Equal(t, filepath.Join(dir, "nope.png"), assetErr.Path)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("not an image", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "junk.jpg"), []byte("not an image"), 0o644))
		bad := append([]string(nil), names...)
		bad[0] = "junk.jpg"
		_, err := LoadFaces(dir, bad)
		var assetErr *common.AssetError
		assert.ErrorAs(t, err, &assetErr)
	})

	t.Run("five names", func(t *testing.T) {
		_, err := LoadFaces(dir, names[:5])
		var assetErr *common.AssetError
		assert.ErrorAs(t, err, &assetErr)
	})

	t.Run("size mismatch", func(t *testing.T) {
		mixed := t.TempDir()
		mixedNames := writeFaces(t, mixed, [FaceCount]int{2, 2, 2, 2, 2, 3})
		_, err := LoadFaces(mixed, mixedNames)
		var assetErr *common.AssetError
		assert.ErrorAs(t, err, &assetErr)
	})
}

type fakeAllocator struct {
	calls     []string
	dimension wgpu.TextureViewDimension
	staging   common.TextureStagingData
	layout    wgpu.BindGroupLayoutDescriptor
	failOn    string
}

func (f *fakeAllocator) record(call string) error {
	f.calls = append(f.calls, call)
	if call == f.failOn {
		return errors.New(call + " failed")
	}
	return nil
}

func (f *fakeAllocator) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, int, []byte, int) error {
	return f.record("mesh")
}

func (f *fakeAllocator) InitBindGroup(_ bind_group_provider.BindGroupProvider, d wgpu.BindGroupLayoutDescriptor) error {
	f.layout = d
	return f.record("bindgroup")
}

func (f *fakeAllocator) InitTextureView(_ bind_group_provider.BindGroupProvider, _ int, s common.TextureStagingData, d wgpu.TextureViewDimension) error {
	f.staging, f.dimension = s, d
	return f.record("texture")
}

func (f *fakeAllocator) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	return f.record("sampler")
}

func sixLayers(size uint32) common.TextureStagingData {
	return common.TextureStagingData{
		Pixels: make([]byte, int(size*size*4)*FaceCount),
		Width:  size,
		Height: size,
		Layers: FaceCount,
	}
}

func TestNewSkyboxTexture(t *testing.T) {
	alloc := &fakeAllocator{}
	sky, err := NewSkyboxTexture(alloc, sixLayers(4), WithLabel("Sky"))
	require.NoError(t, err)

	assert.Equal(t, []string{"texture", "sampler", "bindgroup"}, alloc.calls)
	assert.Equal(t, wgpu.TextureViewDimensionCube, alloc.dimension)
	assert.Equal(t, uint32(FaceCount), alloc.staging.LayerCount())
	assert.Equal(t, LayoutDescriptor(), alloc.layout)
	assert.Equal(t, "Sky", sky.BindGroupProvider().Label())
	w, h := sky.FaceSize()
	assert.Equal(t, uint32(4), w)
	assert.Equal(t, uint32(4), h)
	assert.NotPanics(t, sky.Release)
}

func TestNewSkyboxTexture_Errors(t *testing.T) {
	t.Run("wrong layer count", func(t *testing.T) {
		s := sixLayers(2)
		s.Layers = 1
		_, err := NewSkyboxTexture(&fakeAllocator{}, s)
		var assetErr *common.AssetError
		assert.ErrorAs(t, err, &assetErr)
	})

	t.Run("short pixel data", func(t *testing.T) {
		s := sixLayers(2)
		s.Pixels = s.Pixels[:10]
		_, err := NewSkyboxTexture(&fakeAllocator{}, s)
		var assetErr *common.AssetError
		assert.ErrorAs(t, err, &assetErr)
	})

	t.Run("allocation failure", func(t *testing.T) {
		alloc := &fakeAllocator{failOn: "sampler"}
		_, err := NewSkyboxTexture(alloc, sixLayers(2))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampler failed")
		assert.Equal(t, []string{"texture", "sampler"}, alloc.calls)
	})
}

func TestLayoutDescriptor(t *testing.T) {
	d := LayoutDescriptor()
	require.Len(t, d.Entries, 2)
	assert.Equal(t, wgpu.TextureViewDimensionCube, d.Entries[0].Texture.ViewDimension)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, d.Entries[0].Texture.SampleType)
	assert.Equal(t, wgpu.SamplerBindingTypeFiltering, d.Entries[1].Sampler.Type)
	for _, e := range d.Entries {
		assert.Equal(t, wgpu.ShaderStageFragment, e.Visibility)
	}
}
