// Package skybox builds the cube texture, sampler and bind group the skybox and the mesh reflections sample.
package skybox

import (
	"github.com/Carmen-Shannon/oxy-sky/common"
	"github.com/Carmen-Shannon/oxy-sky/engine/renderer/bind_group_provider"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
)

// Group is the bind group index the skybox is bound at.
const Group = 1

// Binding indices inside Group.
const (
	TextureBinding = 0
	SamplerBinding = 1
)

type skyboxTexture struct {
	label    string
	sampler  common.SamplerStagingData
	provider bind_group_provider.BindGroupProvider
	width    uint32
	height   uint32
}

// SkyboxTexture is a 6-layer cube texture with its sampler and bind group.
type SkyboxTexture interface {
	// BindGroupProvider returns the provider holding the cube view, sampler and bind group.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the provider
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// FaceSize returns the size of one face in pixels.
	//
	// Returns:
	//   - uint32: the face width
	//   - uint32: the face height
	FaceSize() (uint32, uint32)

	// Release frees the texture, view, sampler and bind group.
	Release()
}

var _ SkyboxTexture = &skyboxTexture{}

// LayoutDescriptor returns the bind group layout of the skybox: a float cube texture at
// TextureBinding and a filtering sampler at SamplerBinding, both fragment-visible.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the layout of group 1
func LayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Skybox Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    TextureBinding,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimensionCube,
					Multisampled:  false,
				},
			},
			{
				Binding:    SamplerBinding,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	}
}

// NewSkyboxTexture uploads staging as one 6-layer texture with a cube view, creates the sampler and
// builds the bind group.
//
// Parameters:
//   - alloc: the allocator for GPU resources
//   - staging: six equal-size RGBA8 layers, usually from LoadFaces
//   - options: functional options
//
// Returns:
//   - SkyboxTexture: the uploaded skybox
//   - error: a *common.AssetError if staging is not six complete layers, or the allocation error
func NewSkyboxTexture(alloc bind_group_provider.Initializer, staging common.TextureStagingData, options ...SkyboxTextureBuilderOption) (SkyboxTexture, error) {
	if staging.LayerCount() != FaceCount || staging.Width == 0 || staging.Height == 0 {
		return nil, common.NewAssetError("", errors.Errorf("cubemap needs %d non-empty layers, got %d of %dx%d", FaceCount, staging.LayerCount(), staging.Width, staging.Height))
	}
	if len(staging.Pixels) != staging.LayerSize()*FaceCount {
		return nil, common.NewAssetError("", errors.Errorf("cubemap data is %d bytes, expected %d", len(staging.Pixels), staging.LayerSize()*FaceCount))
	}

	s := &skyboxTexture{
		label:   "Skybox",
		sampler: common.LinearClampSampler(),
		width:   staging.Width,
		height:  staging.Height,
	}
	for _, option := range options {
		option(s)
	}
	s.provider = bind_group_provider.NewBindGroupProvider(s.label)

	if err := alloc.InitTextureView(s.provider, TextureBinding, staging, wgpu.TextureViewDimensionCube); err != nil {
		s.provider.Release()
		return nil, errors.Wrap(err, "skybox: failed to upload cube texture")
	}
	if err := alloc.InitSampler(s.provider, SamplerBinding, s.sampler); err != nil {
		s.provider.Release()
		return nil, errors.Wrap(err, "skybox: failed to create sampler")
	}
	if err := alloc.InitBindGroup(s.provider, LayoutDescriptor()); err != nil {
		s.provider.Release()
		return nil, errors.Wrap(err, "skybox: failed to create bind group")
	}

	common.Logger().Debug("skybox uploaded", "width", staging.Width, "height", staging.Height, "layers", FaceCount)
	return s, nil
}

func (s *skyboxTexture) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return s.provider
}

func (s *skyboxTexture) FaceSize() (uint32, uint32) {
	return s.width, s.height
}

func (s *skyboxTexture) Release() {
	s.provider.Release()
}
