package skybox

import "github.com/Carmen-Shannon/oxy-sky/common"

// SkyboxTextureBuilderOption is a functional option applied to a skybox during construction via NewSkyboxTexture.
type SkyboxTextureBuilderOption func(*skyboxTexture)

// WithLabel sets the label used for the GPU objects of the skybox.
func WithLabel(label string) SkyboxTextureBuilderOption {
	return func(s *skyboxTexture) {
		s.label = label
	}
}

// WithSampler replaces the default linear clamp-to-edge sampler settings.
//
// Parameters:
//   - sampler: the sampler configuration
//
// Returns:
//   - SkyboxTextureBuilderOption: a function that applies the sampler to a skybox
func WithSampler(sampler common.SamplerStagingData) SkyboxTextureBuilderOption {
	return func(s *skyboxTexture) {
		s.sampler = sampler
	}
}
