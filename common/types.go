// Package common holds the plain data types and helpers shared by the engine packages.
package common

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// TextureStagingData holds RGBA8 pixel data waiting for GPU upload.
// Layered textures (cubemaps, arrays) store their layers back to back in Pixels.
type TextureStagingData struct {
	// Pixels is tightly packed RGBA8 data, 4 bytes per pixel, layer after layer.
	Pixels []byte
	// Width is the width of a single layer in pixels.
	Width uint32
	// Height is the height of a single layer in pixels.
	Height uint32
	// Layers is the number of array layers in Pixels. Zero is treated as one.
	Layers uint32
}

// LayerCount returns the number of layers in the staging data, treating zero as a single layer.
func (t TextureStagingData) LayerCount() uint32 {
	return max(t.Layers, 1)
}

// LayerSize returns the number of bytes one layer occupies in Pixels.
func (t TextureStagingData) LayerSize() int {
	return int(t.Width) * int(t.Height) * 4
}

// Layer returns the pixel slice for layer i.
func (t TextureStagingData) Layer(i int) []byte {
	size := t.LayerSize()
	return t.Pixels[i*size : (i+1)*size]
}

// SamplerStagingData holds the configuration for a sampler pending GPU creation.
type SamplerStagingData struct {
	// AddressModeU, AddressModeV, AddressModeW specify the addressing mode outside the [0, 1] range per axis.
	AddressModeU, AddressModeV, AddressModeW wgpu.AddressMode
	// MagFilter and MinFilter specify the filtering mode for magnification and minification.
	MagFilter, MinFilter wgpu.FilterMode
	// MipmapFilter specifies the filtering mode for mipmap level selection.
	MipmapFilter wgpu.MipmapFilterMode
	// LodMinClamp and LodMaxClamp bound the level of detail used for sampling.
	LodMinClamp, LodMaxClamp float32
	// Compare specifies the comparison function for comparison samplers. Zero leaves it unset.
	Compare wgpu.CompareFunction
	// MaxAnisotropy is the maximum anisotropy level, at least 1.
	MaxAnisotropy uint16
}

// LinearClampSampler returns sampler settings with linear filtering on every axis and clamp-to-edge addressing,
// suitable for cubemaps where seams must not wrap.
func LinearClampSampler() SamplerStagingData {
	return SamplerStagingData{
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	}
}
