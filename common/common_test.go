package common

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerspectiveDepthRange(t *testing.T) {
	m := make([]float32, 16)
	Perspective(m, 1.2, 16.0/9.0, 0.01, 1000)

	project := func(z float32) float32 {
		clipZ := m[10]*z + m[14]
		clipW := m[11]*z + m[15]
		return clipZ / clipW
	}
	assert.InDelta(t, 0.0, project(-0.01), 1e-4)
	assert.InDelta(t, 1.0, project(-1000), 1e-4)
	assert.Equal(t, float32(-1), m[11])
}

func TestAlignUp(t *testing.T) {
	assert.Equal(t, uint64(0), AlignUp(0, 4))
	assert.Equal(t, uint64(144), AlignUp(132, 16))
	assert.Equal(t, uint64(256), AlignUp(256, 256))
}

func TestTextureStagingLayers(t *testing.T) {
	data := TextureStagingData{Pixels: make([]byte, 2*2*4*3), Width: 2, Height: 2, Layers: 3}
	data.Pixels[16] = 7
	assert.Equal(t, uint32(3), data.LayerCount())
	assert.Equal(t, 16, data.LayerSize())
	assert.Equal(t, byte(7), data.Layer(1)[0])
	assert.Equal(t, uint32(1), TextureStagingData{}.LayerCount())
}

func TestAssetErrorUnwrap(t *testing.T) {
	err := NewAssetError("assets/bunny.obj", os.ErrNotExist)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Contains(t, err.Error(), "assets/bunny.obj")

	var assetErr *AssetError
	require.True(t, errors.As(error(err), &assetErr))
	assert.Equal(t, "assets/bunny.obj", assetErr.Path)
}

func TestLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	assert.False(t, Logger().Enabled(t.Context(), slog.LevelError))

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	Logger().Info("adapter selected", "name", "test")
	assert.Contains(t, buf.String(), "adapter selected")

	SetLogger(nil)
	assert.False(t, Logger().Enabled(t.Context(), slog.LevelError))
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, 0, Coalesce(0, 0))
}
