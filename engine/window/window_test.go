package window

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEngineWindow_Defaults(t *testing.T) {
	w := newEngineWindow()
	assert.Equal(t, "oxy-sky", w.title)
	assert.Equal(t, 1600, w.Width())
	assert.Equal(t, 900, w.Height())
	assert.Equal(t, [2]int{320, 200}, [2]int{w.minWidth, w.minHeight}, "only the minimum size is limited")
}

func TestNewEngineWindow_Options(t *testing.T) {
	w := newEngineWindow(
		WithTitle("sky"),
		WithSize(800, 600),
		WithMinSize(100, 50),
	)
	assert.Equal(t, "sky", w.title)
	assert.Equal(t, [2]int{800, 600}, [2]int{w.width, w.height})
	assert.Equal(t, [2]int{100, 50}, [2]int{w.minWidth, w.minHeight})
}

func TestHandleResize_ForwardsZeroSizes(t *testing.T) {
	w := newEngineWindow()
	var got [][2]int
	w.SetResizeCallback(func(width, height int) {
		got = append(got, [2]int{width, height})
	})

	w.handleResize(0, 0)
	w.handleResize(1024, 768)

	assert.Equal(t, [][2]int{{0, 0}, {1024, 768}}, got)
	assert.Equal(t, 1024, w.Width())
	assert.Equal(t, 768, w.Height())
}

func TestRequestClose_FiresOnce(t *testing.T) {
	w := newEngineWindow()
	closes := 0
	w.SetCloseCallback(func() { closes++ })

	w.requestClose()
	w.requestClose()
	assert.Equal(t, 1, closes)
	assert.False(t, w.IsRunning())
}

func TestRedraw(t *testing.T) {
	w := newEngineWindow()
	require.NoError(t, w.redraw(), "no callback is a no-op")

	failure := errors.New("device lost")
	calls := 0
	w.SetRedrawCallback(func() error {
		calls++
		return failure
	})
	assert.Same(t, failure, w.redraw())

	w.requestClose()
	require.NoError(t, w.redraw(), "no frames after close")
	assert.Equal(t, 1, calls)
}

func TestUninitializedWindow(t *testing.T) {
	w := newEngineWindow()
	assert.Nil(t, w.SurfaceDescriptor())
	assert.False(t, w.IsRunning())
	assert.NoError(t, w.ProcessMessages())
	assert.Error(t, platformCloseWindow(w))
}
