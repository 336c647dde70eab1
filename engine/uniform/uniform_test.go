package uniform

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-sky/common"
	"github.com/Carmen-Shannon/oxy-sky/engine/camera"
	"github.com/Carmen-Shannon/oxy-sky/engine/clock"
	"github.com/Carmen-Shannon/oxy-sky/engine/renderer/bind_group_provider"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGPU struct {
	layouts []wgpu.BindGroupLayoutDescriptor
	writes  []bind_group_provider.BufferWrite
	initErr error
}

func (f *fakeGPU) InitMeshBuffers(bind_group_provider.BindGroupProvider, []byte, int, []byte, int) error {
	return nil
}

func (f *fakeGPU) InitBindGroup(_ bind_group_provider.BindGroupProvider, d wgpu.BindGroupLayoutDescriptor) error {
	f.layouts = append(f.layouts, d)
	return f.initErr
}

func (f *fakeGPU) InitTextureView(bind_group_provider.BindGroupProvider, int, common.TextureStagingData, wgpu.TextureViewDimension) error {
	return nil
}

func (f *fakeGPU) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	return nil
}

func (f *fakeGPU) WriteBuffers(writes []bind_group_provider.BufferWrite) error {
	f.writes = append(f.writes, writes...)
	return nil
}

func TestGPUUniformLayout(t *testing.T) {
	var u GPUUniform
	assert.Equal(t, 144, u.Size())
	assert.Equal(t, uintptr(0), unsafe.Offsetof(u.View))
	assert.Equal(t, uintptr(64), unsafe.Offsetof(u.Projection))
	assert.Equal(t, uintptr(128), unsafe.Offsetof(u.Time))
	assert.Equal(t, uintptr(132), unsafe.Offsetof(u._pad))
}

func TestGPUUniformMarshal(t *testing.T) {
	u := GPUUniform{Time: 2.5}
	for i := range 16 {
		u.View[i] = float32(i)
		u.Projection[i] = float32(100 + i)
	}

	buf := u.Marshal()
	require.Len(t, buf, 144)
	word := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])) }
	assert.Equal(t, float32(5), word(5*4))
	assert.Equal(t, float32(107), word(64+7*4))
	assert.Equal(t, float32(2.5), word(128))
	assert.Equal(t, make([]byte, 12), buf[132:])
}

func TestLayoutDescriptor(t *testing.T) {
	d := LayoutDescriptor()
	require.Len(t, d.Entries, 1)
	e := d.Entries[0]
	assert.Equal(t, uint32(Binding), e.Binding)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, e.Buffer.Type)
	assert.Equal(t, uint64(144), e.Buffer.MinBindingSize)
	assert.NotZero(t, e.Visibility&wgpu.ShaderStageVertex)
	assert.NotZero(t, e.Visibility&wgpu.ShaderStageFragment)
}

func TestUpdateTicksClockMovesCameraAndUploads(t *testing.T) {
	gpu := &fakeGPU{}
	cam, err := camera.NewCamera()
	require.NoError(t, err)
	clk := clock.NewManualClock()

	u, err := NewUniformBuffer(gpu, cam, WithClock(clk))
	require.NoError(t, err)
	require.Len(t, gpu.layouts, 1)

	start := cam.Position()
	clk.Advance(time.Second)
	require.NoError(t, u.Update(gpu))

	assert.NotEqual(t, start, cam.Position())
	assert.InDelta(t, start.Len(), cam.Position().Len(), 1e-3)

	require.Len(t, gpu.writes, 1)
	w := gpu.writes[0]
	assert.Same(t, u.BindGroupProvider(), w.Provider)
	assert.Equal(t, Binding, w.Binding)
	assert.Len(t, w.Data, 144)

	cur := u.Current()
	assert.InDelta(t, 1.0, cur.Time, 1e-6)
	assert.Equal(t, cam.ViewMatrix(), cur.View)
	assert.Equal(t, cam.ProjectionMatrix(), cur.Projection)
}

func TestUpdateWithoutElapsedTimeKeepsCamera(t *testing.T) {
	gpu := &fakeGPU{}
	cam, err := camera.NewCamera()
	require.NoError(t, err)

	u, err := NewUniformBuffer(gpu, cam, WithClock(clock.NewManualClock()))
	require.NoError(t, err)

	start := cam.Position()
	require.NoError(t, u.Update(gpu))
	assert.Equal(t, start, cam.Position())
	assert.Zero(t, u.Current().Time)
}

func TestNewUniformBufferPropagatesAllocationFailure(t *testing.T) {
	cam, err := camera.NewCamera()
	require.NoError(t, err)

	boom := errors.New("out of device memory")
	u, err := NewUniformBuffer(&fakeGPU{initErr: boom}, cam)
	assert.Nil(t, u)
	assert.ErrorIs(t, err, boom)
}
