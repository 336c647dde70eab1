package model

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-sky/common"
	"github.com/Carmen-Shannon/oxy-sky/engine/renderer/bind_group_provider"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInitializer struct {
	vertexData  []byte
	vertexCount int
	indexData   []byte
	indexCount  int
	err         error
}

func (f *fakeInitializer) InitMeshBuffers(p bind_group_provider.BindGroupProvider, vertexData []byte, vertexCount int, indexData []byte, indexCount int) error {
	if f.err != nil {
		return f.err
	}
	f.vertexData, f.vertexCount = vertexData, vertexCount
	f.indexData, f.indexCount = indexData, indexCount
	p.SetMeshBuffers(nil, vertexCount, nil, indexCount)
	return nil
}

func (f *fakeInitializer) InitBindGroup(bind_group_provider.BindGroupProvider, wgpu.BindGroupLayoutDescriptor) error {
	return nil
}

func (f *fakeInitializer) InitTextureView(bind_group_provider.BindGroupProvider, int, common.TextureStagingData, wgpu.TextureViewDimension) error {
	return nil
}

func (f *fakeInitializer) InitSampler(bind_group_provider.BindGroupProvider, int, common.SamplerStagingData) error {
	return nil
}

func triangle() *MeshData {
	return &MeshData{
		Name:      "triangle",
		Positions: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:   []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		UVs:       []float32{0, 0, 1, 0, 0, 1},
		Indices:   []uint32{0, 1, 2},
	}
}

func TestGPUVertexLayout(t *testing.T) {
	var v GPUVertex
	assert.Equal(t, 48, v.Size())
	assert.Equal(t, uintptr(0), unsafe.Offsetof(v.Position))
	assert.Equal(t, uintptr(12), unsafe.Offsetof(v.Normal))
	assert.Equal(t, uintptr(24), unsafe.Offsetof(v.TexCoord))
	assert.Equal(t, uintptr(32), unsafe.Offsetof(v.Color))

	layout := VertexLayout()
	assert.Equal(t, uint64(48), layout.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, layout.StepMode)
	require.Len(t, layout.Attributes, 4)
	want := []struct {
		format wgpu.VertexFormat
		offset uint64
	}{
		{wgpu.VertexFormatFloat32x3, 0},
		{wgpu.VertexFormatFloat32x3, 12},
		{wgpu.VertexFormatFloat32x2, 24},
		{wgpu.VertexFormatFloat32x4, 32},
	}
	for i, w := range want {
		assert.Equal(t, w.format, layout.Attributes[i].Format)
		assert.Equal(t, w.offset, layout.Attributes[i].Offset)
		assert.Equal(t, uint32(i), layout.Attributes[i].ShaderLocation)
	}
}

func TestBuildVerticesKeepsSourceOrder(t *testing.T) {
	vertices, err := BuildVertices(triangle(), DefaultColor)
	require.NoError(t, err)
	require.Len(t, vertices, 3)

	assert.Equal(t, [3]float32{0, 0, 0}, vertices[0].Position)
	assert.Equal(t, [3]float32{1, 0, 0}, vertices[1].Position)
	assert.Equal(t, [3]float32{0, 1, 0}, vertices[2].Position)
	assert.Equal(t, [2]float32{1, 0}, vertices[1].TexCoord)
	for _, v := range vertices {
		assert.Equal(t, [3]float32{0, 0, 1}, v.Normal)
		assert.Equal(t, [4]float32{1, 1, 1, 1}, v.Color)
	}
}

func TestBuildVerticesWithoutNormalsOrUVs(t *testing.T) {
	mesh := triangle()
	mesh.Normals = nil
	mesh.UVs = nil

	vertices, err := BuildVertices(mesh, [4]float32{1, 0, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, [3]float32{}, vertices[2].Normal)
	assert.Equal(t, [2]float32{}, vertices[2].TexCoord)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, vertices[2].Color)
}

func TestBuildVerticesRejectsMalformedMeshes(t *testing.T) {
	cases := map[string]func(m *MeshData){
		"no positions":       func(m *MeshData) { m.Positions = nil },
		"ragged positions":   func(m *MeshData) { m.Positions = m.Positions[:8] },
		"short normals":      func(m *MeshData) { m.Normals = m.Normals[:6] },
		"short uvs":          func(m *MeshData) { m.UVs = m.UVs[:2] },
		"index out of range": func(m *MeshData) { m.Indices = []uint32{0, 1, 3} },
		"partial triangle":   func(m *MeshData) { m.Indices = []uint32{0, 1} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			mesh := triangle()
			mutate(mesh)
			_, err := BuildVertices(mesh, DefaultColor)
			var assetErr *common.AssetError
			assert.ErrorAs(t, err, &assetErr)
		})
	}
}

func TestBuildVerticesRejectsNilMesh(t *testing.T) {
	vertices, err := BuildVertices(nil, DefaultColor)
	assert.Nil(t, vertices)
	var assetErr *common.AssetError
	require.ErrorAs(t, err, &assetErr)
	assert.Contains(t, err.Error(), "mesh is nil")
}

func TestNewGeometryBufferUploadsTriangle(t *testing.T) {
	gpu := &fakeInitializer{}
	g, err := NewGeometryBuffer(gpu, triangle())
	require.NoError(t, err)

	assert.Equal(t, "triangle", g.Name())
	assert.Equal(t, 3, g.VertexCount())
	assert.Equal(t, 3, g.IndexCount())
	assert.Equal(t, 3, g.MeshProvider().IndexCount())

	require.Len(t, gpu.vertexData, 3*48)
	assert.Equal(t, 3, gpu.vertexCount)
	second := math.Float32frombits(binary.LittleEndian.Uint32(gpu.vertexData[48:]))
	assert.Equal(t, float32(1), second)

	require.Len(t, gpu.indexData, 12)
	for i := range 3 {
		assert.Equal(t, uint32(i), binary.LittleEndian.Uint32(gpu.indexData[i*4:]))
	}
}

func TestNewGeometryBufferPropagatesUploadFailure(t *testing.T) {
	boom := errors.New("buffer creation failed")
	g, err := NewGeometryBuffer(&fakeInitializer{err: boom}, triangle(), WithName("bunny"))
	assert.Nil(t, g)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "bunny")
}

func TestMarshalIndices(t *testing.T) {
	buf := MarshalIndices([]uint32{7, 0xFFFFFFFF})
	require.Len(t, buf, 8)
	assert.Equal(t, uint32(7), binary.LittleEndian.Uint32(buf))
	assert.Equal(t, uint32(0xFFFFFFFF), binary.LittleEndian.Uint32(buf[4:]))
}
