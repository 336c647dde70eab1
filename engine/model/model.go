package model

import (
	"github.com/Carmen-Shannon/oxy-sky/common"
	"github.com/Carmen-Shannon/oxy-sky/engine/renderer/bind_group_provider"

	"github.com/pkg/errors"
)

// geometryBuffer is the implementation of the GeometryBuffer interface.
type geometryBuffer struct {
	name         string
	color        [4]float32
	meshProvider bind_group_provider.BindGroupProvider
	vertexCount  int
	indexCount   int
}

// GeometryBuffer holds the immutable vertex and index buffers of one static mesh.
// It is built once at startup and read by every frame's indexed draw.
type GeometryBuffer interface {
	// Name retrieves the mesh identifier.
	//
	// Returns:
	//   - string: the mesh name
	Name() string

	// MeshProvider returns the provider holding the vertex and index buffers.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the mesh provider
	MeshProvider() bind_group_provider.BindGroupProvider

	// VertexCount returns the number of uploaded vertices.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// IndexCount returns the number of uploaded indices.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// Release frees the GPU buffers.
	Release()
}

var _ GeometryBuffer = &geometryBuffer{}

// NewGeometryBuffer converts mesh into GPU vertices and uploads them with the index list through alloc.
//
// Parameters:
//   - alloc: the allocator for GPU buffers
//   - mesh: the parsed mesh
//   - options: functional options
//
// Returns:
//   - GeometryBuffer: the uploaded geometry
//   - error: a *common.AssetError if the mesh is malformed, or the allocation error
func NewGeometryBuffer(alloc bind_group_provider.Initializer, mesh *MeshData, options ...GeometryBufferBuilderOption) (GeometryBuffer, error) {
	if mesh == nil {
		return nil, common.NewAssetError("", errors.New("mesh is nil"))
	}
	g := &geometryBuffer{
		name:  mesh.Name,
		color: DefaultColor,
	}
	for _, option := range options {
		option(g)
	}
	if g.name == "" {
		g.name = "Mesh"
	}

	vertices, err := BuildVertices(mesh, g.color)
	if err != nil {
		return nil, err
	}

	g.meshProvider = bind_group_provider.NewBindGroupProvider(g.name)
	if err := alloc.InitMeshBuffers(g.meshProvider, MarshalVertices(vertices), len(vertices), MarshalIndices(mesh.Indices), len(mesh.Indices)); err != nil {
		g.meshProvider.Release()
		return nil, errors.Wrapf(err, "model: failed to upload %s", g.name)
	}

	g.vertexCount = len(vertices)
	g.indexCount = len(mesh.Indices)
	common.Logger().Debug("geometry uploaded", "mesh", g.name, "vertices", g.vertexCount, "indices", g.indexCount)
	return g, nil
}

// DefaultColor is the vertex color applied when a mesh carries no colors.
var DefaultColor = [4]float32{1, 1, 1, 1}

// BuildVertices walks the attribute streams of mesh in lockstep and produces one GPUVertex per position,
// in source order. Missing normals and UVs are zero; every vertex receives color.
//
// Parameters:
//   - mesh: the parsed mesh
//   - color: the color applied to every vertex
//
// Returns:
//   - []GPUVertex: the vertices in source order
//   - error: a *common.AssetError if mesh is nil or its streams or indices are inconsistent
func BuildVertices(mesh *MeshData, color [4]float32) ([]GPUVertex, error) {
	if mesh == nil {
		return nil, common.NewAssetError("", errors.New("mesh is nil"))
	}
	if err := validateMesh(mesh); err != nil {
		return nil, common.NewAssetError(mesh.Name, err)
	}

	count := mesh.VertexCount()
	hasNormals := len(mesh.Normals) > 0
	hasUVs := len(mesh.UVs) > 0

	vertices := make([]GPUVertex, count)
	for i := range vertices {
		v := &vertices[i]
		copy(v.Position[:], mesh.Positions[i*3:i*3+3])
		if hasNormals {
			copy(v.Normal[:], mesh.Normals[i*3:i*3+3])
		}
		if hasUVs {
			copy(v.TexCoord[:], mesh.UVs[i*2:i*2+2])
		}
		v.Color = color
	}
	return vertices, nil
}

func validateMesh(mesh *MeshData) error {
	switch {
	case len(mesh.Positions) == 0:
		return errors.New("mesh has no vertices")
	case len(mesh.Positions)%3 != 0:
		return errors.Errorf("position stream length %d is not a multiple of 3", len(mesh.Positions))
	}

	count := mesh.VertexCount()
	if n := len(mesh.Normals); n != 0 && n != count*3 {
		return errors.Errorf("normal stream has %d floats, want %d", n, count*3)
	}
	if n := len(mesh.UVs); n != 0 && n != count*2 {
		return errors.Errorf("uv stream has %d floats, want %d", n, count*2)
	}

	if len(mesh.Indices) == 0 || len(mesh.Indices)%3 != 0 {
		return errors.Errorf("index count %d is not a positive multiple of 3", len(mesh.Indices))
	}
	for i, idx := range mesh.Indices {
		if int(idx) >= count {
			return errors.Errorf("index %d at position %d references missing vertex (have %d)", idx, i, count)
		}
	}
	return nil
}

func (g *geometryBuffer) Name() string {
	return g.name
}

func (g *geometryBuffer) MeshProvider() bind_group_provider.BindGroupProvider {
	return g.meshProvider
}

func (g *geometryBuffer) VertexCount() int {
	return g.vertexCount
}

func (g *geometryBuffer) IndexCount() int {
	return g.indexCount
}

func (g *geometryBuffer) Release() {
	g.meshProvider.Release()
}
