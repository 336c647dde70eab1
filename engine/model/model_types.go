package model

// MeshData is a parsed mesh as flat attribute streams, the form mesh decoders produce.
// Positions and Normals hold 3 floats per vertex, UVs 2 floats per vertex, Indices 3 entries per triangle.
// Normals and UVs may be empty when the source has none.
type MeshData struct {
	// Name identifies the mesh in logs and GPU labels.
	Name string

	// Positions is the flat xyz stream; its length defines the vertex count.
	Positions []float32

	// Normals is the flat xyz stream, either empty or one normal per vertex.
	Normals []float32

	// UVs is the flat uv stream, either empty or one coordinate per vertex.
	UVs []float32

	// Indices lists triangle corners; every entry must reference an existing vertex.
	Indices []uint32
}

// VertexCount returns the number of vertices described by Positions.
func (m *MeshData) VertexCount() int {
	return len(m.Positions) / 3
}
