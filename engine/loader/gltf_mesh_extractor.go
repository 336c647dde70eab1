package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-sky/engine/model"

	"github.com/pkg/errors"
)

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	parser gltfParser
}

// gltfMeshExtractor converts the triangle primitives of a parsed glTF document into flat mesh streams.
type gltfMeshExtractor interface {
	// ExtractMesh extracts every primitive of a single mesh, merged into one MeshData.
	//
	// Parameters:
	//   - meshIndex: the index of the mesh to extract
	//
	// Returns:
	//   - *model.MeshData: the merged primitives
	//   - error: error if extraction fails
	ExtractMesh(meshIndex int) (*model.MeshData, error)

	// ExtractAllMeshes extracts every primitive of every mesh in the document, merged into one MeshData.
	// Indices of each primitive are rebased onto the running vertex count.
	//
	// Returns:
	//   - *model.MeshData: the merged geometry
	//   - error: error if extraction fails
	ExtractAllMeshes() (*model.MeshData, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

func newGLTFMeshExtractor(parser gltfParser) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{parser: parser}
}

// meshStreams accumulates primitives into flat position/normal/uv/index streams.
type meshStreams struct {
	positions []float32
	normals   []float32
	uvs       []float32
	indices   []uint32
	hasUVs    bool
}

func (s *meshStreams) vertexCount() uint32 {
	return uint32(len(s.positions) / 3)
}

// toMeshData drops the uv stream when no primitive carried texture coordinates.
func (s *meshStreams) toMeshData(name string) *model.MeshData {
	mesh := &model.MeshData{
		Name:      name,
		Positions: s.positions,
		Normals:   s.normals,
		Indices:   s.indices,
	}
	if s.hasUVs {
		mesh.UVs = s.uvs
	}
	return mesh
}

func (e *gltfMeshExtractorImpl) ExtractMesh(meshIndex int) (*model.MeshData, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errors.New("no document loaded")
	}
	if meshIndex < 0 || meshIndex >= len(doc.Meshes) {
		return nil, errors.Errorf("mesh index %d out of range", meshIndex)
	}

	var streams meshStreams
	if err := e.appendMesh(&streams, meshIndex); err != nil {
		return nil, err
	}
	return streams.toMeshData(gltfMeshName(doc.Meshes[meshIndex].Name, meshIndex)), nil
}

func (e *gltfMeshExtractorImpl) ExtractAllMeshes() (*model.MeshData, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, errors.New("no document loaded")
	}
	if len(doc.Meshes) == 0 {
		return nil, errors.New("document contains no meshes")
	}

	var streams meshStreams
	for i := range doc.Meshes {
		if err := e.appendMesh(&streams, i); err != nil {
			return nil, err
		}
	}
	return streams.toMeshData(gltfMeshName(doc.Meshes[0].Name, 0)), nil
}

func (e *gltfMeshExtractorImpl) appendMesh(streams *meshStreams, meshIndex int) error {
	mesh := &e.parser.Document().Meshes[meshIndex]
	for primIdx := range mesh.Primitives {
		if err := e.appendPrimitive(streams, &mesh.Primitives[primIdx]); err != nil {
			return errors.Wrapf(err, "mesh %d primitive %d", meshIndex, primIdx)
		}
	}
	return nil
}

// appendPrimitive reads one triangle primitive and appends it to streams with rebased indices.
// Normals are generated from the triangles when the primitive omits them.
func (e *gltfMeshExtractorImpl) appendPrimitive(streams *meshStreams, prim *gltfPrimitive) error {
	if prim.Mode != nil && *prim.Mode != gltfPrimitiveModeTriangles {
		return errors.Errorf("unsupported primitive mode: %d (only triangles supported)", *prim.Mode)
	}

	posAccessor, ok := prim.Attributes[gltfAttributePosition]
	if !ok {
		return errors.New("primitive has no POSITION attribute")
	}
	positions, err := e.parser.ReadVec3Accessor(posAccessor)
	if err != nil {
		return errors.Wrap(err, "failed to read positions")
	}
	vertexCount := len(positions)

	var indices []uint32
	if prim.Indices != nil {
		indices, err = e.parser.ReadIndicesAccessor(*prim.Indices)
		if err != nil {
			return errors.Wrap(err, "failed to read indices")
		}
	} else {
		indices = make([]uint32, vertexCount)
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	for _, idx := range indices {
		if int(idx) >= vertexCount {
			return errors.Errorf("index %d out of range for %d vertices", idx, vertexCount)
		}
	}

	flatPositions := flatten3(positions)

	var flatNormals []float32
	if normalAccessor, ok := prim.Attributes[gltfAttributeNormal]; ok {
		normals, err := e.parser.ReadVec3Accessor(normalAccessor)
		if err != nil {
			return errors.Wrap(err, "failed to read normals")
		}
		if len(normals) != vertexCount {
			return errors.Errorf("NORMAL has %d entries, POSITION has %d", len(normals), vertexCount)
		}
		flatNormals = flatten3(normals)
	} else {
		flatNormals = generateNormals(flatPositions, indices)
	}

	flatUVs := make([]float32, vertexCount*2)
	if uvAccessor, ok := prim.Attributes[gltfAttributeTexCoord]; ok {
		uvs, err := e.parser.ReadVec2Accessor(uvAccessor)
		if err != nil {
			return errors.Wrap(err, "failed to read texcoords")
		}
		if len(uvs) != vertexCount {
			return errors.Errorf("TEXCOORD_0 has %d entries, POSITION has %d", len(uvs), vertexCount)
		}
		for i, uv := range uvs {
			flatUVs[i*2], flatUVs[i*2+1] = uv[0], uv[1]
		}
		streams.hasUVs = true
	}

	base := streams.vertexCount()
	for _, idx := range indices {
		streams.indices = append(streams.indices, idx+base)
	}
	streams.positions = append(streams.positions, flatPositions...)
	streams.normals = append(streams.normals, flatNormals...)
	streams.uvs = append(streams.uvs, flatUVs...)
	return nil
}

func gltfMeshName(name string, index int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("mesh_%d", index)
}

func flatten3(values [][3]float32) []float32 {
	out := make([]float32, 0, len(values)*3)
	for _, v := range values {
		out = append(out, v[0], v[1], v[2])
	}
	return out
}
