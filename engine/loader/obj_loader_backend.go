package loader

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-sky/engine/model"

	"github.com/g3n/engine/loader/obj"
	"github.com/pkg/errors"
)

// objLoaderBackendImpl is the implementation of objLoaderBackend.
type objLoaderBackendImpl struct{}

// objLoaderBackend is a loaderBackend implementation for Wavefront OBJ files.
// Materials are ignored; only geometry is read.
type objLoaderBackend interface {
	loaderBackend
}

var _ objLoaderBackend = &objLoaderBackendImpl{}

// newOBJLoaderBackend creates a new OBJ loader backend.
//
// Returns:
//   - objLoaderBackend: the loader backend for OBJ files
func newOBJLoaderBackend() objLoaderBackend {
	return &objLoaderBackendImpl{}
}

func (b *objLoaderBackendImpl) Load(path string) (*model.MeshData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return b.LoadReader(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), f)
}

func (b *objLoaderBackendImpl) LoadReader(name string, r io.Reader) (*model.MeshData, error) {
	// The decoder attaches faces to the current object; seed one for files that declare none.
	// An empty material library keeps it from looking for a .mtl next to the stream.
	dec, err := obj.DecodeReader(io.MultiReader(strings.NewReader("o default\n"), r), strings.NewReader(""))
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode OBJ")
	}
	return buildOBJMesh(name, dec)
}

// objCorner identifies a face corner by its position, uv and normal indices.
type objCorner [3]int

// objMeshBuilder de-duplicates face corners into an indexed vertex stream.
type objMeshBuilder struct {
	dec     *obj.Decoder
	corners map[objCorner]uint32

	positions []float32
	normals   []float32
	uvs       []float32
	indices   []uint32
}

// buildOBJMesh fan-triangulates every face of every object and de-duplicates corners sharing the
// same (position, uv, normal) triple. Missing or invalid uv and normal references yield zeros; an
// invalid position reference is an error. Normals are generated when the file declares none.
func buildOBJMesh(name string, dec *obj.Decoder) (*model.MeshData, error) {
	mb := &objMeshBuilder{dec: dec, corners: make(map[objCorner]uint32)}

	for _, object := range dec.Objects {
		for faceIdx, face := range object.Faces {
			if len(face.Vertices) < 3 {
				return nil, errors.Errorf("object %q face %d has %d vertices", object.Name, faceIdx, len(face.Vertices))
			}
			for i := 2; i < len(face.Vertices); i++ {
				for _, corner := range [3]int{0, i - 1, i} {
					if err := mb.addCorner(face, corner); err != nil {
						return nil, errors.Wrapf(err, "object %q face %d", object.Name, faceIdx)
					}
				}
			}
		}
	}

	if len(mb.indices) == 0 {
		return nil, errors.New("OBJ contains no faces")
	}

	mesh := &model.MeshData{
		Name:      name,
		Positions: mb.positions,
		Normals:   mb.normals,
		UVs:       mb.uvs,
		Indices:   mb.indices,
	}
	if len(dec.Normals) == 0 {
		mesh.Normals = generateNormals(mesh.Positions, mesh.Indices)
	}
	if len(dec.Uvs) == 0 {
		mesh.UVs = nil
	}
	return mesh, nil
}

func (mb *objMeshBuilder) addCorner(face obj.Face, corner int) error {
	key := objCorner{face.Vertices[corner], -1, -1}
	if corner < len(face.Uvs) {
		key[1] = face.Uvs[corner]
	}
	if corner < len(face.Normals) {
		key[2] = face.Normals[corner]
	}

	if index, ok := mb.corners[key]; ok {
		mb.indices = append(mb.indices, index)
		return nil
	}

	pos := key[0]
	if pos < 0 || pos*3+2 >= len(mb.dec.Vertices) {
		return errors.Errorf("position index %d out of range", pos)
	}
	mb.positions = append(mb.positions, mb.dec.Vertices[pos*3], mb.dec.Vertices[pos*3+1], mb.dec.Vertices[pos*3+2])

	if uv := key[1]; uv >= 0 && uv*2+1 < len(mb.dec.Uvs) {
		// OBJ puts v=0 at the bottom of the image; textures here are sampled top-down.
		mb.uvs = append(mb.uvs, mb.dec.Uvs[uv*2], 1-mb.dec.Uvs[uv*2+1])
	} else {
		mb.uvs = append(mb.uvs, 0, 0)
	}

	if n := key[2]; n >= 0 && n*3+2 < len(mb.dec.Normals) {
		mb.normals = append(mb.normals, mb.dec.Normals[n*3], mb.dec.Normals[n*3+1], mb.dec.Normals[n*3+2])
	} else {
		mb.normals = append(mb.normals, 0, 0, 0)
	}

	index := uint32(len(mb.positions)/3 - 1)
	mb.corners[key] = index
	mb.indices = append(mb.indices, index)
	return nil
}
