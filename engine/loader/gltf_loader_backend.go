package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-sky/engine/model"
)

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct {
	importer gltfImporter
}

// gltfLoaderBackend is a loaderBackend implementation for glTF/GLB files.
// It delegates to the gltfImporter for parsing and extraction.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new glTF loader backend.
//
// Returns:
//   - gltfLoaderBackend: the loader backend for glTF/GLB files
func newGLTFLoaderBackend() gltfLoaderBackend {
	return &gltfLoaderBackendImpl{
		importer: newGLTFImporter(),
	}
}

func (b *gltfLoaderBackendImpl) Load(path string) (*model.MeshData, error) {
	return b.importer.Import(path)
}

// LoadReader only accepts self-contained documents: GLB or glTF with data: URIs.
func (b *gltfLoaderBackendImpl) LoadReader(name string, r io.Reader) (*model.MeshData, error) {
	return b.importer.ImportReader(name, r, "")
}
