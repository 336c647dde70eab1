package loader

import (
	"io"

	"github.com/Carmen-Shannon/oxy-sky/engine/model"
)

// loaderBackend defines the generic interface for decoding meshes from files or streams.
// Concrete implementations (objLoaderBackend, gltfLoaderBackend) handle format-specific details.
type loaderBackend interface {
	// Load decodes the mesh stored at path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *model.MeshData: the decoded mesh
	//   - error: error if loading fails
	Load(path string) (*model.MeshData, error)

	// LoadReader decodes a mesh from a reader stream.
	//
	// Parameters:
	//   - name: the name given to the decoded mesh
	//   - r: the reader providing mesh data
	//
	// Returns:
	//   - *model.MeshData: the decoded mesh
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader) (*model.MeshData, error)
}
