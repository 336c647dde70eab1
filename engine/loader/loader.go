package loader

import (
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-sky/common"
	"github.com/Carmen-Shannon/oxy-sky/engine/model"

	"github.com/pkg/errors"
)

// LoaderBackendType identifies the mesh file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeOBJ selects the Wavefront OBJ loader backend.
	BackendTypeOBJ LoaderBackendType = iota
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF
)

// String returns the lower-case format name of the backend type.
func (t LoaderBackendType) String() string {
	switch t {
	case BackendTypeOBJ:
		return "obj"
	case BackendTypeGLTF:
		return "gltf"
	default:
		return "unknown"
	}
}

// BackendTypeForPath maps a file extension to its loader backend type.
//
// Parameters:
//   - path: the mesh file path
//
// Returns:
//   - LoaderBackendType: the backend for the extension
//   - bool: false when the extension is not supported
func BackendTypeForPath(path string) (LoaderBackendType, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return BackendTypeOBJ, true
	case ".gltf", ".glb":
		return BackendTypeGLTF, true
	default:
		return 0, false
	}
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	meshCache map[string]*model.MeshData

	backends map[LoaderBackendType]loaderBackend
}

// Loader defines the public-facing interface for loading and caching mesh assets.
// It abstracts the file format (OBJ, glTF, GLB) behind a generic backend and
// manages a cache of previously decoded meshes. Callers must not mutate returned meshes.
type Loader interface {
	// Load decodes a mesh file and caches the result.
	// If the mesh is already cached (by file path), the cached version is returned.
	// The backend is selected from the file extension (.obj → OBJ, .gltf/.glb → glTF).
	//
	// Parameters:
	//   - path: the file path to the mesh file
	//
	// Returns:
	//   - *model.MeshData: the decoded mesh
	//   - error: a *common.AssetError if the file is missing, unsupported or malformed
	Load(path string) (*model.MeshData, error)

	// LoadReader decodes a mesh from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key and mesh name
	//   - r: the reader providing mesh data
	//   - backendType: the format of the stream
	//
	// Returns:
	//   - *model.MeshData: the decoded mesh
	//   - error: a *common.AssetError if decoding fails
	LoadReader(name string, r io.Reader, backendType LoaderBackendType) (*model.MeshData, error)

	// Get retrieves a cached mesh by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - *model.MeshData: the cached mesh or nil
	Get(name string) *model.MeshData

	// Meshes returns a copy of the mesh cache.
	//
	// Returns:
	//   - map[string]*model.MeshData: all cached meshes keyed by name
	Meshes() map[string]*model.MeshData
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the OBJ and glTF backends registered and options applied.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:        sync.RWMutex{},
		meshCache: make(map[string]*model.MeshData),
		backends: map[LoaderBackendType]loaderBackend{
			BackendTypeOBJ:  newOBJLoaderBackend(),
			BackendTypeGLTF: newGLTFLoaderBackend(),
		},
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (*model.MeshData, error) {
	if cached := l.Get(path); cached != nil {
		return cached, nil
	}

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, common.NewAssetError(path, err)
	}

	mesh, err := backend.Load(path)
	if err != nil {
		return nil, common.NewAssetError(path, err)
	}

	return l.store(path, mesh), nil
}

func (l *loader) LoadReader(name string, r io.Reader, backendType LoaderBackendType) (*model.MeshData, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}

	backend, ok := l.backends[backendType]
	if !ok {
		return nil, common.NewAssetError(name, errors.Errorf("no loader backend for %s", backendType))
	}

	mesh, err := backend.LoadReader(name, r)
	if err != nil {
		return nil, common.NewAssetError(name, errors.Wrap(err, "failed to load from reader"))
	}

	return l.store(name, mesh), nil
}

func (l *loader) Get(name string) *model.MeshData {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.meshCache[name]
}

func (l *loader) Meshes() map[string]*model.MeshData {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]*model.MeshData, len(l.meshCache))
	for k, v := range l.meshCache {
		result[k] = v
	}
	return result
}

// store caches mesh under key unless a concurrent load got there first, in which case the earlier mesh wins.
func (l *loader) store(key string, mesh *model.MeshData) *model.MeshData {
	l.mu.Lock()
	defer l.mu.Unlock()

	if existing, ok := l.meshCache[key]; ok {
		return existing
	}
	l.meshCache[key] = mesh

	common.Logger().Debug("mesh loaded",
		"key", key,
		"name", mesh.Name,
		"vertices", mesh.VertexCount(),
		"triangles", len(mesh.Indices)/3,
	)
	return mesh
}

// resolveBackend selects the loader backend for a file extension.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	backendType, ok := BackendTypeForPath(path)
	if !ok {
		return nil, errors.Errorf("unsupported mesh format: %q", filepath.Ext(path))
	}
	backend, ok := l.backends[backendType]
	if !ok {
		return nil, errors.Errorf("no loader backend for %s", backendType)
	}
	return backend, nil
}
