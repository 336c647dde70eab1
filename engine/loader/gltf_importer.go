package loader

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-sky/engine/model"

	"github.com/pkg/errors"
)

// gltfImporterImpl is the implementation of the gltfImporter interface.
type gltfImporterImpl struct{}

// gltfImporter orchestrates a static mesh import: parse the document, then merge its primitives.
type gltfImporter interface {
	// Import loads a glTF/GLB file and merges every triangle primitive into one MeshData.
	//
	// Parameters:
	//   - path: the file path to the glTF or GLB file
	//
	// Returns:
	//   - *model.MeshData: the merged mesh
	//   - error: error if import fails
	Import(path string) (*model.MeshData, error)

	// ImportReader loads a glTF document from a reader and merges its primitives.
	//
	// Parameters:
	//   - name: the name given to the mesh when the document names no scene
	//   - r: the reader providing glTF JSON or GLB data
	//   - baseDir: directory used to resolve external buffer URIs
	//
	// Returns:
	//   - *model.MeshData: the merged mesh
	//   - error: error if import fails
	ImportReader(name string, r io.Reader, baseDir string) (*model.MeshData, error)
}

var _ gltfImporter = &gltfImporterImpl{}

func newGLTFImporter() gltfImporter {
	return &gltfImporterImpl{}
}

func (imp *gltfImporterImpl) Import(path string) (*model.MeshData, error) {
	parser := newGLTFParser()
	if err := parser.Parse(path); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	return imp.importFromParser(parser, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}

func (imp *gltfImporterImpl) ImportReader(name string, r io.Reader, baseDir string) (*model.MeshData, error) {
	parser := newGLTFParser()
	if err := parser.ParseReader(r, baseDir); err != nil {
		return nil, errors.Wrap(err, "failed to parse from reader")
	}
	return imp.importFromParser(parser, name)
}

func (imp *gltfImporterImpl) importFromParser(parser gltfParser, fallbackName string) (*model.MeshData, error) {
	mesh, err := newGLTFMeshExtractor(parser).ExtractAllMeshes()
	if err != nil {
		return nil, errors.Wrap(err, "mesh extraction failed")
	}
	mesh.Name = gltfExtractModelName(parser.Document(), fallbackName)
	return mesh, nil
}

// gltfExtractModelName prefers the default scene name and falls back to the given name.
func gltfExtractModelName(doc *gltfDocument, fallback string) string {
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		if name := doc.Scenes[*doc.Scene].Name; name != "" {
			return name
		}
	}
	if fallback != "" {
		return fallback
	}
	return "unnamed_model"
}
