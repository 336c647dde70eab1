package skybox

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-sky/common"

	"github.com/anthonynsimon/bild/clone"
	"github.com/pkg/errors"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
	_ "golang.org/x/image/webp"
)

// Face indexes the six cube faces in the order they are stored as texture layers.
type Face int

const (
	FaceLeft Face = iota
	FaceRight
	FaceUp
	FaceDown
	FaceFront
	FaceBack
)

// FaceCount is the number of layers in a cube texture.
const FaceCount = 6

// DefaultFaceNames are the face files of the bundled cubemap, in Face order.
var DefaultFaceNames = []string{
	"yellowcloud_lf.jpg",
	"yellowcloud_rt.jpg",
	"yellowcloud_up.jpg",
	"yellowcloud_dn.jpg",
	"yellowcloud_ft.jpg",
	"yellowcloud_bk.jpg",
}

// LoadFaces decodes the six face images under dir and assembles them into layered staging data.
// JPEG, PNG, BMP and WebP files are accepted.
//
// Parameters:
//   - dir: the directory holding the faces
//   - names: the six file names in Face order
//
// Returns:
//   - common.TextureStagingData: six RGBA8 layers of equal size
//   - error: a *common.AssetError naming the face that could not be read, decoded or matched
func LoadFaces(dir string, names []string) (common.TextureStagingData, error) {
	if len(names) != FaceCount {
		return common.TextureStagingData{}, common.NewAssetError(dir, errors.Errorf("cubemap needs %d faces, got %d", FaceCount, len(names)))
	}

	faces := make([]image.Image, FaceCount)
	for i, name := range names {
		path := filepath.Join(dir, name)
		img, err := decodeFile(path)
		if err != nil {
			return common.TextureStagingData{}, common.NewAssetError(path, err)
		}
		faces[i] = img
	}

	staging, err := AssembleFaces(faces)
	if err != nil {
		var assetErr *common.AssetError
		if errors.As(err, &assetErr) {
			return common.TextureStagingData{}, err
		}
		return common.TextureStagingData{}, common.NewAssetError(dir, err)
	}
	return staging, nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, "decode")
	}
	common.Logger().Debug("cubemap face decoded", "path", path, "format", format, "size", img.Bounds().Size())
	return img, nil
}

// AssembleFaces converts decoded faces to RGBA8, rotates the up face 90° clockwise and the down face
// 270° clockwise, and concatenates them in Face order.
//
// Parameters:
//   - faces: the six decoded faces in Face order
//
// Returns:
//   - common.TextureStagingData: the layered pixel data
//   - error: a *common.AssetError if a face is missing or differs in size from the first face
func AssembleFaces(faces []image.Image) (common.TextureStagingData, error) {
	if len(faces) != FaceCount {
		return common.TextureStagingData{}, common.NewAssetError("", errors.Errorf("cubemap needs %d faces, got %d", FaceCount, len(faces)))
	}

	var width, height int
	var pixels []byte
	for i, img := range faces {
		if img == nil {
			return common.TextureStagingData{}, common.NewAssetError("", errors.Errorf("face %d is nil", i))
		}
		rgba := clone.AsRGBA(img)
		switch Face(i) {
		case FaceUp:
			rgba = rotate90(rgba)
		case FaceDown:
			rgba = rotate270(rgba)
		}

		size := rgba.Bounds().Size()
		if i == 0 {
			width, height = size.X, size.Y
			pixels = make([]byte, 0, width*height*4*FaceCount)
		} else if size.X != width || size.Y != height {
			return common.TextureStagingData{}, common.NewAssetError("", errors.Errorf("face %d is %dx%d, face 0 is %dx%d", i, size.X, size.Y, width, height))
		}
		pixels = append(pixels, packed(rgba)...)
	}

	return common.TextureStagingData{
		Pixels: pixels,
		Width:  uint32(width),
		Height: uint32(height),
		Layers: FaceCount,
	}, nil
}

// rotate90 rotates img a quarter turn clockwise.
func rotate90(img *image.RGBA) *image.RGBA {
	size := img.Bounds().Size()
	dst := image.NewRGBA(image.Rect(0, 0, size.Y, size.X))
	s2d := f64.Aff3{0, -1, float64(size.Y), 1, 0, 0}
	draw.NearestNeighbor.Transform(dst, s2d, img, img.Bounds(), draw.Src, nil)
	return dst
}

// rotate270 rotates img three quarter turns clockwise.
func rotate270(img *image.RGBA) *image.RGBA {
	size := img.Bounds().Size()
	dst := image.NewRGBA(image.Rect(0, 0, size.Y, size.X))
	s2d := f64.Aff3{0, 1, 0, -1, 0, float64(size.X)}
	draw.NearestNeighbor.Transform(dst, s2d, img, img.Bounds(), draw.Src, nil)
	return dst
}

// packed returns the pixels of img without row padding.
func packed(img *image.RGBA) []byte {
	size := img.Bounds().Size()
	rowBytes := size.X * 4
	if img.Stride == rowBytes && img.Rect.Min == (image.Point{}) {
		return img.Pix[:rowBytes*size.Y]
	}
	out := make([]byte, 0, rowBytes*size.Y)
	for y := 0; y < size.Y; y++ {
		start := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
		out = append(out, img.Pix[start:start+rowBytes]...)
	}
	return out
}
