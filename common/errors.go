package common

import "fmt"

// AssetError reports a missing, unreadable or malformed asset file.
// Asset errors are raised during startup and are fatal to the process.
type AssetError struct {
	// Path is the asset that failed. It may be empty for assets built in memory.
	Path string
	// Err is the underlying cause.
	Err error
}

// NewAssetError wraps err as an *AssetError for path.
func NewAssetError(path string, err error) *AssetError {
	return &AssetError{Path: path, Err: err}
}

func (e *AssetError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("asset error: %v", e.Err)
	}
	return fmt.Sprintf("asset %s: %v", e.Path, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}
