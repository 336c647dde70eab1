package renderer

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// InitializationError reports a failure while standing up the GPU: instance, surface, adapter,
// device, surface configuration or pipeline creation. It is always fatal.
type InitializationError struct {
	// Stage names the step that failed, e.g. "adapter" or "pipeline".
	Stage string
	Err   error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("renderer: %s initialization failed: %v", e.Stage, e.Err)
}

func (e *InitializationError) Unwrap() error {
	return e.Err
}

func newInitializationError(stage string, err error) *InitializationError {
	return &InitializationError{Stage: stage, Err: err}
}

// SurfaceErrorKind classifies a failure to acquire the next surface texture.
type SurfaceErrorKind int

const (
	// SurfaceLost means the surface must be reconfigured before it can be used again.
	SurfaceLost SurfaceErrorKind = iota

	// SurfaceOutdated means the surface no longer matches the window and must be reconfigured.
	SurfaceOutdated

	// SurfaceTimeout means no texture became available in time. The frame is skipped.
	SurfaceTimeout

	// SurfaceOutOfMemory means the device ran out of memory. It is fatal.
	SurfaceOutOfMemory
)

func (k SurfaceErrorKind) String() string {
	switch k {
	case SurfaceLost:
		return "lost"
	case SurfaceOutdated:
		return "outdated"
	case SurfaceTimeout:
		return "timeout"
	case SurfaceOutOfMemory:
		return "out of memory"
	default:
		return fmt.Sprintf("SurfaceErrorKind(%d)", int(k))
	}
}

// SurfaceError is returned when the next surface texture cannot be acquired.
type SurfaceError struct {
	Kind SurfaceErrorKind
	Err  error
}

func (e *SurfaceError) Error() string {
	if e.Err == nil {
		return "renderer: surface " + e.Kind.String()
	}
	return fmt.Sprintf("renderer: surface %s: %v", e.Kind, e.Err)
}

func (e *SurfaceError) Unwrap() error {
	return e.Err
}

// Recoverable reports whether the frame loop can continue after this error.
func (e *SurfaceError) Recoverable() bool {
	return e.Kind != SurfaceOutOfMemory
}

// NeedsReconfigure reports whether the surface must be reconfigured before the next acquisition.
func (e *SurfaceError) NeedsReconfigure() bool {
	return e.Kind == SurfaceLost || e.Kind == SurfaceOutdated
}

// IsFatal reports whether err must stop the frame loop. Only an out-of-memory surface and
// initialization errors are fatal. Any other frame failure drops that frame and the loop continues.
//
// Parameters:
//   - err: the error to inspect
//
// Returns:
//   - bool: true if the loop must stop
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var initErr *InitializationError
	if errors.As(err, &initErr) {
		return true
	}
	var surfaceErr *SurfaceError
	return errors.As(err, &surfaceErr) && !surfaceErr.Recoverable()
}

// classifySurfaceError maps a surface acquisition failure to a *SurfaceError. The driver reports
// the acquisition status only through the error text, so the kind is matched on the message.
// Unknown failures are treated as outdated so the surface is reconfigured and the frame skipped.
func classifySurfaceError(err error) *SurfaceError {
	var surfaceErr *SurfaceError
	if errors.As(err, &surfaceErr) {
		return surfaceErr
	}

	msg := strings.ToLower(err.Error())
	kind := SurfaceOutdated
	switch {
	case strings.Contains(msg, "out of memory"), strings.Contains(msg, "outofmemory"):
		kind = SurfaceOutOfMemory
	case strings.Contains(msg, "timeout"):
		kind = SurfaceTimeout
	case strings.Contains(msg, "lost"):
		kind = SurfaceLost
	case strings.Contains(msg, "outdated"):
		kind = SurfaceOutdated
	}
	return &SurfaceError{Kind: kind, Err: err}
}
