package window

import (
	"runtime"

	"github.com/Carmen-Shannon/oxy-sky/common"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/pkg/errors"
)

// Window provides the platform window the scene is presented into and the event loop that drives it.
// All callbacks run on the goroutine that called ProcessMessages, between frames.
type Window interface {
	// SetRedrawCallback sets the function called once per message loop iteration to produce a frame.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable); a non-nil error stops the loop
	SetRedrawCallback(callback func() error)

	// SetResizeCallback sets the function called when the framebuffer is resized.
	// A minimized window reports a zero dimension.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetCloseCallback sets the function called once when the window is asked to close,
	// either by the window manager or by the Escape key.
	//
	// Parameters:
	//   - callback: function to call
	SetCloseCallback(callback func())

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop until the window closes or the redraw callback fails.
	//
	// Returns:
	//   - error: the first error returned by the redraw callback, or nil on a normal close
	ProcessMessages() error

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, platform state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	minWidth  int
	minHeight int

	// width and height are the current framebuffer size in pixels.
	width  int
	height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// closing is set once a close has been requested and the close callback has fired.
	closing bool

	onRedraw func() error
	onResize func(width, height int)
	onClose  func()
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the spawned window
//   - error: error if the platform window cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		return nil, errors.Wrap(err, "failed to create platform window")
	}
	common.Logger().Info("window created", "title", w.title, "width", w.width, "height", w.height)
	return w, nil
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:     "oxy-sky",
		minWidth:  320,
		minHeight: 200,
		width:     1600,
		height:    900,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetRedrawCallback(callback func() error) {
	w.onRedraw = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetCloseCallback(callback func()) {
	w.onClose = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return !w.closing && platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	w.requestClose()
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() error {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}
		if err := w.redraw(); err != nil {
			return err
		}
		runtime.Gosched()
	}
	w.requestClose()
	return nil
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// handleResize records the new framebuffer size and forwards it.
func (w *engineWindow) handleResize(width, height int) {
	w.width = width
	w.height = height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

// requestClose fires the close callback at most once.
func (w *engineWindow) requestClose() {
	if w.closing {
		return
	}
	w.closing = true
	if w.onClose != nil {
		w.onClose()
	}
}

func (w *engineWindow) redraw() error {
	if w.closing || w.onRedraw == nil {
		return nil
	}
	return w.onRedraw()
}
