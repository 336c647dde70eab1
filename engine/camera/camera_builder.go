package camera

import "github.com/go-gl/mathgl/mgl32"

type CameraBuilderOption func(*cameraImpl)

// WithFov sets the camera's vertical field of view in degrees.
//
// Parameters:
//   - degrees: field of view in degrees, within (0, 180)
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(degrees float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = degrees
	}
}

// WithAspect sets the camera's aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's aspect ratio
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithClipPlanes sets the near and far clipping plane distances.
//
// Parameters:
//   - near: near plane distance, greater than zero
//   - far: far plane distance, greater than near
//
// Returns:
//   - CameraBuilderOption: a function that sets both clip planes
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithPosition places the camera and aims it at the origin.
// Use WithDirection after this option to look elsewhere.
//
// Parameters:
//   - position: world-space eye position
//
// Returns:
//   - CameraBuilderOption: a function that sets position and direction
func WithPosition(position mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = position
		c.direction = position.Mul(-1)
	}
}

// WithDirection sets the direction the camera looks along.
//
// Parameters:
//   - direction: non-zero view direction, not parallel to the up vector
//
// Returns:
//   - CameraBuilderOption: a function that sets the direction
func WithDirection(direction mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.direction = direction
	}
}

// WithUp sets the camera's up vector.
//
// Parameters:
//   - up: non-zero up vector
//
// Returns:
//   - CameraBuilderOption: a function that sets the up vector
func WithUp(up mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.up = up
	}
}

// WithOrbitSpeed sets how fast Update rotates the camera about the world Y axis.
//
// Parameters:
//   - radiansPerSecond: orbit rate
//
// Returns:
//   - CameraBuilderOption: a function that sets the orbit rate
func WithOrbitSpeed(radiansPerSecond float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.orbitSpeed = radiansPerSecond
	}
}
