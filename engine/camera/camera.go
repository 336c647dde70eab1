package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-sky/common"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
)

// minParallelSine is the smallest |sin| of the angle between direction and up that still yields a stable basis.
const minParallelSine = 1e-4

type cameraImpl struct {
	mu *sync.Mutex

	fov    float32
	aspect float32
	near   float32
	far    float32

	position  mgl32.Vec3
	up        mgl32.Vec3
	direction mgl32.Vec3

	orbitSpeed float32
}

// Camera defines the viewpoint the scene is rendered from.
// The view and projection matrices are derived from the stored parameters on every call,
// so they always reflect the latest Update or SetAspect.
type Camera interface {
	// Fov returns the vertical field of view in degrees.
	//
	// Returns:
	//   - float32: field of view in degrees
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// Up returns the camera's up vector.
	//
	// Returns:
	//   - mgl32.Vec3: the up vector
	Up() mgl32.Vec3

	// Direction returns the direction the camera looks along. It is never zero and never parallel to Up.
	//
	// Returns:
	//   - mgl32.Vec3: the view direction (not necessarily normalized)
	Direction() mgl32.Vec3

	// OrbitSpeed returns the orbit rate applied by Update in radians per second.
	//
	// Returns:
	//   - float32: radians per second
	OrbitSpeed() float32

	// ViewMatrix returns the right-handed look-to view matrix (column-major).
	//
	// Returns:
	//   - [16]float32: the view matrix
	ViewMatrix() [16]float32

	// ProjectionMatrix returns the right-handed perspective projection with a [0, 1] depth range (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	ProjectionMatrix() [16]float32

	// AsRaw packs the current view and projection matrices into their GPU representation.
	//
	// Returns:
	//   - GPUCamera: the view and projection matrices
	AsRaw() GPUCamera

	// Update advances the camera by dt seconds: the position rotates about the world Y axis by
	// dt * OrbitSpeed radians and the direction is re-aimed at the origin. The distance from the
	// origin is preserved. Negative dt is treated as zero.
	//
	// Parameters:
	//   - dt: elapsed seconds since the previous update
	Update(dt float32)

	// SetAspect sets the aspect ratio (width / height). Non-positive values are ignored.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera with the default orbit configuration: 70 degree field of view,
// near 0.01, far 1000, position (0, 5, 30), up +Y and direction toward the origin.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
//   - error: error if the resulting parameters cannot produce a valid view
func NewCamera(options ...CameraBuilderOption) (Camera, error) {
	c := &cameraImpl{
		mu:         &sync.Mutex{},
		fov:        70,
		aspect:     1,
		near:       0.01,
		far:        1000,
		position:   mgl32.Vec3{0, 5, 30},
		up:         mgl32.Vec3{0, 1, 0},
		orbitSpeed: 0.5,
	}
	c.direction = c.position.Mul(-1)

	for _, option := range options {
		option(c)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *cameraImpl) validate() error {
	switch {
	case c.fov <= 0 || c.fov >= 180:
		return errors.Errorf("camera: field of view %.2f must be within (0, 180) degrees", c.fov)
	case c.aspect <= 0:
		return errors.Errorf("camera: aspect %.4f must be positive", c.aspect)
	case c.near <= 0:
		return errors.Errorf("camera: near plane %.4f must be positive", c.near)
	case c.far <= c.near:
		return errors.Errorf("camera: far plane %.4f must be beyond near plane %.4f", c.far, c.near)
	case c.up.Len() == 0:
		return errors.New("camera: up vector must not be zero")
	case !validDirection(c.direction, c.up):
		return errors.Errorf("camera: direction %v is zero or parallel to up %v", c.direction, c.up)
	}
	return nil
}

// validDirection reports whether dir is non-zero and not parallel to up.
func validDirection(dir, up mgl32.Vec3) bool {
	dl, ul := dir.Len(), up.Len()
	if dl == 0 || ul == 0 {
		return false
	}
	return dir.Cross(up).Len()/(dl*ul) > minParallelSine
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) Direction() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.direction
}

func (c *cameraImpl) OrbitSpeed() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orbitSpeed
}

func (c *cameraImpl) ViewMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix()
}

func (c *cameraImpl) ProjectionMatrix() [16]float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix()
}

func (c *cameraImpl) AsRaw() GPUCamera {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCamera{
		View:       c.viewMatrix(),
		Projection: c.projectionMatrix(),
	}
}

func (c *cameraImpl) Update(dt float32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if dt <= 0 {
		return
	}

	rot := mgl32.Rotate3DY(dt * c.orbitSpeed)
	c.position = rot.Mul3x1(c.position)

	if dir := c.position.Mul(-1); validDirection(dir, c.up) {
		c.direction = dir
	}
}

func (c *cameraImpl) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
}

// viewMatrix builds a look-to matrix from position along direction. Caller must hold the mutex.
func (c *cameraImpl) viewMatrix() [16]float32 {
	return mgl32.LookAtV(c.position, c.position.Add(c.direction), c.up)
}

// projectionMatrix builds the projection from the stored parameters. Caller must hold the mutex.
func (c *cameraImpl) projectionMatrix() [16]float32 {
	var m [16]float32
	common.Perspective(m[:], mgl32.DegToRad(c.fov), c.aspect, c.near, c.far)
	return m
}
