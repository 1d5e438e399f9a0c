package projector

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gekko3d/scenegraph"
)

// Camera is a scene node with a projection.
type Camera interface {
	SceneNode() *scenegraph.Node
	ProjectionMatrix() mgl64.Mat4
	ViewMatrix() mgl64.Mat4
}

type cameraBase struct {
	*scenegraph.Node
	projection mgl64.Mat4
}

func (c *cameraBase) SceneNode() *scenegraph.Node   { return c.Node }
func (c *cameraBase) ProjectionMatrix() mgl64.Mat4 { return c.projection }

// ViewMatrix is the inverse of the cached world matrix.
func (c *cameraBase) ViewMatrix() mgl64.Mat4 { return c.MatrixWorld().Inv() }

// GetWorldDirection returns the direction the camera looks in, its -Z axis.
func (c *cameraBase) GetWorldDirection() mgl64.Vec3 {
	return c.Node.GetWorldDirection().Mul(-1)
}

// ViewProjection returns projection * view.
func ViewProjection(c Camera) mgl64.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

type PerspectiveCamera struct {
	cameraBase
	// Fov is the vertical field of view in degrees.
	Fov    float64
	Aspect float64
	Near   float64
	Far    float64
}

func NewPerspectiveCamera(name string, fov, aspect, near, far float64) *PerspectiveCamera {
	c := &PerspectiveCamera{
		cameraBase: cameraBase{Node: scenegraph.NewNodeOfType(name, scenegraph.TypeCamera)},
		Fov:        fov,
		Aspect:     aspect,
		Near:       near,
		Far:        far,
	}
	c.UpdateProjectionMatrix()
	return c
}

// UpdateProjectionMatrix must be called after changing Fov, Aspect, Near or Far.
func (c *PerspectiveCamera) UpdateProjectionMatrix() {
	c.projection = mgl64.Perspective(mgl64.DegToRad(c.Fov), c.Aspect, c.Near, c.Far)
}

type OrthographicCamera struct {
	cameraBase
	Left, Right, Top, Bottom float64
	Near, Far                float64
}

func NewOrthographicCamera(name string, left, right, top, bottom, near, far float64) *OrthographicCamera {
	c := &OrthographicCamera{
		cameraBase: cameraBase{Node: scenegraph.NewNodeOfType(name, scenegraph.TypeCamera)},
		Left:       left,
		Right:      right,
		Top:        top,
		Bottom:     bottom,
		Near:       near,
		Far:        far,
	}
	c.UpdateProjectionMatrix()
	return c
}

func (c *OrthographicCamera) UpdateProjectionMatrix() {
	c.projection = mgl64.Ortho(c.Left, c.Right, c.Bottom, c.Top, c.Near, c.Far)
}
