package dieselvk

import (
	lin "github.com/xlab/linmath"
)

const (
	fieldOfView = 0.785
	nearPlane   = 0.1
	farPlane    = 100
	// uniformSize is one 4x4 float matrix.
	uniformSize = 16 * float32Size
)

var (
	cameraEye    = lin.Vec3{-5, 3, -10}
	cameraCenter = lin.Vec3{0, 0, 0}
	cameraUp     = lin.Vec3{0, -1, 0}
)

// Camera holds the fixed projection and view; only the model turns per frame.
type Camera struct {
	Projection lin.Mat4x4
	View       lin.Mat4x4
	Clip       lin.Mat4x4
}

func NewCamera(width, height uint32) *Camera {
	c := &Camera{}
	aspect := float32(1)
	if height > 0 {
		aspect = float32(width) / float32(height)
	}
	c.Projection.Perspective(fieldOfView, aspect, nearPlane, farPlane)
	eye, center, up := cameraEye, cameraCenter, cameraUp
	c.View.LookAt(&eye, &center, &up)
	vulkanClip(&c.Clip)
	return c
}

// vulkanClip maps GL clip space onto Vulkan's: Y points down and depth is [0, 1].
func vulkanClip(m *lin.Mat4x4) {
	m.Identity()
	m[1][1] = -1
	m[2][2] = 0.5
	m[3][2] = 0.5
}

// ModelAngle is the rotation about Y, in radians, for frame n.
func ModelAngle(frame uint64) float32 {
	return float32(frame) / 100
}

// MVP returns clip * projection * view * model for the given frame.
func (c *Camera) MVP(frame uint64) *lin.Mat4x4 {
	var identity, model, vp, mvp lin.Mat4x4
	identity.Identity()
	model.Rotate(&identity, 0, 1, 0, ModelAngle(frame))
	vp.Mult(&c.Projection, &c.View)
	mvp.Mult(&vp, &model)

	out := new(lin.Mat4x4)
	out.Mult(&c.Clip, &mvp)
	return out
}
