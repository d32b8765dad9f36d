package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// FOV is the fixed field of view of the render camera, in radians.
var FOV = mgl32.DegToRad(20)

// CameraType selects the projection of a render camera.
type CameraType uint8

const (
	CameraPerspective CameraType = iota
)

// View holds the orbit camera parameters of the host application.
type View struct {
	Offset   mgl32.Vec3
	Rotation mgl32.Quat
	Distance float32
}

// Camera is the render camera. Matrix is the camera-to-world transform in
// the engine's transposed (row-major) layout; camera space looks down +Z.
type Camera struct {
	Width, Height         int
	FullWidth, FullHeight int
	FOV                   float32
	Type                  CameraType
	Matrix                mgl32.Mat4
	Exposure              float32
}

// NewCamera builds a perspective camera sized w*h for the given view.
func NewCamera(w, h int, v View) *Camera {
	return &Camera{
		Width:      w,
		Height:     h,
		FullWidth:  w,
		FullHeight: h,
		FOV:        FOV,
		Type:       CameraPerspective,
		Matrix:     CameraMatrix(v),
		Exposure:   1,
	}
}

// CameraMatrix derives the engine camera matrix from orbit parameters.
// The quaternion's scalar sign flip and the z mirror together convert the
// host's handedness to the engine's; the final transpose converts the
// column-major result to the engine's row-major layout.
func CameraMatrix(v View) mgl32.Mat4 {
	mat := mgl32.Ident4()
	mat = mat.Mul4(mgl32.Translate3D(-v.Offset[0], -v.Offset[1], -v.Offset[2]))

	rot := v.Rotation
	rot.W *= -1
	mat = mat.Mul4(rot.Mat4())

	mat = mat.Mul4(mgl32.Translate3D(0, 0, v.Distance))
	mat = mat.Mul4(mgl32.Scale3D(1, 1, -1))
	return mat.Transpose()
}

// ViewPlane returns the half extents of the image plane at unit distance,
// with the field of view spanning the shorter image side.
func (c *Camera) ViewPlane() (float32, float32) {
	if c.Width <= 0 || c.Height <= 0 {
		return 1, 1
	}
	aspect := float32(c.Width) / float32(c.Height)
	if aspect >= 1 {
		return aspect, 1
	}
	return 1, 1 / aspect
}
