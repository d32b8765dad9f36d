// Package camera holds the interactive orbit camera and light angles that
// drive the render view.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxtrace/internal/scene"
)

const (
	MinDistance = 2
	MaxDistance = 2000
	MaxPitch    = 89

	mouseSensitivity = 0.3
	zoomStep         = 0.9
)

// Orbit is a camera rotating around a target point. Angles are in degrees.
type Orbit struct {
	Target   mgl32.Vec3
	Yaw      float32
	Pitch    float32
	Distance float32

	FOVY        float32
	AspectRatio float32
	NearPlane   float32
	FarPlane    float32

	Light scene.LightAngles

	dragging   bool
	firstMouse bool
	lastX      float64
	lastY      float64
}

// NewOrbit returns a camera looking down at the origin from a distance.
func NewOrbit(width, height int) *Orbit {
	o := &Orbit{
		Yaw:       30,
		Pitch:     35,
		Distance:  120,
		FOVY:      mgl32.RadToDeg(scene.FOV),
		NearPlane: 0.1,
		FarPlane:  5000,
		Light:     scene.LightAngles{Yaw: 0.4, Pitch: -0.9},
	}
	o.SetViewport(width, height)
	return o
}

// SetViewport updates the aspect ratio.
func (o *Orbit) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	o.AspectRatio = float32(width) / float32(height)
}

// Rotation returns the view rotation: yaw about +Y, then pitch about +X.
func (o *Orbit) Rotation() mgl32.Quat {
	pitch := mgl32.QuatRotate(mgl32.DegToRad(o.Pitch), mgl32.Vec3{1, 0, 0})
	yaw := mgl32.QuatRotate(mgl32.DegToRad(o.Yaw), mgl32.Vec3{0, 1, 0})
	return pitch.Mul(yaw)
}

// View returns the orbit parameters used to derive the render camera. The
// offset is the negated target.
func (o *Orbit) View() scene.View {
	return scene.View{
		Offset:   o.Target.Mul(-1),
		Rotation: o.Rotation(),
		Distance: o.Distance,
	}
}

// GetViewMatrix returns translate(0,0,-distance) * rotation * translate(offset).
func (o *Orbit) GetViewMatrix() mgl32.Mat4 {
	v := o.View()
	return mgl32.Translate3D(0, 0, -v.Distance).
		Mul4(v.Rotation.Mat4()).
		Mul4(mgl32.Translate3D(v.Offset[0], v.Offset[1], v.Offset[2]))
}

// GetProjectionMatrix returns the perspective projection.
func (o *Orbit) GetProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(o.FOVY), o.AspectRatio, o.NearPlane, o.FarPlane)
}

// Eye returns the camera position in world space.
func (o *Orbit) Eye() mgl32.Vec3 {
	return o.GetViewMatrix().Inv().Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
}

// CursorRay returns the world-space ray under a cursor position given in
// window coordinates with the origin at the top left.
func (o *Orbit) CursorRay(xpos, ypos float64, width, height int) (mgl32.Vec3, mgl32.Vec3, error) {
	view, proj := o.GetViewMatrix(), o.GetProjectionMatrix()
	wx, wy := float32(xpos), float32(float64(height)-ypos)

	near, err := mgl32.UnProject(mgl32.Vec3{wx, wy, 0}, view, proj, 0, 0, width, height)
	if err != nil {
		return mgl32.Vec3{}, mgl32.Vec3{}, err
	}
	far, err := mgl32.UnProject(mgl32.Vec3{wx, wy, 1}, view, proj, 0, 0, width, height)
	if err != nil {
		return mgl32.Vec3{}, mgl32.Vec3{}, err
	}
	return near, far.Sub(near).Normalize(), nil
}

// HandleMouseButton starts or stops dragging.
func (o *Orbit) HandleMouseButton(pressed bool) {
	o.dragging = pressed
	o.firstMouse = pressed
}

// HandleMouseMovement rotates the camera while dragging.
func (o *Orbit) HandleMouseMovement(xpos, ypos float64) {
	if !o.dragging {
		return
	}
	if o.firstMouse {
		o.lastX = xpos
		o.lastY = ypos
		o.firstMouse = false
		return
	}

	xoffset := float32(xpos-o.lastX) * mouseSensitivity
	yoffset := float32(ypos-o.lastY) * mouseSensitivity
	o.lastX = xpos
	o.lastY = ypos

	o.Yaw += xoffset
	o.Pitch = mgl32.Clamp(o.Pitch+yoffset, -MaxPitch, MaxPitch)
}

// HandleScroll zooms towards or away from the target.
func (o *Orbit) HandleScroll(yoff float64) {
	d := o.Distance
	switch {
	case yoff > 0:
		d *= zoomStep
	case yoff < 0:
		d /= zoomStep
	}
	o.Distance = mgl32.Clamp(d, MinDistance, MaxDistance)
}

// Pan moves the target in the camera plane by screen-space deltas.
func (o *Orbit) Pan(dx, dy float32) {
	inv := o.Rotation().Inverse()
	right := inv.Rotate(mgl32.Vec3{1, 0, 0})
	up := inv.Rotate(mgl32.Vec3{0, 1, 0})
	scale := o.Distance * 0.002
	o.Target = o.Target.Sub(right.Mul(dx * scale)).Add(up.Mul(dy * scale))
}

// RotateLight changes the light angles, in radians. Pitch stays within a
// half turn.
func (o *Orbit) RotateLight(dyaw, dpitch float32) {
	const limit = 1.5707964
	o.Light.Yaw += dyaw
	o.Light.Pitch = mgl32.Clamp(o.Light.Pitch+dpitch, -limit, limit)
}
