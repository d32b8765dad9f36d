package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// LightType selects the kind of light source.
type LightType uint8

const (
	LightDistant LightType = iota
)

// LightSize is the angular size of the distant light.
const LightSize = 0.05

// LightAngles holds the host's light orientation, in radians.
type LightAngles struct {
	Yaw, Pitch float32
}

// Light is a light source. Dir is the direction the light travels.
// Shader indexes the scene shaders.
type Light struct {
	Type   LightType
	Size   float32
	Dir    mgl32.Vec3
	Shader int
}

// LightDirection rotates +Z by yaw about Z then pitch about X, and negates
// the result so it points the way the light travels.
func LightDirection(a LightAngles) mgl32.Vec3 {
	m := mgl32.Ident4()
	m = m.Mul4(mgl32.HomogRotate3DZ(a.Yaw))
	m = m.Mul4(mgl32.HomogRotate3DX(a.Pitch))
	dir := m.Mul4x1(mgl32.Vec4{0, 0, 1, 0})
	return dir.Vec3().Mul(-1)
}

// NewDistantLight builds the scene light for the given angles.
func NewDistantLight(a LightAngles, shader int) *Light {
	return &Light{
		Type:   LightDistant,
		Size:   LightSize,
		Dir:    LightDirection(a),
		Shader: shader,
	}
}
