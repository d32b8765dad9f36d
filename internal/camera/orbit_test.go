package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"voxtrace/internal/scene"
)

func requireVecNear(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	for i := range 3 {
		require.InDelta(t, want[i], got[i], 1e-3, "component %d of %v vs %v", i, want, got)
	}
}

func TestRenderCameraMatchesOrbit(t *testing.T) {
	o := NewOrbit(640, 480)
	o.Target = mgl32.Vec3{5, 2, -3}
	o.Yaw, o.Pitch, o.Distance = 40, 25, 60

	toWorld := scene.CameraMatrix(o.View()).Transpose()

	eye := toWorld.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	requireVecNear(t, o.Eye(), eye)

	forward := toWorld.Mul4x1(mgl32.Vec4{0, 0, 1, 0}).Vec3()
	requireVecNear(t, o.Target.Sub(o.Eye()).Normalize(), forward.Normalize())
}

func TestEyeDistance(t *testing.T) {
	o := NewOrbit(100, 100)
	o.Target = mgl32.Vec3{1, 1, 1}
	require.InDelta(t, o.Distance, o.Eye().Sub(o.Target).Len(), 1e-2)
}

func TestDragRotatesOnlyWhilePressed(t *testing.T) {
	o := NewOrbit(100, 100)
	yaw := o.Yaw

	o.HandleMouseMovement(10, 10)
	o.HandleMouseMovement(50, 10)
	require.Equal(t, yaw, o.Yaw)

	o.HandleMouseButton(true)
	o.HandleMouseMovement(10, 10)
	o.HandleMouseMovement(20, 10)
	require.InDelta(t, yaw+10*mouseSensitivity, o.Yaw, 1e-4)

	o.HandleMouseButton(false)
	o.HandleMouseMovement(100, 10)
	require.InDelta(t, yaw+10*mouseSensitivity, o.Yaw, 1e-4)
}

func TestPitchClamp(t *testing.T) {
	o := NewOrbit(100, 100)
	o.HandleMouseButton(true)
	o.HandleMouseMovement(0, 0)
	o.HandleMouseMovement(0, 10000)
	require.Equal(t, float32(MaxPitch), o.Pitch)
}

func TestScrollZoom(t *testing.T) {
	o := NewOrbit(100, 100)
	d := o.Distance

	o.HandleScroll(1)
	require.Less(t, o.Distance, d)
	o.HandleScroll(-1)
	require.InDelta(t, d, o.Distance, 1e-3)

	for range 1000 {
		o.HandleScroll(1)
	}
	require.Equal(t, float32(MinDistance), o.Distance)
}

func TestViewMatrixChangesWithInput(t *testing.T) {
	o := NewOrbit(100, 100)
	before := o.GetViewMatrix()
	o.Pan(10, 0)
	require.NotEqual(t, before, o.GetViewMatrix())
}

func TestRotateLight(t *testing.T) {
	o := NewOrbit(100, 100)
	o.RotateLight(0.5, 10)
	require.InDelta(t, 0.9, o.Light.Yaw, 1e-6)
	require.InDelta(t, 1.5707964, o.Light.Pitch, 1e-6)
}

func TestProjectionAspect(t *testing.T) {
	o := NewOrbit(200, 100)
	require.Equal(t, float32(2), o.AspectRatio)
	o.SetViewport(0, 100)
	require.Equal(t, float32(2), o.AspectRatio)
	require.Equal(t, mgl32.Perspective(mgl32.DegToRad(o.FOVY), 2, o.NearPlane, o.FarPlane), o.GetProjectionMatrix())
}

func TestCursorRayThroughCenter(t *testing.T) {
	o := NewOrbit(400, 300)
	o.Target = mgl32.Vec3{3, 1, -2}
	o.NearPlane, o.FarPlane = 1, 500

	origin, dir, err := o.CursorRay(200, 150, 400, 300)
	require.NoError(t, err)

	want := o.Target.Sub(o.Eye()).Normalize()
	require.Greater(t, dir.Dot(want), float32(0.9999))
	toTarget := o.Target.Sub(origin)
	require.Less(t, toTarget.Cross(dir).Len(), float32(0.1))
}
