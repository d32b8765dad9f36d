package rendercache

import (
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"voxtrace/internal/volume"
)

func testMatrices() (mgl32.Mat4, mgl32.Mat4) {
	view := mgl32.LookAtV(mgl32.Vec3{10, 20, 30}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(20), 4.0/3, 0.1, 1000)
	return view, proj
}

func TestKey(t *testing.T) {
	view, proj := testMatrices()

	t.Run("same inputs give the same key", func(t *testing.T) {
		v := volume.New()
		v.Set(1, 2, 3, color.RGBA{R: 10, A: 255})

		require.Equal(t, Key(v.Key(), view, proj), Key(v.Key(), view, proj))
	})

	t.Run("voxel change changes the key", func(t *testing.T) {
		v := volume.New()
		v.Set(1, 2, 3, color.RGBA{R: 10, A: 255})
		before := Key(v.Key(), view, proj)

		v.Set(1, 2, 3, color.RGBA{R: 11, A: 255})
		require.NotEqual(t, before, Key(v.Key(), view, proj))
	})

	t.Run("every matrix element is covered", func(t *testing.T) {
		base := Key(42, view, proj)
		for i := range 16 {
			v := view
			v[i] += 1
			require.NotEqual(t, base, Key(42, v, proj), "view element %d", i)

			p := proj
			p[i] += 1
			require.NotEqual(t, base, Key(42, view, p), "proj element %d", i)
		}
	})

	t.Run("view and projection are not interchangeable", func(t *testing.T) {
		require.NotEqual(t, Key(7, view, proj), Key(7, proj, view))
	})

	t.Run("negative zero differs from zero", func(t *testing.T) {
		a := mgl32.Ident4()
		b := a
		b[1] = float32(math.Copysign(0, -1))
		require.NotEqual(t, Key(0, a, proj), Key(0, b, proj))
	})

	t.Run("volume key seeds the checksum", func(t *testing.T) {
		require.NotEqual(t, Key(1, view, proj), Key(2, view, proj))
	})
}

func TestOrtho(t *testing.T) {
	m := Ortho(Rect{Width: 200, Height: 100})

	bl := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	tr := m.Mul4x1(mgl32.Vec4{200, 100, 0, 1})
	require.InDelta(t, -1, bl.X(), 1e-6)
	require.InDelta(t, -1, bl.Y(), 1e-6)
	require.InDelta(t, 1, tr.X(), 1e-6)
	require.InDelta(t, 1, tr.Y(), 1e-6)
}
