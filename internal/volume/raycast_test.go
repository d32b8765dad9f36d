package volume

import (
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func TestRaycast(t *testing.T) {
	stone := color.RGBA{R: 128, G: 128, B: 128, A: 255}
	start := mgl32.Vec3{0.5, 0.5, 0.5}

	v := New()
	v.Set(5, 0, 0, stone)

	t.Run("ray hits the voxel face", func(t *testing.T) {
		r := v.Raycast(start, mgl32.Vec3{1, 0, 0}, 0.1, 10)
		require.True(t, r.Hit)
		require.Equal(t, [3]int{5, 0, 0}, r.HitPosition)
		require.Equal(t, [3]int{4, 0, 0}, r.AdjacentPosition)
		require.InDelta(t, 4.5, r.Distance, 0.03)
	})

	t.Run("ray shorter than the distance misses", func(t *testing.T) {
		require.False(t, v.Raycast(start, mgl32.Vec3{1, 0, 0}, 0.1, 4).Hit)
	})

	t.Run("ray in another direction misses", func(t *testing.T) {
		require.False(t, v.Raycast(start, mgl32.Vec3{0, 1, 0}, 0.1, 10).Hit)
	})

	t.Run("diagonal ray hits", func(t *testing.T) {
		v.Set(2, 2, 2, stone)
		r := v.Raycast(start, mgl32.Vec3{1, 1, 1}, 0.1, 10)
		require.True(t, r.Hit)
		require.Equal(t, [3]int{2, 2, 2}, r.HitPosition)
	})

	t.Run("negative coordinates", func(t *testing.T) {
		v.Set(-3, 0, 0, stone)
		r := v.Raycast(start, mgl32.Vec3{-1, 0, 0}, 0.1, 10)
		require.True(t, r.Hit)
		require.Equal(t, [3]int{-3, 0, 0}, r.HitPosition)
		require.Equal(t, [3]int{-2, 0, 0}, r.AdjacentPosition)
	})
}
