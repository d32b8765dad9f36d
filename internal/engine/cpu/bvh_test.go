package cpu

import (
	"math/rand/v2"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func randomVec(rng *rand.Rand, scale float32) mgl32.Vec3 {
	return mgl32.Vec3{
		(rng.Float32()*2 - 1) * scale,
		(rng.Float32()*2 - 1) * scale,
		(rng.Float32()*2 - 1) * scale,
	}
}

func TestBVHMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	tris := make([]triangle, 200)
	for i := range tris {
		c := randomVec(rng, 10)
		tris[i] = newTriangle(c, c.Add(randomVec(rng, 1)), c.Add(randomVec(rng, 1)))
	}
	brute := append([]triangle(nil), tris...)
	accel := buildBVH(tris)

	for range 500 {
		r := newRay(randomVec(rng, 12), randomVec(rng, 1).Normalize())

		var want float32
		found := false
		tMax := rayFar
		for i := range brute {
			if d, _, _, ok := brute[i].intersect(&r, rayEpsilon, tMax); ok {
				tMax, want, found = d, d, true
			}
		}

		h, ok := accel.intersect(&r, rayEpsilon, rayFar)
		require.Equal(t, found, ok)
		if ok {
			require.InDelta(t, want, h.t, 1e-4)
		}
	}
}

func TestBVHEmpty(t *testing.T) {
	accel := buildBVH(nil)
	r := newRay(mgl32.Vec3{}, mgl32.Vec3{0, 0, 1})
	_, ok := accel.intersect(&r, 0, rayFar)
	require.False(t, ok)
	require.False(t, accel.occluded(&r, 0, rayFar))
}

func TestTriangleBarycentrics(t *testing.T) {
	tri := newTriangle(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0})
	tri.colors = [3]mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

	r := newRay(mgl32.Vec3{0.25, 0.25, 1}, mgl32.Vec3{0, 0, -1})
	d, u, v, ok := tri.intersect(&r, 0, rayFar)
	require.True(t, ok)
	require.InDelta(t, 1, d, 1e-6)
	require.InDelta(t, 0.25, u, 1e-6)
	require.InDelta(t, 0.25, v, 1e-6)

	c := tri.albedo(u, v)
	require.InDelta(t, 0.5, c[0], 1e-6)
	require.InDelta(t, 0.25, c[1], 1e-6)
	require.InDelta(t, 0.25, c[2], 1e-6)
}

func TestSamplingStaysInHemisphere(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	n := mgl32.Vec3{0, 1, 0}
	for range 1000 {
		d := sampleCosine(n, rng)
		require.GreaterOrEqual(t, d.Dot(n), float32(-1e-6))
		require.InDelta(t, 1, d.Len(), 1e-4)
	}
}
