package cpu

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	rayEpsilon = 1e-4
	rayFar     = float32(1e30)
)

type ray struct {
	origin mgl32.Vec3
	dir    mgl32.Vec3
	invDir mgl32.Vec3
}

func newRay(origin, dir mgl32.Vec3) ray {
	r := ray{origin: origin, dir: dir}
	for i := range 3 {
		r.invDir[i] = 1 / dir[i]
	}
	return r
}

type triangle struct {
	p0, e1, e2 mgl32.Vec3
	normal     mgl32.Vec3
	colors     [3]mgl32.Vec3
	emission   mgl32.Vec3
	emissive   bool
}

func newTriangle(a, b, c mgl32.Vec3) triangle {
	t := triangle{p0: a, e1: b.Sub(a), e2: c.Sub(a)}
	n := t.e1.Cross(t.e2)
	if l := n.Len(); l > 0 {
		t.normal = n.Mul(1 / l)
	}
	return t
}

func (t *triangle) bounds() aabb {
	return emptyBox().grow(t.p0).grow(t.p0.Add(t.e1)).grow(t.p0.Add(t.e2))
}

func (t *triangle) centroid() mgl32.Vec3 {
	return t.p0.Add(t.e1.Add(t.e2).Mul(1.0 / 3))
}

// intersect is the Möller-Trumbore test. u and v weight corners 1 and 2.
func (t *triangle) intersect(r *ray, tMin, tMax float32) (float32, float32, float32, bool) {
	p := r.dir.Cross(t.e2)
	det := t.e1.Dot(p)
	if det > -1e-9 && det < 1e-9 {
		return 0, 0, 0, false
	}
	inv := 1 / det
	s := r.origin.Sub(t.p0)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, 0, 0, false
	}
	q := s.Cross(t.e1)
	v := r.dir.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, 0, 0, false
	}
	d := t.e2.Dot(q) * inv
	if d <= tMin || d >= tMax {
		return 0, 0, 0, false
	}
	return d, u, v, true
}

// albedo interpolates the corner colors at barycentric (u, v).
func (t *triangle) albedo(u, v float32) mgl32.Vec3 {
	w := 1 - u - v
	return t.colors[0].Mul(w).Add(t.colors[1].Mul(u)).Add(t.colors[2].Mul(v))
}

type hit struct {
	t, u, v float32
	tri     *triangle
}

type distantLight struct {
	dir      mgl32.Vec3 // direction light travels
	size     float32
	radiance mgl32.Vec3
}

// world is a compiled scene ready for tracing.
type world struct {
	accel      *bvh
	lights     []distantLight
	camera     compiledCamera
	background mgl32.Vec3
	maxBounces int
}

type compiledCamera struct {
	toWorld      mgl32.Mat4
	origin       mgl32.Vec3
	halfX, halfY float32
	exposure     float32
}

// primary returns the ray through normalized film coordinates in [0,1].
func (c *compiledCamera) primary(fx, fy float32) ray {
	local := mgl32.Vec4{(fx*2 - 1) * c.halfX, (fy*2 - 1) * c.halfY, 1, 0}
	dir := c.toWorld.Mul4x1(local).Vec3().Normalize()
	return newRay(c.origin, dir)
}

func (w *world) radiance(r ray, rng *rand.Rand) mgl32.Vec3 {
	var l mgl32.Vec3
	throughput := mgl32.Vec3{1, 1, 1}

	for bounce := 0; bounce <= w.maxBounces; bounce++ {
		h, ok := w.accel.intersect(&r, rayEpsilon, rayFar)
		if !ok {
			return l.Add(mulVec(throughput, w.background))
		}
		tri := h.tri
		if tri.emissive {
			return l.Add(mulVec(throughput, tri.emission))
		}

		n := tri.normal
		if n.Dot(r.dir) > 0 {
			n = n.Mul(-1)
		}
		p := r.origin.Add(r.dir.Mul(h.t)).Add(n.Mul(rayEpsilon))
		albedo := tri.albedo(h.u, h.v)

		for _, light := range w.lights {
			toLight := sampleCone(light.dir.Mul(-1), light.size, rng)
			cos := n.Dot(toLight)
			if cos <= 0 {
				continue
			}
			shadow := newRay(p, toLight)
			if w.accel.occluded(&shadow, 0, rayFar) {
				continue
			}
			l = l.Add(mulVec(mulVec(throughput, albedo), light.radiance).Mul(cos))
		}

		throughput = mulVec(throughput, albedo)
		if throughput.LenSqr() < 1e-6 {
			break
		}
		r = newRay(p, sampleCosine(n, rng))
	}
	return l
}

func mulVec(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

func basis(n mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	a := mgl32.Vec3{1, 0, 0}
	if abs(n[0]) > 0.9 {
		a = mgl32.Vec3{0, 1, 0}
	}
	t := n.Cross(a).Normalize()
	return t, n.Cross(t)
}

func sampleCosine(n mgl32.Vec3, rng *rand.Rand) mgl32.Vec3 {
	t, b := basis(n)
	r1, r2 := rng.Float32(), rng.Float32()
	phi := 2 * math.Pi * float64(r1)
	rad := float32(math.Sqrt(float64(r2)))
	x := rad * float32(math.Cos(phi))
	y := rad * float32(math.Sin(phi))
	z := float32(math.Sqrt(float64(1 - r2)))
	return t.Mul(x).Add(b.Mul(y)).Add(n.Mul(z)).Normalize()
}

// sampleCone jitters dir within a disc of the given radius.
func sampleCone(dir mgl32.Vec3, radius float32, rng *rand.Rand) mgl32.Vec3 {
	dir = dir.Normalize()
	if radius <= 0 {
		return dir
	}
	t, b := basis(dir)
	phi := 2 * math.Pi * float64(rng.Float32())
	rad := radius * float32(math.Sqrt(float64(rng.Float32())))
	return dir.
		Add(t.Mul(rad * float32(math.Cos(phi)))).
		Add(b.Mul(rad * float32(math.Sin(phi)))).
		Normalize()
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
