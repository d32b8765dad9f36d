package cpu

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

const maxLeafTriangles = 4

type aabb struct {
	min, max mgl32.Vec3
}

func emptyBox() aabb {
	inf := float32(math.Inf(1))
	return aabb{min: mgl32.Vec3{inf, inf, inf}, max: mgl32.Vec3{-inf, -inf, -inf}}
}

func (b aabb) grow(p mgl32.Vec3) aabb {
	for i := range 3 {
		b.min[i] = min(b.min[i], p[i])
		b.max[i] = max(b.max[i], p[i])
	}
	return b
}

func (b aabb) union(o aabb) aabb {
	return b.grow(o.min).grow(o.max)
}

func (b aabb) longestAxis() int {
	d := b.max.Sub(b.min)
	if d[0] >= d[1] && d[0] >= d[2] {
		return 0
	}
	if d[1] >= d[2] {
		return 1
	}
	return 2
}

// hit reports whether the ray enters the box before tMax.
func (b aabb) hit(r *ray, tMax float32) bool {
	tMin := float32(0)
	for i := range 3 {
		t0 := (b.min[i] - r.origin[i]) * r.invDir[i]
		t1 := (b.max[i] - r.origin[i]) * r.invDir[i]
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		tMin = max(tMin, t0)
		tMax = min(tMax, t1)
		if tMax < tMin {
			return false
		}
	}
	return true
}

// bvhNode is a leaf when count > 0; otherwise left and right index children.
type bvhNode struct {
	box         aabb
	left, right int
	start       int
	count       int
}

type bvh struct {
	nodes []bvhNode
	tris  []triangle
}

func buildBVH(tris []triangle) *bvh {
	b := &bvh{tris: tris}
	if len(tris) == 0 {
		return b
	}
	b.nodes = make([]bvhNode, 0, 2*len(tris)/maxLeafTriangles+1)
	b.build(0, len(tris))
	return b
}

func (b *bvh) build(start, end int) int {
	box, centroids := emptyBox(), emptyBox()
	for i := start; i < end; i++ {
		box = box.union(b.tris[i].bounds())
		centroids = centroids.grow(b.tris[i].centroid())
	}

	idx := len(b.nodes)
	b.nodes = append(b.nodes, bvhNode{box: box})
	if end-start <= maxLeafTriangles {
		b.nodes[idx].start = start
		b.nodes[idx].count = end - start
		return idx
	}

	axis := centroids.longestAxis()
	part := b.tris[start:end]
	sort.Slice(part, func(i, j int) bool {
		return part[i].centroid()[axis] < part[j].centroid()[axis]
	})
	mid := (start + end) / 2

	left := b.build(start, mid)
	right := b.build(mid, end)
	b.nodes[idx].left = left
	b.nodes[idx].right = right
	return idx
}

// intersect finds the closest triangle hit in (tMin, tMax).
func (b *bvh) intersect(r *ray, tMin, tMax float32) (hit, bool) {
	var best hit
	found := false
	if len(b.nodes) == 0 {
		return best, false
	}

	var stack [64]int
	sp := 0
	stack[sp] = 0
	sp++
	for sp > 0 {
		sp--
		node := &b.nodes[stack[sp]]
		if !node.box.hit(r, tMax) {
			continue
		}
		if node.count > 0 {
			for i := node.start; i < node.start+node.count; i++ {
				if t, u, v, ok := b.tris[i].intersect(r, tMin, tMax); ok {
					tMax = t
					best = hit{t: t, u: u, v: v, tri: &b.tris[i]}
					found = true
				}
			}
			continue
		}
		stack[sp] = node.left
		stack[sp+1] = node.right
		sp += 2
	}
	return best, found
}

// occluded reports whether anything lies on the ray in (tMin, tMax).
func (b *bvh) occluded(r *ray, tMin, tMax float32) bool {
	_, ok := b.intersect(r, tMin, tMax)
	return ok
}
