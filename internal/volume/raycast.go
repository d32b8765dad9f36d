package volume

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"voxtrace/internal/profiling"
)

const raycastStep = float32(0.02)

// RaycastResult stores the result of a raycast operation
type RaycastResult struct {
	HitPosition      [3]int
	AdjacentPosition [3]int
	Distance         float32
	Hit              bool
}

// Raycast marches from start along direction and reports the first
// non-empty voxel between minDist and maxDist. Voxel (x, y, z) spans
// [x, x+1) on each axis. AdjacentPosition is the last empty voxel visited.
func (v *Volume) Raycast(start, direction mgl32.Vec3, minDist, maxDist float32) RaycastResult {
	defer profiling.Track("volume.Raycast")()

	direction = direction.Normalize()
	steps := int(maxDist / raycastStep)

	v.mu.RLock()
	defer v.mu.RUnlock()

	var result RaycastResult
	lastEmpty := cellAt(start)
	for i := 0; i <= steps; i++ {
		dist := float32(i) * raycastStep
		if dist < minDist {
			continue
		}

		cell := cellAt(start.Add(direction.Mul(dist)))
		if v.get(cell[0], cell[1], cell[2]).A != 0 {
			result.HitPosition = cell
			result.AdjacentPosition = lastEmpty
			result.Distance = dist
			result.Hit = true
			return result
		}
		lastEmpty = cell
	}
	return result
}

func cellAt(p mgl32.Vec3) [3]int {
	return [3]int{
		int(math.Floor(float64(p.X()))),
		int(math.Floor(float64(p.Y()))),
		int(math.Floor(float64(p.Z()))),
	}
}
