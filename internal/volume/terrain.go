package volume

import (
	"image/color"
	"math"
)

// Palette used by the terrain generator.
var (
	ColorGrass = color.RGBA{R: 96, G: 160, B: 64, A: 255}
	ColorDirt  = color.RGBA{R: 134, G: 96, B: 67, A: 255}
	ColorStone = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	ColorSnow  = color.RGBA{R: 240, G: 240, B: 245, A: 255}
	ColorWater = color.RGBA{R: 64, G: 96, B: 200, A: 255}
)

// Generator fills a volume with a heightmap terrain.
type Generator struct {
	seed        int64
	scale       float64
	baseHeight  int
	amp         float64
	octaves     int
	persistence float64
	lacunarity  float64
	waterLevel  int
}

// NewGenerator creates a generator with default settings.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		seed:        seed,
		scale:       1.0 / 24.0,
		baseHeight:  2,
		amp:         14,
		octaves:     4,
		persistence: 0.5,
		lacunarity:  2.0,
		waterLevel:  5,
	}
}

// HeightAt computes the surface height at voxel column (x, z).
func (g *Generator) HeightAt(x, z int) int {
	n := octaveNoise2D(float64(x)*g.scale, float64(z)*g.scale, g.seed, g.octaves, g.persistence, g.lacunarity)
	h := float64(g.baseHeight) + n*g.amp
	if h < 0 {
		h = 0
	}
	return int(math.Floor(h))
}

// Populate fills the square of columns centered on the origin with the given
// half extent.
func (g *Generator) Populate(v *Volume, halfExtent int) {
	for x := -halfExtent; x < halfExtent; x++ {
		for z := -halfExtent; z < halfExtent; z++ {
			top := g.HeightAt(x, z)
			for y := 0; y <= top; y++ {
				v.Set(x, y, z, g.colorAt(y, top))
			}
			for y := top + 1; y <= g.waterLevel; y++ {
				v.Set(x, y, z, ColorWater)
			}
		}
	}
}

func (g *Generator) colorAt(y, top int) color.RGBA {
	switch {
	case y == top && top >= g.baseHeight+12:
		return ColorSnow
	case y == top:
		return ColorGrass
	case y >= top-2:
		return ColorDirt
	default:
		return ColorStone
	}
}

// SplitMix64 style lattice hash, stable for the same inputs.
func hash2(x, z, seed int64) uint64 {
	v := uint64(x) + (uint64(z) << 1) + uint64(seed)*0x9E3779B97F4A7C15
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	return v ^ (v >> 31)
}

func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func valueNoise2D(x, z float64, seed int64) float64 {
	x0, z0 := math.Floor(x), math.Floor(z)
	fx, fz := fade(x-x0), fade(z-z0)

	lattice := func(ix, iz float64) float64 {
		return float64(hash2(int64(ix), int64(iz), seed)&0xFFFFFFFF) / float64(0xFFFFFFFF)
	}
	i0 := lerp(lattice(x0, z0), lattice(x0+1, z0), fx)
	i1 := lerp(lattice(x0, z0+1), lattice(x0+1, z0+1), fx)
	return lerp(i0, i1, fz)
}

// octaveNoise2D returns fractal value noise in [0,1].
func octaveNoise2D(x, z float64, seed int64, octaves int, persistence, lacunarity float64) float64 {
	amplitude, frequency := 1.0, 1.0
	sum, norm := 0.0, 0.0
	for i := range octaves {
		sum += valueNoise2D(x*frequency, z*frequency, seed+int64(i*131)) * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}
