package volume

import (
	"fmt"
	"image/color"
)

const (
	// FacesPerVoxel is the number of faces a voxel can expose.
	FacesPerVoxel = 6

	// MaxQuadsPerBlock bounds the quads GenerateQuads can emit for one block:
	// every voxel present with all faces visible.
	MaxQuadsPerBlock = BlockVolume * FacesPerVoxel

	// MaxVerticesPerBlock is the vertex capacity a GenerateQuads buffer needs.
	MaxVerticesPerBlock = MaxQuadsPerBlock * 4
)

// Vertex is one corner of a quad, positioned in block-local coordinates.
type Vertex struct {
	Pos   [3]float32
	Color color.RGBA
}

// faceDirs lists the outward normal of each voxel face.
var faceDirs = [FacesPerVoxel][3]int{
	{+1, 0, 0},
	{-1, 0, 0},
	{0, +1, 0},
	{0, -1, 0},
	{0, 0, +1},
	{0, 0, -1},
}

// faceCorners holds the unit-cube corners of each face in counter-clockwise
// order seen from outside, matching faceDirs.
var faceCorners = [FacesPerVoxel][4][3]float32{
	{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 0, 1}},
	{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}},
	{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}},
	{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}},
	{{0, 0, 0}, {0, 1, 0}, {1, 1, 0}, {1, 0, 0}},
}

// GenerateQuads writes four vertices per visible voxel face of the block at pos
// into out and returns the number of quads. A face is visible when the voxel
// on its other side is empty, including voxels of neighbouring blocks.
// Positions are block-local. Only lod 0 exists; other values are treated as 0.
// out must hold at least MaxVerticesPerBlock entries.
func (v *Volume) GenerateQuads(pos BlockPos, lod int, out []Vertex) int {
	if len(out) < MaxVerticesPerBlock {
		panic(fmt.Sprintf("volume: quad buffer too small: %d < %d", len(out), MaxVerticesPerBlock))
	}
	_ = lod

	v.mu.RLock()
	defer v.mu.RUnlock()

	b := v.blocks[pos]
	if b == nil || b.count == 0 {
		return 0
	}

	nb := 0
	for z := range BlockSize {
		for y := range BlockSize {
			for x := range BlockSize {
				c := b.get(x, y, z)
				if c.A == 0 {
					continue
				}
				for f, d := range faceDirs {
					if !v.neighborEmpty(b, pos, x+d[0], y+d[1], z+d[2]) {
						continue
					}
					for i, corner := range faceCorners[f] {
						out[nb*4+i] = Vertex{
							Pos: [3]float32{
								float32(x) + corner[0],
								float32(y) + corner[1],
								float32(z) + corner[2],
							},
							Color: c,
						}
					}
					nb++
				}
			}
		}
	}
	return nb
}

// neighborEmpty checks the voxel at block-local coordinates that may fall
// outside the block. Caller must hold the read lock.
func (v *Volume) neighborEmpty(b *Block, pos BlockPos, x, y, z int) bool {
	if x >= 0 && x < BlockSize && y >= 0 && y < BlockSize && z >= 0 && z < BlockSize {
		return b.get(x, y, z).A == 0
	}
	return v.get(pos.X+x, pos.Y+y, pos.Z+z).A == 0
}
