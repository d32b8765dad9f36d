package volume

import (
	"encoding/binary"
	"hash/crc64"
	"image/color"
	"sort"
	"sync"
)

// Volume is a sparse voxel grid partitioned into fixed-size cubic blocks.
// It is safe for concurrent readers; writers take the exclusive lock.
type Volume struct {
	mu     sync.RWMutex
	blocks map[BlockPos]*Block

	key      uint64
	keyDirty bool
}

// New returns an empty volume.
func New() *Volume {
	return &Volume{
		blocks:   make(map[BlockPos]*Block),
		keyDirty: true,
	}
}

// BlockOrigin returns the origin of the block containing the voxel (x, y, z).
func BlockOrigin(x, y, z int) BlockPos {
	return BlockPos{
		X: floorDiv(x, BlockSize) * BlockSize,
		Y: floorDiv(y, BlockSize) * BlockSize,
		Z: floorDiv(z, BlockSize) * BlockSize,
	}
}

// Get returns the color of the voxel at world coordinates, or the zero color
// when it is empty.
func (v *Volume) Get(x, y, z int) color.RGBA {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.get(x, y, z)
}

func (v *Volume) get(x, y, z int) color.RGBA {
	b := v.blocks[BlockOrigin(x, y, z)]
	if b == nil {
		return color.RGBA{}
	}
	return b.get(mod(x, BlockSize), mod(y, BlockSize), mod(z, BlockSize))
}

// IsEmpty checks whether the voxel at world coordinates is empty.
func (v *Volume) IsEmpty(x, y, z int) bool {
	return v.Get(x, y, z).A == 0
}

// Set stores a voxel color at world coordinates. A color with zero alpha clears
// the voxel.
func (v *Volume) Set(x, y, z int, c color.RGBA) {
	v.mu.Lock()
	defer v.mu.Unlock()

	pos := BlockOrigin(x, y, z)
	b := v.blocks[pos]
	if b == nil {
		if c.A == 0 {
			return
		}
		b = newBlock()
		v.blocks[pos] = b
	}
	if b.set(mod(x, BlockSize), mod(y, BlockSize), mod(z, BlockSize), c) {
		v.keyDirty = true
	}
	if b.count == 0 {
		delete(v.blocks, pos)
	}
}

// Fill sets every voxel of the inclusive box [min, max] to c.
func (v *Volume) Fill(x0, y0, z0, x1, y1, z1 int, c color.RGBA) {
	for z := z0; z <= z1; z++ {
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				v.Set(x, y, z, c)
			}
		}
	}
}

// BlockCount returns the number of allocated (non-empty) blocks.
func (v *Volume) BlockCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.blocks)
}

// Key returns a 64-bit value derived from the volume content. It changes
// whenever any voxel value changes and is restored when the content is.
func (v *Volume) Key() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.keyDirty {
		return v.key
	}

	positions := v.sortedPositions()
	buf := make([]byte, 0, len(positions)*32)
	for _, p := range positions {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(int64(p.X)))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(int64(p.Y)))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(int64(p.Z)))
		buf = binary.LittleEndian.AppendUint64(buf, v.blocks[p].contentHash())
	}
	v.key = crc64.Checksum(buf, crcTable)
	v.keyDirty = false
	return v.key
}

// sortedPositions returns block positions ordered by z, then y, then x.
// Caller must hold the lock.
func (v *Volume) sortedPositions() []BlockPos {
	positions := make([]BlockPos, 0, len(v.blocks))
	for p := range v.blocks {
		positions = append(positions, p)
	}
	sortPositions(positions)
	return positions
}

func sortPositions(positions []BlockPos) {
	sort.Slice(positions, func(i, j int) bool {
		a, b := positions[i], positions[j]
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
