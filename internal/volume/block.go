package volume

import (
	"hash/crc64"
	"image/color"
)

const (
	// BlockSize is the edge length of a cubic block, in voxels.
	BlockSize = 16

	// BlockVolume is the number of voxels in one block.
	BlockVolume = BlockSize * BlockSize * BlockSize
)

var crcTable = crc64.MakeTable(crc64.ECMA)

// BlockPos is the origin of a block in voxel coordinates. Every component is a
// multiple of BlockSize.
type BlockPos struct {
	X, Y, Z int
}

// Neighbor returns the position of the adjacent block along the given axis offsets.
func (p BlockPos) Neighbor(dx, dy, dz int) BlockPos {
	return BlockPos{X: p.X + dx*BlockSize, Y: p.Y + dy*BlockSize, Z: p.Z + dz*BlockSize}
}

// Block holds the voxels of one BlockSize^3 partition. A voxel with zero alpha
// is empty.
type Block struct {
	voxels [BlockVolume]color.RGBA
	count  int

	// crc of the voxel bytes, recomputed lazily after writes
	hash  uint64
	dirty bool
}

func newBlock() *Block {
	return &Block{dirty: true}
}

// indexInBlock converts local block coordinates to a flat index.
func indexInBlock(x, y, z int) int {
	return (z*BlockSize+y)*BlockSize + x
}

func (b *Block) get(x, y, z int) color.RGBA {
	return b.voxels[indexInBlock(x, y, z)]
}

// set stores c and reports whether the voxel changed.
func (b *Block) set(x, y, z int, c color.RGBA) bool {
	if c.A == 0 {
		c = color.RGBA{}
	}
	idx := indexInBlock(x, y, z)
	old := b.voxels[idx]
	if old == c {
		return false
	}
	switch {
	case old.A == 0 && c.A != 0:
		b.count++
	case old.A != 0 && c.A == 0:
		b.count--
	}
	b.voxels[idx] = c
	b.dirty = true
	return true
}

// Count returns the number of non-empty voxels in the block.
func (b *Block) Count() int {
	return b.count
}

// contentHash returns the crc64 of the voxel data.
func (b *Block) contentHash() uint64 {
	if !b.dirty {
		return b.hash
	}
	buf := make([]byte, 0, BlockVolume*4)
	for _, v := range b.voxels {
		buf = append(buf, v.R, v.G, v.B, v.A)
	}
	b.hash = crc64.Checksum(buf, crcTable)
	b.dirty = false
	return b.hash
}
