package volume

// IterMode selects which block positions Iterate yields.
type IterMode uint8

const (
	// IterBlocks yields every allocated block.
	IterBlocks IterMode = 1 << iota

	// IterIncludesNeighbors also yields the six face neighbours of every
	// allocated block, since a voxel change can expose faces across a block
	// border.
	IterIncludesNeighbors
)

// Iterate returns block positions in deterministic z, y, x order. Each
// position is yielded once.
func (v *Volume) Iterate(mode IterMode) []BlockPos {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if mode&IterIncludesNeighbors == 0 {
		if mode&IterBlocks == 0 {
			return nil
		}
		return v.sortedPositions()
	}

	seen := make(map[BlockPos]struct{}, len(v.blocks)*7)
	for p := range v.blocks {
		seen[p] = struct{}{}
		for _, d := range faceDirs {
			seen[p.Neighbor(d[0], d[1], d[2])] = struct{}{}
		}
	}
	positions := make([]BlockPos, 0, len(seen))
	for p := range seen {
		positions = append(positions, p)
	}
	sortPositions(positions)
	return positions
}
