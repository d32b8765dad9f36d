package volume

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

var red = color.RGBA{R: 255, A: 255}

func TestSetGet(t *testing.T) {
	v := New()
	v.Set(-1, -17, 33, red)

	require.Equal(t, red, v.Get(-1, -17, 33))
	require.True(t, v.IsEmpty(0, -17, 33))
	require.Equal(t, 1, v.BlockCount())
}

func TestSetClearRemovesBlock(t *testing.T) {
	v := New()
	v.Set(3, 3, 3, red)
	v.Set(3, 3, 3, color.RGBA{})

	require.Zero(t, v.BlockCount())
	require.True(t, v.IsEmpty(3, 3, 3))
}

func TestBlockOrigin(t *testing.T) {
	require.Equal(t, BlockPos{0, 0, 0}, BlockOrigin(0, 15, 7))
	require.Equal(t, BlockPos{-16, 16, -32}, BlockOrigin(-1, 16, -17))
}

func TestKeyStable(t *testing.T) {
	v := New()
	v.Fill(0, 0, 0, 4, 4, 4, red)

	require.Equal(t, v.Key(), v.Key())
}

func TestKeyChangesOnVoxelChange(t *testing.T) {
	v := New()
	v.Fill(0, 0, 0, 4, 4, 4, red)
	before := v.Key()

	v.Set(2, 2, 2, color.RGBA{G: 255, A: 255})
	require.NotEqual(t, before, v.Key())

	v.Set(2, 2, 2, red)
	require.Equal(t, before, v.Key())
}

func TestKeyIgnoresNoopWrite(t *testing.T) {
	v := New()
	v.Set(1, 1, 1, red)
	before := v.Key()

	v.Set(1, 1, 1, red)
	require.Equal(t, before, v.Key())
}

func TestKeySameContentSameKey(t *testing.T) {
	a := New()
	b := New()
	a.Set(40, -3, 7, red)
	b.Set(40, -3, 7, red)

	require.Equal(t, a.Key(), b.Key())
}

func TestIterateBlocks(t *testing.T) {
	v := New()
	v.Set(20, 0, 0, red)
	v.Set(0, 0, 0, red)
	v.Set(0, 0, -20, red)

	require.Equal(t, []BlockPos{
		{0, 0, -32},
		{0, 0, 0},
		{16, 0, 0},
	}, v.Iterate(IterBlocks))
}

func TestIterateIncludesNeighbors(t *testing.T) {
	v := New()
	v.Set(0, 0, 0, red)

	positions := v.Iterate(IterBlocks | IterIncludesNeighbors)
	require.Len(t, positions, 7)
	require.Contains(t, positions, BlockPos{0, 0, 0})
	require.Contains(t, positions, BlockPos{-16, 0, 0})
	require.Contains(t, positions, BlockPos{0, 0, 16})
}

func TestIterateEmptyVolume(t *testing.T) {
	v := New()
	require.Empty(t, v.Iterate(IterBlocks|IterIncludesNeighbors))
}

func TestGeneratorDeterministic(t *testing.T) {
	a := New()
	b := New()
	NewGenerator(7).Populate(a, 8)
	NewGenerator(7).Populate(b, 8)

	require.NotZero(t, a.BlockCount())
	require.Equal(t, a.Key(), b.Key())
}
