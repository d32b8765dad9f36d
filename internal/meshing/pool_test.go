package meshing

import (
	"context"
	"image/color"
	"testing"

	"voxtrace/internal/volume"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestBuildAllMatchesSequential(t *testing.T) {
	v := volume.New()
	volume.NewGenerator(3).Populate(v, 20)
	positions := v.Iterate(volume.IterBlocks | volume.IterIncludesNeighbors)

	pool := NewWorkerPool(4, 8, nil)
	defer pool.Shutdown()

	results, err := pool.BuildAll(context.Background(), v, positions)
	require.NoError(t, err)
	require.Len(t, results, len(positions))

	staging, err := NewStaging(nil)
	require.NoError(t, err)
	for i, pos := range positions {
		want, nb := BuildBlockMesh(v, pos, staging)
		require.Equal(t, pos, results[i].Pos)
		require.Equal(t, nb, results[i].Quads)
		require.Equal(t, want, results[i].Mesh)
	}
}

func TestBuildAllAllocationFailure(t *testing.T) {
	v := volume.New()
	v.Set(0, 0, 0, color.RGBA{A: 255})

	pool := NewWorkerPool(2, 4, failingAlloc)
	defer pool.Shutdown()

	_, err := pool.BuildAll(context.Background(), v, v.Iterate(volume.IterBlocks))
	require.True(t, errors.IsType(err, ErrTypeAllocation))
}

func TestBuildAllRetriesAllocationAfterFailure(t *testing.T) {
	v := volume.New()
	v.Set(0, 0, 0, color.RGBA{R: 255, A: 255})

	calls := 0
	alloc := func(n int) ([]volume.Vertex, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("out of memory")
		}
		return DefaultAlloc(n)
	}

	pool := NewWorkerPool(1, 1, alloc)
	defer pool.Shutdown()
	require.Equal(t, 1, pool.Workers())

	positions := v.Iterate(volume.IterBlocks)

	_, err := pool.BuildAll(context.Background(), v, positions)
	require.True(t, errors.IsType(err, ErrTypeAllocation))

	results, err := pool.BuildAll(context.Background(), v, positions)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, 6, results[0].Quads)
	require.NotNil(t, results[0].Mesh)
	require.Equal(t, 2, calls)

	_, err = pool.BuildAll(context.Background(), v, positions)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestBuildAllCanceled(t *testing.T) {
	v := volume.New()
	v.Set(0, 0, 0, color.RGBA{A: 255})

	pool := NewWorkerPool(1, 1, nil)
	defer pool.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pool.BuildAll(ctx, v, v.Iterate(volume.IterBlocks|volume.IterIncludesNeighbors))
	require.ErrorIs(t, err, context.Canceled)
}
