package scene

import (
	"context"
	"fmt"
	"image/color"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"

	"voxtrace/internal/meshing"
	"voxtrace/internal/volume"
)

func testInput(v Volume) Input {
	return Input{
		Volume: v,
		View:   View{Rotation: mgl32.QuatIdent(), Distance: 50},
		Light:  LightAngles{Yaw: 0.5, Pitch: 0.3},
		Width:  320,
		Height: 240,
	}
}

func TestBuildEmptyVolume(t *testing.T) {
	var rec Recorder
	stats, err := (&Builder{}).Build(context.Background(), &rec, testInput(volume.New()))
	require.NoError(t, err)

	require.Zero(t, stats.Objects)
	require.Empty(t, rec.Objects)
	require.Empty(t, rec.Meshes)
	require.Len(t, rec.Shaders, 2)
	require.Len(t, rec.Lights, 1)
	require.NotNil(t, rec.Camera)
}

func TestBuildSharesShaders(t *testing.T) {
	v := volume.New()
	v.Set(0, 0, 0, color.RGBA{R: 255, A: 255})
	v.Set(40, 0, 0, color.RGBA{G: 255, A: 255})

	var rec Recorder
	stats, err := (&Builder{}).Build(context.Background(), &rec, testInput(v))
	require.NoError(t, err)

	require.Equal(t, 2, stats.Objects)
	require.Equal(t, 12, stats.Quads)
	require.Len(t, rec.Shaders, 2)
	require.Equal(t, "cubeShader", rec.Shaders[0].Name)
	require.Equal(t, "lightShader", rec.Shaders[1].Name)
	for _, m := range rec.Meshes {
		require.Equal(t, []int{0}, m.UsedShaders)
	}
	require.Equal(t, 1, rec.Lights[0].Shader)
}

func TestBuildSkipsEmptyBlocks(t *testing.T) {
	v := volume.New()
	v.Set(1, 1, 1, color.RGBA{B: 255, A: 255})

	var rec Recorder
	stats, err := (&Builder{}).Build(context.Background(), &rec, testInput(v))
	require.NoError(t, err)

	// the block and its six neighbours are visited, only one has faces
	require.Equal(t, 7, stats.Blocks)
	require.Len(t, rec.Objects, 1)
	require.Len(t, rec.Meshes, 1)
}

func TestBuildPlacesObjectsAtBlockOrigin(t *testing.T) {
	v := volume.New()
	v.Set(-5, 20, 33, color.RGBA{R: 255, A: 255})

	var rec Recorder
	_, err := (&Builder{}).Build(context.Background(), &rec, testInput(v))
	require.NoError(t, err)

	require.Len(t, rec.Objects, 1)
	o := rec.Objects[0]
	require.Equal(t, "mesh", o.Name)
	require.Equal(t, mgl32.Translate3D(-16, 16, 32), o.Transform)
	require.Same(t, rec.Meshes[o.Mesh], rec.Meshes[0])
}

func TestBuildCameraAndLight(t *testing.T) {
	in := testInput(volume.New())

	var rec Recorder
	_, err := (&Builder{}).Build(context.Background(), &rec, in)
	require.NoError(t, err)

	require.Equal(t, in.Width, rec.Camera.Width)
	require.Equal(t, in.Height, rec.Camera.Height)
	require.Equal(t, CameraMatrix(in.View), rec.Camera.Matrix)
	require.Equal(t, LightDistant, rec.Lights[0].Type)
	require.Equal(t, LightDirection(in.Light), rec.Lights[0].Dir)
}

func TestBuildAllocationFailure(t *testing.T) {
	v := volume.New()
	v.Set(0, 0, 0, color.RGBA{A: 255})

	b := &Builder{Alloc: func(n int) ([]volume.Vertex, error) {
		return nil, fmt.Errorf("no memory")
	}}
	var rec Recorder
	_, err := b.Build(context.Background(), &rec, testInput(v))
	require.True(t, errors.IsType(err, meshing.ErrTypeAllocation))
}

func TestBuildWithPoolMatchesSequential(t *testing.T) {
	v := volume.New()
	volume.NewGenerator(11).Populate(v, 24)

	pool := meshing.NewWorkerPool(3, 16, nil)
	defer pool.Shutdown()

	var seq, par Recorder
	seqStats, err := (&Builder{}).Build(context.Background(), &seq, testInput(v))
	require.NoError(t, err)
	parStats, err := (&Builder{Pool: pool}).Build(context.Background(), &par, testInput(v))
	require.NoError(t, err)

	require.Equal(t, seqStats, parStats)
	require.Equal(t, seq.Objects, par.Objects)
	require.Equal(t, seq.Meshes, par.Meshes)
}
