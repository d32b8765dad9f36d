package scene

import (
	"context"

	"github.com/go-gl/mathgl/mgl32"

	"voxtrace/internal/meshing"
	"voxtrace/internal/profiling"
	"voxtrace/internal/volume"
)

// Volume is the voxel data a scene is built from.
type Volume interface {
	Iterate(mode volume.IterMode) []volume.BlockPos
	GenerateQuads(pos volume.BlockPos, lod int, out []volume.Vertex) int
}

// Input carries the per-rebuild host state.
type Input struct {
	Volume Volume
	View   View
	Light  LightAngles
	Width  int
	Height int
}

// Stats summarizes one scene build.
type Stats struct {
	Blocks  int
	Objects int
	Quads   int
}

// Builder assembles scenes. The zero value meshes blocks sequentially with
// DefaultAlloc staging.
type Builder struct {
	// Pool meshes blocks concurrently when set.
	Pool *meshing.WorkerPool

	// Alloc allocates the sequential staging buffer.
	Alloc meshing.AllocFunc
}

// Build populates sink with one surface shader, the camera, one object per
// non-empty block and the distant light with its shader. A volume without
// blocks builds a scene without objects.
func (b *Builder) Build(ctx context.Context, sink Sink, in Input) (Stats, error) {
	defer profiling.Track("scene.Build")()

	var stats Stats

	surface := sink.AddShader(SurfaceShader())
	sink.SetCamera(NewCamera(in.Width, in.Height, in.View))

	positions := in.Volume.Iterate(volume.IterBlocks | volume.IterIncludesNeighbors)
	stats.Blocks = len(positions)

	results, err := b.meshBlocks(ctx, in.Volume, positions)
	if err != nil {
		return stats, err
	}
	for _, r := range results {
		if r.Mesh == nil {
			continue
		}
		r.Mesh.UsedShaders = append(r.Mesh.UsedShaders, surface)
		idx := sink.AddMesh(r.Mesh)
		sink.AddObject(&Object{
			Name:      "mesh",
			Mesh:      idx,
			Transform: mgl32.Translate3D(float32(r.Pos.X), float32(r.Pos.Y), float32(r.Pos.Z)),
		})
		stats.Objects++
		stats.Quads += r.Quads
	}

	lightShader := sink.AddShader(LightShader())
	sink.SetLight(NewDistantLight(in.Light, lightShader))

	return stats, nil
}

func (b *Builder) meshBlocks(ctx context.Context, v Volume, positions []volume.BlockPos) ([]meshing.MeshResult, error) {
	if len(positions) == 0 {
		return nil, nil
	}
	if b.Pool != nil {
		return b.Pool.BuildAll(ctx, v, positions)
	}

	staging, err := meshing.NewStaging(b.Alloc)
	if err != nil {
		return nil, err
	}
	results := make([]meshing.MeshResult, 0, len(positions))
	for i, pos := range positions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m, nb := meshing.BuildBlockMesh(v, pos, staging)
		results = append(results, meshing.MeshResult{Index: i, Pos: pos, Mesh: m, Quads: nb})
	}
	return results, nil
}
