package meshing

import (
	"image/color"
	"testing"

	"voxtrace/internal/volume"

	"github.com/stretchr/testify/require"
)

func quadVertices(colors ...color.RGBA) []volume.Vertex {
	verts := make([]volume.Vertex, 0, len(colors)*4)
	for i, c := range colors {
		base := float32(i)
		verts = append(verts,
			volume.Vertex{Pos: [3]float32{base, 0, 0}, Color: c},
			// later corners carry a different color that must never be used
			volume.Vertex{Pos: [3]float32{base + 1, 0, 0}, Color: color.RGBA{R: 1, A: 255}},
			volume.Vertex{Pos: [3]float32{base + 1, 1, 0}, Color: color.RGBA{G: 1, A: 255}},
			volume.Vertex{Pos: [3]float32{base, 1, 0}, Color: color.RGBA{B: 1, A: 255}},
		)
	}
	return verts
}

func TestAssembleZeroQuads(t *testing.T) {
	require.Nil(t, Assemble(0, nil))
}

func TestAssembleCounts(t *testing.T) {
	colors := []color.RGBA{
		{R: 200, A: 255},
		{G: 200, A: 255},
		{B: 200, A: 255},
	}
	nb := len(colors)
	m := Assemble(nb, quadVertices(colors...))

	require.Equal(t, nb*4, m.VertexCount())
	require.Equal(t, nb*4, cap(m.Vertices))
	require.Equal(t, nb*2, m.TriangleCount())
	require.Equal(t, nb*2, cap(m.Triangles))

	attr := m.Attribute(AttrColor)
	require.NotNil(t, attr)
	require.Equal(t, ElementCornerByte, attr.Element)
	require.Len(t, attr.Data, nb*6)
	for k := range nb * 6 {
		require.Equal(t, colors[k/6], attr.Data[k], "corner %d", k)
	}
}

func TestAssembleTriangleOrder(t *testing.T) {
	m := Assemble(2, quadVertices(color.RGBA{A: 255}, color.RGBA{A: 255}))

	require.Equal(t, []Triangle{
		{V: [3]int{0, 1, 2}},
		{V: [3]int{2, 3, 0}},
		{V: [3]int{4, 5, 6}},
		{V: [3]int{6, 7, 4}},
	}, m.Triangles)
	for _, tri := range m.Triangles {
		require.False(t, tri.Smooth)
	}
}

// singleFace yields one top face for the block at the origin.
type singleFace struct {
	color color.RGBA
}

func (s singleFace) GenerateQuads(pos volume.BlockPos, lod int, out []volume.Vertex) int {
	if pos != (volume.BlockPos{}) {
		return 0
	}
	corners := [4][3]float32{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}}
	for i, c := range corners {
		out[i] = volume.Vertex{Pos: c, Color: s.color}
	}
	return 1
}

func TestBuildBlockMeshSingleFace(t *testing.T) {
	face := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	staging, err := NewStaging(nil)
	require.NoError(t, err)

	m, nb := BuildBlockMesh(singleFace{color: face}, volume.BlockPos{}, staging)
	require.Equal(t, 1, nb)
	require.Equal(t, 4, m.VertexCount())
	require.Equal(t, 2, m.TriangleCount())

	attr := m.Attribute(AttrColor)
	require.Len(t, attr.Data, 6)
	for _, c := range attr.Data {
		require.Equal(t, face, c)
	}
}

func TestBuildBlockMeshSingleVoxel(t *testing.T) {
	v := volume.New()
	v.Set(4, 4, 4, color.RGBA{R: 255, A: 255})
	staging, err := NewStaging(nil)
	require.NoError(t, err)

	m, nb := BuildBlockMesh(v, volume.BlockPos{}, staging)
	require.Equal(t, 6, nb)
	require.Equal(t, 24, m.VertexCount())
	require.Equal(t, 12, m.TriangleCount())
	require.Len(t, m.Attribute(AttrColor).Data, 36)
}

func TestBuildBlockMeshEmpty(t *testing.T) {
	staging, err := NewStaging(nil)
	require.NoError(t, err)

	m, nb := BuildBlockMesh(volume.New(), volume.BlockPos{}, staging)
	require.Nil(t, m)
	require.Zero(t, nb)
}

func BenchmarkAssembleFullSurface(b *testing.B) {
	v := volume.New()
	v.Fill(0, 0, 0, volume.BlockSize-1, 0, volume.BlockSize-1, color.RGBA{G: 255, A: 255})
	staging, err := NewStaging(nil)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = BuildBlockMesh(v, volume.BlockPos{}, staging)
	}
}
