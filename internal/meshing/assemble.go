package meshing

import (
	"image/color"

	"voxtrace/internal/volume"

	"github.com/go-gl/mathgl/mgl32"
)

// QuadSource produces the visible quads of a block.
type QuadSource interface {
	GenerateQuads(pos volume.BlockPos, lod int, out []volume.Vertex) int
}

// Assemble converts nb quads (4 vertices each in verts) into a triangle mesh.
// Each quad becomes two flat triangles (4i, 4i+1, 4i+2) and (4i+2, 4i+3, 4i),
// and every corner of both triangles takes the color of the quad's first
// vertex. Zero quads yield a nil mesh.
func Assemble(nb int, verts []volume.Vertex) *Mesh {
	if nb == 0 {
		return nil
	}

	m := &Mesh{}
	m.ReserveMesh(nb*4, nb*2)
	for i := range nb {
		for j := range 4 {
			m.AddVertex(mgl32.Vec3(verts[i*4+j].Pos))
		}
		m.AddTriangle(i*4+0, i*4+1, i*4+2, 0, false)
		m.AddTriangle(i*4+2, i*4+3, i*4+0, 0, false)
	}

	attr := m.AddAttribute(AttrColor, ElementCornerByte)
	for k := range nb * 6 {
		c := verts[k/6*4].Color
		attr.Data[k] = color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
	}
	return m
}

// BuildBlockMesh generates the quads of one block into staging and assembles
// them. It returns nil and 0 for blocks without visible faces.
func BuildBlockMesh(src QuadSource, pos volume.BlockPos, staging *Staging) (*Mesh, int) {
	nb := src.GenerateQuads(pos, 0, staging.Vertices)
	return Assemble(nb, staging.Vertices), nb
}
