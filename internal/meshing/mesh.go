package meshing

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// AttrColor is the name of the per-corner color attribute read by the
// surface shader.
const AttrColor = "Col"

// AttributeElement describes what an attribute is indexed by.
type AttributeElement uint8

const (
	// ElementVertex attributes hold one value per mesh vertex.
	ElementVertex AttributeElement = iota

	// ElementCornerByte attributes hold one 8-bit RGBA value per triangle
	// corner, so adjacent triangles never share or interpolate a value.
	ElementCornerByte
)

// Attribute is a named color attribute attached to a mesh.
type Attribute struct {
	Name    string
	Element AttributeElement
	Data    []color.RGBA
}

// Triangle indexes three mesh vertices. Shader indexes Mesh.UsedShaders.
type Triangle struct {
	V      [3]int
	Shader int
	Smooth bool
}

// Mesh is a renderer-native triangle mesh: a vertex buffer, a triangle index
// buffer and named attributes.
type Mesh struct {
	Vertices   []mgl32.Vec3
	Triangles  []Triangle
	Attributes []*Attribute

	// UsedShaders holds scene shader indices referenced by Triangle.Shader.
	UsedShaders []int
}

// ReserveMesh allocates room for exactly nv vertices and nt triangles.
func (m *Mesh) ReserveMesh(nv, nt int) {
	m.Vertices = make([]mgl32.Vec3, 0, nv)
	m.Triangles = make([]Triangle, 0, nt)
}

// AddVertex appends a vertex.
func (m *Mesh) AddVertex(p mgl32.Vec3) {
	m.Vertices = append(m.Vertices, p)
}

// AddTriangle appends a triangle referencing existing vertices.
func (m *Mesh) AddTriangle(v0, v1, v2, shader int, smooth bool) {
	m.Triangles = append(m.Triangles, Triangle{V: [3]int{v0, v1, v2}, Shader: shader, Smooth: smooth})
}

// AddAttribute creates an attribute sized for the current geometry.
func (m *Mesh) AddAttribute(name string, elem AttributeElement) *Attribute {
	n := len(m.Vertices)
	if elem == ElementCornerByte {
		n = len(m.Triangles) * 3
	}
	attr := &Attribute{Name: name, Element: elem, Data: make([]color.RGBA, n)}
	m.Attributes = append(m.Attributes, attr)
	return attr
}

// Attribute returns the attribute with the given name, or nil.
func (m *Mesh) Attribute(name string) *Attribute {
	for _, a := range m.Attributes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}
