package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxtrace/internal/meshing"
)

// Shader node types understood by engines.
const (
	NodeAttribute   = "attribute"
	NodeDiffuseBSDF = "diffuse_bsdf"
	NodeEmission    = "emission"
	NodeOutput      = "output"
)

// Node is one shader graph node with its constant inputs.
type Node struct {
	Type   string
	Name   string
	Inputs map[string]any
}

// Set assigns a constant input value.
func (n *Node) Set(input string, value any) {
	if n.Inputs == nil {
		n.Inputs = make(map[string]any)
	}
	n.Inputs[input] = value
}

// Link connects an output socket of one node to an input socket of another.
type Link struct {
	From       *Node
	FromSocket string
	To         *Node
	ToSocket   string
}

// Graph is a shader node graph with a single output node.
type Graph struct {
	Nodes []*Node
	Links []Link
	out   *Node
}

// NewGraph returns a graph that only holds its output node.
func NewGraph() *Graph {
	out := &Node{Type: NodeOutput, Name: "output"}
	return &Graph{Nodes: []*Node{out}, out: out}
}

// Output returns the graph output node.
func (g *Graph) Output() *Node {
	return g.out
}

// Add appends a node to the graph.
func (g *Graph) Add(n *Node) *Node {
	g.Nodes = append(g.Nodes, n)
	return n
}

// Connect links from.fromSocket to to.toSocket.
func (g *Graph) Connect(from *Node, fromSocket string, to *Node, toSocket string) {
	g.Links = append(g.Links, Link{From: from, FromSocket: fromSocket, To: to, ToSocket: toSocket})
}

// Input returns the link feeding the given input socket, if any.
func (g *Graph) Input(to *Node, socket string) (Link, bool) {
	for _, l := range g.Links {
		if l.To == to && l.ToSocket == socket {
			return l, true
		}
	}
	return Link{}, false
}

// Shader is a named, immutable shader graph.
type Shader struct {
	Name  string
	Graph *Graph
}

// SurfaceShader builds the flat-colored diffuse shader: the per-corner color
// attribute feeds a diffuse BSDF connected to the surface output.
func SurfaceShader() *Shader {
	g := NewGraph()

	color := g.Add(&Node{Type: NodeAttribute, Name: "colorNode"})
	color.Set("attribute", meshing.AttrColor)

	diffuse := g.Add(&Node{Type: NodeDiffuseBSDF, Name: "diffuseBSDFNode"})

	g.Connect(color, "Color", diffuse, "Color")
	g.Connect(diffuse, "BSDF", g.Output(), "Surface")

	return &Shader{Name: "cubeShader", Graph: g}
}

// LightShader builds a white emission shader of strength 1.
func LightShader() *Shader {
	g := NewGraph()

	emission := g.Add(&Node{Type: NodeEmission, Name: "emissionNode"})
	emission.Set("strength", float32(1.0))
	emission.Set("color", mgl32.Vec3{1, 1, 1})

	g.Connect(emission, "Emission", g.Output(), "Surface")

	return &Shader{Name: "lightShader", Graph: g}
}
