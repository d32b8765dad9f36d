package cpu

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxtrace/internal/scene"
)

type programKind uint8

const (
	programDiffuse programKind = iota
	programEmission
)

// program is a shader graph reduced to what the tracer evaluates.
type program struct {
	kind programKind
	// attr names the mesh attribute feeding the diffuse color, if any
	attr     string
	color    mgl32.Vec3
	emission mgl32.Vec3
}

var defaultAlbedo = mgl32.Vec3{0.8, 0.8, 0.8}

func compileShader(s *scene.Shader) program {
	if s == nil || s.Graph == nil {
		return program{kind: programDiffuse, color: defaultAlbedo}
	}
	g := s.Graph
	surface, ok := g.Input(g.Output(), "Surface")
	if !ok {
		return program{kind: programDiffuse, color: defaultAlbedo}
	}

	node := surface.From
	switch node.Type {
	case scene.NodeEmission:
		strength := float32(1)
		if v, ok := node.Inputs["strength"].(float32); ok {
			strength = v
		}
		color := mgl32.Vec3{1, 1, 1}
		if v, ok := node.Inputs["color"].(mgl32.Vec3); ok {
			color = v
		}
		return program{kind: programEmission, emission: color.Mul(strength)}
	default:
		p := program{kind: programDiffuse, color: defaultAlbedo}
		if link, ok := g.Input(node, "Color"); ok && link.From.Type == scene.NodeAttribute {
			p.attr, _ = link.From.Inputs["attribute"].(string)
		} else if v, ok := node.Inputs["Color"].(mgl32.Vec3); ok {
			p.color = v
		}
		return p
	}
}
