package scene

import (
	"testing"

	"github.com/stretchr/testify/require"

	"voxtrace/internal/meshing"
)

func TestSurfaceShaderGraph(t *testing.T) {
	s := SurfaceShader()
	g := s.Graph

	surface, ok := g.Input(g.Output(), "Surface")
	require.True(t, ok)
	require.Equal(t, NodeDiffuseBSDF, surface.From.Type)

	color, ok := g.Input(surface.From, "Color")
	require.True(t, ok)
	require.Equal(t, NodeAttribute, color.From.Type)
	require.Equal(t, meshing.AttrColor, color.From.Inputs["attribute"])
}

func TestLightShaderGraph(t *testing.T) {
	g := LightShader().Graph

	surface, ok := g.Input(g.Output(), "Surface")
	require.True(t, ok)
	require.Equal(t, NodeEmission, surface.From.Type)
	require.Equal(t, float32(1), surface.From.Inputs["strength"])
}
