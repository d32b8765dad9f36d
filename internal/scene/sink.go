package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"voxtrace/internal/meshing"
)

// Object places a mesh in the world. Mesh indexes the scene meshes.
type Object struct {
	Name      string
	Mesh      int
	Transform mgl32.Mat4
}

// Sink receives the parts of a scene. Engines implement it with their
// native scene type.
type Sink interface {
	AddShader(s *Shader) int
	AddMesh(m *meshing.Mesh) int
	AddObject(o *Object)
	SetCamera(c *Camera)
	SetLight(l *Light)
}

// Recorder is a Sink that keeps everything it receives.
type Recorder struct {
	Shaders []*Shader
	Meshes  []*meshing.Mesh
	Objects []*Object
	Camera  *Camera
	Lights  []*Light
}

var _ Sink = (*Recorder)(nil)

// AddShader records a shader and returns its index.
func (r *Recorder) AddShader(s *Shader) int {
	r.Shaders = append(r.Shaders, s)
	return len(r.Shaders) - 1
}

// AddMesh records a mesh and returns its index.
func (r *Recorder) AddMesh(m *meshing.Mesh) int {
	r.Meshes = append(r.Meshes, m)
	return len(r.Meshes) - 1
}

// AddObject records an object.
func (r *Recorder) AddObject(o *Object) {
	r.Objects = append(r.Objects, o)
}

// SetCamera records the camera, replacing any previous one.
func (r *Recorder) SetCamera(c *Camera) {
	r.Camera = c
}

// SetLight records a light.
func (r *Recorder) SetLight(l *Light) {
	r.Lights = append(r.Lights, l)
}

// Shader returns the shader at index i, or nil when out of range.
func (r *Recorder) Shader(i int) *Shader {
	if i < 0 || i >= len(r.Shaders) {
		return nil
	}
	return r.Shaders[i]
}
