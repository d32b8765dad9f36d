package cpu

import (
	"image/color"
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/go-gl/mathgl/mgl32"

	"voxtrace/internal/engine"
	"voxtrace/internal/meshing"
	"voxtrace/internal/scene"
)

// compile flattens a recorded scene into world-space triangles and builds
// the acceleration structure.
func compile(rec *scene.Recorder, background mgl32.Vec3, maxBounces int) (*world, error) {
	if rec.Camera == nil {
		return nil, errors.New("scene has no camera").WithType(engine.ErrTypeScene)
	}

	programs := make([]program, len(rec.Shaders))
	for i, s := range rec.Shaders {
		programs[i] = compileShader(s)
	}

	var tris []triangle
	for _, obj := range rec.Objects {
		if obj.Mesh < 0 || obj.Mesh >= len(rec.Meshes) {
			return nil, errors.New("object references a missing mesh").
				WithType(engine.ErrTypeScene).
				WithTag("object", obj.Name).
				WithTag("mesh", obj.Mesh)
		}
		mesh := rec.Meshes[obj.Mesh]
		if mesh == nil {
			continue
		}
		tris = appendMesh(tris, mesh, obj.Transform, programs)
	}

	w := &world{
		accel:      buildBVH(tris),
		camera:     compileCamera(rec.Camera),
		background: background,
		maxBounces: maxBounces,
	}
	for _, l := range rec.Lights {
		if l.Type != scene.LightDistant {
			continue
		}
		radiance := mgl32.Vec3{1, 1, 1}
		if l.Shader >= 0 && l.Shader < len(programs) && programs[l.Shader].kind == programEmission {
			radiance = programs[l.Shader].emission
		}
		w.lights = append(w.lights, distantLight{
			dir:      l.Dir.Normalize(),
			size:     l.Size,
			radiance: radiance,
		})
	}
	return w, nil
}

func appendMesh(tris []triangle, m *meshing.Mesh, xf mgl32.Mat4, programs []program) []triangle {
	world := make([]mgl32.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		world[i] = xf.Mul4x1(v.Vec4(1)).Vec3()
	}

	for ti, t := range m.Triangles {
		p := program{kind: programDiffuse, color: defaultAlbedo}
		if t.Shader >= 0 && t.Shader < len(m.UsedShaders) {
			if si := m.UsedShaders[t.Shader]; si >= 0 && si < len(programs) {
				p = programs[si]
			}
		}

		tri := newTriangle(world[t.V[0]], world[t.V[1]], world[t.V[2]])
		switch p.kind {
		case programEmission:
			tri.emissive = true
			tri.emission = p.emission
		default:
			attr := m.Attribute(p.attr)
			for c := range 3 {
				tri.colors[c] = cornerColor(attr, ti, c, t.V[c], p.color)
			}
		}
		tris = append(tris, tri)
	}
	return tris
}

func cornerColor(attr *meshing.Attribute, tri, corner, vertex int, fallback mgl32.Vec3) mgl32.Vec3 {
	if attr == nil {
		return fallback
	}
	idx := vertex
	if attr.Element == meshing.ElementCornerByte {
		idx = tri*3 + corner
	}
	if idx < 0 || idx >= len(attr.Data) {
		return fallback
	}
	return linearColor(attr.Data[idx])
}

// linearColor converts an sRGB byte color to linear reflectance.
func linearColor(c color.RGBA) mgl32.Vec3 {
	return mgl32.Vec3{srgbToLinear(c.R), srgbToLinear(c.G), srgbToLinear(c.B)}
}

func srgbToLinear(b uint8) float32 {
	c := float64(b) / 255
	if c <= 0.04045 {
		return float32(c / 12.92)
	}
	return float32(math.Pow((c+0.055)/1.055, 2.4))
}

func compileCamera(c *scene.Camera) compiledCamera {
	toWorld := c.Matrix.Transpose()
	halfX, halfY := c.ViewPlane()
	tanHalf := float32(math.Tan(float64(c.FOV) / 2))
	exposure := c.Exposure
	if exposure <= 0 {
		exposure = 1
	}
	return compiledCamera{
		toWorld:  toWorld,
		origin:   toWorld.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3(),
		halfX:    halfX * tanHalf,
		halfY:    halfY * tanHalf,
		exposure: exposure,
	}
}
