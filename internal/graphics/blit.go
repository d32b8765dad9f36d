package graphics

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

var blitVertexShader = `#version 410 core
layout(location = 0) in vec2 aPos;
uniform mat4 proj;
uniform vec4 rect;
uniform int flipY;
out vec2 uv;
void main() {
	uv = flipY == 1 ? vec2(aPos.x, 1.0 - aPos.y) : aPos;
	gl_Position = proj * vec4(rect.xy + aPos * rect.zw, 0.0, 1.0);
}
`

var blitFragmentShader = `#version 410 core
in vec2 uv;
uniform sampler2D tex;
out vec4 FragColor;
void main() {
	FragColor = texture(tex, uv);
}
`

var unitQuad = []float32{
	0, 0,
	1, 0,
	1, 1,
	0, 0,
	1, 1,
	0, 1,
}

// blitter draws textured rectangles in ortho pixel space.
type blitter struct {
	shader *Shader
	vao    uint32
	vbo    uint32
}

func newBlitter() (*blitter, error) {
	shader, err := NewShader(blitVertexShader, blitFragmentShader)
	if err != nil {
		return nil, err
	}

	b := &blitter{shader: shader}
	gl.GenVertexArrays(1, &b.vao)
	gl.GenBuffers(1, &b.vbo)

	gl.BindVertexArray(b.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(unitQuad)*4, gl.Ptr(unitQuad), gl.STATIC_DRAW)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)

	return b, nil
}

// draw renders tex into the pixel rectangle (x, y, w, h).
func (b *blitter) draw(tex *Texture, proj mgl32.Mat4, x, y, w, h float32, flipY bool) {
	b.shader.Use()
	b.shader.SetMatrix4("proj", proj)
	b.shader.SetVector4("rect", mgl32.Vec4{x, y, w, h})
	flip := int32(0)
	if flipY {
		flip = 1
	}
	b.shader.SetInt("flipY", flip)
	b.shader.SetInt("tex", 0)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, tex.ID)
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)
}

func (b *blitter) dispose() {
	gl.DeleteVertexArrays(1, &b.vao)
	gl.DeleteBuffers(1, &b.vbo)
	b.shader.Delete()
}
