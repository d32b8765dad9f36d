// Package graphics presents the path-traced image in the GL window.
package graphics

import (
	"image"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"voxtrace/internal/engine"
	"voxtrace/internal/rendercache"
)

// Display sets up the viewport for each frame and blits the accumulated
// image of the render session into it.
type Display struct {
	blit    *blitter
	texture *Texture
	overlay *StatusOverlay

	rect rendercache.Rect
	proj mgl32.Mat4
}

var (
	_ rendercache.Presenter = (*Display)(nil)
	_ engine.DrawTarget     = (*Display)(nil)
)

// NewDisplay returns a display; GL objects are created by Init.
func NewDisplay() *Display {
	return &Display{proj: mgl32.Ident4()}
}

// Init creates the GL resources. It needs a current GL context.
func (d *Display) Init() error {
	b, err := newBlitter()
	if err != nil {
		return err
	}
	d.blit = b
	d.texture = newTexture()
	d.overlay = newStatusOverlay()
	return nil
}

// Setup sets the viewport to rect and keeps the presentation transform.
func (d *Display) Setup(rect rendercache.Rect, proj mgl32.Mat4) {
	d.rect = rect
	d.proj = proj

	gl.Viewport(int32(rect.X), int32(rect.Y), int32(rect.Width), int32(rect.Height))
	gl.Disable(gl.DEPTH_TEST)
	gl.UseProgram(0)
	gl.ClearColor(0.1, 0.1, 0.1, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// DrawImage uploads img and stretches it over the viewport. Row 0 of img
// is the bottom of the picture.
func (d *Display) DrawImage(img *image.RGBA, width, height int) {
	if d.blit == nil || width == 0 || height == 0 {
		return
	}
	d.texture.Upload(img)
	d.blit.draw(d.texture, d.proj, 0, 0, float32(d.rect.Width), float32(d.rect.Height), false)
}

// DrawStatus renders the progress text in the top left corner.
func (d *Display) DrawStatus(p engine.Progress) {
	if d.blit == nil {
		return
	}
	text := strings.TrimSpace(p.Status + "  " + p.Substatus)
	img := d.overlay.Rasterize(text)
	if img == nil {
		return
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	d.overlay.texture.Upload(img)
	d.blit.draw(d.overlay.texture, d.proj, 8, float32(d.rect.Height-h-8), float32(w), float32(h), true)
	gl.Disable(gl.BLEND)
}

// Dispose releases the GL resources.
func (d *Display) Dispose() {
	if d.blit == nil {
		return
	}
	d.overlay.dispose()
	d.texture.Delete()
	d.blit.dispose()
	d.blit = nil
}
