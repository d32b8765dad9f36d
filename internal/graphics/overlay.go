package graphics

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const overlayPadding = 4

// StatusOverlay rasterizes one line of status text. The texture is created
// lazily so Rasterize works without a GL context.
type StatusOverlay struct {
	face    font.Face
	last    string
	img     *image.RGBA
	texture *Texture
}

func newStatusOverlay() *StatusOverlay {
	o := NewStatusOverlay()
	o.texture = newTexture()
	return o
}

// NewStatusOverlay returns an overlay using the 7x13 bitmap font.
func NewStatusOverlay() *StatusOverlay {
	return &StatusOverlay{face: basicfont.Face7x13}
}

// Rasterize draws text in white on a translucent dark box, top row first.
// It returns nil for empty text and reuses the previous image when the
// text is unchanged.
func (o *StatusOverlay) Rasterize(text string) *image.RGBA {
	if text == "" {
		return nil
	}
	if text == o.last && o.img != nil {
		return o.img
	}

	metrics := o.face.Metrics()
	width := font.MeasureString(o.face, text).Ceil() + 2*overlayPadding
	height := metrics.Height.Ceil() + 2*overlayPadding

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{A: 160}), image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: o.face,
		Dot:  fixed.P(overlayPadding, overlayPadding+metrics.Ascent.Ceil()),
	}
	d.DrawString(text)

	o.last = text
	o.img = img
	return img
}

func (o *StatusOverlay) dispose() {
	if o.texture != nil {
		o.texture.Delete()
	}
}
