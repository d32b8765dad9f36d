package rendercache

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Rect is an output rectangle in window pixels.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Presenter configures the output viewport before each frame is drawn.
type Presenter interface {
	Setup(rect Rect, proj mgl32.Mat4)
}

// Ortho returns the presentation transform for rect: one unit per pixel
// with the origin at the bottom left.
func Ortho(rect Rect) mgl32.Mat4 {
	return mgl32.Ortho(0, float32(rect.Width), 0, float32(rect.Height), -1, 1)
}

type nopPresenter struct{}

func (nopPresenter) Setup(Rect, mgl32.Mat4) {}
