package main

import (
	"image/color"
	"math"
	"math/rand/v2"

	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/glfw/v3.3/glfw"

	"voxtrace/internal/camera"
	"voxtrace/internal/rendercache"
	"voxtrace/internal/volume"
)

const (
	lightStep = 0.05
	maxPaint  = 255
)

var paintColors = []color.RGBA{
	{R: 220, G: 60, B: 60, A: 255},
	{R: 240, G: 200, B: 60, A: 255},
	{R: 60, G: 120, B: 220, A: 255},
	{R: 230, G: 230, B: 230, A: 255},
}

func setupInputHandlers(window *glfw.Window, orbit *camera.Orbit, vol *volume.Volume, cache *rendercache.RenderCache) {
	var panning bool
	var lastX, lastY float64

	window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		switch button {
		case glfw.MouseButtonLeft:
			orbit.HandleMouseButton(action == glfw.Press)
		case glfw.MouseButtonRight:
			panning = action == glfw.Press
			lastX, lastY = w.GetCursorPos()
		}
	})

	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		orbit.HandleMouseMovement(xpos, ypos)
		if panning {
			orbit.Pan(float32(xpos-lastX), float32(ypos-lastY))
			lastX, lastY = xpos, ypos
		}
	})

	window.SetScrollCallback(func(w *glfw.Window, xoff, yoff float64) {
		orbit.HandleScroll(yoff)
	})

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action == glfw.Release {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyLeft:
			orbit.RotateLight(-lightStep, 0)
		case glfw.KeyRight:
			orbit.RotateLight(lightStep, 0)
		case glfw.KeyUp:
			orbit.RotateLight(0, lightStep)
		case glfw.KeyDown:
			orbit.RotateLight(0, -lightStep)
		case glfw.KeySpace:
			if action == glfw.Press {
				paintAtCursor(w, orbit, vol)
			}
		case glfw.KeyBackspace, glfw.KeyDelete:
			if action == glfw.Press {
				eraseAtCursor(w, orbit, vol)
			}
		case glfw.KeyR:
			if action == glfw.Press {
				cache.Close()
			}
		}
	})
}

func cursorHit(w *glfw.Window, orbit *camera.Orbit, vol *volume.Volume) (volume.RaycastResult, bool) {
	x, y := w.GetCursorPos()
	width, height := w.GetSize()
	origin, dir, err := orbit.CursorRay(x, y, width, height)
	if err != nil {
		return volume.RaycastResult{}, false
	}
	r := vol.Raycast(origin, dir, orbit.NearPlane, orbit.Distance*4)
	return r, r.Hit
}

// paintAtCursor places a voxel in front of the face under the cursor, or on
// top of the column under the orbit target when the cursor hits nothing.
func paintAtCursor(w *glfw.Window, orbit *camera.Orbit, vol *volume.Volume) {
	if r, ok := cursorHit(w, orbit, vol); ok {
		p := r.AdjacentPosition
		paint(vol, p[0], p[1], p[2])
		return
	}
	paintAtTarget(orbit, vol)
}

func eraseAtCursor(w *glfw.Window, orbit *camera.Orbit, vol *volume.Volume) {
	r, ok := cursorHit(w, orbit, vol)
	if !ok {
		return
	}
	p := r.HitPosition
	vol.Set(p[0], p[1], p[2], color.RGBA{})
	logs.WithTag("x", p[0]).
		WithTag("y", p[1]).
		WithTag("z", p[2]).
		Debug("voxel erased")
}

func paintAtTarget(orbit *camera.Orbit, vol *volume.Volume) {
	x := int(math.Floor(float64(orbit.Target.X())))
	z := int(math.Floor(float64(orbit.Target.Z())))

	y := maxPaint
	for y >= 0 && vol.IsEmpty(x, y, z) {
		y--
	}
	y++
	if y > maxPaint {
		return
	}

	paint(vol, x, y, z)
}

func paint(vol *volume.Volume, x, y, z int) {
	c := paintColors[rand.IntN(len(paintColors))]
	vol.Set(x, y, z, c)
	logs.WithTag("x", x).
		WithTag("y", y).
		WithTag("z", z).
		Debug("voxel painted")
}
