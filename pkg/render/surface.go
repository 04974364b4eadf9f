// Package render defines the drawing primitives the scene composer needs,
// independent of the graphics backend. Backends live in sub-packages:
// render/ebiten draws into a window, render/term draws into a terminal, and
// Recorder keeps a log of calls for headless runs and tests.
package render

import (
	"image"
	"image/color"
)

// Image is a drawable image handle created by a Backend.
type Image interface {
	// Size returns the image size in pixels.
	Size() (width, height int)
}

// Backend converts decoded images into backend-specific handles.
type Backend interface {
	NewImage(src image.Image) Image
}

// RectStyle describes a stroked-and-filled rectangle.
type RectStyle struct {
	Stroke      color.Color
	StrokeWidth float64
	Fill        color.Color
	// Opacity applies to both stroke and fill (0..1).
	Opacity float64
}

// Surface is the 2D drawing surface a frame is rendered into.
//
// Translate shifts all subsequent drawing horizontally by dx. Callers must
// revert every shift with Translate(-dx) before drawing the next layer; use
// WithShift to keep the pair together.
type Surface interface {
	Translate(dx float64)
	DrawImage(img Image, x, y float64)
	StrokeFillRect(x, y, w, h float64, style RectStyle)
}

// WithShift applies a horizontal shift, runs draw, and reverts the shift.
func WithShift(s Surface, dx float64, draw func()) {
	s.Translate(dx)
	defer s.Translate(-dx)
	draw()
}
