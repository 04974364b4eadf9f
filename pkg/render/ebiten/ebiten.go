// Package ebiten implements the render primitives on top of Ebitengine.
package ebiten

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/junglerun/pkg/render"
)

// Backend creates Ebitengine images from decoded images.
type Backend struct{}

// NewBackend returns the Ebitengine backend.
func NewBackend() *Backend {
	return &Backend{}
}

// NewImage implements render.Backend.
func (b *Backend) NewImage(src image.Image) render.Image {
	return &Image{img: ebiten.NewImageFromImage(src)}
}

// Image wraps an *ebiten.Image.
type Image struct {
	img *ebiten.Image
}

// Size implements render.Image.
func (i *Image) Size() (int, int) {
	b := i.img.Bounds()
	return b.Dx(), b.Dy()
}

// Surface draws onto an *ebiten.Image, usually the screen passed to Draw.
type Surface struct {
	dst *ebiten.Image
	tx  float64
}

// NewSurface wraps the destination image. The translation starts at zero.
func NewSurface(dst *ebiten.Image) *Surface {
	return &Surface{dst: dst}
}

// Translate implements render.Surface.
func (s *Surface) Translate(dx float64) {
	s.tx += dx
}

// DrawImage implements render.Surface.
func (s *Surface) DrawImage(img render.Image, x, y float64) {
	src, ok := img.(*Image)
	if !ok || src == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(x+s.tx, y)
	s.dst.DrawImage(src.img, op)
}

// StrokeFillRect implements render.Surface.
// Stroke is drawn before fill.
func (s *Surface) StrokeFillRect(x, y, w, h float64, style render.RectStyle) {
	x += s.tx
	if style.Stroke != nil && style.StrokeWidth > 0 {
		vector.StrokeRect(s.dst, float32(x), float32(y), float32(w), float32(h),
			float32(style.StrokeWidth), render.WithOpacity(style.Stroke, style.Opacity), false)
	}
	if style.Fill != nil {
		vector.FillRect(s.dst, float32(x), float32(y), float32(w), float32(h),
			render.WithOpacity(style.Fill, style.Opacity), false)
	}
}
