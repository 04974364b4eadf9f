package render

import (
	"fmt"
	"image"
	"math"
	"strconv"
)

// OpKind identifies a recorded drawing call.
type OpKind int

const (
	OpTranslate OpKind = iota
	OpDrawImage
	OpStrokeFillRect
)

func (k OpKind) String() string {
	switch k {
	case OpTranslate:
		return "translate"
	case OpDrawImage:
		return "image"
	case OpStrokeFillRect:
		return "rect"
	}
	return fmt.Sprintf("OpKind(%d)", int(k))
}

// Op is one recorded drawing call. X and Y are the arguments as passed,
// Shift is the horizontal translation in effect when the call was made.
type Op struct {
	Kind  OpKind
	Image Image
	X, Y  float64
	W, H  float64
	Style RectStyle
	Shift float64
}

func (op Op) String() string {
	switch op.Kind {
	case OpTranslate:
		return fmt.Sprintf("translate(%s)", num(op.X))
	case OpDrawImage:
		return fmt.Sprintf("image(%v, %s, %s)", op.Image, num(op.X), num(op.Y))
	case OpStrokeFillRect:
		return fmt.Sprintf("rect(%s, %s, %s, %s)", num(op.X), num(op.Y), num(op.W), num(op.H))
	}
	return op.Kind.String()
}

// num formats a coordinate rounded to micro-pixels.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e6)/1e6, 'f', -1, 64)
}

// NamedImage is an image handle that only carries a name and a size.
type NamedImage struct {
	Name          string
	Width, Height int
}

func (i *NamedImage) Size() (int, int) { return i.Width, i.Height }

func (i *NamedImage) String() string { return i.Name }

// Recorder is a Surface and Backend that records calls instead of drawing.
// It backs the headless mode and the draw-order tests.
type Recorder struct {
	Ops    []Op
	Frames int

	shift  float64
	images int
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// NewImage implements Backend.
func (r *Recorder) NewImage(src image.Image) Image {
	r.images++
	b := src.Bounds()
	return &NamedImage{Name: fmt.Sprintf("image-%d", r.images), Width: b.Dx(), Height: b.Dy()}
}

// BeginFrame drops the calls recorded for the previous frame.
func (r *Recorder) BeginFrame() {
	r.Ops = r.Ops[:0]
	r.Frames++
}

// Shift returns the translation currently in effect.
func (r *Recorder) Shift() float64 { return r.shift }

func (r *Recorder) Translate(dx float64) {
	r.shift += dx
	r.Ops = append(r.Ops, Op{Kind: OpTranslate, X: dx, Shift: r.shift})
}

func (r *Recorder) DrawImage(img Image, x, y float64) {
	r.Ops = append(r.Ops, Op{Kind: OpDrawImage, Image: img, X: x, Y: y, Shift: r.shift})
}

func (r *Recorder) StrokeFillRect(x, y, w, h float64, style RectStyle) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokeFillRect, X: x, Y: y, W: w, H: h, Style: style, Shift: r.shift})
}
