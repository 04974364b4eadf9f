// Package term draws frames into a terminal through tcell. Each terminal
// cell stands for a CellWidth x CellHeight block of logical pixels, so the
// preview is coarse but keeps the layer order and scroll speed of the window.
package term

import (
	"image"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/junglerun/pkg/render"
)

// 终端单元格对应的逻辑像素尺寸
const (
	DefaultCellWidth  = 8.0
	DefaultCellHeight = 16.0
)

const platformRune = '█'

// Backend downsamples decoded images to terminal cells.
type Backend struct {
	CellWidth, CellHeight float64
}

// NewBackend returns a backend using the default cell size.
func NewBackend() *Backend {
	return &Backend{CellWidth: DefaultCellWidth, CellHeight: DefaultCellHeight}
}

// NewImage implements render.Backend. Each cell takes the average colour of
// the pixels it covers; fully transparent cells are skipped when drawing.
func (b *Backend) NewImage(src image.Image) render.Image {
	bounds := src.Bounds()
	cw, ch := int(b.CellWidth), int(b.CellHeight)
	cols := (bounds.Dx() + cw - 1) / cw
	rows := (bounds.Dy() + ch - 1) / ch

	img := &Image{
		width:  bounds.Dx(),
		height: bounds.Dy(),
		cols:   cols,
		rows:   rows,
		cells:  make([]cell, cols*rows),
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			var rs, gs, bs, as, n uint64
			for y := bounds.Min.Y + row*ch; y < bounds.Min.Y+(row+1)*ch && y < bounds.Max.Y; y++ {
				for x := bounds.Min.X + col*cw; x < bounds.Min.X+(col+1)*cw && x < bounds.Max.X; x++ {
					r, g, b, a := src.At(x, y).RGBA()
					rs += uint64(r >> 8)
					gs += uint64(g >> 8)
					bs += uint64(b >> 8)
					as += uint64(a >> 8)
					n++
				}
			}
			if n == 0 || as/n < 0x40 {
				continue
			}
			img.cells[row*cols+col] = cell{
				color:   tcell.NewRGBColor(int32(rs/n), int32(gs/n), int32(bs/n)),
				visible: true,
			}
		}
	}
	return img
}

type cell struct {
	color   tcell.Color
	visible bool
}

// Image is a cell-resolution copy of a decoded image.
type Image struct {
	width, height int
	cols, rows    int
	cells         []cell
}

// Size implements render.Image and reports the original pixel size.
func (i *Image) Size() (int, int) { return i.width, i.height }

// Surface draws into a tcell screen. It also acts as the frame-rate readout
// by reserving the top row for a status line.
type Surface struct {
	screen     tcell.Screen
	cellWidth  float64
	cellHeight float64
	tx         float64
	status     string
}

// NewSurface wraps an initialised tcell screen.
func NewSurface(screen tcell.Screen, backend *Backend) *Surface {
	return &Surface{
		screen:     screen,
		cellWidth:  backend.CellWidth,
		cellHeight: backend.CellHeight,
	}
}

// BeginFrame clears the screen before the frame is drawn.
func (s *Surface) BeginFrame() {
	s.screen.Clear()
	s.tx = 0
}

// Present draws the status line and flushes the frame to the terminal.
func (s *Surface) Present() {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	for i, r := range s.status {
		s.screen.SetContent(i, 0, r, nil, style)
	}
	s.screen.Show()
}

// SetText sets the status line text.
func (s *Surface) SetText(text string) {
	s.status = text
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
	width, height := s.screen.Size()
	col0 := int(math.Floor((x + s.tx) / s.cellWidth))
	row0 := int(math.Floor(y / s.cellHeight))

	for row := 0; row < src.rows; row++ {
		sy := row0 + row
		if sy < 0 || sy >= height {
			continue
		}
		for col := 0; col < src.cols; col++ {
			sx := col0 + col
			if sx < 0 || sx >= width {
				continue
			}
			c := src.cells[row*src.cols+col]
			if !c.visible {
				continue
			}
			s.screen.SetContent(sx, sy, ' ', nil, tcell.StyleDefault.Background(c.color))
		}
	}
}

// StrokeFillRect implements render.Surface. Strokes are thinner than a cell,
// so only the fill is drawn; fully transparent rectangles are skipped.
func (s *Surface) StrokeFillRect(x, y, w, h float64, style render.RectStyle) {
	if style.Fill == nil || style.Opacity <= 0 {
		return
	}
	width, height := s.screen.Size()
	x += s.tx

	col0 := int(math.Floor(x / s.cellWidth))
	col1 := int(math.Ceil((x + w) / s.cellWidth))
	row0 := int(math.Floor(y / s.cellHeight))
	row1 := int(math.Ceil((y + h) / s.cellHeight))

	r, g, b, _ := style.Fill.RGBA()
	fg := tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
	cellStyle := tcell.StyleDefault.Foreground(fg)

	for row := max(row0, 0); row < min(row1, height); row++ {
		for col := max(col0, 0); col < min(col1, width); col++ {
			s.screen.SetContent(col, row, platformRune, nil, cellStyle)
		}
	}
}
