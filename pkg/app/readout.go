package app

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/rs/zerolog/log"
)

// Readout displays the frame-rate text. It is updated at most once per
// report interval.
type Readout interface {
	SetText(text string)
}

// LogReadout writes each readout update to the log.
type LogReadout struct{}

func (LogReadout) SetText(text string) {
	log.Info().Str("component", "FrameRate").Msg(text)
}

// OverlayReadout 在窗口左上角绘制读数
type OverlayReadout struct {
	mu   sync.Mutex
	text string
	X, Y int
}

// NewOverlayReadout 创建位于 (x, y) 的叠加读数
func NewOverlayReadout(x, y int) *OverlayReadout {
	return &OverlayReadout{X: x, Y: y}
}

func (o *OverlayReadout) SetText(text string) {
	o.mu.Lock()
	o.text = text
	o.mu.Unlock()
}

// Text 返回当前显示的文本
func (o *OverlayReadout) Text() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.text
}

// Draw 把读数画到屏幕上，没有文本时不绘制
func (o *OverlayReadout) Draw(screen *ebiten.Image) {
	if text := o.Text(); text != "" {
		ebitenutil.DebugPrintAt(screen, text, o.X, o.Y)
	}
}

// MultiReadout fans one update out to several readouts.
type MultiReadout []Readout

func (m MultiReadout) SetText(text string) {
	for _, r := range m {
		if r != nil {
			r.SetText(text)
		}
	}
}
