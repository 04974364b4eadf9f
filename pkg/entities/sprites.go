package entities

import (
	"github.com/decker502/junglerun/pkg/render"
)

// Background 横向循环滚动的背景图层
type Background struct {
	Image render.Image
	// Velocity 基础滚动速度（像素/秒），平台速度由它派生
	Velocity float64
}

// Width 图层宽度，即背景图片宽度
func (b *Background) Width() float64 {
	if b.Image == nil {
		return 0
	}
	w, _ := b.Image.Size()
	return float64(w)
}

// Runner 玩家角色
// 固定在屏幕位置，不随场景滚动，以完全不透明的方式绘制
type Runner struct {
	Image render.Image
	Left  float64
	Top   float64
}
