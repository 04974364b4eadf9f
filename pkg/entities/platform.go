package entities

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/decker502/junglerun/pkg/config"
	"github.com/decker502/junglerun/pkg/render"
)

// ErrInvalidTrack 平台轨道编号不在 1..3 之间
var ErrInvalidTrack = errors.New("invalid platform track")

// Platform 玩家可以跳上的平台
// 构造后除 Pulsate 外不可变
type Platform struct {
	Left      float64
	Width     float64
	Height    float64
	FillStyle color.RGBA
	Opacity   float64
	Track     int
	// Pulsate 闪烁效果开关（预留字段，渲染尚未使用）
	Pulsate bool

	stroke      color.RGBA
	strokeWidth float64
	tracks      [config.TrackCount]float64
}

// NewPlatform 根据关卡配置创建平台
//
// 参数：
//   - pc: 单个平台的关卡配置
//   - style: 所有平台共用的外观（高度、描边）
//   - tracks: 三条轨道的高度
//
// 返回：
//   - error: 轨道非法、宽度非正、不透明度越界或颜色无法解析时返回错误
func NewPlatform(pc config.PlatformConfig, style config.PlatformStyle, tracks config.TrackConfig) (*Platform, error) {
	if pc.Track < 1 || pc.Track > config.TrackCount {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTrack, pc.Track)
	}
	if pc.Width <= 0 {
		return nil, fmt.Errorf("platform width must be positive, got %v", pc.Width)
	}
	opacity := pc.OpacityOrDefault()
	if opacity < 0 || opacity > 1 {
		return nil, fmt.Errorf("platform opacity must be between 0 and 1, got %v", opacity)
	}

	fill, err := render.ParseColor(pc.FillStyle)
	if err != nil {
		return nil, fmt.Errorf("platform fillStyle: %w", err)
	}
	stroke, err := render.ParseColor(style.StrokeStyle)
	if err != nil {
		return nil, fmt.Errorf("platform stroke_style: %w", err)
	}

	return &Platform{
		Left:        pc.Left,
		Width:       pc.Width,
		Height:      style.Height,
		FillStyle:   fill,
		Opacity:     opacity,
		Track:       pc.Track,
		Pulsate:     pc.Pulsate,
		stroke:      stroke,
		strokeWidth: style.StrokeWidth,
		tracks:      tracks.Heights(),
	}, nil
}

// Top 返回平台顶部的 Y 坐标
// 轨道 1/2/3 对应配置中的固定高度，其他值返回 ErrInvalidTrack
func (p *Platform) Top() (float64, error) {
	return TrackTop(p.tracks, p.Track)
}

// Style 返回绘制平台用的描边与填充样式
func (p *Platform) Style() render.RectStyle {
	return render.RectStyle{
		Stroke:      p.stroke,
		StrokeWidth: p.strokeWidth,
		Fill:        p.FillStyle,
		Opacity:     p.Opacity,
	}
}

// TrackTop 查找轨道对应的高度
func TrackTop(tracks [config.TrackCount]float64, track int) (float64, error) {
	if track < 1 || track > config.TrackCount {
		return 0, fmt.Errorf("%w: %d", ErrInvalidTrack, track)
	}
	return tracks[track-1], nil
}

// NewPlatforms 按关卡配置的顺序创建全部平台
func NewPlatforms(level *config.LevelConfig, cfg *config.GameConfig) ([]*Platform, error) {
	platforms := make([]*Platform, 0, len(level.Platforms))
	for i, pc := range level.Platforms {
		p, err := NewPlatform(pc, cfg.Platforms, cfg.Tracks)
		if err != nil {
			return nil, fmt.Errorf("level %s platforms[%d]: %w", level.ID, i, err)
		}
		platforms = append(platforms, p)
	}
	return platforms, nil
}
