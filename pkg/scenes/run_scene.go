package scenes

import (
	"github.com/decker502/junglerun/pkg/config"
	"github.com/decker502/junglerun/pkg/entities"
	"github.com/decker502/junglerun/pkg/render"
	"github.com/decker502/junglerun/pkg/systems"
	"github.com/rs/zerolog/log"
)

// RunScene 横向卷轴跑酷场景
//
// 图层顺序固定：背景（绘制两次以无缝循环）→ 平台（按关卡顺序）→ 角色。
// 背景和平台各自带位移，角色固定在屏幕上不滚动。
type RunScene struct {
	background *entities.Background
	platforms  []*entities.Platform
	runner     *entities.Runner

	motion *systems.MotionSystem
}

// NewRunScene 创建跑酷场景
func NewRunScene(motion config.MotionConfig, bg *entities.Background, platforms []*entities.Platform, runner *entities.Runner) *RunScene {
	return &RunScene{
		background: bg,
		platforms:  platforms,
		runner:     runner,
		motion:     systems.NewMotionSystem(motion, bg.Width()),
	}
}

// Motion 返回场景的运动系统
func (s *RunScene) Motion() *systems.MotionSystem {
	return s.motion
}

// Update 重算速度并推进背景和平台位移
func (s *RunScene) Update(durationMs float64) error {
	return s.motion.Update(durationMs)
}

// Draw 按固定顺序绘制各图层
func (s *RunScene) Draw(surface render.Surface) {
	state := s.motion.State()

	s.drawBackground(surface, state.BackgroundOffset)
	s.drawPlatforms(surface, state.PlatformOffset)
	s.drawRunner(surface)
}

func (s *RunScene) drawBackground(surface render.Surface, offset float64) {
	if s.background.Image == nil {
		return
	}
	width := s.background.Width()
	render.WithShift(surface, -offset, func() {
		surface.DrawImage(s.background.Image, 0, 0)
		surface.DrawImage(s.background.Image, width, 0)
	})
}

func (s *RunScene) drawPlatforms(surface render.Surface, offset float64) {
	render.WithShift(surface, -offset, func() {
		for i, p := range s.platforms {
			top, err := p.Top()
			if err != nil {
				log.Warn().Str("component", "RunScene").Int("platform", i).Err(err).Msg("跳过平台")
				continue
			}
			surface.StrokeFillRect(p.Left, top, p.Width, p.Height, p.Style())
		}
	})
}

func (s *RunScene) drawRunner(surface render.Surface) {
	if s.runner == nil || s.runner.Image == nil {
		return
	}
	surface.DrawImage(s.runner.Image, s.runner.Left, s.runner.Top)
}
