package app

import (
	"context"
	"errors"

	"github.com/decker502/junglerun/pkg/config"
	"github.com/decker502/junglerun/pkg/render"
	ebitenrender "github.com/decker502/junglerun/pkg/render/ebiten"
	"github.com/decker502/junglerun/pkg/timing"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"
)

// EbitenScheduler 基于 Ebitengine 游戏循环的调度器，实现 ebiten.Game 接口
//
// vsync 模式下 TPS 与显示刷新同步；fixed-tps 模式关闭垂直同步，以固定 TPS 运行。
// 两种模式下帧回调都只在 Update 之后的第一次 Draw 中分发，
// 关闭垂直同步时多余的 Draw 只重绘读数。
type EbitenScheduler struct {
	name      string
	vsync     bool
	tps       int
	window    config.WindowConfig
	overlay   *OverlayReadout
	clock     timing.TimeProvider
	maxFrames int

	ctx     context.Context
	pending FrameFunc
	tickDue bool
	frames  int
}

// NewEbitenScheduler 创建窗口调度器
func NewEbitenScheduler(name string, vsync bool, opts SchedulerOptions) *EbitenScheduler {
	clock := opts.Clock
	if clock == nil {
		clock = timing.NewMonotonicTimeProvider()
	}
	tps := opts.FPS
	if tps <= 0 {
		tps = config.DefaultFallbackFPS
	}
	return &EbitenScheduler{
		name:      name,
		vsync:     vsync,
		tps:       tps,
		window:    opts.Window,
		overlay:   opts.Overlay,
		clock:     clock,
		maxFrames: opts.MaxFrames,
		ctx:       context.Background(),
	}
}

func (s *EbitenScheduler) Name() string { return s.name }

func (s *EbitenScheduler) RequestFrame(fn FrameFunc) { s.pending = fn }

// Run 打开窗口并阻塞到窗口关闭或 ctx 结束
func (s *EbitenScheduler) Run(ctx context.Context) error {
	s.ctx = ctx
	s.configure()

	log.Info().Str("component", "Scheduler").Str("scheduler", s.name).
		Bool("vsync", s.vsync).Msg("starting window loop")

	err := ebiten.RunGame(s)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// configure 把垂直同步、TPS 和窗口设置交给 Ebitengine。
// 桌面端由 Run 调用，移动端由 App.Game 在交给宿主之前调用。
func (s *EbitenScheduler) configure() {
	ebiten.SetVsyncEnabled(s.vsync)
	if s.vsync {
		ebiten.SetTPS(ebiten.SyncWithFPS)
	} else {
		ebiten.SetTPS(s.tps)
	}
	ebiten.SetWindowSize(s.window.Width, s.window.Height)
	ebiten.SetWindowTitle(s.window.Title)
}

// Update 检查退出条件并标记一次待分发的帧
func (s *EbitenScheduler) Update() error {
	if s.ctx.Err() != nil {
		return ebiten.Termination
	}
	if s.maxFrames > 0 && s.frames >= s.maxFrames {
		return ebiten.Termination
	}
	s.tickDue = true
	return nil
}

// Draw 分发挂起的帧回调，然后绘制读数
func (s *EbitenScheduler) Draw(screen *ebiten.Image) {
	s.dispatch(ebitenrender.NewSurface(screen))
	if s.overlay != nil {
		s.overlay.Draw(screen)
	}
}

// dispatch 每个 tick 最多运行一次挂起的帧回调
func (s *EbitenScheduler) dispatch(surface render.Surface) {
	if !s.tickDue {
		return
	}
	s.tickDue = false
	if fn := s.pending; fn != nil {
		s.pending = nil
		fn(Frame{Now: s.clock.Millis(), Surface: surface})
		s.frames++
	}
}

// Layout 返回逻辑屏幕尺寸，Ebitengine 负责缩放到实际窗口
func (s *EbitenScheduler) Layout(outsideWidth, outsideHeight int) (int, int) {
	return s.window.Width, s.window.Height
}
