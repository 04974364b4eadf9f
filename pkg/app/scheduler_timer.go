package app

import (
	"context"
	"time"

	"github.com/decker502/junglerun/pkg/render"
	"github.com/decker502/junglerun/pkg/timing"
)

type frameBeginner interface{ BeginFrame() }

type framePresenter interface{ Present() }

// TimerScheduler 计时器后备调度器
// 目标 60fps，每帧等待时间减去回调执行时间
type TimerScheduler struct {
	interval  time.Duration
	surface   render.Surface
	clock     timing.TimeProvider
	maxFrames int

	pending FrameFunc
	frames  int
}

// NewTimerScheduler 创建计时器调度器
func NewTimerScheduler(opts SchedulerOptions) *TimerScheduler {
	clock := opts.Clock
	if clock == nil {
		clock = timing.NewMonotonicTimeProvider()
	}
	return &TimerScheduler{
		interval:  frameInterval(opts.FPS),
		surface:   opts.Surface,
		clock:     clock,
		maxFrames: opts.MaxFrames,
	}
}

func (s *TimerScheduler) Name() string { return SchedulerTimer }

func (s *TimerScheduler) RequestFrame(fn FrameFunc) { s.pending = fn }

// Frames 返回已分发的帧数
func (s *TimerScheduler) Frames() int { return s.frames }

// Run 运行帧循环直到 ctx 结束、达到帧数上限或没有待处理的请求
func (s *TimerScheduler) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}

		fn := s.pending
		if fn == nil {
			return nil
		}
		s.pending = nil

		start := time.Now()
		if b, ok := s.surface.(frameBeginner); ok {
			b.BeginFrame()
		}
		fn(Frame{Now: s.clock.Millis(), Surface: s.surface})
		if p, ok := s.surface.(framePresenter); ok {
			p.Present()
		}
		s.frames++

		if s.maxFrames > 0 && s.frames >= s.maxFrames {
			return nil
		}
		timer.Reset(NextDelay(s.interval, time.Since(start)))
	}
}
