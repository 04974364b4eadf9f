package app

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/decker502/junglerun/pkg/config"
	"github.com/decker502/junglerun/pkg/render"
	"github.com/decker502/junglerun/pkg/timing"
)

// Scheduler names, in policy order.
const (
	SchedulerAuto     = "auto"
	SchedulerVSync    = "vsync"
	SchedulerFixedTPS = "fixed-tps"
	SchedulerTimer    = "timer"
)

// Frame is passed to a frame callback.
type Frame struct {
	// Now is the frame timestamp in milliseconds.
	Now float64
	// Surface is the surface to draw this frame into.
	Surface render.Surface
}

// FrameFunc is invoked once when the display is ready for the next frame.
type FrameFunc func(Frame)

// Scheduler runs frame callbacks. Exactly one callback runs at a time and a
// callback only runs if it was requested, so the loop continues only while
// each tick requests the next one.
type Scheduler interface {
	// RequestFrame schedules fn for the next frame, replacing any pending request.
	RequestFrame(fn FrameFunc)
	// Run blocks, dispatching frames until ctx is done, the window closes or
	// no frame is pending.
	Run(ctx context.Context) error
	Name() string
}

// Capabilities 启动时检测一次的宿主能力
type Capabilities struct {
	// Display 是否有可以打开窗口的图形环境
	Display bool
	// VSync 垂直同步是否可用（已知有帧率缺陷的平台为 false）
	VSync bool
}

// DetectCapabilities 计算宿主能力
// platformKeys 中任意一个出现在 defects 列表里时关闭 VSync
func DetectCapabilities(display bool, defects []string, platformKeys ...string) Capabilities {
	caps := Capabilities{Display: display, VSync: display}
	for _, key := range platformKeys {
		if slices.Contains(defects, key) {
			caps.VSync = false
			break
		}
	}
	return caps
}

// SchedulerOptions 构造调度器所需的依赖
type SchedulerOptions struct {
	Window config.WindowConfig
	// FPS 计时器和固定 TPS 模式的目标帧率
	FPS int
	// MaxFrames 大于 0 时渲染这么多帧后结束
	MaxFrames int
	// Surface 计时器模式绘制的目标（终端或无头记录器）
	Surface render.Surface
	// Overlay 窗口模式下叠加在画面上的读数
	Overlay *OverlayReadout
	Clock   timing.TimeProvider
}

type schedulerStrategy struct {
	name      string
	supported func(Capabilities) bool
	build     func(SchedulerOptions) Scheduler
}

// schedulerPolicy lists strategies in priority order.
var schedulerPolicy = []schedulerStrategy{
	{
		name:      SchedulerVSync,
		supported: func(c Capabilities) bool { return c.Display && c.VSync },
		build:     func(o SchedulerOptions) Scheduler { return NewEbitenScheduler(SchedulerVSync, true, o) },
	},
	{
		name:      SchedulerFixedTPS,
		supported: func(c Capabilities) bool { return c.Display },
		build:     func(o SchedulerOptions) Scheduler { return NewEbitenScheduler(SchedulerFixedTPS, false, o) },
	},
	{
		name:      SchedulerTimer,
		supported: func(c Capabilities) bool { return true },
		build:     func(o SchedulerOptions) Scheduler { return NewTimerScheduler(o) },
	},
}

// SelectScheduler 按策略表选择调度器
// preferred 为 auto 或空时选择第一个受支持的策略；
// 显式指定的策略不受支持时返回错误。
func SelectScheduler(preferred string, caps Capabilities, opts SchedulerOptions) (Scheduler, error) {
	if opts.Clock == nil {
		opts.Clock = timing.NewMonotonicTimeProvider()
	}
	if opts.FPS <= 0 {
		opts.FPS = config.DefaultFallbackFPS
	}

	for _, s := range schedulerPolicy {
		if preferred != "" && preferred != SchedulerAuto && preferred != s.name {
			continue
		}
		if !s.supported(caps) {
			if preferred == s.name {
				return nil, fmt.Errorf("scheduler %q not supported (display=%v, vsync=%v)", s.name, caps.Display, caps.VSync)
			}
			continue
		}
		return s.build(opts), nil
	}
	return nil, fmt.Errorf("unknown scheduler %q", preferred)
}

// NextDelay 计时器模式下到下一帧的等待时间
// 扣除回调自身的执行时间，最小为 0
func NextDelay(interval, elapsed time.Duration) time.Duration {
	if d := interval - elapsed; d > 0 {
		return d
	}
	return 0
}

// frameInterval converts a target rate into a frame interval.
func frameInterval(fps int) time.Duration {
	if fps <= 0 {
		fps = config.DefaultFallbackFPS
	}
	return time.Second / time.Duration(fps)
}
