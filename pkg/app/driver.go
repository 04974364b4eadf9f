package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"sync/atomic"
	"time"

	"github.com/decker502/junglerun/pkg/config"
	"github.com/decker502/junglerun/pkg/diag"
	"github.com/decker502/junglerun/pkg/entities"
	"github.com/decker502/junglerun/pkg/game"
	"github.com/decker502/junglerun/pkg/render"
	"github.com/decker502/junglerun/pkg/scenes"
	"github.com/decker502/junglerun/pkg/timing"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ErrAlreadyRunning 重复调用 Prepare/Start
var ErrAlreadyRunning = errors.New("driver already running")

// DriverState 动画驱动的生命周期状态
type DriverState int32

const (
	// StateWaitingForAssets 等待背景和角色图片加载
	StateWaitingForAssets DriverState = iota
	// StateRunning 帧循环已启动，不会回到等待状态
	StateRunning
)

func (s DriverState) String() string {
	switch s {
	case StateWaitingForAssets:
		return "waiting-for-assets"
	case StateRunning:
		return "running"
	}
	return fmt.Sprintf("DriverState(%d)", int32(s))
}

// LevelLoader 按路径读取关卡配置
type LevelLoader func(path string) (*config.LevelConfig, error)

// Driver 动画驱动
//
// 持有帧时钟和场景等全部可变状态，只在帧回调中修改它们。
// 每一帧：帧时钟 → 读数（到报告间隔时）→ 场景更新 → 场景绘制 → 请求下一帧。
type Driver struct {
	cfg       *config.GameConfig
	resources *game.ResourceManager
	backend   render.Backend
	scheduler Scheduler
	readout   Readout
	levels    LevelLoader

	clock  *timing.FrameClock
	scenes *game.SceneManager

	state   atomic.Int32
	frames  atomic.Uint64
	fpsBits atomic.Uint64
}

// NewDriver 创建动画驱动
// readout 为 nil 时读数写入日志
func NewDriver(cfg *config.GameConfig, resources *game.ResourceManager, backend render.Backend,
	scheduler Scheduler, readout Readout, levels LevelLoader) *Driver {
	if readout == nil {
		readout = LogReadout{}
	}
	return &Driver{
		cfg:       cfg,
		resources: resources,
		backend:   backend,
		scheduler: scheduler,
		readout:   readout,
		levels:    levels,
		clock:     timing.NewFrameClock(cfg.Timing.FPSReportIntervalMs),
		scenes:    game.NewSceneManager(),
	}
}

// State 返回当前状态
func (d *Driver) State() DriverState {
	return DriverState(d.state.Load())
}

// Stats 返回帧计数和最近的帧率，供健康检查使用
func (d *Driver) Stats() diag.Stats {
	return diag.Stats{
		State:  d.State().String(),
		Frames: d.frames.Load(),
		FPS:    math.Float64frombits(d.fpsBits.Load()),
	}
}

// Prepare 等待两张图片加载完成，构建场景，切换到运行状态并请求第一帧
//
// 任一图片在重试后仍失败时返回错误，驱动保持等待状态。
func (d *Driver) Prepare(ctx context.Context) error {
	if d.State() != StateWaitingForAssets {
		return ErrAlreadyRunning
	}
	logger := log.With().Str("component", "Driver").Logger()

	timeout := time.Duration(d.cfg.Assets.LoadTimeoutMs) * time.Millisecond
	retries := d.cfg.Assets.LoadRetries

	var bgImg, runnerImg image.Image
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		img, err := d.resources.LoadImageWithRetry(gctx, d.cfg.Background.Image, timeout, retries)
		bgImg = img
		return err
	})
	g.Go(func() error {
		img, err := d.resources.LoadImageWithRetry(gctx, d.cfg.Runner.Image, timeout, retries)
		runnerImg = img
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("assets not ready: %w", err)
	}
	logger.Info().Msg("assets loaded")

	bg := &entities.Background{
		Image:    d.backend.NewImage(bgImg),
		Velocity: d.cfg.Motion.BackgroundVelocity,
	}
	runner := &entities.Runner{
		Image: d.backend.NewImage(runnerImg),
		Left:  d.cfg.Runner.Left,
		Top:   d.cfg.Runner.Top,
	}

	d.scenes.SetSceneFactory(func(levelPath string) (game.Scene, error) {
		level, err := d.levels(levelPath)
		if err != nil {
			return nil, err
		}
		platforms, err := entities.NewPlatforms(level, d.cfg)
		if err != nil {
			return nil, err
		}
		return scenes.NewRunScene(d.cfg.Motion, bg, platforms, runner), nil
	})
	if err := d.scenes.LoadLevel(d.cfg.Level); err != nil {
		return err
	}

	if !d.state.CompareAndSwap(int32(StateWaitingForAssets), int32(StateRunning)) {
		return ErrAlreadyRunning
	}
	logger.Info().Str("scheduler", d.scheduler.Name()).Msg("running")
	d.scheduler.RequestFrame(d.tick)
	return nil
}

// Start 准备场景后运行调度器，阻塞到循环结束
func (d *Driver) Start(ctx context.Context) error {
	if err := d.Prepare(ctx); err != nil {
		return err
	}
	return d.scheduler.Run(ctx)
}

func (d *Driver) tick(f Frame) {
	sample, err := d.clock.Tick(f.Now)
	if err != nil {
		log.Warn().Str("component", "Driver").Err(err).Msg("bad frame timestamp, using zero duration")
	}
	if sample.Report {
		d.readout.SetText(sample.Text())
	}
	d.fpsBits.Store(math.Float64bits(sample.FPS))
	d.frames.Add(1)

	if err := d.scenes.Update(sample.Duration); err != nil {
		log.Warn().Str("component", "Driver").Err(err).Msg("scene update failed")
	}
	d.scenes.Draw(f.Surface)

	d.scheduler.RequestFrame(d.tick)
}
