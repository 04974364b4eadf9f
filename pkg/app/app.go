// Package app 提供游戏应用的核心包装器
//
// 该包把配置、资源、渲染后端、帧调度器和诊断服务组装在一起，
// main.go 只负责解析命令行和配置日志。
package app

import (
	"context"
	"fmt"
	"path"

	"github.com/decker502/junglerun/pkg/config"
	"github.com/decker502/junglerun/pkg/diag"
	"github.com/decker502/junglerun/pkg/embedded"
	"github.com/decker502/junglerun/pkg/game"
	"github.com/decker502/junglerun/pkg/render"
	ebitenrender "github.com/decker502/junglerun/pkg/render/ebiten"
	"github.com/decker502/junglerun/pkg/render/term"
	"github.com/decker502/junglerun/pkg/utils"
	"github.com/gdamore/tcell/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Backend names.
const (
	BackendEbiten   = "ebiten"
	BackendTerm     = "term"
	BackendHeadless = "headless"
)

// DefaultGameConfigPath 嵌入的游戏配置
const DefaultGameConfigPath = "data/game.yaml"

// Config 定义应用启动配置
type Config struct {
	// Backend 渲染后端："ebiten"、"term"、"headless"
	Backend string
	// Scheduler 覆盖配置文件中的调度策略，为空则使用配置文件
	Scheduler string
	// Frames 大于 0 时渲染指定帧数后退出
	Frames int
	// ConfigPath 磁盘上的 game.yaml，为空则使用嵌入的配置
	ConfigPath string
	// DiagAddr 非空时在该地址提供静态资源和诊断接口
	DiagAddr string
	// Screen 终端后端使用的屏幕，为空时创建真实终端
	Screen tcell.Screen
}

// App 是游戏应用的核心包装器
type App struct {
	cfg       *config.GameConfig
	driver    *Driver
	scheduler Scheduler
	server    *diag.Server
	screen    tcell.Screen
}

// NewApp 创建并初始化游戏应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(opts Config) (*App, error) {
	logger := log.With().Str("component", "App").Logger()

	cfg, err := loadGameConfig(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("游戏配置加载失败: %w", err)
	}
	if opts.Scheduler != "" {
		cfg.Scheduler.Preferred = opts.Scheduler
	}

	resources := game.NewResourceManager(embedded.FS())
	if err := resources.LoadResourceConfig(cfg.Assets.ResourceConfig); err != nil {
		return nil, fmt.Errorf("资源配置加载失败: %w", err)
	}

	a := &App{cfg: cfg}

	var hub *diag.Hub
	if opts.DiagAddr != "" {
		hub = diag.NewHub()
	}

	backendName := opts.Backend
	if backendName == "" {
		backendName = BackendEbiten
	}

	var (
		backend  render.Backend
		surface  render.Surface
		overlay  *OverlayReadout
		readouts = MultiReadout{LogReadout{}}
		display  bool
	)
	switch backendName {
	case BackendEbiten:
		backend = ebitenrender.NewBackend()
		overlay = NewOverlayReadout(4, 4)
		readouts = append(readouts, overlay)
		display = utils.HasDisplay()
	case BackendTerm:
		screen := opts.Screen
		if screen == nil {
			if screen, err = tcell.NewScreen(); err != nil {
				return nil, fmt.Errorf("终端初始化失败: %w", err)
			}
		}
		if err := screen.Init(); err != nil {
			return nil, fmt.Errorf("终端初始化失败: %w", err)
		}
		a.screen = screen
		termBackend := term.NewBackend()
		termSurface := term.NewSurface(screen, termBackend)
		backend, surface = termBackend, termSurface
		readouts = append(readouts, termSurface)
	case BackendHeadless:
		rec := render.NewRecorder()
		backend, surface = rec, rec
	default:
		return nil, fmt.Errorf("unknown backend %q", backendName)
	}
	if hub != nil {
		readouts = append(readouts, hub)
	}

	caps := DetectCapabilities(display, cfg.Scheduler.VSyncDefects, utils.PlatformKeys()...)
	scheduler, err := SelectScheduler(cfg.Scheduler.Preferred, caps, SchedulerOptions{
		Window:    cfg.Window,
		FPS:       cfg.Timing.FallbackFPS,
		MaxFrames: opts.Frames,
		Surface:   surface,
		Overlay:   overlay,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	if _, windowed := scheduler.(*EbitenScheduler); windowed != (backendName == BackendEbiten) {
		a.Close()
		return nil, fmt.Errorf("scheduler %s cannot drive the %s backend", scheduler.Name(), backendName)
	}
	a.scheduler = scheduler

	a.driver = NewDriver(cfg, resources, backend, scheduler, readouts, loadLevelConfig)

	if hub != nil {
		assets, err := embedded.Sub("assets")
		if err != nil {
			a.Close()
			return nil, err
		}
		a.server = diag.NewServer(opts.DiagAddr, assets, hub, a.driver.Stats)
	}

	logger.Info().Str("backend", backendName).Str("scheduler", scheduler.Name()).
		Bool("display", caps.Display).Bool("vsync", caps.VSync).Msg("initialized")
	return a, nil
}

// Run 启动帧循环（以及可选的诊断服务），阻塞到循环结束
//
// 帧循环在调用方 goroutine 上运行：窗口调度器要求 RunGame 在主线程调用。
func (a *App) Run(ctx context.Context) error {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	if a.server != nil {
		g.Go(func() error { return a.server.ListenAndServe(gctx) })
	}
	if a.screen != nil {
		go watchTerminal(a.screen, cancel)
	}

	err := a.driver.Start(gctx)
	cancel()
	if werr := g.Wait(); err == nil {
		err = werr
	}
	return err
}

// Prepare 加载资源并构建场景，但不启动帧循环
// 移动端由宿主驱动 ebiten 循环：先调用 Prepare，再把 Game() 交给 ebitenmobile
func (a *App) Prepare(ctx context.Context) error {
	return a.driver.Prepare(ctx)
}

// Game 返回驱动窗口循环的 ebiten.Game，非窗口后端返回错误
func (a *App) Game() (ebiten.Game, error) {
	g, ok := a.scheduler.(*EbitenScheduler)
	if !ok {
		return nil, fmt.Errorf("scheduler %s has no ebiten game loop", a.scheduler.Name())
	}
	g.configure()
	return g, nil
}

// Close 恢复终端状态
func (a *App) Close() {
	if a.screen != nil {
		a.screen.Fini()
		a.screen = nil
	}
}

// Driver 返回动画驱动
func (a *App) Driver() *Driver {
	return a.driver
}

// GameConfig 返回生效的游戏配置
func (a *App) GameConfig() *config.GameConfig {
	return a.cfg
}

// watchTerminal 在按下 Esc 或 Ctrl-C 时结束循环
func watchTerminal(screen tcell.Screen, cancel context.CancelFunc) {
	for {
		ev := screen.PollEvent()
		if ev == nil {
			return
		}
		if key, ok := ev.(*tcell.EventKey); ok {
			if key.Key() == tcell.KeyEscape || key.Key() == tcell.KeyCtrlC {
				cancel()
				return
			}
		}
	}
}

func loadGameConfig(diskPath string) (*config.GameConfig, error) {
	if diskPath != "" {
		return config.LoadGameConfig(diskPath)
	}
	data, err := embedded.ReadFile(DefaultGameConfigPath)
	if err != nil {
		return nil, err
	}
	return config.ParseGameConfig(data)
}

// loadLevelConfig reads a level from the embedded data tree.
func loadLevelConfig(levelPath string) (*config.LevelConfig, error) {
	data, err := embedded.ReadFile(path.Clean(levelPath))
	if err != nil {
		return nil, fmt.Errorf("failed to read level config %s: %w", levelPath, err)
	}
	return config.ParseLevelConfig(data)
}
