package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// 游戏常量（配置文件缺省时使用）
const (
	// DefaultWindowWidth 逻辑屏幕宽度
	DefaultWindowWidth = 800
	// DefaultWindowHeight 逻辑屏幕高度
	DefaultWindowHeight = 400

	// TrackCount 平台所在的轨道数量（轨道 1/2/3）
	TrackCount = 3

	// DefaultBackgroundVelocity 背景基础滚动速度（像素/秒）
	DefaultBackgroundVelocity = 45.0
	// PlatformVelocityMultiplier 平台速度相对背景速度的倍数
	PlatformVelocityMultiplier = 4.35

	// DefaultFPSReportIntervalMs 帧率读数的刷新间隔（毫秒）
	DefaultFPSReportIntervalMs = 1000.0
	// DefaultFallbackFPS 定时器后备调度的目标帧率
	DefaultFallbackFPS = 60
)

// 背景偏移越界后的处理方式
const (
	WrapModeReset  = "reset"  // 越界后直接归零（会出现一次可见的跳变）
	WrapModeModulo = "modulo" // 越界后减去图层宽度，保持无缝
)

// GameConfig 游戏全局配置
// 对应 data/game.yaml，所有字段都有缺省值，配置文件可以只写需要覆盖的部分。
type GameConfig struct {
	Window     WindowConfig     `yaml:"window"`
	Tracks     TrackConfig      `yaml:"tracks"`
	Platforms  PlatformStyle    `yaml:"platforms"`
	Motion     MotionConfig     `yaml:"motion"`
	Background BackgroundConfig `yaml:"background"`
	Runner     RunnerConfig     `yaml:"runner"`
	Timing     TimingConfig     `yaml:"timing"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Assets     AssetsConfig     `yaml:"assets"`
	Level      string           `yaml:"level"` // 关卡文件路径，如 "data/levels/level-1.yaml"
}

// WindowConfig 窗口配置
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// TrackConfig 三条轨道的顶部 Y 坐标
type TrackConfig struct {
	Track1 float64 `yaml:"track_1"`
	Track2 float64 `yaml:"track_2"`
	Track3 float64 `yaml:"track_3"`
}

// Heights 按轨道编号顺序返回高度，下标 0 对应轨道 1
func (t TrackConfig) Heights() [TrackCount]float64 {
	return [TrackCount]float64{t.Track1, t.Track2, t.Track3}
}

// PlatformStyle 所有平台共用的外观属性
type PlatformStyle struct {
	Height      float64 `yaml:"height"`
	StrokeWidth float64 `yaml:"stroke_width"`
	StrokeStyle string  `yaml:"stroke_style"`
}

// MotionConfig 运动模型参数
type MotionConfig struct {
	BackgroundVelocity float64 `yaml:"background_velocity"` // 像素/秒
	PlatformMultiplier float64 `yaml:"platform_multiplier"`
	WrapMode           string  `yaml:"wrap_mode"` // "reset" | "modulo"
}

// BackgroundConfig 背景图层
type BackgroundConfig struct {
	Image string `yaml:"image"` // 资源ID
}

// RunnerConfig 角色精灵，固定在屏幕位置，不随场景滚动
type RunnerConfig struct {
	Image string  `yaml:"image"` // 资源ID
	Left  float64 `yaml:"left"`
	Top   float64 `yaml:"top"`
}

// TimingConfig 帧时钟参数
type TimingConfig struct {
	FPSReportIntervalMs float64 `yaml:"fps_report_interval_ms"`
	FallbackFPS         int     `yaml:"fallback_fps"`
}

// SchedulerConfig 帧调度策略
type SchedulerConfig struct {
	// Preferred 优先使用的策略："auto"、"vsync"、"fixed-tps"、"timer"
	Preferred string `yaml:"preferred"`
	// VSyncDefects 已知垂直同步限帧有缺陷的平台，格式 "GOOS/GOARCH" 或 "mobile"
	VSyncDefects []string `yaml:"vsync_defects"`
}

// AssetsConfig 资源加载参数
type AssetsConfig struct {
	ResourceConfig string `yaml:"resource_config"` // 资源表路径
	LoadTimeoutMs  int    `yaml:"load_timeout_ms"` // 单次加载超时
	LoadRetries    int    `yaml:"load_retries"`    // 超时或失败后的重试次数
}

// DefaultGameConfig 返回全部字段都取缺省值的配置
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Window: WindowConfig{
			Width:  DefaultWindowWidth,
			Height: DefaultWindowHeight,
			Title:  "Jungle Runner",
		},
		Tracks: TrackConfig{Track1: 323, Track2: 223, Track3: 123},
		Platforms: PlatformStyle{
			Height:      8,
			StrokeWidth: 2,
			StrokeStyle: "#0000ff",
		},
		Motion: MotionConfig{
			BackgroundVelocity: DefaultBackgroundVelocity,
			PlatformMultiplier: PlatformVelocityMultiplier,
			WrapMode:           WrapModeReset,
		},
		Background: BackgroundConfig{Image: "IMAGE_BACKGROUND"},
		Runner:     RunnerConfig{Image: "IMAGE_RUNNER", Left: 50, Top: 280},
		Timing: TimingConfig{
			FPSReportIntervalMs: DefaultFPSReportIntervalMs,
			FallbackFPS:         DefaultFallbackFPS,
		},
		Scheduler: SchedulerConfig{Preferred: "auto"},
		Assets: AssetsConfig{
			ResourceConfig: "assets/config/resources.yaml",
			LoadTimeoutMs:  5000,
		},
		Level: "data/levels/level-1.yaml",
	}
}

// LoadGameConfig 从磁盘读取 YAML 游戏配置
func LoadGameConfig(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game config file %s: %w", path, err)
	}
	cfg, err := ParseGameConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseGameConfig 解析 YAML 游戏配置（用于嵌入资源）
//
// YAML 解码到缺省配置之上，只覆盖文件中出现的键，
// 所以显式写出的 0（轨道高度、速度、角色坐标）会被保留。
func ParseGameConfig(data []byte) (*GameConfig, error) {
	cfg := DefaultGameConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse game config YAML: %w", err)
	}
	applyGameDefaults(cfg)
	if err := validateGameConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}
	return cfg, nil
}

// applyGameDefaults 恢复显式写成空值、但空值没有意义的字段
// 例如 "window: {width: 0}" 或 "level: \"\""
func applyGameDefaults(cfg *GameConfig) {
	def := DefaultGameConfig()

	if cfg.Window.Width == 0 {
		cfg.Window.Width = def.Window.Width
	}
	if cfg.Window.Height == 0 {
		cfg.Window.Height = def.Window.Height
	}
	if cfg.Window.Title == "" {
		cfg.Window.Title = def.Window.Title
	}
	if cfg.Platforms.StrokeStyle == "" {
		cfg.Platforms.StrokeStyle = def.Platforms.StrokeStyle
	}
	if cfg.Motion.WrapMode == "" {
		cfg.Motion.WrapMode = def.Motion.WrapMode
	}
	if cfg.Background.Image == "" {
		cfg.Background.Image = def.Background.Image
	}
	if cfg.Runner.Image == "" {
		cfg.Runner.Image = def.Runner.Image
	}
	if cfg.Timing.FPSReportIntervalMs == 0 {
		cfg.Timing.FPSReportIntervalMs = def.Timing.FPSReportIntervalMs
	}
	if cfg.Timing.FallbackFPS == 0 {
		cfg.Timing.FallbackFPS = def.Timing.FallbackFPS
	}
	if cfg.Scheduler.Preferred == "" {
		cfg.Scheduler.Preferred = def.Scheduler.Preferred
	}
	if cfg.Assets.ResourceConfig == "" {
		cfg.Assets.ResourceConfig = def.Assets.ResourceConfig
	}
	if cfg.Assets.LoadTimeoutMs == 0 {
		cfg.Assets.LoadTimeoutMs = def.Assets.LoadTimeoutMs
	}
	if cfg.Level == "" {
		cfg.Level = def.Level
	}
}

// validateGameConfig 校验配置合法性
func validateGameConfig(cfg *GameConfig) error {
	if cfg.Window.Width < 0 || cfg.Window.Height < 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	for i, h := range cfg.Tracks.Heights() {
		if h < 0 {
			return fmt.Errorf("track_%d: height cannot be negative, got %v", i+1, h)
		}
	}
	if cfg.Platforms.Height < 0 || cfg.Platforms.StrokeWidth < 0 {
		return fmt.Errorf("platform height and stroke width cannot be negative")
	}
	if cfg.Motion.PlatformMultiplier < 0 {
		return fmt.Errorf("platform_multiplier cannot be negative, got %v", cfg.Motion.PlatformMultiplier)
	}
	if cfg.Motion.WrapMode != WrapModeReset && cfg.Motion.WrapMode != WrapModeModulo {
		return fmt.Errorf("wrap_mode must be one of: %s, %s, got %q", WrapModeReset, WrapModeModulo, cfg.Motion.WrapMode)
	}
	if cfg.Timing.FPSReportIntervalMs < 0 {
		return fmt.Errorf("fps_report_interval_ms cannot be negative")
	}
	if cfg.Timing.FallbackFPS < 0 {
		return fmt.Errorf("fallback_fps cannot be negative, got %d", cfg.Timing.FallbackFPS)
	}
	validSchedulers := map[string]bool{
		"auto":      true,
		"vsync":     true,
		"fixed-tps": true,
		"timer":     true,
	}
	if !validSchedulers[cfg.Scheduler.Preferred] {
		return fmt.Errorf("scheduler.preferred must be one of: auto, vsync, fixed-tps, timer, got %q", cfg.Scheduler.Preferred)
	}
	if cfg.Assets.LoadTimeoutMs < 0 || cfg.Assets.LoadRetries < 0 {
		return fmt.Errorf("assets load_timeout_ms and load_retries cannot be negative")
	}
	return nil
}
