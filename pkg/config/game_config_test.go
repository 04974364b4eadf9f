package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestDefaultGameConfig 验证缺省值
func TestDefaultGameConfig(t *testing.T) {
	cfg := DefaultGameConfig()

	if got := cfg.Tracks.Heights(); got != [TrackCount]float64{323, 223, 123} {
		t.Errorf("track heights = %v, want [323 223 123]", got)
	}
	if cfg.Platforms.Height != 8 {
		t.Errorf("platform height = %v, want 8", cfg.Platforms.Height)
	}
	if cfg.Platforms.StrokeWidth != 2 {
		t.Errorf("stroke width = %v, want 2", cfg.Platforms.StrokeWidth)
	}
	if cfg.Motion.BackgroundVelocity != 45 {
		t.Errorf("background velocity = %v, want 45", cfg.Motion.BackgroundVelocity)
	}
	if cfg.Motion.PlatformMultiplier != 4.35 {
		t.Errorf("platform multiplier = %v, want 4.35", cfg.Motion.PlatformMultiplier)
	}
	if cfg.Motion.WrapMode != WrapModeReset {
		t.Errorf("wrap mode = %q, want %q", cfg.Motion.WrapMode, WrapModeReset)
	}
	if cfg.Runner.Left != 50 || cfg.Runner.Top != 280 {
		t.Errorf("runner position = (%v, %v), want (50, 280)", cfg.Runner.Left, cfg.Runner.Top)
	}
	if cfg.Timing.FPSReportIntervalMs != 1000 {
		t.Errorf("fps report interval = %v, want 1000", cfg.Timing.FPSReportIntervalMs)
	}
	if cfg.Timing.FallbackFPS != 60 {
		t.Errorf("fallback fps = %v, want 60", cfg.Timing.FallbackFPS)
	}
	if cfg.Scheduler.Preferred != "auto" {
		t.Errorf("scheduler = %q, want auto", cfg.Scheduler.Preferred)
	}
}

// TestParseGameConfigOverrides 测试部分覆盖
func TestParseGameConfigOverrides(t *testing.T) {
	data := []byte(`
window:
  width: 640
motion:
  background_velocity: -30
  wrap_mode: modulo
scheduler:
  preferred: timer
  vsync_defects: ["linux/arm", "mobile"]
`)
	cfg, err := ParseGameConfig(data)
	if err != nil {
		t.Fatalf("ParseGameConfig() error: %v", err)
	}

	if cfg.Window.Width != 640 {
		t.Errorf("width = %d, want 640", cfg.Window.Width)
	}
	if cfg.Window.Height != DefaultWindowHeight {
		t.Errorf("height = %d, want default %d", cfg.Window.Height, DefaultWindowHeight)
	}
	if cfg.Motion.BackgroundVelocity != -30 {
		t.Errorf("velocity = %v, want -30", cfg.Motion.BackgroundVelocity)
	}
	if cfg.Motion.WrapMode != WrapModeModulo {
		t.Errorf("wrap mode = %q, want modulo", cfg.Motion.WrapMode)
	}
	if len(cfg.Scheduler.VSyncDefects) != 2 {
		t.Errorf("vsync defects = %v, want 2 entries", cfg.Scheduler.VSyncDefects)
	}
}

// TestParseGameConfigExplicitZero 显式写出的 0 不会被缺省值替换
func TestParseGameConfigExplicitZero(t *testing.T) {
	data := []byte(`
tracks:
  track_1: 0
motion:
  background_velocity: 0
  platform_multiplier: 0
runner:
  left: 0
  top: 0
`)
	cfg, err := ParseGameConfig(data)
	if err != nil {
		t.Fatalf("ParseGameConfig() error: %v", err)
	}

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"轨道1", cfg.Tracks.Track1, 0},
		{"轨道2保持缺省", cfg.Tracks.Track2, 223},
		{"背景速度", cfg.Motion.BackgroundVelocity, 0},
		{"平台倍数", cfg.Motion.PlatformMultiplier, 0},
		{"角色X", cfg.Runner.Left, 0},
		{"角色Y", cfg.Runner.Top, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}
	if cfg.Window.Width != DefaultWindowWidth {
		t.Errorf("width = %d, want default %d", cfg.Window.Width, DefaultWindowWidth)
	}
}

// TestParseGameConfigInvalid 测试非法配置
func TestParseGameConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"未知滚动模式", "motion: {wrap_mode: bounce}", "wrap_mode must be one of"},
		{"未知调度器", "scheduler: {preferred: raf}", "scheduler.preferred must be one of"},
		{"负倍数", "motion: {platform_multiplier: -1}", "platform_multiplier cannot be negative"},
		{"负重试", "assets: {load_retries: -1}", "cannot be negative"},
		{"YAML语法错误", "window: [", "failed to parse game config YAML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGameConfig([]byte(tt.yaml))
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

// TestLoadGameConfig 测试从磁盘加载
func TestLoadGameConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game.yaml")
	if err := os.WriteFile(path, []byte("level: data/levels/level-2.yaml\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadGameConfig(path)
	if err != nil {
		t.Fatalf("LoadGameConfig() error: %v", err)
	}
	if cfg.Level != "data/levels/level-2.yaml" {
		t.Errorf("level = %q, want data/levels/level-2.yaml", cfg.Level)
	}

	if _, err := LoadGameConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
