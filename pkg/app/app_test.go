package app

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/decker502/junglerun/pkg/embedded"
	"github.com/gdamore/tcell/v2"
)

const appGameYAML = `window:
  title: Test Run
scheduler:
  preferred: auto
assets:
  load_timeout_ms: 2000
`

const appLevelYAML = `id: level-1
platforms:
  - left: 10
    width: 230
    fillStyle: "rgb(250, 250, 0)"
    opacity: 0.5
    track: 1
`

func initTestEmbedded(t *testing.T) {
	t.Helper()
	assets := fstest.MapFS{
		"assets/config/resources.yaml":              {Data: []byte(driverResources)},
		"assets/images/jungle_game_background.png": {Data: testPNG(t, 64, 32)},
		"assets/images/samus.png":                   {Data: testPNG(t, 8, 16)},
	}
	data := fstest.MapFS{
		"data/game.yaml":           {Data: []byte(appGameYAML)},
		"data/levels/level-1.yaml": {Data: []byte(appLevelYAML)},
	}
	embedded.Init(assets, data)
}

// TestApp_Headless 无头模式渲染指定帧数后退出
func TestApp_Headless(t *testing.T) {
	initTestEmbedded(t)

	a, err := NewApp(Config{Backend: BackendHeadless, Frames: 3})
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}
	if a.GameConfig().Window.Title != "Test Run" {
		t.Errorf("title = %q, want Test Run", a.GameConfig().Window.Title)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got := a.Driver().Stats().Frames; got != 3 {
		t.Errorf("frames = %d, want 3", got)
	}
	if a.Driver().State() != StateRunning {
		t.Errorf("state = %v, want running", a.Driver().State())
	}
}

// TestApp_RunWithDiag 帧循环在调用方运行，结束后诊断服务随之关闭
func TestApp_RunWithDiag(t *testing.T) {
	initTestEmbedded(t)

	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer busy.Close()

	tests := []struct {
		name    string
		addr    string
		frames  int
		wantErr bool
	}{
		{"渲染完成后返回", "127.0.0.1:0", 3, false},
		{"端口被占用", busy.Addr().String(), 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewApp(Config{Backend: BackendHeadless, Frames: tt.frames, DiagAddr: tt.addr})
			if err != nil {
				t.Fatalf("NewApp() error: %v", err)
			}
			done := make(chan error, 1)
			go func() { done <- a.Run(context.Background()) }()

			select {
			case err := <-done:
				if (err != nil) != tt.wantErr {
					t.Fatalf("Run() error = %v, wantErr %v", err, tt.wantErr)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("Run() did not return")
			}
			if !tt.wantErr {
				if got := a.Driver().Stats().Frames; got != tt.frames {
					t.Errorf("frames = %d, want %d", got, tt.frames)
				}
			}
		})
	}
}

// TestApp_Terminal 终端后端使用模拟屏幕
func TestApp_Terminal(t *testing.T) {
	initTestEmbedded(t)

	screen := tcell.NewSimulationScreen("UTF-8")
	a, err := NewApp(Config{Backend: BackendTerm, Frames: 2, Screen: screen})
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}
	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got := a.Driver().Stats().Frames; got != 2 {
		t.Errorf("frames = %d, want 2", got)
	}
}

func TestApp_ConfigFromDisk(t *testing.T) {
	initTestEmbedded(t)

	path := filepath.Join(t.TempDir(), "game.yaml")
	if err := os.WriteFile(path, []byte("window:\n  title: From Disk\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	a, err := NewApp(Config{Backend: BackendHeadless, ConfigPath: path, Scheduler: SchedulerTimer})
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}
	if a.GameConfig().Window.Title != "From Disk" {
		t.Errorf("title = %q, want From Disk", a.GameConfig().Window.Title)
	}
	if a.GameConfig().Scheduler.Preferred != SchedulerTimer {
		t.Errorf("scheduler = %q, want timer", a.GameConfig().Scheduler.Preferred)
	}
}

func TestApp_Errors(t *testing.T) {
	initTestEmbedded(t)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"未知后端", Config{Backend: "svg"}},
		{"无头模式不能用窗口调度", Config{Backend: BackendHeadless, Scheduler: SchedulerFixedTPS}},
		{"配置文件不存在", Config{Backend: BackendHeadless, ConfigPath: "/nonexistent/game.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewApp(tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}
