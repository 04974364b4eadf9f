package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/decker502/junglerun/pkg/config"
	"github.com/decker502/junglerun/pkg/game"
	"github.com/decker502/junglerun/pkg/render"
)

// stepClock advances by a fixed step on every read.
type stepClock struct {
	now, step float64
}

func (c *stepClock) Millis() float64 {
	t := c.now
	c.now += c.step
	return t
}

type recordingReadout struct {
	texts []string
}

func (r *recordingReadout) SetText(text string) { r.texts = append(r.texts, text) }

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(0, 0, color.RGBA{0, 0, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

const driverResources = `base_path: assets
groups:
  run:
    images:
      - id: IMAGE_BACKGROUND
        path: images/jungle_game_background.png
      - id: IMAGE_RUNNER
        path: images/samus.png
`

func newTestResourceManager(t *testing.T, withRunner bool) *game.ResourceManager {
	t.Helper()
	fsys := fstest.MapFS{
		"assets/config/resources.yaml":              {Data: []byte(driverResources)},
		"assets/images/jungle_game_background.png": {Data: testPNG(t, 1000, 400)},
	}
	if withRunner {
		fsys["assets/images/samus.png"] = &fstest.MapFile{Data: testPNG(t, 40, 60)}
	}
	rm := game.NewResourceManager(fsys)
	if err := rm.LoadResourceConfig("assets/config/resources.yaml"); err != nil {
		t.Fatal(err)
	}
	return rm
}

func testLevels(path string) (*config.LevelConfig, error) {
	if path != "data/levels/level-1.yaml" {
		return nil, fmt.Errorf("unknown level %s", path)
	}
	return &config.LevelConfig{
		ID: "level-1",
		Platforms: []config.PlatformConfig{
			{Left: 10, Width: 230, FillStyle: "rgb(250,250,0)", Track: 1},
			{Left: 220, Width: 140, FillStyle: "rgb(250,250,0)", Track: 2},
		},
	}, nil
}

// TestDriver_RunsFrames 驱动在资源就绪后进入运行状态并逐帧推进
func TestDriver_RunsFrames(t *testing.T) {
	cfg := config.DefaultGameConfig()
	cfg.Assets.LoadTimeoutMs = 2000

	rec := render.NewRecorder()
	scheduler := NewTimerScheduler(SchedulerOptions{
		FPS:       1000,
		MaxFrames: 5,
		Surface:   rec,
		Clock:     &stepClock{step: 300},
	})
	readout := &recordingReadout{}
	d := NewDriver(cfg, newTestResourceManager(t, true), rec, scheduler, readout, testLevels)

	if d.State() != StateWaitingForAssets {
		t.Fatalf("initial state = %v, want waiting-for-assets", d.State())
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if d.State() != StateRunning {
		t.Errorf("state = %v, want running", d.State())
	}

	stats := d.Stats()
	if stats.Frames != 5 {
		t.Errorf("frames = %d, want 5", stats.Frames)
	}
	if rec.Frames != 5 {
		t.Errorf("recorder frames = %d, want 5", rec.Frames)
	}

	// 时间戳 0,300,...,1200：只在 1200ms 时刷新一次读数
	if len(readout.texts) != 1 || readout.texts[0] != "Frame Rate: 3" {
		t.Errorf("readout = %v, want [Frame Rate: 3]", readout.texts)
	}

	// 最后一帧：背景两张、两个平台、一个角色
	var images, rects int
	for _, op := range rec.Ops {
		switch op.Kind {
		case render.OpDrawImage:
			images++
		case render.OpStrokeFillRect:
			rects++
		}
	}
	if images != 3 || rects != 2 {
		t.Errorf("last frame drew %d images and %d rects, want 3 and 2", images, rects)
	}

	if err := d.Prepare(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Prepare() error = %v, want ErrAlreadyRunning", err)
	}
}

// TestDriver_AssetFailure 图片缺失时不进入运行状态
func TestDriver_AssetFailure(t *testing.T) {
	cfg := config.DefaultGameConfig()
	cfg.Assets.LoadTimeoutMs = 200
	cfg.Assets.LoadRetries = 1

	rec := render.NewRecorder()
	scheduler := NewTimerScheduler(SchedulerOptions{FPS: 1000, MaxFrames: 1, Surface: rec})
	d := NewDriver(cfg, newTestResourceManager(t, false), rec, scheduler, nil, testLevels)

	if err := d.Start(context.Background()); err == nil {
		t.Fatal("Start() should fail when the runner image is missing")
	}
	if d.State() != StateWaitingForAssets {
		t.Errorf("state = %v, want waiting-for-assets", d.State())
	}
	if rec.Frames != 0 {
		t.Errorf("rendered %d frames before assets were ready", rec.Frames)
	}
}

// TestDriver_BadTimestamp 时间戳倒退时按零时长处理，循环继续
func TestDriver_BadTimestamp(t *testing.T) {
	cfg := config.DefaultGameConfig()
	rec := render.NewRecorder()
	scheduler := NewTimerScheduler(SchedulerOptions{
		FPS:       1000,
		MaxFrames: 3,
		Surface:   rec,
		Clock:     &stepClock{now: 1000, step: -10},
	})
	d := NewDriver(cfg, newTestResourceManager(t, true), rec, scheduler, nil, testLevels)

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if d.Stats().Frames != 3 {
		t.Errorf("frames = %d, want 3", d.Stats().Frames)
	}
	// 背景位移保持为 0
	if len(rec.Ops) == 0 || rec.Ops[0].Kind != render.OpTranslate || rec.Ops[0].X != 0 {
		t.Errorf("first op = %v, want translate(0)", rec.Ops)
	}
}

func TestDriver_UnknownLevel(t *testing.T) {
	cfg := config.DefaultGameConfig()
	cfg.Level = "data/levels/level-9.yaml"
	rec := render.NewRecorder()
	d := NewDriver(cfg, newTestResourceManager(t, true), rec,
		NewTimerScheduler(SchedulerOptions{Surface: rec}), nil, testLevels)

	if err := d.Prepare(context.Background()); err == nil {
		t.Fatal("Prepare() should fail for an unknown level")
	}
	if d.State() != StateWaitingForAssets {
		t.Errorf("state = %v, want waiting-for-assets", d.State())
	}
}
