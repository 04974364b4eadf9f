package timing

import (
	"errors"
	"math"
	"testing"
)

// TestFirstTick 首帧没有上一时间戳，时长为 0 且不产生帧率
func TestFirstTick(t *testing.T) {
	c := NewFrameClock(0)

	s, err := c.Tick(5000)
	if err != nil {
		t.Fatalf("Tick() error: %v", err)
	}
	if s.Duration != 0 {
		t.Errorf("first duration = %v, want 0", s.Duration)
	}
	if s.FPS != 0 {
		t.Errorf("first fps = %v, want 0", s.FPS)
	}
	if s.Report {
		t.Error("first tick must not report a degenerate frame rate")
	}
}

// TestDurationAndFPS 测试时长与帧率计算
func TestDurationAndFPS(t *testing.T) {
	c := NewFrameClock(DefaultReportInterval)
	mustTick(t, c, 100)

	s := mustTick(t, c, 116)
	if s.Duration != 16 {
		t.Errorf("duration = %v, want 16", s.Duration)
	}
	if math.Abs(s.FPS-62.5) > 1e-9 {
		t.Errorf("fps = %v, want 62.5", s.FPS)
	}
	if c.LastDuration() != 16 {
		t.Errorf("LastDuration() = %v, want 16", c.LastDuration())
	}

	// 时长为 0 时保留上一次的帧率
	s = mustTick(t, c, 116)
	if s.Duration != 0 {
		t.Errorf("duration = %v, want 0", s.Duration)
	}
	if math.Abs(s.FPS-62.5) > 1e-9 {
		t.Errorf("fps after zero duration = %v, want 62.5", s.FPS)
	}
}

// TestReportInterval 读数仅在距上次报告超过 1000ms 时刷新
func TestReportInterval(t *testing.T) {
	c := NewFrameClock(DefaultReportInterval)
	mustTick(t, c, 0)

	if s := mustTick(t, c, 1001); !s.Report {
		t.Fatal("expected a report 1001ms after start")
	}

	tests := []struct {
		name   string
		now    float64
		report bool
	}{
		{"999ms后不刷新", 1001 + 999, false},
		{"恰好1000ms不刷新", 1001 + 1000, false},
		{"1001ms后刷新", 1001 + 1001, true},
		{"刚刚刷新过", 1001 + 1001 + 16, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustTick(t, c, tt.now)
			if s.Report != tt.report {
				t.Errorf("Tick(%v).Report = %v, want %v", tt.now, s.Report, tt.report)
			}
		})
	}
}

// TestReportText 测试读数格式
func TestReportText(t *testing.T) {
	s := FrameSample{FPS: 59.7}
	if got := s.Text(); got != "Frame Rate: 60" {
		t.Errorf("Text() = %q, want %q", got, "Frame Rate: 60")
	}
}

// TestInvalidTimestamps 非法时间戳返回错误且不修改时钟状态
func TestInvalidTimestamps(t *testing.T) {
	c := NewFrameClock(DefaultReportInterval)
	mustTick(t, c, 100)
	mustTick(t, c, 120)

	s, err := c.Tick(50)
	if !errors.Is(err, ErrNonMonotonicTimestamp) {
		t.Fatalf("Tick(50) error = %v, want ErrNonMonotonicTimestamp", err)
	}
	if s.Duration != 0 {
		t.Errorf("error sample duration = %v, want 0", s.Duration)
	}
	if c.LastDuration() != 20 {
		t.Errorf("LastDuration() changed to %v after error", c.LastDuration())
	}

	for _, bad := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := c.Tick(bad); !errors.Is(err, ErrInvalidTimestamp) {
			t.Errorf("Tick(%v) error = %v, want ErrInvalidTimestamp", bad, err)
		}
	}

	// 错误之后时钟仍按上一次有效时间戳计算
	s = mustTick(t, c, 140)
	if s.Duration != 20 {
		t.Errorf("duration after errors = %v, want 20", s.Duration)
	}
}

func TestMonotonicTimeProvider(t *testing.T) {
	var p TimeProvider = NewMonotonicTimeProvider()
	first := p.Millis()
	if first < 0 {
		t.Errorf("Millis() = %v, want >= 0", first)
	}
	if second := p.Millis(); second < first {
		t.Errorf("Millis() went backwards: %v then %v", first, second)
	}
}

func mustTick(t *testing.T, c *FrameClock, now float64) FrameSample {
	t.Helper()
	s, err := c.Tick(now)
	if err != nil {
		t.Fatalf("Tick(%v) error: %v", now, err)
	}
	return s
}
