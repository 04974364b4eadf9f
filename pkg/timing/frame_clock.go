// Package timing measures frame durations and frame rate for the animation
// loop. All timestamps and durations are in milliseconds.
package timing

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidTimestamp is returned for NaN or infinite timestamps.
	ErrInvalidTimestamp = errors.New("invalid frame timestamp")
	// ErrNonMonotonicTimestamp is returned when a timestamp is earlier than
	// the previous one.
	ErrNonMonotonicTimestamp = errors.New("non-monotonic frame timestamp")
)

// DefaultReportInterval is the minimum gap between two frame-rate reports.
const DefaultReportInterval = 1000.0

// FrameSample is the result of one FrameClock tick.
type FrameSample struct {
	Now      float64
	Duration float64 // time since the previous tick, 0 on the first tick
	FPS      float64 // 0 until a non-zero duration has been seen
	// Report is true when the readout should be refreshed this tick.
	Report bool
}

// Text formats the frame rate for the debug readout.
func (s FrameSample) Text() string {
	return fmt.Sprintf("Frame Rate: %.0f", s.FPS)
}

// FrameClock tracks the time between successive animation ticks.
type FrameClock struct {
	reportInterval float64

	lastTimestamp float64
	lastDuration  float64
	fps           float64
	lastReport    float64
	hasTimestamp  bool
	hasFPS        bool
}

// NewFrameClock creates a clock reporting at most once per interval ms.
// A non-positive interval falls back to DefaultReportInterval.
func NewFrameClock(reportInterval float64) *FrameClock {
	if reportInterval <= 0 {
		reportInterval = DefaultReportInterval
	}
	return &FrameClock{reportInterval: reportInterval}
}

// Tick records a frame at timestamp now.
//
// The first tick has no previous timestamp, so its duration is 0 and no fps
// is derived from it. A report is due when an fps sample exists and more
// than the report interval has passed since the last report.
//
// On error the clock is left unchanged and the sample has zero duration.
func (c *FrameClock) Tick(now float64) (FrameSample, error) {
	if math.IsNaN(now) || math.IsInf(now, 0) {
		return FrameSample{Now: now, FPS: c.fps}, fmt.Errorf("%w: %v", ErrInvalidTimestamp, now)
	}
	if c.hasTimestamp && now < c.lastTimestamp {
		return FrameSample{Now: now, FPS: c.fps},
			fmt.Errorf("%w: %v after %v", ErrNonMonotonicTimestamp, now, c.lastTimestamp)
	}

	var duration float64
	if c.hasTimestamp {
		duration = now - c.lastTimestamp
		if duration > 0 {
			c.fps = 1000 / duration
			c.hasFPS = true
		}
	}

	sample := FrameSample{Now: now, Duration: duration, FPS: c.fps}
	if c.hasFPS && now-c.lastReport > c.reportInterval {
		sample.Report = true
		c.lastReport = now
	}

	c.lastTimestamp = now
	c.lastDuration = duration
	c.hasTimestamp = true
	return sample, nil
}

// LastDuration returns the duration of the most recent valid tick.
func (c *FrameClock) LastDuration() float64 { return c.lastDuration }

// FPS returns the latest frame-rate estimate.
func (c *FrameClock) FPS() float64 { return c.fps }
