package timing

import "time"

// TimeProvider supplies frame timestamps in milliseconds since an epoch.
type TimeProvider interface {
	Millis() float64
}

// MonotonicTimeProvider reads the monotonic clock relative to its creation.
type MonotonicTimeProvider struct {
	start time.Time
}

// NewMonotonicTimeProvider starts the epoch now.
func NewMonotonicTimeProvider() *MonotonicTimeProvider {
	return &MonotonicTimeProvider{start: time.Now()}
}

// Millis returns the elapsed time since creation in milliseconds.
func (p *MonotonicTimeProvider) Millis() float64 {
	return float64(time.Since(p.start).Microseconds()) / 1000.0
}
