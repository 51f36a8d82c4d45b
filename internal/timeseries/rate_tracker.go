// Package timeseries provides time-windowed rate tracking.
//
// It counts cumulative probe completions and computes rolling
// completion rates over short windows, for the dashboard and the exit
// summary. Thread-safe: Add() uses an atomic counter, GetStats()
// takes a read lock over the sample ring.
package timeseries

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	// ringBufferSize is the number of samples retained (5 minutes at
	// one sample per second, far longer than a typical search).
	ringBufferSize = 300

	// Window durations for rolling rates
	window1s  = 1 * time.Second
	window10s = 10 * time.Second
)

// Clock interface for testing with deterministic time.
type Clock interface {
	Now() time.Time
}

// realClock uses time.Now() for production.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// sample is a point-in-time snapshot of the cumulative count.
type sample struct {
	timestamp time.Time
	count     int64
}

// RateTracker tracks cumulative event completions and computes rolling
// per-second rates.
//
// Usage:
//
//	tracker := NewRateTracker()
//	tracker.Add(1)          // per completed probe (lock-free)
//	tracker.RecordSample()  // periodically, e.g. every TUI tick
//	stats := tracker.GetStats()
type RateTracker struct {
	total atomic.Int64

	samples  []sample
	writeIdx int
	mu       sync.RWMutex

	startTime time.Time
	clock     Clock
}

// RateStats contains computed rolling rates at a point in time.
type RateStats struct {
	// Total is the cumulative count since tracking started.
	Total int64

	// Rolling rates (events per second)
	Avg1s  float64
	Avg10s float64

	// AvgOverall is the rate since tracking started.
	AvgOverall float64
}

// NewRateTracker creates a tracker with the real clock.
func NewRateTracker() *RateTracker {
	return NewRateTrackerWithClock(realClock{})
}

// NewRateTrackerWithClock creates a tracker with a custom clock for
// deterministic tests.
func NewRateTrackerWithClock(clock Clock) *RateTracker {
	now := clock.Now()
	t := &RateTracker{
		samples:   make([]sample, 0, ringBufferSize),
		startTime: now,
		clock:     clock,
	}
	t.samples = append(t.samples, sample{timestamp: now})
	return t
}

// Add adds n to the cumulative count. Lock-free.
func (t *RateTracker) Add(n int64) {
	if n > 0 {
		t.total.Add(n)
	}
}

// RecordSample records the current cumulative count with a timestamp.
// Call periodically; the rolling rates interpolate between samples.
func (t *RateTracker) RecordSample() {
	now := t.clock.Now()
	current := t.total.Load()

	t.mu.Lock()
	defer t.mu.Unlock()

	s := sample{timestamp: now, count: current}

	if len(t.samples) < ringBufferSize {
		t.samples = append(t.samples, s)
	} else {
		t.samples[t.writeIdx] = s
		t.writeIdx = (t.writeIdx + 1) % ringBufferSize
	}
}

// GetStats computes the current rates. Always returns valid data,
// using whatever history is available.
func (t *RateTracker) GetStats() RateStats {
	now := t.clock.Now()
	current := t.total.Load()

	t.mu.RLock()
	defer t.mu.RUnlock()

	stats := RateStats{Total: current}

	elapsed := now.Sub(t.startTime).Seconds()
	if elapsed > 0 {
		stats.AvgOverall = float64(current) / elapsed
	}

	stats.Avg1s = t.rateOverWindow(now, current, window1s)
	stats.Avg10s = t.rateOverWindow(now, current, window10s)

	return stats
}

// rateOverWindow calculates events/sec over the given window.
// Must be called with mu held (at least RLock).
func (t *RateTracker) rateOverWindow(now time.Time, current int64, window time.Duration) float64 {
	if len(t.samples) == 0 {
		return 0
	}

	targetTime := now.Add(-window)

	// Find the sample closest to (but not after) targetTime.
	var best *sample
	var bestDiff time.Duration = -1

	for i := range t.samples {
		s := &t.samples[i]
		if s.timestamp.After(targetTime) {
			continue
		}
		diff := targetTime.Sub(s.timestamp)
		if bestDiff < 0 || diff < bestDiff {
			best = s
			bestDiff = diff
		}
	}

	if best == nil {
		best = t.oldestSample()
	}
	if best == nil {
		return 0
	}

	delta := current - best.count
	actualElapsed := now.Sub(best.timestamp).Seconds()
	if actualElapsed <= 0 {
		return 0
	}

	return float64(delta) / actualElapsed
}

// oldestSample returns the oldest sample in the ring buffer.
// Must be called with mu held.
func (t *RateTracker) oldestSample() *sample {
	if len(t.samples) == 0 {
		return nil
	}
	if len(t.samples) < ringBufferSize {
		return &t.samples[0]
	}
	return &t.samples[t.writeIdx]
}

// SampleCount returns the number of samples in the ring buffer.
// Useful for testing.
func (t *RateTracker) SampleCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.samples)
}
