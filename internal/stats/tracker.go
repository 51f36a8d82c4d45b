// Package stats aggregates probe statistics for the dashboard and the
// exit summary.
package stats

import (
	"sync"
	"time"

	"github.com/influxdata/tdigest"

	"github.com/randomizedcoder/go-parasect/internal/probe"
	"github.com/randomizedcoder/go-parasect/internal/search"
	"github.com/randomizedcoder/go-parasect/internal/timeseries"
)

// Tracker consumes the coordinator's event stream and keeps running
// totals, probe latency percentiles (t-digest), and a rolling
// completion rate. It implements search.Reporter; the dashboard reads
// snapshots from another goroutine, so state is mutex-guarded.
type Tracker struct {
	mu sync.Mutex

	startTime time.Time

	dispatched int64
	completed  int64
	passes     int64
	fails      int64
	stale      int64

	haveWindow bool
	good       int64
	bad        int64
	initial    search.Range

	finished bool
	boundary search.Boundary
	err      error

	// Probe wall-time percentiles, milliseconds
	durations *tdigest.TDigest

	rate *timeseries.RateTracker
}

// NewTracker creates a tracker for a search over the given range.
func NewTracker(rng search.Range) *Tracker {
	return &Tracker{
		startTime: time.Now(),
		initial:   rng,
		good:      rng.Low - 1,
		bad:       rng.High + 1,
		durations: tdigest.NewWithCompression(100),
		rate:      timeseries.NewRateTracker(),
	}
}

// Publish implements search.Reporter.
func (t *Tracker) Publish(ev search.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch e := ev.(type) {
	case search.ProbeDispatched:
		t.dispatched++

	case search.ProbeCompleted:
		t.completed++
		t.rate.Add(1)
		t.durations.Add(float64(e.Duration)/float64(time.Millisecond), 1)
		switch e.Outcome {
		case probe.OutcomePass:
			t.passes++
		case probe.OutcomeFail:
			t.fails++
		}
		if e.Stale {
			t.stale++
		}

	case search.WindowNarrowed:
		t.haveWindow = true
		t.good = e.Good
		t.bad = e.Bad

	case search.SearchFinished:
		t.finished = true
		t.boundary = e.Boundary
		t.err = e.Err
	}
}

// Sample records a rolling-rate sample; the dashboard calls this once
// per tick.
func (t *Tracker) Sample() {
	t.rate.RecordSample()
}

// Snapshot is a point-in-time copy of the tracked state.
type Snapshot struct {
	Elapsed time.Duration

	Dispatched int64
	Completed  int64
	InFlight   int64
	Passes     int64
	Fails      int64
	Stale      int64

	// Current window and the fraction of the original range already
	// eliminated (0.0 to 1.0).
	Good       int64
	Bad        int64
	Progress   float64
	HaveWindow bool

	// Probe latency percentiles
	P50 time.Duration
	P95 time.Duration
	P99 time.Duration

	Rate timeseries.RateStats

	Finished bool
	Boundary search.Boundary
	Err      error
}

// GetSnapshot returns a consistent copy of the current state.
func (t *Tracker) GetSnapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Snapshot{
		Elapsed:    time.Since(t.startTime),
		Dispatched: t.dispatched,
		Completed:  t.completed,
		InFlight:   t.dispatched - t.completed,
		Passes:     t.passes,
		Fails:      t.fails,
		Stale:      t.stale,
		Good:       t.good,
		Bad:        t.bad,
		HaveWindow: t.haveWindow,
		Rate:       t.rate.GetStats(),
		Finished:   t.finished,
		Boundary:   t.boundary,
		Err:        t.err,
	}

	if t.completed > 0 {
		s.P50 = time.Duration(t.durations.Quantile(0.50) * float64(time.Millisecond))
		s.P95 = time.Duration(t.durations.Quantile(0.95) * float64(time.Millisecond))
		s.P99 = time.Duration(t.durations.Quantile(0.99) * float64(time.Millisecond))
	}

	s.Progress = progress(t.initial, t.good, t.bad)

	return s
}

// progress returns the eliminated fraction of the original range.
// Starts at 0 (full range undetermined) and reaches 1 when the window
// closes to width 1.
func progress(rng search.Range, good, bad int64) float64 {
	total := rng.Size() // undetermined indices at the start
	if total <= 0 {
		return 1
	}
	left := bad - good - 1
	if left < 0 {
		left = 0
	}
	if left > total {
		left = total
	}
	return float64(total-left) / float64(total)
}
