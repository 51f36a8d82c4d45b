// Package metrics provides Prometheus metrics for go-parasect.
//
// The metrics server is optional (-metrics flag); a bisection run is
// usually short-lived, but long probe commands can make a run last
// hours, and these gauges make that watchable.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/randomizedcoder/go-parasect/internal/probe"
	"github.com/randomizedcoder/go-parasect/internal/search"
)

var (
	parasectInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "parasect_info",
			Help: "Information about the search (value always 1)",
		},
		[]string{"version", "command"},
	)

	probesDispatchedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "parasect_probes_dispatched_total",
			Help: "Total probes handed to worker slots",
		},
	)

	probesPassedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "parasect_probes_passed_total",
			Help: "Total probes whose command exited 0",
		},
	)

	probesFailedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "parasect_probes_failed_total",
			Help: "Total probes whose command exited nonzero",
		},
	)

	probesStaleTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "parasect_probes_stale_total",
			Help: "Total probe results that landed after the window had passed their index",
		},
	)

	probesInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "parasect_probes_in_flight",
			Help: "Probes currently occupying a worker slot",
		},
	)

	windowGoodBound = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "parasect_window_good_bound",
			Help: "Highest index known to pass",
		},
	)

	windowBadBound = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "parasect_window_bad_bound",
			Help: "Lowest index known to fail",
		},
	)

	windowWidth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "parasect_window_width",
			Help: "Bad bound minus good bound; 1 means the search is done",
		},
	)

	searchProgress = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "parasect_search_progress",
			Help: "Fraction of the original range eliminated (0.0 to 1.0)",
		},
	)

	probeDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "parasect_probe_duration_seconds",
			Help:    "Wall time of individual probe commands",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 16), // 10ms .. ~5m
		},
	)
)

var registerOnce sync.Once

// Register registers all metrics with the default registry.
// Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			parasectInfo,
			probesDispatchedTotal,
			probesPassedTotal,
			probesFailedTotal,
			probesStaleTotal,
			probesInFlight,
			windowGoodBound,
			windowBadBound,
			windowWidth,
			searchProgress,
			probeDurationSeconds,
		)
	})
}

// Collector consumes coordinator events and updates the Prometheus
// metrics. It implements search.Reporter.
type Collector struct {
	rng search.Range
}

// NewCollector registers the metrics and creates a collector for a
// search over the given range.
func NewCollector(rng search.Range, version, command string) *Collector {
	Register()

	parasectInfo.WithLabelValues(version, command).Set(1)
	windowGoodBound.Set(float64(rng.Low - 1))
	windowBadBound.Set(float64(rng.High + 1))
	windowWidth.Set(float64(rng.High - rng.Low + 2))
	searchProgress.Set(0)

	return &Collector{rng: rng}
}

// Publish implements search.Reporter.
func (c *Collector) Publish(ev search.Event) {
	switch e := ev.(type) {
	case search.ProbeDispatched:
		probesDispatchedTotal.Inc()
		probesInFlight.Inc()

	case search.ProbeCompleted:
		probesInFlight.Dec()
		probeDurationSeconds.Observe(e.Duration.Seconds())
		switch e.Outcome {
		case probe.OutcomePass:
			probesPassedTotal.Inc()
		case probe.OutcomeFail:
			probesFailedTotal.Inc()
		}
		if e.Stale {
			probesStaleTotal.Inc()
		}

	case search.WindowNarrowed:
		windowGoodBound.Set(float64(e.Good))
		windowBadBound.Set(float64(e.Bad))
		windowWidth.Set(float64(e.Bad - e.Good))

		total := c.rng.Size()
		if total > 0 {
			left := e.Bad - e.Good - 1
			if left < 0 {
				left = 0
			}
			searchProgress.Set(float64(total-left) / float64(total))
		}

	case search.SearchFinished:
		if e.Err == nil {
			searchProgress.Set(1)
		}
	}
}
