package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/randomizedcoder/go-parasect/internal/search"
)

func TestFormatExitSummary(t *testing.T) {
	s := Snapshot{
		Elapsed:   3 * time.Second,
		Completed: 12,
		Passes:    7,
		Fails:     5,
		P50:       40 * time.Millisecond,
		P95:       90 * time.Millisecond,
		P99:       120 * time.Millisecond,
	}
	cfg := SummaryConfig{
		Range:       search.Range{Low: 50, High: 500},
		Parallelism: 3,
		Command:     "sh -c 'test $X -lt 70'",
	}

	out := FormatExitSummary(s, cfg)

	for _, want := range []string{
		"Exit Summary",
		"[50, 500] (451 indices)",
		"Parallelism:            3",
		"Total:                12",
		"Passed:               7",
		"Failed:               5",
		"P50 (median):         40ms",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}

	// No stale probes: the line should be omitted
	if strings.Contains(out, "Stale") {
		t.Errorf("summary should omit the stale line when none occurred:\n%s", out)
	}
}

func TestFormatExitSummary_StaleShown(t *testing.T) {
	s := Snapshot{Completed: 2, Passes: 1, Fails: 1, Stale: 1,
		P50: time.Millisecond, P95: time.Millisecond, P99: time.Millisecond}
	cfg := SummaryConfig{Range: search.Range{Low: 0, High: 10}, Parallelism: 4, Command: "p $X"}

	if !strings.Contains(FormatExitSummary(s, cfg), "Stale") {
		t.Error("summary should report stale probes when they occurred")
	}
}

func TestSequentialRounds(t *testing.T) {
	testCases := []struct {
		n    int64
		want int
	}{
		{0, 0},
		{1, 1},
		{3, 2},
		{7, 3},
		{100, 7},
		{1000, 10},
	}
	for _, tc := range testCases {
		if got := sequentialRounds(tc.n); got != tc.want {
			t.Errorf("sequentialRounds(%d) = %d, want %d", tc.n, got, tc.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(90 * time.Minute); got != "01:30:00" {
		t.Errorf("formatDuration(90m) = %q, want 01:30:00", got)
	}
	if got := formatDuration(1500 * time.Millisecond); got != "1.5s" {
		t.Errorf("formatDuration(1.5s) = %q, want 1.5s", got)
	}
}
