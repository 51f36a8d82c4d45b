package stats

import (
	"fmt"
	"strings"
	"time"

	"github.com/randomizedcoder/go-parasect/internal/search"
)

// SummaryConfig holds run facts the snapshot does not carry.
type SummaryConfig struct {
	// Range is the searched range.
	Range search.Range

	// Parallelism is the configured slot count.
	Parallelism int

	// Command is the raw (unsubstituted) probe command line.
	Command string
}

// FormatExitSummary formats the end-of-run statistics block printed
// after the result line in log mode.
func FormatExitSummary(s Snapshot, cfg SummaryConfig) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("═══════════════════════════════════════════════════════════════════\n")
	b.WriteString("                      go-parasect Exit Summary\n")
	b.WriteString("═══════════════════════════════════════════════════════════════════\n")
	fmt.Fprintf(&b, "Range:                  [%d, %d] (%d indices)\n",
		cfg.Range.Low, cfg.Range.High, cfg.Range.Size())
	fmt.Fprintf(&b, "Parallelism:            %d\n", cfg.Parallelism)
	fmt.Fprintf(&b, "Command:                %s\n", cfg.Command)
	fmt.Fprintf(&b, "Wall Time:              %s\n", formatDuration(s.Elapsed))
	b.WriteString("\n")

	b.WriteString("Probes:\n")
	fmt.Fprintf(&b, "  Total:                %d\n", s.Completed)
	fmt.Fprintf(&b, "  Passed:               %d\n", s.Passes)
	fmt.Fprintf(&b, "  Failed:               %d\n", s.Fails)
	if s.Stale > 0 {
		fmt.Fprintf(&b, "  Stale:                %d\n", s.Stale)
	}
	if s.Rate.AvgOverall > 0 {
		fmt.Fprintf(&b, "  Rate:                 %.1f/s\n", s.Rate.AvgOverall)
	}
	b.WriteString("\n")

	if s.Completed > 0 {
		b.WriteString("Probe Latency:\n")
		fmt.Fprintf(&b, "  P50 (median):         %s\n", s.P50.Round(time.Millisecond))
		fmt.Fprintf(&b, "  P95:                  %s\n", s.P95.Round(time.Millisecond))
		fmt.Fprintf(&b, "  P99:                  %s\n", s.P99.Round(time.Millisecond))
		b.WriteString("\n")
	}

	// Sequential bisection would have taken ceil(log2(size)) probes of
	// median latency each; handy for judging the parallel speedup.
	if seq := sequentialRounds(cfg.Range.Size()); seq > 0 && s.Completed > 0 {
		fmt.Fprintf(&b, "Sequential bisection would need ~%d rounds; this run used %d probes across %d slots.\n",
			seq, s.Completed, cfg.Parallelism)
	}

	b.WriteString("═══════════════════════════════════════════════════════════════════\n")

	return b.String()
}

// sequentialRounds returns ceil(log2(n+1)), the probe count classical
// bisection needs to pin the boundary in a range of n indices.
func sequentialRounds(n int64) int {
	if n <= 0 {
		return 0
	}
	rounds := 0
	// width of the undetermined window starts at n+1 candidate boundaries
	for w := n + 1; w > 1; w = (w + 1) / 2 {
		rounds++
	}
	return rounds
}

// formatDuration formats a duration as HH:MM:SS for hours-long runs
// and a compact form for short ones.
func formatDuration(d time.Duration) string {
	if d >= time.Hour {
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	if d >= time.Second {
		return d.Round(10 * time.Millisecond).String()
	}
	return d.Round(time.Microsecond).String()
}
