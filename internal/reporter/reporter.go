// Package reporter renders the coordinator's event stream.
//
// Two renderers exist: the line reporter here, which writes a flat
// human-readable log for non-interactive output, and the terminal
// dashboard in internal/tui. Both consume the same events; the
// coordinator never prints directly.
package reporter

import (
	"fmt"
	"io"
	"time"

	"github.com/randomizedcoder/go-parasect/internal/probe"
	"github.com/randomizedcoder/go-parasect/internal/search"
)

// Multi fans one event stream out to several reporters, so the stats
// and metrics collectors can observe the same events as the UI.
type Multi []search.Reporter

// Publish implements search.Reporter.
func (m Multi) Publish(ev search.Event) {
	for _, r := range m {
		r.Publish(ev)
	}
}

// Line renders events as one log line each. The final line for a
// successful search is exactly "First bad index: <N>", or
// "No bad index found in range." when every index passed.
type Line struct {
	w io.Writer
}

// NewLine creates a line reporter writing to w.
func NewLine(w io.Writer) *Line {
	return &Line{w: w}
}

// Publish implements search.Reporter.
func (l *Line) Publish(ev search.Event) {
	switch e := ev.(type) {
	case search.ProbeDispatched:
		fmt.Fprintf(l.w, "Probing index %d\n", e.Index)

	case search.ProbeCompleted:
		verdict := describeOutcome(e.Outcome, e.ExitCode)
		if e.Stale {
			fmt.Fprintf(l.w, "Index %d: %s in %s (stale, window already passed it)\n",
				e.Index, verdict, e.Duration.Round(roundTo(e.Duration)))
		} else {
			fmt.Fprintf(l.w, "Index %d: %s in %s\n",
				e.Index, verdict, e.Duration.Round(roundTo(e.Duration)))
		}

	case search.WindowNarrowed:
		fmt.Fprintf(l.w, "Window narrowed to (%d, %d), %d candidates left\n",
			e.Good, e.Bad, remaining(e.Good, e.Bad))

	case search.SearchFinished:
		if e.Err != nil {
			fmt.Fprintf(l.w, "Search aborted: %v\n", e.Err)
			return
		}
		if e.Boundary.Found {
			fmt.Fprintf(l.w, "First bad index: %d\n", e.Boundary.Index)
		} else {
			fmt.Fprintln(l.w, "No bad index found in range.")
		}
	}
}

func describeOutcome(o probe.Outcome, exitCode int) string {
	switch o {
	case probe.OutcomePass:
		return "pass"
	case probe.OutcomeFail:
		return fmt.Sprintf("FAIL (exit %d)", exitCode)
	default:
		return "spawn error"
	}
}

// roundTo keeps short probe durations readable without printing
// nanosecond noise on long ones.
func roundTo(d time.Duration) time.Duration {
	if d >= 10*time.Millisecond {
		return time.Millisecond
	}
	return time.Microsecond
}

func remaining(good, bad int64) int64 {
	n := bad - good - 1
	if n < 0 {
		return 0
	}
	return n
}
