package search

import (
	"time"

	"github.com/randomizedcoder/go-parasect/internal/probe"
)

// Event is one entry in the ordered lifecycle stream the coordinator
// emits. Renderers (terminal dashboard, line log, stats collectors)
// consume events without touching coordinator state.
type Event interface {
	isEvent()
}

// ProbeDispatched is emitted when a candidate index is handed to a
// worker slot.
type ProbeDispatched struct {
	Index int64
}

// ProbeCompleted is emitted when a probe's process has exited and its
// outcome was observed.
type ProbeCompleted struct {
	Index    int64
	Outcome  probe.Outcome
	ExitCode int
	Duration time.Duration

	// Stale marks a result whose index had already fallen outside the
	// undetermined interval when it landed. It is folded anyway (the
	// fold is idempotent) but never triggered a window change.
	Stale bool
}

// WindowNarrowed is emitted after a fold tightened either bound.
type WindowNarrowed struct {
	Good int64
	Bad  int64
}

// SearchFinished terminates the stream. Either Boundary is meaningful
// (Err == nil) or Err explains the abort.
type SearchFinished struct {
	Boundary Boundary
	Err      error
}

func (ProbeDispatched) isEvent() {}
func (ProbeCompleted) isEvent()  {}
func (WindowNarrowed) isEvent()  {}
func (SearchFinished) isEvent()  {}

// Reporter receives the coordinator's event stream. Publish is called
// from the coordinator's single consumer loop, so implementations see
// events in order and need no locking against the coordinator.
type Reporter interface {
	Publish(Event)
}

// NopReporter discards all events.
type NopReporter struct{}

// Publish implements Reporter.
func (NopReporter) Publish(Event) {}
