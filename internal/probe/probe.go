// Package probe runs one external predicate command per candidate
// index and classifies its exit status.
package probe

import (
	"fmt"
	"time"
)

// Outcome classifies a completed probe.
type Outcome int

const (
	// OutcomePass means the command exited 0: the index is good.
	OutcomePass Outcome = iota

	// OutcomeFail means the command exited nonzero: the index is bad.
	OutcomeFail

	// OutcomeSpawnError means the command could not be started, or was
	// killed by a signal before producing an exit code. Fatal to the
	// whole search; never retried.
	OutcomeSpawnError
)

// Passed reports whether the outcome is OutcomePass.
func (o Outcome) Passed() bool {
	return o == OutcomePass
}

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomePass:
		return "pass"
	case OutcomeFail:
		return "fail"
	case OutcomeSpawnError:
		return "spawn_error"
	default:
		return "unknown"
	}
}

// State is the lifecycle state of a probe.
type State int

const (
	// StatePending means the probe was selected but not yet started.
	StatePending State = iota

	// StateRunning means the probe's process is executing.
	StateRunning

	// StateCompleted means the probe has an Outcome.
	StateCompleted
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single probe execution. Ownership
// transfers back to the coordinator when the result is delivered.
type Result struct {
	Index    int64
	Outcome  Outcome
	ExitCode int           // valid when Outcome is Pass or Fail
	Signaled bool          // process was killed by a signal
	Err      error         // underlying OS error for OutcomeSpawnError
	Duration time.Duration // wall time from start to exit
}

// SpawnError carries the failing index, the command, and the
// underlying OS diagnostic for a probe that could not run.
type SpawnError struct {
	Index   int64
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("probe at index %d could not run (%s): %v", e.Index, e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}
