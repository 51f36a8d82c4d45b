package stats

import (
	"errors"
	"testing"
	"time"

	"github.com/randomizedcoder/go-parasect/internal/probe"
	"github.com/randomizedcoder/go-parasect/internal/search"
)

func TestTracker_InitialSnapshot(t *testing.T) {
	tracker := NewTracker(search.Range{Low: 10, High: 20})
	s := tracker.GetSnapshot()

	if s.Completed != 0 || s.Dispatched != 0 {
		t.Errorf("fresh tracker has counts: %+v", s)
	}
	if s.Good != 9 || s.Bad != 21 {
		t.Errorf("window = (%d, %d), want sentinels (9, 21)", s.Good, s.Bad)
	}
	if s.Progress != 0 {
		t.Errorf("Progress = %.2f, want 0", s.Progress)
	}
	if s.Finished {
		t.Error("fresh tracker should not be finished")
	}
}

func TestTracker_CountsOutcomes(t *testing.T) {
	tracker := NewTracker(search.Range{Low: 0, High: 100})

	tracker.Publish(search.ProbeDispatched{Index: 10})
	tracker.Publish(search.ProbeDispatched{Index: 20})
	tracker.Publish(search.ProbeDispatched{Index: 30})

	tracker.Publish(search.ProbeCompleted{Index: 10, Outcome: probe.OutcomePass, Duration: 10 * time.Millisecond})
	tracker.Publish(search.ProbeCompleted{Index: 20, Outcome: probe.OutcomeFail, Duration: 20 * time.Millisecond})
	tracker.Publish(search.ProbeCompleted{Index: 30, Outcome: probe.OutcomePass, Duration: 30 * time.Millisecond, Stale: true})

	s := tracker.GetSnapshot()
	if s.Dispatched != 3 || s.Completed != 3 {
		t.Errorf("dispatched/completed = %d/%d, want 3/3", s.Dispatched, s.Completed)
	}
	if s.InFlight != 0 {
		t.Errorf("InFlight = %d, want 0", s.InFlight)
	}
	if s.Passes != 2 || s.Fails != 1 {
		t.Errorf("passes/fails = %d/%d, want 2/1", s.Passes, s.Fails)
	}
	if s.Stale != 1 {
		t.Errorf("Stale = %d, want 1", s.Stale)
	}
	if s.P50 <= 0 {
		t.Errorf("P50 = %v, want > 0 after completions", s.P50)
	}
}

func TestTracker_Progress(t *testing.T) {
	tracker := NewTracker(search.Range{Low: 0, High: 99})

	// Half the range eliminated: 49 candidates left of 100
	tracker.Publish(search.WindowNarrowed{Good: 25, Bad: 75})

	s := tracker.GetSnapshot()
	if !s.HaveWindow {
		t.Error("HaveWindow should be set after a WindowNarrowed event")
	}
	if s.Progress < 0.5 || s.Progress > 0.52 {
		t.Errorf("Progress = %.2f, want ~0.51", s.Progress)
	}

	// Closed window: everything eliminated
	tracker.Publish(search.WindowNarrowed{Good: 49, Bad: 50})
	s = tracker.GetSnapshot()
	if s.Progress != 1 {
		t.Errorf("Progress = %.2f, want 1 for a closed window", s.Progress)
	}
}

func TestTracker_Finished(t *testing.T) {
	tracker := NewTracker(search.Range{Low: 0, High: 10})

	tracker.Publish(search.SearchFinished{
		Boundary: search.Boundary{Found: true, Index: 4},
	})

	s := tracker.GetSnapshot()
	if !s.Finished {
		t.Error("Finished should be set")
	}
	if !s.Boundary.Found || s.Boundary.Index != 4 {
		t.Errorf("Boundary = %+v", s.Boundary)
	}
	if s.Err != nil {
		t.Errorf("Err = %v, want nil", s.Err)
	}
}

func TestTracker_FinishedWithError(t *testing.T) {
	tracker := NewTracker(search.Range{Low: 0, High: 10})

	cause := errors.New("spawn failed")
	tracker.Publish(search.SearchFinished{Err: cause})

	s := tracker.GetSnapshot()
	if !errors.Is(s.Err, cause) {
		t.Errorf("Err = %v, want the abort cause", s.Err)
	}
}
