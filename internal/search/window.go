// Package search implements the parallel bisection coordinator: it
// decides which indices to probe, folds completions into a shrinking
// [good, bad] window, and determines the first bad index.
package search

import "fmt"

// Range is the immutable problem input, inclusive on both ends.
type Range struct {
	Low  int64
	High int64
}

// Valid reports whether the range is well-formed.
func (r Range) Valid() bool {
	return r.Low <= r.High
}

// Size returns the number of indices in the range.
func (r Range) Size() int64 {
	if !r.Valid() {
		return 0
	}
	return r.High - r.Low + 1
}

// Window is the coordinator's current best-known (good, bad) pair
// bracketing the boundary. Every index <= Good is known or assumed to
// pass, every index >= Bad is known or assumed to fail. Initialized to
// the sentinels low-1 and high+1: nothing proven yet on either side.
type Window struct {
	Good int64
	Bad  int64
}

// NewWindow returns the initial sentinel window for a range.
func NewWindow(r Range) Window {
	return Window{Good: r.Low - 1, Bad: r.High + 1}
}

// Fold tightens the window with one probe verdict. Pass raises Good,
// Fail lowers Bad. Each update is a monotone max/min, so folds are
// commutative and idempotent: applying results in any order, or a
// stale result twice, yields the same window.
func (w *Window) Fold(index int64, pass bool) {
	if pass {
		if index > w.Good {
			w.Good = index
		}
	} else {
		if index < w.Bad {
			w.Bad = index
		}
	}
}

// Width returns Bad - Good. The search is complete at width 1.
func (w Window) Width() int64 {
	return w.Bad - w.Good
}

// Done reports whether the boundary has been pinned down.
func (w Window) Done() bool {
	return w.Width() == 1
}

// Check validates the Good < Bad invariant. A violation means the
// predicate was not monotonic (or a fold bug) and the search result
// would be meaningless.
func (w Window) Check() error {
	if w.Good >= w.Bad {
		return fmt.Errorf("window invariant violated: good bound %d >= bad bound %d (is the predicate monotonic?)", w.Good, w.Bad)
	}
	return nil
}

// Undetermined returns the closed interval of indices whose verdict is
// still unknown: the open interval (Good, Bad). The second return is
// false when no indices remain.
func (w Window) Undetermined() (lo, hi int64, ok bool) {
	lo, hi = w.Good+1, w.Bad-1
	return lo, hi, lo <= hi
}

// Boundary is the search result: the first bad index, or Found=false
// when every index in the range passed.
type Boundary struct {
	Found bool
	Index int64
}

// Resolve converts a finished window into a Boundary for the range.
func (w Window) Resolve(r Range) Boundary {
	if w.Bad > r.High {
		return Boundary{}
	}
	return Boundary{Found: true, Index: w.Bad}
}
