package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/randomizedcoder/go-parasect/internal/probe"
)

// ProbePool is the slice of the worker pool the coordinator needs.
// Results must arrive in completion order, not submission order; the
// opportunistic refill below depends on that.
type ProbePool interface {
	// Submit dispatches a probe. It blocks only when every slot is
	// occupied, which the coordinator avoids by sizing batches to the
	// idle slot count.
	Submit(ctx context.Context, index int64) error

	// Results delivers completed probes as they finish.
	Results() <-chan probe.Result

	// Capacity is the fixed slot count N.
	Capacity() int
}

// Coordinator owns the [good, bad] window and drives it from the
// sentinel state to completion. All window mutation happens on the
// single goroutine running Run, serialized behind the pool's result
// channel, so the window needs no lock.
type Coordinator struct {
	rng      Range
	pool     ProbePool
	reporter Reporter
	logger   *slog.Logger

	window   Window
	inFlight map[int64]struct{}
}

// NewCoordinator validates the configuration and builds a coordinator.
// An invalid range or missing pool is a configuration error, rejected
// before any probe runs.
func NewCoordinator(rng Range, pool ProbePool, reporter Reporter, logger *slog.Logger) (*Coordinator, error) {
	if !rng.Valid() {
		return nil, fmt.Errorf("invalid range: low %d > high %d", rng.Low, rng.High)
	}
	if pool == nil {
		return nil, fmt.Errorf("coordinator requires a worker pool")
	}
	if pool.Capacity() < 1 {
		return nil, fmt.Errorf("max parallelism must be at least 1, got %d", pool.Capacity())
	}
	if reporter == nil {
		reporter = NopReporter{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Coordinator{
		rng:      rng,
		pool:     pool,
		reporter: reporter,
		logger:   logger,
		inFlight: make(map[int64]struct{}),
	}, nil
}

// Window returns the current window. Only meaningful before Run starts
// or after it returns; Run owns the window while it executes.
func (c *Coordinator) Window() Window {
	return c.window
}

// Run executes the search to completion. It returns the boundary, or
// an error for a spawn failure, a cancelled context, or a window
// invariant violation (non-monotonic predicate).
func (c *Coordinator) Run(ctx context.Context) (Boundary, error) {
	c.window = NewWindow(c.rng)

	for !c.window.Done() {
		if err := c.fill(ctx); err != nil {
			return c.abort(ctx, err)
		}

		if len(c.inFlight) == 0 {
			// Undetermined interval exhausted with nothing outstanding
			// and the window still open: cannot happen with a monotone
			// fold, so treat it as an internal error.
			err := fmt.Errorf("no candidates and no in-flight probes with window (%d, %d) still open",
				c.window.Good, c.window.Bad)
			return c.abort(ctx, err)
		}

		select {
		case <-ctx.Done():
			return c.abort(ctx, ctx.Err())
		case res := <-c.pool.Results():
			if err := c.fold(res); err != nil {
				return c.abort(ctx, err)
			}
		}
	}

	// Stale probes may still be running. Let them finish so no child
	// process leaks, and fold their results; the fold is idempotent so
	// this is harmless and may not change anything.
	for len(c.inFlight) > 0 {
		select {
		case <-ctx.Done():
			return c.abort(ctx, ctx.Err())
		case res := <-c.pool.Results():
			if err := c.fold(res); err != nil {
				return c.abort(ctx, err)
			}
		}
	}

	boundary := c.window.Resolve(c.rng)
	c.logger.Info("search_finished",
		"found", boundary.Found,
		"index", boundary.Index,
		"good", c.window.Good,
		"bad", c.window.Bad,
	)
	c.reporter.Publish(SearchFinished{Boundary: boundary})
	return boundary, nil
}

// fill tops up every idle slot with a fresh candidate chosen by even
// spacing over the current undetermined interval. Indices already in
// flight are never re-submitted; if every candidate is already in
// flight the remaining slots stay idle until a completion reshapes the
// interval.
func (c *Coordinator) fill(ctx context.Context) error {
	idle := c.pool.Capacity() - len(c.inFlight)
	if idle <= 0 {
		return nil
	}

	lo, hi, ok := c.window.Undetermined()
	if !ok {
		return nil
	}

	// Ask for enough candidates that even-spaced picks colliding with
	// in-flight indices still leave fresh ones to dispatch.
	live := 0
	for idx := range c.inFlight {
		if idx >= lo && idx <= hi {
			live++
		}
	}

	dispatched := 0
	for _, idx := range SpreadIndices(lo, hi, idle+live) {
		if dispatched == idle {
			break
		}
		if _, dup := c.inFlight[idx]; dup {
			continue
		}

		if err := c.pool.Submit(ctx, idx); err != nil {
			return err
		}
		c.inFlight[idx] = struct{}{}
		dispatched++

		c.logger.Debug("probe_dispatched", "index", idx, "good", c.window.Good, "bad", c.window.Bad)
		c.reporter.Publish(ProbeDispatched{Index: idx})
	}

	return nil
}

// fold incorporates one completed probe into the window.
func (c *Coordinator) fold(res probe.Result) error {
	delete(c.inFlight, res.Index)

	if res.Outcome == probe.OutcomeSpawnError {
		if res.Err != nil {
			return res.Err
		}
		return fmt.Errorf("probe at index %d failed to spawn", res.Index)
	}

	lo, hi, open := c.window.Undetermined()
	stale := !open || res.Index < lo || res.Index > hi

	before := c.window
	c.window.Fold(res.Index, res.Outcome == probe.OutcomePass)
	if err := c.window.Check(); err != nil {
		return err
	}

	c.reporter.Publish(ProbeCompleted{
		Index:    res.Index,
		Outcome:  res.Outcome,
		ExitCode: res.ExitCode,
		Duration: res.Duration,
		Stale:    stale,
	})

	if c.window != before {
		c.logger.Debug("window_narrowed", "good", c.window.Good, "bad", c.window.Bad)
		c.reporter.Publish(WindowNarrowed{Good: c.window.Good, Bad: c.window.Bad})
	}

	return nil
}

// abort stops dispatching, lets already-running probes finish so their
// processes are not leaked, and surfaces the error. Outcomes of the
// draining probes are not required and are discarded.
func (c *Coordinator) abort(ctx context.Context, cause error) (Boundary, error) {
	c.logger.Warn("search_aborted", "error", cause, "in_flight", len(c.inFlight))

	for len(c.inFlight) > 0 {
		res, ok := <-c.pool.Results()
		if !ok {
			break
		}
		delete(c.inFlight, res.Index)
	}

	c.reporter.Publish(SearchFinished{Err: cause})
	return Boundary{}, cause
}
