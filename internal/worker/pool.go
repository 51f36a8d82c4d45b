// Package worker bounds concurrent probe execution to a fixed number
// of slots and delivers results in completion order.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/randomizedcoder/go-parasect/internal/probe"
)

// Pool runs probes through a fixed-size set of execution slots.
// At most Capacity() probes are ever running at once; results become
// available on Results() as each probe completes, not in submission
// order. That ordering is what lets the coordinator refill a slot the
// moment it frees.
type Pool struct {
	size    int64
	slots   *semaphore.Weighted
	runner  probe.Runner
	results chan probe.Result
	logger  *slog.Logger

	inFlight atomic.Int64
}

// NewPool creates a pool with n slots. n must be >= 1.
func NewPool(n int, runner probe.Runner, logger *slog.Logger) (*Pool, error) {
	if n < 1 {
		return nil, fmt.Errorf("pool size must be at least 1, got %d", n)
	}
	return &Pool{
		size:   int64(n),
		slots:  semaphore.NewWeighted(int64(n)),
		runner: runner,
		// Buffered to capacity so a finishing worker never blocks on a
		// coordinator that is busy folding another result.
		results: make(chan probe.Result, n),
		logger:  logger,
	}, nil
}

// Submit dispatches a probe for the given index. It blocks the caller
// only while all slots are occupied; work is never dropped. The result
// is delivered on Results() when the probe's process exits.
func (p *Pool) Submit(ctx context.Context, index int64) error {
	if err := p.slots.Acquire(ctx, 1); err != nil {
		return err
	}

	p.inFlight.Add(1)

	go func() {
		defer p.slots.Release(1)

		res := p.runner.Run(ctx, index)

		p.logger.Debug("probe_finished",
			"index", res.Index,
			"outcome", res.Outcome.String(),
			"exit_code", res.ExitCode,
			"duration", res.Duration.String(),
		)

		// A probe counts as in flight until its result is handed off;
		// decrementing earlier would let the dispatcher over-submit
		// against a worker still blocked on delivery.
		p.results <- res
		p.inFlight.Add(-1)
	}()

	return nil
}

// Results returns the completion channel. Results arrive in the order
// probes finish.
func (p *Pool) Results() <-chan probe.Result {
	return p.results
}

// Capacity returns the number of slots.
func (p *Pool) Capacity() int {
	return int(p.size)
}

// InFlight returns the number of probes currently occupying a slot.
func (p *Pool) InFlight() int {
	return int(p.inFlight.Load())
}

// IdleSlots returns how many slots are free right now. This is a
// point-in-time reading for instrumentation; the dispatcher sizes its
// batches from its own in-flight set instead, so a count that moves
// between the read and the submit cannot over-fill the pool.
func (p *Pool) IdleSlots() int {
	idle := p.Capacity() - p.InFlight()
	if idle < 0 {
		idle = 0
	}
	return idle
}

// Drain blocks until every in-flight probe has released its slot, so
// no child process outlives the search. Respects ctx for shutdown
// deadlines.
func (p *Pool) Drain(ctx context.Context) error {
	if err := p.slots.Acquire(ctx, p.size); err != nil {
		return err
	}
	p.slots.Release(p.size)
	return nil
}
