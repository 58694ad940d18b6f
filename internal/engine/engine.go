package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"alloy-heat/internal/alloy"
	"alloy-heat/internal/core"
	"alloy-heat/internal/logger"
)

var (
	// ErrTaskFailed wraps a fault raised inside a worker task. The iteration
	// that hit it is discarded.
	ErrTaskFailed = errors.New("propagation task failed")
	// ErrEngineClosed is returned by Step once the worker pool is shut down.
	ErrEngineClosed = errors.New("engine closed")
	// ErrFinished is returned by Step after the run reached a terminal state.
	ErrFinished = errors.New("propagation finished")
)

// Observer receives every committed iteration. Returning an error stops the run.
type Observer interface {
	Observe(ctx context.Context, stats IterationStats, grid *alloy.Grid) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ctx context.Context, stats IterationStats, grid *alloy.Grid) error

// Observe calls f.
func (f ObserverFunc) Observe(ctx context.Context, stats IterationStats, grid *alloy.Grid) error {
	return f(ctx, stats, grid)
}

// chunk is a contiguous range [lo, hi) of linear cell indices.
type chunk struct {
	lo, hi int
}

// chunkResult is the exclusive output slot of one task.
type chunkResult struct {
	changed  int
	maxDelta float64
	err      error
}

// Engine runs the propagation loop over one grid.
type Engine struct {
	cfg   Config
	grid  *alloy.Grid
	rule  *stencil
	pool  *pool
	next  *core.Field
	tasks []chunk
	slots []chunkResult

	// update computes a single cell. Tests swap it to inject faults.
	update func(cur []float64, idx int) float64

	iteration int
	state     State
	lastDelta float64
	closed    bool
	closeOnce sync.Once
}

// New validates the inputs, snapshots the normalised compositions and starts
// the worker pool. Call Close (or Run, which closes on exit) to release it.
func New(grid *alloy.Grid, metals []alloy.Metal, cfg Config) (*Engine, error) {
	if grid == nil {
		return nil, fmt.Errorf("%w: grid is nil", alloy.ErrInvalidConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rule, err := newStencil(grid, metals)
	if err != nil {
		return nil, err
	}

	size := grid.Width() * grid.Height()
	chunkSize := cfg.ChunkSize
	if chunkSize == 0 {
		chunkSize = grid.Width()
	}
	tasks := make([]chunk, 0, (size+chunkSize-1)/chunkSize)
	for lo := 0; lo < size; lo += chunkSize {
		tasks = append(tasks, chunk{lo: lo, hi: min(lo+chunkSize, size)})
	}

	e := &Engine{
		cfg:   cfg,
		grid:  grid,
		rule:  rule,
		pool:  newPool(cfg.Workers),
		next:  core.NewField(grid.Width(), grid.Height()),
		tasks: tasks,
		slots: make([]chunkResult, len(tasks)),
		state: StateRunning,
	}
	e.update = rule.cell
	return e, nil
}

// Grid returns the grid the engine mutates.
func (e *Engine) Grid() *alloy.Grid { return e.grid }

// Config returns the run settings.
func (e *Engine) Config() Config { return e.cfg }

// State returns the current lifecycle state.
func (e *Engine) State() State { return e.state }

// Iteration returns the number of committed iterations.
func (e *Engine) Iteration() int { return e.iteration }

// Close shuts the worker pool down. It is safe to call more than once.
func (e *Engine) Close() {
	e.closeOnce.Do(func() {
		e.closed = true
		e.pool.close()
	})
}

// Step runs one iteration: compute the next field in parallel, wait for every
// task, then commit. Cancellation is only observed before any task starts.
func (e *Engine) Step(ctx context.Context) (IterationStats, error) {
	if e.closed {
		return IterationStats{}, ErrEngineClosed
	}
	if e.state.Terminal() {
		return IterationStats{}, fmt.Errorf("%w: %s", ErrFinished, e.state)
	}
	if err := ctx.Err(); err != nil {
		e.state = StateCancelled
		return IterationStats{}, err
	}

	cur := e.grid.Field().Values()
	next := e.next.Values()

	var barrier sync.WaitGroup
	barrier.Add(len(e.tasks))
	for i, t := range e.tasks {
		slot := &e.slots[i]
		e.pool.submit(func() {
			defer barrier.Done()
			*slot = e.compute(cur, next, t)
		})
	}
	barrier.Wait()

	stats := IterationStats{Iteration: e.iteration + 1}
	for _, res := range e.slots {
		if res.err != nil {
			e.state = StateFailed
			stats.State = e.state
			return stats, res.err
		}
		stats.ChangedCells += res.changed
		stats.MaxDelta = math.Max(stats.MaxDelta, res.maxDelta)
	}
	stats.Changed = stats.ChangedCells > 0

	e.next = e.grid.SwapTemperatures(e.next)
	e.iteration++
	e.lastDelta = stats.MaxDelta

	switch {
	case !stats.Changed:
		e.state = StateConverged
	case e.iteration >= e.cfg.MaxIterations:
		e.state = StateExhausted
	}
	stats.State = e.state
	return stats, nil
}

// compute fills next[t.lo:t.hi]. A panic inside the rule becomes the task's error.
func (e *Engine) compute(cur, next []float64, t chunk) (res chunkResult) {
	defer func() {
		if r := recover(); r != nil {
			res = chunkResult{err: fmt.Errorf("%w: cells [%d,%d): %v", ErrTaskFailed, t.lo, t.hi, r)}
		}
	}()
	for idx := t.lo; idx < t.hi; idx++ {
		v := e.update(cur, idx)
		next[idx] = v
		if e.rule.source[idx] {
			continue
		}
		d := math.Abs(v - cur[idx])
		if d > res.maxDelta {
			res.maxDelta = d
		}
		if d > e.cfg.Threshold {
			res.changed++
		}
	}
	return res
}

// Run iterates until convergence, exhaustion, cancellation or failure,
// notifying observers after every committed iteration. The worker pool is
// shut down before Run returns.
func (e *Engine) Run(ctx context.Context, observers ...Observer) (Report, error) {
	defer e.Close()

	ctx = logger.WithName(ctx, "engine")
	start := time.Now()
	logger.InfoKV(ctx, "Propagation started",
		"width", e.grid.Width(),
		"height", e.grid.Height(),
		"threshold", e.cfg.Threshold,
		"max_iterations", e.cfg.MaxIterations,
		"workers", e.cfg.Workers,
		"tasks", len(e.tasks))

	for !e.state.Terminal() {
		stats, err := e.Step(ctx)
		if err != nil {
			return e.finish(ctx, start, err)
		}
		if e.cfg.LogEvery > 0 && stats.Iteration%e.cfg.LogEvery == 0 {
			logger.DebugKV(ctx, "Iteration committed",
				"iteration", stats.Iteration,
				"changed_cells", stats.ChangedCells,
				"max_delta", stats.MaxDelta)
		}
		for _, o := range observers {
			if err := o.Observe(ctx, stats, e.grid); err != nil {
				if ctx.Err() != nil {
					e.state = StateCancelled
				} else {
					e.state = StateFailed
				}
				return e.finish(ctx, start, fmt.Errorf("observe iteration %d: %w", stats.Iteration, err))
			}
		}
	}

	return e.finish(ctx, start, nil)
}

func (e *Engine) finish(ctx context.Context, start time.Time, err error) (Report, error) {
	report := Report{
		Iterations: e.iteration,
		State:      e.state,
		MaxDelta:   e.lastDelta,
		Elapsed:    time.Since(start),
	}
	if err != nil {
		logger.WarnKV(ctx, "Propagation stopped", "state", report.State, "iterations", report.Iterations, "error", err)
		return report, err
	}
	logger.InfoKV(ctx, "Propagation finished",
		"state", report.State,
		"iterations", report.Iterations,
		"max_delta", report.MaxDelta,
		"elapsed", report.Elapsed)
	return report, nil
}
