package engine

import "time"

// State is the position of an engine in its run lifecycle.
type State int

const (
	// StateRunning means more iterations may follow.
	StateRunning State = iota
	// StateConverged means the last iteration changed no cell by more than the threshold.
	StateConverged
	// StateExhausted means the iteration cap was reached without converging.
	StateExhausted
	// StateCancelled means the run was stopped between iterations.
	StateCancelled
	// StateFailed means a task failed and its iteration was discarded.
	StateFailed
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateConverged:
		return "converged"
	case StateExhausted:
		return "exhausted"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further iterations can run.
func (s State) Terminal() bool { return s != StateRunning }

// IterationStats summarises one committed iteration.
type IterationStats struct {
	// Iteration is the 1-based number of the iteration just committed.
	Iteration int
	// Changed is true when at least one non-source cell moved by more than the threshold.
	Changed bool
	// ChangedCells counts the cells that moved by more than the threshold.
	ChangedCells int
	// MaxDelta is the largest absolute change over non-source cells.
	MaxDelta float64
	// State is the engine state after the iteration.
	State State
}

// Report describes a finished run.
type Report struct {
	Iterations int
	State      State
	MaxDelta   float64
	Elapsed    time.Duration
}

// Converged reports whether the run ended by convergence.
func (r Report) Converged() bool { return r.State == StateConverged }
