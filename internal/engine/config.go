package engine

import (
	"fmt"
	"math"

	"alloy-heat/internal/alloy"
)

const (
	// Amplification scales every freshly computed temperature.
	Amplification = 1.053

	// DefaultThreshold is the largest per-cell change still considered settled.
	DefaultThreshold = 0.03
	// DefaultMaxIterations caps a run that never converges.
	DefaultMaxIterations = 1000
	// DefaultWorkers is the size of the worker pool.
	DefaultWorkers = 4
)

// Config controls a propagation run.
type Config struct {
	// Threshold is the convergence threshold on the absolute per-cell change.
	Threshold float64
	// MaxIterations is the iteration cap.
	MaxIterations int
	// Workers is the number of pool goroutines.
	Workers int
	// ChunkSize is the number of cells per task. Zero means one grid row.
	ChunkSize int
	// LogEvery emits a debug line every LogEvery iterations. Zero disables it.
	LogEvery int
}

// DefaultConfig returns the reference run settings.
func DefaultConfig() Config {
	return Config{
		Threshold:     DefaultThreshold,
		MaxIterations: DefaultMaxIterations,
		Workers:       DefaultWorkers,
	}
}

// Validate checks that every setting is in range.
func (c Config) Validate() error {
	if c.Threshold <= 0 || math.IsNaN(c.Threshold) || math.IsInf(c.Threshold, 0) {
		return fmt.Errorf("%w: threshold %v must be positive", alloy.ErrInvalidConfiguration, c.Threshold)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("%w: max iterations %d must be positive", alloy.ErrInvalidConfiguration, c.MaxIterations)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers %d must be positive", alloy.ErrInvalidConfiguration, c.Workers)
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("%w: chunk size %d must not be negative", alloy.ErrInvalidConfiguration, c.ChunkSize)
	}
	return nil
}
