package alloy

import (
	"fmt"
	"math"
)

// NormalizeTolerance is how far a composition sum may drift from 1 before it
// is rescaled.
const NormalizeTolerance = 1e-9

// Composition holds the fraction of each metal in a cell, index-aligned with
// the metal list.
type Composition [MetalCount]float64

// Uniform returns an equal mix of every metal.
func Uniform() Composition {
	var c Composition
	for i := range c {
		c[i] = 1.0 / MetalCount
	}
	return c
}

// Sum returns the total of all fractions.
func (c Composition) Sum() float64 {
	var s float64
	for _, f := range c {
		s += f
	}
	return s
}

// Validate checks that every fraction is a finite non-negative number and
// that the mix is not empty.
func (c Composition) Validate() error {
	for i, f := range c {
		if f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: fraction %d is %v", ErrInvalidConfiguration, i, f)
		}
	}
	if c.Sum() <= 0 {
		return fmt.Errorf("%w: composition %v sums to zero", ErrInvalidConfiguration, c)
	}
	return nil
}

// Normalized returns c rescaled so the fractions sum to 1. Compositions that
// already sum to 1 within NormalizeTolerance are returned unchanged.
func (c Composition) Normalized() Composition {
	sum := c.Sum()
	if sum <= 0 || math.Abs(sum-1) <= NormalizeTolerance {
		return c
	}
	for i := range c {
		c[i] /= sum
	}
	return c
}
