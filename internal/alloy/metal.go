package alloy

import (
	"fmt"
	"math"
)

// MetalCount is the number of metal species in every composition.
const MetalCount = 3

// Metal is one species of the alloy, described by its thermal constant.
type Metal struct {
	c float64
}

// NewMetal returns a metal with thermal constant c. The constant must be a
// positive finite number.
func NewMetal(c float64) (Metal, error) {
	if c <= 0 || math.IsNaN(c) || math.IsInf(c, 0) {
		return Metal{}, fmt.Errorf("%w: thermal constant %v must be positive", ErrInvalidConfiguration, c)
	}
	return Metal{c: c}, nil
}

// MustMetal is like NewMetal but panics on an invalid constant.
func MustMetal(c float64) Metal {
	m, err := NewMetal(c)
	if err != nil {
		panic(err)
	}
	return m
}

// DefaultMetals returns the three reference species.
func DefaultMetals() []Metal {
	return []Metal{MustMetal(0.75), MustMetal(1.0), MustMetal(1.25)}
}

// MetalsFromConstants builds a metal list from raw thermal constants.
func MetalsFromConstants(constants []float64) ([]Metal, error) {
	if len(constants) != MetalCount {
		return nil, fmt.Errorf("%w: need %d metals, got %d", ErrInvalidConfiguration, MetalCount, len(constants))
	}
	metals := make([]Metal, len(constants))
	for i, c := range constants {
		m, err := NewMetal(c)
		if err != nil {
			return nil, fmt.Errorf("metal %d: %w", i, err)
		}
		metals[i] = m
	}
	return metals, nil
}

// C returns the thermal constant.
func (m Metal) C() float64 { return m.c }

// Interaction returns the heat this species carries into a cell given the
// averaged neighbour temperature and the species fraction.
func (m Metal) Interaction(avgNeighborTemp, fraction float64) float64 {
	return fraction * m.c * avgNeighborTemp
}
