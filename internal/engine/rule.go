package engine

import (
	"fmt"

	"alloy-heat/internal/alloy"
	"alloy-heat/internal/core"
)

// directions lists the axis-aligned neighbour offsets: up, down, left, right.
var directions = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// stencil is the immutable per-run input of the update rule: everything but
// the temperature field, which changes every iteration.
type stencil struct {
	w, h   int
	metals []alloy.Metal
	comp   []alloy.Composition
	source []bool
}

// newStencil validates the metal list and every composition and captures a
// normalised copy of the grid's compositions. Later edits to the grid's
// compositions do not affect a running engine.
func newStencil(g *alloy.Grid, metals []alloy.Metal) (*stencil, error) {
	if len(metals) != alloy.MetalCount {
		return nil, fmt.Errorf("%w: need %d metals, got %d", alloy.ErrInvalidConfiguration, alloy.MetalCount, len(metals))
	}
	for i, m := range metals {
		if m.C() <= 0 {
			return nil, fmt.Errorf("%w: metal %d has no thermal constant", alloy.ErrInvalidConfiguration, i)
		}
	}

	w, h := g.Width(), g.Height()
	s := &stencil{
		w:      w,
		h:      h,
		metals: append([]alloy.Metal(nil), metals...),
		comp:   g.Compositions(),
		source: make([]bool, w*h),
	}
	for i, c := range s.comp {
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("cell (%d,%d): %w", i/w, i%w, err)
		}
		s.comp[i] = c.Normalized()
	}
	for r := 0; r < h; r++ {
		for c := 0; c < w; c++ {
			s.source[r*w+c] = g.IsSource(r, c)
		}
	}
	return s, nil
}

// cell computes the next temperature of the cell at linear index idx from
// the committed field cur.
func (s *stencil) cell(cur []float64, idx int) float64 {
	if s.source[idx] {
		return alloy.SourceTemperature
	}
	r, c := idx/s.w, idx%s.w

	var weighted [alloy.MetalCount]float64
	neighbors := 0
	for _, d := range directions {
		nr, nc := r+d[0], c+d[1]
		if nr < 0 || nr >= s.h || nc < 0 || nc >= s.w {
			continue
		}
		n := nr*s.w + nc
		t := cur[n]
		frac := &s.comp[n]
		for m := range weighted {
			weighted[m] += t * frac[m]
		}
		neighbors++
	}
	if neighbors == 0 {
		return cur[idx]
	}

	var next float64
	for m, metal := range s.metals {
		// The composition weighting is already folded into the directional
		// average, so the species contributes with a unit fraction here.
		next += metal.Interaction(weighted[m]/float64(neighbors), 1)
	}
	return next * Amplification
}

// ComputeNext runs one update of the whole grid sequentially and returns the
// resulting field without touching g. It is the reference the parallel
// engine must reproduce exactly.
func ComputeNext(g *alloy.Grid, metals []alloy.Metal) (*core.Field, error) {
	s, err := newStencil(g, metals)
	if err != nil {
		return nil, err
	}
	cur := g.Field().Values()
	next := core.NewField(g.Width(), g.Height())
	out := next.Values()
	for idx := range out {
		out[idx] = s.cell(cur, idx)
	}
	return next, nil
}
