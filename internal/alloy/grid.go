package alloy

import (
	"fmt"

	"alloy-heat/internal/core"
)

// SourceTemperature is the fixed temperature of the two heat source cells.
const SourceTemperature = 100.0

// Grid is the alloy plate: one temperature and one composition per cell.
// Width must be at least four times the height.
type Grid struct {
	w, h  int
	temps *core.Field
	comp  []Composition
}

// NewGrid allocates a grid with uniform composition, zero temperature and
// both source cells held at SourceTemperature.
func NewGrid(width, height int) (*Grid, error) {
	if height < 1 || width < 4*height {
		return nil, fmt.Errorf("%w: width %d must be at least 4x height %d", ErrInvalidConfiguration, width, height)
	}
	g := &Grid{
		w:     width,
		h:     height,
		temps: core.NewField(width, height),
		comp:  make([]Composition, width*height),
	}
	for i := range g.comp {
		g.comp[i] = Uniform()
	}
	g.ResetSources()
	return g, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.w }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.h }

// Size returns the grid dimensions.
func (g *Grid) Size() core.Size { return core.Size{W: g.w, H: g.h} }

func (g *Grid) index(r, c int) int {
	if r < 0 || r >= g.h || c < 0 || c >= g.w {
		panic(fmt.Errorf("%w: (%d,%d) outside %dx%d grid", ErrOutOfRange, r, c, g.h, g.w))
	}
	return r*g.w + c
}

// Temperature returns the committed temperature of cell (r, c).
func (g *Grid) Temperature(r, c int) float64 {
	return g.temps.Values()[g.index(r, c)]
}

// SetTemperature overwrites the temperature of cell (r, c).
func (g *Grid) SetTemperature(r, c int, v float64) {
	g.temps.Values()[g.index(r, c)] = v
}

// Composition returns a copy of the metal fractions of cell (r, c).
func (g *Grid) Composition(r, c int) Composition {
	return g.comp[g.index(r, c)]
}

// SetComposition overwrites the metal fractions of cell (r, c).
func (g *Grid) SetComposition(r, c int, comp Composition) {
	g.comp[g.index(r, c)] = comp
}

// IsEdge reports whether (r, c) lies on the first or last row or column.
func (g *Grid) IsEdge(r, c int) bool {
	return r == 0 || r == g.h-1 || c == 0 || c == g.w-1
}

// IsSource reports whether (r, c) is one of the two fixed heat sources: the
// top-left and bottom-right corners.
func (g *Grid) IsSource(r, c int) bool {
	return (r == 0 && c == 0) || (r == g.h-1 && c == g.w-1)
}

// ResetSources clamps both source cells back to SourceTemperature.
func (g *Grid) ResetSources() {
	g.SetTemperature(0, 0, SourceTemperature)
	g.SetTemperature(g.h-1, g.w-1, SourceTemperature)
}

// Field exposes the committed temperature field. Callers must treat it as
// read-only; writes go through SetTemperature or SwapTemperatures.
func (g *Grid) Field() *core.Field { return g.temps }

// Temperatures returns a snapshot copy of the temperature field.
func (g *Grid) Temperatures() *core.Field { return g.temps.Clone() }

// Compositions returns a copy of every cell's composition in row-major order.
func (g *Grid) Compositions() []Composition {
	return append([]Composition(nil), g.comp...)
}

// SwapTemperatures installs next as the committed field in one step and
// returns the previous field so the caller can reuse it as scratch space.
func (g *Grid) SwapTemperatures(next *core.Field) *core.Field {
	if next.W != g.w || next.H != g.h {
		panic(fmt.Errorf("%w: swap of %dx%d field into %dx%d grid", ErrOutOfRange, next.H, next.W, g.h, g.w))
	}
	prev := g.temps
	g.temps = next
	return prev
}

// Clone returns an independent deep copy of the grid.
func (g *Grid) Clone() *Grid {
	return &Grid{
		w:     g.w,
		h:     g.h,
		temps: g.temps.Clone(),
		comp:  g.Compositions(),
	}
}
