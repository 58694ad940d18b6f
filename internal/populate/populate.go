// Package populate seeds an alloy grid with initial temperatures and
// compositions. Every strategy is deterministic for a given seed.
package populate

import (
	"fmt"
	"math"
	"sort"

	"github.com/aquilax/go-perlin"

	"alloy-heat/internal/alloy"
	"alloy-heat/internal/core"
	pkgcore "alloy-heat/pkg/core"
)

const (
	// BaseTemperature is the lower bound of the initial temperature of a cell.
	BaseTemperature = 20.0
	// TemperatureJitter is the width of the random band above BaseTemperature.
	TemperatureJitter = 5.0

	// maxSpread is the largest allowed difference between any two fractions
	// before a cell falls back to fallbackComposition.
	maxSpread = 0.2

	perlinScale  = 0.15
	perlinSpread = 0.07
)

var fallbackComposition = alloy.Composition{0.4, 0.4, 0.2}

// Strategy fills a grid from the given random source.
type Strategy func(g *alloy.Grid, rng *pkgcore.RNG)

var strategies = map[string]Strategy{
	"uniform": Uniform,
	"perlin":  Perlin,
}

// Names lists the registered strategies in lexical order.
func Names() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup resolves a strategy by name.
func Lookup(name string) (Strategy, error) {
	if s, ok := strategies[name]; ok {
		return s, nil
	}
	if hint := core.Suggest(name, Names()); hint != "" {
		return nil, fmt.Errorf("%w: unknown populate strategy %q, did you mean %q?", alloy.ErrInvalidConfiguration, name, hint)
	}
	return nil, fmt.Errorf("%w: unknown populate strategy %q", alloy.ErrInvalidConfiguration, name)
}

// Populate runs the named strategy with a seeded generator and clamps the
// heat sources afterwards.
func Populate(g *alloy.Grid, strategy string, seed int64) error {
	fill, err := Lookup(strategy)
	if err != nil {
		return err
	}
	fill(g, pkgcore.NewRNG(seed))
	g.ResetSources()
	return nil
}

// Uniform draws the first two fractions from U(0.4, 0.6) and gives the third
// the remainder. Mixes whose fractions differ by more than 0.2 use the
// 40/40/20 fallback.
func Uniform(g *alloy.Grid, rng *pkgcore.RNG) {
	for r := 0; r < g.Height(); r++ {
		for c := 0; c < g.Width(); c++ {
			p1 := rng.Between(0.4, 0.6)
			p2 := rng.Between(0.4, 0.6)
			g.SetComposition(r, c, balanced(p1, p2))
			g.SetTemperature(r, c, BaseTemperature+rng.Between(0, TemperatureJitter))
		}
	}
}

// Perlin draws one noise layer per metal around an even share and normalises
// the three, so neighbouring cells share similar mixes. Each raw share stays
// within perlinSpread of 1/3, which keeps every pairwise difference of the
// normalised fractions under 0.2.
func Perlin(g *alloy.Grid, rng *pkgcore.RNG) {
	var layers [alloy.MetalCount]*perlin.Perlin
	for i := range layers {
		layers[i] = perlin.NewPerlin(2, 2, 3, rng.Int64())
	}
	for r := 0; r < g.Height(); r++ {
		for c := 0; c < g.Width(); c++ {
			x, y := float64(c)*perlinScale, float64(r)*perlinScale
			var comp alloy.Composition
			var sum float64
			for i, layer := range layers {
				comp[i] = 1.0/3 + perlinSpread*clampUnit(layer.Noise2D(x, y))
				sum += comp[i]
			}
			for i := range comp {
				comp[i] /= sum
			}
			g.SetComposition(r, c, comp)
			g.SetTemperature(r, c, BaseTemperature+rng.Between(0, TemperatureJitter))
		}
	}
}

func balanced(p1, p2 float64) alloy.Composition {
	p3 := 1 - p1 - p2
	if p3 < 0 || math.Abs(p1-p2) > maxSpread || math.Abs(p1-p3) > maxSpread || math.Abs(p2-p3) > maxSpread {
		return fallbackComposition
	}
	return alloy.Composition{p1, p2, p3}
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
