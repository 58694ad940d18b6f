package populate

import (
	"errors"
	"math"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"alloy-heat/internal/alloy"
)

func newGrid(t *testing.T) *alloy.Grid {
	t.Helper()
	g, err := alloy.NewGrid(20, 5)
	require.NoError(t, err)
	return g
}

func TestPopulateIsDeterministic(t *testing.T) {
	t.Parallel()
	for _, name := range Names() {
		a, b := newGrid(t), newGrid(t)
		require.NoError(t, Populate(a, name, 42))
		require.NoError(t, Populate(b, name, 42))
		require.True(t, slices.Equal(a.Field().Values(), b.Field().Values()), name)
		require.Equal(t, a.Compositions(), b.Compositions(), name)
	}
}

func TestPopulateRanges(t *testing.T) {
	t.Parallel()
	for _, name := range Names() {
		g := newGrid(t)
		require.NoError(t, Populate(g, name, 7))
		for r := 0; r < g.Height(); r++ {
			for c := 0; c < g.Width(); c++ {
				temp := g.Temperature(r, c)
				if g.IsSource(r, c) {
					require.Equal(t, alloy.SourceTemperature, temp)
					continue
				}
				require.GreaterOrEqual(t, temp, BaseTemperature, name)
				require.Less(t, temp, BaseTemperature+TemperatureJitter, name)

				comp := g.Composition(r, c)
				require.NoError(t, comp.Validate())
				require.InDelta(t, 1, comp.Sum(), 1e-9)
			}
		}
	}
}

func TestBalancedFallsBack(t *testing.T) {
	t.Parallel()
	// 0.5/0.5 leaves 0.0 for the third metal, a spread of 0.5.
	require.Equal(t, fallbackComposition, balanced(0.5, 0.5))

	got := balanced(0.35, 0.35)
	require.InDelta(t, 0.3, got[2], 1e-12)
	for i := range got {
		require.False(t, math.IsNaN(got[i]))
	}
}

func TestLookupSuggests(t *testing.T) {
	t.Parallel()
	_, err := Lookup("unifrom")
	require.Error(t, err)
	require.True(t, errors.Is(err, alloy.ErrInvalidConfiguration))
	require.True(t, strings.Contains(err.Error(), `did you mean "uniform"`), err.Error())

	_, err = Lookup("perlin")
	require.NoError(t, err)
}

func TestPerlinProducesSmoothVariedMixes(t *testing.T) {
	t.Parallel()
	for seed := int64(0); seed < 20; seed++ {
		g, err := alloy.NewGrid(80, 20)
		require.NoError(t, err)
		require.NoError(t, Populate(g, "perlin", seed))

		distinct := map[alloy.Composition]struct{}{}
		for r := 0; r < g.Height(); r++ {
			for c := 0; c < g.Width(); c++ {
				comp := g.Composition(r, c)
				distinct[comp] = struct{}{}
				for i := 0; i < alloy.MetalCount; i++ {
					for j := i + 1; j < alloy.MetalCount; j++ {
						require.LessOrEqual(t, math.Abs(comp[i]-comp[j]), maxSpread, "seed %d cell (%d,%d)", seed, r, c)
					}
				}
				if c+1 < g.Width() {
					requireClose(t, comp, g.Composition(r, c+1), 0.12)
				}
				if r+1 < g.Height() {
					requireClose(t, comp, g.Composition(r+1, c), 0.12)
				}
			}
		}
		require.Greater(t, len(distinct), g.Width()*g.Height()/2, "seed %d", seed)
	}
}

func TestUniformAlwaysFallsBack(t *testing.T) {
	t.Parallel()
	g := newGrid(t)
	require.NoError(t, Populate(g, "uniform", 3))
	for r := 0; r < g.Height(); r++ {
		for c := 0; c < g.Width(); c++ {
			require.Equal(t, fallbackComposition, g.Composition(r, c))
		}
	}
}

func requireClose(t *testing.T, a, b alloy.Composition, bound float64) {
	t.Helper()
	for i := range a {
		require.Less(t, math.Abs(a[i]-b[i]), bound, "%v vs %v", a, b)
	}
}
