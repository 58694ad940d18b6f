package alloysim

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"alloy-heat/internal/core"
	"alloy-heat/internal/engine"
)

func TestRegistered(t *testing.T) {
	factory, err := core.Lookup("alloy")
	require.NoError(t, err)

	sim, err := factory(map[string]string{"w": "8", "h": "2", "max_iterations": "3"})
	require.NoError(t, err)
	defer sim.(*Sim).Close()
	require.Equal(t, core.Size{W: 8, H: 2}, sim.Size())

	_, err = core.Lookup("aloy")
	require.ErrorContains(t, err, `did you mean "alloy"`)
}

func TestFromMapIgnoresBadValues(t *testing.T) {
	cfg := FromMap(map[string]string{
		"w":         "-3",
		"threshold": "abc",
		"metals":    "1,2",
		"workers":   "9",
		"chunk":     "5",
	})
	def := DefaultConfig()
	require.Equal(t, def.Width, cfg.Width)
	require.Equal(t, def.Engine.Threshold, cfg.Engine.Threshold)
	require.Equal(t, def.Metals, cfg.Metals)
	require.Equal(t, 9, cfg.Engine.Workers)
	require.Equal(t, 5, cfg.Engine.ChunkSize)

	cfg = FromMap(map[string]string{"metals": "0.5, 1, 2"})
	require.Equal(t, []float64{0.5, 1, 2}, cfg.Metals)
}

func TestStepUntilDone(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Engine.MaxIterations = 4
	sim, err := New(cfg)
	require.NoError(t, err)
	defer sim.Close()

	for i := 0; i < 10 && !sim.Done(); i++ {
		require.NoError(t, sim.Step(context.Background()))
	}
	require.True(t, sim.Done())
	stats, runErr := sim.Status()
	require.NoError(t, runErr)
	require.Equal(t, 4, stats.Iteration)
	require.Equal(t, engine.StateExhausted, stats.State)

	// Further steps are no-ops.
	require.NoError(t, sim.Step(context.Background()))
	require.Equal(t, 4, sim.Engine().Iteration())
	require.Len(t, sim.Cells(), 100)
}

func TestResetIsDeterministic(t *testing.T) {
	sim, err := New(DefaultConfig())
	require.NoError(t, err)
	defer sim.Close()

	first := slices.Clone(sim.Grid().Field().Values())
	require.NoError(t, sim.Step(context.Background()))
	require.NoError(t, sim.Reset(42))
	require.Equal(t, first, sim.Grid().Field().Values())
	require.Equal(t, 0, sim.Engine().Iteration())
}

func TestParameters(t *testing.T) {
	sim, err := New(DefaultConfig())
	require.NoError(t, err)
	defer sim.Close()

	p, ok := sim.Parameters().Lookup("threshold")
	require.True(t, ok)
	require.Equal(t, "0.03", p.Value)

	p, ok = sim.Parameters().Lookup("metal_c")
	require.True(t, ok)
	require.Equal(t, "1.25", p.Value)
}

func TestInvalidPlateRejected(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 10
	_, err := New(cfg)
	require.Error(t, err)
}
