package main

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"alloy-heat/internal/config"
	"alloy-heat/internal/sims/alloysim"
)

func TestSimParamsRoundTrip(t *testing.T) {
	c := config.Default()
	c.Grid.Width = 32
	c.Engine.ChunkSize = 4
	c.Metals = []float64{0.5, 1, 1.5}

	got := alloysim.FromMap(simParams(c))
	require.Equal(t, c.Sim(), got)
}

func TestSetupAppliesOverrides(t *testing.T) {
	t.Setenv("ALLOYHEAT_CONFIG", "")
	fs := flag.NewFlagSet("alloy-view", flag.ContinueOnError)

	cfg, sim, err := setup(fs, []string{"-seed", "7", "-tps", "0", "-set", "w=24", "-set", "workers=2"})
	require.NoError(t, err)
	s, ok := sim.(*alloysim.Sim)
	require.True(t, ok)
	defer s.Close()

	require.Equal(t, int64(7), cfg.Seed)
	require.Equal(t, 24, s.Size().W)
	require.Equal(t, 2, s.Config().Engine.Workers)
	require.Equal(t, time.Millisecond, tickInterval(cfg.TPS))
	require.Equal(t, 50*time.Millisecond, tickInterval(20))
}

func TestSetupRejectsUnknownSim(t *testing.T) {
	t.Setenv("ALLOYHEAT_CONFIG", "")
	fs := flag.NewFlagSet("alloy-view", flag.ContinueOnError)
	_, _, err := setup(fs, []string{"-sim", "aloy"})
	require.ErrorContains(t, err, `did you mean "alloy"`)
}
