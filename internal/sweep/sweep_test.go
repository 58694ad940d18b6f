package sweep

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"alloy-heat/internal/engine"
	"alloy-heat/internal/sims/alloysim"
)

func TestScenariosCartesianProduct(t *testing.T) {
	t.Parallel()
	opts := Options{
		Base:       alloysim.DefaultConfig(),
		Thresholds: []float64{0.1, 0.01},
		Workers:    []int{1, 2, 4},
	}
	got := opts.Scenarios()
	require.Len(t, got, 6)
	require.Equal(t, Scenario{Threshold: 0.1, Workers: 1}, got[0])
	require.Equal(t, Scenario{Threshold: 0.01, Workers: 4}, got[5])

	require.Len(t, Options{Base: alloysim.DefaultConfig()}.Scenarios(), 1)
}

func TestWorkerCountDoesNotChangeOutcome(t *testing.T) {
	t.Parallel()
	base := alloysim.DefaultConfig()
	base.Engine.MaxIterations = 40
	summary, err := Run(context.Background(), Options{
		Base:       base,
		Workers:    []int{1, 2, 4, 8},
		ChunkSizes: []int{0, 7},
		Parallel:   3,
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, summary.ID)
	require.Len(t, summary.Results, 8)

	first := summary.Results[0].Report
	for _, r := range summary.Results[1:] {
		require.Equal(t, first.Iterations, r.Report.Iterations, r.Scenario.String())
		require.Equal(t, first.State, r.Report.State, r.Scenario.String())
		require.Equal(t, first.MaxDelta, r.Report.MaxDelta, r.Scenario.String())
	}
}

func TestRunRejectsBadScenario(t *testing.T) {
	t.Parallel()
	_, err := Run(context.Background(), Options{
		Base:    alloysim.DefaultConfig(),
		Workers: []int{2, 0},
	})
	require.Error(t, err)
}

func TestRank(t *testing.T) {
	t.Parallel()
	results := []Result{
		{Scenario: Scenario{Threshold: 0.01, Workers: 1}, Report: engine.Report{Iterations: 50, State: engine.StateExhausted}},
		{Scenario: Scenario{Threshold: 0.1, Workers: 2}, Report: engine.Report{Iterations: 20, State: engine.StateConverged}},
		{Scenario: Scenario{Threshold: 0.01, Workers: 4}, Report: engine.Report{Iterations: 50, State: engine.StateConverged}},
	}
	Rank(results)
	require.Equal(t, 20, results[0].Report.Iterations)
	require.Equal(t, 4, results[1].Scenario.Workers)
	require.Equal(t, engine.StateExhausted, results[2].Report.State)
}
