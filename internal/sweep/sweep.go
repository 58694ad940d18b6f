// Package sweep runs one seeded plate under many engine settings and ranks
// the outcomes.
package sweep

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"alloy-heat/internal/alloy"
	"alloy-heat/internal/engine"
	"alloy-heat/internal/logger"
	"alloy-heat/internal/populate"
	"alloy-heat/internal/sims/alloysim"
)

// Scenario is one combination of engine settings.
type Scenario struct {
	Threshold float64
	Workers   int
	ChunkSize int
}

func (s Scenario) String() string {
	return fmt.Sprintf("threshold=%g workers=%d chunk=%d", s.Threshold, s.Workers, s.ChunkSize)
}

// Result is the outcome of one scenario.
type Result struct {
	Scenario Scenario
	Report   engine.Report
}

// Summary groups every result of a sweep under one id.
type Summary struct {
	ID      uuid.UUID
	Base    alloysim.Config
	Results []Result
}

// Options describes the sweep. Empty axes fall back to the base engine setting.
type Options struct {
	Base       alloysim.Config
	Thresholds []float64
	Workers    []int
	ChunkSizes []int
	// Parallel bounds how many scenarios run at once. Zero means GOMAXPROCS.
	Parallel int
}

// Scenarios expands the option axes into their cartesian product.
func (o Options) Scenarios() []Scenario {
	thresholds := o.Thresholds
	if len(thresholds) == 0 {
		thresholds = []float64{o.Base.Engine.Threshold}
	}
	workers := o.Workers
	if len(workers) == 0 {
		workers = []int{o.Base.Engine.Workers}
	}
	chunks := o.ChunkSizes
	if len(chunks) == 0 {
		chunks = []int{o.Base.Engine.ChunkSize}
	}

	var out []Scenario
	for _, th := range thresholds {
		for _, w := range workers {
			for _, c := range chunks {
				out = append(out, Scenario{Threshold: th, Workers: w, ChunkSize: c})
			}
		}
	}
	return out
}

// Run populates the base plate once and runs every scenario on its own copy.
// The first failing scenario cancels the rest.
func Run(ctx context.Context, opts Options) (Summary, error) {
	metals, err := alloy.MetalsFromConstants(opts.Base.Metals)
	if err != nil {
		return Summary{}, err
	}
	base, err := alloy.NewGrid(opts.Base.Width, opts.Base.Height)
	if err != nil {
		return Summary{}, err
	}
	if err := populate.Populate(base, opts.Base.Strategy, opts.Base.Seed); err != nil {
		return Summary{}, err
	}

	scenarios := opts.Scenarios()
	summary := Summary{ID: uuid.New(), Base: opts.Base, Results: make([]Result, len(scenarios))}

	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}
	ctx = logger.WithKV(logger.WithName(ctx, "sweep"), "sweep", summary.ID.String())
	logger.InfoKV(ctx, "Sweep started", "scenarios", len(scenarios), "parallel", parallel)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, sc := range scenarios {
		grid := base.Clone()
		g.Go(func() error {
			cfg := opts.Base.Engine
			cfg.Threshold = sc.Threshold
			cfg.Workers = sc.Workers
			cfg.ChunkSize = sc.ChunkSize

			eng, err := engine.New(grid, metals, cfg)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", sc, err)
			}
			report, err := eng.Run(logger.WithKV(gctx, "scenario", sc.String()))
			if err != nil {
				return fmt.Errorf("scenario %s: %w", sc, err)
			}
			summary.Results[i] = Result{Scenario: sc, Report: report}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	Rank(summary.Results)
	logger.InfoKV(ctx, "Sweep finished", "scenarios", len(scenarios))
	return summary, nil
}

// Rank orders results by iterations, converged runs first on ties, then by
// threshold and worker count.
func Rank(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Report.Iterations != b.Report.Iterations {
			return a.Report.Iterations < b.Report.Iterations
		}
		if a.Report.Converged() != b.Report.Converged() {
			return a.Report.Converged()
		}
		if a.Scenario.Threshold != b.Scenario.Threshold {
			return a.Scenario.Threshold > b.Scenario.Threshold
		}
		return a.Scenario.Workers < b.Scenario.Workers
	})
}
