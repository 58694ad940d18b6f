// Package alloysim exposes the heat propagation run through the core.Sim
// registry so the viewers can drive it like any other grid simulation.
package alloysim

import (
	"context"
	"errors"
	"image/color"

	"alloy-heat/internal/alloy"
	"alloy-heat/internal/core"
	"alloy-heat/internal/engine"
	"alloy-heat/internal/populate"
	"alloy-heat/internal/render"
)

// Sim wraps one grid and the engine iterating it.
type Sim struct {
	cfg    Config
	metals []alloy.Metal
	grid   *alloy.Grid
	eng    *engine.Engine
	last   engine.IterationStats
	err    error
	cells  []uint8
}

// New validates cfg, populates a grid with cfg.Seed and starts its engine.
func New(cfg Config) (*Sim, error) {
	metals, err := alloy.MetalsFromConstants(cfg.Metals)
	if err != nil {
		return nil, err
	}
	s := &Sim{cfg: cfg, metals: metals}
	if err := s.Reset(cfg.Seed); err != nil {
		return nil, err
	}
	return s, nil
}

// Name identifies the simulation.
func (s *Sim) Name() string { return "alloy" }

// Size returns the grid dimensions.
func (s *Sim) Size() core.Size { return core.Size{W: s.cfg.Width, H: s.cfg.Height} }

// Reset discards the current run and starts over from a freshly populated grid.
func (s *Sim) Reset(seed int64) error {
	grid, err := alloy.NewGrid(s.cfg.Width, s.cfg.Height)
	if err != nil {
		return err
	}
	if err := populate.Populate(grid, s.cfg.Strategy, seed); err != nil {
		return err
	}
	eng, err := engine.New(grid, s.metals, s.cfg.Engine)
	if err != nil {
		return err
	}
	if s.eng != nil {
		s.eng.Close()
	}
	s.cfg.Seed = seed
	s.grid = grid
	s.eng = eng
	s.last = engine.IterationStats{}
	s.err = nil
	return nil
}

// Step advances the run by one iteration. It is a no-op once the run is done.
func (s *Sim) Step(ctx context.Context) error {
	if s.Done() {
		return nil
	}
	stats, err := s.eng.Step(ctx)
	if err != nil {
		s.err = err
		if errors.Is(err, engine.ErrFinished) {
			return nil
		}
		return err
	}
	s.last = stats
	if stats.State.Terminal() {
		s.eng.Close()
	}
	return nil
}

// Done reports whether the run reached a terminal state.
func (s *Sim) Done() bool { return s.eng.State().Terminal() }

// Cells returns the temperature band of every cell.
func (s *Sim) Cells() []uint8 {
	s.cells = render.Encode(s.cells, s.grid.Field().Values())
	return s.cells
}

// Palette maps band indices to colours.
func (s *Sim) Palette() []color.RGBA { return render.Palette() }

// Grid returns the plate being iterated.
func (s *Sim) Grid() *alloy.Grid { return s.grid }

// Engine returns the engine of the current run.
func (s *Sim) Engine() *engine.Engine { return s.eng }

// Metals returns the species list.
func (s *Sim) Metals() []alloy.Metal { return s.metals }

// Config returns the active configuration.
func (s *Sim) Config() Config { return s.cfg }

// Status returns the stats of the last committed iteration and the error
// that stopped the run, if any.
func (s *Sim) Status() (engine.IterationStats, error) { return s.last, s.err }

// Close releases the worker pool.
func (s *Sim) Close() {
	if s.eng != nil {
		s.eng.Close()
	}
}

// Parameters describes the run for the HUD and the console.
func (s *Sim) Parameters() core.ParameterSnapshot {
	metals := make([]core.Parameter, 0, len(s.cfg.Metals))
	labels := []string{"metal_a", "metal_b", "metal_c"}
	for i, c := range s.cfg.Metals {
		metals = append(metals, core.FloatParam(labels[i], "Metal "+string(rune('A'+i)), c))
	}
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Plate",
			Params: []core.Parameter{
				core.IntParam("w", "Width", s.cfg.Width),
				core.IntParam("h", "Height", s.cfg.Height),
				core.Int64Param("seed", "Seed", s.cfg.Seed),
				core.StringParam("strategy", "Strategy", s.cfg.Strategy),
			},
		},
		{
			Name: "Engine",
			Params: []core.Parameter{
				core.FloatParam("threshold", "Threshold", s.cfg.Engine.Threshold),
				core.IntParam("max_iterations", "Max iterations", s.cfg.Engine.MaxIterations),
				core.IntParam("workers", "Workers", s.cfg.Engine.Workers),
				core.IntParam("chunk", "Chunk size", s.cfg.Engine.ChunkSize),
			},
		},
		{Name: "Metals", Params: metals},
	}}
}

func init() {
	core.Register("alloy", func(cfg map[string]string) (core.Sim, error) {
		return New(FromMap(cfg))
	})
}
