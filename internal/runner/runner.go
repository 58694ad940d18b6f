// Package runner wires one propagation run to its outputs: console printer,
// pacing, websocket stream, PNG snapshot and run history.
package runner

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"alloy-heat/internal/alloy"
	"alloy-heat/internal/config"
	"alloy-heat/internal/console"
	"alloy-heat/internal/core"
	"alloy-heat/internal/engine"
	"alloy-heat/internal/logger"
	"alloy-heat/internal/render"
	"alloy-heat/internal/sims/alloysim"
	"alloy-heat/internal/store"
	"alloy-heat/internal/stream"
)

// Recorder persists finished runs.
type Recorder interface {
	Save(ctx context.Context, r *store.Run) error
}

// Options describes one run.
type Options struct {
	Sim    alloysim.Config
	Output config.OutputConfig
	// TPS caps the iteration rate. Zero runs flat out.
	TPS int
	// StreamAddr serves the websocket frame stream at /ws when set.
	StreamAddr string
	// Recorder stores the outcome when non-nil.
	Recorder Recorder
	Out      io.Writer
}

// Run executes the simulation and returns the stored record. The record is
// returned alongside the engine error for cancelled or failed runs.
func Run(ctx context.Context, opts Options) (store.Run, error) {
	if opts.Out == nil {
		opts.Out = io.Discard
	}
	sim, err := alloysim.New(opts.Sim)
	if err != nil {
		return store.Run{}, err
	}
	defer sim.Close()

	id := uuid.New()
	ctx = logger.WithKV(ctx, "run", id.String())

	printer := console.NewPrinter(opts.Out, console.Options{Colour: opts.Output.Colour, Every: opts.Output.Every})
	var observers []engine.Observer
	if opts.Output.Every > 0 {
		if err := printer.PrintParameters(sim.Parameters()); err != nil {
			return store.Run{}, err
		}
		if _, err := fmt.Fprintln(opts.Out, "Iteration 0:"); err != nil {
			return store.Run{}, err
		}
		if err := printer.PrintGrid(sim.Grid()); err != nil {
			return store.Run{}, err
		}
		observers = append(observers, printer)
	}
	if opts.TPS > 0 {
		pacer := core.NewPacer(opts.TPS)
		observers = append(observers, engine.ObserverFunc(func(ctx context.Context, _ engine.IterationStats, _ *alloy.Grid) error {
			return pacer.Wait(ctx)
		}))
	}
	if opts.StreamAddr != "" {
		hub, stop, err := serveStream(ctx, opts.StreamAddr, id.String())
		if err != nil {
			return store.Run{}, err
		}
		defer stop()
		observers = append(observers, hub)
	}

	started := time.Now()
	report, runErr := sim.Engine().Run(ctx, observers...)

	if err := printer.PrintReport(sim.Grid(), report); err != nil && runErr == nil {
		runErr = err
	}
	if opts.Output.PNG != "" {
		if err := writePNG(opts.Output.PNG, sim, opts.Output.Scale); err != nil {
			logger.WarnKV(ctx, "Snapshot not written", "path", opts.Output.PNG, "error", err)
		} else {
			logger.InfoKV(ctx, "Snapshot written", "path", opts.Output.PNG)
		}
	}

	rec := Record(id, started, opts.Sim, report)
	if opts.Recorder != nil {
		// The run context may already be cancelled; the record is still kept.
		if err := opts.Recorder.Save(context.WithoutCancel(ctx), &rec); err != nil {
			logger.WarnKV(ctx, "Run not recorded", "error", err)
		}
	}
	return rec, runErr
}

// Record builds the history entry of a finished run.
func Record(id uuid.UUID, started time.Time, cfg alloysim.Config, report engine.Report) store.Run {
	return store.Run{
		ID:            id,
		StartedAt:     started,
		Width:         cfg.Width,
		Height:        cfg.Height,
		Seed:          cfg.Seed,
		Strategy:      cfg.Strategy,
		Threshold:     cfg.Engine.Threshold,
		MaxIterations: cfg.Engine.MaxIterations,
		Workers:       cfg.Engine.Workers,
		ChunkSize:     cfg.Engine.ChunkSize,
		Iterations:    report.Iterations,
		State:         report.State.String(),
		MaxDelta:      report.MaxDelta,
		Elapsed:       report.Elapsed,
	}
}

func serveStream(ctx context.Context, addr, run string) (*stream.Hub, func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	hub := stream.NewHub(run)
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorKV(ctx, "Stream server stopped", "error", err)
		}
	}()
	logger.InfoKV(ctx, "Streaming frames", "url", "ws://"+ln.Addr().String()+"/ws")

	stop := func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		_ = hub.Close()
		_ = srv.Shutdown(shutdownCtx)
	}
	return hub, stop, nil
}

func writePNG(path string, sim *alloysim.Sim, scale int) error {
	size := sim.Size()
	img := render.Image(sim.Cells(), size.W, size.H, scale, sim.Palette())
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
