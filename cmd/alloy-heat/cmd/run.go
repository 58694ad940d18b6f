package cmd

import (
	"github.com/spf13/cobra"

	"alloy-heat/internal/config"
	"alloy-heat/internal/logger"
	"alloy-heat/internal/runner"
	"alloy-heat/internal/store"
)

// bindPlateFlags registers the plate and engine overrides shared by run,
// watch and sweep.
func bindPlateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("width", 0, "plate width in cells")
	f.Int("height", 0, "plate height in cells")
	f.Int64("seed", 0, "populate seed")
	f.String("strategy", "", "populate strategy (uniform, perlin)")
	f.Float64("threshold", 0, "convergence threshold")
	f.Int("max-iterations", 0, "iteration cap")
	f.Int("workers", 0, "worker goroutines")
	f.Int("chunk", 0, "cells per task, 0 for one row")
	f.Float64Slice("metals", nil, "three thermal constants")
	f.Int("tps", 0, "iterations per second, 0 for no pacing")
}

// applyPlateFlags copies every flag the user set into cfg and validates it.
func applyPlateFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	var err error
	set := changedSetter(cmd, &err)
	set("width", func() { cfg.Grid.Width, err = f.GetInt("width") })
	set("height", func() { cfg.Grid.Height, err = f.GetInt("height") })
	set("seed", func() { cfg.Grid.Seed, err = f.GetInt64("seed") })
	set("strategy", func() { cfg.Grid.Strategy, err = f.GetString("strategy") })
	set("threshold", func() { cfg.Engine.Threshold, err = f.GetFloat64("threshold") })
	set("max-iterations", func() { cfg.Engine.MaxIterations, err = f.GetInt("max-iterations") })
	set("workers", func() { cfg.Engine.Workers, err = f.GetInt("workers") })
	set("chunk", func() { cfg.Engine.ChunkSize, err = f.GetInt("chunk") })
	set("metals", func() { cfg.Metals, err = f.GetFloat64Slice("metals") })
	set("tps", func() { cfg.Engine.TPS, err = f.GetInt("tps") })
	if err != nil {
		return err
	}
	return cfg.Validate()
}

// applyOutputFlags copies the run output flags the user set into cfg.
func applyOutputFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	var err error
	set := changedSetter(cmd, &err)
	set("every", func() { cfg.Output.Every, err = f.GetInt("every") })
	set("colour", func() { cfg.Output.Colour, err = f.GetBool("colour") })
	set("png", func() { cfg.Output.PNG, err = f.GetString("png") })
	set("stream-addr", func() { cfg.Stream.Addr, err = f.GetString("stream-addr") })
	return err
}

// changedSetter returns a helper that runs apply for a flag the user set,
// skipping every flag once *err holds a lookup failure.
func changedSetter(cmd *cobra.Command, err *error) func(name string, apply func()) {
	f := cmd.Flags()
	return func(name string, apply func()) {
		if *err == nil && f.Changed(name) {
			apply()
		}
	}
}

func newRunCmd(g *globals) *cobra.Command {
	var noStore bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one simulation and print the temperature grid.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := g.cfg
			if err := applyPlateFlags(cmd, &cfg); err != nil {
				return err
			}
			if err := applyOutputFlags(cmd, &cfg); err != nil {
				return err
			}

			ctx := logger.WithName(cmd.Context(), "run")
			opts := runner.Options{
				Sim:        cfg.Sim(),
				Output:     cfg.Output,
				TPS:        cfg.Engine.TPS,
				StreamAddr: cfg.Stream.Addr,
				Out:        cmd.OutOrStdout(),
			}
			if cfg.Store.Enabled && !noStore {
				st, err := store.Open(cfg.Store.Path)
				if err != nil {
					return err
				}
				defer st.Close()
				opts.Recorder = st
			}

			rec, err := runner.Run(ctx, opts)
			if err != nil {
				return err
			}
			logger.InfoKV(ctx, "Run finished", "id", rec.ID, "state", rec.State, "iterations", rec.Iterations)
			return nil
		},
	}
	bindPlateFlags(cmd)
	cmd.Flags().Int("every", 1, "print the grid every N iterations, 0 prints only the final grid")
	cmd.Flags().Bool("colour", false, "colour values by temperature band")
	cmd.Flags().String("png", "", "write the final grid as a PNG image")
	cmd.Flags().String("stream-addr", "", "serve websocket frames at ws://ADDR/ws")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "do not record the run in the history database")
	return cmd
}
