package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"alloy-heat/internal/runner"
	"alloy-heat/internal/store"
	"alloy-heat/internal/sweep"
)

func newSweepCmd(g *globals) *cobra.Command {
	var (
		thresholds []float64
		workers    []int
		chunks     []int
		parallel   int
		noStore    bool
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one plate under several thresholds and worker counts.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := g.cfg
			if err := applyPlateFlags(cmd, &cfg); err != nil {
				return err
			}
			started := time.Now()
			summary, err := sweep.Run(cmd.Context(), sweep.Options{
				Base:       cfg.Sim(),
				Thresholds: thresholds,
				Workers:    workers,
				ChunkSizes: chunks,
				Parallel:   parallel,
			})
			if err != nil {
				return err
			}

			if cfg.Store.Enabled && !noStore {
				st, err := store.Open(cfg.Store.Path)
				if err != nil {
					return err
				}
				defer st.Close()
				for _, res := range summary.Results {
					base := summary.Base
					base.Engine.Threshold = res.Scenario.Threshold
					base.Engine.Workers = res.Scenario.Workers
					base.Engine.ChunkSize = res.Scenario.ChunkSize
					rec := runner.Record(uuid.Nil, started, base, res.Report)
					rec.SweepID = summary.ID.String()
					if err := st.Save(cmd.Context(), &rec); err != nil {
						return err
					}
				}
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("#", "THRESHOLD", "WORKERS", "CHUNK", "ITERATIONS", "STATE", "MAX Δ", "ELAPSED")
			for i, res := range summary.Results {
				t.Row(
					strconv.Itoa(i+1),
					strconv.FormatFloat(res.Scenario.Threshold, 'g', -1, 64),
					strconv.Itoa(res.Scenario.Workers),
					strconv.Itoa(res.Scenario.ChunkSize),
					strconv.Itoa(res.Report.Iterations),
					res.Report.State.String(),
					fmt.Sprintf("%.4f", res.Report.MaxDelta),
					res.Report.Elapsed.Round(time.Microsecond).String(),
				)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sweep %s: %d scenarios on a %dx%d plate (seed %d)\n",
				summary.ID, len(summary.Results), cfg.Grid.Width, cfg.Grid.Height, cfg.Grid.Seed)
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}
	bindPlateFlags(cmd)
	cmd.Flags().Float64SliceVar(&thresholds, "thresholds", nil, "thresholds to try (default: the configured one)")
	cmd.Flags().IntSliceVar(&workers, "worker-counts", nil, "worker counts to try (default: the configured one)")
	cmd.Flags().IntSliceVar(&chunks, "chunks", nil, "chunk sizes to try (default: the configured one)")
	cmd.Flags().IntVar(&parallel, "parallel", 0, "scenarios run at once, 0 for GOMAXPROCS")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "do not record the runs in the history database")
	return cmd
}
