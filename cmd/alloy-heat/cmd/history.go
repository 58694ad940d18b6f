package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"alloy-heat/internal/store"
)

func newHistoryCmd(g *globals) *cobra.Command {
	var (
		limit   int
		sweepID string
	)
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded runs, or show one run in detail.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(g.cfg.Store.Path)
			if err != nil {
				return err
			}
			defer st.Close()
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				id, err := uuid.Parse(args[0])
				if err != nil {
					return fmt.Errorf("parse run id: %w", err)
				}
				r, err := st.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				printRun(cmd, r)
				return nil
			}

			var runs []store.Run
			if sweepID != "" {
				runs, err = st.ListSweep(cmd.Context(), sweepID)
			} else {
				runs, err = st.List(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded.")
				return nil
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("ID", "STARTED", "PLATE", "SEED", "THRESHOLD", "WORKERS", "ITERATIONS", "STATE")
			for _, r := range runs {
				t.Row(
					r.ID.String(),
					r.StartedAt.Local().Format(time.DateTime),
					fmt.Sprintf("%dx%d", r.Width, r.Height),
					strconv.FormatInt(r.Seed, 10),
					strconv.FormatFloat(r.Threshold, 'g', -1, 64),
					strconv.Itoa(r.Workers),
					strconv.Itoa(r.Iterations),
					r.State,
				)
			}
			fmt.Fprintln(out, t.Render())
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to list, 0 for all")
	cmd.Flags().StringVar(&sweepID, "sweep", "", "list the runs of one sweep")
	return cmd
}

func printRun(cmd *cobra.Command, r store.Run) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s\n", r.ID)
	if r.SweepID != "" {
		fmt.Fprintf(out, "  sweep           %s\n", r.SweepID)
	}
	fmt.Fprintf(out, "  started         %s\n", r.StartedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(out, "  plate           %dx%d, seed %d, %s\n", r.Width, r.Height, r.Seed, r.Strategy)
	fmt.Fprintf(out, "  threshold       %g\n", r.Threshold)
	fmt.Fprintf(out, "  max iterations  %d\n", r.MaxIterations)
	fmt.Fprintf(out, "  workers         %d (chunk %d)\n", r.Workers, r.ChunkSize)
	fmt.Fprintf(out, "  outcome         %s after %d iterations, max delta %.4f\n", r.State, r.Iterations, r.MaxDelta)
	fmt.Fprintf(out, "  elapsed         %s\n", r.Elapsed)
}
