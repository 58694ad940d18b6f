package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"alloy-heat/internal/sims/alloysim"
	"alloy-heat/internal/tui"
)

func newWatchCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch a run in the terminal.",
		Long:  "Steps the plate at --tps iterations per second and draws it in colour. Space pauses, n steps once, q quits.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := g.cfg
			if err := applyPlateFlags(cmd, &cfg); err != nil {
				return err
			}
			sim, err := alloysim.New(cfg.Sim())
			if err != nil {
				return err
			}
			defer sim.Close()

			interval := time.Millisecond
			if cfg.Engine.TPS > 0 {
				interval = time.Second / time.Duration(cfg.Engine.TPS)
			}
			return tui.Run(cmd.Context(), sim, interval)
		},
	}
	bindPlateFlags(cmd)
	return cmd
}
