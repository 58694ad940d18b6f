package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"alloy-heat/internal/alloy"
	"alloy-heat/internal/core"
	"alloy-heat/internal/engine"
	"alloy-heat/internal/populate"
	"alloy-heat/internal/version"
)

func newVersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information and the propagation model.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			if short {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), info.Version)
				return err
			}

			def := engine.DefaultConfig()
			var b strings.Builder
			fmt.Fprintln(&b, info)
			fmt.Fprintf(&b, "  %-12s amplification %g, sources fixed at %g\n", "model", engine.Amplification, alloy.SourceTemperature)
			fmt.Fprintf(&b, "  %-12s threshold %g, max iterations %d, workers %d\n", "engine", def.Threshold, def.MaxIterations, def.Workers)
			fmt.Fprintf(&b, "  %-12s %s\n", "metals", metalConstants(alloy.DefaultMetals()))
			fmt.Fprintf(&b, "  %-12s %s\n", "sims", strings.Join(core.Names(), ", "))
			fmt.Fprintf(&b, "  %-12s %s\n", "strategies", strings.Join(populate.Names(), ", "))
			_, err := fmt.Fprint(cmd.OutOrStdout(), b.String())
			return err
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print only the version")
	return cmd
}

func metalConstants(metals []alloy.Metal) string {
	parts := make([]string, len(metals))
	for i, m := range metals {
		parts[i] = strconv.FormatFloat(m.C(), 'g', -1, 64)
	}
	return strings.Join(parts, ", ")
}
