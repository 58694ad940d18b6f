// Package cmd holds the alloy-heat cobra commands.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"alloy-heat/internal/config"
	"alloy-heat/internal/logger"
	"alloy-heat/internal/version"
)

// globals are the settings shared by every subcommand.
type globals struct {
	configPath string
	logLevel   string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:   "alloy-heat",
		Short: "Simulate heat spreading through a three-metal alloy plate.",
		Long: `alloy-heat iterates the temperature of a rectangular alloy plate heated at two
opposite corners until no cell changes by more than the threshold or the
iteration cap is reached.

Settings come from built-in defaults, an optional YAML file (--config or
$ALLOYHEAT_CONFIG, otherwise ./alloy-heat.yaml) and ALLOYHEAT_* environment
variables, in increasing precedence. Command flags override all of them.`,
		Version:      version.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(g.configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = g.logLevel
			}
			level, ok := logger.ParseLogLevel(cfg.Log.Level)
			if !ok {
				return fmt.Errorf("unknown log level %q", cfg.Log.Level)
			}
			logger.SetLevel(level)
			g.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "path to configuration file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "debug, info, warn or error")

	root.AddCommand(
		newRunCmd(g),
		newWatchCmd(g),
		newSweepCmd(g),
		newHistoryCmd(g),
		newConfigCmd(g),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI and exits with a non-zero status on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
