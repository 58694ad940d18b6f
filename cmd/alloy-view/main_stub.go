//go:build !ebiten

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"alloy-heat/internal/tui"
)

// Without the ebiten tag the viewer draws the same plate in the terminal.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	cfg, sim, err := setup(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if closer, ok := sim.(interface{ Close() }); ok {
		defer closer.Close()
	}
	if err := tui.Run(ctx, sim, tickInterval(cfg.TPS)); err != nil {
		log.Fatal(err)
	}
}
