//go:build ebiten

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"

	"alloy-heat/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	cfg, sim, err := setup(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	game := app.New(ctx, sim, cfg.Scale, cfg.PanelWidth, cfg.Seed)

	ebiten.SetWindowTitle("alloy-heat - " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	w, h := game.Layout(0, 0)
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
