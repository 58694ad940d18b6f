//go:build ebiten

package app

import (
	"context"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"alloy-heat/internal/core"
	"alloy-heat/internal/logger"
	"alloy-heat/internal/render"
	"alloy-heat/internal/ui"
)

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	ctx     context.Context
	sim     core.Sim
	painter *render.GridPainter
	hud     *ui.HUD
	overlay *ui.Overlay
	palette []color.RGBA

	scale    int
	paused   bool
	tickOnce bool
	seed     int64
}

// New constructs a Game for the provided simulation.
func New(ctx context.Context, sim core.Sim, scale, panelWidth int, seed int64) *Game {
	size := sim.Size()
	g := &Game{
		ctx:     ctx,
		sim:     sim,
		painter: render.NewGridPainter(size.W, size.H),
		hud:     ui.NewHUD(sim, panelWidth),
		overlay: ui.NewOverlay(sim, scale),
		palette: render.Palette(),
		scale:   scale,
		seed:    seed,
	}
	if p, ok := sim.(core.PaletteProvider); ok {
		g.palette = p.Palette()
	}
	return g
}

// Reset reinitializes the simulation state with the provided seed.
func (g *Game) Reset(seed int64) error {
	g.seed = seed
	g.tickOnce = false
	return g.sim.Reset(seed)
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if g.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.Reset(g.seed); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		if err := g.Reset(time.Now().UnixNano()); err != nil {
			return err
		}
	}

	g.overlay.Update()

	if (!g.paused || g.tickOnce) && !g.sim.Done() {
		if err := g.sim.Step(g.ctx); err != nil {
			logger.WarnKV(g.ctx, "Step failed, pausing", "error", err)
			g.paused = true
		}
		g.tickOnce = false
	}
	g.hud.Update()
	return nil
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sim.Cells(), g.palette, g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.sim.Size().W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.sim.Size()
	return s.W*g.scale + g.hud.Width(), s.H * g.scale
}
