//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"alloy-heat/internal/core"
)

// HUD renders the run panel to the right of the simulation view.
type HUD struct {
	sim        core.Sim
	width      int
	panel      *ebiten.Image
	lastHeight int
	lines      []panelLine
	palette    []color.RGBA
	swatch     *ebiten.Image
}

// NewHUD constructs a HUD for the provided simulation and panel width.
func NewHUD(sim core.Sim, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{sim: sim, width: width}
	if p, ok := sim.(core.PaletteProvider); ok {
		h.palette = p.Palette()
	}
	if width > 0 {
		h.swatch = ebiten.NewImage(1, 1)
		h.swatch.Fill(color.White)
	}
	return h
}

// Width returns the panel width in pixels.
func (h *HUD) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

// Update refreshes the cached panel lines.
func (h *HUD) Update() {
	if h == nil {
		return
	}
	h.lines = panelLines(h.sim)
}

// Draw paints the HUD panel at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	height := h.sim.Size().H * scale
	if minHeight := panelPadding*2 + (len(h.lines)+2)*lineHeight; height < minHeight {
		height = minHeight
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})

	face := basicfont.Face7x13
	y := panelPadding + lineHeight
	for _, line := range h.lines {
		text.Draw(h.panel, line.label, face, panelPadding, y, line.kind.colour())
		if line.value != "" {
			w := text.BoundString(face, line.value).Dx()
			text.Draw(h.panel, line.value, face, h.width-panelPadding-w, y, line.kind.colour())
		}
		y += lineHeight
	}
	h.drawLegend(y)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

// drawLegend paints one swatch per colour band along a single row.
func (h *HUD) drawLegend(top int) {
	if len(h.palette) == 0 || h.swatch == nil {
		return
	}
	span := float64(h.width-2*panelPadding) / float64(len(h.palette))
	for i, c := range h.palette {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(span, float64(lineHeight-4))
		op.GeoM.Translate(float64(panelPadding)+float64(i)*span, float64(top-lineHeight+4))
		op.ColorScale.ScaleWithColor(c)
		h.panel.DrawImage(h.swatch, op)
	}
}

const (
	panelPadding = 12
	lineHeight   = 18
)
