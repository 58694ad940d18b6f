// Package ui draws the side panel and overlays of the ebiten viewer. The
// layout helpers here are build-tag independent so they can be tested
// headless.
package ui

import (
	"fmt"
	"image/color"

	"alloy-heat/internal/alloy"
	"alloy-heat/internal/core"
	"alloy-heat/internal/engine"
)

type parameterProvider interface {
	Parameters() core.ParameterSnapshot
}

type statusProvider interface {
	Status() (engine.IterationStats, error)
}

type gridProvider interface {
	Grid() *alloy.Grid
}

// lineKind selects the colour a panel line is drawn with.
type lineKind int

const (
	lineTitle lineKind = iota
	lineGroup
	lineParam
	lineStatus
	lineError
)

type panelLine struct {
	kind  lineKind
	label string
	value string
}

// panelLines lists what the HUD shows for sim, top to bottom.
func panelLines(sim core.Sim) []panelLine {
	lines := []panelLine{{kind: lineTitle, label: sim.Name()}}

	if sp, ok := sim.(statusProvider); ok {
		stats, err := sp.Status()
		state := stats.State.String()
		if sim.Done() {
			state = "finished"
		}
		lines = append(lines,
			panelLine{kind: lineGroup, label: "Run"},
			panelLine{kind: lineStatus, label: "Iteration", value: fmt.Sprintf("%d", stats.Iteration)},
			panelLine{kind: lineStatus, label: "Changed", value: fmt.Sprintf("%d", stats.ChangedCells)},
			panelLine{kind: lineStatus, label: "Max delta", value: fmt.Sprintf("%.4f", stats.MaxDelta)},
			panelLine{kind: lineStatus, label: "State", value: state},
		)
		if err != nil {
			lines = append(lines, panelLine{kind: lineError, label: err.Error()})
		}
	}

	if pp, ok := sim.(parameterProvider); ok {
		for _, g := range pp.Parameters().Groups {
			lines = append(lines, panelLine{kind: lineGroup, label: g.Name})
			for _, p := range g.Params {
				lines = append(lines, panelLine{kind: lineParam, label: p.Label, value: p.Value})
			}
		}
	}
	return lines
}

func (k lineKind) colour() color.RGBA {
	switch k {
	case lineTitle:
		return color.RGBA{R: 200, G: 200, B: 210, A: 255}
	case lineGroup:
		return color.RGBA{R: 137, G: 180, B: 250, A: 255}
	case lineError:
		return color.RGBA{R: 243, G: 139, B: 168, A: 255}
	default:
		return color.RGBA{R: 220, G: 220, B: 230, A: 255}
	}
}

// metalTints colour the dominant metal of a cell in the composition overlay.
var metalTints = [alloy.MetalCount]color.RGBA{
	{R: 166, G: 227, B: 161, A: 255},
	{R: 249, G: 226, B: 175, A: 255},
	{R: 203, G: 166, B: 247, A: 255},
}

// compositionMask fills buf with one RGBA pixel per cell tinted by the
// cell's dominant metal, with alpha proportional to its share.
func compositionMask(buf []byte, g *alloy.Grid) {
	comps := g.Compositions()
	for i, comp := range comps {
		comp = comp.Normalized()
		best := 0
		for m := 1; m < alloy.MetalCount; m++ {
			if comp[m] > comp[best] {
				best = m
			}
		}
		tint := metalTints[best]
		base := i * 4
		alpha := comp[best] * 200
		if alpha > 255 {
			alpha = 255
		}
		a := uint8(alpha)
		// Premultiplied, as ebiten expects.
		buf[base+0] = uint8(uint16(tint.R) * uint16(a) / 255)
		buf[base+1] = uint8(uint16(tint.G) * uint16(a) / 255)
		buf[base+2] = uint8(uint16(tint.B) * uint16(a) / 255)
		buf[base+3] = a
	}
}
