// Package console prints temperature grids and run summaries to a terminal.
package console

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"alloy-heat/internal/alloy"
	"alloy-heat/internal/core"
	"alloy-heat/internal/engine"
	"alloy-heat/internal/render"
)

// Options controls what the printer emits.
type Options struct {
	// Colour tints each value with its temperature band.
	Colour bool
	// Every prints the grid after every Every-th iteration. Zero prints only
	// the final grid.
	Every int
}

// Printer writes grids in the row format "t0 || t1 || ...", two decimals per value.
type Printer struct {
	mu     sync.Mutex
	out    io.Writer
	opts   Options
	styles []lipgloss.Style
	header lipgloss.Style
}

// NewPrinter returns a printer writing to out.
func NewPrinter(out io.Writer, opts Options) *Printer {
	p := &Printer{out: out, opts: opts}
	if opts.Colour {
		r := lipgloss.NewRenderer(out)
		for _, c := range render.Palette() {
			hex := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
			p.styles = append(p.styles, r.NewStyle().Foreground(lipgloss.Color(hex)))
		}
		p.header = r.NewStyle().Foreground(lipgloss.Color("#89b4fa")).Bold(true)
	}
	return p
}

// Observe prints the grid after selected iterations. The iteration that ends
// the run is left to PrintReport. It satisfies engine.Observer.
func (p *Printer) Observe(_ context.Context, stats engine.IterationStats, grid *alloy.Grid) error {
	if p.opts.Every <= 0 || stats.Iteration%p.opts.Every != 0 || stats.State.Terminal() {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := fmt.Fprintln(p.out, p.title(fmt.Sprintf("Iteration %d:", stats.Iteration))); err != nil {
		return err
	}
	return p.grid(grid)
}

// PrintGrid writes every row of the grid followed by a blank line.
func (p *Printer) PrintGrid(grid *alloy.Grid) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.grid(grid)
}

// PrintReport writes the final grid and the iteration count.
func (p *Printer) PrintReport(grid *alloy.Grid, report engine.Report) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := fmt.Fprintln(p.out, p.title("Final Temperature Grid:")); err != nil {
		return err
	}
	if err := p.grid(grid); err != nil {
		return err
	}
	if report.State == engine.StateConverged || report.State == engine.StateExhausted {
		_, err := fmt.Fprintf(p.out, "Simulation completed in %d iterations.\n", report.Iterations)
		return err
	}
	_, err := fmt.Fprintf(p.out, "Simulation %s after %d iterations.\n", report.State, report.Iterations)
	return err
}

// PrintParameters lists a parameter snapshot group by group.
func (p *Printer) PrintParameters(snap core.ParameterSnapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, g := range snap.Groups {
		if _, err := fmt.Fprintln(p.out, p.title(g.Name)); err != nil {
			return err
		}
		for _, param := range g.Params {
			if _, err := fmt.Fprintf(p.out, "  %-18s %s\n", param.Label, param.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *Printer) title(s string) string {
	if p.opts.Colour {
		return p.header.Render(s)
	}
	return s
}

func (p *Printer) grid(grid *alloy.Grid) error {
	var b strings.Builder
	cells := make([]string, grid.Width())
	for r := 0; r < grid.Height(); r++ {
		for c := range cells {
			cells[c] = p.cell(grid.Temperature(r, c))
		}
		b.WriteString(strings.Join(cells, " || "))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	_, err := io.WriteString(p.out, b.String())
	return err
}

func (p *Printer) cell(t float64) string {
	s := fmt.Sprintf("%.2f", t)
	if p.opts.Colour {
		return p.styles[render.BandIndex(t)].Render(s)
	}
	return s
}
