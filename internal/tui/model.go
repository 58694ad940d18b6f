// Package tui renders a running simulation in the terminal with Bubble Tea.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"alloy-heat/internal/core"
	"alloy-heat/internal/engine"
)

type tickMsg time.Time

// statusProvider is implemented by sims that report per-iteration stats.
type statusProvider interface {
	Status() (engine.IterationStats, error)
}

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#89b4fa")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6adc8"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
)

// Model drives a core.Sim one step per tick.
type Model struct {
	ctx      context.Context
	sim      core.Sim
	interval time.Duration
	styles   []lipgloss.Style
	paused   bool
	err      error
}

// New returns a model stepping sim every interval.
func New(ctx context.Context, sim core.Sim, interval time.Duration) Model {
	m := Model{ctx: ctx, sim: sim, interval: interval}
	if p, ok := sim.(core.PaletteProvider); ok {
		for _, c := range p.Palette() {
			hex := fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
			m.styles = append(m.styles, lipgloss.NewStyle().Foreground(lipgloss.Color(hex)))
		}
	}
	return m
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, sim core.Sim, interval time.Duration) error {
	_, err := tea.NewProgram(New(ctx, sim, interval), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init schedules the first tick.
func (m Model) Init() tea.Cmd { return m.tick() }

// Update handles keys and ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "n":
			if m.paused {
				m.step()
			}
		}
		return m, nil
	case tickMsg:
		if !m.paused {
			m.step()
		}
		if m.sim.Done() || m.err != nil {
			return m, nil
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	if m.err != nil || m.sim.Done() {
		return
	}
	m.err = m.sim.Step(m.ctx)
}

// View draws the grid, two characters per cell, followed by a status line.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.sim.Name()))
	b.WriteString("\n\n")

	size := m.sim.Size()
	cells := m.sim.Cells()
	for r := 0; r < size.H; r++ {
		for c := 0; c < size.W; c++ {
			b.WriteString(m.cell(cells[r*size.W+c]))
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	b.WriteString(m.status())
	b.WriteByte('\n')
	return b.String()
}

func (m Model) cell(v uint8) string {
	if len(m.styles) == 0 {
		return fmt.Sprintf("%x ", v&0xf)
	}
	idx := int(v)
	if idx >= len(m.styles) {
		idx = len(m.styles) - 1
	}
	return m.styles[idx].Render("██")
}

func (m Model) status() string {
	if m.err != nil {
		return errStyle.Render("error: " + m.err.Error())
	}
	parts := []string{}
	if sp, ok := m.sim.(statusProvider); ok {
		stats, _ := sp.Status()
		parts = append(parts,
			fmt.Sprintf("iteration %d", stats.Iteration),
			fmt.Sprintf("changed %d", stats.ChangedCells),
			fmt.Sprintf("max Δ %.4f", stats.MaxDelta))
	}
	switch {
	case m.sim.Done():
		parts = append(parts, "done")
	case m.paused:
		parts = append(parts, "paused")
	}
	parts = append(parts, "space pause · n step · q quit")
	return statusStyle.Render(strings.Join(parts, "  "))
}
