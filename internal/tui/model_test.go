package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"alloy-heat/internal/sims/alloysim"
)

func newModel(t *testing.T, maxIter int) (Model, *alloysim.Sim) {
	t.Helper()
	cfg := alloysim.DefaultConfig()
	cfg.Engine.MaxIterations = maxIter
	sim, err := alloysim.New(cfg)
	require.NoError(t, err)
	t.Cleanup(sim.Close)
	return New(context.Background(), sim, time.Millisecond), sim
}

func key(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func apply(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out, cmd
}

func TestTickStepsUntilDone(t *testing.T) {
	m, sim := newModel(t, 3)
	var cmd tea.Cmd
	for i := 0; i < 3; i++ {
		m, cmd = apply(t, m, tickMsg(time.Now()))
	}
	require.True(t, sim.Done())
	require.Nil(t, cmd, "no tick is scheduled once the run is done")
	require.Equal(t, 3, sim.Engine().Iteration())
	require.Contains(t, m.View(), "done")
}

func TestPauseAndSingleStep(t *testing.T) {
	m, sim := newModel(t, 50)
	m, _ = apply(t, m, tea.KeyMsg{Type: tea.KeySpace})
	require.True(t, m.paused)

	m, cmd := apply(t, m, tickMsg(time.Now()))
	require.NotNil(t, cmd)
	require.Equal(t, 0, sim.Engine().Iteration())

	m, _ = apply(t, m, key("n"))
	require.Equal(t, 1, sim.Engine().Iteration())
	require.Contains(t, m.View(), "paused")
}

func TestQuit(t *testing.T) {
	m, _ := newModel(t, 5)
	_, cmd := apply(t, m, key("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	require.True(t, ok)
}

func TestViewDrawsEveryRow(t *testing.T) {
	m, _ := newModel(t, 5)
	view := m.View()
	require.True(t, strings.HasPrefix(view, "alloy") || strings.Contains(view, "alloy"))
	require.GreaterOrEqual(t, strings.Count(view, "\n"), 5+3)
	require.Contains(t, view, "iteration 0")
}
