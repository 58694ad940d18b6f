package core

import (
	"context"
	"fmt"
	"image/color"
	"sort"
)

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Sim defines the minimal contract a grid simulation must implement.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64) error
	Step(ctx context.Context) error
	Done() bool
	Cells() []uint8
}

// PaletteProvider maps the values returned by Sim.Cells to colours.
type PaletteProvider interface {
	Palette() []color.RGBA
}

// Factory constructs a Sim using an optional configuration map.
type Factory func(cfg map[string]string) (Sim, error)

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}

// Names returns the registered simulation names in sorted order.
func Names() []string {
	names := make([]string, 0, len(sims))
	for name := range sims {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the factory registered under name. Unknown names produce an
// error that suggests the closest registered name.
func Lookup(name string) (Factory, error) {
	if f, ok := sims[name]; ok {
		return f, nil
	}
	if hint := Suggest(name, Names()); hint != "" {
		return nil, fmt.Errorf("unknown sim %q, did you mean %q?", name, hint)
	}
	return nil, fmt.Errorf("unknown sim %q", name)
}
