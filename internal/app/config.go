package app

import (
	"flag"
	"fmt"
	"strings"
)

// Config holds the viewer flags.
type Config struct {
	Sim        string
	Scale      int
	TPS        int
	Seed       int64
	PanelWidth int
	ConfigPath string
	Params     Params
}

// NewConfig returns the default viewer settings.
func NewConfig() *Config {
	return &Config{
		Sim:        "alloy",
		Scale:      24,
		TPS:        20,
		Seed:       42,
		PanelWidth: 220,
		Params:     Params{},
	}
}

// Bind registers the flags on fs.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Sim, "sim", c.Sim, "simulation to run")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixels per cell")
	fs.IntVar(&c.TPS, "tps", c.TPS, "iterations per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "initial seed")
	fs.IntVar(&c.PanelWidth, "panel", c.PanelWidth, "side panel width in pixels, 0 hides it")
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "YAML config file")
	fs.Var(c.Params, "set", "simulation parameter as key=value (repeatable)")
}

// Params collects repeated key=value flags into the factory map.
type Params map[string]string

func (p Params) String() string {
	parts := make([]string, 0, len(p))
	for k, v := range p {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

// Set parses one key=value pair.
func (p Params) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	if !ok || key == "" {
		return fmt.Errorf("expected key=value, got %q", v)
	}
	p[key] = value
	return nil
}
