package alloysim

import (
	"strconv"
	"strings"

	"alloy-heat/internal/alloy"
	"alloy-heat/internal/engine"
)

// Config controls the alloy plate and its propagation run.
type Config struct {
	Width  int
	Height int

	Seed     int64
	Strategy string

	Engine engine.Config
	Metals []float64
}

// DefaultConfig returns the reference 20x5 plate.
func DefaultConfig() Config {
	return Config{
		Width:    20,
		Height:   5,
		Seed:     42,
		Strategy: "uniform",
		Engine:   engine.DefaultConfig(),
		Metals:   []float64{0.75, 1.0, 1.25},
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
// Unparseable values keep their defaults.
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["strategy"]; ok && v != "" {
		c.Strategy = v
	}
	if v, ok := cfg["threshold"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Engine.Threshold = parsed
		}
	}
	if v, ok := cfg["max_iterations"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Engine.MaxIterations = parsed
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Engine.Workers = parsed
		}
	}
	if v, ok := cfg["chunk"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Engine.ChunkSize = parsed
		}
	}
	if v, ok := cfg["metals"]; ok {
		if parsed, ok := parseMetals(v); ok {
			c.Metals = parsed
		}
	}
	return c
}

// parseMetals reads a comma separated list of thermal constants.
func parseMetals(v string) ([]float64, bool) {
	parts := strings.Split(v, ",")
	if len(parts) != alloy.MetalCount {
		return nil, false
	}
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || f <= 0 {
			return nil, false
		}
		out = append(out, f)
	}
	return out, true
}
