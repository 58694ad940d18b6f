package main

import (
	"strconv"
	"strings"

	"alloy-heat/internal/config"
)

// simParams converts the loaded settings into the registry factory map so
// -set flags can override single keys.
func simParams(c config.Config) map[string]string {
	metals := make([]string, len(c.Metals))
	for i, m := range c.Metals {
		metals[i] = strconv.FormatFloat(m, 'g', -1, 64)
	}
	return map[string]string{
		"w":              strconv.Itoa(c.Grid.Width),
		"h":              strconv.Itoa(c.Grid.Height),
		"seed":           strconv.FormatInt(c.Grid.Seed, 10),
		"strategy":       c.Grid.Strategy,
		"threshold":      strconv.FormatFloat(c.Engine.Threshold, 'g', -1, 64),
		"max_iterations": strconv.Itoa(c.Engine.MaxIterations),
		"workers":        strconv.Itoa(c.Engine.Workers),
		"chunk":          strconv.Itoa(c.Engine.ChunkSize),
		"metals":         strings.Join(metals, ","),
	}
}
