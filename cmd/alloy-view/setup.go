package main

import (
	"flag"
	"time"

	"alloy-heat/internal/app"
	"alloy-heat/internal/config"
	"alloy-heat/internal/core"
	"alloy-heat/internal/logger"

	_ "alloy-heat/internal/sims/alloysim"
)

// setup parses the flags, applies the configuration file and builds the
// seeded sim both viewers step.
func setup(fs *flag.FlagSet, args []string) (*app.Config, core.Sim, error) {
	cfg := app.NewConfig()
	cfg.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	settings, err := config.Load(cfg.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	if level, ok := logger.ParseLogLevel(settings.Log.Level); ok {
		logger.SetLevel(level)
	}

	factory, err := core.Lookup(cfg.Sim)
	if err != nil {
		return nil, nil, err
	}
	params := simParams(settings)
	for k, v := range cfg.Params {
		params[k] = v
	}
	sim, err := factory(params)
	if err != nil {
		return nil, nil, err
	}
	if err := sim.Reset(cfg.Seed); err != nil {
		return nil, nil, err
	}
	return cfg, sim, nil
}

func tickInterval(tps int) time.Duration {
	if tps <= 0 {
		return time.Millisecond
	}
	return time.Second / time.Duration(tps)
}
