// Package config loads the alloy-heat settings from defaults, an optional
// YAML file and ALLOYHEAT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"alloy-heat/internal/alloy"
	"alloy-heat/internal/engine"
	"alloy-heat/internal/logger"
	"alloy-heat/internal/populate"
	"alloy-heat/internal/sims/alloysim"
)

// EnvPrefix prefixes every environment override, e.g. ALLOYHEAT_ENGINE_WORKERS.
const EnvPrefix = "ALLOYHEAT"

// Config holds application configuration.
type Config struct {
	Grid   GridConfig   `mapstructure:"grid" yaml:"grid"`
	Engine EngineConfig `mapstructure:"engine" yaml:"engine"`
	Metals []float64    `mapstructure:"metals" yaml:"metals"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
	Stream StreamConfig `mapstructure:"stream" yaml:"stream"`
	Store  StoreConfig  `mapstructure:"store" yaml:"store"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// GridConfig describes the plate.
type GridConfig struct {
	Width    int    `mapstructure:"width" yaml:"width"`
	Height   int    `mapstructure:"height" yaml:"height"`
	Seed     int64  `mapstructure:"seed" yaml:"seed"`
	Strategy string `mapstructure:"strategy" yaml:"strategy"`
}

// EngineConfig holds the propagation settings.
type EngineConfig struct {
	Threshold     float64 `mapstructure:"threshold" yaml:"threshold"`
	MaxIterations int     `mapstructure:"max_iterations" yaml:"max_iterations"`
	Workers       int     `mapstructure:"workers" yaml:"workers"`
	ChunkSize     int     `mapstructure:"chunk_size" yaml:"chunk_size"`
	LogEvery      int     `mapstructure:"log_every" yaml:"log_every"`
	// TPS paces the run to at most TPS iterations per second. Zero runs flat out.
	TPS int `mapstructure:"tps" yaml:"tps"`
}

// OutputConfig controls console output.
type OutputConfig struct {
	Every  int    `mapstructure:"every" yaml:"every"`
	Colour bool   `mapstructure:"colour" yaml:"colour"`
	PNG    string `mapstructure:"png" yaml:"png"`
	Scale  int    `mapstructure:"scale" yaml:"scale"`
}

// StreamConfig controls the websocket frame stream. An empty Addr disables it.
type StreamConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// StoreConfig holds sqlite settings.
type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

// LogConfig holds the log level.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Default returns the built-in settings.
func Default() Config {
	sim := alloysim.DefaultConfig()
	return Config{
		Grid: GridConfig{
			Width:    sim.Width,
			Height:   sim.Height,
			Seed:     sim.Seed,
			Strategy: sim.Strategy,
		},
		Engine: EngineConfig{
			Threshold:     sim.Engine.Threshold,
			MaxIterations: sim.Engine.MaxIterations,
			Workers:       sim.Engine.Workers,
			TPS:           20,
		},
		Metals: sim.Metals,
		Output: OutputConfig{Every: 1, Colour: false, Scale: 24},
		Store:  StoreConfig{Enabled: true, Path: defaultStorePath()},
		Log:    LogConfig{Level: "info"},
	}
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "alloy-heat.db"
	}
	return filepath.Join(home, ".local", "share", "alloy-heat", "runs.db")
}

// Load reads configuration from path (or, when empty, $ALLOYHEAT_CONFIG or
// ./alloy-heat.yaml if present) and applies environment overrides.
func Load(path string) (Config, error) {
	v := viper.New()

	d := Default()
	v.SetDefault("grid.width", d.Grid.Width)
	v.SetDefault("grid.height", d.Grid.Height)
	v.SetDefault("grid.seed", d.Grid.Seed)
	v.SetDefault("grid.strategy", d.Grid.Strategy)
	v.SetDefault("engine.threshold", d.Engine.Threshold)
	v.SetDefault("engine.max_iterations", d.Engine.MaxIterations)
	v.SetDefault("engine.workers", d.Engine.Workers)
	v.SetDefault("engine.chunk_size", d.Engine.ChunkSize)
	v.SetDefault("engine.log_every", d.Engine.LogEvery)
	v.SetDefault("engine.tps", d.Engine.TPS)
	v.SetDefault("metals", d.Metals)
	v.SetDefault("output.every", d.Output.Every)
	v.SetDefault("output.colour", d.Output.Colour)
	v.SetDefault("output.png", d.Output.PNG)
	v.SetDefault("output.scale", d.Output.Scale)
	v.SetDefault("stream.addr", d.Stream.Addr)
	v.SetDefault("store.enabled", d.Store.Enabled)
	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("log.level", d.Log.Level)

	v.SetConfigType("yaml")
	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("alloy-heat")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes cfg as YAML, creating the parent directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks every section. Errors wrap alloy.ErrInvalidConfiguration.
func (c Config) Validate() error {
	if c.Grid.Height < 1 || c.Grid.Width < 4*c.Grid.Height {
		return fmt.Errorf("%w: grid %dx%d must be at least four times wider than high", alloy.ErrInvalidConfiguration, c.Grid.Width, c.Grid.Height)
	}
	if _, err := populate.Lookup(c.Grid.Strategy); err != nil {
		return err
	}
	if _, err := alloy.MetalsFromConstants(c.Metals); err != nil {
		return err
	}
	if c.Engine.TPS < 0 {
		return fmt.Errorf("%w: tps %d must not be negative", alloy.ErrInvalidConfiguration, c.Engine.TPS)
	}
	if _, ok := logger.ParseLogLevel(c.Log.Level); !ok {
		return fmt.Errorf("%w: unknown log level %q", alloy.ErrInvalidConfiguration, c.Log.Level)
	}
	return c.EngineConfig().Validate()
}

// EngineConfig returns the engine section in engine form.
func (c Config) EngineConfig() engine.Config {
	return engine.Config{
		Threshold:     c.Engine.Threshold,
		MaxIterations: c.Engine.MaxIterations,
		Workers:       c.Engine.Workers,
		ChunkSize:     c.Engine.ChunkSize,
		LogEvery:      c.Engine.LogEvery,
	}
}

// Sim returns the settings in the form the alloy simulation expects.
func (c Config) Sim() alloysim.Config {
	return alloysim.Config{
		Width:    c.Grid.Width,
		Height:   c.Grid.Height,
		Seed:     c.Grid.Seed,
		Strategy: c.Grid.Strategy,
		Engine:   c.EngineConfig(),
		Metals:   append([]float64(nil), c.Metals...),
	}
}
