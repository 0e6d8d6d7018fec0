// Package config loads fairalpha settings from a YAML file and FAIRALPHA_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/alexshd/fairalpha"
)

// EnvPrefix is stripped from environment variable names before mapping.
const EnvPrefix = "FAIRALPHA_"

// Config is the on-disk and environment configuration.
type Config struct {
	Calibration Calibration `koanf:"calibration"`
	Search      Search      `koanf:"search"`
	Sweep       Sweep       `koanf:"sweep"`
	Log         Log         `koanf:"log"`
}

// Calibration holds the default request.
type Calibration struct {
	K      int     `koanf:"k"`
	P      float64 `koanf:"p"`
	Alpha  float64 `koanf:"alpha"`
	Target float64 `koanf:"target"` // 0 means compare against alpha
}

// Search mirrors fairalpha.Config.
type Search struct {
	FlatMaxK      int     `koanf:"flat_max_k"`
	FlatSteps     int     `koanf:"flat_steps"`
	Tolerance     float64 `koanf:"tolerance"`
	Step          float64 `koanf:"step"`
	MaxIterations int     `koanf:"max_iterations"`
	Workers       int     `koanf:"workers"`
}

// Sweep lists the ranking lengths calibrated by the sweep command.
type Sweep struct {
	Levels []int `koanf:"levels"`
}

// Log controls the CLI logger.
type Log struct {
	Level   string `koanf:"level"`
	NoColor bool   `koanf:"no_color"`
}

// Default returns the built-in configuration.
func Default() *Config {
	search := fairalpha.DefaultConfig()
	sweep := fairalpha.DefaultSweepConfig()
	return &Config{
		Calibration: Calibration{K: 100, P: 0.5, Alpha: 0.1},
		Search: Search{
			FlatMaxK:      search.FlatMaxK,
			FlatSteps:     search.FlatSteps,
			Tolerance:     search.Tolerance,
			Step:          search.Step,
			MaxIterations: search.MaxIterations,
			Workers:       search.Workers,
		},
		Sweep: Sweep{Levels: sweep.Levels},
		Log:   Log{Level: "info"},
	}
}

// Load reads configuration with the following precedence (highest first):
//  1. Environment variables (FAIRALPHA_SEARCH_FLAT_STEPS -> search.flat_steps,
//     lists comma separated: FAIRALPHA_SWEEP_LEVELS=20,40,100)
//  2. YAML file at path, if path is non-empty
//  3. Default()
//
// A non-empty path that does not exist is an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	// The decoder overlays slices element by element, so levels start empty.
	levels := cfg.Sweep.Levels
	cfg.Sweep.Levels = nil
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if len(cfg.Sweep.Levels) == 0 {
		cfg.Sweep.Levels = levels
	}
	return cfg, nil
}

// listKeys are decoded from comma separated environment values.
var listKeys = map[string]bool{
	"sweep.levels": true,
}

// envValue maps an environment variable to its config key and splits list
// values such as FAIRALPHA_SWEEP_LEVELS=20,40,100.
func envValue(name, value string) (string, interface{}) {
	key := envKey(name)
	if !listKeys[key] {
		return key, value
	}
	items := make([]string, 0, strings.Count(value, ",")+1)
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

// envKey maps FAIRALPHA_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

// SearchConfig converts the search section, with sweep concurrency.
func (c *Config) SearchConfig() fairalpha.Config {
	return fairalpha.Config{
		FlatMaxK:      c.Search.FlatMaxK,
		FlatSteps:     c.Search.FlatSteps,
		Tolerance:     c.Search.Tolerance,
		Step:          c.Search.Step,
		MaxIterations: c.Search.MaxIterations,
		Workers:       c.Search.Workers,
	}
}

// Request builds the default calibration request. It is not validated.
func (c *Config) Request() fairalpha.Request {
	target := c.Calibration.Target
	if target == 0 {
		target = c.Calibration.Alpha
	}
	return fairalpha.Request{
		K:      c.Calibration.K,
		P:      c.Calibration.P,
		Alpha:  c.Calibration.Alpha,
		Target: target,
	}
}

// Validate checks the search section and the log level.
func (c *Config) Validate() error {
	var errs []error
	if err := c.SearchConfig().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("search: %w", err))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log: %w", err))
	}
	return errors.Join(errs...)
}

// ParseLevel converts a level name to slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q (debug, info, warn, error)", s)
	}
	return level, nil
}
