// Package config loads gdlogic's CLI/engine configuration from an optional
// YAML file, overlaying CLI-flag values on top of file defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config captures the tunable settings shared by cmd/gdl's subcommands.
type Config struct {
	Log   LogConfig   `yaml:"log"`
	Rules RulesConfig `yaml:"rules"`
}

// LogConfig controls internal/logging's zap construction.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `yaml:"level"`
	// Format is "console" or "json".
	Format string `yaml:"format"`
}

// RulesConfig controls how gdl store/watch resolve bare filenames.
type RulesConfig struct {
	// SearchPath is a list of directories searched, in order, for a GDL
	// source file given by bare name rather than full path.
	SearchPath []string `yaml:"search_path"`
}

// DefaultConfig returns the configuration used when no file is present and
// no flag overrides a field.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Rules: RulesConfig{
			SearchPath: []string{"."},
		},
	}
}

// Load reads an optional YAML config file at path and overlays it on top of
// DefaultConfig. A missing path is not an error: Load returns the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if len(cfg.Rules.SearchPath) == 0 {
		cfg.Rules.SearchPath = []string{"."}
	}
	return cfg, cfg.Validate()
}

// Validate rejects configuration values cmd/gdl and internal/logging can't
// act on.
func (c Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q must be one of debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format %q must be one of console, json", c.Log.Format)
	}
	return nil
}

// ResolvePath searches Rules.SearchPath, in order, for name. If name already
// exists as given (an absolute path, or a path relative to the working
// directory), it is returned unchanged.
func (c Config) ResolvePath(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	for _, dir := range c.Rules.SearchPath {
		candidate := dir + string(os.PathSeparator) + name
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s: not found in search path %v", name, c.Rules.SearchPath)
}
