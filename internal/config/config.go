// Package config provides configuration loading for the triq command.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/aleksaelezovic/triq/pkg/results"
)

// Config is the complete triq configuration
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Output  OutputConfig  `yaml:"output"`
	Store   StoreConfig   `yaml:"store"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LogConfig configures the stderr logger
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
}

// OutputConfig selects result serializations
type OutputConfig struct {
	AskFormat   string `yaml:"ask_format"`
	GraphFormat string `yaml:"graph_format"`
}

// StoreConfig sizes the in-memory store caches, in megabytes
type StoreConfig struct {
	IndexCacheMB int64 `yaml:"index_cache_mb"`
	BlockCacheMB int64 `yaml:"block_cache_mb"`
}

// MetricsConfig toggles query metrics collection
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Levels are the accepted log levels
var Levels = []string{"debug", "info", "warn", "error"}

// DefaultConfig returns a Config with defaults
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Output: OutputConfig{
			AskFormat:   results.FormatText,
			GraphFormat: results.FormatNTriples,
		},
		Store: StoreConfig{
			IndexCacheMB: 16,
			BlockCacheMB: 32,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if !contains(Levels, c.Log.Level) {
		return errors.Errorf("log.level %q must be one of %v", c.Log.Level, Levels)
	}
	if !contains(results.AskFormats, c.Output.AskFormat) {
		return errors.Errorf("output.ask_format %q must be one of %v", c.Output.AskFormat, results.AskFormats)
	}
	if !contains(results.GraphFormats, c.Output.GraphFormat) {
		return errors.Errorf("output.graph_format %q must be one of %v", c.Output.GraphFormat, results.GraphFormats)
	}
	if c.Store.IndexCacheMB < 0 {
		return errors.New("store.index_cache_mb must not be negative")
	}
	if c.Store.BlockCacheMB < 0 {
		return errors.New("store.block_cache_mb must not be negative")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config file")
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "parse config file")
	}
	return config, nil
}

// Merge merges another config into this one; non-zero values of other win.
// A false metrics.enabled cannot be told apart from an unset one, so Merge
// only ever switches metrics on.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}

	if other.Output.AskFormat != "" {
		c.Output.AskFormat = other.Output.AskFormat
	}
	if other.Output.GraphFormat != "" {
		c.Output.GraphFormat = other.Output.GraphFormat
	}

	if other.Store.IndexCacheMB != 0 {
		c.Store.IndexCacheMB = other.Store.IndexCacheMB
	}
	if other.Store.BlockCacheMB != 0 {
		c.Store.BlockCacheMB = other.Store.BlockCacheMB
	}

	if other.Metrics.Enabled {
		c.Metrics.Enabled = true
	}
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
