// Package config is the YAML-driven operational configuration for the
// peaqcore driver: channel count, logging, and the metrics listener.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LogLevel is the driver's logging verbosity.
type LogLevel int

const (
	LogInfo LogLevel = iota
	LogDebug
	LogQuiet
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogInfo:
		return "info"
	case LogDebug:
		return "debug"
	case LogQuiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// MarshalYAML implements yaml.Marshaler for LogLevel.
func (l LogLevel) MarshalYAML() (interface{}, error) {
	return l.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler for LogLevel.
func (l *LogLevel) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	level, err := logLevelFromString(s)
	if err != nil {
		return err
	}
	*l = level
	return nil
}

func logLevelFromString(s string) (LogLevel, error) {
	switch s {
	case "", "info":
		return LogInfo, nil
	case "debug":
		return LogDebug, nil
	case "quiet":
		return LogQuiet, nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", s)
	}
}

// Config is the complete peaqcore driver configuration.
type Config struct {
	Channels int      `yaml:"channels"`  // number of channels the comparison runs over
	LogLevel LogLevel `yaml:"log_level"` // driver logging verbosity

	MetricsEnabled bool   `yaml:"metrics_enabled"` // serve Prometheus metrics over HTTP
	MetricsAddr    string `yaml:"metrics_addr"`    // listen address when metrics_enabled is true, e.g. ":9090"

	Comparison string `yaml:"comparison"` // label attached to every emitted metric for this run
}

// Load reads and validates a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if c.Channels < 1 {
		return fmt.Errorf("channels must be at least 1, got %d", c.Channels)
	}
	if c.Comparison == "" {
		return fmt.Errorf("comparison label cannot be empty")
	}
	if c.MetricsEnabled && c.MetricsAddr == "" {
		return fmt.Errorf("metrics_addr required when metrics_enabled is true")
	}
	return nil
}
