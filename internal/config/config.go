package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dshills/histctl/internal/logging"
)

// Config holds every histctl setting.
type Config struct {
	History HistoryConfig `toml:"history" yaml:"history"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Tracing TracingConfig `toml:"tracing" yaml:"tracing"`
	Demo    DemoConfig    `toml:"demo" yaml:"demo"`
}

// HistoryConfig configures the undo history.
type HistoryConfig struct {
	// MaxEntries caps the undo stack. Zero means unlimited.
	MaxEntries int `toml:"max_entries" yaml:"max_entries"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	Level   string `toml:"level" yaml:"level"`
	File    string `toml:"file" yaml:"file"`
	Journal bool   `toml:"journal" yaml:"journal"`
}

// TracingConfig configures OpenTelemetry tracing. With Stdout set, spans
// are exported to File when given and to standard output otherwise.
type TracingConfig struct {
	Enabled     bool   `toml:"enabled" yaml:"enabled"`
	Stdout      bool   `toml:"stdout" yaml:"stdout"`
	File        string `toml:"file" yaml:"file"`
	ServiceName string `toml:"service_name" yaml:"service_name"`
}

// DemoConfig configures the counter demo.
type DemoConfig struct {
	Start int `toml:"start" yaml:"start"`
	Step  int `toml:"step" yaml:"step"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		History: HistoryConfig{
			MaxEntries: 1000,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Tracing: TracingConfig{
			Stdout:      true,
			ServiceName: "histctl",
		},
		Demo: DemoConfig{
			Step: 1,
		},
	}
}

// Validate checks the configuration for invalid values. All problems are
// reported together.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrValidationFailed, fmt.Sprintf(format, args...)))
	}

	if c.History.MaxEntries < 0 {
		fail("history.max_entries must be >= 0, got %d", c.History.MaxEntries)
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		fail("logging.level: %v", err)
	}
	if c.Tracing.Enabled && strings.TrimSpace(c.Tracing.ServiceName) == "" {
		fail("tracing.service_name is required when tracing is enabled")
	}
	if c.Demo.Step <= 0 {
		fail("demo.step must be > 0, got %d", c.Demo.Step)
	}

	return errors.Join(errs...)
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
