package config

import (
	"github.com/arthur-debert/herald/pkg/errors"
	"github.com/arthur-debert/herald/pkg/tracing"
)

// Demo configures the demo application: which scenario to play and which
// services take part.
type Demo struct {
	// Scenario is the path of a scenario file. Empty selects the
	// built-in lifecycle scenario.
	Scenario string `koanf:"scenario" toml:"scenario"`

	// Services toggles individual demo services by name. Services not
	// listed default to enabled.
	Services map[string]bool `koanf:"services" toml:"services"`
}

// Config is the main configuration structure
type Config struct {
	// Verbosity is the console log level: 0 warnings, 1 info, 2 debug,
	// 3 and up trace.
	Verbosity int `koanf:"verbosity" toml:"verbosity"`

	Demo    Demo           `koanf:"demo" toml:"demo"`
	Tracing tracing.Config `koanf:"tracing" toml:"tracing"`
}

// Default returns the configuration built from the embedded defaults,
// ignoring config files and the environment.
func Default() *Config {
	cfg, err := loadDefaultsOnly()
	if err != nil {
		// The embedded file is compiled in; a parse failure here is a
		// build defect. Fall back to a minimal usable config anyway.
		return &Config{
			Demo:    Demo{Services: make(map[string]bool)},
			Tracing: tracing.DefaultConfig(),
		}
	}
	return cfg
}

// ServiceEnabled reports whether the named demo service is switched on.
// Services without an entry are enabled.
func (c *Config) ServiceEnabled(name string) bool {
	if c.Demo.Services == nil {
		return true
	}
	enabled, listed := c.Demo.Services[name]
	return !listed || enabled
}

var validExporters = map[string]bool{
	"":       true,
	"none":   true,
	"file":   true,
	"stdout": true,
	"otlp":   true,
}

func (c *Config) validate() error {
	if c.Verbosity < 0 {
		return errors.Newf(errors.ErrConfigValid, "verbosity must not be negative, got %d", c.Verbosity)
	}
	if !validExporters[c.Tracing.Exporter] {
		return errors.Newf(errors.ErrConfigValid, "unknown tracing exporter %q", c.Tracing.Exporter).
			WithDetail("exporter", c.Tracing.Exporter)
	}
	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return errors.Newf(errors.ErrConfigValid, "tracing sample_rate must be between 0 and 1, got %g", c.Tracing.SampleRate)
	}
	return nil
}
