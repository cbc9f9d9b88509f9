// Package scenario defines the demo's dispatch scripts: a named event
// sequence with optional pacing and service toggles, read from YAML.
package scenario

import (
	_ "embed"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/herald/pkg/errors"
	"github.com/arthur-debert/herald/pkg/types"
)

//go:embed embedded/lifecycle.yaml
var builtinLifecycle []byte

// Duration wraps time.Duration for YAML decoding from strings like
// "150ms" or "2s".
type Duration struct {
	time.Duration
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return errors.Wrapf(err, errors.ErrScenarioParse, "invalid duration %q", raw)
	}
	d.Duration = parsed
	return nil
}

// Scenario is one dispatch script for the demo app.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`

	// Events are dispatched in order.
	Events []types.Event `yaml:"events"`

	// Pause inserts a delay between dispatches, for watchable playback.
	Pause Duration `yaml:"pause"`

	// Services toggles demo services for this run, overriding the
	// config file's toggles.
	Services map[string]bool `yaml:"services"`
}

// Validate checks that the scenario is playable.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return errors.New(errors.ErrScenarioInvalid, "scenario has no name")
	}
	if len(s.Events) == 0 {
		return errors.Newf(errors.ErrScenarioInvalid, "scenario %q declares no events", s.Name)
	}
	for i, evt := range s.Events {
		if evt == "" {
			return errors.Newf(errors.ErrScenarioInvalid, "scenario %q has an empty event at position %d", s.Name, i)
		}
	}
	if s.Pause.Duration < 0 {
		return errors.Newf(errors.ErrScenarioInvalid, "scenario %q has a negative pause", s.Name)
	}
	return nil
}

// Default returns the built-in lifecycle scenario.
func Default() *Scenario {
	s, err := Parse(builtinLifecycle)
	if err != nil {
		// The embedded scenario is compiled in; failing to parse it is
		// a build defect. Keep the demo usable anyway.
		return &Scenario{
			Name:   "lifecycle",
			Events: []types.Event{"app.startup", "app.shutdown"},
		}
	}
	return s
}
