package scenario

import (
	"bytes"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/herald/pkg/errors"
)

// Parse decodes and validates a scenario document. Unknown fields are
// rejected, which catches misspelled keys early.
func Parse(data []byte) (*Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(err, errors.ErrScenarioParse, "failed to parse scenario")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "cannot read scenario file %s", path).
			WithDetail("path", path)
	}
	return Parse(data)
}
