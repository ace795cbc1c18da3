package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/tlower/internal/bufferize"
)

// Scenario defines one conformance scenario: a CUE module source and the
// options to resolve it under.
type Scenario struct {
	// Name uniquely identifies this scenario. It is also the golden
	// file name.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description,omitempty"`

	// Source is the CUE module source text.
	Source string `yaml:"source"`

	// Options configure analysis and copy insertion. Omitted keys keep
	// their defaults.
	Options bufferize.Options `yaml:"options"`
}

// LoadScenario reads a scenario definition from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}

	s := &Scenario{Options: bufferize.DefaultOptions()}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s has no name", path)
	}
	if s.Source == "" {
		return nil, fmt.Errorf("scenario %q has no module source", s.Name)
	}
	return s, nil
}
