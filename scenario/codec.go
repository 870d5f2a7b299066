package scenario

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Encode serializes the scenario to YAML, including the custom run-off
// override table when present.
func (s *Scenario) Encode() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode scenario: %w", err)
	}
	return data, nil
}

// Decode parses a YAML scenario and re-validates it, so a decoded scenario
// is equivalent to one built with New.
func Decode(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	return New(s)
}
