package classify

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// RulesFile is the YAML layout of a custom marker table:
//
//	markers:
//	  - code: A
//	    color: "#66FF33"
//
// The limit rule is not configurable and always runs first.
type RulesFile struct {
	Markers []Marker `yaml:"markers"`
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// LoadRules reads a marker table from a YAML file
func LoadRules(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("classify: read rules %s: %w", path, err)
	}
	rs, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("classify: %s: %w", path, err)
	}
	return rs, nil
}

// ParseRules parses and validates a YAML marker table
func ParseRules(data []byte) (*RuleSet, error) {
	var f RulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if len(f.Markers) == 0 {
		return nil, fmt.Errorf("rules file has no markers")
	}
	seen := make(map[string]bool, len(f.Markers))
	for i, m := range f.Markers {
		if m.Code == "" {
			return nil, fmt.Errorf("markers[%d]: code is required", i)
		}
		if seen[m.Code] {
			return nil, fmt.Errorf("markers[%d]: duplicate code %q", i, m.Code)
		}
		seen[m.Code] = true
		if !hexColor.MatchString(m.Color) {
			return nil, fmt.Errorf("markers[%d]: color %q is not #RRGGBB", i, m.Color)
		}
	}
	return NewRuleSet(f.Markers), nil
}
