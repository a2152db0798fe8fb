package classifier

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// patterns accepts either a single YAML scalar or a sequence of scalars.
type patterns []string

func (p *patterns) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*p = patterns{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*p = list
		return nil
	}
	return fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
}

type ruleFile struct {
	Rules []struct {
		Prefix patterns `yaml:"prefix"`
		Suffix patterns `yaml:"suffix"`
		Label  string   `yaml:"label"`
	} `yaml:"rules"`
	Fallback string `yaml:"fallback"`
}

// ParseRules decodes an ordered YAML rule set.
func ParseRules(data []byte) (*Classifier, error) {
	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to decode rules: %w", err)
	}
	if len(rf.Rules) == 0 {
		return nil, errors.New("rule set is empty")
	}

	rules := make([]Rule, 0, len(rf.Rules))
	for i, r := range rf.Rules {
		if r.Label == "" {
			return nil, fmt.Errorf("rule %d: label is required", i+1)
		}
		switch {
		case len(r.Prefix) > 0 && len(r.Suffix) > 0:
			return nil, fmt.Errorf("rule %d (%s): set either prefix or suffix, not both", i+1, r.Label)
		case len(r.Prefix) > 0:
			rules = append(rules, Rule{Match: MatchPrefix, Patterns: r.Prefix, Label: r.Label})
		case len(r.Suffix) > 0:
			rules = append(rules, Rule{Match: MatchSuffix, Patterns: r.Suffix, Label: r.Label})
		default:
			return nil, fmt.Errorf("rule %d (%s): prefix or suffix is required", i+1, r.Label)
		}
	}
	return New(rules, rf.Fallback), nil
}

// LoadRules reads a YAML rule file from disk.
func LoadRules(path string) (*Classifier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}
	c, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
