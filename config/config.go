// Package config loads declarative permission files into rulesets.
//
// The file format maps permission names to either a bare action or a
// pattern-to-action mapping:
//
//	permissions:
//	  read: allow
//	  bash:
//	    "git status": allow
//	    "rm *": deny
//
// Document order is preserved: within a file, later entries override
// earlier ones under the evaluator's last-match-wins rule, and LoadAll
// applies the same override semantics across files.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/authgate/authgate-go/rules"
)

// Parse decodes a YAML permission file into an ordered configuration.
// Decoding goes through yaml.Node rather than a map so the document's
// entry order survives; Go maps would randomize it.
func Parse(data []byte) (rules.Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("config: top level must be a mapping, got %s", kindName(root.Kind))
	}

	var perms *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == "permissions" {
			perms = root.Content[i+1]
		}
	}
	if perms == nil {
		return nil, nil
	}
	if perms.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("config: permissions must be a mapping, got %s", kindName(perms.Kind))
	}

	var cfg rules.Config
	for i := 0; i+1 < len(perms.Content); i += 2 {
		key, val := perms.Content[i], perms.Content[i+1]
		policy, err := parsePolicy(val)
		if err != nil {
			return nil, fmt.Errorf("config: permission %q: %w", key.Value, err)
		}
		cfg = append(cfg, rules.Entry{Permission: key.Value, Policy: policy})
	}
	return cfg, nil
}

// parsePolicy handles the two value shapes: a scalar action, or a mapping
// of pattern to action.
func parsePolicy(node *yaml.Node) (rules.Policy, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		action, err := rules.ParseAction(node.Value)
		if err != nil {
			return rules.Policy{}, err
		}
		return rules.Policy{Action: action}, nil
	case yaml.MappingNode:
		var patterns []rules.PatternAction
		for i := 0; i+1 < len(node.Content); i += 2 {
			action, err := rules.ParseAction(node.Content[i+1].Value)
			if err != nil {
				return rules.Policy{}, fmt.Errorf("pattern %q: %w", node.Content[i].Value, err)
			}
			patterns = append(patterns, rules.PatternAction{
				Pattern: node.Content[i].Value,
				Action:  action,
			})
		}
		return rules.Policy{Patterns: patterns}, nil
	}
	return rules.Policy{}, fmt.Errorf("must be an action or a pattern mapping, got %s", kindName(node.Kind))
}

// Load reads one permission file and flattens it into a ruleset.
func Load(path string) (rules.Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rules.FromConfig(cfg), nil
}

// LoadAll merges permission files in argument order on top of the default
// ask-everything ruleset. Later files override earlier ones. Missing files
// are silently skipped so callers can pass the full search path (user,
// project, local) without checking what exists.
func LoadAll(paths ...string) (rules.Ruleset, error) {
	merged := rules.Default()
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		cfg, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		merged = rules.Merge(merged, rules.FromConfig(cfg))
	}
	return merged, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}
