package rules

import (
	"os"
	"strings"
)

// PatternAction pairs one resource pattern with the action it prescribes.
type PatternAction struct {
	Pattern string
	Action  Action
}

// Policy is the value side of a permission config entry: either a bare
// action applying to every resource, or a list of per-pattern actions.
// Patterns takes precedence when non-empty.
type Policy struct {
	Action   Action
	Patterns []PatternAction
}

// Entry assigns a policy to one permission name.
type Entry struct {
	Permission string
	Policy     Policy
}

// Config is an ordered permission configuration. Entry order carries over
// into the emitted ruleset, so callers that need deterministic precedence
// must list entries in the desired override order.
type Config []Entry

// Default returns the ruleset every evaluation starts from: a single rule
// asking for confirmation on everything.
func Default() Ruleset {
	return Ruleset{{Permission: "*", Pattern: "*", Action: Ask}}
}

// FromConfig flattens a configuration into an ordered ruleset. A bare
// action becomes one rule with pattern "*"; pattern policies emit one rule
// per pair in listed order. Home-directory shortcuts ("~", "~/...",
// "$HOME", "$HOME/...") in patterns are expanded to the resolved home
// directory.
func FromConfig(cfg Config) Ruleset {
	var rs Ruleset
	for _, e := range cfg {
		if len(e.Policy.Patterns) == 0 {
			rs = append(rs, Rule{Permission: e.Permission, Pattern: "*", Action: e.Policy.Action})
			continue
		}
		for _, pa := range e.Policy.Patterns {
			rs = append(rs, Rule{
				Permission: e.Permission,
				Pattern:    expandHome(pa.Pattern),
				Action:     pa.Action,
			})
		}
	}
	return rs
}

// Merge concatenates rulesets in argument order. No deduplication and no
// conflict detection: conflicts are resolved by the evaluator's
// last-match-wins rule.
func Merge(sets ...Ruleset) Ruleset {
	var merged Ruleset
	for _, rs := range sets {
		merged = append(merged, rs...)
	}
	return merged
}

// expandHome resolves shell-style home shortcuts at the start of a pattern.
// Patterns are returned unchanged when the home directory cannot be
// resolved.
func expandHome(pattern string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return pattern
	}
	switch {
	case pattern == "~" || pattern == "$HOME":
		return home
	case strings.HasPrefix(pattern, "~/"):
		return home + pattern[len("~"):]
	case strings.HasPrefix(pattern, "$HOME/"):
		return home + pattern[len("$HOME"):]
	}
	return pattern
}
