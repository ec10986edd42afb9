// Package rules implements the declarative permission rule model: ordered
// rulesets built from configuration, glob-style matching over permission
// names and resource patterns, and last-match-wins evaluation.
package rules

import "fmt"

// Action is the outcome a rule prescribes for a matching request.
type Action int

const (
	// Ask defers the decision to the approval surface. It is the zero
	// value so an unconfigured action never silently allows or denies.
	Ask Action = iota
	// Allow permits the action without confirmation.
	Allow
	// Deny forbids the action outright.
	Deny
)

// String returns the lowercase text form used in configuration files.
func (a Action) String() string {
	switch a {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return "ask"
	}
}

// ParseAction converts the text form back into an Action.
func ParseAction(s string) (Action, error) {
	switch s {
	case "allow":
		return Allow, nil
	case "deny":
		return Deny, nil
	case "ask":
		return Ask, nil
	}
	return Ask, fmt.Errorf("rules: unknown action %q", s)
}

// Rule binds a permission category and a resource pattern to an action.
// Permission is a dot-free identifier such as "bash", "read", "skill", or
// the wildcard "*". Pattern is a glob matched against the concrete resource
// identifier (a path, a command line, a skill name).
type Rule struct {
	Permission string
	Pattern    string
	Action     Action
}

// Matches reports whether the rule governs a request for the given
// permission and resource pattern. Both fields must wildcard-match.
func (r Rule) Matches(permission, pattern string) bool {
	return Match(r.Permission, permission) && Match(r.Pattern, pattern)
}

// Ruleset is an ordered sequence of rules. Order is semantically
// significant: when several rules match a request, the one with the highest
// index wins. Merging rulesets is therefore plain concatenation, and later
// sources override earlier ones for free.
type Ruleset []Rule
