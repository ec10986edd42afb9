package rules

// Evaluate returns the single rule governing a request for the given
// permission and resource pattern. Session approvals are treated as
// later-added entries on top of base, so an "always"-granted allow outranks
// a conflicting base rule for the patterns it was granted for. When nothing
// matches, a synthetic ask rule is returned: evaluation fails safe toward
// confirmation, never toward silent allow.
func Evaluate(permission, pattern string, base, approvals Ruleset) Rule {
	result := Rule{Permission: permission, Pattern: pattern, Action: Ask}
	for _, r := range base {
		if r.Matches(permission, pattern) {
			result = r
		}
	}
	for _, r := range approvals {
		if r.Matches(permission, pattern) {
			result = r
		}
	}
	return result
}

// Matching returns the subset of rs whose rules govern the request,
// preserving order. Used for diagnostics when a request is denied.
func Matching(rs Ruleset, permission, pattern string) Ruleset {
	var matched Ruleset
	for _, r := range rs {
		if r.Matches(permission, pattern) {
			matched = append(matched, r)
		}
	}
	return matched
}
