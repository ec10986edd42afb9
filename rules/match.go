package rules

import "github.com/bmatcuk/doublestar/v4"

// Match reports whether value satisfies the glob pattern. A bare "*"
// matches any value, including values containing path separators. Exact
// string equality always matches. Anything else follows doublestar
// semantics: matching is anchored and case-sensitive, "*" stays within a
// "/" segment, and "**" crosses segment boundaries.
func Match(pattern, value string) bool {
	if pattern == "*" {
		return true
	}
	if pattern == value {
		return true
	}
	ok, err := doublestar.Match(pattern, value)
	return err == nil && ok
}
