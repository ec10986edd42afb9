package authgate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/authgate/authgate-go/rules"
)

// DeniedError means a static rule explicitly forbids the action. It carries
// the matching rule subset for diagnostics and must be surfaced as a hard
// stop, never retried.
type DeniedError struct {
	Permission string
	Patterns   []string
	Rules      rules.Ruleset
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("authgate: permission %q denied for %s", e.Permission, strings.Join(e.Patterns, ", "))
}

// RejectedError means a human explicitly declined the request, or it was
// declined by cascade after a sibling request in the same session was
// rejected. It carries no feedback text.
type RejectedError struct {
	SessionID  string
	Permission string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("authgate: permission %q rejected", e.Permission)
}

// CorrectedError is a rejection with free-text feedback from the human.
// The message should be relayed back into the agent's reasoning context
// rather than treated as a silent stop.
type CorrectedError struct {
	SessionID  string
	Permission string
	Message    string
}

func (e *CorrectedError) Error() string {
	return fmt.Sprintf("authgate: permission %q rejected: %s", e.Permission, e.Message)
}

// IsDenied reports whether err is a DeniedError.
func IsDenied(err error) bool {
	var t *DeniedError
	return errors.As(err, &t)
}

// IsRejected reports whether err is a plain RejectedError.
func IsRejected(err error) bool {
	var t *RejectedError
	return errors.As(err, &t)
}

// IsCorrected reports whether err is a CorrectedError.
func IsCorrected(err error) bool {
	var t *CorrectedError
	return errors.As(err, &t)
}
