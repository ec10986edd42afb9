package authgate

// Reply is the approval surface's answer to a pending request.
type Reply string

const (
	// ReplyOnce grants this request only; no ruleset changes.
	ReplyOnce Reply = "once"
	// ReplyAlways grants this request and records the request's Always
	// patterns as allow rules for the rest of the session.
	ReplyAlways Reply = "always"
	// ReplyReject declines this request and cascade-rejects every other
	// pending request in the same session.
	ReplyReject Reply = "reject"
)

// ToolRef ties a request back to the tool call that raised it.
type ToolRef struct {
	MessageID string
	CallID    string
}

// Request is an authorization decision surfaced to the approval surface.
// It is created only when evaluation returns ask for at least one pattern,
// and is never mutated after creation.
type Request struct {
	ID         string
	SessionID  string
	Permission string
	Patterns   []string
	Metadata   map[string]any

	// Always is the exact pattern set converted into permanent session
	// rules if the surface answers "always".
	Always []string

	Tool    *ToolRef
	Message string
}

// AskInput describes the sensitive action a tool wants to perform.
// Patterns must contain at least one identifier for the concrete resource
// being acted upon: a path, a command line, a skill name.
type AskInput struct {
	SessionID  string
	Permission string
	Patterns   []string
	Metadata   map[string]any
	Tool       *ToolRef
	Message    string
}
