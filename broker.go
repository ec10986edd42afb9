package authgate

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/authgate/authgate-go/rules"
)

// NotifyFunc is the approval-surface extension point. The broker calls it
// once per created Request; the surface is responsible for eventually
// calling Respond with the request's ID exactly once (extra calls are
// no-ops).
type NotifyFunc func(Request)

// Broker is the single entry point for authorization. Tools call Ask
// before performing a sensitive action; the approval surface calls Respond
// to resolve pending requests. It owns the table of in-flight requests and
// the per-session rulesets accumulated from "always" replies.
//
// One mutex serializes all mutations of both tables: the cascades in
// Respond iterate and mutate the pending table while unrelated Ask and
// Respond calls may be in flight. Requests from different sessions never
// affect one another.
type Broker struct {
	notify NotifyFunc
	logger *zap.Logger

	mu        sync.Mutex
	pending   map[string]*pendingRequest
	approvals map[string]rules.Ruleset
}

// pendingRequest pairs a Request with its one-shot resolution channel and
// the base ruleset it was evaluated against. The channel is buffered and
// written exactly once, by whichever path resolves the request first; the
// ruleset is kept for cascade re-evaluation after "always" grants.
type pendingRequest struct {
	request Request
	ruleset rules.Ruleset
	done    chan error
}

// New creates a Broker with empty pending and approval tables.
func New(opts ...BrokerOption) *Broker {
	o := resolveOptions(opts)
	return &Broker{
		notify:    o.notify,
		logger:    o.logger,
		pending:   make(map[string]*pendingRequest),
		approvals: make(map[string]rules.Ruleset),
	}
}

// Ask authorizes the action described by input against ruleset combined
// with the session's accumulated approvals. Patterns are evaluated in
// order: the first deny fails immediately with a *DeniedError and no state
// change; allows pass through; the first ask registers a single pending
// request covering the whole pattern batch, notifies the approval surface,
// and blocks until the request is resolved or ctx is done.
//
// There is no timeout: a stalled approval surface stalls the caller
// indefinitely. Callers that need bounded waiting should cancel ctx; an
// abandoned request is removed from the pending table and ctx's error
// returned.
func (b *Broker) Ask(ctx context.Context, input AskInput, ruleset rules.Ruleset) error {
	b.mu.Lock()
	approvals := b.approvals[input.SessionID]

	var created *pendingRequest
	var denied *DeniedError
	for _, pattern := range input.Patterns {
		rule := rules.Evaluate(input.Permission, pattern, ruleset, approvals)
		if rule.Action == rules.Allow {
			continue
		}
		if rule.Action == rules.Deny {
			denied = &DeniedError{
				Permission: input.Permission,
				Patterns:   input.Patterns,
				Rules:      rules.Matching(rules.Merge(ruleset, approvals), input.Permission, pattern),
			}
			break
		}

		// Ask: the whole batch waits together, so later patterns are
		// not evaluated in this call.
		req := Request{
			ID:         generateID(PrefixRequest),
			SessionID:  input.SessionID,
			Permission: input.Permission,
			Patterns:   input.Patterns,
			Metadata:   input.Metadata,
			Always:     input.Patterns,
			Tool:       input.Tool,
			Message:    input.Message,
		}
		created = &pendingRequest{request: req, ruleset: ruleset, done: make(chan error, 1)}
		b.pending[req.ID] = created
		break
	}
	b.mu.Unlock()

	if denied != nil {
		b.logger.Debug("permission denied by rule",
			zap.String("session_id", input.SessionID),
			zap.String("permission", input.Permission),
			zap.Strings("patterns", input.Patterns))
		return denied
	}
	if created == nil {
		return nil
	}

	b.logger.Info("permission request created",
		zap.String("request_id", created.request.ID),
		zap.String("session_id", input.SessionID),
		zap.String("permission", input.Permission),
		zap.Strings("patterns", input.Patterns))
	if b.notify != nil {
		b.notify(created.request)
	}
	return b.wait(ctx, created)
}

// wait blocks until the pending request resolves or ctx is done. On
// cancellation the entry is removed so no resolver leaks; if a concurrent
// Respond won the race and already resolved the request, that outcome is
// honored instead.
func (b *Broker) wait(ctx context.Context, p *pendingRequest) error {
	select {
	case err := <-p.done:
		return err
	case <-ctx.Done():
	}

	b.mu.Lock()
	_, stillPending := b.pending[p.request.ID]
	delete(b.pending, p.request.ID)
	b.mu.Unlock()

	if !stillPending {
		// Resolved while we were cancelling; the outcome is already in
		// the buffered channel.
		return <-p.done
	}

	b.logger.Debug("permission request abandoned",
		zap.String("request_id", p.request.ID),
		zap.String("session_id", p.request.SessionID))
	return ctx.Err()
}

// Respond resolves the pending request with the given id. Unknown or
// already-resolved ids are no-ops, making duplicate and late responses
// harmless. message carries optional feedback for a rejection and is
// ignored for other replies.
func (b *Broker) Respond(id string, reply Reply, message string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.pending[id]
	if !ok {
		return nil
	}

	switch reply {
	case ReplyOnce:
		delete(b.pending, id)
		p.done <- nil
		b.logger.Info("permission granted once", zap.String("request_id", id))
	case ReplyAlways:
		delete(b.pending, id)
		b.grantAlways(p)
	case ReplyReject:
		delete(b.pending, id)
		b.reject(p, message)
	default:
		return fmt.Errorf("authgate: unknown reply %q", reply)
	}
	return nil
}

// grantAlways converts the request's Always patterns into session allow
// rules, resolves the request, then re-evaluates every other pending
// request of the session: requests whose patterns all evaluate to allow
// under the updated approvals resolve successfully too. Callers must hold
// b.mu.
func (b *Broker) grantAlways(p *pendingRequest) {
	sid := p.request.SessionID
	for _, pattern := range p.request.Always {
		b.approvals[sid] = append(b.approvals[sid], rules.Rule{
			Permission: p.request.Permission,
			Pattern:    pattern,
			Action:     rules.Allow,
		})
	}
	p.done <- nil
	b.logger.Info("permission granted for session",
		zap.String("request_id", p.request.ID),
		zap.String("session_id", sid),
		zap.Strings("patterns", p.request.Always))

	approvals := b.approvals[sid]
	for id, q := range b.pending {
		if q.request.SessionID != sid {
			continue
		}
		if !allAllowed(q, approvals) {
			continue
		}
		delete(b.pending, id)
		q.done <- nil
		b.logger.Debug("pending request auto-approved", zap.String("request_id", id))
	}
}

// allAllowed reports whether every pattern of the pending request now
// evaluates to allow against its own base ruleset plus approvals.
func allAllowed(q *pendingRequest, approvals rules.Ruleset) bool {
	for _, pattern := range q.request.Patterns {
		rule := rules.Evaluate(q.request.Permission, pattern, q.ruleset, approvals)
		if rule.Action != rules.Allow {
			return false
		}
	}
	return true
}

// reject fails the request, with feedback when a message was supplied,
// then removes and fails every other pending request of the same session
// with a plain rejection: declining one request aborts the whole in-flight
// batch, modeling the user stopping the agent. Callers must hold b.mu.
func (b *Broker) reject(p *pendingRequest, message string) {
	sid := p.request.SessionID
	if message != "" {
		p.done <- &CorrectedError{SessionID: sid, Permission: p.request.Permission, Message: message}
	} else {
		p.done <- &RejectedError{SessionID: sid, Permission: p.request.Permission}
	}

	for id, q := range b.pending {
		if q.request.SessionID != sid {
			continue
		}
		delete(b.pending, id)
		q.done <- &RejectedError{SessionID: sid, Permission: q.request.Permission}
	}
	b.logger.Info("permission rejected",
		zap.String("request_id", p.request.ID),
		zap.String("session_id", sid),
		zap.Bool("corrected", message != ""))
}

// Pending returns a snapshot of all in-flight requests.
func (b *Broker) Pending() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Request, 0, len(b.pending))
	for _, p := range b.pending {
		out = append(out, p.request)
	}
	return out
}

// PendingForSession returns a snapshot of the session's in-flight requests.
func (b *Broker) PendingForSession(sessionID string) []Request {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []Request
	for _, p := range b.pending {
		if p.request.SessionID == sessionID {
			out = append(out, p.request)
		}
	}
	return out
}

// SessionApprovals returns a copy of the ruleset accumulated from "always"
// replies for the session.
func (b *Broker) SessionApprovals(sessionID string) rules.Ruleset {
	b.mu.Lock()
	defer b.mu.Unlock()

	rs := b.approvals[sessionID]
	out := make(rules.Ruleset, len(rs))
	copy(out, rs)
	return out
}

// ClearSession drops the session's accumulated approvals. Pending requests
// are not touched. Called on session teardown.
func (b *Broker) ClearSession(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.approvals, sessionID)
}

// CancelSession rejects every pending request of the session. It reuses
// the reject cascade: the first request found is rejected and the cascade
// clears the rest. Intended for propagating cancellation of the
// surrounding agent run.
func (b *Broker) CancelSession(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, p := range b.pending {
		if p.request.SessionID != sessionID {
			continue
		}
		delete(b.pending, id)
		b.reject(p, "")
		return
	}
}
