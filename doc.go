// Package authgate gates the sensitive actions of an autonomous coding
// agent (shell commands, file writes, skill invocations, network fetches)
// behind a rule-matching policy engine and an asynchronous human-approval
// broker.
//
// Tools call [Broker.Ask] before acting. The request is evaluated against
// an ordered ruleset (last match wins) combined with the approvals the
// session has accumulated at runtime. Unambiguous rules resolve
// synchronously: allow lets the tool proceed, deny fails with a
// [DeniedError]. Anything else suspends the tool until a human answers via
// [Broker.Respond] with once, always, or reject. An "always" answer is
// remembered for the session and retroactively approves other queued
// requests it covers; a rejection cascade-cancels every other pending
// request in the same session.
//
// # Quick Start
//
//	broker := authgate.New(authgate.WithNotify(func(req authgate.Request) {
//	    // render req to the user, then call broker.Respond(req.ID, ...)
//	}))
//	ruleset, _ := config.Load(".agent/permissions.yaml")
//	err := broker.Ask(ctx, authgate.AskInput{
//	    SessionID:  sessionID,
//	    Permission: "bash",
//	    Patterns:   []string{"git push origin main"},
//	}, ruleset)
//
// # Sub-packages
//
//   - [rules] provides the rule data model, ruleset builder, and evaluator.
//   - [config] loads declarative YAML permission files into rulesets.
package authgate
