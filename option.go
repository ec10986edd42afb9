package authgate

import "go.uber.org/zap"

// BrokerOption configures a Broker via the functional options pattern.
type BrokerOption func(*brokerOptions)

// brokerOptions holds all configurable fields set via BrokerOption functions.
type brokerOptions struct {
	notify NotifyFunc
	logger *zap.Logger
}

// applyDefaults fills in zero-value fields with sensible defaults.
func (o *brokerOptions) applyDefaults() {
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
}

// resolveOptions applies all option functions and fills defaults.
func resolveOptions(opts []BrokerOption) brokerOptions {
	var o brokerOptions
	for _, fn := range opts {
		fn(&o)
	}
	o.applyDefaults()
	return o
}

// WithNotify sets the approval-surface callback invoked once per created
// request. Without it, pending requests can only be discovered through
// Pending and PendingForSession.
func WithNotify(fn NotifyFunc) BrokerOption {
	return func(o *brokerOptions) {
		o.notify = fn
	}
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) BrokerOption {
	return func(o *brokerOptions) {
		o.logger = logger
	}
}
