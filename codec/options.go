package codec

import "go.uber.org/zap"

type options struct {
	logger *zap.Logger
}

type Option func(*options)

// WithLogger sets the logger used to report per-field progress and value
// truncation. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = logger
	}
}

func applyOptions(opts []Option) *options {
	o := &options{
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
