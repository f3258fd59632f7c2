package fdt

import "github.com/joshuapare/fdtkit/pkg/types"

// Option configures New and Open.
type Option func(*options)

type options struct {
	maxDepth      int
	strictVersion bool
}

func defaultOptions() options {
	return options{maxDepth: types.DefaultMaxDepth}
}

// WithMaxDepth sets the deepest level Walk will descend to before failing
// with types.ErrDepthExceeded. Values <= 0 select types.DefaultMaxDepth;
// values above types.MaxDepthLimit are clamped.
func WithMaxDepth(n int) Option {
	return func(o *options) { o.maxDepth = types.ClampDepth(n) }
}

// WithStrictVersion rejects blobs whose last_comp_version is newer than the
// version this package understands.
func WithStrictVersion() Option {
	return func(o *options) { o.strictVersion = true }
}
