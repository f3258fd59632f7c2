package types

// ============================================================================
// Traversal Limits
// ============================================================================
// Device trees are shallow in practice (a handful of levels for buses and
// bridges). The limits below bound walker stacks against corrupt blobs that
// nest BEGIN_NODE tokens without end.

const (
	// DefaultMaxDepth is the walker depth limit used when none is configured.
	// The root is depth 0.
	DefaultMaxDepth = 64

	// MaxDepthLimit is the largest depth limit accepted by any option.
	MaxDepthLimit = 4096
)

// ClampDepth maps a requested limit onto [1, MaxDepthLimit], with values
// <= 0 selecting DefaultMaxDepth.
func ClampDepth(n int) int {
	switch {
	case n <= 0:
		return DefaultMaxDepth
	case n > MaxDepthLimit:
		return MaxDepthLimit
	default:
		return n
	}
}
