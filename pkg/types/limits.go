package types

// ============================================================================
// Simulator Limits
// ============================================================================
// Sizes are abstract units; the reference scenarios treat them as KB.

const (
	// MaxOwnerLen is the longest accepted owner identifier in bytes.
	MaxOwnerLen = 32

	// SmallCapacity is the pool size used by the first-fit/best-fit
	// coalescing demonstrations (1 MB in KB units).
	SmallCapacity = 1024

	// DefaultCapacity is the pool size used by the per-policy demonstrations
	// (10 MB in KB units).
	DefaultCapacity = 10240
)
