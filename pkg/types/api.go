package types

import (
	"errors"
	"fmt"
	"strings"
)

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindInvalidSize    ErrKind = iota // size <= 0 or larger than the pool
	ErrKindDuplicateOwner                // owner already holds an allocated block
	ErrKindNoFit                         // no free block large enough under the policy
	ErrKindNotFound                      // owner has no allocated block
	ErrKindInvalidOwner                  // empty or over-long owner identifier
	ErrKindCorrupt                       // layout breaks a pool invariant
	ErrKindState                         // internal precondition violated
)

// String returns the stable short name used in scenario expectations.
func (k ErrKind) String() string {
	switch k {
	case ErrKindInvalidSize:
		return "invalid-size"
	case ErrKindDuplicateOwner:
		return "duplicate-owner"
	case ErrKindNoFit:
		return "no-fit"
	case ErrKindNotFound:
		return "not-found"
	case ErrKindInvalidOwner:
		return "invalid-owner"
	case ErrKindCorrupt:
		return "invalid-layout"
	case ErrKindState:
		return "precondition"
	default:
		return fmt.Sprintf("kind-%d", int(k))
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Sentinels returned by the pool and the allocator.
var (
	// ErrInvalidSize indicates a requested size <= 0 or larger than the pool capacity.
	ErrInvalidSize = &Error{Kind: ErrKindInvalidSize, Msg: "invalid size"}
	// ErrDuplicateOwner indicates the owner already holds an allocated block.
	ErrDuplicateOwner = &Error{Kind: ErrKindDuplicateOwner, Msg: "owner already allocated"}
	// ErrNoSuitableBlock indicates no free block is large enough under the active policy.
	// Total free memory may still exceed the request (external fragmentation).
	ErrNoSuitableBlock = &Error{Kind: ErrKindNoFit, Msg: "no suitable free block"}
	// ErrNotFound indicates the owner has no allocated block.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "owner not found"}
	// ErrInvalidOwner indicates an empty or over-long owner identifier.
	ErrInvalidOwner = &Error{Kind: ErrKindInvalidOwner, Msg: "invalid owner"}
	// ErrInvalidLayout indicates a block sequence that breaks a pool invariant.
	ErrInvalidLayout = &Error{Kind: ErrKindCorrupt, Msg: "invalid layout"}
	// ErrPrecondition indicates a split/claim on a block that is not free or too small.
	ErrPrecondition = &Error{Kind: ErrKindState, Msg: "precondition violated"}
)

// KindOf reports the ErrKind of the first *Error in err's chain.
func KindOf(err error) (ErrKind, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind, true
	}
	return 0, false
}

// -----------------------------------------------------------------------------
// Layout
// -----------------------------------------------------------------------------

// Block is a read-only view of one block in a pool. Offset is derived from the
// sizes of the blocks before it.
type Block struct {
	Index  int    `json:"index"`
	Offset int    `json:"offset"`
	Size   int    `json:"size"`
	Free   bool   `json:"free"`
	Owner  string `json:"owner,omitempty"`
}

// End returns the first address past the block.
func (b Block) End() int { return b.Offset + b.Size }

// Status returns "FREE" or "ALLOCATED".
func (b Block) Status() string {
	if b.Free {
		return "FREE"
	}
	return "ALLOCATED"
}

// Layout is an ordered snapshot of a pool. Blocks are in address order.
type Layout struct {
	Capacity int     `json:"capacity"`
	Cursor   int     `json:"cursor"`
	Blocks   []Block `json:"blocks"`
}

// Segment describes a block when seeding a pool with a preset layout.
// An empty Owner means the segment is free.
type Segment struct {
	Size  int    `toml:"size" json:"size"`
	Owner string `toml:"owner,omitempty" json:"owner,omitempty"`
}

// Segments converts a layout back into seed segments.
func (l Layout) Segments() []Segment {
	segs := make([]Segment, len(l.Blocks))
	for i, b := range l.Blocks {
		segs[i] = Segment{Size: b.Size, Owner: b.Owner}
	}
	return segs
}

// -----------------------------------------------------------------------------
// Placement policies
// -----------------------------------------------------------------------------

// PolicyKind names a placement policy.
type PolicyKind string

const (
	FirstFit PolicyKind = "first-fit"
	NextFit  PolicyKind = "next-fit"
	BestFit  PolicyKind = "best-fit"
	WorstFit PolicyKind = "worst-fit"
)

// PolicyKinds lists the policies in canonical comparison order.
var PolicyKinds = []PolicyKind{FirstFit, NextFit, BestFit, WorstFit}

// ParsePolicy accepts "first-fit", "first", "firstfit", "FirstFit" and the
// equivalents for the other policies, case-insensitively.
func ParsePolicy(s string) (PolicyKind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "", "_", "", " ", "").Replace(norm)
	switch norm {
	case "first", "firstfit":
		return FirstFit, nil
	case "next", "nextfit":
		return NextFit, nil
	case "best", "bestfit":
		return BestFit, nil
	case "worst", "worstfit":
		return WorstFit, nil
	}
	return "", fmt.Errorf("unknown placement policy %q", s)
}

// -----------------------------------------------------------------------------
// Operation results
// -----------------------------------------------------------------------------

// AllocationInfo describes where an allocation landed.
type AllocationInfo struct {
	Owner     string     `json:"owner"`
	Size      int        `json:"size"`
	Policy    PolicyKind `json:"policy"`
	Index     int        `json:"index"`
	Offset    int        `json:"offset"`
	BlockSize int        `json:"block_size"` // size of the chosen free block before the split
	Split     bool       `json:"split"`
}

// Op identifies a mutating operation.
type Op string

const (
	OpAlloc    Op = "alloc"
	OpFree     Op = "free"
	OpCoalesce Op = "coalesce"
	OpCompact  Op = "compact"
	OpReset    Op = "reset"
	OpLoad     Op = "load"
)

// Event describes a successful mutation, delivered to observers.
type Event struct {
	Op     Op         `json:"op"`
	Owner  string     `json:"owner,omitempty"`
	Size   int        `json:"size,omitempty"`
	Policy PolicyKind `json:"policy,omitempty"`
	Count  int        `json:"count,omitempty"` // merges for coalesce, moved blocks for compact
}

// String renders the event the way logs and playback titles show it.
func (e Event) String() string {
	switch e.Op {
	case OpAlloc:
		return fmt.Sprintf("alloc %s %d (%s)", e.Owner, e.Size, e.Policy)
	case OpFree:
		return fmt.Sprintf("free %s", e.Owner)
	case OpCoalesce:
		return fmt.Sprintf("coalesce (%d merged)", e.Count)
	case OpCompact:
		return fmt.Sprintf("compact (%d moved)", e.Count)
	default:
		return string(e.Op)
	}
}
