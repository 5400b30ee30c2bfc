package alloc

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/joshuapare/memkit/mem/placement"
	"github.com/joshuapare/memkit/mem/pool"
	"github.com/joshuapare/memkit/pkg/types"
)

// Counters holds operation counts for instrumentation and tests.
type Counters struct {
	AllocCalls    int // Total Allocate() calls
	AllocFailures int // Allocate() calls rejected for any reason
	NoFit         int // Rejections because no block was large enough
	Splits        int // Allocations that inserted a free remainder
	FreeCalls     int // Successful Deallocate() calls
	Merges        int // Blocks removed by coalescing
	Compactions   int // Compact() calls
	BlocksMoved   int // Allocated blocks relocated by compaction
}

// Allocator serializes all access to a pool and applies placement policies.
type Allocator struct {
	mu   sync.Mutex
	pool *pool.Pool

	log           *slog.Logger
	autoCoalesce  bool
	defaultPolicy types.PolicyKind
	observers     []Observer

	counters Counters
}

// New creates an allocator over a fresh pool of the given capacity.
func New(capacity int, opts ...Option) (*Allocator, error) {
	p, err := pool.New(capacity)
	if err != nil {
		return nil, err
	}
	a := &Allocator{
		pool:          p,
		log:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		defaultPolicy: types.FirstFit,
	}
	for _, opt := range opts {
		opt(a)
	}
	if _, err := placement.For(a.defaultPolicy); err != nil {
		return nil, err
	}
	return a, nil
}

// Capacity returns the pool size.
func (a *Allocator) Capacity() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pool.Capacity()
}

// DefaultPolicy returns the policy used by AllocateDefault.
func (a *Allocator) DefaultPolicy() types.PolicyKind { return a.defaultPolicy }

// Allocate places size units for owner using the given policy.
func (a *Allocator) Allocate(owner string, size int, kind types.PolicyKind) (types.AllocationInfo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.counters.AllocCalls++
	owner = strings.TrimSpace(owner)
	info, err := a.allocate(owner, size, kind)
	if err != nil {
		a.counters.AllocFailures++
		a.log.Info("allocation rejected", "owner", owner, "size", size, "policy", kind, "err", err)
		return types.AllocationInfo{}, err
	}
	if info.Split {
		a.counters.Splits++
	}
	a.log.Debug("allocated",
		"owner", info.Owner, "size", info.Size, "policy", kind,
		"index", info.Index, "offset", info.Offset, "block", info.BlockSize)
	a.notify(types.Event{Op: types.OpAlloc, Owner: info.Owner, Size: size, Policy: kind})
	return info, nil
}

// AllocateDefault is Allocate with the configured default policy.
func (a *Allocator) AllocateDefault(owner string, size int) (types.AllocationInfo, error) {
	return a.Allocate(owner, size, a.defaultPolicy)
}

func (a *Allocator) allocate(owner string, size int, kind types.PolicyKind) (types.AllocationInfo, error) {
	if err := checkOwner(owner); err != nil {
		return types.AllocationInfo{}, err
	}
	if size <= 0 || size > a.pool.Capacity() {
		return types.AllocationInfo{}, fmt.Errorf("allocate %q: size %d outside (0,%d]: %w",
			owner, size, a.pool.Capacity(), types.ErrInvalidSize)
	}
	if _, dup := a.pool.FindOwner(owner); dup {
		return types.AllocationInfo{}, fmt.Errorf("allocate %q: %w", owner, types.ErrDuplicateOwner)
	}
	policy, err := placement.For(kind)
	if err != nil {
		return types.AllocationInfo{}, err
	}

	idx, ok := policy.Select(a.pool, size)
	if !ok {
		a.counters.NoFit++
		return types.AllocationInfo{}, fmt.Errorf("allocate %q (%d, %s): %w",
			owner, size, kind, types.ErrNoSuitableBlock)
	}
	claim, err := a.pool.SplitOrClaim(idx, size, owner)
	if err != nil {
		return types.AllocationInfo{}, err
	}
	if kind == types.NextFit {
		a.pool.SetCursor((claim.Index + 1) % a.pool.Len())
	}

	return types.AllocationInfo{
		Owner:     owner,
		Size:      size,
		Policy:    kind,
		Index:     claim.Index,
		Offset:    claim.Offset,
		BlockSize: claim.BlockSize,
		Split:     claim.Split,
	}, nil
}

// Deallocate releases the owner's block. With auto-coalesce enabled the freed
// block is merged with free neighbours.
func (a *Allocator) Deallocate(owner string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	owner = strings.TrimSpace(owner)
	idx, err := a.pool.Free(owner)
	if err != nil {
		a.log.Info("deallocation rejected", "owner", owner, "err", err)
		return fmt.Errorf("deallocate: %w", err)
	}
	a.counters.FreeCalls++

	merged := 0
	if a.autoCoalesce {
		merged = a.pool.CoalesceAdjacent()
		a.counters.Merges += merged
	}
	a.log.Debug("deallocated", "owner", owner, "index", idx, "merged", merged)
	a.notify(types.Event{Op: types.OpFree, Owner: owner, Count: merged})
	return nil
}

// Coalesce merges adjacent free blocks and returns how many blocks were
// absorbed. Calling it twice in a row is a no-op the second time.
func (a *Allocator) Coalesce() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	merged := a.pool.CoalesceAdjacent()
	a.counters.Merges += merged
	a.log.Debug("coalesced", "merged", merged, "blocks", a.pool.Len())
	a.notify(types.Event{Op: types.OpCoalesce, Count: merged})
	return merged
}

// Compact moves all allocated blocks to the front and leaves one trailing free
// block. It returns how many allocated blocks moved.
func (a *Allocator) Compact() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	moved := a.pool.Compact()
	a.counters.Compactions++
	a.counters.BlocksMoved += moved
	a.log.Debug("compacted", "moved", moved, "blocks", a.pool.Len())
	a.notify(types.Event{Op: types.OpCompact, Count: moved})
	return moved
}

// Reset returns the pool to a single free block and rewinds the next-fit cursor.
func (a *Allocator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pool.Reset()
	a.log.Debug("reset", "capacity", a.pool.Capacity())
	a.notify(types.Event{Op: types.OpReset})
}

// Load replaces the pool with a preset layout. The capacity becomes the sum the
// layout must cover; on error nothing changes.
func (a *Allocator) Load(capacity int, segs []types.Segment) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.pool.Restore(capacity, segs); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	a.log.Debug("loaded layout", "capacity", capacity, "blocks", len(segs))
	a.notify(types.Event{Op: types.OpLoad, Count: len(segs)})
	return nil
}

// SetCursor moves the next-fit cursor, typically after Load restores a layout
// captured mid-session. Values outside [0, blocks) wrap to 0.
func (a *Allocator) SetCursor(i int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.pool.SetCursor(i)
	a.log.Debug("cursor set", "requested", i, "cursor", a.pool.Cursor())
}

// Snapshot returns a copy of the current layout.
func (a *Allocator) Snapshot() types.Layout {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pool.Snapshot()
}

// Compare reports where every policy would place a request of size units.
func (a *Allocator) Compare(size int) ([]placement.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if size <= 0 || size > a.pool.Capacity() {
		return nil, fmt.Errorf("compare: size %d outside (0,%d]: %w", size, a.pool.Capacity(), types.ErrInvalidSize)
	}
	return placement.Probe(a.pool, size), nil
}

// CompareOwner runs Compare with the size of the block owner currently holds.
func (a *Allocator) CompareOwner(owner string) (int, []placement.Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	owner = strings.TrimSpace(owner)
	i, ok := a.pool.FindOwner(owner)
	if !ok {
		return 0, nil, fmt.Errorf("compare %q: %w", owner, types.ErrNotFound)
	}
	size := a.pool.Size(i)
	return size, placement.Probe(a.pool, size), nil
}

// Validate checks the pool invariants.
func (a *Allocator) Validate() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pool.Validate()
}

// Counters returns a copy of the operation counters.
func (a *Allocator) Counters() Counters {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.counters
}

func (a *Allocator) notify(ev types.Event) {
	if len(a.observers) == 0 {
		return
	}
	snap := a.pool.Snapshot()
	for _, o := range a.observers {
		o.Observe(ev, snap)
	}
}

func checkOwner(owner string) error {
	if owner == "" {
		return fmt.Errorf("allocate: empty owner: %w", types.ErrInvalidOwner)
	}
	if len(owner) > types.MaxOwnerLen {
		return fmt.Errorf("allocate %q: longer than %d bytes: %w", owner, types.MaxOwnerLen, types.ErrInvalidOwner)
	}
	return nil
}
