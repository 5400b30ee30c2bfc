package pool

import (
	"fmt"
	"slices"
	"strings"

	"github.com/joshuapare/memkit/pkg/types"
)

// Pool is an ordered sequence of blocks that exactly partitions [0, capacity).
type Pool struct {
	capacity int
	blocks   []block

	// cursor is where the next next-fit search starts. Always in [0, len(blocks)).
	cursor int
}

// New creates a pool holding a single free block of the given capacity.
func New(capacity int) (*Pool, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("pool: capacity %d: %w", capacity, types.ErrInvalidSize)
	}
	p := &Pool{
		capacity: capacity,
		blocks:   make([]block, 0, 16),
	}
	p.Reset()
	return p, nil
}

// Reset returns the pool to one free block spanning the whole capacity and
// rewinds the cursor.
func (p *Pool) Reset() {
	clear(p.blocks)
	p.blocks = append(p.blocks[:0], block{size: p.capacity})
	p.cursor = 0
}

// Capacity returns the fixed pool size.
func (p *Pool) Capacity() int { return p.capacity }

// Len returns the number of blocks.
func (p *Pool) Len() int { return len(p.blocks) }

// Cursor returns the next-fit cursor.
func (p *Pool) Cursor() int { return p.cursor }

// SetCursor moves the next-fit cursor. Values outside [0, Len()) are not
// clamped to the last block; they wrap to 0, where a circular scan resumes.
func (p *Pool) SetCursor(i int) {
	p.cursor = i
	p.clampCursor()
}

// Size returns the size of block i.
func (p *Pool) Size(i int) int { return p.blocks[i].size }

// IsFree reports whether block i is free.
func (p *Pool) IsFree(i int) bool { return p.blocks[i].isFree() }

// Owner returns the owner of block i, or "" if it is free.
func (p *Pool) Owner(i int) string { return p.blocks[i].owner }

// Offset returns the address of block i.
func (p *Pool) Offset(i int) int {
	off := 0
	for _, b := range p.blocks[:i] {
		off += b.size
	}
	return off
}

// Block returns a snapshot of block i.
func (p *Pool) Block(i int) types.Block {
	b := p.blocks[i]
	return types.Block{
		Index:  i,
		Offset: p.Offset(i),
		Size:   b.size,
		Free:   b.isFree(),
		Owner:  b.owner,
	}
}

// Snapshot returns a copy of the layout. It never aliases pool state.
func (p *Pool) Snapshot() types.Layout {
	l := types.Layout{
		Capacity: p.capacity,
		Cursor:   p.cursor,
		Blocks:   make([]types.Block, len(p.blocks)),
	}
	off := 0
	for i, b := range p.blocks {
		l.Blocks[i] = types.Block{Index: i, Offset: off, Size: b.size, Free: b.isFree(), Owner: b.owner}
		off += b.size
	}
	return l
}

// FindOwner returns the index of the allocated block carrying owner.
func (p *Pool) FindOwner(owner string) (int, bool) {
	if owner == "" {
		return -1, false
	}
	for i, b := range p.blocks {
		if b.owner == owner {
			return i, true
		}
	}
	return -1, false
}

// SplitOrClaim allocates the free block at index to owner. An exact fit is
// claimed in place; a larger block becomes [owner size][free remainder].
//
// The target must be free and at least size large. Placement policies only
// return such blocks, so a violation is a caller bug and yields ErrPrecondition.
func (p *Pool) SplitOrClaim(index, size int, owner string) (Claim, error) {
	if index < 0 || index >= len(p.blocks) {
		return Claim{}, preconditionf("index %d out of range [0,%d)", index, len(p.blocks))
	}
	if owner == "" {
		return Claim{}, fmt.Errorf("pool: claim block %d: %w", index, types.ErrInvalidOwner)
	}
	if size <= 0 {
		return Claim{}, fmt.Errorf("pool: claim %d units: %w", size, types.ErrInvalidSize)
	}
	target := p.blocks[index]
	if !target.isFree() {
		return Claim{}, preconditionf("block %d is owned by %q", index, target.owner)
	}
	if target.size < size {
		return Claim{}, preconditionf("block %d has %d units, need %d", index, target.size, size)
	}

	claim := Claim{Index: index, Offset: p.Offset(index), BlockSize: target.size}
	if target.size == size {
		p.blocks[index].owner = owner
		return claim, nil
	}

	p.blocks = slices.Replace(p.blocks, index, index+1,
		block{size: size, owner: owner},
		block{size: target.size - size},
	)
	claim.Split = true
	return claim, nil
}

// Free releases the block held by owner in place. Its size and position do not
// change and no merging happens; see CoalesceAdjacent.
func (p *Pool) Free(owner string) (int, error) {
	i, ok := p.FindOwner(owner)
	if !ok {
		return -1, fmt.Errorf("pool: free %q: %w", owner, types.ErrNotFound)
	}
	p.blocks[i].owner = ""
	return i, nil
}

// CoalesceAdjacent merges every run of adjacent free blocks into its first
// block in a single left-to-right sweep and returns the number of merges.
// A second call right after the first is a no-op.
func (p *Pool) CoalesceAdjacent() int {
	n := len(p.blocks)
	out := p.blocks[:0]
	merged := 0
	for _, b := range p.blocks {
		if last := len(out) - 1; last >= 0 && b.isFree() && out[last].isFree() {
			out[last].size += b.size
			merged++
			continue
		}
		out = append(out, b)
	}
	clear(p.blocks[len(out):n])
	p.blocks = out
	p.clampCursor()
	return merged
}

// Compact moves all allocated blocks to the front in their original relative
// order and gathers the free space into one trailing block. It returns the
// number of allocated blocks whose offset changed.
func (p *Pool) Compact() int {
	out := make([]block, 0, len(p.blocks))
	free, moved := 0, 0
	oldOff, newOff := 0, 0
	for _, b := range p.blocks {
		if b.isFree() {
			free += b.size
		} else {
			if oldOff != newOff {
				moved++
			}
			out = append(out, b)
			newOff += b.size
		}
		oldOff += b.size
	}
	if free > 0 {
		out = append(out, block{size: free})
	}
	p.blocks = out
	p.clampCursor()
	return moved
}

// Restore replaces the pool with a preset layout. Adjacent free segments are
// kept as given. On error the pool is left untouched.
func (p *Pool) Restore(capacity int, segs []types.Segment) error {
	if capacity <= 0 {
		return fmt.Errorf("pool: capacity %d: %w", capacity, types.ErrInvalidSize)
	}
	if len(segs) == 0 {
		return layoutf("no segments")
	}
	blocks := make([]block, 0, len(segs))
	for _, s := range segs {
		blocks = append(blocks, block{size: s.Size, owner: s.Owner})
	}
	if err := validate(capacity, blocks); err != nil {
		return err
	}
	p.capacity = capacity
	p.blocks = blocks
	p.cursor = 0
	return nil
}

// Validate checks the partition, size and owner-uniqueness invariants and the
// cursor range. It does not require coalescing; see Coalesced.
func (p *Pool) Validate() error {
	if err := validate(p.capacity, p.blocks); err != nil {
		return err
	}
	if p.cursor < 0 || p.cursor >= len(p.blocks) {
		return layoutf("cursor %d out of range [0,%d)", p.cursor, len(p.blocks))
	}
	return nil
}

// Coalesced reports whether no two adjacent blocks are both free.
func (p *Pool) Coalesced() bool {
	for i := 1; i < len(p.blocks); i++ {
		if p.blocks[i].isFree() && p.blocks[i-1].isFree() {
			return false
		}
	}
	return true
}

func validate(capacity int, blocks []block) error {
	if len(blocks) == 0 {
		return layoutf("empty block sequence")
	}
	total := 0
	owners := make(map[string]int, len(blocks))
	for i, b := range blocks {
		if b.size <= 0 {
			return layoutf("block %d has size %d", i, b.size)
		}
		total += b.size
		if b.isFree() {
			continue
		}
		if strings.TrimSpace(b.owner) != b.owner {
			return layoutf("block %d owner %q is blank or padded with spaces", i, b.owner)
		}
		if len(b.owner) > types.MaxOwnerLen {
			return layoutf("block %d owner %q longer than %d bytes", i, b.owner, types.MaxOwnerLen)
		}
		if prev, dup := owners[b.owner]; dup {
			return layoutf("owner %q holds blocks %d and %d", b.owner, prev, i)
		}
		owners[b.owner] = i
	}
	if total != capacity {
		return layoutf("blocks cover %d units, capacity is %d", total, capacity)
	}
	return nil
}

// clampCursor wraps the cursor to the start of the sequence once it points
// past the end. Next-fit scans are circular, so index Len() is index 0.
func (p *Pool) clampCursor() {
	if p.cursor < 0 || p.cursor >= len(p.blocks) {
		p.cursor = 0
	}
}
