// Package pool implements the block sequence behind a contiguous memory pool.
//
// # Overview
//
// A Pool partitions a fixed address space [0, capacity) into an ordered
// sequence of blocks. Each block is either free or owned by a single process
// identifier. A block's address is implicit: it is the sum of the sizes of the
// blocks before it.
//
// The sequence is a slice of values. Splitting and merging replace elements of
// the slice; there is no linked list and no fixed block ceiling.
//
// # Invariants
//
// After every exported mutation:
//
//   - Block sizes sum to the capacity (no gaps, no overlaps).
//   - Every block has size > 0.
//   - At most one allocated block carries a given owner.
//   - After CoalesceAdjacent or Compact, no two adjacent blocks are both free.
//
// Validate checks all of them.
//
// # Mutation primitives
//
//	p, _ := pool.New(1024)
//	res, err := p.SplitOrClaim(0, 150, "P1") // [P1 150][free 874]
//	err = p.Free("P1")                        // [free 150][free 874]
//	merged := p.CoalesceAdjacent()            // [free 1024], merged == 1
//
// Compact moves every allocated block to the front, keeps their relative
// order, and gathers all free space into one trailing block.
//
// # Next-fit cursor
//
// The pool stores the next-fit cursor because it is an index into the block
// sequence. Any operation that shrinks the sequence clamps it back into range.
//
// # Thread Safety
//
// Pool instances are not thread-safe. The alloc package serializes access.
package pool
