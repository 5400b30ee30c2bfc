// Package alloc orchestrates contiguous memory allocation over a pool.
//
// # Overview
//
// An Allocator owns a pool.Pool and is its only mutator. Each request names
// an owner (a process identifier), a size and a placement policy:
//
//	a, err := alloc.New(1024)
//	if err != nil {
//	    return err
//	}
//	info, err := a.Allocate("P1", 150, types.FirstFit)
//	switch {
//	case errors.Is(err, types.ErrNoSuitableBlock):
//	    // enough memory may be free, but not in one block
//	case err != nil:
//	    return err
//	}
//	_ = a.Deallocate("P1")
//	a.Coalesce()
//
// # Operations
//
//   - Allocate: validate, select a block with the policy, split or claim it
//   - Deallocate: release the owner's block in place
//   - Coalesce: merge adjacent free blocks (idempotent)
//   - Compact: move allocated blocks to the front (idempotent)
//   - Compare: ask every policy where a request would land, without allocating
//
// Deallocate does not merge neighbours unless WithAutoCoalesce(true) is set.
//
// # Errors
//
// Rejections are *types.Error values wrapped with context. Use errors.Is with
// the types sentinels or types.KindOf. None of them indicate a broken pool.
//
// # Thread Safety
//
// All methods are safe for concurrent use. One mutex covers the whole pool for
// the duration of an operation; observers run while it is held.
package alloc
