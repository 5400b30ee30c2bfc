package pool

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/pkg/types"
)

// ============================================================================
// Test Helpers
// ============================================================================

func used(owner string, size int) types.Segment { return types.Segment{Size: size, Owner: owner} }

func hole(size int) types.Segment { return types.Segment{Size: size} }

// newTestPool builds a pool from a preset layout and fails the test on error.
func newTestPool(t testing.TB, capacity int, segs ...types.Segment) *Pool {
	t.Helper()
	p, err := New(capacity)
	require.NoError(t, err)
	if len(segs) > 0 {
		require.NoError(t, p.Restore(capacity, segs))
	}
	return p
}

// requireLayout compares the pool's segments against want and prints a diff.
func requireLayout(t testing.TB, p *Pool, want ...types.Segment) {
	t.Helper()
	got := p.Snapshot().Segments()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}
}

// assertInvariants checks the invariants that hold after every operation.
func assertInvariants(t testing.TB, p *Pool) {
	t.Helper()
	require.NoError(t, p.Validate())

	snap := p.Snapshot()
	next := 0
	for _, b := range snap.Blocks {
		require.Equal(t, next, b.Offset, "block %d does not start where the previous one ends", b.Index)
		next = b.End()
	}
	require.Equal(t, p.Capacity(), next, "blocks must tile [0, capacity)")
}
