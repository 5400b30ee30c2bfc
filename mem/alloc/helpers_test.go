package alloc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/mem/stats"
	"github.com/joshuapare/memkit/pkg/types"
)

func used(owner string, size int) types.Segment { return types.Segment{Size: size, Owner: owner} }

func hole(size int) types.Segment { return types.Segment{Size: size} }

func newTestAllocator(t testing.TB, capacity int, opts ...Option) *Allocator {
	t.Helper()
	a, err := New(capacity, opts...)
	require.NoError(t, err)
	return a
}

// mustAlloc allocates and fails the test on error.
func mustAlloc(t testing.TB, a *Allocator, owner string, size int, kind types.PolicyKind) types.AllocationInfo {
	t.Helper()
	info, err := a.Allocate(owner, size, kind)
	require.NoError(t, err, "allocate %s %d (%s)", owner, size, kind)
	return info
}

func requireLayout(t testing.TB, a *Allocator, want ...types.Segment) {
	t.Helper()
	got := a.Snapshot().Segments()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("layout mismatch (-want +got):\n%s", diff)
	}
}

func statsOf(a *Allocator) stats.Stats { return stats.Compute(a.Snapshot()) }
