package pool

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// Test_Fuzz_RandomOps_GuardInvariants drives the primitives directly with a
// fixed seed and checks the partition invariants after every step.
func Test_Fuzz_RandomOps_GuardInvariants(t *testing.T) {
	const capacity = 4096

	p, err := New(capacity)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	live := make(map[string]int)
	nextID := 0

	for step := range 2000 {
		switch op := rng.Intn(10); {
		case op < 5: // claim the first free block that fits
			size := 1 + rng.Intn(400)
			idx := -1
			for i := range p.Len() {
				if p.IsFree(i) && p.Size(i) >= size {
					idx = i
					break
				}
			}
			if idx < 0 {
				continue
			}
			owner := fmt.Sprintf("P%d", nextID)
			nextID++
			_, err := p.SplitOrClaim(idx, size, owner)
			require.NoError(t, err, "step %d", step)
			live[owner] = size

		case op < 8: // free a random live owner
			for owner := range live {
				_, err := p.Free(owner)
				require.NoError(t, err, "step %d", step)
				delete(live, owner)
				break
			}

		case op < 9:
			p.CoalesceAdjacent()
			require.True(t, p.Coalesced(), "step %d: adjacent free blocks after coalesce", step)

		default:
			p.Compact()
			free := 0
			for i := range p.Len() {
				if p.IsFree(i) {
					free++
					require.Equal(t, p.Len()-1, i, "step %d: free block is not last after compact", step)
				}
			}
			require.LessOrEqual(t, free, 1, "step %d", step)
		}

		assertInvariants(t, p)

		// Every live owner still holds exactly its requested size.
		for owner, size := range live {
			i, ok := p.FindOwner(owner)
			require.True(t, ok, "step %d: lost owner %s", step, owner)
			require.Equal(t, size, p.Size(i), "step %d: owner %s resized", step, owner)
		}
	}
}
