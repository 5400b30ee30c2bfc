package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/pkg/types"
)

func TestProbe_ReportsEveryPolicy(t *testing.T) {
	// [free 300][P 200][free 1000][free 400], cursor at 2
	v := layout(2, 300, -200, 1000, 400)

	results := Probe(v, 250)
	require.Len(t, results, 4)

	byKind := make(map[types.PolicyKind]Result)
	for _, r := range results {
		byKind[r.Policy] = r
	}

	first := byKind[types.FirstFit]
	assert.True(t, first.CanAllocate)
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, 0, first.Offset)
	assert.Equal(t, 300, first.BlockSize)
	assert.Equal(t, 50, first.Leftover)
	assert.InDelta(t, 83.33, first.Efficiency, 0.01)

	next := byKind[types.NextFit]
	assert.Equal(t, 2, next.Index)
	assert.Equal(t, 500, next.Offset)

	best := byKind[types.BestFit]
	assert.Equal(t, 0, best.Index)

	worst := byKind[types.WorstFit]
	assert.Equal(t, 2, worst.Index)
	assert.Equal(t, 750, worst.Leftover)
}

func TestProbe_NoFit(t *testing.T) {
	v := layout(0, 100, -900)

	for _, r := range Probe(v, 500) {
		assert.False(t, r.CanAllocate, r.Policy)
		assert.Equal(t, -1, r.Index)
	}
	_, ok := Recommend(Probe(v, 500))
	assert.False(t, ok)
}

func TestRecommend_SmallestLeftoverEarliestOnTie(t *testing.T) {
	v := layout(0, 300, -200, 1000, 400)

	rec, ok := Recommend(Probe(v, 250))
	require.True(t, ok)
	assert.Equal(t, types.FirstFit, rec.Policy, "first-fit and best-fit tie; first-fit comes first")
	assert.Equal(t, 50, rec.Leftover)
}

func TestRecommend_PrefersExactFit(t *testing.T) {
	v := layout(0, 600, -100, 250, 300)

	rec, ok := Recommend(Probe(v, 250))
	require.True(t, ok)
	assert.Equal(t, types.BestFit, rec.Policy)
	assert.Equal(t, 0, rec.Leftover)
	assert.InDelta(t, 100.0, rec.Efficiency, 0.001)
}
