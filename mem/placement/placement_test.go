package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/memkit/pkg/types"
)

// fakeView is a literal block list.
type fakeView struct {
	sizes  []int
	free   []bool
	cursor int
}

func (f fakeView) Len() int          { return len(f.sizes) }
func (f fakeView) Size(i int) int    { return f.sizes[i] }
func (f fakeView) IsFree(i int) bool { return f.free[i] }
func (f fakeView) Cursor() int       { return f.cursor }

// layout builds a view from sizes; negative sizes mark allocated blocks.
func layout(cursor int, sizes ...int) fakeView {
	v := fakeView{cursor: cursor}
	for _, s := range sizes {
		if s < 0 {
			v.sizes = append(v.sizes, -s)
			v.free = append(v.free, false)
			continue
		}
		v.sizes = append(v.sizes, s)
		v.free = append(v.free, true)
	}
	return v
}

func selectWith(t *testing.T, kind types.PolicyKind, v View, size int) (int, bool) {
	t.Helper()
	p, err := For(kind)
	require.NoError(t, err)
	require.Equal(t, kind, p.Kind())
	return p.Select(v, size)
}

func TestFor_UnknownPolicy(t *testing.T) {
	_, err := For("random-fit")
	require.Error(t, err)
}

func TestAll_CanonicalOrder(t *testing.T) {
	var kinds []types.PolicyKind
	for _, p := range All() {
		kinds = append(kinds, p.Kind())
	}
	assert.Equal(t, []types.PolicyKind{types.FirstFit, types.NextFit, types.BestFit, types.WorstFit}, kinds)
}

func TestFirstFit_LowestQualifyingIndex(t *testing.T) {
	v := layout(0, 100, -200, 300, 50, 400)

	i, ok := selectWith(t, types.FirstFit, v, 250)
	require.True(t, ok)
	assert.Equal(t, 2, i)

	i, ok = selectWith(t, types.FirstFit, v, 100)
	require.True(t, ok)
	assert.Equal(t, 0, i)
}

func TestFirstFit_SkipsAllocatedEvenIfLarge(t *testing.T) {
	v := layout(0, -1000, 10)

	_, ok := selectWith(t, types.FirstFit, v, 500)
	assert.False(t, ok)
}

func TestBestFit_SmallestQualifying(t *testing.T) {
	v := layout(0, 9040, -500, 400, -300, 600)

	i, ok := selectWith(t, types.BestFit, v, 350)
	require.True(t, ok)
	assert.Equal(t, 2, i, "400 is the smallest block that fits 350")
}

func TestBestFit_TieGoesToEarliest(t *testing.T) {
	v := layout(0, 500, 300, -10, 300, 700)

	i, ok := selectWith(t, types.BestFit, v, 250)
	require.True(t, ok)
	assert.Equal(t, 1, i)
}

func TestBestFit_ExactMatch(t *testing.T) {
	v := layout(0, 512, 256, 256, 128)

	i, ok := selectWith(t, types.BestFit, v, 256)
	require.True(t, ok)
	assert.Equal(t, 1, i)
}

func TestWorstFit_LargestQualifying(t *testing.T) {
	v := layout(0, 300, -100, 800, 500, 800)

	i, ok := selectWith(t, types.WorstFit, v, 200)
	require.True(t, ok)
	assert.Equal(t, 2, i, "earliest of the two 800 blocks")
}

func TestNextFit_StartsAtCursor(t *testing.T) {
	v := layout(2, 500, -100, 200, 600, -100)

	i, ok := selectWith(t, types.NextFit, v, 150)
	require.True(t, ok)
	assert.Equal(t, 2, i, "block 0 also fits but lies before the cursor")
}

func TestNextFit_WrapsWhenNothingAfterCursor(t *testing.T) {
	v := layout(3, 500, -100, 200, 100, -100)

	i, ok := selectWith(t, types.NextFit, v, 150)
	require.True(t, ok)
	assert.Equal(t, 0, i)
}

func TestNextFit_CursorBlockQualifies(t *testing.T) {
	v := layout(1, 500, 500)

	i, ok := selectWith(t, types.NextFit, v, 500)
	require.True(t, ok)
	assert.Equal(t, 1, i)
}

func TestNextFit_OutOfRangeCursorStartsAtZero(t *testing.T) {
	v := layout(9, 100, -100)

	i, ok := selectWith(t, types.NextFit, v, 50)
	require.True(t, ok)
	assert.Equal(t, 0, i)
}

func TestAllPolicies_NoFit(t *testing.T) {
	v := layout(1, 100, -500, 200, 150)

	for _, p := range All() {
		t.Run(string(p.Kind()), func(t *testing.T) {
			i, ok := p.Select(v, 300)
			assert.False(t, ok)
			assert.Equal(t, -1, i)
		})
	}
}

func TestAllPolicies_SelectionProperties(t *testing.T) {
	views := []fakeView{
		layout(0, 1024),
		layout(1, 100, 300, -50, 300, 200, 900, -24),
		layout(4, -10, 40, 80, -10, 20, 160, 40),
		layout(6, 64, 64, 64, 64, 64, 64, 64),
	}
	for _, v := range views {
		for size := 1; size <= 1024; size += 7 {
			var quals []int
			for i := range v.Len() {
				if v.IsFree(i) && v.Size(i) >= size {
					quals = append(quals, i)
				}
			}
			for _, p := range All() {
				i, ok := p.Select(v, size)
				if len(quals) == 0 {
					require.False(t, ok, "%s size %d", p.Kind(), size)
					continue
				}
				require.True(t, ok, "%s size %d", p.Kind(), size)
				require.Contains(t, quals, i)

				switch p.Kind() {
				case types.FirstFit:
					require.Equal(t, quals[0], i)
				case types.BestFit:
					for _, q := range quals {
						require.LessOrEqual(t, v.Size(i), v.Size(q))
					}
				case types.WorstFit:
					for _, q := range quals {
						require.GreaterOrEqual(t, v.Size(i), v.Size(q))
					}
				case types.NextFit:
					want := -1
					for _, q := range quals {
						if q >= v.Cursor() {
							want = q
							break
						}
					}
					if want < 0 {
						want = quals[0]
					}
					require.Equal(t, want, i)
				}
			}
		}
	}
}
