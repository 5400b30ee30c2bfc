package placement

import "github.com/joshuapare/memkit/pkg/types"

// nextFit resumes scanning at the pool cursor and wraps once. The caller sets
// the cursor to (index+1) mod Len() after the allocation, so successive
// requests spread across the pool instead of piling up at the front.
type nextFit struct{}

func (nextFit) Kind() types.PolicyKind { return types.NextFit }

func (nextFit) Select(v View, size int) (int, bool) {
	n := v.Len()
	start := v.Cursor()
	if start < 0 || start >= n {
		start = 0
	}
	for i := start; i < n; i++ {
		if fits(v, i, size) {
			return i, true
		}
	}
	for i := 0; i < start; i++ {
		if fits(v, i, size) {
			return i, true
		}
	}
	return -1, false
}
