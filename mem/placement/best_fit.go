package placement

import "github.com/joshuapare/memkit/pkg/types"

type bestFit struct{}

func (bestFit) Kind() types.PolicyKind { return types.BestFit }

func (bestFit) Select(v View, size int) (int, bool) {
	best := -1
	for i := range v.Len() {
		if !fits(v, i, size) {
			continue
		}
		// Strict < keeps the earliest block on ties.
		if best < 0 || v.Size(i) < v.Size(best) {
			best = i
			if v.Size(i) == size {
				break
			}
		}
	}
	return best, best >= 0
}
