package placement

import "github.com/joshuapare/memkit/pkg/types"

type worstFit struct{}

func (worstFit) Kind() types.PolicyKind { return types.WorstFit }

func (worstFit) Select(v View, size int) (int, bool) {
	worst := -1
	for i := range v.Len() {
		if !fits(v, i, size) {
			continue
		}
		if worst < 0 || v.Size(i) > v.Size(worst) {
			worst = i
		}
	}
	return worst, worst >= 0
}
