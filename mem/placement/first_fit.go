package placement

import "github.com/joshuapare/memkit/pkg/types"

type firstFit struct{}

func (firstFit) Kind() types.PolicyKind { return types.FirstFit }

func (firstFit) Select(v View, size int) (int, bool) {
	for i := range v.Len() {
		if fits(v, i, size) {
			return i, true
		}
	}
	return -1, false
}
