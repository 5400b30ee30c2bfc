package placement

import (
	"fmt"

	"github.com/joshuapare/memkit/pkg/types"
)

// View is the read-only slice of pool state a policy may inspect.
// *pool.Pool satisfies it.
type View interface {
	Len() int
	Size(i int) int
	IsFree(i int) bool
	Cursor() int
}

// Policy selects the index of a free block of at least size units.
type Policy interface {
	Kind() types.PolicyKind
	Select(v View, size int) (index int, ok bool)
}

var policies = map[types.PolicyKind]Policy{
	types.FirstFit: firstFit{},
	types.NextFit:  nextFit{},
	types.BestFit:  bestFit{},
	types.WorstFit: worstFit{},
}

// For returns the policy registered for kind.
func For(kind types.PolicyKind) (Policy, error) {
	p, ok := policies[kind]
	if !ok {
		return nil, fmt.Errorf("placement: unknown policy %q", kind)
	}
	return p, nil
}

// All returns every policy in canonical comparison order.
func All() []Policy {
	out := make([]Policy, 0, len(types.PolicyKinds))
	for _, k := range types.PolicyKinds {
		out = append(out, policies[k])
	}
	return out
}

func fits(v View, i, size int) bool {
	return v.IsFree(i) && v.Size(i) >= size
}
