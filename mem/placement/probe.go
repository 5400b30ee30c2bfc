package placement

import "github.com/joshuapare/memkit/pkg/types"

// Result is what one policy would do with a request, without doing it.
type Result struct {
	Policy      types.PolicyKind `json:"policy"`
	CanAllocate bool             `json:"can_allocate"`
	Index       int              `json:"index"`
	Offset      int              `json:"offset"`
	BlockSize   int              `json:"block_size"`
	// Leftover is the free remainder a split would leave behind.
	Leftover int `json:"leftover"`
	// Efficiency is size / BlockSize as a percentage.
	Efficiency float64 `json:"efficiency"`
}

// Probe evaluates every policy against v for a request of size units.
// Results are in canonical order (first, next, best, worst).
func Probe(v View, size int) []Result {
	results := make([]Result, 0, len(types.PolicyKinds))
	for _, p := range All() {
		r := Result{Policy: p.Kind(), Index: -1}
		if i, ok := p.Select(v, size); ok && size > 0 {
			r.CanAllocate = true
			r.Index = i
			r.Offset = offsetOf(v, i)
			r.BlockSize = v.Size(i)
			r.Leftover = r.BlockSize - size
			r.Efficiency = float64(size) * 100 / float64(r.BlockSize)
		}
		results = append(results, r)
	}
	return results
}

// Recommend returns the result with the smallest leftover among policies that
// can allocate. Ties go to the earlier policy. ok is false if none can.
func Recommend(results []Result) (Result, bool) {
	best := -1
	for i, r := range results {
		if !r.CanAllocate {
			continue
		}
		if best < 0 || r.Leftover < results[best].Leftover {
			best = i
		}
	}
	if best < 0 {
		return Result{}, false
	}
	return results[best], true
}

func offsetOf(v View, i int) int {
	off := 0
	for j := 0; j < i; j++ {
		off += v.Size(j)
	}
	return off
}
