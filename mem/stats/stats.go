// Package stats derives usage and fragmentation figures from a layout snapshot.
package stats

import "github.com/joshuapare/memkit/pkg/types"

// Stats summarizes a layout.
type Stats struct {
	Total           int `json:"total"`
	Used            int `json:"used"`
	Free            int `json:"free"`
	ActiveProcesses int `json:"active_processes"`
	FreeBlocks      int `json:"free_blocks"`
	Blocks          int `json:"blocks"`
	LargestFree     int `json:"largest_free"`
	// ExternalFragmentation is free memory outside the largest free block:
	// space that exists but cannot serve a request of size Free.
	ExternalFragmentation int `json:"external_fragmentation"`
}

// Compute walks the layout once.
func Compute(l types.Layout) Stats {
	s := Stats{Total: l.Capacity, Blocks: len(l.Blocks)}
	for _, b := range l.Blocks {
		if b.Free {
			s.Free += b.Size
			s.FreeBlocks++
			s.LargestFree = max(s.LargestFree, b.Size)
			continue
		}
		s.Used += b.Size
		s.ActiveProcesses++
	}
	s.ExternalFragmentation = s.Free - s.LargestFree
	return s
}

// UsedPct returns used memory as a percentage of the total.
func (s Stats) UsedPct() float64 { return pct(s.Used, s.Total) }

// FreePct returns free memory as a percentage of the total.
func (s Stats) FreePct() float64 { return pct(s.Free, s.Total) }

// FragmentationPct returns external fragmentation as a percentage of the total.
func (s Stats) FragmentationPct() float64 { return pct(s.ExternalFragmentation, s.Total) }

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}
