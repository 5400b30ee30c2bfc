// Package history records allocator mutations for playback and for the
// fragmentation timeline.
//
// A Recorder is an alloc.Observer:
//
//	rec := history.NewRecorder(0)
//	a, _ := alloc.New(1024, alloc.WithObserver(rec))
//	...
//	p := history.NewPlayer(rec.Steps())
//	for !p.Done() { step := p.Next(); ... }
package history

import (
	"sync"

	"github.com/joshuapare/memkit/mem/stats"
	"github.com/joshuapare/memkit/pkg/types"
)

// DefaultLimit is the number of steps a Recorder keeps when none is given.
const DefaultLimit = 1024

// Step is one recorded mutation and the layout it produced.
type Step struct {
	Seq    int          `json:"seq"`
	Event  types.Event  `json:"event"`
	Layout types.Layout `json:"layout"`
	Stats  stats.Stats  `json:"stats"`
}

// Point is one sample of the fragmentation timeline.
type Point struct {
	Seq                   int    `json:"seq"`
	Label                 string `json:"label"`
	ExternalFragmentation int    `json:"external_fragmentation"`
	LargestFree           int    `json:"largest_free"`
	Free                  int    `json:"free"`
}

// Recorder keeps the most recent Limit steps. Safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	limit int
	seq   int
	steps []Step
}

// NewRecorder returns a recorder keeping at most limit steps. limit <= 0
// selects DefaultLimit.
func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Recorder{limit: limit}
}

// Observe appends a step, dropping the oldest when full.
func (r *Recorder) Observe(ev types.Event, layout types.Layout) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	if len(r.steps) == r.limit {
		copy(r.steps, r.steps[1:])
		r.steps = r.steps[:len(r.steps)-1]
	}
	r.steps = append(r.steps, Step{
		Seq:    r.seq,
		Event:  ev,
		Layout: layout,
		Stats:  stats.Compute(layout),
	})
}

// Len returns the number of retained steps.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.steps)
}

// Steps returns a copy of the retained steps, oldest first.
func (r *Recorder) Steps() []Step {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Step, len(r.steps))
	copy(out, r.steps)
	return out
}

// Timeline returns the fragmentation series of the retained steps.
func (r *Recorder) Timeline() []Point {
	return Timeline(r.Steps())
}

// Timeline converts steps to fragmentation samples.
func Timeline(steps []Step) []Point {
	pts := make([]Point, len(steps))
	for i, s := range steps {
		pts[i] = Point{
			Seq:                   s.Seq,
			Label:                 s.Event.String(),
			ExternalFragmentation: s.Stats.ExternalFragmentation,
			LargestFree:           s.Stats.LargestFree,
			Free:                  s.Stats.Free,
		}
	}
	return pts
}
