package scenario

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joshuapare/memkit/mem/alloc"
	"github.com/joshuapare/memkit/mem/placement"
	"github.com/joshuapare/memkit/mem/printer"
	"github.com/joshuapare/memkit/mem/stats"
	"github.com/joshuapare/memkit/pkg/types"
)

// Options controls how Run reports progress.
type Options struct {
	// Printer receives step lines, layouts and comparisons. Nil prints nothing.
	Printer *printer.Printer
	// Logger is passed to the allocator and receives one record per step.
	Logger *slog.Logger
	// Observer is registered on the allocator, e.g. a history.Recorder.
	Observer alloc.Observer
	// Verbose prints allocation placements, and the layout after every
	// mutating step rather than only on show.
	Verbose bool
}

// Result is the outcome of one step.
type Result struct {
	Step     int                   `json:"step"`
	Op       Op                    `json:"op"`
	Desc     string                `json:"desc"`
	Expected string                `json:"expected"`
	Outcome  string                `json:"outcome"`
	Matched  bool                  `json:"matched"`
	Info     *types.AllocationInfo `json:"info,omitempty"`
	Compare  []placement.Result    `json:"compare,omitempty"`
	Error    string                `json:"error,omitempty"`
	Err      error                 `json:"-"`
}

// Report summarizes a run.
type Report struct {
	Name     string         `json:"name"`
	Results  []Result       `json:"results"`
	Final    types.Layout   `json:"final"`
	Stats    stats.Stats    `json:"stats"`
	Counters alloc.Counters `json:"counters"`
	Failures int            `json:"failures"`
}

type runner struct {
	a    *alloc.Allocator
	def  types.PolicyKind
	opts Options
	log  *slog.Logger
}

// Run executes the script against a fresh allocator. Step failures are
// recorded in the report; Run returns ErrExpectation if any outcome differed
// from its expect value, and ctx.Err() if ctx ends between steps.
func Run(ctx context.Context, s *Script, opts Options) (*Report, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	def, _ := s.DefaultPolicy()
	capacity := s.EffectiveCapacity()

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	log = log.With("scenario", s.Name)

	a, err := alloc.New(capacity,
		alloc.WithLogger(log),
		alloc.WithAutoCoalesce(s.AutoCoalesce),
		alloc.WithDefaultPolicy(def),
		alloc.WithObserver(opts.Observer),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidScript, err)
	}
	if len(s.Layout) > 0 {
		if err := a.Load(capacity, s.Layout); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidScript, err)
		}
	}

	r := &runner{a: a, def: def, opts: opts, log: log}
	if p := opts.Printer; p != nil {
		if err := p.PrintTitle(s.Name, s.Description); err != nil {
			return nil, err
		}
	}

	rep := &Report{Name: s.Name, Results: make([]Result, 0, len(s.Steps))}
	for i, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			r.finish(rep)
			return rep, err
		}
		res, err := r.step(i+1, st)
		if err != nil {
			r.finish(rep)
			return rep, err
		}
		rep.Results = append(rep.Results, res)
		if !res.Matched {
			rep.Failures++
		}
	}
	r.finish(rep)

	if rep.Failures > 0 {
		return rep, fmt.Errorf("%s: %d of %d steps: %w", s.Name, rep.Failures, len(s.Steps), ErrExpectation)
	}
	return rep, nil
}

// step runs one step. The returned error is an output failure, not a step
// outcome.
func (r *runner) step(n int, st Step) (Result, error) {
	res := Result{Step: n, Op: st.Op, Desc: st.String(), Expected: st.Outcome()}
	var opErr error
	compareSize := 0

	switch st.Op {
	case OpAlloc:
		kind := r.def
		if st.Policy != "" {
			kind, _ = types.ParsePolicy(st.Policy)
		}
		res.Desc = fmt.Sprintf("alloc %s %d (%s)", st.Owner, st.Size, kind)
		var info types.AllocationInfo
		if info, opErr = r.a.Allocate(st.Owner, st.Size, kind); opErr == nil {
			res.Info = &info
			res.Desc += fmt.Sprintf(" → block %d @ %d", info.Index, info.Offset)
		}
	case OpFree:
		opErr = r.a.Deallocate(st.Owner)
	case OpCoalesce:
		res.Desc += fmt.Sprintf(" (%d merged)", r.a.Coalesce())
	case OpCompact:
		res.Desc += fmt.Sprintf(" (%d moved)", r.a.Compact())
	case OpReset:
		r.a.Reset()
	case OpCompare:
		size := st.Size
		if st.Owner != "" {
			size, res.Compare, opErr = r.a.CompareOwner(st.Owner)
		} else {
			res.Compare, opErr = r.a.Compare(size)
		}
		if opErr == nil {
			res.Desc = fmt.Sprintf("compare %d", size)
			compareSize = size
		}
	case OpShow:
	}

	res.Err = opErr
	if opErr != nil {
		res.Error = opErr.Error()
	}
	res.Outcome = outcomeOf(opErr)
	res.Matched = res.Outcome == res.Expected

	r.log.Debug("step", "n", n, "desc", res.Desc, "outcome", res.Outcome, "matched", res.Matched)
	if !res.Matched {
		r.log.Warn("unexpected outcome", "n", n, "desc", res.Desc, "want", res.Expected, "got", res.Outcome)
	}

	if err := r.print(func(p *printer.Printer) error {
		return p.PrintStep(n, res.Desc, res.Outcome, res.Matched)
	}); err != nil {
		return res, err
	}
	if r.opts.Verbose && res.Info != nil {
		if err := r.print(func(p *printer.Printer) error { return p.PrintAllocation(*res.Info) }); err != nil {
			return res, err
		}
	}
	if compareSize > 0 {
		if err := r.print(func(p *printer.Printer) error { return p.PrintComparison(compareSize, res.Compare) }); err != nil {
			return res, err
		}
	}
	if st.Op == OpShow || (r.opts.Verbose && mutates(st.Op) && opErr == nil) {
		if err := r.show(); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (r *runner) show() error {
	snap := r.a.Snapshot()
	return r.print(func(p *printer.Printer) error {
		if err := p.PrintLayout(snap); err != nil {
			return err
		}
		return p.PrintStats(stats.Compute(snap))
	})
}

func (r *runner) print(fn func(p *printer.Printer) error) error {
	if r.opts.Printer == nil {
		return nil
	}
	return fn(r.opts.Printer)
}

func (r *runner) finish(rep *Report) {
	rep.Final = r.a.Snapshot()
	rep.Stats = stats.Compute(rep.Final)
	rep.Counters = r.a.Counters()
}

func mutates(op Op) bool {
	switch op {
	case OpAlloc, OpFree, OpCoalesce, OpCompact, OpReset:
		return true
	}
	return false
}

func outcomeOf(err error) string {
	if err == nil {
		return OutcomeOK
	}
	if k, ok := types.KindOf(err); ok {
		return k.String()
	}
	return "error"
}
