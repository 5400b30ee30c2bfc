package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/internal/logger"
	"github.com/joshuapare/memkit/mem/history"
	"github.com/joshuapare/memkit/mem/printer"
	"github.com/joshuapare/memkit/pkg/scenario"
	"github.com/joshuapare/memkit/pkg/types"
)

var (
	simCapacity     int
	simPolicy       string
	simAutoCoalesce bool
	simOps          string
	simTimeline     bool
)

func init() {
	cmd := newSimulateCmd()
	cmd.Flags().IntVar(&simCapacity, "capacity", types.SmallCapacity, "Pool size")
	cmd.Flags().StringVar(&simPolicy, "policy", string(types.FirstFit), "Default placement policy")
	cmd.Flags().BoolVar(&simAutoCoalesce, "auto-coalesce", false, "Merge free neighbours after every free")
	cmd.Flags().StringVar(&simOps, "ops", "", "Comma-separated operations (see help)")
	cmd.Flags().BoolVar(&simTimeline, "timeline", false, "Print the fragmentation timeline at the end")
	_ = cmd.MarkFlagRequired("ops")
	rootCmd.AddCommand(cmd)
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate --ops <ops>",
		Short: "Run an ad-hoc list of operations",
		Long: `The simulate command runs a comma-separated list of operations against a
fresh pool and shows the final layout.

Operations:
  alloc:OWNER:SIZE[:POLICY]   allocate SIZE units for OWNER
  free:OWNER                  release OWNER's block
  coalesce                    merge adjacent free blocks
  compact                     move allocated blocks to the front
  reset                       start over with one free block
  compare:SIZE|OWNER          show where each policy would place SIZE
  show                        print the layout and statistics

Append =OUTCOME to an operation to expect a failure, e.g. alloc:E:400=no-fit.

Example:
  memctl simulate --ops "alloc:P1:100,alloc:P2:200,free:P1,coalesce,compact"
  memctl simulate --capacity 10240 --policy next-fit --ops "alloc:R1:2000,alloc:R2:2000" --timeline`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd.Context())
		},
	}
	return cmd
}

func runSimulate(ctx context.Context) error {
	steps, err := parseOps(simOps)
	if err != nil {
		return err
	}
	if n := len(steps); n == 0 || steps[n-1].Op != scenario.OpShow {
		steps = append(steps, scenario.Step{Op: scenario.OpShow})
	}
	s := &scenario.Script{
		Name:         "simulate",
		Capacity:     simCapacity,
		Policy:       simPolicy,
		AutoCoalesce: simAutoCoalesce,
		Steps:        steps,
	}

	p, err := newPrinter()
	if err != nil {
		return err
	}
	rec := history.NewRecorder(0)
	opts := scenario.Options{Logger: logger.L, Observer: rec, Verbose: verbose}
	if p.Options().Format == printer.FormatText && !quiet {
		opts.Printer = p
	}

	rep, runErr := scenario.Run(ctx, s, opts)
	if runErr != nil && !errors.Is(runErr, scenario.ErrExpectation) {
		return runErr
	}

	if !quiet {
		switch p.Options().Format {
		case printer.FormatText:
		case printer.FormatJSON:
			if simTimeline {
				err = printJSON(struct {
					*scenario.Report
					Timeline []history.Point `json:"timeline"`
				}{rep, rec.Timeline()})
			} else {
				err = printJSON(rep)
			}
		default:
			err = p.PrintLayout(rep.Final)
		}
		if err != nil {
			return err
		}
		if simTimeline && p.Options().Format != printer.FormatJSON {
			if err := p.PrintTimeline(rec.Timeline()); err != nil {
				return err
			}
		}
	}
	return runErr
}

// parseOps turns "alloc:P1:100,free:P1,coalesce" into steps.
func parseOps(s string) ([]scenario.Step, error) {
	var steps []scenario.Step
	for i, raw := range strings.Split(s, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		st, err := parseOp(raw)
		if err != nil {
			return nil, fmt.Errorf("op %d %q: %w", i+1, raw, err)
		}
		steps = append(steps, st)
	}
	if len(steps) == 0 {
		return nil, errors.New("no operations given")
	}
	return steps, nil
}

func parseOp(raw string) (scenario.Step, error) {
	var st scenario.Step
	if body, expect, ok := strings.Cut(raw, "="); ok {
		raw, st.Expect = body, strings.TrimSpace(expect)
	}
	fields := strings.Split(raw, ":")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	st.Op = scenario.Op(strings.ToLower(fields[0]))
	args := fields[1:]

	switch st.Op {
	case scenario.OpAlloc:
		if len(args) < 2 || len(args) > 3 {
			return st, errors.New("want alloc:OWNER:SIZE[:POLICY]")
		}
		size, err := strconv.Atoi(args[1])
		if err != nil {
			return st, fmt.Errorf("size: %w", err)
		}
		st.Owner, st.Size = args[0], size
		if len(args) == 3 {
			st.Policy = args[2]
		}
	case scenario.OpFree:
		if len(args) != 1 {
			return st, errors.New("want free:OWNER")
		}
		st.Owner = args[0]
	case scenario.OpCompare:
		if len(args) != 1 {
			return st, errors.New("want compare:SIZE or compare:OWNER")
		}
		if size, err := strconv.Atoi(args[0]); err == nil {
			st.Size = size
		} else {
			st.Owner = args[0]
		}
	case scenario.OpCoalesce, scenario.OpCompact, scenario.OpReset, scenario.OpShow:
		if len(args) != 0 {
			return st, fmt.Errorf("%s takes no arguments", st.Op)
		}
	default:
		return st, fmt.Errorf("unknown operation %q", fields[0])
	}
	return st, nil
}
