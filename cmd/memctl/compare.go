package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/internal/logger"
	"github.com/joshuapare/memkit/mem/alloc"
	"github.com/joshuapare/memkit/mem/placement"
	"github.com/joshuapare/memkit/mem/printer"
	"github.com/joshuapare/memkit/pkg/scenario"
	"github.com/joshuapare/memkit/pkg/types"
)

var (
	cmpCapacity   int
	cmpLayout     string
	cmpLayoutFrom string
	cmpSize       int
	cmpOwner      string
)

func init() {
	cmd := newCompareCmd()
	cmd.Flags().IntVar(&cmpCapacity, "capacity", types.DefaultCapacity, "Pool size when no layout is given")
	cmd.Flags().StringVar(&cmpLayout, "layout", "", `Preset layout, e.g. "800:P1,300,1200:P2,7940"`)
	cmd.Flags().StringVar(&cmpLayoutFrom, "layout-from", "", "Use the final layout of a script file or builtin scenario")
	cmd.Flags().IntVar(&cmpSize, "size", 0, "Request size to compare")
	cmd.Flags().StringVar(&cmpOwner, "owner", "", "Compare using the size of this owner's block")
	cmd.MarkFlagsMutuallyExclusive("layout", "layout-from")
	cmd.MarkFlagsMutuallyExclusive("size", "owner")
	cmd.MarkFlagsOneRequired("size", "owner")
	rootCmd.AddCommand(cmd)
}

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare --size N",
		Short: "Compare where each placement policy would put a request",
		Long: `The compare command evaluates first, next, best and worst fit against a
layout without changing it, and recommends the policy leaving the smallest
remainder.

Example:
  memctl compare --layout "800:P1,300,1200:P2,500,700:P3,400,900:P4,5440" --size 450
  memctl compare --layout-from sample-layout --owner P2
  memctl compare --layout-from rejections --size 400 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd.Context())
		},
	}
	return cmd
}

func runCompare(ctx context.Context) error {
	a, err := compareAllocator(ctx)
	if err != nil {
		return err
	}
	p, err := newPrinter()
	if err != nil {
		return err
	}

	size := cmpSize
	var results []placement.Result
	if cmpOwner != "" {
		size, results, err = a.CompareOwner(cmpOwner)
	} else {
		results, err = a.Compare(size)
	}
	if err != nil {
		return err
	}

	if quiet {
		return nil
	}
	if p.Options().Format == printer.FormatText {
		printVerbose("Comparing against %d blocks\n", len(a.Snapshot().Blocks))
		if err := p.PrintLayout(a.Snapshot()); err != nil {
			return err
		}
	}
	return p.PrintComparison(size, results)
}

func compareAllocator(ctx context.Context) (*alloc.Allocator, error) {
	switch {
	case cmpLayoutFrom != "":
		s, err := loadScript(cmpLayoutFrom)
		if err != nil {
			return nil, err
		}
		rep, err := scenario.Run(ctx, s, scenario.Options{Logger: logger.L})
		if err != nil && !errors.Is(err, scenario.ErrExpectation) {
			return nil, err
		}
		a, err := loadedAllocator(rep.Final.Capacity, rep.Final.Segments())
		if err != nil {
			return nil, err
		}
		a.SetCursor(rep.Final.Cursor)
		return a, nil
	case cmpLayout != "":
		segs, err := parseLayout(cmpLayout)
		if err != nil {
			return nil, err
		}
		total := 0
		for _, seg := range segs {
			total += seg.Size
		}
		return loadedAllocator(total, segs)
	default:
		return alloc.New(cmpCapacity, alloc.WithLogger(logger.L))
	}
}

func loadedAllocator(capacity int, segs []types.Segment) (*alloc.Allocator, error) {
	a, err := alloc.New(capacity, alloc.WithLogger(logger.L))
	if err != nil {
		return nil, err
	}
	if err := a.Load(capacity, segs); err != nil {
		return nil, err
	}
	return a, nil
}

// parseLayout reads "SIZE[:OWNER],..." where a missing owner is a free block.
func parseLayout(s string) ([]types.Segment, error) {
	var segs []types.Segment
	for i, raw := range strings.Split(s, ",") {
		sizeStr, owner, _ := strings.Cut(strings.TrimSpace(raw), ":")
		size, err := strconv.Atoi(strings.TrimSpace(sizeStr))
		if err != nil {
			return nil, fmt.Errorf("layout segment %d %q: %w", i+1, raw, err)
		}
		segs = append(segs, types.Segment{Size: size, Owner: strings.TrimSpace(owner)})
	}
	return segs, nil
}
