package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/internal/logger"
	"github.com/joshuapare/memkit/mem/printer"
	"github.com/joshuapare/memkit/pkg/scenario"
)

func init() {
	rootCmd.AddCommand(newRunCmd())
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script.toml>...",
		Short: "Run scenario scripts",
		Long: `The run command executes TOML scenario scripts against a fresh pool and
checks each step against its expect value. It exits non-zero if any step
had an unexpected outcome.

Example:
  memctl run fragmentation.toml
  memctl run a.toml b.toml --verbose
  memctl run fragmentation.toml --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), args)
		},
	}
	return cmd
}

func runRun(ctx context.Context, args []string) error {
	scripts := make([]*scenario.Script, 0, len(args))
	for _, path := range args {
		printVerbose("Loading script: %s\n", path)
		s, err := scenario.Load(path)
		if err != nil {
			return err
		}
		scripts = append(scripts, s)
	}
	return runScripts(ctx, scripts)
}

// runScripts runs each script, prints progress according to the global flags
// and reports failed scripts as an error.
func runScripts(ctx context.Context, scripts []*scenario.Script) error {
	p, err := newPrinter()
	if err != nil {
		return err
	}
	f := p.Options().Format

	reports := make([]*scenario.Report, 0, len(scripts))
	failed := 0
	for _, s := range scripts {
		opts := scenario.Options{Logger: logger.L, Verbose: verbose}
		if f == printer.FormatText && !quiet {
			opts.Printer = p
		}

		logger.Info("running scenario", "name", s.Name, "source", s.Source, "steps", len(s.Steps))
		rep, err := scenario.Run(ctx, s, opts)
		switch {
		case errors.Is(err, scenario.ErrExpectation):
			failed++
			printError("%v\n", err)
		case err != nil:
			return fmt.Errorf("%s: %w", s.Name, err)
		}
		reports = append(reports, rep)

		if f == printer.FormatText {
			printInfo("%d steps, %d unexpected\n\n", len(rep.Results), rep.Failures)
		}
	}

	if !quiet {
		switch f {
		case printer.FormatJSON:
			if err := printJSON(reports); err != nil {
				return err
			}
		case printer.FormatCSV:
			for _, rep := range reports {
				if err := p.PrintLayout(rep.Final); err != nil {
					return err
				}
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenario(s) had unexpected outcomes", failed, len(scripts))
	}
	return nil
}

// loadScript accepts a script path or the name of a builtin scenario.
func loadScript(arg string) (*scenario.Script, error) {
	if _, err := os.Stat(arg); err == nil {
		return scenario.Load(arg)
	}
	s, err := scenario.Builtin(arg)
	if err != nil {
		return nil, fmt.Errorf("%q is neither a script file nor a builtin scenario", arg)
	}
	return s, nil
}
