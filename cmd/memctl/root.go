package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/memkit/internal/logger"
	"github.com/joshuapare/memkit/mem/printer"
)

var (
	// Global flags
	verbose  bool
	quiet    bool
	jsonOut  bool
	noColor  bool
	format   string
	logLevel string
	logDir   string
)

var rootCmd = &cobra.Command{
	Use:   "memctl",
	Short: "Simulate contiguous memory allocation",
	Long: `memctl drives a contiguous memory pool through first-fit, next-fit,
best-fit and worst-fit placement, with deallocation, coalescing and compaction.
It runs TOML scenario scripts, ad-hoc operation lists and policy comparisons,
and can replay a session step by step.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setupLogging,
	PersistentPostRunE: func(*cobra.Command, []string) error { logger.Close(); return nil },
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show the layout after every step")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format (same as --format json)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "text", "Output format: text, json or csv")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log to stderr at this level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Write dated JSON log files to this directory")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setupLogging(*cobra.Command, []string) error {
	if logLevel == "" && logDir == "" {
		return logger.Init(logger.Options{})
	}
	opts := logger.Options{Enabled: true, LogDir: logDir, JSON: logDir != ""}
	if logLevel != "" {
		lvl, err := logger.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		opts.Level = lvl
	}
	return logger.Init(opts)
}

// outputFormat resolves --json and --format.
func outputFormat() (printer.Format, error) {
	if jsonOut {
		return printer.FormatJSON, nil
	}
	return printer.ParseFormat(format)
}

// newPrinter returns a printer on stdout configured from the global flags.
func newPrinter() (*printer.Printer, error) {
	f, err := outputFormat()
	if err != nil {
		return nil, err
	}
	opts := printer.DefaultOptions()
	opts.Format = f
	opts.NoColor = noColor
	return printer.New(os.Stdout, opts), nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
