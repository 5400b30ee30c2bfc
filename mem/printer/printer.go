package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/memkit/mem/history"
	"github.com/joshuapare/memkit/mem/placement"
	"github.com/joshuapare/memkit/mem/stats"
	"github.com/joshuapare/memkit/pkg/types"
)

const (
	DefaultUnit     = "KB"
	DefaultBarWidth = 64
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs human-readable tables.
	FormatText Format = "text"

	// FormatJSON outputs indented JSON documents.
	FormatJSON Format = "json"

	// FormatCSV outputs one CSV table per call.
	FormatCSV Format = "csv"
)

// ParseFormat maps a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown output format %q (want text, json or csv)", s)
}

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json, csv).
	// Default: FormatText
	Format Format

	// ShowOffsets adds the start offset column to layout tables.
	// Default: true
	ShowOffsets bool

	// ShowCursor marks the block where the next next-fit search starts.
	// Default: true
	ShowCursor bool

	// Unit is appended to sizes in text output. Empty prints bare numbers.
	// Default: "KB"
	Unit string

	// BarWidth is the width of the memory map drawn above layout tables.
	// Set to 0 to omit it.
	// Default: 64
	BarWidth int

	// NoColor disables styling even when the writer is a terminal.
	// Default: false
	NoColor bool
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:      FormatText,
		ShowOffsets: true,
		ShowCursor:  true,
		Unit:        DefaultUnit,
		BarWidth:    DefaultBarWidth,
	}
}

// Printer renders layouts, statistics, policy comparisons and timelines.
// It is not safe for concurrent use.
type Printer struct {
	opts   Options
	writer io.Writer
	styles styles
	num    *message.Printer
	title  cases.Caser
}

// New creates a new Printer.
//
// Text styling is resolved against w, so writers that are not terminals get
// plain text.
//
// Example:
//
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.PrintLayout(a.Snapshot())
func New(w io.Writer, opts Options) *Printer {
	r := lipgloss.NewRenderer(w)
	if opts.NoColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Printer{
		opts:   opts,
		writer: w,
		styles: newStyles(r),
		num:    message.NewPrinter(language.English),
		title:  cases.Title(language.English),
	}
}

// Options returns the printer's options.
func (p *Printer) Options() Options { return p.opts }

// PrintLayout prints every block of the layout in address order.
func (p *Printer) PrintLayout(l types.Layout) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.printJSON(l)
	case FormatCSV:
		return p.printLayoutCSV(l)
	default:
		return p.printLayoutText(l)
	}
}

// PrintStats prints usage and fragmentation figures.
func (p *Printer) PrintStats(s stats.Stats) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.printJSON(newJSONStats(s))
	case FormatCSV:
		return p.printStatsCSV(s)
	default:
		return p.printStatsText(s)
	}
}

// PrintComparison prints what each policy would do with a request of size
// units and which one leaves the smallest remainder.
func (p *Printer) PrintComparison(size int, results []placement.Result) error {
	rec, ok := placement.Recommend(results)
	switch p.opts.Format {
	case FormatJSON:
		doc := jsonComparison{Size: size, Results: results}
		if ok {
			doc.Recommended = rec.Policy
		}
		return p.printJSON(doc)
	case FormatCSV:
		return p.printComparisonCSV(size, results, rec, ok)
	default:
		return p.printComparisonText(size, results, rec, ok)
	}
}

// PrintTimeline prints the external fragmentation after each recorded step.
func (p *Printer) PrintTimeline(points []history.Point) error {
	switch p.opts.Format {
	case FormatJSON:
		if points == nil {
			points = []history.Point{}
		}
		return p.printJSON(points)
	case FormatCSV:
		return p.printTimelineCSV(points)
	default:
		return p.printTimelineText(points)
	}
}

// PrintAllocation prints where an allocation landed.
func (p *Printer) PrintAllocation(info types.AllocationInfo) error {
	if p.opts.Format != FormatText {
		return p.printJSONOrSkip(info)
	}
	_, err := fmt.Fprintf(p.writer, "%s %s → block %d at offset %s (%s from a %s block, %s)\n",
		p.styles.ok.Render("✓"), info.Owner, info.Index, p.size(info.Offset),
		p.size(info.Size), p.size(info.BlockSize), p.PolicyName(info.Policy))
	return err
}

// PrintTitle prints a heading and an optional description. Text output only.
func (p *Printer) PrintTitle(title, description string) error {
	if p.opts.Format != FormatText {
		return nil
	}
	if _, err := fmt.Fprintln(p.writer, p.styles.title.Render("== "+title+" ==")); err != nil {
		return err
	}
	if description == "" {
		return nil
	}
	_, err := fmt.Fprintln(p.writer, p.styles.muted.Render(description))
	return err
}

// PrintStep prints the outcome of one numbered step. matched reports whether
// the outcome was the expected one. Text output only.
func (p *Printer) PrintStep(n int, desc, outcome string, matched bool) error {
	if p.opts.Format != FormatText {
		return nil
	}
	mark := p.styles.ok.Render("✓")
	if !matched {
		mark = p.styles.bad.Render("✗")
	}
	_, err := fmt.Fprintf(p.writer, "%3d. %s %s: %s\n", n, mark, desc, outcome)
	return err
}

// PrintJSON writes v as indented JSON regardless of the configured format.
func (p *Printer) PrintJSON(v any) error { return p.printJSON(v) }

// PolicyName returns the display name of a policy, e.g. "Best Fit".
func (p *Printer) PolicyName(k types.PolicyKind) string {
	return p.title.String(strings.ReplaceAll(string(k), "-", " "))
}

// printJSONOrSkip emits JSON in json mode and nothing in csv mode, where a
// single record does not form a table.
func (p *Printer) printJSONOrSkip(v any) error {
	if p.opts.Format == FormatJSON {
		return p.printJSON(v)
	}
	return nil
}

func (p *Printer) size(n int) string {
	if p.opts.Unit == "" {
		return p.num.Sprintf("%d", n)
	}
	return p.num.Sprintf("%d %s", n, p.opts.Unit)
}

func (p *Printer) pct(f float64) string {
	return p.num.Sprintf("%.1f%%", f)
}
