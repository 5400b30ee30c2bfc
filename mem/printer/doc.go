// Package printer renders allocator state for terminals and for tooling.
//
// The same calls produce text tables, JSON documents or CSV depending on
// Options.Format:
//
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.PrintLayout(a.Snapshot())
//	p.PrintStats(stats.Compute(a.Snapshot()))
//	results, _ := a.Compare(350)
//	p.PrintComparison(350, results)
package printer
