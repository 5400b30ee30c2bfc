package printer

import (
	"encoding/csv"
	"strconv"

	"github.com/joshuapare/memkit/mem/history"
	"github.com/joshuapare/memkit/mem/placement"
	"github.com/joshuapare/memkit/mem/stats"
	"github.com/joshuapare/memkit/pkg/types"
)

func (p *Printer) writeCSV(records [][]string) error {
	w := csv.NewWriter(p.writer)
	if err := w.WriteAll(records); err != nil {
		return err
	}
	return w.Error()
}

func (p *Printer) printLayoutCSV(l types.Layout) error {
	records := [][]string{{"index", "offset", "size", "status", "owner", "cursor"}}
	for _, b := range l.Blocks {
		records = append(records, []string{
			strconv.Itoa(b.Index),
			strconv.Itoa(b.Offset),
			strconv.Itoa(b.Size),
			b.Status(),
			b.Owner,
			strconv.FormatBool(b.Index == l.Cursor),
		})
	}
	return p.writeCSV(records)
}

func (p *Printer) printStatsCSV(s stats.Stats) error {
	itoa := strconv.Itoa
	return p.writeCSV([][]string{
		{"metric", "value"},
		{"total", itoa(s.Total)},
		{"used", itoa(s.Used)},
		{"free", itoa(s.Free)},
		{"active_processes", itoa(s.ActiveProcesses)},
		{"free_blocks", itoa(s.FreeBlocks)},
		{"blocks", itoa(s.Blocks)},
		{"largest_free", itoa(s.LargestFree)},
		{"external_fragmentation", itoa(s.ExternalFragmentation)},
	})
}

func (p *Printer) printComparisonCSV(size int, results []placement.Result, rec placement.Result, ok bool) error {
	records := [][]string{{"size", "policy", "can_allocate", "index", "offset", "block_size", "leftover", "efficiency", "recommended"}}
	for _, r := range results {
		records = append(records, []string{
			strconv.Itoa(size),
			string(r.Policy),
			strconv.FormatBool(r.CanAllocate),
			strconv.Itoa(r.Index),
			strconv.Itoa(r.Offset),
			strconv.Itoa(r.BlockSize),
			strconv.Itoa(r.Leftover),
			strconv.FormatFloat(r.Efficiency, 'f', 2, 64),
			strconv.FormatBool(ok && r.Policy == rec.Policy),
		})
	}
	return p.writeCSV(records)
}

func (p *Printer) printTimelineCSV(points []history.Point) error {
	records := [][]string{{"seq", "operation", "free", "largest_free", "external_fragmentation"}}
	for _, pt := range points {
		records = append(records, []string{
			strconv.Itoa(pt.Seq),
			pt.Label,
			strconv.Itoa(pt.Free),
			strconv.Itoa(pt.LargestFree),
			strconv.Itoa(pt.ExternalFragmentation),
		})
	}
	return p.writeCSV(records)
}
