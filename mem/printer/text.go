package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/joshuapare/memkit/mem/history"
	"github.com/joshuapare/memkit/mem/placement"
	"github.com/joshuapare/memkit/mem/stats"
	"github.com/joshuapare/memkit/pkg/types"
)

const (
	usedCell   = "█"
	freeCell   = "░"
	cursorMark = "◀ next"
)

func (p *Printer) newTable(headers ...string) *table.Table {
	s := p.styles
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.border).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.header
			}
			return s.cell
		})
}

func (p *Printer) printLayoutText(l types.Layout) error {
	if _, err := fmt.Fprintln(p.writer, p.styles.title.Render(
		p.num.Sprintf("Memory layout: %s in %d blocks", p.size(l.Capacity), len(l.Blocks)))); err != nil {
		return err
	}
	if bar := p.bar(l); bar != "" {
		if _, err := fmt.Fprintln(p.writer, bar); err != nil {
			return err
		}
	}

	headers := []string{"Block"}
	if p.opts.ShowOffsets {
		headers = append(headers, "Offset")
	}
	headers = append(headers, "Size", "Status", "Owner")
	if p.opts.ShowCursor {
		headers = append(headers, "")
	}

	t := p.newTable(headers...)
	for _, b := range l.Blocks {
		row := []string{strconv.Itoa(b.Index)}
		if p.opts.ShowOffsets {
			row = append(row, p.num.Sprintf("%d", b.Offset))
		}
		status, owner := p.styles.used.Render(b.Status()), b.Owner
		if b.Free {
			status, owner = p.styles.free.Render(b.Status()), "-"
		}
		row = append(row, p.size(b.Size), status, owner)
		if p.opts.ShowCursor {
			mark := ""
			if b.Index == l.Cursor {
				mark = p.styles.cursor.Render(cursorMark)
			}
			row = append(row, mark)
		}
		t.Row(row...)
	}
	_, err := fmt.Fprintln(p.writer, t.Render())
	return err
}

// bar draws the layout as a fixed-width strip, one cell per capacity/width
// units. Cumulative rounding keeps the strip exactly BarWidth cells wide.
func (p *Printer) bar(l types.Layout) string {
	w := p.opts.BarWidth
	if w <= 0 || l.Capacity <= 0 {
		return ""
	}
	var sb strings.Builder
	prev := 0
	for _, b := range l.Blocks {
		end := (b.End()*w + l.Capacity/2) / l.Capacity
		n := end - prev
		prev = end
		if n <= 0 {
			continue
		}
		if b.Free {
			sb.WriteString(p.styles.free.Render(strings.Repeat(freeCell, n)))
		} else {
			sb.WriteString(p.styles.used.Render(strings.Repeat(usedCell, n)))
		}
	}
	return sb.String()
}

func (p *Printer) printStatsText(s stats.Stats) error {
	rows := [][2]string{
		{"Total memory", p.size(s.Total)},
		{"Used", p.size(s.Used) + " (" + p.pct(s.UsedPct()) + ")"},
		{"Free", p.size(s.Free) + " (" + p.pct(s.FreePct()) + ")"},
		{"Active processes", p.num.Sprintf("%d", s.ActiveProcesses)},
		{"Free blocks", p.num.Sprintf("%d", s.FreeBlocks)},
		{"Largest free block", p.size(s.LargestFree)},
		{"External fragmentation", p.size(s.ExternalFragmentation) + " (" + p.pct(s.FragmentationPct()) + ")"},
	}
	for _, r := range rows {
		label := p.styles.label.Render(fmt.Sprintf("%-24s", r[0]+":"))
		if _, err := fmt.Fprintf(p.writer, "%s %s\n", label, r[1]); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printComparisonText(size int, results []placement.Result, rec placement.Result, ok bool) error {
	if _, err := fmt.Fprintln(p.writer, p.styles.title.Render("Policy comparison for "+p.size(size))); err != nil {
		return err
	}

	t := p.newTable("Policy", "Block", "Offset", "Block size", "Leftover", "Efficiency")
	for _, r := range results {
		if !r.CanAllocate {
			t.Row(p.PolicyName(r.Policy), p.styles.bad.Render("no fit"), "-", "-", "-", "-")
			continue
		}
		t.Row(p.PolicyName(r.Policy),
			strconv.Itoa(r.Index),
			p.num.Sprintf("%d", r.Offset),
			p.size(r.BlockSize),
			p.size(r.Leftover),
			p.pct(r.Efficiency))
	}
	if _, err := fmt.Fprintln(p.writer, t.Render()); err != nil {
		return err
	}

	var err error
	if ok {
		_, err = fmt.Fprintf(p.writer, "Recommended: %s (leftover %s)\n",
			p.styles.ok.Render(p.PolicyName(rec.Policy)), p.size(rec.Leftover))
	} else {
		_, err = fmt.Fprintln(p.writer, p.styles.bad.Render("No policy can place "+p.size(size)))
	}
	return err
}

const sparkWidth = 24

func (p *Printer) printTimelineText(points []history.Point) error {
	if len(points) == 0 {
		_, err := fmt.Fprintln(p.writer, p.styles.muted.Render("(no recorded steps)"))
		return err
	}
	peak := 0
	for _, pt := range points {
		peak = max(peak, pt.ExternalFragmentation)
	}

	t := p.newTable("#", "Operation", "Free", "Largest free", "Ext. frag", "")
	for _, pt := range points {
		n := 0
		if peak > 0 {
			n = (pt.ExternalFragmentation*sparkWidth + peak - 1) / peak
		}
		t.Row(strconv.Itoa(pt.Seq), pt.Label,
			p.size(pt.Free), p.size(pt.LargestFree), p.size(pt.ExternalFragmentation),
			p.styles.used.Render(strings.Repeat(usedCell, n)))
	}
	_, err := fmt.Fprintln(p.writer, t.Render())
	return err
}
