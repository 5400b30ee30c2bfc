package printer

import (
	"encoding/json"

	"github.com/joshuapare/memkit/mem/placement"
	"github.com/joshuapare/memkit/mem/stats"
	"github.com/joshuapare/memkit/pkg/types"
)

type jsonStats struct {
	stats.Stats
	UsedPct          float64 `json:"used_pct"`
	FreePct          float64 `json:"free_pct"`
	FragmentationPct float64 `json:"fragmentation_pct"`
}

func newJSONStats(s stats.Stats) jsonStats {
	return jsonStats{
		Stats:            s,
		UsedPct:          s.UsedPct(),
		FreePct:          s.FreePct(),
		FragmentationPct: s.FragmentationPct(),
	}
}

type jsonComparison struct {
	Size        int                `json:"size"`
	Results     []placement.Result `json:"results"`
	Recommended types.PolicyKind   `json:"recommended,omitempty"`
}

func (p *Printer) printJSON(v any) error {
	enc := json.NewEncoder(p.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
