package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Filter narrows collected summary rows during cross-run comparison. Empty
// fields match everything.
type Filter struct {
	RiskMetric       string
	ScenarioApproach string
	ModelSelection   string
	ModelParameter   string
}

func (f Filter) match(r SummaryRow) bool {
	if f.RiskMetric != "" && f.RiskMetric != r.RiskMetric {
		return false
	}
	if f.ScenarioApproach != "" && f.ScenarioApproach != r.ScenarioApproach {
		return false
	}
	if f.ModelSelection != "" && f.ModelSelection != r.ModelSelection {
		return false
	}
	if f.ModelParameter != "" && f.ModelParameter != r.ModelParameter {
		return false
	}
	return true
}

// CollectSummaries reads every risk_summary_*.csv in dir and pools their
// rows, tagging each row with its source file name.
func CollectSummaries(dir string) ([]SummaryRow, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "risk_summary_*.csv"))
	if err != nil {
		return nil, fmt.Errorf("report: glob summaries: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("report: no risk summaries under %s", dir)
	}

	var rows []SummaryRow
	for _, path := range paths {
		fileRows, err := readSummary(path)
		if err != nil {
			return nil, err
		}
		rows = append(rows, fileRows...)
	}
	return rows, nil
}

func readSummary(path string) ([]SummaryRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("report: open summary: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("report: read %s: %w", path, err)
	}
	if len(records) == 0 || len(records[0]) != len(summaryHeader) {
		return nil, fmt.Errorf("report: %s is not a risk summary", path)
	}

	source := filepath.Base(path)
	out := make([]SummaryRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		pnl, err := strconv.ParseFloat(rec[4], 64)
		if err != nil {
			return nil, fmt.Errorf("report: %s: bad pnl %q: %w", path, rec[4], err)
		}
		out = append(out, SummaryRow{
			Source:           source,
			RiskMetric:       rec[0],
			ScenarioApproach: rec[1],
			ModelSelection:   rec[2],
			ModelParameter:   rec[3],
			PnL:              pnl,
		})
	}
	return out, nil
}

// WorstCase returns the matching row with the lowest PnL, identifying which
// run produced the most conservative figure for a given model family.
func WorstCase(rows []SummaryRow, f Filter) (SummaryRow, error) {
	var best SummaryRow
	found := false
	for _, r := range rows {
		if !f.match(r) {
			continue
		}
		if !found || r.PnL < best.PnL {
			best = r
			found = true
		}
	}
	if !found {
		return SummaryRow{}, fmt.Errorf("report: no summary rows match %+v", f)
	}
	return best, nil
}
