package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/meenmo/quantrisk/bond"
	"github.com/meenmo/quantrisk/frame"
	"github.com/meenmo/quantrisk/risk"
	"github.com/meenmo/quantrisk/utils"
)

// SummaryRow is one line of the risk summary report. Source is empty for
// rows written by the current run and carries origin file names for rows
// collected during cross-run comparison.
type SummaryRow struct {
	Source           string
	RiskMetric       string
	ScenarioApproach string
	ModelSelection   string
	ModelParameter   string
	PnL              float64
}

var summaryHeader = []string{"Risk Metric", "Scenario Approach", "Model Selection", "Model Parameter", "pnl"}

// SummaryFromResult flattens a tail-loss result into a summary row.
func SummaryFromResult(res risk.Result) SummaryRow {
	return SummaryRow{
		RiskMetric:       string(res.Config.Metric),
		ScenarioApproach: string(res.Config.Scenario),
		ModelSelection:   res.Config.ModelSelection(),
		ModelParameter:   res.Config.ModelParameter(),
		PnL:              res.Value,
	}
}

// SummaryFromStress flattens one named stress scenario's portfolio PnL into
// a summary row.
func SummaryFromStress(scenarioKey string, pnl float64) SummaryRow {
	return SummaryRow{
		RiskMetric:       string(risk.MetricStressTest),
		ScenarioApproach: scenarioKey,
		ModelSelection:   string(risk.ValuationFullReval) + "^" + string(risk.PricingZeroCurve),
		ModelParameter:   scenarioKey,
		PnL:              pnl,
	}
}

// WriteRiskSummary writes the run's summary rows as CSV.
func WriteRiskSummary(path string, rows []SummaryRow) error {
	return writeCSV(path, summaryHeader, len(rows), func(i int) []string {
		r := rows[i]
		return []string{r.RiskMetric, r.ScenarioApproach, r.ModelSelection, r.ModelParameter, formatFloat(r.PnL)}
	})
}

// WritePnLVectors writes every model configuration's loss support vector in
// long form: one row per (model, observation label). Vectors keyed by model
// are written in sorted key order so output is stable across runs.
func WritePnLVectors(path string, vectors map[string]*frame.Frame) error {
	keys := make([]string, 0, len(vectors))
	for k := range vectors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	type line struct{ model, label, pnl string }
	var lines []line
	for _, k := range keys {
		f := vectors[k]
		col, ok := f.Col(risk.PortfolioPnLColumn)
		if !ok {
			return fmt.Errorf("report: PnL vector %q has no %s column", k, risk.PortfolioPnLColumn)
		}
		for i, label := range f.Labels() {
			lines = append(lines, line{k, label, formatFloat(col[i])})
		}
	}

	header := []string{"model", "label", risk.PortfolioPnLColumn}
	return writeCSV(path, header, len(lines), func(i int) []string {
		return []string{lines[i].model, lines[i].label, lines[i].pnl}
	})
}

// WriteCashflows writes every instrument's projected schedule, ordered by
// CUSIP then payment date.
func WriteCashflows(path string, schedules map[string][]bond.Cashflow) error {
	cusips := make([]string, 0, len(schedules))
	for c := range schedules {
		cusips = append(cusips, c)
	}
	sort.Strings(cusips)

	type line struct {
		cusip string
		cf    bond.Cashflow
	}
	var lines []line
	for _, c := range cusips {
		for _, cf := range schedules[c] {
			lines = append(lines, line{c, cf})
		}
	}

	header := []string{"cusip", "date", "coupon", "principal", "amount", "time_years", "zero_rate"}
	return writeCSV(path, header, len(lines), func(i int) []string {
		l := lines[i]
		return []string{
			l.cusip,
			utils.FormatDate(l.cf.Date),
			formatFloat(l.cf.Coupon),
			formatFloat(l.cf.Principal),
			formatFloat(l.cf.Amount()),
			formatFloat(l.cf.TimeYears),
			formatFloat(l.cf.ZeroRate),
		}
	})
}

// WriteFrame writes a labeled table as CSV with the given label header.
// It backs the valuation and daily-yield reports.
func WriteFrame(path, labelHeader string, f *frame.Frame) error {
	header := append([]string{labelHeader}, f.Columns()...)
	return writeCSV(path, header, f.Len(), func(i int) []string {
		row := f.Row(i)
		out := make([]string, 0, len(row)+1)
		out = append(out, f.Label(i))
		for _, v := range row {
			out = append(out, formatFloat(v))
		}
		return out
	})
}

func writeCSV(path string, header []string, n int, row func(i int) []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("report: create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			return fmt.Errorf("report: write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("report: flush %s: %w", path, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
