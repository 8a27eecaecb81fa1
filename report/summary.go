package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/meenmo/quantrisk/frame"
	"github.com/meenmo/quantrisk/utils"
)

// YieldSummary renders a month-over-month view of the portfolio's value
// history. Each month is sampled on the 20th, or the first trading date
// after it when the 20th is not in the series. The summary reports each
// sampled value, the month-over-month yield, the best and worst month, and
// the overall appreciation between the first and last sample.
func YieldSummary(f *frame.Frame, valueColumn string) (string, error) {
	values, ok := f.Col(valueColumn)
	if !ok {
		return "", fmt.Errorf("report: no %s column", valueColumn)
	}

	type sample struct {
		date  string
		value float64
	}
	var samples []sample
	seen := make(map[string]bool)
	for i, label := range f.Labels() {
		d, err := utils.ParseDate(label)
		if err != nil {
			return "", fmt.Errorf("report: bad date label %q: %w", label, err)
		}
		if d.Day() < 20 {
			continue
		}
		month := d.Format("2006-01")
		if seen[month] {
			continue
		}
		seen[month] = true
		samples = append(samples, sample{date: label, value: values[i]})
	}
	if len(samples) < 2 {
		return "", fmt.Errorf("report: need at least two monthly samples, got %d", len(samples))
	}

	var b strings.Builder
	b.WriteString("Portfolio Monthly Yield Summary\n")
	b.WriteString("===============================\n")

	bestIdx, worstIdx := -1, -1
	var bestYield, worstYield float64
	for i, s := range samples {
		if i == 0 {
			fmt.Fprintf(&b, "%s  value %.2f\n", s.date, s.value)
			continue
		}
		y := s.value/samples[i-1].value - 1
		fmt.Fprintf(&b, "%s  value %.2f  monthly yield %+.4f%%\n", s.date, s.value, y*100)
		if bestIdx == -1 || y > bestYield {
			bestIdx, bestYield = i, y
		}
		if worstIdx == -1 || y < worstYield {
			worstIdx, worstYield = i, y
		}
	}

	appreciation := samples[len(samples)-1].value/samples[0].value - 1
	fmt.Fprintf(&b, "\nHighest monthly yield: %+.4f%% (%s)\n", bestYield*100, samples[bestIdx].date)
	fmt.Fprintf(&b, "Lowest monthly yield:  %+.4f%% (%s)\n", worstYield*100, samples[worstIdx].date)
	fmt.Fprintf(&b, "Appreciation %s to %s: %+.4f%%\n", samples[0].date, samples[len(samples)-1].date, appreciation*100)
	return b.String(), nil
}

// WriteYieldSummary renders the summary and writes it as plain text.
func WriteYieldSummary(path string, f *frame.Frame, valueColumn string) error {
	text, err := YieldSummary(f, valueColumn)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("report: create output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}
