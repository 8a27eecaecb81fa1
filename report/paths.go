// Package report renders run outputs: the risk summary, scenario-loss PnL
// vectors, cashflow schedules, the portfolio valuation history, and the
// cross-run comparison over previously written summaries.
package report

import (
	"strings"
	"time"
)

const compactDate = "20060102"

// Placeholders substituted into configured report paths.
const (
	StartDateToken = "YYYYMMDD1"
	AsOfDateToken  = "YYYYMMDD2"
)

// ResolvePath substitutes the run's start and as-of dates into a configured
// path template, e.g. "out/risk_summary_YYYYMMDD1_YYYYMMDD2.csv".
func ResolvePath(template string, start, asOf time.Time) string {
	out := strings.ReplaceAll(template, StartDateToken, start.Format(compactDate))
	return strings.ReplaceAll(out, AsOfDateToken, asOf.Format(compactDate))
}
