package risk

import (
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/meenmo/quantrisk/bond"
	"github.com/meenmo/quantrisk/frame"
)

// PortfolioPnLColumn is the aggregated portfolio PnL column appended to
// every PnL-vector table.
const PortfolioPnLColumn = "portfolio_daily_pnl"

// PnLFromChanges converts a yield-change table (columns keyed by CUSIP)
// into a PnL-vector table using the sensitivity approximation
//
//	pnl_i = yield_change_i · dv01_i · quantity_i · 10000
//
// and appends the summed portfolio column.
func PnLFromChanges(changes *frame.Frame, instruments []bond.Instrument) (*frame.Frame, error) {
	byCUSIP := make(map[string]bond.Instrument, len(instruments))
	for _, inst := range instruments {
		byCUSIP[inst.CUSIP] = inst
	}

	out := frame.New(changes.Columns())
	for i := 0; i < changes.Len(); i++ {
		src := changes.Row(i)
		row := make([]float64, len(src))
		for j, cusip := range changes.Columns() {
			inst, ok := byCUSIP[cusip]
			if !ok {
				return nil, fmt.Errorf("risk: yield-change column %s has no instrument", cusip)
			}
			row[j] = src[j] * inst.DV01 * inst.Quantity * 10000
		}
		if err := out.Append(changes.Label(i), row); err != nil {
			return nil, err
		}
	}

	total, err := out.SumAcross(out.Columns())
	if err != nil {
		return nil, err
	}
	if err := out.AddColumn(PortfolioPnLColumn, total); err != nil {
		return nil, err
	}
	return out, nil
}

// Result is one computed risk figure with its supporting evidence.
type Result struct {
	Config   RunConfig
	Value    float64 // reported VaR or ES (a realized PnL value)
	Quantile float64 // raw empirical quantile backing the VaR pick
	// Support is the realized observation nearest the quantile: its label
	// (date or path id) and every column of the PnL table on that row.
	SupportLabel string
	Support      map[string]float64
}

// TailLoss computes VaR and Expected Shortfall from PnL-vector tables under
// one model configuration.
type TailLoss struct {
	cfg RunConfig
	log *zap.SugaredLogger
}

// NewTailLoss binds a calculator to a parsed run configuration.
func NewTailLoss(cfg RunConfig, log *zap.SugaredLogger) *TailLoss {
	return &TailLoss{cfg: cfg, log: log}
}

// CalculateLoss derives the configured tail statistic from the PnL table's
// portfolio column.
//
// For a 1-day horizon the loss distribution is the PnL series itself; for
// an n-day horizon it is the series differenced over n rows, so the window
// always follows the configured horizon.
//
// VaR is the realized observation nearest the empirical (1−p) quantile; ES
// is the mean of observations at or below that realized value.
func (t *TailLoss) CalculateLoss(pnl *frame.Frame) (Result, error) {
	series, ok := pnl.Col(PortfolioPnLColumn)
	if !ok {
		return Result{}, fmt.Errorf("risk: PnL table has no %s column", PortfolioPnLColumn)
	}

	// Indices into the original table backing each loss observation.
	n := t.cfg.HorizonDays
	var losses []float64
	var rowIdx []int
	if n == 1 {
		losses = series
		rowIdx = make([]int, len(series))
		for i := range rowIdx {
			rowIdx[i] = i
		}
	} else {
		if len(series) <= n {
			return Result{}, fmt.Errorf("risk: %d observations cannot support a %d-day horizon", len(series), n)
		}
		losses = make([]float64, 0, len(series)-n)
		rowIdx = make([]int, 0, len(series)-n)
		for i := n; i < len(series); i++ {
			losses = append(losses, series[i]-series[i-n])
			rowIdx = append(rowIdx, i)
		}
	}
	if len(losses) == 0 {
		return Result{}, fmt.Errorf("risk: empty loss distribution")
	}

	q := empiricalQuantile(losses, 1-t.cfg.Percentile)

	// Nearest-rank rule: report the realized observation closest to the
	// raw quantile, not the quantile itself.
	nearest := 0
	for i, v := range losses {
		if math.Abs(v-q) < math.Abs(losses[nearest]-q) {
			nearest = i
		}
	}
	varValue := losses[nearest]

	res := Result{
		Config:       t.cfg,
		Quantile:     q,
		SupportLabel: pnl.Label(rowIdx[nearest]),
		Support:      rowByColumns(pnl, rowIdx[nearest]),
	}

	switch t.cfg.Loss {
	case LossVaR:
		res.Value = varValue
	case LossES:
		var sum float64
		var count int
		for _, v := range losses {
			if v <= varValue {
				sum += v
				count++
			}
		}
		res.Value = sum / float64(count)
	default:
		return Result{}, fmt.Errorf("risk: loss approach %q is not a tail statistic", t.cfg.Loss)
	}

	t.log.Infow("tail loss computed",
		"model", t.cfg.ModelKey(),
		"value", res.Value,
		"quantile", res.Quantile,
		"support", res.SupportLabel)
	return res, nil
}

// empiricalQuantile is the linearly interpolated empirical quantile on the
// sorted sample.
func empiricalQuantile(sample []float64, q float64) float64 {
	sorted := append([]float64(nil), sample...)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}
	h := q * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

func rowByColumns(f *frame.Frame, i int) map[string]float64 {
	row := f.Row(i)
	out := make(map[string]float64, len(row))
	for j, c := range f.Columns() {
		out[c] = row[j]
	}
	return out
}
