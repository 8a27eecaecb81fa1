package portfolio

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/meenmo/quantrisk/bond"
	"github.com/meenmo/quantrisk/frame"
	"github.com/meenmo/quantrisk/risk"
	"github.com/meenmo/quantrisk/utils"
)

// Aggregate column names in the valuation tables.
const (
	PortfolioValueColumn = "portfolio_value"
	DailyYieldColumn     = "portfolio_daily_yield"
)

// Valuation holds the full-revaluation history of the book: per-instrument
// market value columns plus the portfolio value and its daily yield, and the
// per-instrument and portfolio daily profit and loss.
type Valuation struct {
	Values *frame.Frame
	PnL    *frame.Frame
}

// YieldProvider supplies the joined per-instrument yield history, keyed by
// CUSIP and labeled by date.
type YieldProvider interface {
	YieldSeries(cusips []string, start, asOf time.Time) (*frame.Frame, error)
}

// FullRevaluation reprices every instrument on every date of its mapped
// curve history and assembles the book's valuation. Each date's price uses
// that date's curve yield and a maturity clock rebased to the date, so the
// series reflects both rate moves and pull to par. Instrument columns are
// repriced concurrently.
func FullRevaluation(provider YieldProvider, book []bond.Instrument, start, asOf time.Time) (*Valuation, error) {
	cusips := make([]string, len(book))
	byCUSIP := make(map[string]bond.Instrument, len(book))
	for i, inst := range book {
		cusips[i] = inst.CUSIP
		byCUSIP[inst.CUSIP] = inst
	}

	yields, err := provider.YieldSeries(cusips, start, asOf)
	if err != nil {
		return nil, fmt.Errorf("FullRevaluation: %w", err)
	}

	dates := yields.Labels()
	joined := yields.Columns()
	marketValues := make(map[string][]float64, len(joined))

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for _, cusip := range joined {
		cusip := cusip
		inst, ok := byCUSIP[cusip]
		if !ok {
			return nil, fmt.Errorf("FullRevaluation: yield series column %s not in book", cusip)
		}
		g.Go(func() error {
			series, ok := yields.Col(cusip)
			if !ok {
				return fmt.Errorf("no yield column for %s", cusip)
			}
			col, err := revalueColumn(inst, dates, series)
			if err != nil {
				return err
			}
			mu.Lock()
			marketValues[cusip] = col
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("FullRevaluation: %w", err)
	}

	values := frame.New(joined)
	for i, date := range dates {
		row := make([]float64, len(joined))
		for j, cusip := range joined {
			row[j] = marketValues[cusip][i]
		}
		if err := values.Append(date, row); err != nil {
			return nil, fmt.Errorf("FullRevaluation: %w", err)
		}
	}

	pv, err := values.SumAcross(joined)
	if err != nil {
		return nil, fmt.Errorf("FullRevaluation: %w", err)
	}
	if err := values.AddColumn(PortfolioValueColumn, pv); err != nil {
		return nil, fmt.Errorf("FullRevaluation: %w", err)
	}

	pnl := renamePnL(values.Diff(1))

	if err := values.AddColumn(DailyYieldColumn, dailyYield(pv)); err != nil {
		return nil, fmt.Errorf("FullRevaluation: %w", err)
	}
	return &Valuation{Values: values, PnL: pnl}, nil
}

// revalueColumn prices one instrument across the date axis and scales by the
// held quantity.
func revalueColumn(inst bond.Instrument, dates []string, yields []float64) ([]float64, error) {
	col := make([]float64, len(dates))
	for i, label := range dates {
		date, err := utils.ParseDate(label)
		if err != nil {
			return nil, err
		}
		dated := inst
		dated.YearsToMaturity = utils.YearsToMaturity(date, inst.MaturityDate)
		col[i] = bond.PriceFromYield(dated, yields[i]) * inst.Quantity
	}
	return col, nil
}

// renamePnL relabels the summed value column to the risk engine's portfolio
// PnL column name.
func renamePnL(d *frame.Frame) *frame.Frame {
	out := frame.New(nil)
	for _, label := range d.Labels() {
		_ = out.Append(label, nil)
	}
	for _, col := range d.Columns() {
		vals, _ := d.Col(col)
		name := col
		if col == PortfolioValueColumn {
			name = risk.PortfolioPnLColumn
		}
		_ = out.AddColumn(name, vals)
	}
	return out
}

func dailyYield(pv []float64) []float64 {
	out := make([]float64, len(pv))
	for i := 1; i < len(pv); i++ {
		if pv[i-1] != 0 {
			out[i] = pv[i]/pv[i-1] - 1
		}
	}
	return out
}
