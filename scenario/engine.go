// Package scenario produces yield-change paths per instrument, either by
// historical differencing of stored curve series or by Monte Carlo sampling
// from their estimated covariance structure.
package scenario

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/meenmo/quantrisk/curve"
	"github.com/meenmo/quantrisk/frame"
	"github.com/meenmo/quantrisk/utils"
)

// CurveStore is the slice of the yield curve store the engine consumes.
type CurveStore interface {
	Series(name string, tenor *float64, start, end time.Time) ([]curve.Observation, error)
}

// Engine turns stored curve histories into per-instrument yield series and
// yield-change tables.
type Engine struct {
	store    CurveStore
	mappings map[string]CurveMapping
	log      *zap.SugaredLogger
}

// NewEngine wires the engine to a curve store and a parsed mapping table.
func NewEngine(store CurveStore, mappings map[string]CurveMapping, log *zap.SugaredLogger) *Engine {
	return &Engine{store: store, mappings: mappings, log: log}
}

// YieldSeries fetches each instrument's mapped curve history between start
// and asOf and inner-joins the series on date (columns keyed by CUSIP).
// Instruments with no mapping or no stored curve are logged as warnings and
// excluded; the join drops any date missing from a remaining instrument.
func (e *Engine) YieldSeries(cusips []string, start, asOf time.Time) (*frame.Frame, error) {
	var series []frame.Series
	for _, cusip := range cusips {
		m, ok := e.mappings[cusip]
		if !ok {
			e.log.Warnw("no curve mapping for instrument; excluded from scenarios", "cusip", cusip)
			continue
		}

		obs, err := e.store.Series(m.CurveName, m.TenorMonths, start, asOf)
		if err != nil {
			var missing *curve.MissingCurveError
			if errors.As(err, &missing) {
				e.log.Warnw("curve fetch miss; instrument excluded from scenarios",
					"cusip", cusip, "curve", m.CurveName, "reason", missing.Reason)
				continue
			}
			return nil, fmt.Errorf("scenario: fetch %s for %s: %w", m.CurveName, cusip, err)
		}

		s := frame.Series{Name: cusip}
		for _, o := range obs {
			s.Labels = append(s.Labels, utils.FormatDate(o.Date))
			s.Values = append(s.Values, o.Yield)
		}
		series = append(series, s)
	}

	if len(series) == 0 {
		return nil, fmt.Errorf("scenario: no instrument has a usable curve between %s and %s",
			utils.FormatDate(start), utils.FormatDate(asOf))
	}
	return frame.InnerJoin(series...)
}

// HistoricalChanges returns the horizon-n yield differences of the joined
// series: rows are dates, columns are instruments.
func (e *Engine) HistoricalChanges(yields *frame.Frame, horizon int) *frame.Frame {
	return yields.Diff(horizon)
}

// MonteCarloChanges simulates yield changes. The horizon-n percentage
// changes of the historical series define a mean vector and covariance
// matrix; paths draws are taken from the corresponding multivariate normal
// (one correlated draw per path shared by the whole portfolio) and each
// component is scaled by the instrument's yield level on the as-of date.
//
// The draw is fully determined by seed.
func (e *Engine) MonteCarloChanges(yields *frame.Frame, asOf time.Time, horizon, paths int, seed int64) (*frame.Frame, error) {
	pct := yields.PctChange(horizon)
	nObs, nInst := pct.Len(), len(pct.Columns())
	if nObs < 2 {
		return nil, fmt.Errorf("scenario: need at least 2 percentage-change observations, have %d", nObs)
	}

	asOfLabel := utils.FormatDate(asOf)
	levels, ok := rowByLabel(yields, asOfLabel)
	if !ok {
		return nil, fmt.Errorf("scenario: yield series has no row for as-of date %s", asOfLabel)
	}

	flat := make([]float64, 0, nObs*nInst)
	for _, row := range pct.Data() {
		flat = append(flat, row...)
	}
	x := mat.NewDense(nObs, nInst, flat)

	means := make([]float64, nInst)
	for j, col := range pct.Columns() {
		v, _ := pct.Col(col)
		means[j] = stat.Mean(v, nil)
	}

	cov := mat.NewSymDense(nInst, nil)
	stat.CovarianceMatrix(cov, x, nil)

	var chol mat.Cholesky
	if ok := chol.Factorize(cov); !ok {
		// Degenerate covariance (e.g. perfectly correlated columns): nudge
		// the diagonal and retry once.
		for i := 0; i < nInst; i++ {
			cov.SetSym(i, i, cov.At(i, i)+1e-12)
		}
		if ok := chol.Factorize(cov); !ok {
			return nil, fmt.Errorf("scenario: covariance matrix is not positive definite")
		}
	}
	var lower mat.TriDense
	chol.LTo(&lower)

	rnd := rand.New(rand.NewSource(seed))
	out := frame.New(pct.Columns())
	z := make([]float64, nInst)
	for p := 0; p < paths; p++ {
		for k := range z {
			z[k] = rnd.NormFloat64()
		}
		row := make([]float64, nInst)
		for j := 0; j < nInst; j++ {
			v := means[j]
			for k := 0; k <= j; k++ {
				v += lower.At(j, k) * z[k]
			}
			// Percentage change scaled back to a yield change.
			row[j] = v * levels[j]
		}
		if err := out.Append(strconv.Itoa(p), row); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func rowByLabel(f *frame.Frame, label string) ([]float64, bool) {
	for i := 0; i < f.Len(); i++ {
		if f.Label(i) == label {
			return f.Row(i), true
		}
	}
	return nil, false
}
