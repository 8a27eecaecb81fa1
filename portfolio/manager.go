package portfolio

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/meenmo/quantrisk/bond"
	"github.com/meenmo/quantrisk/utils"
)

// Weightage approaches for capital allocation across the book.
const (
	EqualWeight  = "equal_weight"
	RandomWeight = "random_weight"
)

// Manager allocates the fund across the instrument book and enriches each
// position with derived analytics.
type Manager struct {
	instruments []bond.Instrument
	asOf        time.Time
	approach    string
	totalFund   float64
	seed        int64
	log         *zap.SugaredLogger
}

// Failure records an instrument dropped or degraded during enrichment.
type Failure struct {
	CUSIP string
	Err   error
}

func NewManager(instruments []bond.Instrument, asOf time.Time, approach string, totalFund float64, seed int64, log *zap.SugaredLogger) (*Manager, error) {
	if approach != EqualWeight && approach != RandomWeight {
		return nil, fmt.Errorf("portfolio: unknown weightage approach %q", approach)
	}
	if totalFund <= 0 {
		return nil, fmt.Errorf("portfolio: total fund must be positive, got %v", totalFund)
	}
	if len(instruments) == 0 {
		return nil, errors.New("portfolio: no instruments")
	}
	return &Manager{
		instruments: instruments,
		asOf:        asOf,
		approach:    approach,
		totalFund:   totalFund,
		seed:        seed,
		log:         log,
	}, nil
}

// Build allocates weights, stamps the as-of date, and derives market value,
// quantity, and years to maturity for every position. Instruments that
// carry an explicit weight keep it; otherwise weights follow the configured
// approach and are normalized to sum to one.
func (m *Manager) Build() ([]bond.Instrument, error) {
	out := make([]bond.Instrument, len(m.instruments))
	copy(out, m.instruments)

	explicit := true
	for i := range out {
		if out[i].Weight <= 0 {
			explicit = false
			break
		}
	}
	if !explicit {
		m.allocate(out)
	}

	var total float64
	for i := range out {
		total += out[i].Weight
	}
	if total <= 0 {
		return nil, errors.New("portfolio: weights sum to zero")
	}

	for i := range out {
		inst := &out[i]
		inst.Weight /= total
		inst.AsOf = m.asOf
		inst.YearsToMaturity = utils.YearsToMaturity(m.asOf, inst.MaturityDate)
		inst.MarketValue = inst.Weight * m.totalFund
		if inst.LastPrice <= 0 {
			return nil, fmt.Errorf("portfolio: %s has non-positive last price %v", inst.CUSIP, inst.LastPrice)
		}
		if inst.Quantity == 0 {
			inst.Quantity = inst.MarketValue / inst.LastPrice
		}
	}
	return out, nil
}

func (m *Manager) allocate(out []bond.Instrument) {
	switch m.approach {
	case RandomWeight:
		rng := rand.New(rand.NewSource(m.seed))
		for i := range out {
			out[i].Weight = rng.Float64()
		}
	default:
		for i := range out {
			out[i].Weight = 1
		}
	}
}

// EnrichAnalytics solves the yield implied by each position's last price and
// derives bump-and-reprice sensitivities. A yield solver that fails to
// converge leaves that position's sensitivities unset and the position in
// the book; a pricing domain failure drops the position. Both are reported
// as failures.
func (m *Manager) EnrichAnalytics(book []bond.Instrument, bump float64) ([]bond.Instrument, []Failure) {
	var (
		kept     []bond.Instrument
		failures []Failure
	)
	for _, inst := range book {
		y, err := bond.YieldFromPrice(inst)
		if err != nil {
			m.log.Warnw("yield solve failed, sensitivities unavailable", "cusip", inst.CUSIP, "error", err)
			failures = append(failures, Failure{CUSIP: inst.CUSIP, Err: err})
			kept = append(kept, inst)
			continue
		}
		inst.LastYield = y

		sens, err := bond.Sensitivities(inst, bump)
		if err != nil {
			var domErr *bond.DomainError
			if errors.As(err, &domErr) {
				m.log.Warnw("dropping instrument from book", "cusip", inst.CUSIP, "error", err)
				failures = append(failures, Failure{CUSIP: inst.CUSIP, Err: err})
				continue
			}
			m.log.Warnw("sensitivity calculation failed", "cusip", inst.CUSIP, "error", err)
			failures = append(failures, Failure{CUSIP: inst.CUSIP, Err: err})
			kept = append(kept, inst)
			continue
		}
		inst.ModifiedDuration = sens.ModifiedDuration
		inst.Convexity = sens.Convexity
		inst.DV01 = sens.DV01
		kept = append(kept, inst)
	}
	return kept, failures
}
