// Package risk turns portfolio PnL series into Value-at-Risk and Expected
// Shortfall figures and carries the typed model configurations that select
// how those figures are produced.
package risk

import (
	"fmt"
	"strconv"
	"strings"
)

// Metric selects the top-level risk measure family.
type Metric string

// ScenarioApproach selects how yield-change paths are generated.
type ScenarioApproach string

// ValuationApproach selects how paths become PnL.
type ValuationApproach string

// PricingModel selects the bond pricing model under the valuation approach.
type PricingModel string

// LossApproach selects the tail statistic computed from the loss
// distribution.
type LossApproach string

const (
	MetricVaR        Metric = "var"
	MetricStressTest Metric = "stress_testing"

	ScenarioHistorical ScenarioApproach = "historical"
	ScenarioMonteCarlo ScenarioApproach = "monte_carlo"

	ValuationFullReval   ValuationApproach = "full_revaluation"
	ValuationSensitivity ValuationApproach = "sensitivity_approximation"

	PricingYTM       PricingModel = "ytm"
	PricingZeroCurve PricingModel = "zero_curve"

	LossVaR LossApproach = "var_type"
	LossES  LossApproach = "expected_shortfall"
)

// RunConfig is one fully resolved model configuration. The legacy encoding
// "metric|scenario|valuation^pricing|loss^n_day^percentile" is parsed once
// at configuration-load time; nothing downstream re-parses strings.
type RunConfig struct {
	Raw         string
	Metric      Metric
	Scenario    ScenarioApproach
	Valuation   ValuationApproach
	Pricing     PricingModel
	Loss        LossApproach
	HorizonDays int
	Percentile  float64 // in (0,1)
}

// ParseRunConfig decodes one encoded model configuration. Any malformed
// field is an error; callers treat these as fatal at startup.
func ParseRunConfig(s string) (RunConfig, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 4 {
		return RunConfig{}, fmt.Errorf("risk: run config %q: want 4 pipe-delimited fields, got %d", s, len(parts))
	}

	cfg := RunConfig{Raw: s, Metric: Metric(parts[0]), Scenario: ScenarioApproach(parts[1])}
	switch cfg.Metric {
	case MetricVaR, MetricStressTest:
	default:
		return RunConfig{}, fmt.Errorf("risk: run config %q: unknown metric %q", s, parts[0])
	}
	switch cfg.Scenario {
	case ScenarioHistorical, ScenarioMonteCarlo:
	default:
		return RunConfig{}, fmt.Errorf("risk: run config %q: unknown scenario approach %q", s, parts[1])
	}

	model := strings.Split(parts[2], "^")
	if len(model) != 2 {
		return RunConfig{}, fmt.Errorf("risk: run config %q: model selection %q wants valuation^pricing", s, parts[2])
	}
	cfg.Valuation, cfg.Pricing = ValuationApproach(model[0]), PricingModel(model[1])
	switch cfg.Valuation {
	case ValuationFullReval, ValuationSensitivity:
	default:
		return RunConfig{}, fmt.Errorf("risk: run config %q: unknown valuation approach %q", s, model[0])
	}
	switch cfg.Pricing {
	case PricingYTM, PricingZeroCurve:
	default:
		return RunConfig{}, fmt.Errorf("risk: run config %q: unknown pricing model %q", s, model[1])
	}

	loss := strings.Split(parts[3], "^")
	cfg.Loss = LossApproach(loss[0])
	switch cfg.Loss {
	case LossVaR, LossES:
		if len(loss) != 3 {
			return RunConfig{}, fmt.Errorf("risk: run config %q: %s wants loss^n_day^percentile", s, loss[0])
		}
		n, err := strconv.Atoi(loss[1])
		if err != nil || n < 1 {
			return RunConfig{}, fmt.Errorf("risk: run config %q: bad horizon %q", s, loss[1])
		}
		pct, err := strconv.ParseFloat(loss[2], 64)
		if err != nil {
			return RunConfig{}, fmt.Errorf("risk: run config %q: bad percentile %q", s, loss[2])
		}
		cfg.HorizonDays = n
		cfg.Percentile = pct / 100
		if cfg.Percentile <= 0 || cfg.Percentile >= 1 {
			return RunConfig{}, fmt.Errorf("risk: run config %q: percentile must be in (0,100) exclusive", s)
		}
	default:
		return RunConfig{}, fmt.Errorf("risk: run config %q: unknown loss approach %q", s, loss[0])
	}

	return cfg, nil
}

// ParseRunConfigs decodes every encoded configuration, failing on the first
// malformed entry.
func ParseRunConfigs(encoded []string) ([]RunConfig, error) {
	out := make([]RunConfig, 0, len(encoded))
	for _, s := range encoded {
		cfg, err := ParseRunConfig(s)
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	return out, nil
}

// ModelKey is the human-readable configuration label used to key PnL-vector
// reports, e.g. "10-Day 99% expected_shortfall".
func (c RunConfig) ModelKey() string {
	return fmt.Sprintf("%d-Day %d%% %s", c.HorizonDays, int(c.Percentile*100), c.Loss)
}

// ModelSelection renders the valuation^pricing pair for the risk summary.
func (c RunConfig) ModelSelection() string {
	return string(c.Valuation) + "^" + string(c.Pricing)
}

// ModelParameter renders the loss^n^percentile triple for the risk summary.
func (c RunConfig) ModelParameter() string {
	return fmt.Sprintf("%s^%d^%d", c.Loss, c.HorizonDays, int(c.Percentile*100))
}
