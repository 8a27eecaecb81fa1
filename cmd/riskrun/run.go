package main

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meenmo/quantrisk/bond"
	"github.com/meenmo/quantrisk/curve"
	"github.com/meenmo/quantrisk/frame"
	"github.com/meenmo/quantrisk/logging"
	"github.com/meenmo/quantrisk/portfolio"
	"github.com/meenmo/quantrisk/report"
	"github.com/meenmo/quantrisk/risk"
	"github.com/meenmo/quantrisk/scenario"
	"github.com/meenmo/quantrisk/store"
	"github.com/meenmo/quantrisk/utils"
)

// lookbackYears is the default yield history window when
// portfolio.yield_change_start_date is not configured.
const lookbackYears = 2

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full valuation and risk pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(cfg.Environment)
		defer logging.Sync()
		return executeRun(logging.Get())
	},
}

func executeRun(log *zap.SugaredLogger) error {
	runID := uuid.NewString()
	asOf := utils.MustParseDate(cfg.RunSetup.AsOfDate)
	start := utils.YearsPrior(asOf, lookbackYears)
	if cfg.Portfolio.YieldChangeStartDate != "" {
		start = utils.MustParseDate(cfg.Portfolio.YieldChangeStartDate)
	}
	log.Infow("starting risk run", "run_id", runID, "as_of", utils.FormatDate(asOf), "start", utils.FormatDate(start))

	// Malformed model configurations and curve mappings abort the run
	// before any data is touched.
	runCfgs, err := risk.ParseRunConfigs(cfg.RiskEngine.RunConfigs)
	if err != nil {
		return err
	}
	mappings, err := scenario.ParseMappings(cfg.RiskEngine.InstrumentCurveMapping)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.Table)
	if err != nil {
		return err
	}
	defer st.Close()

	book, err := buildBook(log, asOf)
	if err != nil {
		return err
	}

	schedules, err := projectSchedules(log, st, book, asOf)
	if err != nil {
		return err
	}

	eng := scenario.NewEngine(st, mappings, log)
	cusips := make([]string, len(book))
	for i, inst := range book {
		cusips[i] = inst.CUSIP
	}
	yields, err := eng.YieldSeries(cusips, start, asOf)
	if err != nil {
		return err
	}

	valuation, err := portfolio.FullRevaluation(eng, book, start, asOf)
	if err != nil {
		return err
	}

	var (
		summary    []report.SummaryRow
		vectors    = make(map[string]*frame.Frame)
		stressDone bool
	)
	for _, rc := range runCfgs {
		if rc.Metric == risk.MetricStressTest {
			if stressDone {
				continue
			}
			rows, err := runStress(log, book, schedules)
			if err != nil {
				return err
			}
			summary = append(summary, rows...)
			stressDone = true
			continue
		}

		pnl, err := buildPnLTable(log, rc, eng, yields, book, valuation, asOf)
		if err != nil {
			return err
		}
		res, err := risk.NewTailLoss(rc, log).CalculateLoss(pnl)
		if err != nil {
			return err
		}
		summary = append(summary, report.SummaryFromResult(res))
		vectors[rc.ModelKey()] = pnl
	}

	if err := writeReports(log, summary, vectors, schedules, valuation, start, asOf); err != nil {
		return err
	}
	log.Infow("risk run complete", "run_id", runID, "models", len(runCfgs), "instruments", len(book))
	return nil
}

func buildBook(log *zap.SugaredLogger, asOf time.Time) ([]bond.Instrument, error) {
	instruments, err := portfolio.LoadCSV(cfg.Portfolio.InstrumentDataPath)
	if err != nil {
		return nil, err
	}
	mgr, err := portfolio.NewManager(instruments, asOf,
		cfg.Portfolio.WeightageApproach, cfg.Portfolio.TotalFund, cfg.RiskEngine.Seed, log)
	if err != nil {
		return nil, err
	}
	book, err := mgr.Build()
	if err != nil {
		return nil, err
	}
	book, failures := mgr.EnrichAnalytics(book, bond.DefaultBump)
	if len(failures) > 0 {
		log.Warnw("book enrichment degraded", "failures", len(failures))
	}
	if len(book) == 0 {
		return nil, errors.New("no usable instruments after enrichment")
	}
	return book, nil
}

// projectSchedules builds each instrument's cashflow schedule off the as-of
// treasury snapshot. Instruments whose cashflows fall outside the curve
// domain keep their market risk treatment but are excluded from zero-curve
// revaluation.
func projectSchedules(log *zap.SugaredLogger, st *store.Store, book []bond.Instrument, asOf time.Time) (map[string][]bond.Cashflow, error) {
	snap, err := st.Snapshot(scenario.TreasuryCurveName, asOf)
	if err != nil {
		return nil, err
	}

	schedules := make(map[string][]bond.Cashflow, len(book))
	for _, inst := range book {
		sched, err := bond.ProjectCashflows(inst, asOf, snap)
		if err != nil {
			var missing *curve.MissingCurveError
			if errors.As(err, &missing) {
				log.Warnw("cashflow projection skipped", "cusip", inst.CUSIP, "error", err)
				continue
			}
			return nil, err
		}
		schedules[inst.CUSIP] = sched
	}
	return schedules, nil
}

// buildPnLTable turns one model configuration into a PnL-vector table. The
// full-revaluation valuation applies to historical scenarios; Monte Carlo
// paths have no date axis to revalue on, so they always go through the
// sensitivity approximation.
func buildPnLTable(log *zap.SugaredLogger, rc risk.RunConfig, eng *scenario.Engine,
	yields *frame.Frame, book []bond.Instrument, valuation *portfolio.Valuation, asOf time.Time) (*frame.Frame, error) {

	if rc.Scenario == risk.ScenarioMonteCarlo {
		if rc.Valuation == risk.ValuationFullReval {
			log.Warnw("monte carlo paths cannot be fully revalued, using sensitivity approximation", "model", rc.ModelKey())
		}
		changes, err := eng.MonteCarloChanges(yields, asOf, rc.HorizonDays, cfg.RiskEngine.NumberOfPaths, cfg.RiskEngine.Seed)
		if err != nil {
			return nil, err
		}
		return risk.PnLFromChanges(changes, book)
	}

	if rc.Valuation == risk.ValuationFullReval {
		return valuation.PnL, nil
	}
	return risk.PnLFromChanges(eng.HistoricalChanges(yields, rc.HorizonDays), book)
}

func runStress(log *zap.SugaredLogger, book []bond.Instrument, schedules map[string][]bond.Cashflow) ([]report.SummaryRow, error) {
	rows := make([]report.SummaryRow, 0, len(scenario.StressScenarios))
	for _, sc := range scenario.StressScenarios {
		var total float64
		for _, inst := range book {
			sched, ok := schedules[inst.CUSIP]
			if !ok {
				continue
			}
			pnl, err := scenario.StressPnL(sc, inst, sched)
			if err != nil {
				return nil, err
			}
			total += pnl
		}
		log.Infow("stress scenario computed", "scenario", sc.Key, "pnl", total)
		rows = append(rows, report.SummaryFromStress(sc.Key, total))
	}
	return rows, nil
}

func writeReports(log *zap.SugaredLogger, summary []report.SummaryRow, vectors map[string]*frame.Frame,
	schedules map[string][]bond.Cashflow, valuation *portfolio.Valuation, start, asOf time.Time) error {

	out := func(template string) string {
		return filepath.Join(cfg.Reports.OutputDir, report.ResolvePath(template, start, asOf))
	}

	if cfg.Reports.RiskSummaryReport != "" {
		path := out(cfg.Reports.RiskSummaryReport)
		if err := report.WriteRiskSummary(path, summary); err != nil {
			return err
		}
		log.Infow("risk summary written", "path", path)
	}
	if cfg.Reports.ScenarioLossPnLVector != "" && len(vectors) > 0 {
		path := out(cfg.Reports.ScenarioLossPnLVector)
		if err := report.WritePnLVectors(path, vectors); err != nil {
			return err
		}
		log.Infow("pnl vectors written", "path", path)
	}
	if cfg.Reports.CashflowReport != "" {
		path := out(cfg.Reports.CashflowReport)
		if err := report.WriteCashflows(path, schedules); err != nil {
			return err
		}
		log.Infow("cashflow report written", "path", path)
	}
	if cfg.Reports.PortfolioDailyYield != "" {
		path := out(cfg.Reports.PortfolioDailyYield)
		if err := report.WriteFrame(path, "date", valuation.Values); err != nil {
			return err
		}
		if err := report.WriteYieldSummary(summaryTextPath(path), valuation.Values, portfolio.PortfolioValueColumn); err != nil {
			// The text digest needs at least two monthly samples; a short
			// history is not worth failing the run over.
			log.Warnw("yield summary skipped", "error", err)
		}
		log.Infow("portfolio yield report written", "path", path)
	}
	return nil
}

func summaryTextPath(csvPath string) string {
	ext := filepath.Ext(csvPath)
	return csvPath[:len(csvPath)-len(ext)] + "_summary.txt"
}
