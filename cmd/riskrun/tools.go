package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/meenmo/quantrisk/logging"
	"github.com/meenmo/quantrisk/report"
	"github.com/meenmo/quantrisk/store"
	"github.com/meenmo/quantrisk/utils"
)

var initdbCmd = &cobra.Command{
	Use:   "initdb",
	Short: "Load the raw curve CSV into the configured curve store",
	RunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(cfg.Environment)
		defer logging.Sync()
		log := logging.Get()

		st, err := store.Open(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.Table)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.InitFromCSV(cfg.Database.RawCurveData); err != nil {
			return err
		}
		log.Infow("curve store initialized",
			"driver", cfg.Database.Driver, "table", cfg.Database.Table, "source", cfg.Database.RawCurveData)
		return nil
	},
}

var (
	fetchCurve string
	fetchTenor float64
	fetchStart string
	fetchEnd   string
	fetchOut   string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Export a stored curve history as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := utils.ParseDate(fetchStart)
		if err != nil {
			return fmt.Errorf("bad --start: %w", err)
		}
		end, err := utils.ParseDate(fetchEnd)
		if err != nil {
			return fmt.Errorf("bad --end: %w", err)
		}

		st, err := store.Open(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.Table)
		if err != nil {
			return err
		}
		defer st.Close()

		var tenor *float64
		if cmd.Flags().Changed("tenor") {
			tenor = &fetchTenor
		}
		obs, err := st.Series(fetchCurve, tenor, start, end)
		if err != nil {
			return err
		}

		f, err := os.Create(fetchOut)
		if err != nil {
			return err
		}
		defer f.Close()

		w := csv.NewWriter(f)
		if err := w.Write([]string{"instrument", "date", "tenor", "yield_to_maturity"}); err != nil {
			return err
		}
		for _, o := range obs {
			rec := []string{
				o.Curve,
				utils.FormatDate(o.Date),
				strconv.FormatFloat(o.Tenor, 'f', -1, 64),
				strconv.FormatFloat(o.Yield, 'f', -1, 64),
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
		w.Flush()
		return w.Error()
	},
}

var (
	optDir       string
	optMetric    string
	optScenario  string
	optSelection string
	optParameter string
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Compare risk summaries across runs and report the worst case",
	Long: `optimize pools every risk_summary_*.csv under the output directory,
filters by model family, and reports the run with the lowest (most
conservative) PnL figure.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := optDir
		if dir == "" {
			dir = cfg.Reports.OutputDir
		}
		rows, err := report.CollectSummaries(dir)
		if err != nil {
			return err
		}
		worst, err := report.WorstCase(rows, report.Filter{
			RiskMetric:       optMetric,
			ScenarioApproach: optScenario,
			ModelSelection:   optSelection,
			ModelParameter:   optParameter,
		})
		if err != nil {
			return err
		}
		fmt.Printf("worst case: %s\n", worst.Source)
		fmt.Printf("  metric:    %s\n", worst.RiskMetric)
		fmt.Printf("  scenario:  %s\n", worst.ScenarioApproach)
		fmt.Printf("  selection: %s\n", worst.ModelSelection)
		fmt.Printf("  parameter: %s\n", worst.ModelParameter)
		fmt.Printf("  pnl:       %.2f\n", worst.PnL)
		return nil
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchCurve, "curve", "US Treasury", "curve name to export")
	fetchCmd.Flags().Float64Var(&fetchTenor, "tenor", 0, "tenor in months (all tenors when omitted)")
	fetchCmd.Flags().StringVar(&fetchStart, "start", "", "start date (YYYY-MM-DD)")
	fetchCmd.Flags().StringVar(&fetchEnd, "end", "", "end date (YYYY-MM-DD)")
	fetchCmd.Flags().StringVar(&fetchOut, "out", "curve_export.csv", "output CSV path")
	_ = fetchCmd.MarkFlagRequired("start")
	_ = fetchCmd.MarkFlagRequired("end")

	optimizeCmd.Flags().StringVar(&optDir, "dir", "", "summary directory (default: reports.output_dir)")
	optimizeCmd.Flags().StringVar(&optMetric, "metric", "", "filter by risk metric")
	optimizeCmd.Flags().StringVar(&optScenario, "scenario", "", "filter by scenario approach")
	optimizeCmd.Flags().StringVar(&optSelection, "selection", "", "filter by model selection")
	optimizeCmd.Flags().StringVar(&optParameter, "parameter", "", "filter by model parameter")
}
