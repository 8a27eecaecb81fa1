// Package config loads the engine configuration from a YAML file with
// environment variable overrides. The loaded value is immutable and passed
// explicitly to the components that need it.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/meenmo/quantrisk/utils"
)

// Config is the complete run configuration.
type Config struct {
	Environment string          `mapstructure:"environment"`
	RunSetup    RunSetupConfig  `mapstructure:"run_setup"`
	Portfolio   PortfolioConfig `mapstructure:"portfolio"`
	Database    DatabaseConfig  `mapstructure:"database"`
	RiskEngine  RiskConfig      `mapstructure:"risk_engine"`
	Reports     ReportConfig    `mapstructure:"reports"`
}

// RunSetupConfig pins the valuation date of the batch run.
type RunSetupConfig struct {
	AsOfDate string `mapstructure:"as_of_date"`
}

// PortfolioConfig drives instrument loading and weight allocation.
type PortfolioConfig struct {
	InstrumentDataPath   string  `mapstructure:"instrument_data_path"`
	WeightageApproach    string  `mapstructure:"weightage_approach"` // equal_weight | random_weight
	TotalFund            float64 `mapstructure:"total_fund"`
	YieldChangeStartDate string  `mapstructure:"yield_change_start_date"`
}

// DatabaseConfig selects the curve store backend.
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // sqlite3 | postgres
	DSN          string `mapstructure:"dsn"`
	Table        string `mapstructure:"table"`
	RawCurveData string `mapstructure:"raw_curve_data"`
}

// RiskConfig holds the scenario engine and risk metric parameters.
type RiskConfig struct {
	// InstrumentCurveMapping is a pipe-delimited list of
	// CUSIP^CurveName^Tenor triples.
	InstrumentCurveMapping string `mapstructure:"instrument_curve_mapping"`
	NumberOfPaths          int    `mapstructure:"number_of_paths"`
	Seed                   int64  `mapstructure:"seed"`
	// RunConfigs are encoded model configurations, e.g.
	// "var|historical|full_revaluation^ytm|var_type^1^95". They are parsed
	// once at startup; malformed entries are fatal.
	RunConfigs []string `mapstructure:"run_configs"`
}

// ReportConfig names the CSV outputs. Paths may contain YYYYMMDD1/YYYYMMDD2
// placeholders substituted with the report's start and as-of dates.
type ReportConfig struct {
	OutputDir             string `mapstructure:"output_dir"`
	PortfolioDailyYield   string `mapstructure:"portfolio_daily_yield_report"`
	CashflowReport        string `mapstructure:"cashflow_report"`
	RiskSummaryReport     string `mapstructure:"risk_summary_report"`
	ScenarioLossPnLVector string `mapstructure:"scenario_loss_pnl_vector"`
}

// Load reads the config file at path (default ./config.yaml) and applies
// QUANTRISK_* environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	v.SetEnvPrefix("QUANTRISK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("environment", "development")
	v.SetDefault("portfolio.weightage_approach", "equal_weight")
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.table", "yield_curves")
	v.SetDefault("risk_engine.number_of_paths", 10000)
	v.SetDefault("risk_engine.seed", 1)
	v.SetDefault("reports.output_dir", "./output")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if _, err := utils.ParseDate(c.RunSetup.AsOfDate); err != nil {
		return fmt.Errorf("config: run_setup.as_of_date: %w", err)
	}
	if c.Portfolio.YieldChangeStartDate != "" {
		if _, err := utils.ParseDate(c.Portfolio.YieldChangeStartDate); err != nil {
			return fmt.Errorf("config: portfolio.yield_change_start_date: %w", err)
		}
	}
	switch c.Portfolio.WeightageApproach {
	case "equal_weight", "random_weight":
	default:
		return fmt.Errorf("config: unknown weightage_approach %q", c.Portfolio.WeightageApproach)
	}
	if c.Portfolio.TotalFund <= 0 {
		return fmt.Errorf("config: portfolio.total_fund must be positive")
	}
	if c.RiskEngine.NumberOfPaths <= 0 {
		return fmt.Errorf("config: risk_engine.number_of_paths must be positive")
	}
	return nil
}
