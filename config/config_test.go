package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validYAML = `
environment: test

run_setup:
  as_of_date: "2023-08-15"

portfolio:
  instrument_data_path: ./data/instruments.csv
  weightage_approach: random_weight
  total_fund: 500000
  yield_change_start_date: "2021-08-16"

database:
  driver: sqlite3
  dsn: ":memory:"
  table: yield_curves

risk_engine:
  instrument_curve_mapping: "912828XX1^US Treasury^24"
  number_of_paths: 500
  seed: 42
  run_configs:
    - "var|historical|sensitivity_approximation^ytm|var_type^1^95"

reports:
  output_dir: ./out
  risk_summary_report: risk_summary_YYYYMMDD1_YYYYMMDD2.csv
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Environment != "test" {
		t.Errorf("got environment %q", cfg.Environment)
	}
	if cfg.RunSetup.AsOfDate != "2023-08-15" {
		t.Errorf("got as_of_date %q", cfg.RunSetup.AsOfDate)
	}
	if cfg.Portfolio.WeightageApproach != "random_weight" || cfg.Portfolio.TotalFund != 500000 {
		t.Errorf("portfolio section mangled: %+v", cfg.Portfolio)
	}
	if cfg.RiskEngine.Seed != 42 || cfg.RiskEngine.NumberOfPaths != 500 {
		t.Errorf("risk engine section mangled: %+v", cfg.RiskEngine)
	}
	if len(cfg.RiskEngine.RunConfigs) != 1 {
		t.Fatalf("got %d run configs, want 1", len(cfg.RiskEngine.RunConfigs))
	}
}

func TestLoadDefaults(t *testing.T) {
	minimal := `
run_setup:
  as_of_date: "2023-08-15"
portfolio:
  total_fund: 1
`
	cfg, err := Load(writeConfig(t, minimal))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Database.Driver != "sqlite3" || cfg.Database.Table != "yield_curves" {
		t.Errorf("database defaults not applied: %+v", cfg.Database)
	}
	if cfg.Portfolio.WeightageApproach != "equal_weight" {
		t.Errorf("got weightage default %q", cfg.Portfolio.WeightageApproach)
	}
	if cfg.RiskEngine.NumberOfPaths != 10000 || cfg.RiskEngine.Seed != 1 {
		t.Errorf("risk engine defaults not applied: %+v", cfg.RiskEngine)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "bad as-of date",
			yaml: strings.Replace(validYAML, `as_of_date: "2023-08-15"`, `as_of_date: "15/08/2023"`, 1),
			want: "as_of_date",
		},
		{
			name: "bad weightage",
			yaml: strings.Replace(validYAML, "random_weight", "cap_weight", 1),
			want: "weightage_approach",
		},
		{
			name: "zero fund",
			yaml: strings.Replace(validYAML, "total_fund: 500000", "total_fund: 0", 1),
			want: "total_fund",
		},
		{
			name: "zero paths",
			yaml: strings.Replace(validYAML, "number_of_paths: 500", "number_of_paths: 0", 1),
			want: "number_of_paths",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("got %v, want error mentioning %q", err, tc.want)
			}
		})
	}
}
