package scenario

import (
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/meenmo/quantrisk/bond"
	"github.com/meenmo/quantrisk/curve"
	"github.com/meenmo/quantrisk/utils"
)

// fakeStore serves canned curve histories keyed by curve name.
type fakeStore struct {
	series map[string][]curve.Observation
}

func (f *fakeStore) Series(name string, tenor *float64, start, end time.Time) ([]curve.Observation, error) {
	obs, ok := f.series[name]
	if !ok {
		return nil, &curve.MissingCurveError{Curve: name, Reason: "not in fake store"}
	}
	var out []curve.Observation
	for _, o := range obs {
		if o.Date.Before(start) || o.Date.After(end) {
			continue
		}
		if tenor != nil && o.Tenor != *tenor {
			continue
		}
		out = append(out, o)
	}
	if len(out) == 0 {
		return nil, &curve.MissingCurveError{Curve: name, Reason: "empty range"}
	}
	return out, nil
}

func tsObs(name string, tenor float64, yields map[string]float64) []curve.Observation {
	var out []curve.Observation
	for d, y := range yields {
		out = append(out, curve.Observation{Curve: name, Date: utils.MustParseDate(d), Tenor: tenor, Yield: y})
	}
	return out
}

func testEngine() *Engine {
	st := &fakeStore{series: map[string][]curve.Observation{
		"US Treasury": tsObs("US Treasury", 120, map[string]float64{
			"2023-08-10": 0.040, "2023-08-11": 0.041, "2023-08-14": 0.043, "2023-08-15": 0.042,
		}),
		"Apple 2045": tsObs("Apple 2045", 264, map[string]float64{
			"2023-08-10": 0.050, "2023-08-11": 0.052, "2023-08-14": 0.051, "2023-08-15": 0.053,
		}),
	}}
	mappings, err := ParseMappings("912828XX1^US Treasury^120|037833BA7^Apple 2045^long")
	if err != nil {
		panic(err)
	}
	return NewEngine(st, mappings, zap.NewNop().Sugar())
}

func TestYieldSeriesJoinsOnDate(t *testing.T) {
	t.Parallel()

	e := testEngine()
	f, err := e.YieldSeries([]string{"912828XX1", "037833BA7"}, utils.MustParseDate("2023-08-10"), utils.MustParseDate("2023-08-15"))
	if err != nil {
		t.Fatalf("YieldSeries: %v", err)
	}
	if !reflect.DeepEqual(f.Columns(), []string{"912828XX1", "037833BA7"}) {
		t.Errorf("columns = %v", f.Columns())
	}
	if f.Len() != 4 {
		t.Errorf("rows = %d, want 4", f.Len())
	}
}

func TestYieldSeriesSkipsUnmappedAndMissing(t *testing.T) {
	t.Parallel()

	e := testEngine()
	// One unmapped CUSIP and one whose curve the store cannot serve.
	e.mappings["931142DP5"] = CurveMapping{CurveName: "Walmart 2047", TenorLabel: "long"}

	f, err := e.YieldSeries([]string{"912828XX1", "UNMAPPED1", "931142DP5"}, utils.MustParseDate("2023-08-10"), utils.MustParseDate("2023-08-15"))
	if err != nil {
		t.Fatalf("YieldSeries: %v", err)
	}
	if !reflect.DeepEqual(f.Columns(), []string{"912828XX1"}) {
		t.Errorf("columns = %v, want only the treasury instrument", f.Columns())
	}
}

func TestYieldSeriesAllMissing(t *testing.T) {
	t.Parallel()

	e := testEngine()
	_, err := e.YieldSeries([]string{"UNMAPPED1"}, utils.MustParseDate("2023-08-10"), utils.MustParseDate("2023-08-15"))
	if err == nil {
		t.Fatal("want error when no instrument has a usable curve")
	}
}

func TestHistoricalChanges(t *testing.T) {
	t.Parallel()

	e := testEngine()
	yields, err := e.YieldSeries([]string{"912828XX1"}, utils.MustParseDate("2023-08-10"), utils.MustParseDate("2023-08-15"))
	if err != nil {
		t.Fatalf("YieldSeries: %v", err)
	}

	changes := e.HistoricalChanges(yields, 1)
	col, _ := changes.Col("912828XX1")
	want := []float64{0.001, 0.002, -0.001}
	if len(col) != len(want) {
		t.Fatalf("changes = %v", col)
	}
	for i := range want {
		if math.Abs(col[i]-want[i]) > 1e-12 {
			t.Errorf("change[%d] = %v, want %v", i, col[i], want[i])
		}
	}
}

func TestMonteCarloChangesReproducibleAndScaled(t *testing.T) {
	t.Parallel()

	e := testEngine()
	asOf := utils.MustParseDate("2023-08-15")
	yields, err := e.YieldSeries([]string{"912828XX1", "037833BA7"}, utils.MustParseDate("2023-08-10"), asOf)
	if err != nil {
		t.Fatalf("YieldSeries: %v", err)
	}

	a, err := e.MonteCarloChanges(yields, asOf, 1, 500, 42)
	if err != nil {
		t.Fatalf("MonteCarloChanges: %v", err)
	}
	b, err := e.MonteCarloChanges(yields, asOf, 1, 500, 42)
	if err != nil {
		t.Fatalf("MonteCarloChanges: %v", err)
	}
	if a.Len() != 500 {
		t.Fatalf("paths = %d, want 500", a.Len())
	}
	if !reflect.DeepEqual(a.Data(), b.Data()) {
		t.Error("same seed must reproduce the same simulated changes")
	}

	c, err := e.MonteCarloChanges(yields, asOf, 1, 500, 7)
	if err != nil {
		t.Fatalf("MonteCarloChanges: %v", err)
	}
	if reflect.DeepEqual(a.Data(), c.Data()) {
		t.Error("different seeds should not reproduce identical draws")
	}
}

func TestMonteCarloChangesRequiresAsOfRow(t *testing.T) {
	t.Parallel()

	e := testEngine()
	yields, err := e.YieldSeries([]string{"912828XX1"}, utils.MustParseDate("2023-08-10"), utils.MustParseDate("2023-08-15"))
	if err != nil {
		t.Fatalf("YieldSeries: %v", err)
	}
	_, err = e.MonteCarloChanges(yields, utils.MustParseDate("2023-09-01"), 1, 10, 1)
	if err == nil {
		t.Fatal("want error when as-of date is absent from the series")
	}
}

func TestParseMappings(t *testing.T) {
	t.Parallel()

	m, err := ParseMappings("912828XX1^US Treasury^120|037833BA7^Apple 2045^long")
	if err != nil {
		t.Fatalf("ParseMappings: %v", err)
	}
	ust := m["912828XX1"]
	if ust.TenorMonths == nil || *ust.TenorMonths != 120 {
		t.Errorf("treasury mapping tenor = %v, want 120 months", ust.TenorMonths)
	}
	apple := m["037833BA7"]
	if apple.TenorMonths != nil || apple.TenorLabel != "long" {
		t.Errorf("corporate mapping = %+v, want opaque tenor label", apple)
	}

	for _, bad := range []string{
		"",
		"912828XX1^US Treasury",
		"912828XX1^US Treasury^ten",
		"912828XX1^^120",
		"912828XX1^US Treasury^120|912828XX1^US Treasury^60",
	} {
		if _, err := ParseMappings(bad); err == nil {
			t.Errorf("ParseMappings(%q) should fail", bad)
		}
	}
}

func TestStressPnL(t *testing.T) {
	t.Parallel()

	inst := bond.Instrument{CUSIP: "912828XX1", FaceValue: 100, LastPrice: 100, Quantity: 1000}
	schedule := []bond.Cashflow{
		{Coupon: 2.5, TimeYears: 0.5, ZeroRate: 0.05},
		{Coupon: 2.5, TimeYears: 1.0, ZeroRate: 0.05},
		{Principal: 100, TimeYears: 1.0, ZeroRate: 0.05},
	}

	for _, sc := range StressScenarios {
		pnl, err := StressPnL(sc, inst, schedule)
		if err != nil {
			t.Fatalf("StressPnL(%s): %v", sc.Key, err)
		}
		if pnl >= 0 {
			t.Errorf("%s: upward rate shock on a long position should lose money, got %v", sc.Key, pnl)
		}
	}
	if fmt.Sprint(StressScenarios[0].Key) == "" {
		t.Error("scenario keys must be set")
	}
}
