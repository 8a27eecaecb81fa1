package bond

import (
	"errors"
	"math"
	"testing"

	"github.com/meenmo/quantrisk/utils"
)

// twoYearParBond is the reference case from the pricing scenario: a 2-year,
// 5% semiannual coupon, $100 face bond.
func twoYearParBond() Instrument {
	return Instrument{
		CUSIP:           "912828XX1",
		Issuer:          "US Treasury",
		FaceValue:       100,
		CouponRate:      0.05,
		CouponFrequency: 2,
		NextCouponDate:  utils.MustParseDate("2024-02-15"),
		MaturityDate:    utils.MustParseDate("2025-08-15"),
		YearsToMaturity: 2.0,
	}
}

func TestPriceFromYieldParScenario(t *testing.T) {
	t.Parallel()

	// A bond priced at a flat yield equal to its coupon trades at par.
	price := PriceFromYield(twoYearParBond(), 0.05)
	if math.Abs(price-100.0) > 1e-6 {
		t.Errorf("par price = %.10f, want 100.00", price)
	}
}

func TestPriceFromYieldMonotonicity(t *testing.T) {
	t.Parallel()

	inst := twoYearParBond()
	inst.YearsToMaturity = 10

	prev := math.Inf(1)
	for y := 0.001; y <= 0.20; y += 0.001 {
		price := PriceFromYield(inst, y)
		if price >= prev {
			t.Fatalf("price not strictly decreasing at y=%.3f: %v >= %v", y, price, prev)
		}
		prev = price
	}
}

func TestYieldFromPriceRoundTrip(t *testing.T) {
	t.Parallel()

	inst := twoYearParBond()
	inst.YearsToMaturity = 7.5

	for _, y := range []float64{0.001, 0.0125, 0.05, 0.0999, 0.20} {
		inst.LastPrice = PriceFromYield(inst, y)
		got, err := YieldFromPrice(inst)
		if err != nil {
			t.Fatalf("YieldFromPrice(y=%v): %v", y, err)
		}
		if math.Abs(got-y) > 1e-8 {
			t.Errorf("round trip y=%v: got %v (diff %g)", y, got, math.Abs(got-y))
		}
	}
}

func TestYieldFromPriceConvergenceError(t *testing.T) {
	t.Parallel()

	// Zero remaining periods makes the price insensitive to the yield, so
	// the Newton derivative is exactly zero.
	inst := twoYearParBond()
	inst.YearsToMaturity = 0
	inst.LastPrice = 50

	_, err := YieldFromPrice(inst)
	var convErr *ConvergenceError
	if !errors.As(err, &convErr) {
		t.Fatalf("got %v, want ConvergenceError", err)
	}
}

func TestPriceFromZeroCurve(t *testing.T) {
	t.Parallel()

	inst := twoYearParBond()
	schedule := []Cashflow{
		{Coupon: 2.5, TimeYears: 0.5, ZeroRate: 0.05},
		{Coupon: 2.5, TimeYears: 1.0, ZeroRate: 0.05},
		{Coupon: 2.5, TimeYears: 1.5, ZeroRate: 0.05},
		{Coupon: 2.5, TimeYears: 2.0, ZeroRate: 0.05},
		{Principal: 100, TimeYears: 2.0, ZeroRate: 0.05},
	}

	base, err := PriceFromZeroCurve(inst, schedule, 0)
	if err != nil {
		t.Fatalf("PriceFromZeroCurve: %v", err)
	}
	shocked, err := PriceFromZeroCurve(inst, schedule, 0.03)
	if err != nil {
		t.Fatalf("PriceFromZeroCurve shifted: %v", err)
	}
	if shocked >= base {
		t.Errorf("upward shock should lower price: base=%v shocked=%v", base, shocked)
	}

	_, err = PriceFromZeroCurve(inst, nil, 0)
	if err == nil {
		t.Error("empty schedule should error")
	}
}
