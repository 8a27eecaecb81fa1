package bond

import (
	"errors"
	"math"
	"testing"
)

func TestSensitivitiesPlainVanilla(t *testing.T) {
	t.Parallel()

	inst := twoYearParBond()
	inst.YearsToMaturity = 10
	inst.LastYield = 0.05
	inst.LastPrice = PriceFromYield(inst, inst.LastYield)

	s, err := Sensitivities(inst, DefaultBump)
	if err != nil {
		t.Fatalf("Sensitivities: %v", err)
	}

	if s.ModifiedDuration <= 0 {
		t.Errorf("modified duration = %v, want positive", s.ModifiedDuration)
	}
	if s.Convexity <= 0 {
		t.Errorf("convexity = %v, want positive", s.Convexity)
	}

	wantDV01 := s.ModifiedDuration * 0.0001 * inst.LastPrice
	if math.Abs(s.DV01-wantDV01) > 1e-12 {
		t.Errorf("dv01 = %v, want %v", s.DV01, wantDV01)
	}

	// A 10y bond carries more duration than a 2y bond.
	short := twoYearParBond()
	short.LastYield = 0.05
	short.LastPrice = PriceFromYield(short, short.LastYield)
	ss, err := Sensitivities(short, DefaultBump)
	if err != nil {
		t.Fatalf("Sensitivities short: %v", err)
	}
	if ss.ModifiedDuration >= s.ModifiedDuration {
		t.Errorf("2y duration %v should be below 10y duration %v", ss.ModifiedDuration, s.ModifiedDuration)
	}
}

func TestSensitivitiesMatchBumpAndReprice(t *testing.T) {
	t.Parallel()

	inst := twoYearParBond()
	inst.LastYield = 0.04
	inst.LastPrice = PriceFromYield(inst, inst.LastYield)

	const dy = 0.005
	s, err := Sensitivities(inst, dy)
	if err != nil {
		t.Fatalf("Sensitivities: %v", err)
	}

	pMinus := PriceFromYield(inst, inst.LastYield-dy)
	pPlus := PriceFromYield(inst, inst.LastYield+dy)
	wantDuration := (pMinus - pPlus) / (2 * inst.LastPrice * dy)
	wantConvexity := (pMinus + pPlus - 2*inst.LastPrice) / (inst.LastPrice * dy * dy)

	if math.Abs(s.ModifiedDuration-wantDuration) > 1e-12 {
		t.Errorf("duration = %v, want %v", s.ModifiedDuration, wantDuration)
	}
	if math.Abs(s.Convexity-wantConvexity) > 1e-12 {
		t.Errorf("convexity = %v, want %v", s.Convexity, wantConvexity)
	}
}

func TestSensitivitiesDomainError(t *testing.T) {
	t.Parallel()

	for _, price := range []float64{0, -12.5} {
		inst := twoYearParBond()
		inst.LastPrice = price
		inst.LastYield = 0.05

		_, err := Sensitivities(inst, DefaultBump)
		var domErr *DomainError
		if !errors.As(err, &domErr) {
			t.Errorf("price=%v: got %v, want DomainError", price, err)
		}
	}
}
