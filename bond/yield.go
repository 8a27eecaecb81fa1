package bond

import "math"

const (
	yieldTolerance = 1e-10
	yieldMaxIter   = 1000
	derivThreshold = 1e-14
)

// YieldFromPrice solves PriceFromYield(inst, y) = inst.LastPrice for y via
// Newton-Raphson with the annual coupon rate as the initial guess.
//
// It fails with a ConvergenceError if the derivative becomes numerically
// zero or the iteration cap is reached.
func YieldFromPrice(inst Instrument) (float64, error) {
	y := inst.CouponRate

	for iter := 0; iter < yieldMaxIter; iter++ {
		price, dPdy := priceAndDeriv(inst, y)
		f := price - inst.LastPrice

		if math.Abs(f) < yieldTolerance {
			return y, nil
		}
		if math.Abs(dPdy) < derivThreshold {
			return 0, &ConvergenceError{CUSIP: inst.CUSIP, Iterations: iter, Reason: "derivative numerically zero"}
		}
		y -= f / dPdy
	}

	return 0, &ConvergenceError{CUSIP: inst.CUSIP, Iterations: yieldMaxIter, Reason: "did not converge"}
}
