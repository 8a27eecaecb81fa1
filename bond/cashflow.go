package bond

import (
	"errors"
	"fmt"
	"time"

	"github.com/meenmo/quantrisk/curve"
	"github.com/meenmo/quantrisk/utils"
)

// ProjectCashflows builds the bond's future cashflow schedule as of the
// valuation date and attaches a discount rate to each cashflow from the
// curve snapshot.
//
// Starting at NextCouponDate, one coupon of CouponRate·FaceValue/Frequency
// is emitted every 12/Frequency months up to and including MaturityDate,
// followed by the FaceValue redemption dated at maturity. The schedule is
// regenerated on every valuation and ordered ascending by date.
//
// The frequency must be a positive divisor of 12; anything else cannot be
// expressed as a whole-month step and is rejected. It fails with a
// MissingCurveError when any cashflow time falls outside the snapshot's
// interpolation domain.
func ProjectCashflows(inst Instrument, asOf time.Time, snap curve.Snapshot) ([]Cashflow, error) {
	if inst.CouponFrequency <= 0 {
		return nil, fmt.Errorf("ProjectCashflows: %s: coupon frequency must be a positive integer, got %d", inst.CUSIP, inst.CouponFrequency)
	}
	// The schedule steps in whole months, so the frequency must divide the
	// 12-month coupon cycle; anything else would truncate the step (to zero
	// for frequencies above 12, stalling the schedule loop).
	if 12%inst.CouponFrequency != 0 {
		return nil, fmt.Errorf("ProjectCashflows: %s: coupon frequency %d does not divide the 12-month coupon cycle", inst.CUSIP, inst.CouponFrequency)
	}

	ip, err := snap.Interpolator()
	if err != nil {
		return nil, fmt.Errorf("ProjectCashflows: %s: %w", inst.CUSIP, err)
	}

	coupon := inst.CouponRate * inst.FaceValue / float64(inst.CouponFrequency)
	stepMonths := 12 / inst.CouponFrequency

	var schedule []Cashflow
	for d := inst.NextCouponDate; !d.After(inst.MaturityDate); d = utils.AddMonth(d, stepMonths) {
		schedule = append(schedule, Cashflow{
			Date:      d,
			Coupon:    coupon,
			TimeYears: utils.YearsACT365(asOf, d),
		})
	}
	schedule = append(schedule, Cashflow{
		Date:      inst.MaturityDate,
		Principal: inst.FaceValue,
		TimeYears: utils.YearsACT365(asOf, inst.MaturityDate),
	})

	for i := range schedule {
		r, err := ip.RateAt(schedule[i].TimeYears)
		if err != nil {
			var rangeErr *curve.RangeError
			if errors.As(err, &rangeErr) {
				return nil, &curve.MissingCurveError{
					Curve:  snap.Name,
					Reason: fmt.Sprintf("cashflow at t=%.4fy for %s outside curve domain", schedule[i].TimeYears, inst.CUSIP),
					Err:    err,
				}
			}
			return nil, fmt.Errorf("ProjectCashflows: %s: %w", inst.CUSIP, err)
		}
		schedule[i].ZeroRate = r
	}

	return schedule, nil
}
