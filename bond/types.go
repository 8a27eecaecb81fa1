package bond

import "time"

// Instrument is a fixed-coupon bond position. Reference fields come from
// the instrument book and never change; the fields below the divider are
// appended by the analytics pipeline.
type Instrument struct {
	CUSIP           string
	Issuer          string
	FaceValue       float64
	CouponRate      float64 // annual, decimal (0.05 = 5%)
	CouponFrequency int     // payments per year
	MaturityDate    time.Time
	NextCouponDate  time.Time
	LastPrice       float64
	Quantity        float64
	Weight          float64

	// Computed during the pipeline.
	AsOf             time.Time
	YearsToMaturity  float64
	MarketValue      float64
	LastYield        float64
	ModifiedDuration float64
	Convexity        float64
	DV01             float64
}

// Cashflow is a single dated cash payment for a bond, together with its
// position on the cashflow time axis and the zero rate the valuation date's
// curve assigns to it.
type Cashflow struct {
	Date      time.Time
	Coupon    float64
	Principal float64
	TimeYears float64 // (date - as-of) / 365
	ZeroRate  float64 // interpolated from the curve snapshot, decimal
}

// Amount is the total cash paid on the cashflow date.
func (c Cashflow) Amount() float64 {
	return c.Coupon + c.Principal
}

// Sensitivity holds the bump-and-reprice risk numbers for one instrument.
type Sensitivity struct {
	ModifiedDuration float64
	Convexity        float64
	DV01             float64
}
