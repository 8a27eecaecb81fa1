package curve

import "time"

// Point is a single observation on a yield curve.
//
// Tenor is in months (e.g. the US Treasury curve quotes 1, 3, 6, 12, ...,
// 360). Yield is the annualized yield to maturity in decimal form.
type Point struct {
	Tenor float64
	Yield float64
}

// Snapshot is a named curve observed on a single date: an ordered sequence
// of points with strictly increasing, unique tenors.
type Snapshot struct {
	Name   string
	AsOf   time.Time
	Points []Point
}

// Observation is one row of a curve history as stored in the curve store:
// a (date, tenor, yield) triple for a named curve.
type Observation struct {
	Curve string
	Date  time.Time
	Tenor float64
	Yield float64
}

// Interpolator builds the piecewise-linear interpolant for this snapshot.
// The interpolation axis is in years (tenor months / 12).
func (s Snapshot) Interpolator() (*Interpolator, error) {
	xs := make([]float64, len(s.Points))
	ys := make([]float64, len(s.Points))
	for i, p := range s.Points {
		xs[i] = p.Tenor / 12.0
		ys[i] = p.Yield
	}
	return NewInterpolator(xs, ys)
}
