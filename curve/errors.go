package curve

import "fmt"

// ValidationError reports malformed curve inputs (mismatched lengths,
// duplicate tenors). It is fatal to the call that produced it.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "curve: invalid input: " + e.Reason
}

// RangeError reports an interpolation request outside the curve domain.
// The engine never extrapolates; callers abort the affected instrument.
type RangeError struct {
	T        float64
	Min, Max float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("curve: t=%.6f outside interpolation domain [%.6f, %.6f]", e.T, e.Min, e.Max)
}

// MissingCurveError reports that no usable curve exists for an instrument:
// either the CUSIP has no curve mapping, the store returned nothing for the
// requested range, or a cashflow falls outside the snapshot's domain.
// Callers log it as a warning and skip the instrument.
type MissingCurveError struct {
	Curve  string
	Reason string
	Err    error
}

func (e *MissingCurveError) Error() string {
	return fmt.Sprintf("curve: %s unavailable: %s", e.Curve, e.Reason)
}

func (e *MissingCurveError) Unwrap() error {
	return e.Err
}
