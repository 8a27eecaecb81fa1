package bond

import "fmt"

// ConvergenceError reports a yield solve that failed to converge or hit a
// numerically zero derivative. The instrument's sensitivity results are set
// to missing; the portfolio run continues.
type ConvergenceError struct {
	CUSIP      string
	Iterations int
	Reason     string
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("bond: yield solve for %s failed after %d iterations: %s", e.CUSIP, e.Iterations, e.Reason)
}

// DomainError reports an input outside the mathematical domain of a
// calculation, e.g. a zero or negative price feeding a duration formula.
// Fatal to that instrument only.
type DomainError struct {
	CUSIP  string
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("bond: %s: %s", e.CUSIP, e.Reason)
}
