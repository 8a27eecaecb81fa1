package utils

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for all dates in configs, the curve store,
// and reports.
const DateLayout = "2006-01-02"

// ParseDate converts YYYY-MM-DD to time.Time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("ParseDate: %w", err)
	}
	return t, nil
}

// MustParseDate is ParseDate for fixtures and tests; it panics on bad input.
func MustParseDate(s string) time.Time {
	t, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Days returns the calendar day count between two dates.
func Days(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24
}

// YearsACT365 is the ACT/365 year fraction used on the cashflow time axis.
func YearsACT365(start, end time.Time) float64 {
	return Days(start, end) / 365.0
}

// YearsToMaturity is the ACT/365.25 year fraction used for an instrument's
// remaining life.
func YearsToMaturity(asOf, maturity time.Time) float64 {
	return Days(asOf, maturity) / 365.25
}

// YearsPrior returns the date the given number of years before asOf.
func YearsPrior(asOf time.Time, years int) time.Time {
	return asOf.AddDate(-years, 0, 0)
}

// AddMonth behaves like Excel's EDATE, avoiding Go's month normalization
// surprises (e.g. Jan 31 + 1 month lands on Feb 28/29, not Mar 2/3).
func AddMonth(t time.Time, months int) time.Time {
	target := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	if target.Month() == t.AddDate(0, months, 0).Month() {
		return t.AddDate(0, months, 0)
	}

	d := t.AddDate(0, months, 0)
	origMonth := int(d.Month())
	for int(d.Month()) == origMonth {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
