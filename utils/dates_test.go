package utils

import (
	"testing"
	"time"
)

func TestAddMonthEndOfMonth(t *testing.T) {
	t.Parallel()

	cases := []struct {
		start  string
		months int
		want   string
	}{
		{"2024-01-31", 1, "2024-02-29"},
		{"2023-01-31", 1, "2023-02-28"},
		{"2023-08-31", 6, "2024-02-29"},
		{"2024-02-15", 6, "2024-08-15"},
		{"2024-11-30", 3, "2025-02-28"},
	}
	for _, tc := range cases {
		got := AddMonth(MustParseDate(tc.start), tc.months)
		if FormatDate(got) != tc.want {
			t.Errorf("AddMonth(%s, %d) = %s, want %s", tc.start, tc.months, FormatDate(got), tc.want)
		}
	}
}

func TestYearFractions(t *testing.T) {
	t.Parallel()

	start := MustParseDate("2023-01-01")
	end := start.AddDate(0, 0, 365)
	if got := YearsACT365(start, end); got != 1.0 {
		t.Errorf("YearsACT365 = %v, want 1.0", got)
	}

	m := start.AddDate(0, 0, 730)
	want := 730.0 / 365.25
	if got := YearsToMaturity(start, m); got != want {
		t.Errorf("YearsToMaturity = %v, want %v", got, want)
	}
}

func TestYearsPrior(t *testing.T) {
	t.Parallel()

	got := YearsPrior(MustParseDate("2023-08-15"), 2)
	if !got.Equal(time.Date(2021, 8, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("YearsPrior = %s", FormatDate(got))
	}
}
