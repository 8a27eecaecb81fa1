package scenario

import (
	"fmt"
	"strconv"
	"strings"
)

// TreasuryCurveName is the shared government curve. Instruments mapped to
// it select a single tenor point; any other curve name is an
// instrument-specific series and the tenor is kept as an opaque label.
const TreasuryCurveName = "US Treasury"

// CurveMapping ties one CUSIP to its pricing curve.
type CurveMapping struct {
	CurveName   string
	TenorLabel  string
	TenorMonths *float64 // set only for the shared treasury curve
}

// ParseMappings decodes a pipe-delimited list of CUSIP^CurveName^Tenor
// triples. Malformed entries are fatal at startup, so every error here
// aborts the whole parse.
func ParseMappings(encoded string) (map[string]CurveMapping, error) {
	out := make(map[string]CurveMapping)
	for _, entry := range strings.Split(encoded, "|") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, "^")
		if len(parts) != 3 {
			return nil, fmt.Errorf("scenario: malformed curve mapping %q, want CUSIP^CurveName^Tenor", entry)
		}
		cusip, name, tenor := parts[0], parts[1], parts[2]
		if cusip == "" || name == "" || tenor == "" {
			return nil, fmt.Errorf("scenario: empty field in curve mapping %q", entry)
		}
		if _, dup := out[cusip]; dup {
			return nil, fmt.Errorf("scenario: duplicate curve mapping for %s", cusip)
		}

		m := CurveMapping{CurveName: name, TenorLabel: tenor}
		if name == TreasuryCurveName {
			months, err := strconv.ParseFloat(tenor, 64)
			if err != nil {
				return nil, fmt.Errorf("scenario: mapping for %s: treasury tenor %q is not numeric", cusip, tenor)
			}
			m.TenorMonths = &months
		}
		out[cusip] = m
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("scenario: empty curve mapping")
	}
	return out, nil
}
