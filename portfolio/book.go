// Package portfolio manages the instrument book: loading instrument rows,
// allocating weights and quantities, and enriching each position with the
// analytics the pipeline derives.
package portfolio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/meenmo/quantrisk/bond"
	"github.com/meenmo/quantrisk/utils"
)

// requiredColumns are the instrument book's reference fields.
var requiredColumns = []string{
	"cusip", "issuer", "face_value", "coupon_rate", "coupon_frequency",
	"maturity_date", "next_coupon_date", "last_price",
}

// LoadCSV reads instrument rows from a CSV file. The quantity and weight
// columns are optional; when absent they are allocated later by Build.
func LoadCSV(path string) ([]bond.Instrument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("portfolio: open instrument data: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("portfolio: read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("portfolio: instrument data missing column %q", col)
		}
	}

	var out []bond.Instrument
	line := 1
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("portfolio: read line %d: %w", line, err)
		}
		line++

		inst, err := instrumentFromRecord(rec, idx)
		if err != nil {
			return nil, fmt.Errorf("portfolio: line %d: %w", line, err)
		}
		out = append(out, inst)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("portfolio: instrument data %s has no rows", path)
	}
	return out, nil
}

func instrumentFromRecord(rec []string, idx map[string]int) (bond.Instrument, error) {
	get := func(col string) string { return rec[idx[col]] }
	getFloat := func(col string) (float64, error) {
		v, err := strconv.ParseFloat(get(col), 64)
		if err != nil {
			return 0, fmt.Errorf("bad %s: %w", col, err)
		}
		return v, nil
	}

	inst := bond.Instrument{CUSIP: get("cusip"), Issuer: get("issuer")}

	var err error
	if inst.FaceValue, err = getFloat("face_value"); err != nil {
		return bond.Instrument{}, err
	}
	if inst.CouponRate, err = getFloat("coupon_rate"); err != nil {
		return bond.Instrument{}, err
	}
	freq, err := strconv.Atoi(get("coupon_frequency"))
	if err != nil || freq <= 0 {
		return bond.Instrument{}, fmt.Errorf("bad coupon_frequency %q: must be a positive integer", get("coupon_frequency"))
	}
	inst.CouponFrequency = freq
	if inst.MaturityDate, err = utils.ParseDate(get("maturity_date")); err != nil {
		return bond.Instrument{}, err
	}
	if inst.NextCouponDate, err = utils.ParseDate(get("next_coupon_date")); err != nil {
		return bond.Instrument{}, err
	}
	if inst.LastPrice, err = getFloat("last_price"); err != nil {
		return bond.Instrument{}, err
	}

	if j, ok := idx["quantity"]; ok && rec[j] != "" {
		if inst.Quantity, err = getFloat("quantity"); err != nil {
			return bond.Instrument{}, err
		}
	}
	if j, ok := idx["weight"]; ok && rec[j] != "" {
		if inst.Weight, err = getFloat("weight"); err != nil {
			return bond.Instrument{}, err
		}
	}
	return inst, nil
}
