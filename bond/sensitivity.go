package bond

// DefaultBump is the yield bump applied on each side of the last yield when
// deriving sensitivities.
const DefaultBump = 0.01

// Sensitivities derives modified duration, convexity, and DV01 by bumping
// the instrument's last yield by ±dy and repricing.
//
//	modified_duration = (price₋ − price₊) / (2 · last_price · dy)
//	convexity         = (price₋ + price₊ − 2·last_price) / (last_price · dy²)
//	dv01              = modified_duration · 0.0001 · last_price
//
// It fails with a DomainError when the last price is not positive.
func Sensitivities(inst Instrument, dy float64) (Sensitivity, error) {
	if inst.LastPrice <= 0 {
		return Sensitivity{}, &DomainError{CUSIP: inst.CUSIP, Reason: "last price must be positive for sensitivity calculation"}
	}
	if dy <= 0 {
		dy = DefaultBump
	}

	priceMinus := PriceFromYield(inst, inst.LastYield-dy)
	pricePlus := PriceFromYield(inst, inst.LastYield+dy)

	duration := (priceMinus - pricePlus) / (2 * inst.LastPrice * dy)
	return Sensitivity{
		ModifiedDuration: duration,
		Convexity:        (priceMinus + pricePlus - 2*inst.LastPrice) / (inst.LastPrice * dy * dy),
		DV01:             duration * 0.0001 * inst.LastPrice,
	}, nil
}
