package scenario

import (
	"fmt"

	"github.com/meenmo/quantrisk/bond"
)

// StressScenario is a named parallel shock to the zero curve, in decimal
// yield terms.
type StressScenario struct {
	Key   string
	Name  string
	Shift float64
}

// StressScenarios is the built-in catalog of historical crisis shocks.
var StressScenarios = []StressScenario{
	{Key: "financial_crisis_2008", Name: "2008 Financial Crisis", Shift: 0.0300},
	{Key: "oil_crisis_1974", Name: "1974 Oil Crisis", Shift: 0.0425},
}

// StressPnL revalues one instrument under the shocked zero curve and
// returns the position PnL: (stressed price − last price) × quantity.
func StressPnL(sc StressScenario, inst bond.Instrument, schedule []bond.Cashflow) (float64, error) {
	stressed, err := bond.PriceFromZeroCurve(inst, schedule, sc.Shift)
	if err != nil {
		return 0, fmt.Errorf("scenario: %s under %s: %w", inst.CUSIP, sc.Key, err)
	}
	return (stressed - inst.LastPrice) * inst.Quantity, nil
}
