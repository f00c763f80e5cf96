package power

import (
	"math"

	"github.com/voltkraft/gridexport/pkg/schema"
)

// Presentation conversions. Rounding happens here and only here, after
// every arithmetic step, so resolver results are identical regardless of
// call order.

// AsActivePower returns the per-phase active powers rounded for output.
func (s PowerState) AsActivePower() schema.ActivePower {
	return schema.ActivePower{Values: schema.RoundAll(s.Active, schema.DigitsPower)}
}

// AsReactivePower returns the per-phase reactive powers rounded for
// output. Reactive power set indirectly by an external controller (Q(U),
// Q(P)) is not reflected here.
func (s PowerState) AsReactivePower() schema.ReactivePower {
	return schema.ReactivePower{Values: schema.RoundAll(s.Reactive, schema.DigitsPower)}
}

// AsPowerFactor returns the per-phase power factors rounded for output,
// tagged with the state's direction.
func (s PowerState) AsPowerFactor() schema.PowerFactor {
	return schema.PowerFactor{
		Values:    presentableCosPhi(s.CosPhi),
		Direction: s.Direction,
	}
}

// presentableCosPhi rounds the power factors and substitutes 1 for the
// undetermined (NaN) case so the documents stay JSON-encodable.
func presentableCosPhi(values []float64) []float64 {
	out := schema.RoundAll(values, schema.DigitsCosPhi)
	for i, v := range out {
		if math.IsNaN(v) {
			out[i] = 1
		}
	}
	return out
}

// AsRatedPower returns the rated-power record derived from the per-phase
// apparent powers and power factors.
func (s PowerState) AsRatedPower() schema.RatedPower {
	apparent := schema.ApparentPower{Values: schema.RoundAll(s.Apparent, schema.DigitsPower)}
	cosphi := schema.PowerFactor{Values: presentableCosPhi(s.CosPhi)}
	// lengths agree by construction, so NewRatedPower cannot fail here
	rated, _ := schema.NewRatedPower(apparent, cosphi)
	return rated
}
