package schema

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// Decimal digit counts applied once, at the presentation boundary. All
// upstream arithmetic stays unrounded so results do not depend on call
// order.
const (
	DigitsPower      = 2 // per-phase power quantities, W
	DigitsRatedPower = 0 // transformer rated power, VA
	DigitsCosPhi     = 6
	DigitsVoltage    = 1 // V
)

// totalTolerance bounds the float drift allowed between a stored total and
// the sum of its per-phase values.
const totalTolerance = 1e-6

// Round rounds v to the given number of decimal digits.
func Round(v float64, digits int) float64 {
	p := math.Pow(10, float64(digits))
	return math.Round(v*p) / p
}

// RoundAll rounds every value to the given number of decimal digits.
func RoundAll(values []float64, digits int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = Round(v, digits)
	}
	return out
}

// PowerFactorDirection distinguishes under-excited (inductive) from
// over-excited (capacitive) behavior.
type PowerFactorDirection string

const (
	DirectionUE PowerFactorDirection = "UE"
	DirectionOE PowerFactorDirection = "OE"
)

// QControlStrategy tags how an element's reactive power is controlled.
type QControlStrategy string

const (
	QControlQConst      QControlStrategy = "Q_CONST"
	QControlCosPhiConst QControlStrategy = "COSPHI_CONST"
)

// ActivePower is a per-phase active power set in W.
type ActivePower struct {
	Values []float64 `json:"values" yaml:"values"`
}

// Total returns the sum across phases.
func (p ActivePower) Total() float64 { return sum(p.Values) }

// ReactivePower is a per-phase reactive power set in var.
type ReactivePower struct {
	Values []float64 `json:"values" yaml:"values"`
}

// Total returns the sum across phases.
func (p ReactivePower) Total() float64 { return sum(p.Values) }

// ApparentPower is a per-phase apparent power set in VA.
type ApparentPower struct {
	Values []float64 `json:"values" yaml:"values"`
}

// Total returns the sum across phases.
func (p ApparentPower) Total() float64 { return sum(p.Values) }

// PowerFactor is a per-phase cos(phi) set with a shared direction.
type PowerFactor struct {
	Values    []float64            `json:"values" yaml:"values"`
	Direction PowerFactorDirection `json:"direction,omitempty" yaml:"direction,omitempty"`
}

// RatedPower is the rated apparent power of an element, total and per
// phase, with the related rated power factors.
type RatedPower struct {
	Value   float64   `json:"value"`
	Values  []float64 `json:"values"`
	CosPhi  float64   `json:"cosphi"`
	CosPhis []float64 `json:"cosphis"`
}

// NewRatedPower builds a RatedPower from per-phase apparent powers and
// power factors. The total is the rounded sum of the per-phase values; the
// total cos(phi) is the power-weighted average.
func NewRatedPower(apparent ApparentPower, cosphi PowerFactor) (RatedPower, error) {
	if len(apparent.Values) != len(cosphi.Values) {
		return RatedPower{}, fmt.Errorf("rated power: %d apparent power values but %d power factors",
			len(apparent.Values), len(cosphi.Values))
	}
	// A rated cos(phi) of 1 stands in for the undefined zero-power case so
	// the record stays JSON-encodable.
	total := Round(apparent.Total(), DigitsPower)
	weighted := 1.0
	if total != 0 {
		act := 0.0
		for i, s := range apparent.Values {
			act += s * cosphi.Values[i]
		}
		weighted = Round(math.Abs(act/apparent.Total()), DigitsCosPhi)
	}
	return RatedPower{
		Value:   total,
		Values:  apparent.Values,
		CosPhi:  weighted,
		CosPhis: cosphi.Values,
	}, nil
}

// Validate checks that the stored total matches the per-phase values.
func (p RatedPower) Validate() error {
	if len(p.Values) != len(p.CosPhis) {
		return fmt.Errorf("rated power: %d values but %d power factors", len(p.Values), len(p.CosPhis))
	}
	if !scalar.EqualWithinAbs(p.Value, Round(sum(p.Values), DigitsPower), totalTolerance) {
		return fmt.Errorf("rated power mismatch: total is %g, phase values sum to %g", p.Value, sum(p.Values))
	}
	return nil
}

func sum(values []float64) float64 {
	s := 0.0
	for _, v := range values {
		s += v
	}
	return s
}
