// Package power resolves the electrical operating point of loads and
// generators. Eight ways of specifying a working point (P+Q, P+cosphi,
// V+I+cosphi, S+cosphi, Q+cosphi, V+I+P, S+P, S+Q) are normalized into one
// canonical per-phase record, for symmetric and per-phase-asymmetric
// inputs. All functions are pure; no rounding happens before the
// presentation conversions in convert.go.
package power

import (
	"math"

	"github.com/voltkraft/gridexport/pkg/schema"
)

// PowerState is the canonical per-phase operating point of an element.
// The four slices always share the same length (1, 2 or 3 phases). A
// PowerState is never mutated after construction.
type PowerState struct {
	Apparent  []float64
	Active    []float64
	Reactive  []float64
	CosPhi    []float64
	Direction schema.PowerFactorDirection
	Control   schema.QControlStrategy
}

// Phases returns the number of phases the state spans.
func (s PowerState) Phases() int { return len(s.Apparent) }

// IsEmpty reports whether the state carries no phases at all.
func (s PowerState) IsEmpty() bool { return len(s.Apparent) == 0 }

// TotalApparent returns the plain sum of the per-phase apparent powers.
func (s PowerState) TotalApparent() float64 { return sum(s.Apparent) }

// TotalApparentAbs returns the sum of the per-phase apparent power
// magnitudes.
func (s PowerState) TotalApparentAbs() float64 {
	t := 0.0
	for _, v := range s.Apparent {
		t += math.Abs(v)
	}
	return t
}

// TotalActive returns the sum of the per-phase active powers.
func (s PowerState) TotalActive() float64 { return sum(s.Active) }

// TotalReactive returns the sum of the per-phase reactive powers.
func (s PowerState) TotalReactive() float64 { return sum(s.Reactive) }

// AggregateCosPhi returns the apparent-power-weighted average of the
// per-phase power factors, NaN when no apparent power flows. Note that
// this is not the cos(phi) of the vector sum of P and Q; with
// opposite-signed reactive power across phases the two disagree.
func (s PowerState) AggregateCosPhi() float64 {
	app := s.TotalApparent()
	if app == 0 {
		return math.NaN()
	}
	act := 0.0
	for i, a := range s.Apparent {
		act += a * s.CosPhi[i]
	}
	return math.Abs(act / app)
}

// IsSymmetrical reports whether every per-phase tuple is uniform.
func (s PowerState) IsSymmetrical() bool {
	return s.IsSymmetricalApparent() &&
		s.IsSymmetricalActive() &&
		s.IsSymmetricalReactive() &&
		s.IsSymmetricalCosPhi()
}

// IsSymmetricalApparent reports whether all phases carry the same
// apparent power.
func (s PowerState) IsSymmetricalApparent() bool { return uniform(s.Apparent) }

// IsSymmetricalActive reports whether all phases carry the same active
// power.
func (s PowerState) IsSymmetricalActive() bool { return uniform(s.Active) }

// IsSymmetricalReactive reports whether all phases carry the same
// reactive power.
func (s PowerState) IsSymmetricalReactive() bool { return uniform(s.Reactive) }

// IsSymmetricalCosPhi reports whether all phases share the same power
// factor.
func (s PowerState) IsSymmetricalCosPhi() bool { return uniform(s.CosPhi) }

// LimitPhases returns a copy of the state truncated to its first n
// phases. Used when an element is connected to fewer phases than its
// record describes.
func (s PowerState) LimitPhases(n int) PowerState {
	if n < 0 {
		n = 0
	}
	if n > s.Phases() {
		n = s.Phases()
	}
	return PowerState{
		Apparent:  clonePrefix(s.Apparent, n),
		Active:    clonePrefix(s.Active, n),
		Reactive:  clonePrefix(s.Reactive, n),
		CosPhi:    clonePrefix(s.CosPhi, n),
		Direction: s.Direction,
		Control:   s.Control,
	}
}

func clonePrefix(values []float64, n int) []float64 {
	out := make([]float64, n)
	copy(out, values[:n])
	return out
}

func uniform(values []float64) bool {
	for _, v := range values[min(1, len(values)):] {
		if v != values[0] {
			return false
		}
	}
	return true
}

func sum(values []float64) float64 {
	t := 0.0
	for _, v := range values {
		t += v
	}
	return t
}
