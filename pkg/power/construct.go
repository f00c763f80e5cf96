package power

import (
	"errors"
	"fmt"
	"math"

	"github.com/voltkraft/gridexport/pkg/schema"
	"github.com/voltkraft/gridexport/pkg/validation"
)

// ErrDirectionMismatch is returned by asymmetric constructors when the
// per-phase inputs imply contradicting power-factor directions.
var ErrDirectionMismatch = errors.New("cos phi directions do not match")

// PhaseConnection is the topology an element is connected with.
type PhaseConnection string

const (
	ThreePhaseDelta   PhaseConnection = "THREE_PH_D"
	ThreePhaseEarth   PhaseConnection = "THREE_PH_PH_E"
	ThreePhaseNeutral PhaseConnection = "THREE_PH_YN"
	TwoPhaseEarth     PhaseConnection = "TWO_PH_PH_E"
	TwoPhaseNeutral   PhaseConnection = "TWO_PH_YN"
	OnePhasePhase     PhaseConnection = "ONE_PH_PH_PH"
	OnePhaseNeutral   PhaseConnection = "ONE_PH_PH_N"
	OnePhaseEarth     PhaseConnection = "ONE_PH_PH_E"
)

// PhaseCount returns the number of phases the connection spans, which is
// also the divisor the symmetric constructors split total powers by.
func (c PhaseConnection) PhaseCount() (int, error) {
	switch c {
	case ThreePhaseDelta, ThreePhaseEarth, ThreePhaseNeutral:
		return 3, nil
	case TwoPhaseEarth, TwoPhaseNeutral:
		return 2, nil
	case OnePhasePhase, OnePhaseNeutral, OnePhaseEarth:
		return 1, nil
	}
	return 0, fmt.Errorf("unknown phase connection %q", c)
}

func checkCosPhi(cosphi float64) error {
	if cosphi < 0 || cosphi > 1 {
		return fmt.Errorf("cos phi %g is out of range [0, 1]", cosphi)
	}
	return nil
}

func checkCosPhis(cosphis []float64) error {
	for _, c := range cosphis {
		if err := checkCosPhi(c); err != nil {
			return err
		}
	}
	return nil
}

// checkWithinApparent rejects inputs whose active or reactive component
// exceeds the apparent power. The power triangle has no solution for them
// and the square root would silently yield NaN.
func checkWithinApparent(mode, component string, app, value float64) error {
	if math.Abs(value) > math.Abs(app) {
		return fmt.Errorf("%s: %s power %g exceeds the apparent power %g",
			mode, component, math.Abs(value), math.Abs(app))
	}
	return nil
}

func ensureReport(r *validation.Report) *validation.Report {
	if r == nil {
		return validation.NewReport()
	}
	return r
}

// replicate builds a symmetric PowerState by repeating one phase result.
func replicate(pp phasePower, phases int) PowerState {
	s := PowerState{
		Apparent:  make([]float64, phases),
		Active:    make([]float64, phases),
		Reactive:  make([]float64, phases),
		CosPhi:    make([]float64, phases),
		Direction: pp.direction,
		Control:   pp.control,
	}
	for i := 0; i < phases; i++ {
		s.Apparent[i] = pp.apparent
		s.Active[i] = pp.active
		s.Reactive[i] = pp.reactive
		s.CosPhi[i] = pp.cosphi
	}
	return s
}

// zipPhases builds an asymmetric PowerState from independent per-phase
// results. When the scalar function derived the direction internally, all
// phases must agree on it.
func zipPhases(pps []phasePower, derivedDirection bool) (PowerState, error) {
	if derivedDirection {
		for _, pp := range pps[1:] {
			if pp.direction != pps[0].direction {
				return PowerState{}, ErrDirectionMismatch
			}
		}
	}
	s := PowerState{
		Apparent:  make([]float64, len(pps)),
		Active:    make([]float64, len(pps)),
		Reactive:  make([]float64, len(pps)),
		CosPhi:    make([]float64, len(pps)),
		Direction: pps[0].direction,
		Control:   pps[0].control,
	}
	for i, pp := range pps {
		s.Apparent[i] = pp.apparent
		s.Active[i] = pp.active
		s.Reactive[i] = pp.reactive
		s.CosPhi[i] = pp.cosphi
	}
	return s, nil
}

func checkLengths(name string, lens ...int) error {
	for _, l := range lens[1:] {
		if l != lens[0] {
			return fmt.Errorf("%s: mismatched per-phase input lengths %v", name, lens)
		}
	}
	if lens[0] == 0 {
		return fmt.Errorf("%s: no per-phase inputs given", name)
	}
	return nil
}

// FromPQSym resolves a symmetric state from total active and reactive
// power.
func FromPQSym(act, react, scaling float64, conn PhaseConnection) (PowerState, error) {
	n, err := conn.PhaseCount()
	if err != nil {
		return PowerState{}, err
	}
	q := float64(n)
	return replicate(calcPQ(act/q, react/q, scaling), n), nil
}

// FromPCSym resolves a symmetric state from total active power and
// cos(phi).
func FromPCSym(act, cosphi float64, dir schema.PowerFactorDirection, scaling float64, conn PhaseConnection, r *validation.Report) (PowerState, error) {
	if err := checkCosPhi(cosphi); err != nil {
		return PowerState{}, err
	}
	n, err := conn.PhaseCount()
	if err != nil {
		return PowerState{}, err
	}
	return replicate(calcPC(act/float64(n), cosphi, dir, scaling, ensureReport(r)), n), nil
}

// FromICSym resolves a symmetric state from line voltage, current and
// cos(phi). Voltage and current are per-phase electrical quantities and
// are not split further; the line-to-phase conversion happens inside the
// scalar function.
func FromICSym(voltage, current, cosphi float64, dir schema.PowerFactorDirection, scaling float64, conn PhaseConnection) (PowerState, error) {
	if err := checkCosPhi(cosphi); err != nil {
		return PowerState{}, err
	}
	n, err := conn.PhaseCount()
	if err != nil {
		return PowerState{}, err
	}
	return replicate(calcIC(voltage, current, cosphi, dir, scaling), n), nil
}

// FromSCSym resolves a symmetric state from total apparent power and
// cos(phi).
func FromSCSym(app, cosphi float64, dir schema.PowerFactorDirection, scaling float64, conn PhaseConnection) (PowerState, error) {
	if err := checkCosPhi(cosphi); err != nil {
		return PowerState{}, err
	}
	n, err := conn.PhaseCount()
	if err != nil {
		return PowerState{}, err
	}
	return replicate(calcSC(app/float64(n), cosphi, dir, scaling), n), nil
}

// FromQCSym resolves a symmetric state from total reactive power and
// cos(phi).
func FromQCSym(react, cosphi, scaling float64, conn PhaseConnection, r *validation.Report) (PowerState, error) {
	if err := checkCosPhi(cosphi); err != nil {
		return PowerState{}, err
	}
	n, err := conn.PhaseCount()
	if err != nil {
		return PowerState{}, err
	}
	return replicate(calcQC(react/float64(n), cosphi, scaling, ensureReport(r)), n), nil
}

// FromIPSym resolves a symmetric state from line voltage, current and
// total active power.
func FromIPSym(voltage, current, act float64, dir schema.PowerFactorDirection, scaling float64, conn PhaseConnection) (PowerState, error) {
	n, err := conn.PhaseCount()
	if err != nil {
		return PowerState{}, err
	}
	app := math.Abs(voltage*current*scaling) * powerExponent / math.Sqrt(3)
	if err := checkWithinApparent("ip", "active", app, act/float64(n)*scaling*powerExponent); err != nil {
		return PowerState{}, err
	}
	return replicate(calcIP(voltage, current, act/float64(n), dir, scaling), n), nil
}

// FromSPSym resolves a symmetric state from total apparent and active
// power.
func FromSPSym(app, act float64, dir schema.PowerFactorDirection, scaling float64, conn PhaseConnection) (PowerState, error) {
	n, err := conn.PhaseCount()
	if err != nil {
		return PowerState{}, err
	}
	if err := checkWithinApparent("sp", "active", app*scaling, act*scaling); err != nil {
		return PowerState{}, err
	}
	q := float64(n)
	return replicate(calcSP(app/q, act/q, dir, scaling), n), nil
}

// FromSQSym resolves a symmetric state from total apparent and reactive
// power.
func FromSQSym(app, react, scaling float64, conn PhaseConnection) (PowerState, error) {
	n, err := conn.PhaseCount()
	if err != nil {
		return PowerState{}, err
	}
	if err := checkWithinApparent("sq", "reactive", app*scaling, react*scaling); err != nil {
		return PowerState{}, err
	}
	q := float64(n)
	return replicate(calcSQ(app/q, react/q, scaling), n), nil
}

// FromPQAsym resolves an asymmetric state from per-phase active and
// reactive powers.
func FromPQAsym(acts, reacts []float64, scaling float64) (PowerState, error) {
	if err := checkLengths("pq", len(acts), len(reacts)); err != nil {
		return PowerState{}, err
	}
	pps := make([]phasePower, len(acts))
	for i := range acts {
		pps[i] = calcPQ(acts[i], reacts[i], scaling)
	}
	return zipPhases(pps, true)
}

// FromPCAsym resolves an asymmetric state from per-phase active powers and
// power factors.
func FromPCAsym(acts, cosphis []float64, dir schema.PowerFactorDirection, scaling float64, r *validation.Report) (PowerState, error) {
	if err := checkLengths("pc", len(acts), len(cosphis)); err != nil {
		return PowerState{}, err
	}
	if err := checkCosPhis(cosphis); err != nil {
		return PowerState{}, err
	}
	rep := ensureReport(r)
	pps := make([]phasePower, len(acts))
	for i := range acts {
		pps[i] = calcPC(acts[i], cosphis[i], dir, scaling, rep)
	}
	return zipPhases(pps, false)
}

// FromICAsym resolves an asymmetric state from a shared line voltage and
// per-phase currents and power factors.
func FromICAsym(voltage float64, currents, cosphis []float64, dir schema.PowerFactorDirection, scaling float64) (PowerState, error) {
	if err := checkLengths("ic", len(currents), len(cosphis)); err != nil {
		return PowerState{}, err
	}
	if err := checkCosPhis(cosphis); err != nil {
		return PowerState{}, err
	}
	pps := make([]phasePower, len(currents))
	for i := range currents {
		pps[i] = calcIC(voltage, currents[i], cosphis[i], dir, scaling)
	}
	return zipPhases(pps, false)
}

// FromSCAsym resolves an asymmetric state from per-phase apparent powers
// and power factors.
func FromSCAsym(apps, cosphis []float64, dir schema.PowerFactorDirection, scaling float64) (PowerState, error) {
	if err := checkLengths("sc", len(apps), len(cosphis)); err != nil {
		return PowerState{}, err
	}
	if err := checkCosPhis(cosphis); err != nil {
		return PowerState{}, err
	}
	pps := make([]phasePower, len(apps))
	for i := range apps {
		pps[i] = calcSC(apps[i], cosphis[i], dir, scaling)
	}
	return zipPhases(pps, false)
}

// FromQCAsym resolves an asymmetric state from per-phase reactive powers
// and power factors.
func FromQCAsym(reacts, cosphis []float64, scaling float64, r *validation.Report) (PowerState, error) {
	if err := checkLengths("qc", len(reacts), len(cosphis)); err != nil {
		return PowerState{}, err
	}
	if err := checkCosPhis(cosphis); err != nil {
		return PowerState{}, err
	}
	rep := ensureReport(r)
	pps := make([]phasePower, len(reacts))
	for i := range reacts {
		pps[i] = calcQC(reacts[i], cosphis[i], scaling, rep)
	}
	return zipPhases(pps, true)
}

// FromIPAsym resolves an asymmetric state from a shared line voltage and
// per-phase currents and active powers.
func FromIPAsym(voltage float64, currents, acts []float64, dir schema.PowerFactorDirection, scaling float64) (PowerState, error) {
	if err := checkLengths("ip", len(currents), len(acts)); err != nil {
		return PowerState{}, err
	}
	pps := make([]phasePower, len(currents))
	for i := range currents {
		app := math.Abs(voltage*currents[i]*scaling) * powerExponent / math.Sqrt(3)
		if err := checkWithinApparent("ip", "active", app, acts[i]*scaling*powerExponent); err != nil {
			return PowerState{}, err
		}
		pps[i] = calcIP(voltage, currents[i], acts[i], dir, scaling)
	}
	return zipPhases(pps, false)
}

// FromSPAsym resolves an asymmetric state from per-phase apparent and
// active powers.
func FromSPAsym(apps, acts []float64, dir schema.PowerFactorDirection, scaling float64) (PowerState, error) {
	if err := checkLengths("sp", len(apps), len(acts)); err != nil {
		return PowerState{}, err
	}
	pps := make([]phasePower, len(apps))
	for i := range apps {
		if err := checkWithinApparent("sp", "active", apps[i]*scaling, acts[i]*scaling); err != nil {
			return PowerState{}, err
		}
		pps[i] = calcSP(apps[i], acts[i], dir, scaling)
	}
	return zipPhases(pps, false)
}

// FromSQAsym resolves an asymmetric state from per-phase apparent and
// reactive powers.
func FromSQAsym(apps, reacts []float64, scaling float64) (PowerState, error) {
	if err := checkLengths("sq", len(apps), len(reacts)); err != nil {
		return PowerState{}, err
	}
	pps := make([]phasePower, len(apps))
	for i := range apps {
		if err := checkWithinApparent("sq", "reactive", apps[i]*scaling, reacts[i]*scaling); err != nil {
			return PowerState{}, err
		}
		pps[i] = calcSQ(apps[i], reacts[i], scaling)
	}
	return zipPhases(pps, true)
}
