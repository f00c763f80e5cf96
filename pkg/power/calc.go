package power

import (
	"math"

	"github.com/voltkraft/gridexport/pkg/schema"
	"github.com/voltkraft/gridexport/pkg/validation"
)

// powerExponent is the unit exponent applied to incoming power, voltage
// and current quantities. Study-case records carry SI units (W, V, A), so
// the exponent is 10^0.
const powerExponent = 1e0

// phasePower is the resolved operating point of a single phase.
type phasePower struct {
	apparent  float64
	active    float64
	reactive  float64
	cosphi    float64
	direction schema.PowerFactorDirection
	control   schema.QControlStrategy
}

// reactiveSign maps the power-factor direction onto the sign of the
// reactive power: under-excited consumes reactive power, over-excited
// supplies it.
func reactiveSign(dir schema.PowerFactorDirection) float64 {
	if dir == schema.DirectionUE {
		return 1
	}
	return -1
}

// directionOf derives the power-factor direction from the sign of the
// reactive power.
func directionOf(react float64) schema.PowerFactorDirection {
	if react < 0 {
		return schema.DirectionOE
	}
	return schema.DirectionUE
}

// cosPhiOf returns |active/apparent|, NaN when no apparent power flows.
func cosPhiOf(act, app float64) float64 {
	if app == 0 {
		return math.NaN()
	}
	return math.Abs(act / app)
}

// calcPQ resolves one phase from active and reactive power.
func calcPQ(act, react, scaling float64) phasePower {
	act = act * scaling * powerExponent
	react = react * scaling * powerExponent
	app := math.Hypot(act, react)
	return phasePower{
		apparent:  app,
		active:    act,
		reactive:  react,
		cosphi:    cosPhiOf(act, app),
		direction: directionOf(react),
		control:   schema.QControlQConst,
	}
}

// calcPC resolves one phase from active power and cos(phi). A cos(phi) of
// exactly 0 leaves the operating point undetermined; the documented
// fallback is an all-zero result plus a warning, not an error, because an
// idle element legitimately produces this input.
func calcPC(act, cosphi float64, dir schema.PowerFactorDirection, scaling float64, r *validation.Report) phasePower {
	act = act * scaling * powerExponent
	if cosphi == 0 {
		r.AddWarning(validation.Result{
			Level:   validation.LevelElectrical,
			Message: "cos phi is 0 but only active power is given; actual operating point could not be determined",
		})
		return phasePower{cosphi: cosphi, direction: dir, control: schema.QControlCosPhiConst}
	}
	app := math.Abs(act / cosphi)
	return phasePower{
		apparent:  app,
		active:    act,
		reactive:  reactiveSign(dir) * math.Sqrt(app*app-act*act),
		cosphi:    cosphi,
		direction: dir,
		control:   schema.QControlCosPhiConst,
	}
}

// calcIC resolves one phase from line voltage, current and cos(phi). The
// line-to-phase conversion by sqrt(3) is baked in.
func calcIC(voltage, current, cosphi float64, dir schema.PowerFactorDirection, scaling float64) phasePower {
	app := math.Abs(voltage*current*scaling) * powerExponent / math.Sqrt(3)
	act := math.Copysign(app*cosphi, scaling)
	return phasePower{
		apparent:  app,
		active:    act,
		reactive:  reactiveSign(dir) * math.Sqrt(app*app-act*act),
		cosphi:    cosphi,
		direction: dir,
		control:   schema.QControlCosPhiConst,
	}
}

// calcSC resolves one phase from apparent power and cos(phi). The sign of
// the scaling factor carries the load/generation convention into the
// active power.
func calcSC(app, cosphi float64, dir schema.PowerFactorDirection, scaling float64) phasePower {
	app = math.Abs(app*scaling) * powerExponent
	act := math.Copysign(app*cosphi, scaling)
	return phasePower{
		apparent:  app,
		active:    act,
		reactive:  reactiveSign(dir) * math.Sqrt(app*app-act*act),
		cosphi:    cosphi,
		direction: dir,
		control:   schema.QControlCosPhiConst,
	}
}

// calcQC resolves one phase from reactive power and cos(phi). A cos(phi)
// of exactly 1 makes sin(acos(cosphi)) vanish; same fallback contract as
// calcPC.
func calcQC(react, cosphi, scaling float64, r *validation.Report) phasePower {
	react = react * scaling * powerExponent
	dir := directionOf(react)
	sinphi := math.Sin(math.Acos(cosphi))
	if sinphi == 0 {
		r.AddWarning(validation.Result{
			Level:   validation.LevelElectrical,
			Message: "cos phi is 1 but only reactive power is given; actual operating point could not be determined",
		})
		return phasePower{cosphi: cosphi, direction: dir, control: schema.QControlCosPhiConst}
	}
	app := math.Abs(react / sinphi)
	return phasePower{
		apparent:  app,
		active:    math.Copysign(app*cosphi, scaling),
		reactive:  react,
		cosphi:    cosphi,
		direction: dir,
		control:   schema.QControlCosPhiConst,
	}
}

// calcIP resolves one phase from line voltage, current and active power.
func calcIP(voltage, current, act float64, dir schema.PowerFactorDirection, scaling float64) phasePower {
	act = act * scaling * powerExponent
	app := math.Abs(voltage*current*scaling) * powerExponent / math.Sqrt(3)
	return phasePower{
		apparent:  app,
		active:    act,
		reactive:  reactiveSign(dir) * math.Sqrt(app*app-act*act),
		cosphi:    cosPhiOf(act, app),
		direction: dir,
		control:   schema.QControlCosPhiConst,
	}
}

// calcSP resolves one phase from apparent and active power.
func calcSP(app, act float64, dir schema.PowerFactorDirection, scaling float64) phasePower {
	app = math.Abs(app*scaling) * powerExponent
	act = act * scaling * powerExponent
	return phasePower{
		apparent:  app,
		active:    act,
		reactive:  reactiveSign(dir) * math.Sqrt(app*app-act*act),
		cosphi:    cosPhiOf(act, app),
		direction: dir,
		control:   schema.QControlCosPhiConst,
	}
}

// calcSQ resolves one phase from apparent and reactive power.
func calcSQ(app, react, scaling float64) phasePower {
	app = math.Abs(app*scaling) * powerExponent
	react = react * scaling * powerExponent
	act := math.Copysign(math.Sqrt(app*app-react*react), scaling)
	return phasePower{
		apparent:  app,
		active:    act,
		reactive:  react,
		cosphi:    cosPhiOf(act, app),
		direction: directionOf(react),
		control:   schema.QControlCosPhiConst,
	}
}
