package transformer

import (
	"errors"
	"fmt"
	"math"

	"github.com/voltkraft/gridexport/pkg/schema"
	"github.com/voltkraft/gridexport/pkg/validation"
)

// ErrZigzagUnsupported is returned for transformers with a zig-zag
// winding. Approximating the zero-sequence path of a Z winding would
// fabricate an electrically wrong model, so resolution fails loudly.
var ErrZigzagUnsupported = errors.New("zigzag vector group is not supported")

// pairing classifies the (HV, LV) vector-group combination. The
// zero-sequence assignment in resolveLeakage branches on it:
//
//	group        |  Dy(n)  |  Y(N)d  | YNyn/Yy |  YNy   |  Yyn   |
//	-------------+---------+---------+---------+--------+--------+
//	r0/x0 HV     |  none   |  total* |  split  |  total |  none  |
//	r0/x0 LV     |  total* |  none   |  split  |  none  |  total |
//	r_fe0/x_h0   |  none   |  none   |   yes   |  yes   |  yes   |
//
// * the magnetizing impedance cannot be separated from the leakage due to
// the delta winding, so the total zero-sequence loop impedance lands on
// the star side.
type pairing int

const (
	pairDeltaStar pairing = iota // HV delta, LV star
	pairStarDelta                // HV star, LV delta
	pairStarStarGeneral
	pairStarStarHVOnly // YNy: no LV return path, whole loop on HV
	pairStarStarLVOnly // Yyn: no HV return path, whole loop on LV
	pairZigzag
)

func classifyPair(hv, lv WindingVector) (pairing, error) {
	switch {
	case hv == VectorZ || hv == VectorZN || lv == VectorZ || lv == VectorZN:
		return pairZigzag, ErrZigzagUnsupported
	case hv == VectorD && (lv == VectorY || lv == VectorYN):
		return pairDeltaStar, nil
	case lv == VectorD && (hv == VectorY || hv == VectorYN):
		return pairStarDelta, nil
	case hv == VectorYN && lv == VectorY:
		return pairStarStarHVOnly, nil
	case hv == VectorY && lv == VectorYN:
		return pairStarStarLVOnly, nil
	case (hv == VectorY || hv == VectorYN) && (lv == VectorY || lv == VectorYN):
		return pairStarStarGeneral, nil
	}
	return 0, fmt.Errorf("unsupported vector group pair %s%s", hv, lv)
}

// Resolve derives the equivalent circuit from nameplate data. Warnings
// for detectable misconfigurations (missing neutral conductor, second tap
// changer) are appended to r; structural violations return an error.
func Resolve(np Nameplate, r *validation.Report) (EquivalentCircuit, error) {
	if r == nil {
		r = validation.NewReport()
	}
	if err := np.Check(); err != nil {
		return EquivalentCircuit{}, err
	}

	pair, err := classifyPair(np.VectorHV, np.VectorLV)
	if err != nil {
		return EquivalentCircuit{}, err
	}

	// All downstream ohmic values derive from the same rounded base so
	// results do not depend on float representation of the raw ratings.
	uRef := schema.Round(np.RatedVoltageHV, schema.DigitsVoltage)
	sRated := schema.Round(np.RatedPower, schema.DigitsRatedPower)
	pu2abs := uRef * uRef / sRated

	ec := EquivalentCircuit{}
	resolveLeakage(&ec, np, pair, pu2abs)
	resolveMagnetizing(&ec, np, pair, uRef, pu2abs)
	resolveNeutral(&ec, np, r)
	resolveEarthing(&ec, np)
	if err := resolveTap(&ec, np, r); err != nil {
		return EquivalentCircuit{}, err
	}
	return ec, nil
}

// resolveLeakage distributes the positive-sequence leakage impedance over
// both sides and assigns the zero-sequence impedance per vector-group
// pairing.
func resolveLeakage(ec *EquivalentCircuit, np Nameplate, pair pairing, pu2abs float64) {
	r1 := np.ResistancePU * pu2abs
	x1 := np.ReactancePU * pu2abs
	ec.HV.R1 = r1 * np.ResistanceDistHV
	ec.LV.R1 = r1 * np.ResistanceDistLV
	ec.HV.X1 = x1 * np.ReactanceDistHV
	ec.LV.X1 = x1 * np.ReactanceDistLV

	zk0 := np.ZeroSeqShortCircuit / 100 * pu2abs

	switch pair {
	case pairDeltaStar:
		if np.ZeroSeqResistance > 0 {
			r0 := np.ZeroSeqResistance / 100 * pu2abs
			ec.LV.R0 = ptr(r0)
			ec.LV.X0 = ptr(math.Sqrt(zk0*zk0 - r0*r0))
		} else {
			ec.LV.X0 = ptr(zk0)
		}
	case pairStarDelta:
		if np.ZeroSeqResistance > 0 {
			r0 := np.ZeroSeqResistance / 100 * pu2abs
			ec.HV.R0 = ptr(r0)
			ec.HV.X0 = ptr(math.Sqrt(zk0*zk0 - r0*r0))
		} else {
			ec.HV.X0 = ptr(zk0)
		}
	case pairStarStarGeneral:
		r0 := np.ZeroResistancePU * pu2abs
		x0 := np.ZeroReactancePU * pu2abs
		ec.HV.R0 = ptr(r0 * np.ZeroSeqDistHV)
		ec.LV.R0 = ptr(r0 * np.ZeroSeqDistLV)
		ec.HV.X0 = ptr(x0 * np.ZeroSeqDistHV)
		ec.LV.X0 = ptr(x0 * np.ZeroSeqDistLV)
	case pairStarStarHVOnly:
		// No return path on the plain-star LV side; the loop impedance
		// cannot be separated afterwards.
		ec.HV.R0 = ptr(np.ZeroResistancePU * pu2abs)
		ec.HV.X0 = ptr(np.ZeroReactancePU * pu2abs)
	case pairStarStarLVOnly:
		ec.LV.R0 = ptr(np.ZeroResistancePU * pu2abs)
		ec.LV.X0 = ptr(np.ZeroReactancePU * pu2abs)
	}
}

// resolveMagnetizing derives the shared magnetizing branch. The
// zero-sequence branch is only separable for Y(N)y(n) groups.
func resolveMagnetizing(ec *EquivalentCircuit, np Nameplate, pair pairing, uRef, pu2abs float64) {
	pFe := schema.Round(np.IronLoss, schema.DigitsRatedPower)
	rFe1 := uRef * uRef / pFe
	zm1 := 100 / np.MagnetizingCurrent * pu2abs
	ec.RFe1 = rFe1
	// parallel R-X identity: zm = r*x/sqrt(r^2+x^2), solved for x
	ec.XH1 = zm1 * rFe1 / math.Sqrt(rFe1*rFe1-zm1*zm1)

	switch pair {
	case pairStarStarGeneral, pairStarStarHVOnly, pairStarStarLVOnly:
		zk0 := np.ZeroSeqShortCircuit / 100 * pu2abs
		zm0 := zk0 * np.MagnetizingToLeakage
		if np.ZeroSeqRToX > 0 {
			rFe0 := zm0 * math.Sqrt(1+np.ZeroSeqRToX*np.ZeroSeqRToX)
			ec.RFe0 = ptr(rFe0)
			ec.XH0 = ptr(zm0 * rFe0 / math.Sqrt(rFe0*rFe0-zm0*zm0))
		} else {
			// non-positive ratio: purely reactive branch
			ec.XH0 = ptr(zm0)
		}
	}
}

// resolveNeutral decides per side whether the star point is actually
// connected to a neutral terminal. A configured neutral-to-terminal
// connection on a terminal without a neutral conductor is a detectable
// misconfiguration: connectivity is forced false and a warning raised.
func resolveNeutral(ec *EquivalentCircuit, np Nameplate, r *validation.Report) {
	ec.HV.NeutralConnected = neutralConnected(np.VectorHV, SideHV, np.NeutralConnection, np.TerminalTechHV, r)
	ec.LV.NeutralConnected = neutralConnected(np.VectorLV, SideLV, np.NeutralConnection, np.TerminalTechLV, r)
}

func neutralConnected(vec WindingVector, side Side, conn NeutralConnection, tech PhaseTechnology, r *validation.Report) bool {
	if !vec.HasNeutral() {
		return false
	}
	switch conn {
	case NeutralABCN:
		if tech == TechThreePhaseNeutral {
			return true
		}
		r.AddWarning(validation.Result{
			Level: validation.LevelElectrical,
			Message: fmt.Sprintf(
				"%s side is configured with a neutral connection to the terminal, but the terminal provides no neutral conductor; neutral_connected is set to false",
				side),
			ActualValue: string(tech),
			Expected:    string(TechThreePhaseNeutral),
		})
		return false
	case NeutralHV:
		return side == SideHV
	case NeutralLV:
		return side == SideLV
	case NeutralHVLV:
		return side == SideHV || side == SideLV
	}
	return false
}

// resolveEarthing exposes the earthing impedance per side only when the
// star point is both connected and earthed.
func resolveEarthing(ec *EquivalentCircuit, np Nameplate) {
	if ec.HV.NeutralConnected && np.EarthingHV.Earthed {
		ec.HV.Re = ptr(np.EarthingHV.Resistance)
		ec.HV.Xe = ptr(np.EarthingHV.Reactance)
	}
	if ec.LV.NeutralConnected && np.EarthingLV.Earthed {
		ec.LV.Re = ptr(np.EarthingLV.Resistance)
		ec.LV.Xe = ptr(np.EarthingLV.Reactance)
	}
}

// resolveTap derives the tap-changer descriptor. A second, independent
// tap changer is not supported and surfaced as a warning rather than
// silently dropped.
func resolveTap(ec *EquivalentCircuit, np Nameplate, r *validation.Report) error {
	if np.Tap.HasSecond {
		r.AddWarning(validation.Result{
			Level:   validation.LevelElectrical,
			Message: "transformer has a second tap changer, which is not supported; only the first one is exported",
		})
	}
	if !np.Tap.Enabled {
		return nil
	}

	var uRef float64
	switch np.Tap.Side {
	case SideHV:
		uRef = schema.Round(np.RatedVoltageHV, schema.DigitsVoltage)
	case SideLV:
		uRef = schema.Round(np.RatedVoltageLV, schema.DigitsVoltage)
	case SideMV:
		return errors.New("tap changer on tertiary side requires a tertiary winding")
	default:
		return fmt.Errorf("unknown tap changer side %q", np.Tap.Side)
	}

	ec.Tap = TapChanger{
		Side:             np.Tap.Side,
		VoltageMagnitude: ptr(np.Tap.VoltagePercent / 100 * uRef),
		PhaseShift:       ptr(np.Tap.PhaseShift),
		Min:              ptr(np.Tap.MinPosition),
		Max:              ptr(np.Tap.MaxPosition),
		Neutral:          ptr(np.Tap.NeutralPosition),
	}
	return nil
}
