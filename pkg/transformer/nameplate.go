// Package transformer derives the physical equivalent circuit of a
// two-winding transformer from its nameplate data: sequence impedances,
// magnetizing-branch parameters, neutral earthing and tap-changer
// characteristics. Behavior branches on the winding vector group.
package transformer

import "fmt"

// WindingVector is the connection of a single winding.
type WindingVector string

const (
	VectorY  WindingVector = "Y"
	VectorYN WindingVector = "YN"
	VectorD  WindingVector = "D"
	VectorZ  WindingVector = "Z"
	VectorZN WindingVector = "ZN"
)

// HasNeutral reports whether the winding brings out a neutral point.
func (v WindingVector) HasNeutral() bool { return v == VectorYN || v == VectorZN }

func (v WindingVector) valid() bool {
	switch v {
	case VectorY, VectorYN, VectorD, VectorZ, VectorZN:
		return true
	}
	return false
}

// Side names a transformer winding side.
type Side string

const (
	SideHV Side = "HV"
	SideLV Side = "LV"
	// SideMV is the tertiary side; only meaningful for tap changers
	// inherited from three-winding type data.
	SideMV Side = "MV"
)

// NeutralConnection describes how the transformer's star points are
// routed to terminals.
type NeutralConnection string

const (
	NeutralNone NeutralConnection = "NONE"
	NeutralHV   NeutralConnection = "HV"
	NeutralLV   NeutralConnection = "LV"
	NeutralHVLV NeutralConnection = "HV_LV"
	// NeutralABCN routes the star point to the terminal's own neutral
	// conductor, which therefore must exist.
	NeutralABCN NeutralConnection = "ABC_N"
)

// PhaseTechnology is the conductor set of a connected terminal.
type PhaseTechnology string

const (
	TechThreePhase        PhaseTechnology = "THREE_PH"
	TechThreePhaseNeutral PhaseTechnology = "THREE_PH_N"
	TechTwoPhase          PhaseTechnology = "TWO_PH"
	TechOnePhase          PhaseTechnology = "ONE_PH"
)

// Earthing is the neutral earthing configuration of one winding side.
type Earthing struct {
	Earthed    bool    `yaml:"earthed" json:"earthed"`
	Resistance float64 `yaml:"resistance" json:"resistance"` // Ohm
	Reactance  float64 `yaml:"reactance" json:"reactance"`   // Ohm
}

// TapChangerSpec is the nameplate description of the tap changer.
type TapChangerSpec struct {
	Enabled         bool    `yaml:"enabled" json:"enabled"`
	Side            Side    `yaml:"side" json:"side"`
	VoltagePercent  float64 `yaml:"voltage_percent" json:"voltage_percent"` // additional voltage per step, % of rated
	PhaseShift      float64 `yaml:"phase_shift" json:"phase_shift"`         // deg per step
	MinPosition     int     `yaml:"min_position" json:"min_position"`
	MaxPosition     int     `yaml:"max_position" json:"max_position"`
	NeutralPosition int     `yaml:"neutral_position" json:"neutral_position"`
	HasSecond       bool    `yaml:"has_second" json:"has_second"` // a second, independent tap changer
}

// Nameplate is the type-plate data of a two-winding transformer. Voltages
// are in V, powers in VA resp. W, short-circuit and magnetizing figures in
// percent, distribution factors as fractions.
type Nameplate struct {
	RatedVoltageHV float64 `yaml:"rated_voltage_hv" json:"rated_voltage_hv"`
	RatedVoltageLV float64 `yaml:"rated_voltage_lv" json:"rated_voltage_lv"`
	RatedPower     float64 `yaml:"rated_power" json:"rated_power"`
	IronLoss       float64 `yaml:"iron_loss" json:"iron_loss"`

	MagnetizingCurrent  float64 `yaml:"magnetizing_current" json:"magnetizing_current"`     // open-circuit current, %
	ZeroSeqShortCircuit float64 `yaml:"zero_seq_short_circuit" json:"zero_seq_short_circuit"` // uk0, %
	ZeroSeqResistance   float64 `yaml:"zero_seq_resistance" json:"zero_seq_resistance"`     // ur0, %

	ResistancePU     float64 `yaml:"resistance_pu" json:"resistance_pu"`
	ReactancePU      float64 `yaml:"reactance_pu" json:"reactance_pu"`
	ZeroResistancePU float64 `yaml:"zero_resistance_pu" json:"zero_resistance_pu"`
	ZeroReactancePU  float64 `yaml:"zero_reactance_pu" json:"zero_reactance_pu"`

	// Leakage distribution between the sides; resistance and reactance
	// may be distributed independently.
	ResistanceDistHV float64 `yaml:"resistance_dist_hv" json:"resistance_dist_hv"`
	ResistanceDistLV float64 `yaml:"resistance_dist_lv" json:"resistance_dist_lv"`
	ReactanceDistHV  float64 `yaml:"reactance_dist_hv" json:"reactance_dist_hv"`
	ReactanceDistLV  float64 `yaml:"reactance_dist_lv" json:"reactance_dist_lv"`
	ZeroSeqDistHV    float64 `yaml:"zero_seq_dist_hv" json:"zero_seq_dist_hv"`
	ZeroSeqDistLV    float64 `yaml:"zero_seq_dist_lv" json:"zero_seq_dist_lv"`

	// Zero-sequence magnetizing branch, relative to the zero-sequence
	// leakage impedance.
	MagnetizingToLeakage float64 `yaml:"magnetizing_to_leakage" json:"magnetizing_to_leakage"`
	ZeroSeqRToX          float64 `yaml:"zero_seq_r_to_x" json:"zero_seq_r_to_x"`

	VectorHV        WindingVector `yaml:"vector_hv" json:"vector_hv"`
	VectorLV        WindingVector `yaml:"vector_lv" json:"vector_lv"`
	PhaseShiftClock int           `yaml:"phase_shift_clock" json:"phase_shift_clock"`

	NeutralConnection NeutralConnection `yaml:"neutral_connection" json:"neutral_connection"`
	TerminalTechHV    PhaseTechnology   `yaml:"terminal_tech_hv" json:"terminal_tech_hv"`
	TerminalTechLV    PhaseTechnology   `yaml:"terminal_tech_lv" json:"terminal_tech_lv"`
	EarthingHV        Earthing          `yaml:"earthing_hv" json:"earthing_hv"`
	EarthingLV        Earthing          `yaml:"earthing_lv" json:"earthing_lv"`

	Tap TapChangerSpec `yaml:"tap_changer" json:"tap_changer"`
}

// Check rejects nameplates that cannot be resolved, before any
// arithmetic.
func (np Nameplate) Check() error {
	if np.RatedVoltageHV <= 0 || np.RatedVoltageLV <= 0 {
		return fmt.Errorf("rated voltages must be positive (HV %g V, LV %g V)", np.RatedVoltageHV, np.RatedVoltageLV)
	}
	if np.RatedPower <= 0 {
		return fmt.Errorf("rated power must be positive (%g VA)", np.RatedPower)
	}
	if np.IronLoss <= 0 {
		return fmt.Errorf("iron loss must be positive (%g W)", np.IronLoss)
	}
	if np.MagnetizingCurrent <= 0 {
		return fmt.Errorf("magnetizing current must be positive (%g %%)", np.MagnetizingCurrent)
	}
	if !np.VectorHV.valid() {
		return fmt.Errorf("unknown HV vector group %q", np.VectorHV)
	}
	if !np.VectorLV.valid() {
		return fmt.Errorf("unknown LV vector group %q", np.VectorLV)
	}
	return nil
}
