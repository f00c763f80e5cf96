package transformer

// WindingParams holds the resolved physical parameters of one winding
// side, in Ohm. Zero-sequence and earthing entries are nil where the
// vector group provides no such path.
type WindingParams struct {
	R1               float64
	X1               float64
	R0               *float64
	X0               *float64
	Re               *float64
	Xe               *float64
	NeutralConnected bool
}

// TapChanger is the resolved tap-changer descriptor. Side is empty when
// the transformer has no tap changer; the remaining fields are nil in
// that case.
type TapChanger struct {
	Side             Side
	VoltageMagnitude *float64 // V per step
	PhaseShift       *float64 // deg per step
	Min              *int
	Max              *int
	Neutral          *int
}

// EquivalentCircuit is the resolved physical model of a two-winding
// transformer. It is created fresh per Resolve call and never mutated.
type EquivalentCircuit struct {
	HV WindingParams
	LV WindingParams

	// Shared magnetizing branch. The positive-sequence parameters always
	// exist; the zero-sequence ones only for Y(N)y(n) groups.
	RFe1 float64
	XH1  float64
	RFe0 *float64
	XH0  *float64

	Tap TapChanger
}

func ptr[T any](v T) *T { return &v }
