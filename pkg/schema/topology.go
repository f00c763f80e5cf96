package schema

// WindingVectorGroup is the connection topology of a single winding.
type WindingVectorGroup string

const (
	WindingY  WindingVectorGroup = "Y"
	WindingYN WindingVectorGroup = "YN"
	WindingD  WindingVectorGroup = "D"
	WindingZ  WindingVectorGroup = "Z"
	WindingZN WindingVectorGroup = "ZN"
)

// TapSide names the winding a tap changer acts on.
type TapSide string

const (
	TapSideHV TapSide = "HV"
	TapSideLV TapSide = "LV"
	TapSideMV TapSide = "MV"
)

// SystemType distinguishes the modeled element kind.
type SystemType string

const (
	SystemConsumer SystemType = "CONSUMER"
	SystemProducer SystemType = "PRODUCER"
)

// Load is the topology record of a consumer or producer.
type Load struct {
	Name            string     `json:"name"`
	Node            string     `json:"node"`
	System          SystemType `json:"system_type"`
	PhaseConnection string     `json:"phase_connection"`
	RatedPower      RatedPower `json:"rated_power"`
}

// Winding is one side of a transformer.
type Winding struct {
	Node             string             `json:"node"`
	RatedPower       float64            `json:"s_r"`
	RatedVoltage     float64            `json:"u_r"`
	R1               float64            `json:"r1"`
	X1               float64            `json:"x1"`
	R0               *float64           `json:"r0,omitempty"`
	X0               *float64           `json:"x0,omitempty"`
	Re               *float64           `json:"re,omitempty"`
	Xe               *float64           `json:"xe,omitempty"`
	VectorGroup      WindingVectorGroup `json:"vector_group"`
	PhaseAngleClock  int                `json:"phase_angle_clock"`
	NeutralConnected bool               `json:"neutral_connected"`
}

// Transformer is the topology record of a two-winding transformer.
type Transformer struct {
	Name       string   `json:"name"`
	NodeHV     string   `json:"node_1"`
	NodeLV     string   `json:"node_2"`
	RFe1       float64  `json:"r_fe1"`
	XH1        float64  `json:"x_h1"`
	RFe0       *float64 `json:"r_fe0,omitempty"`
	XH0        *float64 `json:"x_h0,omitempty"`
	TapSide    TapSide  `json:"tap_side,omitempty"`
	TapVoltage *float64 `json:"tap_u_mag,omitempty"`
	TapPhase   *float64 `json:"tap_u_phi,omitempty"`
	TapMin     *int     `json:"tap_min,omitempty"`
	TapMax     *int     `json:"tap_max,omitempty"`
	TapNeutral *int     `json:"tap_neutral,omitempty"`
	Windings   []Winding `json:"windings"`
}

// Topology is the complete vendor-neutral grid description.
type Topology struct {
	Meta         Meta          `json:"meta"`
	Loads        []Load        `json:"loads"`
	Transformers []Transformer `json:"transformers"`
}
