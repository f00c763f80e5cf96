package schema

import "time"

// Meta identifies the study case an exported document belongs to.
type Meta struct {
	Name    string    `json:"name"`
	Project string    `json:"project,omitempty"`
	Date    time.Time `json:"date"`
	Version string    `json:"version"`
}

// LoadState is the steadystate operating point of a load or generator.
type LoadState struct {
	Name          string           `json:"name"`
	ActivePower   ActivePower      `json:"active_power"`
	ReactivePower ReactivePower    `json:"reactive_power"`
	QControl      QControlStrategy `json:"q_control_strategy"`
	PowerFactor   PowerFactor      `json:"power_factor"`
}

// TransformerState is the steadystate tap setting of a transformer.
type TransformerState struct {
	Name        string `json:"name"`
	TapPosition int    `json:"tap_pos"`
}

// SteadystateCase holds the operating points for every element of a
// topology.
type SteadystateCase struct {
	Meta         Meta               `json:"meta"`
	Loads        []LoadState        `json:"loads"`
	Transformers []TransformerState `json:"transformers"`
}

// ElementState marks an element as out of service in a topology case.
type ElementState struct {
	Name     string `json:"name"`
	Disabled bool   `json:"disabled"`
}

// TopologyCase selects which elements of a topology are in service.
type TopologyCase struct {
	Meta     Meta           `json:"meta"`
	Elements []ElementState `json:"elements"`
}
