// Package model holds the plain records supplied by the external
// grid-model access layer, loadable from a YAML study case. Records carry
// SI units: W, var, VA, V, A.
package model

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/voltkraft/gridexport/pkg/power"
	"github.com/voltkraft/gridexport/pkg/transformer"
)

// InputMode selects which pair or triple of quantities specifies a load's
// operating point.
type InputMode string

const (
	ModePQ InputMode = "PQ" // active + reactive
	ModePC InputMode = "PC" // active + cosphi
	ModeIC InputMode = "IC" // voltage + current + cosphi
	ModeSC InputMode = "SC" // apparent + cosphi
	ModeQC InputMode = "QC" // reactive + cosphi
	ModeIP InputMode = "IP" // voltage + current + active
	ModeSP InputMode = "SP" // apparent + active
	ModeSQ InputMode = "SQ" // apparent + reactive
)

// Known reports whether the mode is one of the eight supported ones.
func (m InputMode) Known() bool {
	switch m {
	case ModePQ, ModePC, ModeIC, ModeSC, ModeQC, ModeIP, ModeSP, ModeSQ:
		return true
	}
	return false
}

// UsesCosPhi reports whether the mode carries a power factor input.
func (m InputMode) UsesCosPhi() bool {
	switch m {
	case ModePC, ModeIC, ModeSC, ModeQC:
		return true
	}
	return false
}

// UsesVoltage reports whether the mode needs the nominal voltage.
func (m InputMode) UsesVoltage() bool { return m == ModeIC || m == ModeIP }

// LoadRecord is a consumer as the access layer hands it over.
type LoadRecord struct {
	Name       string                `yaml:"name"`
	Node       string                `yaml:"node"`
	Mode       InputMode             `yaml:"mode"`
	Connection power.PhaseConnection `yaml:"connection"`
	Scaling    float64               `yaml:"scaling"`
	Recap      bool                  `yaml:"recap"` // capacitive characteristic
	Disabled   bool                  `yaml:"disabled,omitempty"`

	// Symmetric inputs (totals resp. line quantities).
	Active   float64 `yaml:"active,omitempty"`
	Reactive float64 `yaml:"reactive,omitempty"`
	Apparent float64 `yaml:"apparent,omitempty"`
	CosPhi   float64 `yaml:"cosphi,omitempty"`
	Current  float64 `yaml:"current,omitempty"`
	Voltage  float64 `yaml:"voltage,omitempty"` // line-to-line, V

	// Per-phase inputs; presence switches the record to asymmetric.
	Asymmetric     bool      `yaml:"asymmetric,omitempty"`
	ActivePhases   []float64 `yaml:"active_phases,omitempty"`
	ReactivePhases []float64 `yaml:"reactive_phases,omitempty"`
	ApparentPhases []float64 `yaml:"apparent_phases,omitempty"`
	CosPhiPhases   []float64 `yaml:"cosphi_phases,omitempty"`
	CurrentPhases  []float64 `yaml:"current_phases,omitempty"`
}

// GeneratorRecord is a producer as the access layer hands it over.
// Generators always specify their operating point via rated apparent
// power and rated cos(phi).
type GeneratorRecord struct {
	Name       string                `yaml:"name"`
	Node       string                `yaml:"node"`
	Connection power.PhaseConnection `yaml:"connection"`
	Apparent   float64               `yaml:"apparent"` // rated, per unit, VA
	Units      int                   `yaml:"units"`    // parallel units
	CosPhi     float64               `yaml:"cosphi"`   // rated
	Recap      bool                  `yaml:"recap"`    // capacitive characteristic
	Scaling    float64               `yaml:"scaling"`
	Disabled   bool                  `yaml:"disabled,omitempty"`
}

// TransformerRecord is a two-winding transformer as the access layer
// hands it over.
type TransformerRecord struct {
	Name        string                `yaml:"name"`
	NodeHV      string                `yaml:"node_hv"`
	NodeLV      string                `yaml:"node_lv"`
	TapPosition int                   `yaml:"tap_position,omitempty"`
	Disabled    bool                  `yaml:"disabled,omitempty"`
	Nameplate   transformer.Nameplate `yaml:"nameplate"`
}

// GridModel is one complete study case.
type GridModel struct {
	Name         string              `yaml:"name"`
	Project      string              `yaml:"project,omitempty"`
	Loads        []LoadRecord        `yaml:"loads"`
	Generators   []GeneratorRecord   `yaml:"generators"`
	Transformers []TransformerRecord `yaml:"transformers"`
}

// Load reads a grid model from a YAML file.
func Load(path string) (*GridModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading study case: %w", err)
	}

	var m GridModel
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing study case YAML: %w", err)
	}

	return &m, nil
}

// LoadStudy loads a grid model from a study directory. It looks for
// grid.yaml in the given directory.
func LoadStudy(studyDir string) (*GridModel, error) {
	return Load(filepath.Join(studyDir, "grid.yaml"))
}
