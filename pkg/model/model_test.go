package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltkraft/gridexport/pkg/power"
)

const studyYAML = `
name: lv-feeder-a
project: campus
loads:
  - name: bakery
    node: n1
    mode: PQ
    connection: THREE_PH_YN
    scaling: 1
    active: 15000
    reactive: 3000
  - name: streetlight
    node: n2
    mode: PC
    connection: ONE_PH_PH_N
    scaling: 1
    recap: true
    active: 200
    cosphi: 0.95
generators:
  - name: pv-roof
    node: n2
    connection: THREE_PH_YN
    apparent: 10000
    units: 2
    cosphi: 0.9
    scaling: 1
transformers:
  - name: station-1
    node_hv: mv-bus
    node_lv: n1
    tap_position: 1
    nameplate:
      rated_voltage_hv: 20000
      rated_voltage_lv: 400
      rated_power: 630000
      iron_loss: 1300
      magnetizing_current: 2
      zero_seq_short_circuit: 4
      resistance_pu: 0.01
      reactance_pu: 0.06
      resistance_dist_hv: 0.5
      resistance_dist_lv: 0.5
      reactance_dist_hv: 0.5
      reactance_dist_lv: 0.5
      vector_hv: D
      vector_lv: YN
      phase_shift_clock: 5
      neutral_connection: LV
      terminal_tech_hv: THREE_PH
      terminal_tech_lv: THREE_PH_N
`

func writeStudy(t *testing.T, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "grid.yaml"), []byte(yaml), 0o644))
	return dir
}

func TestLoadStudy(t *testing.T) {
	dir := writeStudy(t, studyYAML)

	m, err := LoadStudy(dir)
	require.NoError(t, err)

	assert.Equal(t, "lv-feeder-a", m.Name)
	require.Len(t, m.Loads, 2)
	assert.Equal(t, ModePQ, m.Loads[0].Mode)
	assert.Equal(t, power.ThreePhaseNeutral, m.Loads[0].Connection)
	assert.Equal(t, 15000.0, m.Loads[0].Active)
	assert.True(t, m.Loads[1].Recap)

	require.Len(t, m.Generators, 1)
	assert.Equal(t, 2, m.Generators[0].Units)

	require.Len(t, m.Transformers, 1)
	np := m.Transformers[0].Nameplate
	assert.Equal(t, 20000.0, np.RatedVoltageHV)
	assert.Equal(t, 5, np.PhaseShiftClock)
}

func TestLoadStudyMissingFile(t *testing.T) {
	_, err := LoadStudy(t.TempDir())
	assert.Error(t, err)
}

func TestValidateCleanStudy(t *testing.T) {
	dir := writeStudy(t, studyYAML)
	m, err := LoadStudy(dir)
	require.NoError(t, err)

	r := Validate(m)
	assert.True(t, r.Valid, "summary: %s", r.Summary)
	assert.Empty(t, r.Warnings)
}

func TestValidateDuplicateNames(t *testing.T) {
	m := &GridModel{
		Loads: []LoadRecord{
			{Name: "a", Mode: ModePQ, Connection: power.ThreePhaseNeutral},
			{Name: "a", Mode: ModePQ, Connection: power.ThreePhaseNeutral},
		},
	}
	r := Validate(m)
	assert.False(t, r.Valid)
}

func TestValidateUnknownMode(t *testing.T) {
	m := &GridModel{
		Loads: []LoadRecord{{Name: "a", Mode: "XY", Connection: power.ThreePhaseNeutral}},
	}
	r := Validate(m)
	assert.False(t, r.Valid)
}

func TestValidateCosPhiRange(t *testing.T) {
	m := &GridModel{
		Loads: []LoadRecord{{
			Name: "a", Mode: ModePC, Connection: power.ThreePhaseNeutral,
			Active: 100, CosPhi: 1.5,
		}},
	}
	r := Validate(m)
	assert.False(t, r.Valid)
}

func TestValidateVoltageRequired(t *testing.T) {
	m := &GridModel{
		Loads: []LoadRecord{{
			Name: "a", Mode: ModeIC, Connection: power.ThreePhaseNeutral,
			Current: 10, CosPhi: 0.9,
		}},
	}
	r := Validate(m)
	assert.False(t, r.Valid)
}

func TestValidateAsymTupleLength(t *testing.T) {
	m := &GridModel{
		Loads: []LoadRecord{{
			Name: "a", Mode: ModePQ, Connection: power.ThreePhaseNeutral,
			Asymmetric:     true,
			ActivePhases:   []float64{100, 100},
			ReactivePhases: []float64{10, 10, 10},
		}},
	}
	r := Validate(m)
	assert.False(t, r.Valid)
}

func TestValidateGenerator(t *testing.T) {
	m := &GridModel{
		Generators: []GeneratorRecord{{
			Name: "g", Connection: power.ThreePhaseNeutral,
			Apparent: 0, Units: 1, CosPhi: 0.9,
		}},
	}
	r := Validate(m)
	assert.False(t, r.Valid)
}

func TestValidateDistributionFactorWarning(t *testing.T) {
	dir := writeStudy(t, studyYAML)
	m, err := LoadStudy(dir)
	require.NoError(t, err)

	m.Transformers[0].Nameplate.ResistanceDistHV = 0.9
	m.Transformers[0].Nameplate.ResistanceDistLV = 0.9

	r := Validate(m)
	assert.True(t, r.Valid, "a lopsided split is suspicious but not fatal")
	assert.Len(t, r.Warnings, 1)
}
