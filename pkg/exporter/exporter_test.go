package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltkraft/gridexport/pkg/model"
	"github.com/voltkraft/gridexport/pkg/power"
	"github.com/voltkraft/gridexport/pkg/schema"
	"github.com/voltkraft/gridexport/pkg/transformer"
)

func testModel() *model.GridModel {
	return &model.GridModel{
		Name:    "lv-feeder-a",
		Project: "campus",
		Loads: []model.LoadRecord{{
			Name:       "bakery",
			Node:       "n1",
			Mode:       model.ModePQ,
			Connection: power.ThreePhaseNeutral,
			Scaling:    1,
			Active:     3e6,
			Reactive:   0,
		}},
		Generators: []model.GeneratorRecord{{
			Name:       "pv-roof",
			Node:       "n2",
			Connection: power.ThreePhaseNeutral,
			Apparent:   5000,
			Units:      2,
			CosPhi:     0.9,
			Scaling:    1,
		}},
		Transformers: []model.TransformerRecord{{
			Name:        "station-1",
			NodeHV:      "mv-bus",
			NodeLV:      "n1",
			TapPosition: 1,
			Disabled:    true,
			Nameplate: transformer.Nameplate{
				RatedVoltageHV:      20000,
				RatedVoltageLV:      400,
				RatedPower:          630000,
				IronLoss:            1300,
				MagnetizingCurrent:  2,
				ZeroSeqShortCircuit: 4,
				ResistancePU:        0.01,
				ReactancePU:         0.06,
				ResistanceDistHV:    0.5,
				ResistanceDistLV:    0.5,
				ReactanceDistHV:     0.5,
				ReactanceDistLV:     0.5,
				VectorHV:            transformer.VectorD,
				VectorLV:            transformer.VectorYN,
				PhaseShiftClock:     5,
				NeutralConnection:   transformer.NeutralLV,
				TerminalTechHV:      transformer.TechThreePhase,
				TerminalTechLV:      transformer.TechThreePhaseNeutral,
			},
		}},
	}
}

func TestExport(t *testing.T) {
	res, report := Export(testModel())
	require.NotNil(t, res, "summary: %s", report.Summary)
	assert.True(t, report.Valid)

	assert.Equal(t, "lv-feeder-a", res.Topology.Meta.Name)
	assert.Equal(t, SchemaVersion, res.Topology.Meta.Version)
	assert.Equal(t, res.Topology.Meta, res.Steadystate.Meta)

	require.Len(t, res.Topology.Loads, 2)
	require.Len(t, res.Topology.Transformers, 1)
	require.Len(t, res.Steadystate.Loads, 2)
	require.Len(t, res.Steadystate.Transformers, 1)
	require.Len(t, res.TopologyCase.Elements, 3)
}

func TestExportLoadOperatingPoint(t *testing.T) {
	res, _ := Export(testModel())
	require.NotNil(t, res)

	load := res.Topology.Loads[0]
	assert.Equal(t, schema.SystemConsumer, load.System)
	assert.Equal(t, 3e6, load.RatedPower.Value)

	state := res.Steadystate.Loads[0]
	require.Len(t, state.ActivePower.Values, 3)
	for _, v := range state.ActivePower.Values {
		assert.Equal(t, 1e6, v, "the symmetric total splits evenly over three phases")
	}
	assert.Equal(t, schema.QControlQConst, state.QControl)
	assert.Equal(t, schema.DirectionUE, state.PowerFactor.Direction)
}

func TestExportGeneratorDirection(t *testing.T) {
	res, _ := Export(testModel())
	require.NotNil(t, res)

	gen := res.Topology.Loads[1]
	assert.Equal(t, schema.SystemProducer, gen.System)
	// 10 kVA over three phases; the per-phase values are rounded before
	// summing, so the total lands at 9999.99.
	assert.InDelta(t, 10000.0, gen.RatedPower.Value, 0.02, "parallel units multiply the rated power")

	state := res.Steadystate.Loads[1]
	assert.Equal(t, schema.DirectionOE, state.PowerFactor.Direction,
		"a producer without capacitive characteristic runs over-excited")
}

func TestExportTransformer(t *testing.T) {
	res, _ := Export(testModel())
	require.NotNil(t, res)

	tr := res.Topology.Transformers[0]
	assert.Equal(t, "mv-bus", tr.NodeHV)
	require.Len(t, tr.Windings, 2)

	hv, lv := tr.Windings[0], tr.Windings[1]
	assert.Equal(t, 20000.0, hv.RatedVoltage)
	assert.Equal(t, 400.0, lv.RatedVoltage)
	assert.Equal(t, schema.WindingD, hv.VectorGroup)
	assert.Equal(t, schema.WindingYN, lv.VectorGroup)
	assert.Equal(t, 0, hv.PhaseAngleClock)
	assert.Equal(t, 5, lv.PhaseAngleClock)
	assert.False(t, hv.NeutralConnected)
	assert.True(t, lv.NeutralConnected)
	assert.Nil(t, hv.X0)
	assert.NotNil(t, lv.X0, "Dyn puts the zero-sequence impedance on the star side")

	assert.Equal(t, 1, res.Steadystate.Transformers[0].TapPosition)

	var disabled bool
	for _, e := range res.TopologyCase.Elements {
		if e.Name == "station-1" {
			disabled = e.Disabled
		}
	}
	assert.True(t, disabled)
}

func TestExportNarrowsAsymmetricLoads(t *testing.T) {
	m := testModel()
	m.Loads = []model.LoadRecord{{
		Name:           "welder",
		Node:           "n1",
		Mode:           model.ModePQ,
		Connection:     power.TwoPhaseNeutral,
		Scaling:        1,
		Asymmetric:     true,
		ActivePhases:   []float64{100, 200, 300},
		ReactivePhases: []float64{10, 20, 30},
	}}

	res, report := Export(m)
	require.NotNil(t, res, "summary: %s", report.Summary)

	state := res.Steadystate.Loads[0]
	require.Len(t, state.ActivePower.Values, 2, "records carry three phases, the connection keeps two")
	assert.Equal(t, []float64{100, 200}, state.ActivePower.Values)
}

func TestExportInvalidModel(t *testing.T) {
	m := testModel()
	m.Loads[0].Mode = "XY"

	res, report := Export(m)
	assert.Nil(t, res)
	assert.False(t, report.Valid)
}

func TestExportResolutionFailure(t *testing.T) {
	m := testModel()
	m.Transformers[0].Nameplate.VectorLV = transformer.VectorZN

	res, report := Export(m)
	assert.Nil(t, res, "a zigzag winding must fail the export")
	assert.False(t, report.Valid)
}

func TestExportDirectionMismatch(t *testing.T) {
	m := testModel()
	m.Loads[0] = model.LoadRecord{
		Name:           "mixed",
		Node:           "n1",
		Mode:           model.ModePQ,
		Connection:     power.ThreePhaseNeutral,
		Scaling:        1,
		Asymmetric:     true,
		ActivePhases:   []float64{100, 100, 100},
		ReactivePhases: []float64{50, -50, 50},
	}

	res, report := Export(m)
	assert.Nil(t, res)
	assert.False(t, report.Valid)
}
