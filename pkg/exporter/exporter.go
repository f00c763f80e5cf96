// Package exporter assembles the three export documents of a study case:
// the vendor-neutral topology, the topology case (in/out of service flags)
// and the steadystate case (operating points). It orchestrates the power
// and transformer resolvers over the raw model records; no I/O happens
// here.
package exporter

import (
	"fmt"
	"time"

	"github.com/voltkraft/gridexport/pkg/model"
	"github.com/voltkraft/gridexport/pkg/power"
	"github.com/voltkraft/gridexport/pkg/schema"
	"github.com/voltkraft/gridexport/pkg/transformer"
	"github.com/voltkraft/gridexport/pkg/validation"
)

// SchemaVersion tags the exported documents.
const SchemaVersion = "1.1.0"

// Result bundles the three documents produced from one study case.
type Result struct {
	Topology     schema.Topology        `json:"topology"`
	TopologyCase schema.TopologyCase    `json:"topology_case"`
	Steadystate  schema.SteadystateCase `json:"steadystate_case"`
}

// Export resolves a grid model into its export documents. Schema
// violations and per-element resolution failures land in the returned
// report; when the report ends up invalid the Result is nil.
func Export(m *model.GridModel) (*Result, *validation.Report) {
	report := model.Validate(m)
	if !report.Valid {
		return nil, report
	}

	meta := schema.Meta{
		Name:    m.Name,
		Project: m.Project,
		Date:    time.Now().UTC(),
		Version: SchemaVersion,
	}
	res := &Result{
		Topology:     schema.Topology{Meta: meta},
		TopologyCase: schema.TopologyCase{Meta: meta},
		Steadystate:  schema.SteadystateCase{Meta: meta},
	}

	for i := range m.Loads {
		exportLoad(&m.Loads[i], res, report)
	}
	for i := range m.Generators {
		exportGenerator(&m.Generators[i], res, report)
	}
	for i := range m.Transformers {
		exportTransformer(&m.Transformers[i], res, report)
	}

	if !report.Valid {
		return nil, report
	}
	return res, report
}

func exportLoad(l *model.LoadRecord, res *Result, report *validation.Report) {
	state, err := resolveLoad(l, report)
	if err != nil {
		report.AddError(validation.Result{
			Level:   validation.LevelExport,
			Message: fmt.Sprintf("load %s: %v", l.Name, err),
			Element: l.Name,
		})
		return
	}
	appendElement(res, schema.Load{
		Name:            l.Name,
		Node:            l.Node,
		System:          schema.SystemConsumer,
		PhaseConnection: string(l.Connection),
		RatedPower:      state.AsRatedPower(),
	}, stateOf(l.Name, state), l.Disabled)
}

func exportGenerator(g *model.GeneratorRecord, res *Result, report *validation.Report) {
	dir := power.DirectionFor(power.RoleProducer, g.Recap)
	state, err := power.FromSCSym(g.Apparent*float64(g.Units), g.CosPhi, dir, g.Scaling, g.Connection)
	if err != nil {
		report.AddError(validation.Result{
			Level:   validation.LevelExport,
			Message: fmt.Sprintf("generator %s: %v", g.Name, err),
			Element: g.Name,
		})
		return
	}
	appendElement(res, schema.Load{
		Name:            g.Name,
		Node:            g.Node,
		System:          schema.SystemProducer,
		PhaseConnection: string(g.Connection),
		RatedPower:      state.AsRatedPower(),
	}, stateOf(g.Name, state), g.Disabled)
}

// resolveLoad dispatches the record to the constructor matching its input
// mode. Asymmetric records carry all three phases and are narrowed to the
// connection's phase count afterwards.
func resolveLoad(l *model.LoadRecord, report *validation.Report) (power.PowerState, error) {
	dir := power.DirectionFor(power.RoleConsumer, l.Recap)

	if l.Asymmetric {
		state, err := resolveLoadAsym(l, dir, report)
		if err != nil {
			return power.PowerState{}, err
		}
		n, err := l.Connection.PhaseCount()
		if err != nil {
			return power.PowerState{}, err
		}
		return state.LimitPhases(n), nil
	}

	switch l.Mode {
	case model.ModePQ:
		return power.FromPQSym(l.Active, l.Reactive, l.Scaling, l.Connection)
	case model.ModePC:
		return power.FromPCSym(l.Active, l.CosPhi, dir, l.Scaling, l.Connection, report)
	case model.ModeIC:
		return power.FromICSym(l.Voltage, l.Current, l.CosPhi, dir, l.Scaling, l.Connection)
	case model.ModeSC:
		return power.FromSCSym(l.Apparent, l.CosPhi, dir, l.Scaling, l.Connection)
	case model.ModeQC:
		return power.FromQCSym(l.Reactive, l.CosPhi, l.Scaling, l.Connection, report)
	case model.ModeIP:
		return power.FromIPSym(l.Voltage, l.Current, l.Active, dir, l.Scaling, l.Connection)
	case model.ModeSP:
		return power.FromSPSym(l.Apparent, l.Active, dir, l.Scaling, l.Connection)
	case model.ModeSQ:
		return power.FromSQSym(l.Apparent, l.Reactive, l.Scaling, l.Connection)
	}
	return power.PowerState{}, fmt.Errorf("unknown input mode %q", l.Mode)
}

func resolveLoadAsym(l *model.LoadRecord, dir schema.PowerFactorDirection, report *validation.Report) (power.PowerState, error) {
	switch l.Mode {
	case model.ModePQ:
		return power.FromPQAsym(l.ActivePhases, l.ReactivePhases, l.Scaling)
	case model.ModePC:
		return power.FromPCAsym(l.ActivePhases, l.CosPhiPhases, dir, l.Scaling, report)
	case model.ModeIC:
		return power.FromICAsym(l.Voltage, l.CurrentPhases, l.CosPhiPhases, dir, l.Scaling)
	case model.ModeSC:
		return power.FromSCAsym(l.ApparentPhases, l.CosPhiPhases, dir, l.Scaling)
	case model.ModeQC:
		return power.FromQCAsym(l.ReactivePhases, l.CosPhiPhases, l.Scaling, report)
	case model.ModeIP:
		return power.FromIPAsym(l.Voltage, l.CurrentPhases, l.ActivePhases, dir, l.Scaling)
	case model.ModeSP:
		return power.FromSPAsym(l.ApparentPhases, l.ActivePhases, dir, l.Scaling)
	case model.ModeSQ:
		return power.FromSQAsym(l.ApparentPhases, l.ReactivePhases, l.Scaling)
	}
	return power.PowerState{}, fmt.Errorf("unknown input mode %q", l.Mode)
}

func stateOf(name string, state power.PowerState) schema.LoadState {
	return schema.LoadState{
		Name:          name,
		ActivePower:   state.AsActivePower(),
		ReactivePower: state.AsReactivePower(),
		QControl:      state.Control,
		PowerFactor:   state.AsPowerFactor(),
	}
}

func appendElement(res *Result, load schema.Load, state schema.LoadState, disabled bool) {
	res.Topology.Loads = append(res.Topology.Loads, load)
	res.Steadystate.Loads = append(res.Steadystate.Loads, state)
	res.TopologyCase.Elements = append(res.TopologyCase.Elements, schema.ElementState{
		Name:     load.Name,
		Disabled: disabled,
	})
}

func exportTransformer(t *model.TransformerRecord, res *Result, report *validation.Report) {
	ec, err := transformer.Resolve(t.Nameplate, report)
	if err != nil {
		report.AddError(validation.Result{
			Level:   validation.LevelExport,
			Message: fmt.Sprintf("transformer %s: %v", t.Name, err),
			Element: t.Name,
		})
		return
	}

	np := t.Nameplate
	sRated := schema.Round(np.RatedPower, schema.DigitsRatedPower)
	out := schema.Transformer{
		Name:   t.Name,
		NodeHV: t.NodeHV,
		NodeLV: t.NodeLV,
		RFe1:   ec.RFe1,
		XH1:    ec.XH1,
		RFe0:   ec.RFe0,
		XH0:    ec.XH0,
		Windings: []schema.Winding{
			windingOf(t.NodeHV, sRated, np.RatedVoltageHV, np.VectorHV, 0, ec.HV),
			windingOf(t.NodeLV, sRated, np.RatedVoltageLV, np.VectorLV, np.PhaseShiftClock, ec.LV),
		},
	}
	if ec.Tap.Side != "" {
		out.TapSide = schema.TapSide(ec.Tap.Side)
		out.TapVoltage = ec.Tap.VoltageMagnitude
		out.TapPhase = ec.Tap.PhaseShift
		out.TapMin = ec.Tap.Min
		out.TapMax = ec.Tap.Max
		out.TapNeutral = ec.Tap.Neutral
	}

	res.Topology.Transformers = append(res.Topology.Transformers, out)
	res.Steadystate.Transformers = append(res.Steadystate.Transformers, schema.TransformerState{
		Name:        t.Name,
		TapPosition: t.TapPosition,
	})
	res.TopologyCase.Elements = append(res.TopologyCase.Elements, schema.ElementState{
		Name:     t.Name,
		Disabled: t.Disabled,
	})
}

func windingOf(node string, sRated, uRated float64, vec transformer.WindingVector, clock int, p transformer.WindingParams) schema.Winding {
	return schema.Winding{
		Node:             node,
		RatedPower:       sRated,
		RatedVoltage:     schema.Round(uRated, schema.DigitsVoltage),
		R1:               p.R1,
		X1:               p.X1,
		R0:               p.R0,
		X0:               p.X0,
		Re:               p.Re,
		Xe:               p.Xe,
		VectorGroup:      schema.WindingVectorGroup(vec),
		PhaseAngleClock:  clock,
		NeutralConnected: p.NeutralConnected,
	}
}
