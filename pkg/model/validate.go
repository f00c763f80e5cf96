package model

import (
	"fmt"

	"github.com/voltkraft/gridexport/pkg/validation"
)

// Validate performs schema-level validation on a study case. It checks
// the input contracts before any arithmetic runs: known modes, cos(phi)
// ranges, per-phase tuple lengths and positive ratings.
func Validate(m *GridModel) *validation.Report {
	r := validation.NewReport()

	validateNames(m, r)
	for i := range m.Loads {
		validateLoad(&m.Loads[i], i, r)
	}
	for i := range m.Generators {
		validateGenerator(&m.Generators[i], i, r)
	}
	for i := range m.Transformers {
		validateTransformer(&m.Transformers[i], i, r)
	}

	return r
}

func validateNames(m *GridModel, r *validation.Report) {
	seen := make(map[string]bool)
	check := func(name, path string) {
		if name == "" {
			r.AddError(validation.Result{
				Level:     validation.LevelSchema,
				Message:   "element has empty name",
				FieldPath: path,
				Expected:  "non-empty string",
			})
			return
		}
		if seen[name] {
			r.AddError(validation.Result{
				Level:       validation.LevelSchema,
				Message:     fmt.Sprintf("duplicate element name %q", name),
				Element:     name,
				FieldPath:   path,
				ActualValue: name,
			})
		}
		seen[name] = true
	}

	for i, l := range m.Loads {
		check(l.Name, fmt.Sprintf("loads[%d].name", i))
	}
	for i, g := range m.Generators {
		check(g.Name, fmt.Sprintf("generators[%d].name", i))
	}
	for i, t := range m.Transformers {
		check(t.Name, fmt.Sprintf("transformers[%d].name", i))
	}
}

func validateLoad(l *LoadRecord, idx int, r *validation.Report) {
	path := fmt.Sprintf("loads[%d]", idx)

	if !l.Mode.Known() {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     fmt.Sprintf("load %s: unknown input mode %q", l.Name, l.Mode),
			Element:     l.Name,
			FieldPath:   path + ".mode",
			ActualValue: string(l.Mode),
			Expected:    "one of PQ, PC, IC, SC, QC, IP, SP, SQ",
		})
		return
	}

	if _, err := l.Connection.PhaseCount(); err != nil {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     fmt.Sprintf("load %s: %v", l.Name, err),
			Element:     l.Name,
			FieldPath:   path + ".connection",
			ActualValue: string(l.Connection),
		})
		return
	}

	if l.Mode.UsesCosPhi() {
		cosphis := []float64{l.CosPhi}
		if l.Asymmetric {
			cosphis = l.CosPhiPhases
		}
		for _, c := range cosphis {
			if c < 0 || c > 1 {
				r.AddError(validation.Result{
					Level:       validation.LevelSchema,
					Message:     fmt.Sprintf("load %s: cos phi %g is out of range", l.Name, c),
					Element:     l.Name,
					FieldPath:   path + ".cosphi",
					ActualValue: c,
					Expected:    "0..1",
				})
			}
		}
	}

	if l.Mode.UsesVoltage() && l.Voltage <= 0 {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     fmt.Sprintf("load %s: mode %s needs a positive nominal voltage", l.Name, l.Mode),
			Element:     l.Name,
			FieldPath:   path + ".voltage",
			ActualValue: l.Voltage,
			Expected:    "> 0",
		})
	}

	// Asymmetric records always carry all three phase entries; the
	// connection narrows the resolved state afterwards.
	if l.Asymmetric {
		for _, f := range []struct {
			name   string
			values []float64
		}{
			{"active_phases", l.ActivePhases},
			{"reactive_phases", l.ReactivePhases},
			{"apparent_phases", l.ApparentPhases},
			{"cosphi_phases", l.CosPhiPhases},
			{"current_phases", l.CurrentPhases},
		} {
			if len(f.values) != 0 && len(f.values) != 3 {
				r.AddError(validation.Result{
					Level:       validation.LevelSchema,
					Message:     fmt.Sprintf("load %s: %s has %d entries, want all 3 phases", l.Name, f.name, len(f.values)),
					Element:     l.Name,
					FieldPath:   fmt.Sprintf("%s.%s", path, f.name),
					ActualValue: len(f.values),
					Expected:    "3",
				})
			}
		}
	}
}

func validateGenerator(g *GeneratorRecord, idx int, r *validation.Report) {
	path := fmt.Sprintf("generators[%d]", idx)

	if _, err := g.Connection.PhaseCount(); err != nil {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     fmt.Sprintf("generator %s: %v", g.Name, err),
			Element:     g.Name,
			FieldPath:   path + ".connection",
			ActualValue: string(g.Connection),
		})
	}
	if g.Apparent <= 0 {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     fmt.Sprintf("generator %s: rated apparent power must be positive", g.Name),
			Element:     g.Name,
			FieldPath:   path + ".apparent",
			ActualValue: g.Apparent,
			Expected:    "> 0",
		})
	}
	if g.Units <= 0 {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     fmt.Sprintf("generator %s: number of parallel units must be positive", g.Name),
			Element:     g.Name,
			FieldPath:   path + ".units",
			ActualValue: g.Units,
			Expected:    ">= 1",
		})
	}
	if g.CosPhi < 0 || g.CosPhi > 1 {
		r.AddError(validation.Result{
			Level:       validation.LevelSchema,
			Message:     fmt.Sprintf("generator %s: cos phi %g is out of range", g.Name, g.CosPhi),
			Element:     g.Name,
			FieldPath:   path + ".cosphi",
			ActualValue: g.CosPhi,
			Expected:    "0..1",
		})
	}
}

func validateTransformer(t *TransformerRecord, idx int, r *validation.Report) {
	path := fmt.Sprintf("transformers[%d]", idx)

	if err := t.Nameplate.Check(); err != nil {
		r.AddError(validation.Result{
			Level:     validation.LevelSchema,
			Message:   fmt.Sprintf("transformer %s: %v", t.Name, err),
			Element:   t.Name,
			FieldPath: path + ".nameplate",
		})
	}

	// Distribution factors are expected to split one whole impedance.
	np := t.Nameplate
	warnSplit := func(field string, hv, lv float64) {
		if hv+lv != 0 && (hv+lv < 0.99 || hv+lv > 1.01) {
			r.AddWarning(validation.Result{
				Level:       validation.LevelSchema,
				Message:     fmt.Sprintf("transformer %s: %s distribution factors sum to %g", t.Name, field, hv+lv),
				Element:     t.Name,
				FieldPath:   fmt.Sprintf("%s.nameplate", path),
				ActualValue: hv + lv,
				Expected:    "1.0",
			})
		}
	}
	warnSplit("resistance", np.ResistanceDistHV, np.ResistanceDistLV)
	warnSplit("reactance", np.ReactanceDistHV, np.ReactanceDistLV)
	warnSplit("zero-sequence", np.ZeroSeqDistHV, np.ZeroSeqDistLV)
}
