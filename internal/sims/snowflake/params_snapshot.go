package snowflake

import (
	"strconv"

	"snow-ca/internal/core"
)

// Parameters describes the lattice setup and the model coefficients, with
// queued reset-only values reported as pending.
func (c *Controller) Parameters() core.ParameterSnapshot {
	params := c.Params()
	pending := c.PendingParameters()
	model := make([]core.Parameter, 0, len(c.rule.parameters()))
	for _, spec := range c.rule.parameters() {
		p := floatParam(spec.key, spec.label, spec.get(params))
		p.ResetOnly = spec.resetOnly
		if v, ok := pending[spec.key]; ok {
			p.Pending = formatFloat(v)
		}
		model = append(model, p)
	}
	snap := c.Snapshot()
	groups := []core.ParameterGroup{
		{
			Name: "Lattice",
			Params: []core.Parameter{
				intParam("w", "Width", c.cfg.Width),
				intParam("h", "Height", c.cfg.Height),
				stringParam("boundary", "Boundary", c.cfg.Boundary.String()),
				intParam("workers", "Workers", c.exec.Workers()),
				int64Param("seed", "Seed", c.cfg.Seed),
			},
		},
		{
			Name:    string(c.rule.Model()),
			Params:  model,
			Summary: "values marked reset-only apply on the next reset",
		},
		{
			Name: "Run",
			Params: []core.Parameter{
				stringParam("status", "Status", snap.Status.String()),
				int64Param("tick", "Tick", int64(snap.Tick)),
				intParam("ice", "Ice cells", snap.IceCount()),
				floatParam("mass", "Total mass", snap.TotalMass()),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the model coefficients the HUD may adjust.
func (c *Controller) ParameterControls() []core.ParameterControl {
	specs := c.rule.parameters()
	controls := make([]core.ParameterControl, 0, len(specs))
	for _, spec := range specs {
		controls = append(controls, core.ParameterControl{
			Key:       spec.key,
			Label:     spec.label,
			Type:      core.ParamTypeFloat,
			ResetOnly: spec.resetOnly,
			Step:      spec.step,
			Min:       spec.min,
			Max:       spec.max,
		})
	}
	return controls
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: formatFloat(value),
	}
}

func stringParam(key, label, value string) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeString,
		Value: value,
	}
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
