package driver

import (
	"strconv"
	"time"

	"torus-life/internal/core"
	"torus-life/internal/sims/life"
)

// Parameter keys accepted by SetIntParameter.
const (
	ParamWidth    = "w"
	ParamHeight   = "h"
	ParamCellSize = "cell"
	ParamProb     = "prob"
	ParamInterval = "interval"
)

// Parameters reports the current configuration and run state.
func (d *Driver) Parameters() core.ParameterSnapshot {
	d.mu.Lock()
	cfg := d.cfg
	gen := d.sim.Generation()
	pop := d.sim.Population()
	d.mu.Unlock()

	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Board",
			Params: []core.Parameter{
				intParam(ParamWidth, "Columns", cfg.Width),
				intParam(ParamHeight, "Rows", cfg.Height),
				intParam(ParamCellSize, "Cell size", cfg.CellSize),
				intParam(ParamProb, "Life %", cfg.LiveProbability),
			},
		},
		{
			Name: "Timing",
			Params: []core.Parameter{
				intParam(ParamInterval, "Interval ms", int(cfg.TickInterval/time.Millisecond)),
			},
		},
		{
			Name: "State",
			Params: []core.Parameter{
				intParam("gen", "Generation", gen),
				intParam("pop", "Population", pop),
			},
		},
	}}
}

// ParameterControls lists the HUD-adjustable parameters with their bounds.
func (d *Driver) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: ParamWidth, Label: "Columns", Type: core.ParamTypeInt, Step: 5, Min: life.MinDimension, Max: life.MaxDimension},
		{Key: ParamHeight, Label: "Rows", Type: core.ParamTypeInt, Step: 5, Min: life.MinDimension, Max: life.MaxDimension},
		{Key: ParamCellSize, Label: "Cell size", Type: core.ParamTypeInt, Step: 1, Min: life.MinCellSize, Max: life.MaxCellSize},
		{Key: ParamProb, Label: "Life %", Type: core.ParamTypeInt, Step: 5, Min: life.MinLiveProbability, Max: life.MaxLiveProbability},
		{
			Key: ParamInterval, Label: "Interval ms", Type: core.ParamTypeInt, Step: 50,
			Min: int(life.MinTickInterval / time.Millisecond), Max: int(life.MaxTickInterval / time.Millisecond),
		},
	}
}

// SetIntParameter updates a single configuration field. It reports whether
// the change was applied.
func (d *Driver) SetIntParameter(key string, value int) bool {
	cfg := d.Config()
	switch key {
	case ParamWidth:
		cfg.Width = value
	case ParamHeight:
		cfg.Height = value
	case ParamCellSize:
		cfg.CellSize = value
	case ParamProb:
		cfg.LiveProbability = value
	case ParamInterval:
		cfg.TickInterval = time.Duration(value) * time.Millisecond
	default:
		return false
	}
	return d.Configure(cfg) == nil
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}
