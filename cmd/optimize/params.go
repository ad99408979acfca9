package main

import (
	"github.com/pthm-cable/glowfield/config"
	"github.com/pthm-cable/glowfield/particles"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Starting value
}

// ParamVector holds the set of tunable parameters. Order of Specs matches
// the order of values passed to ApplyToParams.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard tunable set, starting from base.
// Count, palette and shape are left alone: they change the look, not the
// balance between emission and expiry.
func NewParamVector(base particles.Params) *ParamVector {
	pv := &ParamVector{
		Specs: []ParamSpec{
			{Name: "emission_rate", Path: "particles.emission_rate", Min: 50, Max: 10000},
			{Name: "lifetime", Path: "particles.lifetime", Min: 0.5, Max: 20},
			{Name: "speed", Path: "particles.speed", Min: 0.1, Max: 5},
			{Name: "turbulence", Path: "particles.turbulence", Min: 0, Max: 5},
			{Name: "gravity", Path: "particles.gravity", Min: -5, Max: 5},
		},
	}
	defaults := pv.Clamp(pv.ExtractFromParams(base))
	for i := range pv.Specs {
		pv.Specs[i].Default = defaults[i]
	}
	return pv
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the starting values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToParams returns p with the clamped values written in.
func (pv *ParamVector) ApplyToParams(p particles.Params, values []float64) particles.Params {
	c := pv.Clamp(values)
	p.EmissionRate = c[0]
	p.Lifetime = c[1]
	p.Speed = c[2]
	p.Turbulence = c[3]
	p.Gravity = c[4]
	return p
}

// ExtractFromParams reads the current values out of p.
func (pv *ParamVector) ExtractFromParams(p particles.Params) []float64 {
	return []float64{
		p.EmissionRate,
		p.Lifetime,
		p.Speed,
		p.Turbulence,
		p.Gravity,
	}
}

// ApplyToConfig writes values into the particles section of cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	p := pv.ApplyToParams(cfg.Params(), values)
	p.Playing = true
	cfg.SetParams(p)
}
