// Package ui provides the on-screen control panel and HUD. Sliders are
// described by metadata so the panel layout follows the parameter set
// instead of hard-coding each widget.
package ui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/glowfield/particles"
)

// SliderDescriptor binds one slider to a numeric Params field.
type SliderDescriptor struct {
	ID     string
	Label  string
	Format string // Printf format for the value readout
	Min    float32
	Max    float32
	Get    func(p *particles.Params) float64
	Set    func(p *particles.Params, v float64)
}

// Clamp limits v to the slider range.
func (d SliderDescriptor) Clamp(v float64) float64 {
	return math.Max(float64(d.Min), math.Min(float64(d.Max), v))
}

// Apply writes v to p, clamped to the slider range. Returns true if the
// stored value changed.
func (d SliderDescriptor) Apply(p *particles.Params, v float64) bool {
	v = d.Clamp(v)
	if d.Get(p) == v {
		return false
	}
	d.Set(p, v)
	return true
}

// ParamSliders returns the live-tunable sliders in panel order. Count is
// handled separately because a change rebuilds the pool.
func ParamSliders() []SliderDescriptor {
	return []SliderDescriptor{
		{
			ID: "size", Label: "Size", Format: "%.2f", Min: 0.1, Max: 5,
			Get: func(p *particles.Params) float64 { return p.Size },
			Set: func(p *particles.Params, v float64) { p.Size = v },
		},
		{
			ID: "speed", Label: "Speed", Format: "%.2f", Min: 0.1, Max: 5,
			Get: func(p *particles.Params) float64 { return p.Speed },
			Set: func(p *particles.Params, v float64) { p.Speed = v },
		},
		{
			ID: "emission_rate", Label: "Emission", Format: "%.0f/s", Min: 0, Max: 10000,
			Get: func(p *particles.Params) float64 { return p.EmissionRate },
			Set: func(p *particles.Params, v float64) { p.EmissionRate = v },
		},
		{
			ID: "lifetime", Label: "Lifetime", Format: "%.1fs", Min: 0.5, Max: 20,
			Get: func(p *particles.Params) float64 { return p.Lifetime },
			Set: func(p *particles.Params, v float64) { p.Lifetime = v },
		},
		{
			ID: "gravity", Label: "Gravity", Format: "%.2f", Min: -5, Max: 5,
			Get: func(p *particles.Params) float64 { return p.Gravity },
			Set: func(p *particles.Params, v float64) { p.Gravity = v },
		},
		{
			ID: "turbulence", Label: "Turbulence", Format: "%.2f", Min: 0, Max: 5,
			Get: func(p *particles.Params) float64 { return p.Turbulence },
			Set: func(p *particles.Params, v float64) { p.Turbulence = v },
		},
		{
			ID: "wind_x", Label: "Wind X", Format: "%.2f", Min: -5, Max: 5,
			Get: func(p *particles.Params) float64 { return p.WindX },
			Set: func(p *particles.Params, v float64) { p.WindX = v },
		},
		{
			ID: "wind_z", Label: "Wind Z", Format: "%.2f", Min: -5, Max: 5,
			Get: func(p *particles.Params) float64 { return p.WindZ },
			Set: func(p *particles.Params, v float64) { p.WindZ = v },
		},
	}
}

// Count slider bounds. Values snap to countStep.
const (
	MinCount  = 1000
	MaxCount  = 100000
	countStep = 1000
)

// SnapCount rounds a slider value to the nearest count step within bounds.
func SnapCount(v float32) int {
	n := int(math.Round(float64(v)/countStep)) * countStep
	if n < MinCount {
		return MinCount
	}
	if n > MaxCount {
		return MaxCount
	}
	return n
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	WarnColor      rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	SliderHeight   int32
	ButtonHeight   int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 20, G: 25, B: 30, A: 220},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.White,
		WarnColor:      rl.Orange,
		BarBg:          rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:        rl.Color{R: 100, G: 150, B: 200, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     70,
		BarHeight:      12,
		SliderHeight:   14,
		ButtonHeight:   22,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
