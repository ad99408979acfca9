// Package particles implements the particle simulation engine: a fixed
// capacity struct-of-arrays pool, its emission/recycling policy, explicit
// Euler force integration and the bridge exposing per-particle attributes
// as GPU-ready buffers.
package particles

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/pthm-cable/glowfield/palette"
)

// Construction errors.
var (
	ErrInvalidCount = errors.New("particle count must be positive")
	ErrUnknownShape = errors.New("unknown emission shape")
	ErrEmptyPalette = errors.New("palette has no colors")
	ErrInvalidParam = errors.New("invalid parameter")
)

// Shape selects the spatial distribution of newly spawned particles.
type Shape uint8

const (
	ShapePoint Shape = iota
	ShapeSphere
	ShapeBox
	ShapeSpiral
	numShapes
)

var shapeNames = [numShapes]string{"point", "sphere", "box", "spiral"}

// String returns the lowercase shape name.
func (s Shape) String() string {
	if s >= numShapes {
		return fmt.Sprintf("Shape(%d)", uint8(s))
	}
	return shapeNames[s]
}

// Valid reports whether s is a known shape.
func (s Shape) Valid() bool {
	return s < numShapes
}

// Next cycles to the following shape, wrapping.
func (s Shape) Next() Shape {
	return (s + 1) % numShapes
}

// ParseShape converts a shape name (case-insensitive) to a Shape.
func ParseShape(name string) (Shape, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range shapeNames {
		if s == n {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

// Params is the per-frame parameter snapshot. The engine reads it and
// never writes it; hosts pass a fresh copy every frame.
type Params struct {
	Count        int     // pool capacity; a change requires a new engine
	Size         float64 // uniform sprite scale applied in the vertex stage
	Speed        float64 // position integration multiplier
	Palette      string  // palette name for future spawns
	Shape        Shape   // emission shape for future spawns
	EmissionRate float64 // particles per second
	Lifetime     float64 // seconds from spawn to expiry
	Gravity      float64
	Turbulence   float64
	WindX        float64
	WindZ        float64
	Playing      bool
}

// DefaultParams returns the stock snapshot.
func DefaultParams() Params {
	return Params{
		Count:        10000,
		Size:         1,
		Speed:        1,
		Palette:      palette.Default,
		Shape:        ShapeSpiral,
		EmissionRate: 2000,
		Lifetime:     5,
		Gravity:      -0.5,
		Turbulence:   1,
		WindX:        0,
		WindZ:        0,
		Playing:      true,
	}
}

// Validate checks every field against its documented domain.
func (p Params) Validate() error {
	if p.Count <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCount, p.Count)
	}
	if !p.Shape.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownShape, uint8(p.Shape))
	}
	if _, err := palette.Lookup(p.Palette); err != nil {
		return err
	}
	checks := []struct {
		name string
		ok   bool
	}{
		{"size", positive(p.Size)},
		{"speed", positive(p.Speed)},
		{"lifetime", positive(p.Lifetime)},
		{"emission_rate", nonNegative(p.EmissionRate)},
		{"turbulence", nonNegative(p.Turbulence)},
		{"gravity", finite(p.Gravity)},
		{"wind_x", finite(p.WindX)},
		{"wind_z", finite(p.WindZ)},
	}
	for _, c := range checks {
		if !c.ok {
			return fmt.Errorf("%w: %s", ErrInvalidParam, c.name)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func positive(v float64) bool {
	return finite(v) && v > 0
}

func nonNegative(v float64) bool {
	return finite(v) && v >= 0
}
