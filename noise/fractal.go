package noise

import perlin "github.com/aquilax/go-perlin"

// Fractal octave parameters.
const (
	fractalAlpha   = 2.0 // amplitude falloff per octave
	fractalBeta    = 2.0 // frequency gain per octave
	fractalOctaves = 3
)

// Fractal sums several octaves of Perlin noise for a rougher, more
// billowy turbulence.
type Fractal struct {
	src *perlin.Perlin
}

// NewFractal creates a seeded multi-octave field.
func NewFractal(seed int64) *Fractal {
	return &Fractal{src: perlin.NewPerlin(fractalAlpha, fractalBeta, fractalOctaves, seed)}
}

// Sample implements Field.
func (f *Fractal) Sample(x, y, z float64) float64 {
	return clamp(f.src.Noise3D(x, y, z))
}
