// Package noise provides seeded 3D scalar noise fields used to drive
// turbulence in the particle simulation.
package noise

import (
	"errors"
	"fmt"
	"strings"
)

// Field samples a deterministic scalar field in [-1, 1].
type Field interface {
	Sample(x, y, z float64) float64
}

// Kind identifies a noise implementation.
type Kind string

const (
	KindPerlin  Kind = "perlin"
	KindSimplex Kind = "simplex"
	KindFractal Kind = "fractal"
)

// ErrUnknownKind is returned by New for an unrecognised noise kind.
var ErrUnknownKind = errors.New("unknown noise kind")

// New builds the field named by kind, seeded once.
func New(kind string, seed int64) (Field, error) {
	switch Kind(strings.ToLower(kind)) {
	case KindPerlin, "":
		return NewPerlin(seed), nil
	case KindSimplex:
		return NewSimplex(seed), nil
	case KindFractal:
		return NewFractal(seed), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// Func adapts a plain function to Field. Handy for test doubles.
type Func func(x, y, z float64) float64

// Sample implements Field.
func (f Func) Sample(x, y, z float64) float64 {
	return f(x, y, z)
}

// Constant returns a field that always yields v.
func Constant(v float64) Field {
	return Func(func(_, _, _ float64) float64 { return v })
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
