package particles

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/glowfield/noise"
	"github.com/pthm-cable/glowfield/palette"
)

// calmParams returns a playing snapshot with every force disabled.
func calmParams(count int, shape Shape) Params {
	return Params{
		Count:        count,
		Size:         1,
		Speed:        1,
		Palette:      palette.Default,
		Shape:        shape,
		EmissionRate: 0,
		Lifetime:     5,
		Playing:      true,
	}
}

func newTestEngine(t *testing.T, params Params, seed int64) *Engine {
	t.Helper()
	e, err := NewEngine(params, WithSeed(seed), WithNoise(noise.NewPerlin(seed)))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func newTestPool(t *testing.T, count int, shape Shape, seed int64) (*Pool, *Emitter) {
	t.Helper()
	colors, err := palette.Lookup(palette.Default)
	if err != nil {
		t.Fatal(err)
	}
	em := NewEmitter(rand.New(rand.NewSource(seed)))
	p, err := NewPool(count, shape, colors, em)
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	return p, em
}

type poolCopy struct {
	pos, vel, life, size, col []float32
}

func snapshotPool(p *Pool) poolCopy {
	clone := func(s []float32) []float32 { return append([]float32(nil), s...) }
	return poolCopy{
		pos:  clone(p.Positions),
		vel:  clone(p.Velocities),
		life: clone(p.Life),
		size: clone(p.Sizes),
		col:  clone(p.Colors),
	}
}

func equalBits(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (c poolCopy) equal(p *Pool) bool {
	return equalBits(c.pos, p.Positions) &&
		equalBits(c.vel, p.Velocities) &&
		equalBits(c.life, p.Life) &&
		equalBits(c.size, p.Sizes) &&
		equalBits(c.col, p.Colors)
}
