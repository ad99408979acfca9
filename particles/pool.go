package particles

import (
	"fmt"
	"math"

	"github.com/pthm-cable/glowfield/palette"
)

// Sprite scale range assigned per slot at construction.
const (
	MinSize = 0.5
	MaxSize = 2.0
)

// Pool owns every per-particle array (SoA layout). Field i of each array
// describes the same particle; vector fields are packed xyz, so slot i
// lives at [3i, 3i+3).
type Pool struct {
	Positions  []float32 // 3N
	Velocities []float32 // 3N
	Life       []float32 // N, <= 0 means the slot is dead
	Sizes      []float32 // N, fixed per slot
	Colors     []float32 // 3N

	n int
}

func allocPool(count int) *Pool {
	return &Pool{
		Positions:  make([]float32, count*3),
		Velocities: make([]float32, count*3),
		Life:       make([]float32, count),
		Sizes:      make([]float32, count),
		Colors:     make([]float32, count*3),
		n:          count,
	}
}

// NewPool allocates a pool of count slots and fills every slot through the
// emitter's Spawn. Life is then scaled by an independent uniform draw so
// expiries are spread out instead of arriving together.
func NewPool(count int, shape Shape, colors []palette.RGB, em *Emitter) (*Pool, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}
	if !shape.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShape, uint8(shape))
	}
	if len(colors) == 0 {
		return nil, ErrEmptyPalette
	}

	p := allocPool(count)
	for i := 0; i < count; i++ {
		em.Spawn(p, i, shape, colors)
		p.Sizes[i] = float32(MinSize + em.rng.Float64()*(MaxSize-MinSize))
		p.Life[i] *= float32(em.rng.Float64())
	}
	return p, nil
}

// Len returns the pool capacity.
func (p *Pool) Len() int {
	return p.n
}

// Alive reports whether slot i holds a live particle.
func (p *Pool) Alive(i int) bool {
	return p.Life[i] > 0
}

// AliveCount counts live slots.
func (p *Pool) AliveCount() int {
	alive := 0
	for _, l := range p.Life {
		if l > 0 {
			alive++
		}
	}
	return alive
}

// Position returns the position of slot i.
func (p *Pool) Position(i int) (x, y, z float32) {
	i3 := i * 3
	return p.Positions[i3], p.Positions[i3+1], p.Positions[i3+2]
}

// Velocity returns the velocity of slot i.
func (p *Pool) Velocity(i int) (x, y, z float32) {
	i3 := i * 3
	return p.Velocities[i3], p.Velocities[i3+1], p.Velocities[i3+2]
}

// Color returns the color of slot i.
func (p *Pool) Color(i int) palette.RGB {
	i3 := i * 3
	return palette.RGB{R: p.Colors[i3], G: p.Colors[i3+1], B: p.Colors[i3+2]}
}

// Radius returns the distance of slot i from the origin.
func (p *Pool) Radius(i int) float64 {
	x, y, z := p.Position(i)
	return math.Sqrt(float64(x)*float64(x) + float64(y)*float64(y) + float64(z)*float64(z))
}
