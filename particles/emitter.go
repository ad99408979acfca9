package particles

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/glowfield/palette"
)

// Phi is the golden ratio, used by the spiral (phyllotaxis) shape.
const Phi = 1.618033988749895

// Emission geometry.
const (
	ShapeRadius   = 5.0 // sphere radius, spiral outer radius, box half-extent
	MinSpawnSpeed = 0.1
	MaxSpawnSpeed = 0.3
)

// Emitter spawns particles into dead slots. It owns the random source used
// for every spawn draw and the rotating scan cursor.
type Emitter struct {
	rng    *rand.Rand
	cursor int
}

// NewEmitter creates an emitter drawing from rng.
func NewEmitter(rng *rand.Rand) *Emitter {
	return &Emitter{rng: rng}
}

// Cursor returns the slot the next emission scan starts from.
func (e *Emitter) Cursor() int {
	return e.cursor
}

// Spawn writes position, velocity, life=1 and color for slot. Position
// draws come first (u then v, or x, y, z for box), then the velocity draws
// (angle, speed, z factor). Returns true if the slot's color changed.
func (e *Emitter) Spawn(p *Pool, slot int, shape Shape, colors []palette.RGB) bool {
	i3 := slot * 3
	x, y, z := e.samplePosition(shape)
	p.Positions[i3] = float32(x)
	p.Positions[i3+1] = float32(y)
	p.Positions[i3+2] = float32(z)

	a := e.rng.Float64() * 2 * math.Pi
	speed := MinSpawnSpeed + e.rng.Float64()*(MaxSpawnSpeed-MinSpawnSpeed)
	p.Velocities[i3] = float32(math.Cos(a) * speed)
	p.Velocities[i3+1] = float32(math.Sin(a) * speed)
	p.Velocities[i3+2] = float32((e.rng.Float64() - 0.5) * speed)

	p.Life[slot] = 1

	c := colors[slot%len(colors)]
	changed := p.Colors[i3] != c.R || p.Colors[i3+1] != c.G || p.Colors[i3+2] != c.B
	p.Colors[i3] = c.R
	p.Colors[i3+1] = c.G
	p.Colors[i3+2] = c.B
	return changed
}

func (e *Emitter) samplePosition(shape Shape) (x, y, z float64) {
	switch shape {
	case ShapeSphere:
		u, v := e.rng.Float64(), e.rng.Float64()
		theta := math.Acos(1 - 2*u)
		phi := 2 * math.Pi * v
		sinT := math.Sin(theta)
		return ShapeRadius * sinT * math.Cos(phi),
			ShapeRadius * sinT * math.Sin(phi),
			ShapeRadius * math.Cos(theta)
	case ShapeBox:
		x = (e.rng.Float64()*2 - 1) * ShapeRadius
		y = (e.rng.Float64()*2 - 1) * ShapeRadius
		z = (e.rng.Float64()*2 - 1) * ShapeRadius
		return x, y, z
	case ShapeSpiral:
		u, v := e.rng.Float64(), e.rng.Float64()
		r := math.Sqrt(u) * ShapeRadius
		theta := v * Phi * 2 * math.Pi
		return math.Cos(theta) * r, math.Sin(theta) * r, 0
	default:
		return 0, 0, 0
	}
}

// EmitBudget returns floor(rate*dt), or 0 for non-positive or non-finite
// input.
func EmitBudget(rate, dt float64) int {
	b := math.Floor(rate * dt)
	if math.IsNaN(b) || math.IsInf(b, 0) || b <= 0 {
		return 0
	}
	if b > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(b)
}

// Emit scans at most Len() slots starting at the cursor and spawns each
// dead slot found until budget is used up. The cursor then moves forward
// by budget (mod Len()), not by the number actually spawned; a shortfall
// within a pass is dropped rather than carried to the next frame.
func (e *Emitter) Emit(p *Pool, budget int, shape Shape, colors []palette.RGB) (spawned int, colorChanged bool) {
	n := p.Len()
	if budget <= 0 || n == 0 {
		return 0, false
	}

	for k := 0; k < n && spawned < budget; k++ {
		slot := (e.cursor + k) % n
		if p.Life[slot] > 0 {
			continue
		}
		if e.Spawn(p, slot, shape, colors) {
			colorChanged = true
		}
		spawned++
	}

	e.cursor = (e.cursor + budget%n) % n
	return spawned, colorChanged
}
