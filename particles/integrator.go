package particles

import (
	"math"

	"github.com/pthm-cable/glowfield/noise"
)

// MaxStep bounds the explicit Euler step so frame hitches cannot blow up
// the integration.
const MaxStep = 1.0 / 30.0

// Force scaling.
const (
	NoiseSpatialScale  = 0.1 // position -> noise domain
	NoiseTemporalScale = 0.1 // clock -> noise domain
	ForceScale         = 0.1 // gravity and wind
)

// ClampStep returns min(dt, MaxStep). ok is false for dt <= 0 or a
// non-finite dt, in which case the frame must be skipped.
func ClampStep(dt float64) (clamped float64, ok bool) {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 {
		return 0, false
	}
	return math.Min(dt, MaxStep), true
}

// Integrator advances every live particle by one explicit Euler step.
type Integrator struct {
	field noise.Field
}

// NewIntegrator creates an integrator sampling turbulence from field.
func NewIntegrator(field noise.Field) *Integrator {
	return &Integrator{field: field}
}

// Step ages and moves every slot that is alive on entry. dt must already
// be clamped. t is the absolute clock, which animates the turbulence.
// Returns the number of slots processed and how many of them expired.
// Velocity is never clamped; expiry is the only reset.
func (in *Integrator) Step(p *Pool, dt, t float64, params Params) (alive, expired int) {
	ageRate := float32(dt / params.Lifetime)
	turb := params.Turbulence * dt
	gravity := float32(params.Gravity * dt * ForceScale)
	windX := float32(params.WindX * dt * ForceScale)
	windZ := float32(params.WindZ * dt * ForceScale)
	move := float32(dt * params.Speed)
	nt := t * NoiseTemporalScale

	for i := 0; i < p.n; i++ {
		if p.Life[i] <= 0 {
			continue
		}
		alive++

		p.Life[i] -= ageRate
		if p.Life[i] <= 0 {
			expired++
		}

		i3 := i * 3
		vx, vy, vz := p.Velocities[i3], p.Velocities[i3+1], p.Velocities[i3+2]

		if turb != 0 {
			nx := float64(p.Positions[i3]) * NoiseSpatialScale
			ny := float64(p.Positions[i3+1]) * NoiseSpatialScale
			// Rotate the input triple per axis so the components decorrelate.
			vx += float32(in.field.Sample(nx, ny, nt) * turb)
			vy += float32(in.field.Sample(ny, nt, nx) * turb)
			vz += float32(in.field.Sample(nt, nx, ny) * turb)
		}

		vy += gravity
		vx += windX
		vz += windZ

		p.Velocities[i3] = vx
		p.Velocities[i3+1] = vy
		p.Velocities[i3+2] = vz

		p.Positions[i3] += vx * move
		p.Positions[i3+1] += vy * move
		p.Positions[i3+2] += vz * move
	}
	return alive, expired
}
