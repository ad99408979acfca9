package particles

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/pthm-cable/glowfield/noise"
	"github.com/pthm-cable/glowfield/palette"
)

// SkipReason explains why a step did nothing.
type SkipReason uint8

const (
	SkipNone SkipReason = iota
	SkipPaused
	SkipBadDelta
	SkipBadLifetime
)

func (r SkipReason) String() string {
	switch r {
	case SkipPaused:
		return "paused"
	case SkipBadDelta:
		return "bad_delta"
	case SkipBadLifetime:
		return "bad_lifetime"
	default:
		return "none"
	}
}

// StepResult summarises one engine step.
type StepResult struct {
	Skipped SkipReason
	DT      float64 // clamped delta actually integrated
	Alive   int     // live slots after the step
	Expired int     // slots that died this step
	Budget  int     // emission budget for this step
	Spawned int     // slots respawned this step
	Err     error   // palette/shape problem; emission used the previous values
}

// Engine runs the per-frame simulation over one pool.
type Engine struct {
	pool       *Pool
	emitter    *Emitter
	integrator *Integrator
	bridge     *Bridge

	paletteName string
	colors      []palette.RGB
	shape       Shape
}

type engineOptions struct {
	field noise.Field
	rng   *rand.Rand
}

// Option configures NewEngine.
type Option func(*engineOptions)

// WithNoise sets the turbulence field. Defaults to Perlin seeded from the
// random source.
func WithNoise(field noise.Field) Option {
	return func(o *engineOptions) { o.field = field }
}

// WithRand sets the random source for all spawn draws.
func WithRand(rng *rand.Rand) Option {
	return func(o *engineOptions) { o.rng = rng }
}

// WithSeed seeds both the random source and, unless WithNoise is given,
// the noise field.
func WithSeed(seed int64) Option {
	return func(o *engineOptions) { o.rng = rand.New(rand.NewSource(seed)) }
}

// NewEngine builds a pool of params.Count slots using params.Shape and
// params.Palette for the initial spawn.
func NewEngine(params Params, opts ...Option) (*Engine, error) {
	o := engineOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.field == nil {
		o.field = noise.NewPerlin(o.rng.Int63())
	}

	colors, err := palette.Lookup(params.Palette)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}

	em := NewEmitter(o.rng)
	pool, err := NewPool(params.Count, params.Shape, colors, em)
	if err != nil {
		return nil, fmt.Errorf("creating engine: %w", err)
	}

	return &Engine{
		pool:        pool,
		emitter:     em,
		integrator:  NewIntegrator(o.field),
		bridge:      NewBridge(pool),
		paletteName: params.Palette,
		colors:      colors,
		shape:       params.Shape,
	}, nil
}

// Step runs one frame: age and integrate live particles, respawn dead
// slots up to the emission budget, then mark buffers dirty. A paused
// snapshot, a degenerate dt or a non-positive lifetime leaves the pool and
// the dirty flags untouched.
func (e *Engine) Step(dt, t float64, params Params) StepResult {
	if !params.Playing {
		return StepResult{Skipped: SkipPaused}
	}
	dt, ok := ClampStep(dt)
	if !ok {
		return StepResult{Skipped: SkipBadDelta}
	}
	if !positive(params.Lifetime) {
		return StepResult{Skipped: SkipBadLifetime}
	}

	res := StepResult{DT: dt}
	res.Err = e.sync(params)

	alive, expired := e.integrator.Step(e.pool, dt, t, params)
	res.Expired = expired

	res.Budget = EmitBudget(params.EmissionRate, dt)
	spawned, colorChanged := e.emitter.Emit(e.pool, res.Budget, e.shape, e.colors)
	res.Spawned = spawned
	res.Alive = alive - expired + spawned

	e.bridge.MarkDynamic()
	if colorChanged {
		e.bridge.MarkStatic()
	}
	return res
}

// sync picks up palette and shape changes for future spawns. Unknown
// values keep the previous setting; a valid field is applied even when the
// other one is rejected.
func (e *Engine) sync(params Params) error {
	var errs []error
	if params.Palette != e.paletteName {
		colors, err := palette.Lookup(params.Palette)
		if err != nil {
			errs = append(errs, err)
		} else {
			e.paletteName = params.Palette
			e.colors = colors
		}
	}
	if params.Shape != e.shape {
		if !params.Shape.Valid() {
			errs = append(errs, fmt.Errorf("%w: %d", ErrUnknownShape, uint8(params.Shape)))
		} else {
			e.shape = params.Shape
		}
	}
	return errors.Join(errs...)
}

// Pool exposes the particle arrays for read access between steps.
func (e *Engine) Pool() *Pool { return e.pool }

// Bridge returns the render bridge for this engine's pool.
func (e *Engine) Bridge() *Bridge { return e.bridge }

// Count returns the pool capacity.
func (e *Engine) Count() int { return e.pool.Len() }

// Palette returns the palette name used for new spawns.
func (e *Engine) Palette() string { return e.paletteName }

// Shape returns the emission shape used for new spawns.
func (e *Engine) Shape() Shape { return e.shape }
